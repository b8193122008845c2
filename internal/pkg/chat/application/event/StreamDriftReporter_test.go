package event

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/usecase"
)

type capturePublisher struct {
	subject string
	data    []byte
}

func (c *capturePublisher) Publish(_ context.Context, subject string, data []byte) error {
	c.subject, c.data = subject, data
	return nil
}

func (c *capturePublisher) Close() {}

func TestStreamDriftReporterPublishesPerThread(t *testing.T) {
	pub := &capturePublisher{}
	r := NewStreamDriftReporter(pub, "messaging.drift")
	at := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

	err := r.ReportDrift(context.Background(), usecase.DriftReport{
		ThreadID: "5b1f", Operation: "send_reply", Record: "projection:u1", Error: "timeout", At: at,
	})
	if err != nil {
		t.Fatal(err)
	}
	if pub.subject != "messaging.drift.5b1f" {
		t.Fatalf("subject = %s", pub.subject)
	}
	var got map[string]any
	if err := json.Unmarshal(pub.data, &got); err != nil {
		t.Fatal(err)
	}
	if got["thread_id"] != "5b1f" || got["record"] != "projection:u1" || got["operation"] != "send_reply" {
		t.Fatalf("payload = %v", got)
	}
}
