package event

import (
	"context"
	"encoding/json"
	"fmt"

	sport "github.com/iwoork/homeforpup-sub008/internal/infrastructure/stream/port"
	"github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/usecase"
)

// StreamDriftReporter publishes drift reports to "<Prefix>.<threadID>" so
// operators can follow partial fan-out failures per thread.
type StreamDriftReporter struct {
	Publisher sport.Publisher
	Prefix    string
}

func NewStreamDriftReporter(p sport.Publisher, prefix string) *StreamDriftReporter {
	return &StreamDriftReporter{Publisher: p, Prefix: prefix}
}

var _ usecase.DriftReporter = (*StreamDriftReporter)(nil)

func (r *StreamDriftReporter) ReportDrift(ctx context.Context, d usecase.DriftReport) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("drift event: encode: %w", err)
	}
	return r.Publisher.Publish(ctx, Subject(r.Prefix, d.ThreadID), data)
}

// Subject is the stream subject for a thread's drift reports.
func Subject(prefix, threadID string) string {
	return prefix + "." + threadID
}
