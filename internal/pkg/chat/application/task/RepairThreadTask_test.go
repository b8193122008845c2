package task

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	qport "github.com/iwoork/homeforpup-sub008/internal/infrastructure/queue/port"
	chat "github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/domain"
	"github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/usecase"
	"github.com/iwoork/homeforpup-sub008/internal/pkg/chat/persistence/repository/adapter"
)

type fakeClient struct {
	tasks []qport.Task
	opts  []qport.EnqueueOption
	err   error
}

func (f *fakeClient) Enqueue(_ context.Context, t qport.Task, opts ...qport.EnqueueOption) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.tasks = append(f.tasks, t)
	f.opts = append(f.opts, opts...)
	return "task-1", nil
}

func (f *fakeClient) Close() error { return nil }

type fakeServer struct {
	handlers map[string]qport.Handler
}

func (s *fakeServer) Register(taskType string, h qport.Handler) { s.handlers[taskType] = h }
func (s *fakeServer) Run(context.Context) error                 { return nil }

func TestQueueDriftReporterEnqueuesRepair(t *testing.T) {
	c := &fakeClient{}
	r := NewQueueDriftReporter(c)

	if err := r.ReportDrift(context.Background(), usecase.DriftReport{ThreadID: "t9"}); err != nil {
		t.Fatal(err)
	}
	if len(c.tasks) != 1 || c.tasks[0].Type != RepairThreadTaskType {
		t.Fatalf("tasks = %+v", c.tasks)
	}
	var p RepairThreadTaskPayload
	if err := json.Unmarshal(c.tasks[0].Payload, &p); err != nil || p.ThreadID != "t9" {
		t.Fatalf("payload = %s", c.tasks[0].Payload)
	}
	if c.opts[0].Queue != RepairQueue || c.opts[0].UniqueTTL == 0 || c.opts[0].Retention != RepairRetention {
		t.Fatalf("opts = %+v", c.opts[0])
	}
}

func TestQueueDriftReporterIgnoresDuplicates(t *testing.T) {
	c := &fakeClient{err: qport.ErrDuplicateTask}
	if err := NewQueueDriftReporter(c).ReportDrift(context.Background(), usecase.DriftReport{ThreadID: "t9"}); err != nil {
		t.Fatalf("duplicate should be swallowed: %v", err)
	}
	c.err = errors.New("redis down")
	if err := NewQueueDriftReporter(c).ReportDrift(context.Background(), usecase.DriftReport{ThreadID: "t9"}); err == nil {
		t.Fatal("enqueue failure should surface")
	}
}

func TestRepairHandlerRebuildsThread(t *testing.T) {
	repo := adapter.NewMemoryChatRepository()
	ctx := context.Background()
	at := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)

	first := chat.Message{ID: "m1", ThreadID: "t1", SenderID: "a", ReceiverID: "b", Content: "hi", Timestamp: at, MessageType: chat.MessageTypeGeneral}
	th, err := chat.NewThread("t1", "Hello", chat.ParticipantInfo{UserID: "a"}, chat.ParticipantInfo{UserID: "b"}, first)
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.CreateThread(ctx, th, th.Projections(), first); err != nil {
		t.Fatal(err)
	}
	// a reply whose fan-out never happened
	if err := repo.AppendMessage(ctx, chat.Message{ID: "m2", ThreadID: "t1", SenderID: "b", ReceiverID: "a", Content: "yo", Timestamp: at.Add(time.Minute)}); err != nil {
		t.Fatal(err)
	}

	srv := &fakeServer{handlers: map[string]qport.Handler{}}
	RegisterRepairThreadTask(srv, usecase.NewRepairThreadUseCase(repo))
	h := srv.handlers[RepairThreadTaskType]
	if h == nil {
		t.Fatal("handler not registered")
	}

	if err := h(ctx, qport.Task{Type: RepairThreadTaskType, Payload: []byte(`{"thread_id":"t1"}`)}); err != nil {
		t.Fatal(err)
	}
	p, _ := repo.GetProjection(ctx, "t1", "a")
	if p.MessageCount != 2 || p.UnreadCount["a"] != 1 || p.LastMessage.ID != "m2" {
		t.Fatalf("projection = %+v", p)
	}

	// gone threads and junk payloads are not retried
	if err := h(ctx, qport.Task{Payload: []byte(`{"thread_id":"gone"}`)}); err != nil {
		t.Fatalf("missing thread: %v", err)
	}
	if err := h(ctx, qport.Task{Payload: []byte(`not json`)}); err != nil {
		t.Fatalf("bad payload: %v", err)
	}
}
