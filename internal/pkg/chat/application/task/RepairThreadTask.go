package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	qport "github.com/iwoork/homeforpup-sub008/internal/infrastructure/queue/port"
	"github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/usecase"
)

// RepairThreadTaskType is the queue task name for rebuilding a thread's
// cached summary from its message log.
const RepairThreadTaskType = "messaging:repair_thread"

// RepairQueue is the asynq queue repair tasks are enqueued on.
const RepairQueue = "messaging"

// RepairRetention keeps finished repairs visible to operators in the queue
// inspector for a day.
const RepairRetention = 24 * time.Hour

// RepairThreadTaskPayload is the JSON payload transported via the queue.
type RepairThreadTaskPayload struct {
	ThreadID string `json:"thread_id"`
}

// RegisterRepairThreadTask binds the repair handler to srv.
func RegisterRepairThreadTask(srv qport.Server, uc *usecase.RepairThreadUseCase) {
	srv.Register(RepairThreadTaskType, NewRepairThreadHandler(uc))
}

// NewRepairThreadHandler runs RepairThreadUseCase for one task. A thread
// that no longer exists is treated as done.
func NewRepairThreadHandler(uc *usecase.RepairThreadUseCase) qport.Handler {
	return func(ctx context.Context, t qport.Task) error {
		var p RepairThreadTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: retrying will not help
			log.Printf("repair task: bad payload: %v", err)
			return nil
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		out, err := uc.Execute(ctx, usecase.RepairThreadInput{ThreadID: p.ThreadID})
		switch {
		case errors.Is(err, usecase.ErrNotFound), errors.Is(err, usecase.ErrValidation):
			log.Printf("repair task: skip thread %q: %v", p.ThreadID, err)
			return nil
		case err != nil:
			return err
		}
		log.Printf("repair task: thread %s rebuilt, %d messages, %d projections", p.ThreadID, out.Thread.MessageCount, out.Projections)
		return nil
	}
}

// QueueDriftReporter schedules a repair for every drift report. Reports for
// the same thread within a minute collapse into one task.
type QueueDriftReporter struct {
	Client qport.Client
}

func NewQueueDriftReporter(c qport.Client) *QueueDriftReporter {
	return &QueueDriftReporter{Client: c}
}

var _ usecase.DriftReporter = (*QueueDriftReporter)(nil)

func (r *QueueDriftReporter) ReportDrift(ctx context.Context, d usecase.DriftReport) error {
	if d.ThreadID == "" {
		return nil
	}
	payload, err := json.Marshal(RepairThreadTaskPayload{ThreadID: d.ThreadID})
	if err != nil {
		return fmt.Errorf("repair task: encode: %w", err)
	}
	_, err = r.Client.Enqueue(ctx, qport.Task{Type: RepairThreadTaskType, Payload: payload}, qport.EnqueueOption{
		Queue:     RepairQueue,
		ProcessIn: 5 * time.Second,
		MaxRetry:  10,
		UniqueTTL: time.Minute,
		Retention: RepairRetention,
	})
	if errors.Is(err, qport.ErrDuplicateTask) {
		return nil
	}
	return err
}
