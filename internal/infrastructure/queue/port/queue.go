package port

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateTask is returned by Enqueue when a unique task with the same
// type and payload is already pending.
var ErrDuplicateTask = errors.New("queue: duplicate task")

// Task is a background job: a stable type name and opaque payload bytes.
type Task struct {
	Type    string
	Payload []byte
}

// Handler processes a Task. Return a non-nil error to signal retry per adapter policy.
// Handlers must be idempotent.
type Handler func(ctx context.Context, task Task) error

// EnqueueOption controls enqueue behavior. Zero values mean "unspecified".
type EnqueueOption struct {
	Queue     string        // logical queue name
	ProcessIn time.Duration // delay before processing
	MaxRetry  int
	UniqueTTL time.Duration // duplicates within the window are rejected with ErrDuplicateTask
	Retention time.Duration // how long a completed task stays inspectable
}

// Client enqueues tasks for background processing.
type Client interface {
	Enqueue(ctx context.Context, t Task, opts ...EnqueueOption) (id string, err error)
	Close() error
}

// Server runs background workers that handle tasks. Run blocks until ctx is
// canceled and then drains in-flight tasks.
type Server interface {
	Register(taskType string, h Handler)
	Run(ctx context.Context) error
}
