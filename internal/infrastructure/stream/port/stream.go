package port

import "context"

// Publisher appends payloads to a durable stream under a subject.
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
	Close()
}
