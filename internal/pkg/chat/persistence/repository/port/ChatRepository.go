package repository

import (
	"context"
	"errors"

	chat "github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/domain"
)

// MaxBatchItems is the largest number of items one atomic DeleteItems call
// may touch.
const MaxBatchItems = 100

var (
	// ErrNotFound is returned by single-record reads when the key is absent.
	ErrNotFound = errors.New("repository: record not found")
	// ErrBatchTooLarge is returned when an atomic group exceeds MaxBatchItems.
	ErrBatchTooLarge = errors.New("repository: batch exceeds item limit")
)

// ItemKind names the record families a thread owns.
type ItemKind string

const (
	ItemThread     ItemKind = "thread"
	ItemProjection ItemKind = "projection"
	ItemMessage    ItemKind = "message"
)

// ItemRef addresses one record for deletion. ID is the owner id for
// projections and the message id for messages; it is empty for threads.
type ItemRef struct {
	Kind     ItemKind
	ThreadID string
	ID       string
}

// ThreadStore holds canonical thread records and per-participant
// projections. Projections are indexed by owner, newest first.
type ThreadStore interface {
	GetThread(ctx context.Context, threadID string) (*chat.Thread, error)
	PutThread(ctx context.Context, t chat.Thread) error
	GetProjection(ctx context.Context, threadID string, ownerID string) (*chat.ThreadProjection, error)
	// PutProjection writes p and moves it to p.RecencyKey() in the owner index.
	PutProjection(ctx context.Context, p chat.ThreadProjection) error
	// ListThreadProjections returns every projection stored for a thread.
	ListThreadProjections(ctx context.Context, threadID string) ([]chat.ThreadProjection, error)
	// ListProjectionsByOwner is the secondary-index query, ordered by
	// recency key descending.
	ListProjectionsByOwner(ctx context.Context, ownerID string) ([]chat.ThreadProjection, error)
}

// MessageStore is the append-only per-thread message log.
type MessageStore interface {
	AppendMessage(ctx context.Context, m chat.Message) error
	// ListMessages returns the newest messages first. limit <= 0 means all.
	ListMessages(ctx context.Context, threadID string, limit int) ([]chat.Message, error)
	// MarkMessagesRead sets read on the given messages and returns how many
	// flipped from unread.
	MarkMessagesRead(ctx context.Context, threadID string, messageIDs []string) (int, error)
}

// Transactor covers the writes that must be applied as one unit.
type Transactor interface {
	// CreateThread writes the canonical thread, its projections and the
	// first message atomically: all of them exist afterwards or none do.
	CreateThread(ctx context.Context, t chat.Thread, projections []chat.ThreadProjection, first chat.Message) error
	// DeleteItems removes up to MaxBatchItems records atomically and reports
	// how many of them existed. Absent records are not an error.
	DeleteItems(ctx context.Context, items []ItemRef) (int, error)
}

// ChatRepository defines persistence operations for the messaging domain
type ChatRepository interface {
	ThreadStore
	MessageStore
	Transactor
}
