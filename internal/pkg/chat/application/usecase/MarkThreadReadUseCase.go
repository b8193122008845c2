package usecase

import (
	"context"
	"time"

	repository "github.com/iwoork/homeforpup-sub008/internal/pkg/chat/persistence/repository/port"
)

type MarkThreadReadInput struct {
	CallerID string
	ThreadID string
}

// MarkThreadReadUseCase marks every unread message addressed to the caller
// as read and zeroes the caller's unread counter on the canonical record and
// on the caller's projection. Nothing is written when nothing changed, so a
// repeated call is a no-op.
type MarkThreadReadUseCase struct {
	Repo  repository.ChatRepository
	Drift DriftReporter
	Now   func() time.Time
}

func NewMarkThreadReadUseCase(repo repository.ChatRepository, drift DriftReporter) *MarkThreadReadUseCase {
	return &MarkThreadReadUseCase{
		Repo:  repo,
		Drift: drift,
		Now:   func() time.Time { return time.Now().UTC() },
	}
}

// Execute returns how many messages were marked read.
func (uc *MarkThreadReadUseCase) Execute(ctx context.Context, in MarkThreadReadInput) (int, error) {
	if _, err := authorizeThread(ctx, uc.Repo, in.ThreadID, in.CallerID); err != nil {
		return 0, err
	}

	msgs, err := uc.Repo.ListMessages(ctx, in.ThreadID, 0)
	if err != nil {
		return 0, persistence(err)
	}
	var unread []string
	for _, m := range msgs {
		if m.ReceiverID == in.CallerID && !m.Read {
			unread = append(unread, m.ID)
		}
	}

	marked := 0
	if len(unread) > 0 {
		if marked, err = uc.Repo.MarkMessagesRead(ctx, in.ThreadID, unread); err != nil {
			return 0, persistence(err)
		}
	}

	const op = "mark_thread_read"
	now := uc.Now()

	t, err := uc.Repo.GetThread(ctx, in.ThreadID)
	if err == nil && t.ResetUnread(in.CallerID, now) {
		err = uc.Repo.PutThread(ctx, *t)
	}
	if err != nil {
		reportDrift(ctx, uc.Drift, in.ThreadID, op, "thread", err)
	}

	// re-read so a reply that landed meanwhile is not overwritten
	p, err := uc.Repo.GetProjection(ctx, in.ThreadID, in.CallerID)
	if err == nil && p.ResetUnread(in.CallerID, now) {
		err = uc.Repo.PutProjection(ctx, *p)
	}
	if err != nil {
		reportDrift(ctx, uc.Drift, in.ThreadID, op, "projection:"+in.CallerID, err)
	}
	return marked, nil
}
