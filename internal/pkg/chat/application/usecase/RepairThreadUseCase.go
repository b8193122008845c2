package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/domain"
	repository "github.com/iwoork/homeforpup-sub008/internal/pkg/chat/persistence/repository/port"
)

type RepairThreadInput struct {
	ThreadID string
}

type RepairThreadOutput struct {
	Thread      chat.Thread
	Projections int
}

// RepairThreadUseCase rebuilds a thread's cached summary (message count,
// last message, unread counters) from the message log and rewrites the
// canonical record and one projection per participant, recreating any that
// went missing.
//
// It is privileged: there is no caller and no access check. Only the queue
// worker and the repair-thread command reach it.
type RepairThreadUseCase struct {
	Repo repository.ChatRepository
}

func NewRepairThreadUseCase(repo repository.ChatRepository) *RepairThreadUseCase {
	return &RepairThreadUseCase{Repo: repo}
}

func (uc *RepairThreadUseCase) Execute(ctx context.Context, in RepairThreadInput) (*RepairThreadOutput, error) {
	if in.ThreadID == "" {
		return nil, invalid("thread_id is required")
	}
	t, err := uc.Repo.GetThread(ctx, in.ThreadID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: thread %s", ErrNotFound, in.ThreadID)
	}
	if err != nil {
		return nil, persistence(err)
	}

	msgs, err := uc.Repo.ListMessages(ctx, in.ThreadID, 0)
	if err != nil {
		return nil, persistence(err)
	}
	fresh := t.Rederive(msgs)

	if err := uc.Repo.PutThread(ctx, fresh); err != nil {
		return nil, persistence(err)
	}
	written := 0
	for _, p := range fresh.Projections() {
		if err := uc.Repo.PutProjection(ctx, p); err != nil {
			return nil, persistence(err)
		}
		written++
	}
	return &RepairThreadOutput{Thread: fresh, Projections: written}, nil
}
