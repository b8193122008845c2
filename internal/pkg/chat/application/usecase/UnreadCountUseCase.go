package usecase

import (
	"context"
)

type UnreadCountInput struct {
	CallerID string
}

// UnreadCountUseCase sums the caller's unread counters over every thread
// the caller can list. It reads cached counters only.
type UnreadCountUseCase struct {
	Threads *ListThreadsUseCase
}

func NewUnreadCountUseCase(threads *ListThreadsUseCase) *UnreadCountUseCase {
	return &UnreadCountUseCase{Threads: threads}
}

func (uc *UnreadCountUseCase) Execute(ctx context.Context, in UnreadCountInput) (int, error) {
	threads, err := uc.Threads.Execute(ctx, ListThreadsInput{CallerID: in.CallerID})
	if err != nil {
		return 0, err
	}
	total := 0
	for _, t := range threads {
		total += t.UnreadCount[in.CallerID]
	}
	return total, nil
}
