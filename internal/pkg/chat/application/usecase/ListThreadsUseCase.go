package usecase

import (
	"context"
	"log"

	chat "github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/domain"
	repository "github.com/iwoork/homeforpup-sub008/internal/pkg/chat/persistence/repository/port"
)

type ListThreadsInput struct {
	CallerID string
}

// ListThreadsUseCase returns the caller's threads, most recent activity
// first. Index hits are re-checked for membership and collapsed by thread id.
type ListThreadsUseCase struct {
	Repo repository.ChatRepository
}

func NewListThreadsUseCase(repo repository.ChatRepository) *ListThreadsUseCase {
	return &ListThreadsUseCase{Repo: repo}
}

func (uc *ListThreadsUseCase) Execute(ctx context.Context, in ListThreadsInput) ([]chat.ThreadProjection, error) {
	if in.CallerID == "" {
		return nil, ErrAccessDenied
	}
	found, err := uc.Repo.ListProjectionsByOwner(ctx, in.CallerID)
	if err != nil {
		return nil, persistence(err)
	}

	threads := make([]chat.ThreadProjection, 0, len(found))
	seen := make(map[string]struct{}, len(found))
	for _, p := range found {
		if !p.HasParticipant(in.CallerID) {
			log.Printf("messaging: dropping thread %s from %s's list: not a participant", p.ID, in.CallerID)
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		threads = append(threads, p)
	}
	return threads, nil
}
