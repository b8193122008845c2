package usecase

import (
	"context"
	"log"

	chat "github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/domain"
	repository "github.com/iwoork/homeforpup-sub008/internal/pkg/chat/persistence/repository/port"
)

const (
	DefaultMessageLimit = 50
	MaxMessageLimit     = 200
)

type ListMessagesInput struct {
	CallerID string
	ThreadID string
	Limit    int
}

type ListMessagesUseCase struct {
	Repo repository.ChatRepository
}

func NewListMessagesUseCase(repo repository.ChatRepository) *ListMessagesUseCase {
	return &ListMessagesUseCase{Repo: repo}
}

// Execute returns the newest messages of a thread the caller takes part in.
func (uc *ListMessagesUseCase) Execute(ctx context.Context, in ListMessagesInput) ([]chat.Message, error) {
	if _, err := authorizeThread(ctx, uc.Repo, in.ThreadID, in.CallerID); err != nil {
		return nil, err
	}

	limit := in.Limit
	if limit <= 0 {
		limit = DefaultMessageLimit
	}
	if limit > MaxMessageLimit {
		limit = MaxMessageLimit
	}

	msgs, err := uc.Repo.ListMessages(ctx, in.ThreadID, limit)
	if err != nil {
		return nil, persistence(err)
	}

	visible := make([]chat.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Involves(in.CallerID) {
			visible = append(visible, m)
		}
	}
	if len(visible) != len(msgs) {
		log.Printf("messaging: warning: thread %s has %d messages not involving %s", in.ThreadID, len(msgs)-len(visible), in.CallerID)
	}
	return visible, nil
}
