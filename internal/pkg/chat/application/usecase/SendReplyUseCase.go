package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	chat "github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/domain"
	repository "github.com/iwoork/homeforpup-sub008/internal/pkg/chat/persistence/repository/port"
)

// SendReplyInput carries a reply to an existing thread. Subject defaults to
// the thread subject.
type SendReplyInput struct {
	CallerID    string
	ThreadID    string
	ReceiverID  string
	Content     string
	Subject     string
	MessageType string
}

// SendReplyUseCase appends a message and then fans the new summary out to
// the canonical record and every participant projection.
//
// The append is the only write that can fail the call. Summary writes that
// fail afterwards are reported as drift; the message log stays the source of
// truth and RepairThreadUseCase can rebuild the summaries from it.
type SendReplyUseCase struct {
	Repo  repository.ChatRepository
	Drift DriftReporter
	Now   func() time.Time
	NewID func() string
}

func NewSendReplyUseCase(repo repository.ChatRepository, drift DriftReporter) *SendReplyUseCase {
	return &SendReplyUseCase{
		Repo:  repo,
		Drift: drift,
		Now:   func() time.Time { return time.Now().UTC() },
		NewID: uuid.NewString,
	}
}

func (uc *SendReplyUseCase) Execute(ctx context.Context, in SendReplyInput) (*chat.Message, error) {
	if in.ThreadID == "" || in.ReceiverID == "" || strings.TrimSpace(in.Content) == "" {
		return nil, invalid("thread_id, receiver_id and content are required")
	}

	p, err := authorizeThread(ctx, uc.Repo, in.ThreadID, in.CallerID)
	if err != nil {
		return nil, err
	}
	if in.ReceiverID == in.CallerID {
		return nil, domainInvalid(chat.ErrSelfMessage)
	}
	if other, ok := p.OtherParticipant(in.CallerID); !ok || other != in.ReceiverID {
		return nil, invalid("receiver_id must be the other participant")
	}

	subject := strings.TrimSpace(in.Subject)
	if subject == "" {
		subject = p.Subject
	}

	now := uc.Now()
	msg, err := chat.NewMessage(chat.Message{
		ID:           uc.NewID(),
		ThreadID:     in.ThreadID,
		SenderID:     in.CallerID,
		SenderName:   participantName(p.Thread, in.CallerID),
		ReceiverID:   in.ReceiverID,
		ReceiverName: participantName(p.Thread, in.ReceiverID),
		Subject:      subject,
		Content:      in.Content,
		Timestamp:    now,
		MessageType:  chat.MessageType(in.MessageType),
	})
	if err != nil {
		return nil, domainInvalid(err)
	}

	if err := uc.Repo.AppendMessage(ctx, *msg); err != nil {
		return nil, persistence(err)
	}

	uc.fanOut(ctx, p.Participants, *msg, now)
	return msg, nil
}

func (uc *SendReplyUseCase) fanOut(ctx context.Context, participants []string, msg chat.Message, now time.Time) {
	const op = "send_reply"

	t, err := uc.Repo.GetThread(ctx, msg.ThreadID)
	if err == nil {
		t.ApplyMessage(msg, now)
		err = uc.Repo.PutThread(ctx, *t)
	}
	if err != nil {
		reportDrift(ctx, uc.Drift, msg.ThreadID, op, "thread", err)
	}

	for _, owner := range participants {
		proj, err := uc.Repo.GetProjection(ctx, msg.ThreadID, owner)
		if errors.Is(err, repository.ErrNotFound) {
			reportDrift(ctx, uc.Drift, msg.ThreadID, op, "projection:"+owner, err)
			continue
		}
		if err == nil {
			proj.ApplyMessage(msg, now)
			err = uc.Repo.PutProjection(ctx, *proj)
		}
		if err != nil {
			reportDrift(ctx, uc.Drift, msg.ThreadID, op, "projection:"+owner, err)
		}
	}
}
