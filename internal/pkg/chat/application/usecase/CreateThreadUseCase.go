package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	chat "github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/domain"
	repository "github.com/iwoork/homeforpup-sub008/internal/pkg/chat/persistence/repository/port"
	"github.com/iwoork/homeforpup-sub008/internal/pkg/identity"
)

// CreateThreadInput carries the data to open a thread with its first message.
// RecipientName is optional; when set the recipient is not looked up.
type CreateThreadInput struct {
	CallerID      string
	RecipientID   string
	RecipientName string
	Subject       string
	Content       string
	MessageType   string
}

type CreateThreadOutput struct {
	Thread  chat.Thread
	Message chat.Message
}

// CreateThreadUseCase opens a two-party thread. The canonical record, both
// participant projections and the first message are written as one unit.
type CreateThreadUseCase struct {
	Repo     repository.ChatRepository
	Resolver identity.Resolver
	Now      func() time.Time
	NewID    func() string
}

func NewCreateThreadUseCase(repo repository.ChatRepository, resolver identity.Resolver) *CreateThreadUseCase {
	return &CreateThreadUseCase{
		Repo:     repo,
		Resolver: resolver,
		Now:      func() time.Time { return time.Now().UTC() },
		NewID:    uuid.NewString,
	}
}

func (uc *CreateThreadUseCase) Execute(ctx context.Context, in CreateThreadInput) (*CreateThreadOutput, error) {
	if in.CallerID == "" {
		return nil, ErrAccessDenied
	}
	recipientID := strings.TrimSpace(in.RecipientID)
	if recipientID == "" {
		return nil, invalid("recipient_id is required")
	}
	if recipientID == in.CallerID {
		return nil, domainInvalid(chat.ErrSelfMessage)
	}
	subject := strings.TrimSpace(in.Subject)
	if subject == "" {
		return nil, invalid("subject is required")
	}
	if err := chat.ValidateSubject(subject); err != nil {
		return nil, domainInvalid(err)
	}

	now := uc.Now()
	threadID := uc.NewID()

	// the message is fully validated before anyone is looked up
	msg, err := chat.NewMessage(chat.Message{
		ID:          uc.NewID(),
		ThreadID:    threadID,
		SenderID:    in.CallerID,
		ReceiverID:  recipientID,
		Subject:     subject,
		Content:     in.Content,
		Timestamp:   now,
		MessageType: chat.MessageType(in.MessageType),
	})
	if err != nil {
		return nil, domainInvalid(err)
	}

	sender := resolveParticipant(ctx, uc.Resolver, in.CallerID)
	var receiver chat.ParticipantInfo
	if name := strings.TrimSpace(in.RecipientName); name != "" {
		receiver = chat.ParticipantInfo{UserID: recipientID, Name: name}
	} else {
		receiver = resolveParticipant(ctx, uc.Resolver, recipientID)
	}
	msg.SenderName = sender.Name
	msg.ReceiverName = receiver.Name

	thread, err := chat.NewThread(threadID, subject, sender, receiver, *msg)
	if err != nil {
		return nil, domainInvalid(err)
	}

	if err := uc.Repo.CreateThread(ctx, thread, thread.Projections(), *msg); err != nil {
		return nil, persistence(err)
	}
	return &CreateThreadOutput{Thread: thread, Message: *msg}, nil
}
