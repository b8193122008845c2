package usecase

import (
	repository "github.com/iwoork/homeforpup-sub008/internal/pkg/chat/persistence/repository/port"
	"github.com/iwoork/homeforpup-sub008/internal/pkg/identity"
)

// MessagingService bundles the caller-scoped use cases handed to the HTTP
// layer. RepairThreadUseCase is not part of it: it has no caller check.
type MessagingService struct {
	CreateThread   *CreateThreadUseCase
	SendReply      *SendReplyUseCase
	ListThreads    *ListThreadsUseCase
	ListMessages   *ListMessagesUseCase
	MarkThreadRead *MarkThreadReadUseCase
	DeleteThread   *DeleteThreadUseCase
	UnreadCount    *UnreadCountUseCase
}

func NewMessagingService(repo repository.ChatRepository, resolver identity.Resolver, drift DriftReporter) *MessagingService {
	list := NewListThreadsUseCase(repo)
	return &MessagingService{
		CreateThread:   NewCreateThreadUseCase(repo, resolver),
		SendReply:      NewSendReplyUseCase(repo, drift),
		ListThreads:    list,
		ListMessages:   NewListMessagesUseCase(repo),
		MarkThreadRead: NewMarkThreadReadUseCase(repo, drift),
		DeleteThread:   NewDeleteThreadUseCase(repo, drift),
		UnreadCount:    NewUnreadCountUseCase(list),
	}
}
