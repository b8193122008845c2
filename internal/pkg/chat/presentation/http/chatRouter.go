package http

import (
	"github.com/gin-gonic/gin"

	"github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/usecase"
	"github.com/iwoork/homeforpup-sub008/internal/pkg/chat/presentation/controller"
)

// RegisterRoutes registers messaging endpoints under the given router group.
// It constructs per-endpoint controllers and binds them directly to routes.
// The group must already carry the auth middleware.
func RegisterRoutes(g *gin.RouterGroup, svc *usecase.MessagingService) {
	createCtl := controller.NewCreateThreadController(svc.CreateThread)
	listThreadsCtl := controller.NewListThreadsController(svc.ListThreads)
	replyCtl := controller.NewSendReplyController(svc.SendReply)
	listMsgCtl := controller.NewListMessagesController(svc.ListMessages)
	readCtl := controller.NewMarkThreadReadController(svc.MarkThreadRead)
	deleteCtl := controller.NewDeleteThreadController(svc.DeleteThread)
	unreadCtl := controller.NewUnreadCountController(svc.UnreadCount)

	// POST /api/v1/threads -> open a thread with its first message
	g.POST("/threads", createCtl.Handle())

	// GET /api/v1/threads -> caller's threads, most recent first
	g.GET("/threads", listThreadsCtl.Handle())

	// POST /api/v1/threads/:threadId/messages -> reply
	g.POST("/threads/:threadId/messages", replyCtl.Handle())

	// GET /api/v1/threads/:threadId/messages?limit= -> newest messages
	g.GET("/threads/:threadId/messages", listMsgCtl.Handle())

	// POST /api/v1/threads/:threadId/read -> mark everything addressed to the caller read
	g.POST("/threads/:threadId/read", readCtl.Handle())

	// DELETE /api/v1/threads/:threadId
	g.DELETE("/threads/:threadId", deleteCtl.Handle())

	// GET /api/v1/unread-count -> total unread across the caller's threads
	g.GET("/unread-count", unreadCtl.Handle())
}
