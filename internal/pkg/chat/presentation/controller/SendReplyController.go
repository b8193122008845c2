package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/usecase"
	"github.com/iwoork/homeforpup-sub008/internal/pkg/chat/presentation/middleware"
)

// SendReplyController handles POST /threads/:threadId/messages
type SendReplyController struct {
	UC *usecase.SendReplyUseCase
}

func NewSendReplyController(uc *usecase.SendReplyUseCase) *SendReplyController {
	return &SendReplyController{UC: uc}
}

type sendReplyRequest struct {
	ReceiverID  string `json:"receiver_id"`
	Content     string `json:"content"`
	Subject     string `json:"subject"`
	MessageType string `json:"message_type"`
}

func (h *SendReplyController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sendReplyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		msg, err := h.UC.Execute(ctx, usecase.SendReplyInput{
			CallerID:    middleware.CallerID(c),
			ThreadID:    c.Param("threadId"),
			ReceiverID:  req.ReceiverID,
			Content:     req.Content,
			Subject:     req.Subject,
			MessageType: req.MessageType,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, msg)
	}
}
