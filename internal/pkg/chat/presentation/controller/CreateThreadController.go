package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/usecase"
	"github.com/iwoork/homeforpup-sub008/internal/pkg/chat/presentation/middleware"
)

// CreateThreadController handles POST /threads (one controller per endpoint)
type CreateThreadController struct {
	UC *usecase.CreateThreadUseCase
}

func NewCreateThreadController(uc *usecase.CreateThreadUseCase) *CreateThreadController {
	return &CreateThreadController{UC: uc}
}

type createThreadRequest struct {
	RecipientID   string `json:"recipient_id"`
	RecipientName string `json:"recipient_name"`
	Subject       string `json:"subject"`
	Content       string `json:"content"`
	MessageType   string `json:"message_type"`
}

func (h *CreateThreadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createThreadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		out, err := h.UC.Execute(ctx, usecase.CreateThreadInput{
			CallerID:      middleware.CallerID(c),
			RecipientID:   req.RecipientID,
			RecipientName: req.RecipientName,
			Subject:       req.Subject,
			Content:       req.Content,
			MessageType:   req.MessageType,
		})
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"thread":  out.Thread,
			"message": out.Message,
		})
	}
}
