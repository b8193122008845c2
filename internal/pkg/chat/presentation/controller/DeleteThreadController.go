package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/usecase"
	"github.com/iwoork/homeforpup-sub008/internal/pkg/chat/presentation/middleware"
)

// DeleteThreadController handles DELETE /threads/:threadId
type DeleteThreadController struct {
	UC *usecase.DeleteThreadUseCase
}

func NewDeleteThreadController(uc *usecase.DeleteThreadUseCase) *DeleteThreadController {
	return &DeleteThreadController{UC: uc}
}

func (h *DeleteThreadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		threadID := c.Param("threadId")

		// large threads are deleted in several groups
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		n, err := h.UC.Execute(ctx, usecase.DeleteThreadInput{
			CallerID: middleware.CallerID(c),
			ThreadID: threadID,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"thread_id": threadID, "deleted": n})
	}
}
