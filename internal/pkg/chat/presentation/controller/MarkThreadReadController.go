package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/usecase"
	"github.com/iwoork/homeforpup-sub008/internal/pkg/chat/presentation/middleware"
)

// MarkThreadReadController handles POST /threads/:threadId/read
type MarkThreadReadController struct {
	UC *usecase.MarkThreadReadUseCase
}

func NewMarkThreadReadController(uc *usecase.MarkThreadReadUseCase) *MarkThreadReadController {
	return &MarkThreadReadController{UC: uc}
}

func (h *MarkThreadReadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		threadID := c.Param("threadId")

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		n, err := h.UC.Execute(ctx, usecase.MarkThreadReadInput{
			CallerID: middleware.CallerID(c),
			ThreadID: threadID,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"thread_id": threadID, "marked_read": n})
	}
}
