package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/usecase"
	"github.com/iwoork/homeforpup-sub008/internal/pkg/chat/presentation/middleware"
)

// UnreadCountController handles GET /unread-count
type UnreadCountController struct {
	UC *usecase.UnreadCountUseCase
}

func NewUnreadCountController(uc *usecase.UnreadCountUseCase) *UnreadCountController {
	return &UnreadCountController{UC: uc}
}

func (h *UnreadCountController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		n, err := h.UC.Execute(ctx, usecase.UnreadCountInput{CallerID: middleware.CallerID(c)})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"unread_count": n})
	}
}
