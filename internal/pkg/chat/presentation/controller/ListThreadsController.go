package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/usecase"
	"github.com/iwoork/homeforpup-sub008/internal/pkg/chat/presentation/middleware"
)

// ListThreadsController handles GET /threads
type ListThreadsController struct {
	UC *usecase.ListThreadsUseCase
}

func NewListThreadsController(uc *usecase.ListThreadsUseCase) *ListThreadsController {
	return &ListThreadsController{UC: uc}
}

func (h *ListThreadsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		threads, err := h.UC.Execute(ctx, usecase.ListThreadsInput{CallerID: middleware.CallerID(c)})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"threads": threads, "count": len(threads)})
	}
}
