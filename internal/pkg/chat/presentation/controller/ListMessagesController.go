package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/usecase"
	"github.com/iwoork/homeforpup-sub008/internal/pkg/chat/presentation/middleware"
)

// ListMessagesController handles GET /threads/:threadId/messages?limit=
type ListMessagesController struct {
	UC *usecase.ListMessagesUseCase
}

func NewListMessagesController(uc *usecase.ListMessagesUseCase) *ListMessagesController {
	return &ListMessagesController{UC: uc}
}

func (h *ListMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 0
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				badRequest(c, errors.New("limit must be a non-negative integer"))
				return
			}
			limit = n
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		msgs, err := h.UC.Execute(ctx, usecase.ListMessagesInput{
			CallerID: middleware.CallerID(c),
			ThreadID: c.Param("threadId"),
			Limit:    limit,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"messages": msgs, "count": len(msgs)})
	}
}
