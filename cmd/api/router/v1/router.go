package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/usecase"
	httpHandler "github.com/iwoork/homeforpup-sub008/internal/pkg/chat/presentation/http"
	"github.com/iwoork/homeforpup-sub008/internal/pkg/chat/presentation/middleware"
)

// RegisterRoutes mounts the health check and all version 1 API routes.
// Everything under /api/v1 requires a bearer token signed with jwtSecret.
func RegisterRoutes(r *gin.Engine, svc *usecase.MessagingService, jwtSecret []byte) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "OK",
		})
	})

	v1 := r.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(jwtSecret))
	httpHandler.RegisterRoutes(v1, svc)
}
