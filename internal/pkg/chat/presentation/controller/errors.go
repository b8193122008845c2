package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/usecase"
)

// writeError maps a use case error to its status and stable kind. The raw
// error is only echoed back outside release mode.
func writeError(c *gin.Context, err error) {
	kind := usecase.KindOf(err)

	var status int
	var msg string
	switch kind {
	case usecase.KindValidation:
		status, msg = http.StatusBadRequest, err.Error()
	case usecase.KindAccessDenied:
		status, msg = http.StatusForbidden, "thread not found or access denied"
	case usecase.KindNotFound:
		status, msg = http.StatusNotFound, "not found"
	default:
		status, msg = http.StatusServiceUnavailable, "messaging store unavailable, try again later"
	}

	body := gin.H{"error": msg, "kind": kind}
	if gin.Mode() != gin.ReleaseMode {
		body["detail"] = err.Error()
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, err error) {
	writeError(c, fmt.Errorf("%w: %v", usecase.ErrValidation, err))
}
