package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/minereg/internal/core/domain"
	"github.com/custodia-labs/minereg/internal/logger"
)

// envelope is the body of every response.
type envelope struct {
	Success bool                 `json:"success"`
	Data    any                  `json:"data,omitempty"`
	Error   *domain.ErrorPayload `json:"error,omitempty"`
}

// statusFor maps an error kind to an HTTP status.
func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindInvalidArgument:
		return http.StatusBadRequest
	case domain.KindNotFound, domain.KindAccessDenied:
		return http.StatusNotFound
	case domain.KindAlreadyExists:
		return http.StatusConflict
	case domain.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Success: true, Data: data})
}

func respondError(c *gin.Context, err error) {
	payload := domain.NewErrorPayload(err)
	status := statusFor(payload.Kind)
	if status >= http.StatusInternalServerError {
		logger.Error("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.AbortWithStatusJSON(status, envelope{Error: &payload})
}
