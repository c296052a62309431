package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/minereg/internal/core/domain"
	"github.com/custodia-labs/minereg/internal/logger"
)

const principalKey = "principal"

// requirePrincipal rejects requests without a user header.
func requirePrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(UserHeader))
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, envelope{
				Error: &domain.ErrorPayload{
					Kind:    "unauthenticated",
					Message: "missing " + UserHeader + " header",
				},
			})
			return
		}
		c.Set(principalKey, userID)
		c.Next()
	}
}

func principal(c *gin.Context) string {
	return c.GetString(principalKey)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("%s %s %d %s", c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
