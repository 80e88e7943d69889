package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ghostsmart/ghost-gateway/api"
)

// APIKeyHeader carries the service's own authentication key.
const APIKeyHeader = "X-API-Key"

// RequireAPIKey rejects requests without a valid service API key. When no
// key is configured the check is disabled entirely, matching deployments
// that terminate auth at the edge.
func RequireAPIKey(requiredKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if requiredKey == "" {
			c.Next()
			return
		}

		provided := c.GetHeader(APIKeyHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(requiredKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.Envelope{
				Success:   false,
				Timestamp: api.Now(),
				Error:     "Invalid or missing API key",
				Message:   "Include " + APIKeyHeader + " header with valid API key",
			})
			return
		}
		c.Next()
	}
}
