package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ghostsmart/ghost-gateway/api"
)

// HandlePanics turns a handler panic into the standard failure envelope so
// no request ever dies with a bare 500.
func HandlePanics() gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		log.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, api.Envelope{
			Success:   false,
			Timestamp: api.Now(),
			Error:     "Internal Server Error",
			Message:   "An unexpected error occurred",
		})
	}
}
