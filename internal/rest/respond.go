package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ghostsmart/ghost-gateway/api"
	"github.com/ghostsmart/ghost-gateway/blog/application"
	"github.com/ghostsmart/ghost-gateway/blog/domain"
	"github.com/ghostsmart/ghost-gateway/shared/ghost"
)

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, api.Envelope{
		Success:   true,
		Timestamp: api.Now(),
		Data:      data,
	})
}

func respondMessage(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, api.Envelope{
		Success:   true,
		Timestamp: api.Now(),
		Data:      data,
		Message:   message,
	})
}

func respondError(c *gin.Context, status int, errText, message string) {
	c.JSON(status, api.Envelope{
		Success:   false,
		Timestamp: api.Now(),
		Error:     errText,
		Message:   message,
	})
}

// respondServiceError translates service and client errors into the failure
// envelope. AI-provider failures are reported distinctly from Ghost-side
// failures so callers can tell which upstream broke.
func respondServiceError(c *gin.Context, err error) {
	var aiErr *application.AIError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(c, http.StatusNotFound, "Not Found", "The requested post was not found")
	case errors.Is(err, ghost.ErrUnauthorized), errors.Is(err, ghost.ErrBadAdminKey):
		respondError(c, http.StatusUnauthorized, "Ghost authentication failed", err.Error())
	case errors.As(err, &aiErr):
		if errors.Is(err, context.DeadlineExceeded) {
			respondError(c, http.StatusGatewayTimeout, "AI provider timeout", err.Error())
			return
		}
		respondError(c, http.StatusBadGateway, "AI provider error", err.Error())
	case errors.Is(err, application.ErrNoImageRequested),
		errors.Is(err, domain.ErrInvalidStatus):
		respondError(c, http.StatusBadRequest, "Validation failed", err.Error())
	case errors.Is(err, ghost.ErrRejected):
		respondError(c, http.StatusBadRequest, "Ghost rejected the request", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		respondError(c, http.StatusGatewayTimeout, "Upstream timeout", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "Internal server error", err.Error())
	}
}
