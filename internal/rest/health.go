package rest

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ghostsmart/ghost-gateway/api"
	"github.com/ghostsmart/ghost-gateway/internal/config"
)

const serviceVersion = "1.0.0"

// HealthHandler serves the health check and service metadata endpoints.
type HealthHandler struct {
	cfg     *config.Config
	started time.Time
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg, started: time.Now()}
}

// Health handles GET /health. It never fails: transient provider issues
// show up as degraded feature flags, not as an error status.
func (h *HealthHandler) Health(c *gin.Context) {
	respondOK(c, api.HealthData{
		Status: "healthy",
		Uptime: fmt.Sprintf("%.0fs", time.Since(h.started).Seconds()),
		Features: api.Features{
			GhostIntegration: h.cfg.GhostConfigured(),
			AIEnhancement:    h.cfg.TextConfigured(),
			ImageGeneration:  h.cfg.ImageConfigured(),
		},
	})
}

// Root handles GET / with service metadata.
func (h *HealthHandler) Root(c *gin.Context) {
	respondOK(c, api.ServiceInfo{
		Name:        "Ghost Gateway",
		Version:     serviceVersion,
		Description: "REST API for Ghost CMS blog management with AI-powered features",
		Features: []string{
			"Smart blog creation with AI enhancement",
			"Dual image generation (Flux + Imagen)",
			"Comprehensive blog management",
			"Batch operations",
			"Multi-language support",
		},
		Endpoints: map[string]string{
			"health":       "/health",
			"metrics":      "/metrics",
			"posts":        "/api/posts",
			"smart_create": "/api/smart-create",
		},
	})
}
