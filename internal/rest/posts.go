package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ghostsmart/ghost-gateway/api"
	"github.com/ghostsmart/ghost-gateway/blog/application"
	"github.com/ghostsmart/ghost-gateway/blog/domain"
	"github.com/ghostsmart/ghost-gateway/internal/config"
)

const queryDateLayout = "2006-01-02"

// PostHandler exposes the post operations over HTTP.
type PostHandler struct {
	cfg     *config.Config
	service *application.PostService
}

func NewPostHandler(cfg *config.Config, service *application.PostService) *PostHandler {
	return &PostHandler{cfg: cfg, service: service}
}

// credentials resolves upstream credentials for this request: pass-through
// headers win over environment values.
func (h *PostHandler) credentials(c *gin.Context) config.Credentials {
	return h.cfg.ResolveCredentials(c.GetHeader)
}

// CreatePost handles POST /api/posts.
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req api.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Bad Request", "request body must be valid JSON")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, "Missing required fields", err.Error())
		return
	}

	created, err := h.service.CreatePost(c.Request.Context(), h.credentials(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, created, "Blog post created")
}

// SmartCreate handles POST /api/smart-create.
func (h *PostHandler) SmartCreate(c *gin.Context) {
	var req api.SmartCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Bad Request", "request body must be valid JSON")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, "Missing required field", err.Error())
		return
	}

	created, err := h.service.SmartCreate(c.Request.Context(), h.credentials(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, created)
}

// ListPosts handles GET /api/posts.
func (h *PostHandler) ListPosts(c *gin.Context) {
	opts, ok := h.listOptions(c)
	if !ok {
		return
	}

	list, err := h.service.ListPosts(c.Request.Context(), h.credentials(c), opts)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}

// AdvancedSearch handles GET /api/posts/advanced.
func (h *PostHandler) AdvancedSearch(c *gin.Context) {
	opts, ok := h.listOptions(c)
	if !ok {
		return
	}
	opts.Search = c.Query("search")
	opts.Tag = c.Query("tag")
	opts.Author = c.Query("author")
	opts.Visibility = c.Query("visibility")

	if raw := c.Query("published_after"); raw != "" {
		t, err := time.Parse(queryDateLayout, raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Bad Request", "published_after must be YYYY-MM-DD")
			return
		}
		opts.PublishedAfter = t
	}
	if raw := c.Query("published_before"); raw != "" {
		t, err := time.Parse(queryDateLayout, raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Bad Request", "published_before must be YYYY-MM-DD")
			return
		}
		opts.PublishedBefore = t
	}

	list, err := h.service.ListPosts(c.Request.Context(), h.credentials(c), opts)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}

// GetPost handles GET /api/posts/:postId.
func (h *PostHandler) GetPost(c *gin.Context) {
	details, err := h.service.GetPost(c.Request.Context(), h.credentials(c), c.Param("postId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, details)
}

// Summary handles GET /api/posts/summary.
func (h *PostHandler) Summary(c *gin.Context) {
	days := 0
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(c, http.StatusBadRequest, "Bad Request", "days must be a positive integer")
			return
		}
		days = parsed
	}

	summary, err := h.service.Summary(c.Request.Context(), h.credentials(c), days)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, summary)
}

// BatchDetails handles POST /api/posts/batch-details.
func (h *PostHandler) BatchDetails(c *gin.Context) {
	var req api.BatchDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Bad Request", "request body must be valid JSON")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, "Missing required field", err.Error())
		return
	}

	details, err := h.service.BatchDetails(c.Request.Context(), h.credentials(c), req.PostIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, details)
}

// FindByDatePattern handles GET /api/posts/search/by-date-pattern.
func (h *PostHandler) FindByDatePattern(c *gin.Context) {
	pattern := c.Query("pattern")
	if pattern == "" {
		respondError(c, http.StatusBadRequest, "Bad Request", "pattern is required")
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(c, http.StatusBadRequest, "Bad Request", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	list, err := h.service.FindByDatePattern(c.Request.Context(), h.credentials(c), pattern, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}

// UpdatePost handles PUT/PATCH /api/posts/:postId.
func (h *PostHandler) UpdatePost(c *gin.Context) {
	var req api.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Bad Request", "request body must be valid JSON")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	updated, err := h.service.UpdatePost(c.Request.Context(), h.credentials(c), c.Param("postId"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, updated, "Post updated")
}

// UpdateImage handles PUT /api/posts/:postId/image.
func (h *PostHandler) UpdateImage(c *gin.Context) {
	var req api.UpdateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Bad Request", "request body must be valid JSON")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	updated, err := h.service.UpdateImage(c.Request.Context(), h.credentials(c), c.Param("postId"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, updated, "Feature image updated")
}

// DeletePost handles DELETE /api/posts/:postId. The is_test query flag (or
// process-wide test mode) suppresses the remote delete.
func (h *PostHandler) DeletePost(c *gin.Context) {
	isTest := c.Query("is_test") == "true"

	deleted, err := h.service.DeletePost(c.Request.Context(), h.credentials(c), c.Param("postId"), isTest)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	message := "Post deleted"
	if !deleted.Deleted {
		message = "Test mode: post not deleted"
	}
	respondMessage(c, deleted, message)
}

// listOptions parses the filter parameters shared by the listing endpoints.
// Returns ok=false after writing an error response when a parameter is bad.
func (h *PostHandler) listOptions(c *gin.Context) (domain.ListOptions, bool) {
	var opts domain.ListOptions

	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(c, http.StatusBadRequest, "Bad Request", "limit must be a positive integer")
			return opts, false
		}
		opts.Limit = parsed
	}

	status, err := domain.ParseFilterStatus(c.Query("status"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Bad Request", err.Error())
		return opts, false
	}
	opts.Status = status

	if raw := c.Query("featured"); raw != "" {
		featured := raw == "true"
		opts.Featured = &featured
	}

	return opts, true
}
