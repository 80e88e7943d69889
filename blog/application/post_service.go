package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ghostsmart/ghost-gateway/api"
	"github.com/ghostsmart/ghost-gateway/blog/domain"
	"github.com/ghostsmart/ghost-gateway/internal/config"
	"github.com/ghostsmart/ghost-gateway/internal/metrics"
	"github.com/ghostsmart/ghost-gateway/shared/ai"
	"github.com/ghostsmart/ghost-gateway/shared/ghost"
)

const (
	// summaryScanLimit bounds how many posts the computed endpoints
	// (summary, date-pattern search) pull from Ghost in one request.
	summaryScanLimit = 200

	defaultSummaryDays  = 30
	defaultSearchLimit  = 10
	recentTitlesInReply = 5
)

// ErrNoImageRequested is returned when an image update is requested without
// enabling generation; there is nothing else the endpoint could do.
var ErrNoImageRequested = errors.New("use_generated_feature_image must be true")

// AIError marks a failure that originated in a generative provider, so
// callers can tell it apart from a Ghost-side failure.
type AIError struct {
	Err error
}

func (e *AIError) Error() string { return "ai provider: " + e.Err.Error() }
func (e *AIError) Unwrap() error { return e.Err }

// PostService orchestrates Ghost and the generative providers for one
// request at a time. It holds no post state; credentials are resolved per
// request and clients are built from them through the factory fields.
type PostService struct {
	cfg      *config.Config
	markdown MarkdownRenderer

	// Factory seams, replaced by fakes in tests.
	newCMS    func(creds config.Credentials) domain.CMS
	newText   func(ctx context.Context, creds config.Credentials) (domain.TextModel, func() error, error)
	newFlux   func(token string) (domain.ImageModel, error)
	newImagen func(apiKey string) (domain.ImageModel, error)
}

// NewPostService wires a service against the real Ghost and AI clients.
func NewPostService(cfg *config.Config) *PostService {
	return &PostService{
		cfg:      cfg,
		markdown: NewMarkdownRenderer(),
		newCMS: func(creds config.Credentials) domain.CMS {
			return ghost.NewClient(creds.GhostAPIURL, creds.GhostAdminAPIKey, nil)
		},
		newText: func(ctx context.Context, creds config.Credentials) (domain.TextModel, func() error, error) {
			if cfg.TextProvider == config.ProviderOpenAI && cfg.OpenAIKey != "" {
				model, err := ai.NewOpenAIModel(cfg.OpenAIKey, cfg.OpenAIModel)
				if err != nil {
					return nil, nil, err
				}
				return model, func() error { return nil }, nil
			}
			model, err := ai.NewGeminiModel(ctx, creds.GeminiAPIKey, cfg.GeminiModel)
			if err != nil {
				return nil, nil, err
			}
			return model, model.Close, nil
		},
		newFlux:   func(token string) (domain.ImageModel, error) { return ai.NewFluxModel(token) },
		newImagen: func(apiKey string) (domain.ImageModel, error) { return ai.NewImagenModel(apiKey) },
	}
}

// CreatePost creates one post in Ghost, optionally translating the content
// and generating a feature image first. In test mode everything local still
// runs but no remote state is touched; a mock id and URL come back instead.
func (s *PostService) CreatePost(ctx context.Context, creds config.Credentials, req api.CreatePostRequest) (*api.CreatedPost, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout(req.UseGeneratedFeatureImage))
	defer cancel()

	status := domain.Status(req.Status)
	if status == "" {
		status = domain.StatusDraft
	}

	title, content, excerpt := req.Title, req.Content, req.Excerpt
	if req.TargetLanguage != "" {
		translated, err := s.translate(ctx, creds, title, content, excerpt, req.TargetLanguage)
		if err != nil {
			return nil, err
		}
		title, content = translated.Title, translated.Content
		if translated.Excerpt != "" {
			excerpt = translated.Excerpt
		}
	}

	htmlContent, err := s.markdown.Render(content)
	if err != nil {
		return nil, err
	}
	if excerpt == "" {
		excerpt = extractExcerpt(content)
	}

	if s.testMode(req.IsTest) {
		id := "test-" + uuid.NewString()
		log.Info().Str("post_id", id).Msg("Test mode: skipping Ghost create")
		return &api.CreatedPost{PostID: id, URL: mockPostURL(creds.GhostAPIURL, id)}, nil
	}

	post := &domain.Post{
		Title:    title,
		HTML:     htmlContent,
		Excerpt:  excerpt,
		Tags:     req.Tags,
		Status:   status,
		Featured: req.Featured,
		Slug:     req.YouTubeVideoID,
	}

	cms := s.newCMS(creds)
	if req.UseGeneratedFeatureImage {
		imageURL, provider, err := s.generateFeatureImage(ctx, creds, cms,
			imagePrompt(req.ImagePrompt, title, excerpt), req.ImageAspectRatio, req.PreferImagen)
		if err != nil {
			return nil, err
		}
		log.Info().Str("provider", provider).Msg("Feature image generated")
		post.FeatureImage = imageURL
	}

	created, err := cms.CreatePost(ctx, post)
	if err != nil {
		return nil, err
	}

	log.Info().Str("post_id", created.ID).Str("status", string(created.Status)).Msg("Post created")
	return &api.CreatedPost{PostID: created.ID, URL: created.URL}, nil
}

// SmartCreate derives a full post structure from free-form input via the
// text model, then follows the regular creation path.
func (s *PostService) SmartCreate(ctx context.Context, creds config.Credentials, req api.SmartCreateRequest) (*api.SmartCreatedPost, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout(req.UseGeneratedFeatureImage))
	defer cancel()

	composed, err := s.compose(ctx, creds, req.UserInput, req.PreferredLanguage)
	if err != nil {
		return nil, err
	}

	created, err := s.CreatePost(ctx, creds, api.CreatePostRequest{
		Title:                    composed.Title,
		Content:                  composed.Content,
		Excerpt:                  composed.Excerpt,
		Tags:                     composed.Tags,
		Status:                   req.Status,
		UseGeneratedFeatureImage: req.UseGeneratedFeatureImage,
		PreferFlux:               req.PreferFlux,
		PreferImagen:             req.PreferImagen,
		ImageAspectRatio:         req.ImageAspectRatio,
		IsTest:                   req.IsTest,
	})
	if err != nil {
		return nil, err
	}

	return &api.SmartCreatedPost{
		PostID:           created.PostID,
		URL:              created.URL,
		Response:         fmt.Sprintf("Created %q from your input", composed.Title),
		GeneratedTitle:   composed.Title,
		GeneratedTags:    composed.Tags,
		GeneratedExcerpt: composed.Excerpt,
	}, nil
}

// GetPost fetches a single post.
func (s *PostService) GetPost(ctx context.Context, creds config.Credentials, id string) (*api.PostDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.GhostTimeout)
	defer cancel()

	post, err := s.newCMS(creds).GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	details := toDetails(post)
	return &details, nil
}

// ListPosts translates the query options to Ghost and returns the page.
func (s *PostService) ListPosts(ctx context.Context, creds config.Credentials, opts domain.ListOptions) (*api.PostList, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.GhostTimeout)
	defer cancel()

	posts, err := s.newCMS(creds).ListPosts(ctx, opts)
	if err != nil {
		return nil, err
	}
	return toList(posts), nil
}

// Summary computes posting statistics over the last days. Ghost has no
// stats API, so a bounded listing is aggregated gateway-side.
func (s *PostService) Summary(ctx context.Context, creds config.Credentials, days int) (*api.PostsSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.GhostTimeout)
	defer cancel()

	if days <= 0 {
		days = defaultSummaryDays
	}

	posts, err := s.newCMS(creds).ListPosts(ctx, domain.ListOptions{
		Limit:  summaryScanLimit,
		Status: domain.StatusAll,
	})
	if err != nil {
		return nil, err
	}

	summary := &api.PostsSummary{
		Days:       days,
		TotalPosts: len(posts),
		ByStatus: map[string]int{
			string(domain.StatusDraft):     0,
			string(domain.StatusPublished): 0,
			string(domain.StatusScheduled): 0,
		},
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	for _, p := range posts {
		summary.ByStatus[string(p.Status)]++
		if p.Featured {
			summary.FeaturedCount++
		}
		if created := p.CreatedAt; !created.IsZero() && created.After(cutoff) {
			summary.RecentCount++
		}
		if len(summary.RecentPosts) < recentTitlesInReply {
			summary.RecentPosts = append(summary.RecentPosts, p.Title)
		}
	}
	return summary, nil
}

// BatchDetails fetches each id in order. Failed lookups become per-id error
// entries instead of failing the batch; N ids in always yields N entries.
func (s *PostService) BatchDetails(ctx context.Context, creds config.Credentials, ids []string) (*api.BatchDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.GhostTimeout)
	defer cancel()

	cms := s.newCMS(creds)
	result := &api.BatchDetails{
		Posts: make([]api.BatchEntry, 0, len(ids)),
		Total: len(ids),
	}

	for _, id := range ids {
		post, err := cms.GetPost(ctx, id)
		if err != nil {
			result.Posts = append(result.Posts, api.BatchEntry{
				PostID: id,
				Error:  batchErrorMessage(err),
			})
			continue
		}
		details := toDetails(post)
		result.Posts = append(result.Posts, api.BatchEntry{
			PostID:  id,
			Success: true,
			Post:    &details,
		})
	}
	return result, nil
}

// FindByDatePattern matches the pattern as a substring of each post's
// published date formatted YYYY-MM-DD. Ghost has no date-pattern query, so
// this is the one filter applied gateway-side.
func (s *PostService) FindByDatePattern(ctx context.Context, creds config.Credentials, pattern string, limit int) (*api.PostList, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.GhostTimeout)
	defer cancel()

	if limit <= 0 {
		limit = defaultSearchLimit
	}

	posts, err := s.newCMS(creds).ListPosts(ctx, domain.ListOptions{
		Limit:  summaryScanLimit,
		Status: domain.StatusAll,
	})
	if err != nil {
		return nil, err
	}

	var matched []*domain.Post
	for _, p := range posts {
		if p.PublishedAt.IsZero() {
			continue
		}
		if strings.Contains(p.PublishedAt.UTC().Format("2006-01-02"), pattern) {
			matched = append(matched, p)
			if len(matched) == limit {
				break
			}
		}
	}
	return toList(matched), nil
}

// UpdatePost applies a partial update; only fields present in the request
// change, and the response names exactly the fields that were touched.
func (s *PostService) UpdatePost(ctx context.Context, creds config.Credentials, id string, req api.UpdatePostRequest) (*api.UpdatedPost, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.GhostTimeout)
	defer cancel()

	var upd domain.PostUpdate
	var updates []string

	if req.Title != nil {
		upd.Title = req.Title
		updates = append(updates, "title")
	}
	if req.Content != nil {
		htmlContent, err := s.markdown.Render(*req.Content)
		if err != nil {
			return nil, err
		}
		upd.HTML = &htmlContent
		updates = append(updates, "content")
	}
	if req.Excerpt != nil {
		upd.Excerpt = req.Excerpt
		updates = append(updates, "excerpt")
	}
	if req.Tags != nil {
		upd.Tags = req.Tags
		updates = append(updates, "tags")
	}
	if req.Status != nil {
		status := domain.Status(*req.Status)
		upd.Status = &status
		updates = append(updates, "status")
	}
	if req.Featured != nil {
		upd.Featured = req.Featured
		updates = append(updates, "featured")
	}

	updated, err := s.newCMS(creds).UpdatePost(ctx, id, upd)
	if err != nil {
		return nil, err
	}

	log.Info().Str("post_id", updated.ID).Strs("updates", updates).Msg("Post updated")
	return &api.UpdatedPost{PostID: updated.ID, Updates: updates}, nil
}

// UpdateImage regenerates a post's feature image and points the post at it.
func (s *PostService) UpdateImage(ctx context.Context, creds config.Credentials, id string, req api.UpdateImageRequest) (*api.UpdatedPost, error) {
	if !req.UseGeneratedFeatureImage {
		return nil, ErrNoImageRequested
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.ImageTimeout)
	defer cancel()

	if s.testMode(req.IsTest) {
		log.Info().Str("post_id", id).Msg("Test mode: skipping image update")
		return &api.UpdatedPost{PostID: id, Updates: []string{"feature_image"}}, nil
	}

	cms := s.newCMS(creds)

	prompt := req.ImagePrompt
	if prompt == "" {
		post, err := cms.GetPost(ctx, id)
		if err != nil {
			return nil, err
		}
		prompt = imagePrompt("", post.Title, post.Excerpt)
	}

	imageURL, provider, err := s.generateFeatureImage(ctx, creds, cms, prompt, req.ImageAspectRatio, req.PreferImagen)
	if err != nil {
		return nil, err
	}
	log.Info().Str("provider", provider).Str("post_id", id).Msg("Feature image regenerated")

	updated, err := cms.UpdatePost(ctx, id, domain.PostUpdate{FeatureImage: &imageURL})
	if err != nil {
		return nil, err
	}
	return &api.UpdatedPost{PostID: updated.ID, Updates: []string{"feature_image"}}, nil
}

// DeletePost removes a post. In test mode the remote call is refused and the
// post is left untouched.
func (s *PostService) DeletePost(ctx context.Context, creds config.Credentials, id string, isTest bool) (*api.DeletedPost, error) {
	if s.testMode(isTest) {
		log.Info().Str("post_id", id).Msg("Test mode: delete suppressed")
		return &api.DeletedPost{PostID: id, Deleted: false}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.GhostTimeout)
	defer cancel()

	if err := s.newCMS(creds).DeletePost(ctx, id); err != nil {
		return nil, err
	}
	return &api.DeletedPost{PostID: id, Deleted: true}, nil
}

// compose runs the text model over the user input and parses the structured
// post out of its answer.
func (s *PostService) compose(ctx context.Context, creds config.Credentials, userInput, language string) (*ComposedPost, error) {
	model, closeFn, err := s.newText(ctx, creds)
	if err != nil {
		return nil, &AIError{Err: err}
	}
	defer closeFn()

	raw, err := model.GenerateText(ctx, buildComposePrompt(userInput, language))
	recordUpstream("text", err)
	if err != nil {
		return nil, &AIError{Err: err}
	}

	composed, err := parseComposedPost(raw)
	if err != nil {
		return nil, &AIError{Err: err}
	}
	return composed, nil
}

func (s *PostService) translate(ctx context.Context, creds config.Credentials, title, content, excerpt, language string) (*ComposedPost, error) {
	model, closeFn, err := s.newText(ctx, creds)
	if err != nil {
		return nil, &AIError{Err: err}
	}
	defer closeFn()

	raw, err := model.GenerateText(ctx, buildTranslatePrompt(title, content, excerpt, language))
	recordUpstream("text", err)
	if err != nil {
		return nil, &AIError{Err: err}
	}

	translated, err := parseComposedPost(raw)
	if err != nil {
		return nil, &AIError{Err: err}
	}
	return translated, nil
}

// generateFeatureImage tries the preferred provider first and falls back to
// the other one, then uploads the result to Ghost. Flux is the default
// preference; prefer_imagen flips the order.
func (s *PostService) generateFeatureImage(ctx context.Context, creds config.Credentials, cms domain.CMS, prompt, aspectRatio string, preferImagen bool) (string, string, error) {
	models := s.imageModels(creds, preferImagen)
	if len(models) == 0 {
		return "", "", &AIError{Err: errors.New("no image generation provider configured")}
	}

	var lastErr error
	for _, model := range models {
		data, err := model.GenerateImage(ctx, prompt, aspectRatio)
		recordUpstream("image", err)
		if err != nil {
			log.Warn().Err(err).Str("provider", model.Name()).Msg("Image generation failed, trying fallback")
			lastErr = err
			continue
		}

		imageURL, err := cms.UploadImage(ctx, "feature-"+uuid.NewString()+".png", data)
		if err != nil {
			return "", "", err
		}
		return imageURL, model.Name(), nil
	}
	return "", "", &AIError{Err: lastErr}
}

// imageModels returns the usable image providers in preference order.
func (s *PostService) imageModels(creds config.Credentials, preferImagen bool) []domain.ImageModel {
	var flux, imagen domain.ImageModel
	if creds.ReplicateToken != "" {
		if m, err := s.newFlux(creds.ReplicateToken); err == nil {
			flux = m
		}
	}
	if creds.GeminiAPIKey != "" {
		if m, err := s.newImagen(creds.GeminiAPIKey); err == nil {
			imagen = m
		}
	}

	ordered := make([]domain.ImageModel, 0, 2)
	if preferImagen {
		for _, m := range []domain.ImageModel{imagen, flux} {
			if m != nil {
				ordered = append(ordered, m)
			}
		}
		return ordered
	}
	for _, m := range []domain.ImageModel{flux, imagen} {
		if m != nil {
			ordered = append(ordered, m)
		}
	}
	return ordered
}

func recordUpstream(target string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.UpstreamCallsTotal.WithLabelValues(target, outcome).Inc()
}

func (s *PostService) testMode(requestFlag bool) bool {
	return s.cfg.TestMode || requestFlag
}

func (s *PostService) opTimeout(withImage bool) time.Duration {
	if withImage {
		return s.cfg.ImageTimeout
	}
	return s.cfg.GhostTimeout
}

func imagePrompt(custom, title, excerpt string) string {
	if custom != "" {
		return custom
	}
	prompt := "Editorial blog feature image for an article titled " + quoteTitle(title)
	if excerpt != "" {
		prompt += ". The article is about: " + excerpt
	}
	return prompt + ". No text or lettering in the image."
}

// quoteTitle quotes a title for prompt text.
func quoteTitle(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, "'") + `"`
}

func mockPostURL(ghostURL, id string) string {
	base := strings.TrimRight(ghostURL, "/")
	if base == "" {
		base = "http://localhost"
	}
	return base + "/p/" + id + "/"
}

func batchErrorMessage(err error) string {
	if errors.Is(err, domain.ErrNotFound) {
		return "post not found"
	}
	return err.Error()
}

func toDetails(p *domain.Post) api.PostDetails {
	return api.PostDetails{
		ID:           p.ID,
		Title:        p.Title,
		Content:      p.HTML,
		Excerpt:      p.Excerpt,
		Tags:         p.Tags,
		Status:       string(p.Status),
		Featured:     p.Featured,
		FeatureImage: p.FeatureImage,
		Slug:         p.Slug,
		URL:          p.URL,
		CreatedAt:    formatTime(p.CreatedAt),
		UpdatedAt:    formatTime(p.UpdatedAt),
		PublishedAt:  formatTime(p.PublishedAt),
	}
}

func toList(posts []*domain.Post) *api.PostList {
	list := &api.PostList{
		Posts: make([]api.PostDetails, 0, len(posts)),
		Count: len(posts),
	}
	for _, p := range posts {
		list.Posts = append(list.Posts, toDetails(p))
	}
	return list
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
