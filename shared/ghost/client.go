package ghost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ghostsmart/ghost-gateway/blog/domain"
)

var _ domain.CMS = (*Client)(nil)

// Sentinel errors callers can test with errors.Is. Not-found lookups return
// domain.ErrNotFound.
var (
	ErrBadAdminKey  = errors.New("ghost: admin key must have the form id:secret")
	ErrUnauthorized = errors.New("ghost: authentication failed")
	ErrRejected     = errors.New("ghost: request rejected")
)

// APIError is an unexpected failure response from the Admin API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ghost: API returned status %d: %s", e.StatusCode, e.Message)
}

// Client is a Ghost Admin API v5 client. It holds no post state; every call
// goes straight to the Ghost instance.
type Client struct {
	apiURL   string
	adminKey string
	http     *http.Client
	now      func() time.Time
}

// NewClient creates a client for the Ghost instance at apiURL using an
// "id:secret" admin key.
func NewClient(apiURL, adminKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		apiURL:   strings.TrimRight(apiURL, "/"),
		adminKey: adminKey,
		http:     httpClient,
		now:      time.Now,
	}
}

type wireTag struct {
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

type wirePost struct {
	ID            string    `json:"id,omitempty"`
	Title         string    `json:"title,omitempty"`
	HTML          string    `json:"html,omitempty"`
	CustomExcerpt string    `json:"custom_excerpt,omitempty"`
	Tags          []wireTag `json:"tags,omitempty"`
	Status        string    `json:"status,omitempty"`
	Featured      bool      `json:"featured,omitempty"`
	FeatureImage  string    `json:"feature_image,omitempty"`
	Slug          string    `json:"slug,omitempty"`
	URL           string    `json:"url,omitempty"`
	CreatedAt     string    `json:"created_at,omitempty"`
	UpdatedAt     string    `json:"updated_at,omitempty"`
	PublishedAt   string    `json:"published_at,omitempty"`
}

type postsEnvelope struct {
	Posts []wirePost `json:"posts"`
}

type errorEnvelope struct {
	Errors []struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"errors"`
}

// CreatePost publishes a new post and returns it as Ghost stored it.
func (c *Client) CreatePost(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	op := "creating post"
	body := postsEnvelope{Posts: []wirePost{toWire(p)}}

	var out postsEnvelope
	query := url.Values{"source": {"html"}}
	if err := c.do(ctx, http.MethodPost, "/posts/", query, body, &out); err != nil {
		return nil, wrapOp(op, err)
	}
	if len(out.Posts) == 0 {
		return nil, fmt.Errorf("ghost: %s returned no post", op)
	}
	return fromWire(out.Posts[0]), nil
}

// GetPost fetches a single post by id.
func (c *Client) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	op := fmt.Sprintf("getting post %s", id)

	var out postsEnvelope
	query := url.Values{"formats": {"html"}}
	if err := c.do(ctx, http.MethodGet, "/posts/"+url.PathEscape(id)+"/", query, nil, &out); err != nil {
		return nil, wrapOp(op, err)
	}
	if len(out.Posts) == 0 {
		return nil, domain.ErrNotFound
	}
	return fromWire(out.Posts[0]), nil
}

// ListPosts fetches posts matching opts. Pagination and filter semantics are
// Ghost's; opts is translated to its query parameters and NQL filters.
func (c *Client) ListPosts(ctx context.Context, opts domain.ListOptions) ([]*domain.Post, error) {
	op := "listing posts"

	query := url.Values{"formats": {"html"}, "order": {"updated_at desc"}}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if filter := buildFilter(opts); filter != "" {
		query.Set("filter", filter)
	}

	var out postsEnvelope
	if err := c.do(ctx, http.MethodGet, "/posts/", query, nil, &out); err != nil {
		return nil, wrapOp(op, err)
	}

	posts := make([]*domain.Post, 0, len(out.Posts))
	for _, wp := range out.Posts {
		posts = append(posts, fromWire(wp))
	}
	return posts, nil
}

// UpdatePost applies a partial update. Ghost requires the post's current
// updated_at in the body for collision detection, so the post is fetched
// first; unset fields keep their stored values.
func (c *Client) UpdatePost(ctx context.Context, id string, upd domain.PostUpdate) (*domain.Post, error) {
	op := fmt.Sprintf("updating post %s", id)

	current, err := c.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"updated_at": current.UpdatedAt.UTC().Format(timeLayout),
	}
	if upd.Title != nil {
		body["title"] = *upd.Title
	}
	if upd.HTML != nil {
		body["html"] = *upd.HTML
	}
	if upd.Excerpt != nil {
		body["custom_excerpt"] = *upd.Excerpt
	}
	if upd.Tags != nil {
		tags := make([]wireTag, 0, len(*upd.Tags))
		for _, t := range *upd.Tags {
			tags = append(tags, wireTag{Name: t})
		}
		body["tags"] = tags
	}
	if upd.Status != nil {
		body["status"] = string(*upd.Status)
	}
	if upd.Featured != nil {
		body["featured"] = *upd.Featured
	}
	if upd.FeatureImage != nil {
		body["feature_image"] = *upd.FeatureImage
	}

	var out postsEnvelope
	query := url.Values{"source": {"html"}}
	payload := map[string]any{"posts": []map[string]any{body}}
	if err := c.do(ctx, http.MethodPut, "/posts/"+url.PathEscape(id)+"/", query, payload, &out); err != nil {
		return nil, wrapOp(op, err)
	}
	if len(out.Posts) == 0 {
		return nil, fmt.Errorf("ghost: %s returned no post", op)
	}
	return fromWire(out.Posts[0]), nil
}

// DeletePost removes a post permanently.
func (c *Client) DeletePost(ctx context.Context, id string) error {
	op := fmt.Sprintf("deleting post %s", id)
	if err := c.do(ctx, http.MethodDelete, "/posts/"+url.PathEscape(id)+"/", nil, nil, nil); err != nil {
		return wrapOp(op, err)
	}
	return nil
}

// UploadImage stores an image on the Ghost instance and returns its URL.
func (c *Client) UploadImage(ctx context.Context, filename string, data []byte) (string, error) {
	op := fmt.Sprintf("uploading image %s", filename)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("ghost: %s: %w", op, err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("ghost: %s: %w", op, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("ghost: %s: %w", op, err)
	}

	token, err := mintToken(c.adminKey, c.now())
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/ghost/api/admin/images/upload/", &buf)
	if err != nil {
		return "", fmt.Errorf("ghost: %s: %w", op, err)
	}
	req.Header.Set("Authorization", "Ghost "+token)
	req.Header.Set("Accept-Version", "v5.0")
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("ghost: %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", wrapOp(op, statusError(resp))
	}

	var out struct {
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("ghost: %s: decoding response: %w", op, err)
	}
	if len(out.Images) == 0 {
		return "", fmt.Errorf("ghost: %s returned no image", op)
	}
	return out.Images[0].URL, nil
}

// do executes one Admin API call with a freshly minted token.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	token, err := mintToken(c.adminKey, c.now())
	if err != nil {
		return err
	}

	endpoint := c.apiURL + "/ghost/api/admin" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Ghost "+token)
	req.Header.Set("Accept-Version", "v5.0")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// statusError converts a failure response into a typed error, extracting the
// Ghost error message when the body carries one.
func statusError(resp *http.Response) error {
	message := resp.Status
	var envelope errorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && len(envelope.Errors) > 0 {
		message = envelope.Errors[0].Message
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, message)
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrRejected, message)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: message}
}

// wrapOp adds the operation description while keeping sentinel errors
// matchable with errors.Is.
func wrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return fmt.Errorf("ghost: %s failed: %w", op, err)
}

// buildFilter translates ListOptions into a Ghost NQL filter expression.
func buildFilter(opts domain.ListOptions) string {
	var parts []string
	if opts.Status != "" && opts.Status != domain.StatusAll {
		parts = append(parts, "status:"+string(opts.Status))
	}
	if opts.Featured != nil {
		parts = append(parts, "featured:"+strconv.FormatBool(*opts.Featured))
	}
	if opts.Tag != "" {
		parts = append(parts, "tag:"+nqlLiteral(opts.Tag))
	}
	if opts.Author != "" {
		parts = append(parts, "authors:"+nqlLiteral(opts.Author))
	}
	if opts.Visibility != "" {
		parts = append(parts, "visibility:"+opts.Visibility)
	}
	if opts.Search != "" {
		parts = append(parts, "title:~"+nqlLiteral(opts.Search))
	}
	if !opts.PublishedAfter.IsZero() {
		parts = append(parts, "published_at:>'"+opts.PublishedAfter.UTC().Format("2006-01-02")+"'")
	}
	if !opts.PublishedBefore.IsZero() {
		parts = append(parts, "published_at:<'"+opts.PublishedBefore.UTC().Format("2006-01-02")+"'")
	}
	return strings.Join(parts, "+")
}

// nqlLiteral quotes a user-supplied value for use in an NQL filter.
func nqlLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "\\'") + "'"
}

const timeLayout = "2006-01-02T15:04:05.000Z"

func toWire(p *domain.Post) wirePost {
	wp := wirePost{
		Title:         p.Title,
		HTML:          p.HTML,
		CustomExcerpt: p.Excerpt,
		Status:        string(p.Status),
		Featured:      p.Featured,
		FeatureImage:  p.FeatureImage,
		Slug:          p.Slug,
	}
	for _, t := range p.Tags {
		wp.Tags = append(wp.Tags, wireTag{Name: t})
	}
	return wp
}

func fromWire(wp wirePost) *domain.Post {
	p := &domain.Post{
		ID:           wp.ID,
		Title:        wp.Title,
		HTML:         wp.HTML,
		Excerpt:      wp.CustomExcerpt,
		Status:       domain.Status(wp.Status),
		Featured:     wp.Featured,
		FeatureImage: wp.FeatureImage,
		Slug:         wp.Slug,
		URL:          wp.URL,
		CreatedAt:    parseTime(wp.CreatedAt),
		UpdatedAt:    parseTime(wp.UpdatedAt),
		PublishedAt:  parseTime(wp.PublishedAt),
	}
	for _, t := range wp.Tags {
		p.Tags = append(p.Tags, t.Name)
	}
	return p
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
