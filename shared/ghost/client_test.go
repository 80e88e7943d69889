package ghost

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghostsmart/ghost-gateway/blog/domain"
)

// recordedRequest captures what the client sent so assertions can run after
// the handler returns.
type recordedRequest struct {
	method string
	path   string
	query  string
	auth   string
	accept string
	body   []byte
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *recordedRequest) {
	t.Helper()

	rec := &recordedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = r.URL.RawQuery
		rec.auth = r.Header.Get("Authorization")
		rec.accept = r.Header.Get("Accept-Version")
		if r.Body != nil {
			body, _ := io.ReadAll(r.Body)
			rec.body = body
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	return NewClient(server.URL, testAdminKey, server.Client()), rec
}

func writePosts(w http.ResponseWriter, posts ...wirePost) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(postsEnvelope{Posts: posts})
}

func TestCreatePost(t *testing.T) {
	client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writePosts(w, wirePost{ID: "p1", Title: "Hello", Status: "draft", URL: "https://blog.example.com/hello/"})
	})

	post, err := client.CreatePost(context.Background(), &domain.Post{
		Title:   "Hello",
		HTML:    "<p>Body</p>",
		Excerpt: "Short",
		Tags:    []string{"go"},
		Status:  domain.StatusDraft,
		Slug:    "vid123",
	})

	require.NoError(t, err)
	assert.Equal(t, "p1", post.ID)
	assert.Equal(t, "https://blog.example.com/hello/", post.URL)

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/ghost/api/admin/posts/", rec.path)
	assert.Contains(t, rec.query, "source=html")
	assert.True(t, strings.HasPrefix(rec.auth, "Ghost "), "Authorization = %q", rec.auth)
	assert.Equal(t, "v5.0", rec.accept)

	var sent postsEnvelope
	require.NoError(t, json.Unmarshal(rec.body, &sent))
	require.Len(t, sent.Posts, 1)
	assert.Equal(t, "Hello", sent.Posts[0].Title)
	assert.Equal(t, "<p>Body</p>", sent.Posts[0].HTML)
	assert.Equal(t, "Short", sent.Posts[0].CustomExcerpt)
	assert.Equal(t, []wireTag{{Name: "go"}}, sent.Posts[0].Tags)
	assert.Equal(t, "vid123", sent.Posts[0].Slug)
}

func TestGetPostNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]string{{"message": "Resource not found", "type": "NotFoundError"}},
		})
	})

	_, err := client.GetPost(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetPostEmptyEnvelopeIsNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writePosts(w)
	})

	_, err := client.GetPost(context.Background(), "p1")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListPostsBuildsFilter(t *testing.T) {
	client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writePosts(w, wirePost{ID: "p1"}, wirePost{ID: "p2"})
	})

	featured := true
	posts, err := client.ListPosts(context.Background(), domain.ListOptions{
		Limit:          5,
		Status:         domain.StatusPublished,
		Featured:       &featured,
		Tag:            "golang",
		Author:         "jane",
		Visibility:     "public",
		Search:         "test's",
		PublishedAfter: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Len(t, posts, 2)

	values := parseQuery(t, rec.query)
	assert.Equal(t, "5", values.Get("limit"))
	assert.Equal(t, "updated_at desc", values.Get("order"))

	filter := values.Get("filter")
	assert.Contains(t, filter, "status:published")
	assert.Contains(t, filter, "featured:true")
	assert.Contains(t, filter, "tag:'golang'")
	assert.Contains(t, filter, "authors:'jane'")
	assert.Contains(t, filter, "visibility:public")
	assert.Contains(t, filter, `title:~'test\'s'`)
	assert.Contains(t, filter, "published_at:>'2025-01-01'")
}

func TestListPostsStatusAllOmitsStatusFilter(t *testing.T) {
	client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writePosts(w)
	})

	_, err := client.ListPosts(context.Background(), domain.ListOptions{Status: domain.StatusAll})

	require.NoError(t, err)
	assert.NotContains(t, parseQuery(t, rec.query).Get("filter"), "status:")
}

func TestUpdatePostSendsCollisionTimestamp(t *testing.T) {
	updatedAt := "2025-05-01T10:30:00.000Z"
	var putBody []byte
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			writePosts(w, wirePost{ID: "p1", Title: "Old", UpdatedAt: updatedAt})
			return
		}
		putBody = make([]byte, r.ContentLength)
		r.Body.Read(putBody)
		writePosts(w, wirePost{ID: "p1", Title: "New"})
	})

	title := "New"
	post, err := client.UpdatePost(context.Background(), "p1", domain.PostUpdate{Title: &title})

	require.NoError(t, err)
	assert.Equal(t, "New", post.Title)

	var sent struct {
		Posts []map[string]any `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(putBody, &sent))
	require.Len(t, sent.Posts, 1)
	assert.Equal(t, updatedAt, sent.Posts[0]["updated_at"])
	assert.Equal(t, "New", sent.Posts[0]["title"])
	_, hasStatus := sent.Posts[0]["status"]
	assert.False(t, hasStatus, "unset fields must not be sent")
}

func TestDeletePost(t *testing.T) {
	client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.DeletePost(context.Background(), "p1")

	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, rec.method)
	assert.Equal(t, "/ghost/api/admin/posts/p1/", rec.path)
}

func TestUploadImage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ghost/api/admin/images/upload/", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "feature.png", header.Filename)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"images": []map[string]string{{"url": "https://blog.example.com/content/images/feature.png"}},
		})
	})

	imageURL, err := client.UploadImage(context.Background(), "feature.png", []byte("png-bytes"))

	require.NoError(t, err)
	assert.Equal(t, "https://blog.example.com/content/images/feature.png", imageURL)
}

func TestStatusErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, sentinel: ErrUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, sentinel: ErrUnauthorized},
		{name: "bad request", status: http.StatusBadRequest, sentinel: ErrRejected},
		{name: "unprocessable", status: http.StatusUnprocessableEntity, sentinel: ErrRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]any{
					"errors": []map[string]string{{"message": "nope"}},
				})
			})

			_, err := client.ListPosts(context.Background(), domain.ListOptions{})
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}
}

func TestUnexpectedStatusIsAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.ListPosts(context.Background(), domain.ListOptions{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestBadAdminKeyFailsBeforeAnyRequest(t *testing.T) {
	client := NewClient("https://blog.example.com", "malformed", nil)

	_, err := client.GetPost(context.Background(), "p1")

	assert.ErrorIs(t, err, ErrBadAdminKey)
}

func parseQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return values
}
