package domain

import (
	"context"
	"time"
)

// ListOptions narrows a post listing. The zero value lists everything Ghost
// will return in a single page.
type ListOptions struct {
	Limit           int
	Status          Status
	Featured        *bool
	Search          string
	Tag             string
	Author          string
	Visibility      string
	PublishedAfter  time.Time
	PublishedBefore time.Time
}

// PostUpdate carries a partial update. Nil fields are left untouched so
// Ghost keeps its current values.
type PostUpdate struct {
	Title        *string
	HTML         *string
	Excerpt      *string
	Tags         *[]string
	Status       *Status
	Featured     *bool
	FeatureImage *string
}

// CMS is the contract with the blogging platform that owns the posts.
// This allows the application to be decoupled from the Ghost Admin API client.
type CMS interface {
	CreatePost(ctx context.Context, p *Post) (*Post, error)
	GetPost(ctx context.Context, id string) (*Post, error)
	ListPosts(ctx context.Context, opts ListOptions) ([]*Post, error)
	UpdatePost(ctx context.Context, id string, upd PostUpdate) (*Post, error)
	DeletePost(ctx context.Context, id string) error

	// UploadImage stores an image on the platform and returns its public URL.
	UploadImage(ctx context.Context, filename string, data []byte) (string, error)
}

// TextModel is a generative text provider. Prompt construction and response
// parsing belong to the caller; the model only completes prompts.
type TextModel interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	Name() string
}

// ImageModel is a generative image provider returning encoded image bytes.
type ImageModel interface {
	GenerateImage(ctx context.Context, prompt, aspectRatio string) ([]byte, error)
	Name() string
}
