package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var validStatuses = []any{"", "draft", "published", "scheduled"}
var validAspectRatios = []any{"", "1:1", "16:9", "9:16", "4:3", "3:4"}

// CreatePostRequest is the body of POST /api/posts.
type CreatePostRequest struct {
	Title                    string   `json:"title"`
	Content                  string   `json:"content"`
	Excerpt                  string   `json:"excerpt"`
	Tags                     []string `json:"tags"`
	Status                   string   `json:"status"`
	Featured                 bool     `json:"featured"`
	UseGeneratedFeatureImage bool     `json:"use_generated_feature_image"`
	ImagePrompt              string   `json:"image_prompt"`
	PreferFlux               bool     `json:"prefer_flux"`
	PreferImagen             bool     `json:"prefer_imagen"`
	ImageAspectRatio         string   `json:"image_aspect_ratio"`
	TargetLanguage           string   `json:"target_language"`
	YouTubeVideoID           string   `json:"youtube_video_id"`
	IsTest                   bool     `json:"is_test"`
}

// Validate checks the request before any upstream call is made.
func (r CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("title is required")),
		validation.Field(&r.Content, validation.Required.Error("content is required")),
		validation.Field(&r.Status, validation.In(validStatuses...).Error("status must be one of: draft, published, scheduled")),
		validation.Field(&r.ImageAspectRatio, validation.In(validAspectRatios...).Error("unsupported image_aspect_ratio")),
	)
}

// SmartCreateRequest is the body of POST /api/smart-create.
type SmartCreateRequest struct {
	UserInput                string `json:"user_input"`
	Status                   string `json:"status"`
	PreferredLanguage        string `json:"preferred_language"`
	UseGeneratedFeatureImage bool   `json:"use_generated_feature_image"`
	PreferFlux               bool   `json:"prefer_flux"`
	PreferImagen             bool   `json:"prefer_imagen"`
	ImageAspectRatio         string `json:"image_aspect_ratio"`
	IsTest                   bool   `json:"is_test"`
}

func (r SmartCreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserInput, validation.Required.Error("user_input is required")),
		validation.Field(&r.Status, validation.In(validStatuses...).Error("status must be one of: draft, published, scheduled")),
		validation.Field(&r.ImageAspectRatio, validation.In(validAspectRatios...).Error("unsupported image_aspect_ratio")),
	)
}

// UpdatePostRequest is the body of PUT /api/posts/:id. Pointer fields
// distinguish "not supplied" from zero values: only supplied fields change.
type UpdatePostRequest struct {
	Title    *string   `json:"title"`
	Content  *string   `json:"content"`
	Excerpt  *string   `json:"excerpt"`
	Tags     *[]string `json:"tags"`
	Status   *string   `json:"status"`
	Featured *bool     `json:"featured"`
}

func (r UpdatePostRequest) Validate() error {
	if r.Title == nil && r.Content == nil && r.Excerpt == nil && r.Tags == nil && r.Status == nil && r.Featured == nil {
		return validation.NewError("validation_empty_update", "at least one field to update is required")
	}
	if r.Title != nil && *r.Title == "" {
		return validation.NewError("validation_empty_title", "title must not be empty")
	}
	if r.Status != nil {
		return validation.Validate(*r.Status,
			validation.In("draft", "published", "scheduled").Error("status must be one of: draft, published, scheduled"))
	}
	return nil
}

// UpdateImageRequest is the body of PUT /api/posts/:id/image.
type UpdateImageRequest struct {
	UseGeneratedFeatureImage bool   `json:"use_generated_feature_image"`
	ImagePrompt              string `json:"image_prompt"`
	PreferFlux               bool   `json:"prefer_flux"`
	PreferImagen             bool   `json:"prefer_imagen"`
	ImageAspectRatio         string `json:"image_aspect_ratio"`
	IsTest                   bool   `json:"is_test"`
}

func (r UpdateImageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ImageAspectRatio, validation.In(validAspectRatios...).Error("unsupported image_aspect_ratio")),
	)
}

// BatchDetailsRequest is the body of POST /api/posts/batch-details.
type BatchDetailsRequest struct {
	PostIDs []string `json:"post_ids"`
}

func (r BatchDetailsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PostIDs, validation.Required.Error("post_ids array is required")),
	)
}
