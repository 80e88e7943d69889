package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreatePostRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreatePostRequest
		wantErr bool
	}{
		{
			name: "minimal valid",
			req:  CreatePostRequest{Title: "T", Content: "Body"},
		},
		{
			name: "full valid",
			req: CreatePostRequest{
				Title: "T", Content: "Body", Status: "published",
				ImageAspectRatio: "16:9", Tags: []string{"go"},
			},
		},
		{
			name:    "missing title",
			req:     CreatePostRequest{Content: "Body"},
			wantErr: true,
		},
		{
			name:    "missing content",
			req:     CreatePostRequest{Title: "T"},
			wantErr: true,
		},
		{
			name:    "bad status",
			req:     CreatePostRequest{Title: "T", Content: "Body", Status: "pending"},
			wantErr: true,
		},
		{
			name:    "bad aspect ratio",
			req:     CreatePostRequest{Title: "T", Content: "Body", ImageAspectRatio: "2:1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSmartCreateRequestValidate(t *testing.T) {
	assert.NoError(t, SmartCreateRequest{UserInput: "write about Go"}.Validate())
	assert.Error(t, SmartCreateRequest{}.Validate())
	assert.Error(t, SmartCreateRequest{UserInput: "x", Status: "pending"}.Validate())
}

func TestUpdatePostRequestValidate(t *testing.T) {
	title := "New"
	empty := ""
	badStatus := "pending"
	goodStatus := "draft"
	featured := true

	tests := []struct {
		name    string
		req     UpdatePostRequest
		wantErr bool
	}{
		{name: "title only", req: UpdatePostRequest{Title: &title}},
		{name: "featured only", req: UpdatePostRequest{Featured: &featured}},
		{name: "valid status", req: UpdatePostRequest{Status: &goodStatus}},
		{name: "empty update", req: UpdatePostRequest{}, wantErr: true},
		{name: "empty title", req: UpdatePostRequest{Title: &empty}, wantErr: true},
		{name: "bad status", req: UpdatePostRequest{Status: &badStatus}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBatchDetailsRequestValidate(t *testing.T) {
	assert.NoError(t, BatchDetailsRequest{PostIDs: []string{"a"}}.Validate())
	assert.Error(t, BatchDetailsRequest{}.Validate())
	assert.Error(t, BatchDetailsRequest{PostIDs: []string{}}.Validate())
}
