package domain

import (
	"errors"
	"fmt"
	"time"
)

// Status is a post's publication state in Ghost.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusScheduled Status = "scheduled"

	// StatusAll is only valid as a listing filter, never on a post itself.
	StatusAll Status = "all"
)

// Valid reports whether s is an acceptable status for a post write.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusScheduled:
		return true
	}
	return false
}

// ParseFilterStatus parses a status query parameter. The empty string and
// "all" both mean "no status filter".
func ParseFilterStatus(raw string) (Status, error) {
	if raw == "" || raw == string(StatusAll) {
		return StatusAll, nil
	}
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// Post represents a blog post as Ghost holds it. Ghost is the system of
// record; no copy of a post outlives the request that fetched it.
type Post struct {
	ID           string
	Title        string
	HTML         string
	Excerpt      string
	Tags         []string
	Status       Status
	Featured     bool
	FeatureImage string
	Slug         string
	URL          string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	PublishedAt  time.Time
}

// Validation errors raised locally, before any upstream call.
var (
	ErrInvalidStatus = errors.New("invalid status")
	ErrMissingTitle  = errors.New("title is required")
	ErrMissingInput  = errors.New("user_input is required")
	ErrEmptyIDList   = errors.New("post_ids must not be empty")
	ErrNotFound      = errors.New("post not found")
)
