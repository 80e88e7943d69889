// Package ai holds the generative-provider clients: Gemini and OpenAI for
// text, Replicate Flux and Google Imagen for feature images.
package ai

import "errors"

var (
	// ErrUnavailable means the provider could not be reached or rejected
	// the credentials.
	ErrUnavailable = errors.New("ai: provider unavailable")

	// ErrEmptyResponse means the provider answered but produced no usable
	// output.
	ErrEmptyResponse = errors.New("ai: provider returned no output")
)
