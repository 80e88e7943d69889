package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var newGeminiClient = genai.NewClient

// contentGenerator is the slice of the genai model the text client needs,
// kept small so tests can substitute it.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiModel generates text through the Gemini API.
type GeminiModel struct {
	generator contentGenerator
	closeFn   func() error
	modelName string
}

// NewGeminiModel connects to Gemini with the given API key. modelName falls
// back to the caller's configured default when empty.
func NewGeminiModel(ctx context.Context, apiKey, modelName string, extraOpts ...option.ClientOption) (*GeminiModel, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini API key is not set", ErrUnavailable)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	opts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, extraOpts...)
	client, err := newGeminiClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	model := client.GenerativeModel(modelName)
	model.SetCandidateCount(1)
	model.SetTemperature(0.7)

	return &GeminiModel{
		generator: model,
		closeFn:   client.Close,
		modelName: modelName,
	}, nil
}

// GenerateText completes the prompt and returns the first candidate text.
func (m *GeminiModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	if m.generator == nil {
		return "", fmt.Errorf("%w: gemini generator is not initialized", ErrUnavailable)
	}

	resp, err := m.generator.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	text := extractFirstText(resp)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (m *GeminiModel) Name() string {
	return "gemini/" + m.modelName
}

// Close releases the underlying client connection.
func (m *GeminiModel) Close() error {
	if m == nil || m.closeFn == nil {
		return nil
	}
	return m.closeFn()
}

// extractFirstText walks the response candidates and returns the first
// non-empty text part.
func extractFirstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				if trimmed := strings.TrimSpace(string(text)); trimmed != "" {
					return trimmed
				}
			}
		}
	}
	return ""
}
