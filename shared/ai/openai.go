package ai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// chatClient is the slice of the OpenAI client the text model needs.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIModel generates text through the OpenAI chat completion API. It is
// selected over Gemini with TEXT_PROVIDER=openai.
type OpenAIModel struct {
	client chatClient
	model  string
}

// NewOpenAIModel builds an OpenAI-backed text model.
func NewOpenAIModel(apiKey, model string) (*OpenAIModel, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: openai API key is not set", ErrUnavailable)
	}
	return &OpenAIModel{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

// GenerateText completes the prompt and returns the first choice.
func (m *OpenAIModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: m.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (m *OpenAIModel) Name() string {
	return "openai/" + m.model
}
