package ai

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

type stubChat struct {
	req  openai.ChatCompletionRequest
	resp openai.ChatCompletionResponse
	err  error
}

func (s *stubChat) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.req = req
	return s.resp, s.err
}

func TestOpenAIGenerateText(t *testing.T) {
	chat := &stubChat{
		resp: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: " the answer "}},
			},
		},
	}
	model := &OpenAIModel{client: chat, model: "gpt-4o-mini"}

	got, err := model.GenerateText(context.Background(), "the prompt")
	if err != nil {
		t.Fatalf("GenerateText() error: %v", err)
	}
	if got != "the answer" {
		t.Errorf("GenerateText() = %q", got)
	}

	if chat.req.Model != "gpt-4o-mini" {
		t.Errorf("request model = %q", chat.req.Model)
	}
	if len(chat.req.Messages) != 1 || chat.req.Messages[0].Content != "the prompt" {
		t.Errorf("request messages = %+v", chat.req.Messages)
	}
}

func TestOpenAIGenerateTextErrors(t *testing.T) {
	t.Run("provider error", func(t *testing.T) {
		model := &OpenAIModel{client: &stubChat{err: errors.New("rate limited")}, model: "gpt-4o-mini"}
		_, err := model.GenerateText(context.Background(), "p")
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("error = %v, want ErrUnavailable", err)
		}
	})

	t.Run("no choices", func(t *testing.T) {
		model := &OpenAIModel{client: &stubChat{}, model: "gpt-4o-mini"}
		_, err := model.GenerateText(context.Background(), "p")
		if !errors.Is(err, ErrEmptyResponse) {
			t.Errorf("error = %v, want ErrEmptyResponse", err)
		}
	})
}

func TestNewOpenAIModelRequiresKey(t *testing.T) {
	_, err := NewOpenAIModel("", "gpt-4o-mini")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("NewOpenAIModel() error = %v, want ErrUnavailable", err)
	}
}
