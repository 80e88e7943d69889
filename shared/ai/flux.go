package ai

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/replicate/replicate-go"
)

const (
	fluxOwner = "black-forest-labs"
	fluxModel = "flux-schnell"
)

// FluxModel generates feature images with Replicate's Flux model. Generation
// is fast (a few seconds) but still synchronous: callers must budget the
// long image timeout.
type FluxModel struct {
	client *replicate.Client
	http   *http.Client
}

// NewFluxModel builds a Replicate-backed image model.
func NewFluxModel(token string) (*FluxModel, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: replicate API token is not set", ErrUnavailable)
	}
	client, err := replicate.NewClient(replicate.WithToken(token))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &FluxModel{client: client, http: &http.Client{}}, nil
}

// GenerateImage runs a Flux prediction and downloads the resulting image.
func (m *FluxModel) GenerateImage(ctx context.Context, prompt, aspectRatio string) ([]byte, error) {
	input := replicate.PredictionInput{
		"prompt":        prompt,
		"output_format": "png",
	}
	if aspectRatio != "" {
		input["aspect_ratio"] = aspectRatio
	}

	prediction, err := m.client.CreatePredictionWithModel(ctx, fluxOwner, fluxModel, input, nil, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := m.client.Wait(ctx, prediction); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if prediction.Status != replicate.Succeeded {
		return nil, fmt.Errorf("%w: flux prediction %s: %v", ErrUnavailable, prediction.Status, prediction.Error)
	}

	imageURL := firstOutputURL(prediction.Output)
	if imageURL == "" {
		return nil, ErrEmptyResponse
	}
	return m.download(ctx, imageURL)
}

func (m *FluxModel) Name() string {
	return "replicate/" + fluxModel
}

func (m *FluxModel) download(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	resp, err := m.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: downloading flux output: status %d", ErrUnavailable, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return data, nil
}

// firstOutputURL handles the output shapes Flux predictions use: a bare URL
// string or a list of URL strings.
func firstOutputURL(output replicate.PredictionOutput) string {
	switch v := output.(type) {
	case string:
		return v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}
