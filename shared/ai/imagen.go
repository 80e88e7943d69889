package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const (
	imagenModel   = "imagen-3.0-generate-002"
	imagenBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

// ImagenModel generates feature images with Google Imagen through the
// Generative Language API predict endpoint. The genai SDK only covers the
// Gemini text models, so this speaks to the endpoint directly.
type ImagenModel struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewImagenModel builds an Imagen-backed image model reusing the Gemini API key.
func NewImagenModel(apiKey string) (*ImagenModel, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: gemini API key is not set", ErrUnavailable)
	}
	return &ImagenModel{
		apiKey:  apiKey,
		baseURL: imagenBaseURL,
		http:    &http.Client{},
	}, nil
}

type imagenRequest struct {
	Instances  []imagenInstance `json:"instances"`
	Parameters imagenParameters `json:"parameters"`
}

type imagenInstance struct {
	Prompt string `json:"prompt"`
}

type imagenParameters struct {
	SampleCount int    `json:"sampleCount"`
	AspectRatio string `json:"aspectRatio,omitempty"`
}

type imagenResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
		MimeType           string `json:"mimeType"`
	} `json:"predictions"`
}

// GenerateImage requests one image and returns its decoded bytes.
func (m *ImagenModel) GenerateImage(ctx context.Context, prompt, aspectRatio string) ([]byte, error) {
	payload, err := json.Marshal(imagenRequest{
		Instances:  []imagenInstance{{Prompt: prompt}},
		Parameters: imagenParameters{SampleCount: 1, AspectRatio: aspectRatio},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:predict?key=%s", m.baseURL, imagenModel, m.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: imagen predict returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var out imagenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(out.Predictions) == 0 || out.Predictions[0].BytesBase64Encoded == "" {
		return nil, ErrEmptyResponse
	}

	data, err := base64.StdEncoding.DecodeString(out.Predictions[0].BytesBase64Encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding imagen output: %v", ErrUnavailable, err)
	}
	return data, nil
}

func (m *ImagenModel) Name() string {
	return "google/" + imagenModel
}
