package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Text provider names accepted by TEXT_PROVIDER.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Credential pass-through headers. A header always overrides the value
// loaded from the environment; resolution happens in one place so there is
// never a second code path for header-supplied credentials.
const (
	HeaderGhostAPIKey     = "X-Ghost-API-Key"
	HeaderGhostAPIURL     = "X-Ghost-API-URL"
	HeaderGeminiAPIKey    = "X-Gemini-API-Key"
	HeaderReplicateAPIKey = "X-Replicate-API-Key"
)

// Config holds all configuration for the gateway. It is loaded once at
// startup and read-only afterwards.
type Config struct {
	Port   string
	APIKey string // service auth; empty disables the X-API-Key check

	GhostAdminAPIKey string
	GhostAPIURL      string

	GeminiAPIKey string
	GeminiModel  string
	OpenAIKey    string
	OpenAIModel  string
	TextProvider string

	ReplicateToken string

	// TestMode suppresses all destructive remote calls process-wide.
	TestMode bool

	// GhostTimeout bounds metadata operations; ImageTimeout bounds any
	// operation that waits on image generation.
	GhostTimeout time.Duration
	ImageTimeout time.Duration

	LogLevel string
}

// Credentials is the per-request view of upstream credentials after the
// header-over-environment precedence step.
type Credentials struct {
	GhostAPIURL      string
	GhostAdminAPIKey string
	GeminiAPIKey     string
	ReplicateToken   string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		APIKey:           os.Getenv("FLASK_API_KEY"),
		GhostAdminAPIKey: strings.TrimSpace(os.Getenv("GHOST_ADMIN_API_KEY")),
		GhostAPIURL:      strings.TrimRight(strings.TrimSpace(os.Getenv("GHOST_API_URL")), "/"),
		GeminiAPIKey:     strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OpenAIKey:        strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		TextProvider:     loadTextProvider(),
		ReplicateToken:   strings.TrimSpace(os.Getenv("REPLICATE_API_TOKEN")),
		TestMode:         getEnvBool("TEST_MODE", false),
		GhostTimeout:     getEnvDuration("GHOST_TIMEOUT", 30*time.Second),
		ImageTimeout:     getEnvDuration("IMAGE_TIMEOUT", 5*time.Minute),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate rejects configurations the service cannot start with. Only
// live-mode boots with no Ghost credentials at all are fatal; everything
// else degrades to a feature flag in the health report.
func (c *Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.GhostAdminAPIKey != "" && !strings.Contains(c.GhostAdminAPIKey, ":") {
		return fmt.Errorf("GHOST_ADMIN_API_KEY must have the form id:secret")
	}
	if !c.TestMode && c.GhostAPIURL == "" && c.GhostAdminAPIKey == "" {
		return fmt.Errorf("live mode requires GHOST_API_URL and GHOST_ADMIN_API_KEY (or TEST_MODE=true)")
	}
	if c.GhostTimeout <= 0 || c.ImageTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	return nil
}

// ResolveCredentials applies the header-over-environment precedence for one
// request. header returns the value of a request header, or "".
func (c *Config) ResolveCredentials(header func(string) string) Credentials {
	return Credentials{
		GhostAPIURL:      firstNonEmpty(strings.TrimRight(header(HeaderGhostAPIURL), "/"), c.GhostAPIURL),
		GhostAdminAPIKey: firstNonEmpty(header(HeaderGhostAPIKey), c.GhostAdminAPIKey),
		GeminiAPIKey:     firstNonEmpty(header(HeaderGeminiAPIKey), c.GeminiAPIKey),
		ReplicateToken:   firstNonEmpty(header(HeaderReplicateAPIKey), c.ReplicateToken),
	}
}

// GhostConfigured reports whether Ghost calls can be made from environment
// credentials alone.
func (c *Config) GhostConfigured() bool {
	return c.GhostAPIURL != "" && c.GhostAdminAPIKey != ""
}

// TextConfigured reports whether a text-enhancement provider is available.
func (c *Config) TextConfigured() bool {
	return c.GeminiAPIKey != "" || c.OpenAIKey != ""
}

// ImageConfigured reports whether an image-generation provider is available.
func (c *Config) ImageConfigured() bool {
	return c.ReplicateToken != "" || c.GeminiAPIKey != ""
}

func loadTextProvider() string {
	provider := strings.ToLower(strings.TrimSpace(os.Getenv("TEXT_PROVIDER")))
	switch provider {
	case ProviderGemini, ProviderOpenAI:
		return provider
	}
	return ProviderGemini
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets an environment variable as bool with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
