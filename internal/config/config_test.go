package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setGhostEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GHOST_API_URL", "https://blog.example.com")
	t.Setenv("GHOST_ADMIN_API_KEY", "abc123:0123456789abcdef")
}

func TestLoadDefaults(t *testing.T) {
	setGhostEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.GhostTimeout)
	assert.Equal(t, 5*time.Minute, cfg.ImageTimeout)
	assert.Equal(t, ProviderGemini, cfg.TextProvider)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.TestMode)
}

func TestLoadOverrides(t *testing.T) {
	setGhostEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("GHOST_TIMEOUT", "10s")
	t.Setenv("IMAGE_TIMEOUT", "2m")
	t.Setenv("TEST_MODE", "true")
	t.Setenv("TEXT_PROVIDER", "openai")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.GhostTimeout)
	assert.Equal(t, 2*time.Minute, cfg.ImageTimeout)
	assert.True(t, cfg.TestMode)
	assert.Equal(t, ProviderOpenAI, cfg.TextProvider)
}

func TestLoadTrimsGhostURL(t *testing.T) {
	setGhostEnv(t)
	t.Setenv("GHOST_API_URL", "https://blog.example.com/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://blog.example.com", cfg.GhostAPIURL)
}

func TestLoadLiveModeRequiresGhostCredentials(t *testing.T) {
	t.Setenv("GHOST_API_URL", "")
	t.Setenv("GHOST_ADMIN_API_KEY", "")
	t.Setenv("TEST_MODE", "false")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadTestModeAllowsMissingCredentials(t *testing.T) {
	t.Setenv("GHOST_API_URL", "")
	t.Setenv("GHOST_ADMIN_API_KEY", "")
	t.Setenv("TEST_MODE", "true")

	_, err := Load()
	assert.NoError(t, err)
}

func TestLoadRejectsMalformedAdminKey(t *testing.T) {
	t.Setenv("GHOST_API_URL", "https://blog.example.com")
	t.Setenv("GHOST_ADMIN_API_KEY", "not-an-id-secret-pair")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadUnknownTextProviderFallsBack(t *testing.T) {
	setGhostEnv(t)
	t.Setenv("TEXT_PROVIDER", "anthropic")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, cfg.TextProvider)
}

func TestResolveCredentialsHeaderOverridesEnv(t *testing.T) {
	cfg := &Config{
		GhostAPIURL:      "https://env.example.com",
		GhostAdminAPIKey: "env-id:abcdef",
		GeminiAPIKey:     "env-gemini",
		ReplicateToken:   "env-replicate",
	}

	headers := map[string]string{
		HeaderGhostAPIKey:  "header-id:123456",
		HeaderGeminiAPIKey: "header-gemini",
	}
	creds := cfg.ResolveCredentials(func(name string) string { return headers[name] })

	assert.Equal(t, "header-id:123456", creds.GhostAdminAPIKey, "header must win")
	assert.Equal(t, "header-gemini", creds.GeminiAPIKey, "header must win")
	assert.Equal(t, "https://env.example.com", creds.GhostAPIURL, "env fills the gap")
	assert.Equal(t, "env-replicate", creds.ReplicateToken, "env fills the gap")
}

func TestResolveCredentialsTrimsHeaderURL(t *testing.T) {
	cfg := &Config{}
	creds := cfg.ResolveCredentials(func(name string) string {
		if name == HeaderGhostAPIURL {
			return "https://header.example.com/"
		}
		return ""
	})
	assert.Equal(t, "https://header.example.com", creds.GhostAPIURL)
}

func TestFeatureFlags(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.GhostConfigured())
	assert.False(t, cfg.TextConfigured())
	assert.False(t, cfg.ImageConfigured())

	cfg.GhostAPIURL = "https://blog.example.com"
	assert.False(t, cfg.GhostConfigured(), "URL alone is not enough")
	cfg.GhostAdminAPIKey = "id:secret"
	assert.True(t, cfg.GhostConfigured())

	cfg.OpenAIKey = "sk-test"
	assert.True(t, cfg.TextConfigured())

	cfg.GeminiAPIKey = "gm-test"
	assert.True(t, cfg.ImageConfigured(), "gemini key enables imagen")
}
