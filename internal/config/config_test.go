package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"GROQ_API_KEY", "PORT", "PING_MESSAGE", "PORTFOLIO_API_URL", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "llama3-8b-8192", cfg.Chat.Model)
	assert.Equal(t, 300, cfg.Chat.MaxTokens)
	assert.Equal(t, 30*time.Second, cfg.GetFetchTimeout())
	assert.True(t, cfg.DemoMode())
	require.NoError(t, cfg.Validate())
}

func TestLoadYAMLOverlaysDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9000"
  rate_limit:
    rps: 5
    burst: 10
scraper:
  fetch_timeout: 12s
chat:
  model: custom-model
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 5.0, cfg.Server.RateLimit.RPS)
	assert.Equal(t, 12*time.Second, cfg.GetFetchTimeout())
	assert.Equal(t, "custom-model", cfg.Chat.Model)
	assert.Equal(t, 0.7, cfg.Chat.Temperature)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("GROQ_API_KEY leaves demo mode", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GROQ_API_KEY", "gsk-test")
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "gsk-test", cfg.Chat.APIKey)
		assert.False(t, cfg.DemoMode())
	})

	t.Run("PORT becomes a listen address", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORT", "3000")
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, ":3000", cfg.Server.Addr)

		t.Setenv("PORT", "127.0.0.1:4000")
		cfg.applyEnvOverrides()
		assert.Equal(t, "127.0.0.1:4000", cfg.Server.Addr)
	})

	t.Run("PORTFOLIO_API_URL drops trailing slash", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORTFOLIO_API_URL", "https://portfolio.example/")
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "https://portfolio.example", cfg.Terminal.APIURL)
	})

	t.Run("LOG_LEVEL and PING_MESSAGE", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("PING_MESSAGE", "pong")
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "pong", cfg.Server.PingMessage)
	})
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scraper.FetchTimeout = "soon"
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Server.RateLimit.RPS = -1
	require.Error(t, cfg.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Terminal.DownloadDir = "/tmp/downloads"
	cfg.Chat.APIKey = "gsk-secret"
	require.NoError(t, cfg.Save(path))
	assert.Equal(t, "gsk-secret", cfg.Chat.APIKey)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "gsk-secret")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/downloads", loaded.Terminal.DownloadDir)
	assert.True(t, loaded.DemoMode())
}
