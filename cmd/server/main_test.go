package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-terminal/internal/config"
)

func TestSaveConfigWritesOverrides(t *testing.T) {
	for _, k := range []string{"GROQ_API_KEY", "PORT", "PING_MESSAGE", "PORTFOLIO_API_URL", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	oldPath, oldAddr, oldVerbose := configPath, addr, verbose
	t.Cleanup(func() { configPath, addr, verbose = oldPath, oldAddr, oldVerbose })

	configPath = filepath.Join(t.TempDir(), "portfolio.yaml")
	addr = ":9191"
	verbose = true

	var out bytes.Buffer
	require.NoError(t, saveConfig(&out))
	assert.Equal(t, "wrote "+configPath+"\n", out.String())

	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, ":9191", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.DemoMode())
}
