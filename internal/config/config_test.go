package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "spring", cfg.Layout.Default)
	assert.Equal(t, 1000, cfg.Display.MaxNodes)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 4096, cfg.Server.MaxRenderPx)
	assert.Equal(t, "#90EE90", cfg.Display.NodeColor("guest"))
	assert.Equal(t, DefaultNodeColor, cfg.Display.NodeColor("robot"))
}

func TestFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(`
[layout]
default = "circular"

[display]
max_nodes = 50

[ai]
timeout = "5s"
`), 0o644))

	t.Setenv("CRAWLGRAPH_AI_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "circular", cfg.Layout.Default)
	assert.Equal(t, 50, cfg.Display.MaxNodes)
	assert.Equal(t, 5*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, "sk-test", cfg.AI.OpenAIKey)
}

func TestRejectsNonPositiveMaxNodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("[display]\nmax_nodes = 0\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_nodes")
}

func TestMissingFileIsAnError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
