package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msalah0e/tradegraph/internal/graph"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "full", cfg.Display.Mode)
	assert.Equal(t, "category", cfg.Display.HSLevel)
	assert.Equal(t, 20, cfg.Filter.MinTransactions)
	assert.Len(t, cfg.Vocabulary.Aliases, 3)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, graph.DefaultDisplay(), cfg.GraphDisplay())
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg")
	assert.Equal(t, "/tmp/test-xdg/tradegraph", ConfigDir())

	t.Setenv("XDG_CONFIG_HOME", "")
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".config", "tradegraph"), ConfigDir())
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg := Default()
	cfg.Display.Mode = "supplier-importer"
	cfg.Filter.MinTransactions = 3
	cfg.Vocabulary.Aliases = append(cfg.Vocabulary.Aliases, graph.Alias{Contains: "VESTAS", Canonical: "VESTAS"})
	require.NoError(t, Save(cfg))

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "supplier-importer", loaded.Display.Mode)
	assert.Equal(t, 3, loaded.Filter.MinTransactions)
	assert.Len(t, loaded.Vocabulary.Aliases, 4)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	require.NoError(t, os.MkdirAll(ConfigDir(), 0o755))
	require.NoError(t, os.WriteFile(Path(), []byte("[filter]\nmin_transactions = 5\n"), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Filter.MinTransactions)
	assert.Equal(t, "full", cfg.Display.Mode)
	assert.NotEmpty(t, cfg.Vocabulary.Suffixes, "default suffixes survive a file without [vocabulary]")
}

func TestLoadInvalidToml(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	require.NoError(t, os.MkdirAll(ConfigDir(), 0o755))
	require.NoError(t, os.WriteFile(Path(), []byte("[filter\n"), 0o644))

	_, err := Load()
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(EnvAddr, "0.0.0.0:9000")
	t.Setenv(EnvDebug, "true")

	// .env never overrides variables already set
	env := EnvData + "=trade.csv\n" + EnvAddr + "=ignored:1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o644))
	t.Cleanup(func() { os.Unsetenv(EnvData) })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "trade.csv", cfg.Data.Path)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)
	assert.True(t, cfg.Log.Debug)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"mode", func(c *Config) { c.Display.Mode = "sideways" }},
		{"product", func(c *Config) { c.Display.Product = "weight" }},
		{"hs level", func(c *Config) { c.Display.HSLevel = "8-digit" }},
		{"threshold", func(c *Config) { c.Filter.MinTransactions = 0 }},
		{"width", func(c *Config) { c.Layout.Width = 0 }},
		{"addr", func(c *Config) { c.Server.Addr = "" }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestEnsureExists(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	created, err := EnsureExists()
	require.NoError(t, err)
	assert.True(t, created)

	created, err = EnsureExists()
	require.NoError(t, err)
	assert.False(t, created, "existing file is kept")
}
