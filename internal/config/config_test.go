package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "precise", cfg.Search.Strategy)
	assert.Equal(t, 50, cfg.Search.MaxResults)
	assert.Equal(t, 0.5, cfg.Search.Fuzziness)
	assert.Equal(t, float64(100), cfg.Scoring.BookmarkBaseScore)
	assert.NotEmpty(t, cfg.Engines)
}

func TestLoadFromFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFromFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("search:\n  strategy: fuzzy\n  fuzziness: 0.9\nscoring:\n  bookmark_base_score: 42\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fuzzy", cfg.Search.Strategy)
	assert.Equal(t, 0.9, cfg.Search.Fuzziness)
	assert.Equal(t, float64(42), cfg.Scoring.BookmarkBaseScore)
	// Untouched values keep their defaults.
	assert.Equal(t, 50, cfg.Search.MaxResults)
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\tgarbage ["), 0644))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad strategy", func(c *Config) { c.Search.Strategy = "psychic" }},
		{"fuzziness too high", func(c *Config) { c.Search.Fuzziness = 1.5 }},
		{"fuzziness negative", func(c *Config) { c.Search.Fuzziness = -0.1 }},
		{"zero max results", func(c *Config) { c.Search.MaxResults = 0 }},
		{"negative recent tabs", func(c *Config) { c.Search.RecentTabs = -1 }},
		{"zero cache size", func(c *Config) { c.Search.ResultCacheSize = 0 }},
		{"bad min match length", func(c *Config) { c.Scoring.MinMatchLength = 0 }},
		{"engine without placeholder", func(c *Config) { c.Engines = []SearchEngine{{Name: "X", URL: "https://x.test"}} }},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.Search.Strategy = "fuzzy"
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestDefaultPathEnvOverride(t *testing.T) {
	t.Setenv("MARKFIND_CONFIG", "/tmp/custom.yaml")
	assert.Equal(t, "/tmp/custom.yaml", DefaultPath())
}
