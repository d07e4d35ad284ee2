// Package config loads and validates the markfind configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/runger/markfind/internal/scoring"
)

// Config represents the markfind configuration.
type Config struct {
	Search  SearchConfig    `yaml:"search"`
	Scoring scoring.Options `yaml:"scoring"`
	Engines []SearchEngine  `yaml:"engines"`
	Picker  PickerConfig    `yaml:"picker"`
	Log     LogConfig       `yaml:"log"`
}

// SearchConfig holds matching and result-shaping settings.
type SearchConfig struct {
	Strategy         string  `yaml:"strategy"`          // precise or fuzzy
	MaxResults       int     `yaml:"max_results"`       // result cap after sorting
	Fuzziness        float64 `yaml:"fuzziness"`         // 0-1 typo tolerance
	RecentTabs       int     `yaml:"recent_tabs"`       // tabs shown in default results
	DirectNavigation bool    `yaml:"direct_navigation"` // synthesize a direct result for URL-shaped terms
	ResultCacheSize  int     `yaml:"result_cache_size"` // entries kept in the result cache
}

// SearchEngine describes one configured external search engine. %s in the
// URL template is replaced with the escaped query term. An Alias makes
// "alias term" in all mode target this engine directly.
type SearchEngine struct {
	Name  string `yaml:"name"`
	URL   string `yaml:"url"`
	Alias string `yaml:"alias"`
}

// PickerConfig holds popup UI settings.
type PickerConfig struct {
	MaxVisibleRows int  `yaml:"max_visible_rows"`
	ShowScores     bool `yaml:"show_scores"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			Strategy:         "precise",
			MaxResults:       50,
			Fuzziness:        0.5,
			RecentTabs:       5,
			DirectNavigation: true,
			ResultCacheSize:  256,
		},
		Scoring: scoring.DefaultOptions(),
		Engines: []SearchEngine{
			{Name: "Google", URL: "https://www.google.com/search?q=%s", Alias: "g"},
			{Name: "Wikipedia", URL: "https://en.wikipedia.org/wiki/Special:Search?search=%s", Alias: "w"},
		},
		Picker: PickerConfig{
			MaxVisibleRows: 12,
			ShowScores:     false,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the config file path, honoring MARKFIND_CONFIG.
func DefaultPath() string {
	if p := os.Getenv("MARKFIND_CONFIG"); p != "" {
		return p
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "markfind", "config.yaml")
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	return LoadFromFile(DefaultPath())
}

// LoadFromFile loads configuration from the specified file. A missing file
// yields the defaults.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration to the specified file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Search.Strategy {
	case "precise", "fuzzy":
	default:
		return fmt.Errorf("search.strategy must be precise or fuzzy (got: %s)", c.Search.Strategy)
	}

	if c.Search.Fuzziness < 0 || c.Search.Fuzziness > 1 {
		return errors.New("search.fuzziness must be between 0 and 1")
	}
	if c.Search.MaxResults <= 0 {
		return errors.New("search.max_results must be > 0")
	}
	if c.Search.RecentTabs < 0 {
		return errors.New("search.recent_tabs must be >= 0")
	}
	if c.Search.ResultCacheSize <= 0 {
		return errors.New("search.result_cache_size must be > 0")
	}

	if c.Scoring.MinMatchLength < 1 {
		return errors.New("scoring.min_match_length must be >= 1")
	}
	if c.Scoring.IncludesTokenCap < 0 {
		return errors.New("scoring.includes_token_cap must be >= 0")
	}
	if c.Scoring.RecencyDays < 0 {
		return errors.New("scoring.recency_days must be >= 0")
	}

	for _, e := range c.Engines {
		if e.Name == "" || !strings.Contains(e.URL, "%s") {
			return fmt.Errorf("engine %q must have a name and a url containing %%s", e.Name)
		}
	}

	if !isValidLogLevel(c.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn, or error (got: %s)", c.Log.Level)
	}
	return nil
}

// SlogLevel maps the configured level to a slog level string consumers can
// parse; invalid levels were rejected by Validate.
func (c *Config) SlogLevel() string {
	return c.Log.Level
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
