// Package cmd wires the markfind CLI: the interactive picker, one-shot
// search, snapshot import, and config inspection.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/runger/markfind/internal/config"
	"github.com/runger/markfind/internal/corpus"
	"github.com/runger/markfind/internal/search"
	"github.com/runger/markfind/internal/store"
)

var (
	flagConfigPath string
	flagDBPath     string
)

var rootCmd = &cobra.Command{
	Use:   "markfind",
	Short: "incremental search over bookmarks, tabs, and history",
	Long: `markfind - incremental search over bookmarks, tabs, and history

Type to search across every imported dataset; prefix with "b ", "t ",
"h ", or "s " to scope to one, or start with "#", "~", "@" to search
tags, folders, or tab groups.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "config file path (default ~/.config/markfind/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "database path (default ~/.markfind/corpus.db)")
}

// loadConfig loads and validates the effective configuration.
func loadConfig() (*config.Config, error) {
	path := flagConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the process logger from the config's log level. Output
// goes to stderr so stdout stays clean for results.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openStore opens the corpus database at the configured path.
func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(flagDBPath)
}

// buildEngine assembles a ready-to-search engine over the stored corpus.
// The most recently used tab stands in for the active browser tab.
func buildEngine(ctx context.Context, cfg *config.Config, st *store.SQLiteStore, logger *slog.Logger) (*search.Engine, error) {
	c, err := st.LoadCorpus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}

	engine := search.New(search.Options{
		Config:    cfg,
		Logger:    logger,
		TabLookup: mostRecentTab(c),
	})
	engine.SetCorpus(c)
	return engine, nil
}

// mostRecentTab returns a lookup that resolves the tab with the smallest
// seconds-ago value, or nil when no tab carries one.
func mostRecentTab(c *corpus.Corpus) search.TabLookupFunc {
	return func(ctx context.Context) (*corpus.Entry, error) {
		var best *corpus.Entry
		for i := range c.Tabs {
			tab := &c.Tabs[i]
			if tab.LastVisitSecondsAgo == nil {
				continue
			}
			if best == nil || *tab.LastVisitSecondsAgo < *best.LastVisitSecondsAgo {
				best = tab
			}
		}
		return best, nil
	}
}
