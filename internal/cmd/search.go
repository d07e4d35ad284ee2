package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runger/markfind/internal/corpus"
)

var (
	searchJSON     bool
	searchLimit    int
	searchStrategy string
	searchMode     string
)

// modePrefixes maps --mode values onto the term syntax the engine parses.
var modePrefixes = map[string]string{
	"all":       "",
	"bookmarks": "b ",
	"tabs":      "t ",
	"history":   "h ",
	"search":    "s ",
	"tags":      "#",
	"folders":   "~",
	"groups":    "@",
}

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Run one search and print the ranked results",
	Long: `Run one search and print the ranked results.

The term uses the same syntax as the picker: mode prefixes ("b ", "t ",
"h ", "s ") and taxonomy markers ("#", "~", "@") included. An empty term
prints the default results.

Examples:
  markfind search golang          # Search everything
  markfind search "b #reading"    # Bookmarks tagged #reading
  markfind search --json "t mail" # JSON output for scripting`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "cap the printed results (0 = config max)")
	searchCmd.Flags().StringVar(&searchStrategy, "strategy", "", "override the matching strategy: precise or fuzzy")
	searchCmd.Flags().StringVar(&searchMode, "mode", "", "scope the search: all, bookmarks, tabs, history, search, tags, folders, or groups")

	rootCmd.AddCommand(searchCmd)
}

type searchOutput struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"`
	Title    string  `json:"title"`
	URL      string  `json:"url"`
	Score    float64 `json:"score"`
	Approach string  `json:"approach,omitempty"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if searchStrategy != "" {
		cfg.Search.Strategy = searchStrategy
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid strategy: %w", err)
		}
	}
	logger := newLogger(cfg)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	engine, err := buildEngine(cmd.Context(), cfg, st, logger)
	if err != nil {
		return err
	}

	term := ""
	if len(args) == 1 {
		term = args[0]
	}
	if searchMode != "" {
		prefix, ok := modePrefixes[searchMode]
		if !ok {
			return fmt.Errorf("unknown mode %q", searchMode)
		}
		term = prefix + term
	}

	results, err := engine.Search(cmd.Context(), term)
	if err != nil {
		return err
	}
	if searchLimit > 0 && len(results) > searchLimit {
		results = results[:searchLimit]
	}

	if searchJSON {
		return writeSearchJSON(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	for _, r := range results {
		fmt.Printf("%7.1f  %-12s  %s\n", r.Score, r.Type, formatResultLine(&r))
	}
	return nil
}

func formatResultLine(r *corpus.SearchResult) string {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return r.URL
	}
	if r.URL == "" {
		return title
	}
	return title + "  " + r.URL
}

func writeSearchJSON(results []corpus.SearchResult) error {
	out := make([]searchOutput, len(results))
	for i, r := range results {
		out[i] = searchOutput{
			ID:       r.ID,
			Type:     string(r.Type),
			Title:    r.Title,
			URL:      r.URL,
			Score:    r.Score,
			Approach: string(r.Approach),
		}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
