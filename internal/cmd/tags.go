package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/runger/markfind/internal/search"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List bookmark tags with entry counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTaxonomyList(cmd, "#", func(e *search.Engine) map[string][]string {
			return e.Taxonomy().TagIndex(e.Corpus())
		})
	},
}

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "List bookmark folders with entry counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTaxonomyList(cmd, "~", func(e *search.Engine) map[string][]string {
			return e.Taxonomy().FolderIndex(e.Corpus())
		})
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(foldersCmd)
}

func runTaxonomyList(cmd *cobra.Command, marker string, index func(*search.Engine) map[string][]string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
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

	idx := index(engine)

	names := make([]string, 0, len(idx))
	for name := range idx {
		names = append(names, name)
	}
	sort.Strings(names)

	if len(names) == 0 {
		fmt.Println("No entries.")
		return nil
	}
	for _, name := range names {
		fmt.Printf("%s%s  (%d)\n", marker, name, len(idx[name]))
	}
	return nil
}
