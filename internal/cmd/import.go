package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/runger/markfind/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a browser snapshot export",
	Long: `Import a browser snapshot export (bookmarks, tabs, history).

Reads the JSON export from the given file, or from stdin when no file is
given. Each import replaces the previously stored datasets.

Examples:
  markfind import export.json
  browser-export | markfind import`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	var in io.Reader = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open snapshot: %w", err)
		}
		defer f.Close()
		in = f
	}

	snap, err := store.ReadSnapshot(in)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	counts, err := st.ImportSnapshot(cmd.Context(), snap)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d bookmarks, %d tabs, %d history entries.\n",
		counts.Bookmarks, counts.Tabs, counts.History)
	return nil
}
