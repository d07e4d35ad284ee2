package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/runger/markfind/internal/picker"
)

var pickQuery string

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Open the interactive result picker",
	Long: `Open the interactive result picker.

The list refreshes on every keystroke; arrow keys move the selection
without re-running the search. Enter prints the selected URL to stdout,
Esc exits without output.

Examples:
  markfind pick                 # Start with default results
  markfind pick -q "b golang"   # Start with a pre-filled query`,
	Args: cobra.NoArgs,
	RunE: runPick,
}

func init() {
	pickCmd.Flags().StringVarP(&pickQuery, "query", "q", "", "pre-fill the search input")
	rootCmd.AddCommand(pickCmd)
}

func runPick(cmd *cobra.Command, args []string) error {
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

	model := picker.NewModel(cfg.Picker, picker.NewEngineProvider(engine))
	if pickQuery != "" {
		model = model.WithQuery(pickQuery)
	}

	// Run the TUI on /dev/tty so stdout stays usable for the selected URL
	// when the picker is embedded in a pipeline.
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("cannot open /dev/tty: %w", err)
	}
	defer tty.Close()

	// When stdout is a pipe lipgloss defaults to Ascii; detect the profile
	// from the real tty instead.
	lipgloss.SetColorProfile(termenv.NewOutput(tty).ColorProfile())

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithInput(tty),
		tea.WithOutput(tty),
	)

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("picker error: %w", err)
	}

	m, ok := finalModel.(picker.Model)
	if !ok {
		return fmt.Errorf("unexpected model type %T", finalModel)
	}
	if m.IsCancelled() {
		return nil
	}
	if r := m.Result(); r != nil {
		fmt.Fprintln(os.Stdout, r.URL)
	}
	return nil
}
