package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/runger/markfind/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [path|init]",
	Short: "Inspect or initialize the configuration",
	Long: `Inspect or initialize the configuration.

Without arguments, prints the effective configuration (defaults merged
with the config file). "path" prints the config file location. "init"
writes the defaults to that location if no file exists yet.

Examples:
  markfind config        # Show effective config
  markfind config path   # Show the config file path
  markfind config init   # Write a default config file`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"path", "init"},
	RunE:      runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	path := flagConfigPath
	if path == "" {
		path = config.DefaultPath()
	}

	if len(args) == 0 {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to render config: %w", err)
		}
		fmt.Print(string(data))
		return nil
	}

	switch args[0] {
	case "path":
		fmt.Println(path)
		return nil
	case "init":
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}
		if err := config.DefaultConfig().SaveToFile(path); err != nil {
			return err
		}
		fmt.Printf("Wrote default config to %s\n", path)
		return nil
	default:
		return fmt.Errorf("unknown argument %q", args[0])
	}
}
