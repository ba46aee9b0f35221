package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/upsweep-dev/upsweep/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key]",
	Short: "Show configuration",
	Long: `Display the effective upsweep configuration.

Without arguments, displays all configuration values.
With one argument (key), displays the value for that key.

Configuration is stored at ~/.config/upsweep/config.yaml
Project-specific overrides can be placed in .upsweep.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		if len(args) == 0 {
			displayAllConfig(cfg)
			return
		}
		displayConfigKey(cfg, args[0])
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	fmt.Printf("winget.binary: %s\n", cfg.Winget.Binary)
	fmt.Printf("run.poll_interval: %s\n", cfg.Run.PollInterval)
	fmt.Printf("run.skip_file: %s\n", orNotSet(cfg.Run.SkipFile))
	fmt.Printf("history.enabled: %t\n", cfg.History.Enabled)
	fmt.Printf("history.path: %s\n", orNotSet(cfg.History.Path))
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	switch key {
	case "winget.binary":
		fmt.Println(cfg.Winget.Binary)
	case "run.poll_interval":
		fmt.Println(cfg.Run.PollInterval)
	case "run.skip_file":
		fmt.Println(cfg.Run.SkipFile)
	case "history.enabled":
		fmt.Println(cfg.History.Enabled)
	case "history.path":
		fmt.Println(cfg.History.Path)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown config key: %s\n", key)
		os.Exit(1)
	}
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
