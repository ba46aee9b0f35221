package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "upsweep",
	Short: "Bulk package upgrades with live progress",
	Long: `Upsweep reads the pending-upgrade report from winget, launches one
upgrade per package concurrently, and shows their progress in place
without scrolling the terminal.

Packages listed in the skip file are left alone. Packages whose report
row is truncated by the package manager are excluded and called out.

With no arguments, runs the full upgrade cycle.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUpgrade(cmd)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Show what would be upgraded without upgrading")
	rootCmd.Flags().StringVar(&flagInput, "input", "", "Read the upgrade report from a file instead of the package manager")
	rootCmd.Flags().BoolVar(&flagSimulate, "simulate", false, "Fake the package manager (for demos)")
	rootCmd.Flags().BoolVar(&flagTUI, "tui", false, "Use the full-screen progress view")
	rootCmd.Flags().StringVar(&flagSkipFile, "skip-file", "", "Skip-list YAML path (overrides config)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
}
