package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/upsweep-dev/upsweep/internal/config"
	"github.com/upsweep-dev/upsweep/internal/state"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show past upgrade runs",
	Long: `List recorded upgrade runs, newest first.

With a run ID argument, shows the per-package outcomes of that run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		path := cfg.History.Path
		if path == "" {
			path = state.DefaultDBPath()
		}
		if _, err := os.Stat(path); err != nil {
			fmt.Println("No run history recorded yet.")
			return nil
		}

		db, err := state.Open(path)
		if err != nil {
			return fmt.Errorf("opening history database: %w", err)
		}
		defer db.Close()
		if err := db.Migrate(); err != nil {
			return fmt.Errorf("migrating history database: %w", err)
		}

		if len(args) > 0 {
			return showRun(db, args[0])
		}
		return listRuns(db)
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum runs to list")
}

func listRuns(db *state.DB) error {
	runs, err := db.ListRuns(historyLimit)
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No run history recorded yet.")
		return nil
	}

	for _, r := range runs {
		fmt.Printf("%s  %s  %d upgraded, %d failed, %d skipped\n",
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.Succeeded, r.Failed, r.Skipped)
	}
	return nil
}

func showRun(db *state.DB, id string) error {
	run, err := db.GetRun(id)
	if err != nil {
		return fmt.Errorf("loading run %s: %w", id, err)
	}
	if run == nil {
		return fmt.Errorf("no run with ID %s", id)
	}

	fmt.Printf("Run %s, started %s\n\n", run.ID, run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	for _, p := range run.Packages {
		mark := color.GreenString("✓")
		if p.State != "Completed" {
			mark = color.RedString("✗")
		}
		fmt.Printf("  %s %s %s → %s (%s)\n", mark, p.Name, p.FromVersion, p.ToVersion, p.Duration.Round(10*time.Millisecond))
		if p.ErrorMessage != "" {
			fmt.Printf("      %s\n", p.ErrorMessage)
		}
	}
	fmt.Printf("\n%d upgraded, %d failed, %d skipped\n", run.Succeeded, run.Failed, run.Skipped)
	return nil
}
