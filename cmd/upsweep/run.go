package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/upsweep-dev/upsweep/internal/config"
	"github.com/upsweep-dev/upsweep/internal/exec"
	"github.com/upsweep-dev/upsweep/internal/orchestrator"
	"github.com/upsweep-dev/upsweep/internal/registry"
	"github.com/upsweep-dev/upsweep/internal/render"
	"github.com/upsweep-dev/upsweep/internal/report"
	"github.com/upsweep-dev/upsweep/internal/state"
	"github.com/upsweep-dev/upsweep/internal/summary"
	"github.com/upsweep-dev/upsweep/internal/task"
	"github.com/upsweep-dev/upsweep/internal/tui"
)

var (
	flagDryRun   bool
	flagInput    string
	flagSimulate bool
	flagTUI      bool
	flagSkipFile string
)

// runUpgrade is the full cycle: read the report, seed the registry,
// dispatch tasks, render progress, print the summary, record history.
// Upgrade failures are reported in the summary, not the exit code; a
// non-zero exit means upsweep itself could not run.
func runUpgrade(cmd *cobra.Command) error {
	cmd.SilenceUsage = true

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	skipPath := cfg.Run.SkipFile
	if flagSkipFile != "" {
		skipPath = flagSkipFile
	}
	skip := map[string]struct{}{}
	if skipPath != "" {
		skip, err = config.LoadSkipSet(skipPath)
		if err != nil {
			return err
		}
	}

	cwd, _ := os.Getwd()
	logger, err := orchestrator.NewDebugLogger(orchestrator.DefaultLogPath(cwd))
	if err != nil {
		logger = orchestrator.NopLogger()
	}
	defer logger.Close()

	var runner exec.CommandRunner = &exec.ExecRunner{}
	if flagSimulate {
		runner = &exec.SimulatedRunner{
			Report:    sampleReport,
			FailIDs:   map[string]struct{}{"Contoso.Broken": {}},
			StepDelay: 400 * time.Millisecond,
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	raw, err := readReport(ctx, runner, cfg.Winget.Binary)
	if err != nil {
		return err
	}

	records := report.NewParser(logger.Log).Parse(raw)
	reg, queued, skipped := registry.Seed(records, skip)
	if queued == 0 {
		fmt.Println("No packages to upgrade.")
		if skipped > 0 {
			fmt.Printf("(%d skipped)\n", skipped)
		}
		return nil
	}

	if flagDryRun {
		return printDryRun(reg, skipped)
	}

	var frontend orchestrator.Frontend
	if flagTUI {
		frontend = tui.Start()
	} else {
		frontend = render.New(os.Stdout)
	}

	session := &orchestrator.Session{
		Registry:     reg,
		Runner:       task.NewRunner(runner, cfg.Winget.Binary, logger.Log),
		Updater:      task.NewUpdater(reg, logger.Log),
		Frontend:     frontend,
		Logger:       logger,
		PollInterval: cfg.Run.PollInterval,
	}

	res, runErr := session.Run(ctx)
	if runErr != nil {
		fmt.Println("\nInterrupted; in-flight upgrades were abandoned.")
	}

	summary.New(os.Stdout).Report(reg, skipped, res.FinishedAt.Sub(res.StartedAt))

	if cfg.History.Enabled {
		if err := recordHistory(cfg, reg, res, skipped); err != nil {
			logger.Log("history: recording run failed: %v", err)
		}
	}
	return nil
}

// readReport acquires the raw upgrade report, either from --input or by
// asking the package manager.
func readReport(ctx context.Context, runner exec.CommandRunner, binary string) (string, error) {
	if flagInput != "" {
		data, err := os.ReadFile(flagInput)
		if err != nil {
			return "", fmt.Errorf("reading report from %s: %w", flagInput, err)
		}
		return string(data), nil
	}
	if _, err := runner.Resolve(binary); err != nil {
		return "", fmt.Errorf("%s not found in PATH", binary)
	}
	out, err := runner.Run(ctx, binary, "upgrade", "--include-unknown")
	if err != nil {
		return "", fmt.Errorf("querying %s for upgrades: %w", binary, err)
	}
	return string(out), nil
}

// printDryRun echoes the would-be upgrade set as a canonical report.
func printDryRun(reg *registry.Registry, skipped int) error {
	recs := make([]report.Record, 0, reg.Len())
	for _, id := range reg.IDs() {
		recs = append(recs, reg.Get(id).Record)
	}
	fmt.Print(report.Format(recs))
	if skipped > 0 {
		fmt.Printf("%d skipped by skip list.\n", skipped)
	}
	return nil
}

// recordHistory writes the finished run into the local database.
func recordHistory(cfg *config.Config, reg *registry.Registry, res *orchestrator.Result, skipped int) error {
	path := cfg.History.Path
	if path == "" {
		path = state.DefaultDBPath()
	}
	db, err := state.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return err
	}

	run := &state.Run{
		ID:         res.RunID,
		StartedAt:  res.StartedAt,
		FinishedAt: res.FinishedAt,
		Dispatched: res.Dispatched,
		Succeeded:  res.Succeeded,
		Failed:     res.Failed,
		Skipped:    skipped,
	}
	for _, id := range reg.IDs() {
		e := reg.Get(id)
		var dur time.Duration
		if !e.StartedAt.IsZero() && !e.FinishedAt.IsZero() {
			dur = e.FinishedAt.Sub(e.StartedAt)
		}
		run.Packages = append(run.Packages, state.RunPackage{
			PackageID:    e.Record.ID,
			Name:         e.Record.Name,
			FromVersion:  e.Record.Current,
			ToVersion:    e.Record.Available,
			State:        e.State.String(),
			ErrorMessage: e.ErrorMessage,
			Duration:     dur,
		})
	}
	return db.RecordRun(run)
}

// sampleReport feeds --simulate with a realistic report.
const sampleReport = `Name                 Id                   Version   Available  Source
------------------------------------------------------------------------
Contoso App          Contoso.App          1.2.3     1.3.0      winget
Contoso Broken       Contoso.Broken       0.9.1     1.0.0      winget
Fabrikam Tool        Fabrikam.Tool        2024.1    2024.2     winget
3 upgrades available.
`
