package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/splatcam/internal/config"
	"github.com/jask/splatcam/internal/database"
	"github.com/jask/splatcam/internal/database/repository"
	"github.com/jask/splatcam/internal/service"
	"github.com/jask/splatcam/internal/tui"
	"github.com/jask/splatcam/internal/wizard"
)

func newRootCmd(cfg *config.Config, logs *logSink) *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:          "splatcam [photos...]",
		Short:        "Turn a handful of photos into an interactive Gaussian splat",
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logs.configure(logLevel, cfg.Log)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWizard(cmd.Context(), *cfg, args)
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides log.level")

	cmd.AddCommand(
		newViewCmd(cfg),
		newHistoryCmd(cfg),
		newConfigCmd(cfg),
	)
	return cmd
}

// execute runs cmd and closes the log file afterwards; cobra skips post-run
// hooks when a command fails.
func execute(ctx context.Context, cmd *cobra.Command, logs *logSink) error {
	defer logs.Close()
	return cmd.ExecuteContext(ctx)
}

func runWizard(ctx context.Context, cfg config.Config, paths []string) error {
	db, err := database.OpenMigrated(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer db.Close()

	// journal writes queued at exit still land after ctrl+c
	journal := &service.Journal{Scans: repository.NewScanRepo(db), AssetURL: cfg.Viewer.AssetURL, Log: slog.Default()}
	journal.Start(context.WithoutCancel(ctx))
	defer journal.Close()

	app, err := tui.New(ctx, cfg, tui.Options{
		Observers: []wizard.Observer{journal.Observe},
		Paths:     paths,
		Logger:    slog.Default(),
	})
	if err != nil {
		return err
	}
	defer app.Machine().Close()

	slog.Info("wizard started", "db", cfg.Database.Path, "seed", len(paths))
	_, err = tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return finishWizard(app.Machine(), err)
}

// finishWizard handles the program's exit. A program killed by a signal never
// saw the quit key, so the machine is reset here to end the open scan.
func finishWizard(m *wizard.Machine, err error) error {
	if errors.Is(err, tea.ErrProgramKilled) {
		slog.Info("wizard killed", "step", m.Step())
		m.Reset()
		return nil
	}
	if err != nil {
		return fmt.Errorf("run wizard: %w", err)
	}
	return nil
}
