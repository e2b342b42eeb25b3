package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suykerbuyk/vibe-profile/internal/adoption"
	"github.com/suykerbuyk/vibe-profile/internal/capture"
	"github.com/suykerbuyk/vibe-profile/internal/classify"
	"github.com/suykerbuyk/vibe-profile/internal/eventlog"
	"github.com/suykerbuyk/vibe-profile/internal/session"
)

func newWatchCmd(a *app) *cobra.Command {
	cmd := command("watch")
	cmd.Args = cobra.NoArgs
	cmd.Flags().String("dir", "", "Workspace to watch (default: git root of the current directory)")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get working directory: %w", err)
			}
			dir = capture.WorkspaceRoot(wd)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return a.watch(ctx, cmd, dir)
	}
	return cmd
}

func (a *app) watch(ctx context.Context, cmd *cobra.Command, dir string) error {
	cfg := a.cfg
	sink := a.sink(cmd)

	w, err := capture.New(dir, capture.Options{
		Debounce:   cfg.Debounce(),
		Extensions: cfg.Capture.Extensions,
		IgnoreDirs: cfg.Capture.IgnoreDirs,
	}, a.logger.Named("capture"))
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return err
	}
	defer w.Stop()

	tracker := session.NewTracker(classify.New(), adoption.New(), sink, a.logger.Named("session"),
		session.WithTimeout(cfg.AdoptionTimeout()))
	sweeper := session.NewSweeper(tracker, cfg.SweepInterval(), a.logger.Named("sweeper"))

	a.logger.Info("watching",
		zap.String("workspace", dir),
		zap.String("log", sink.Path()),
		zap.Duration("adoption_timeout", cfg.AdoptionTimeout()))

	return session.Run(ctx, tracker, sweeper, cmd.InOrStdin(), w.Changes())
}

// sink opens the event log with size-based rotation into the archive.
func (a *app) sink(cmd *cobra.Command) *eventlog.RotatingLog {
	return &eventlog.RotatingLog{
		Log:        eventlog.Open(a.logPath(cmd)),
		ArchiveDir: a.cfg.ArchiveDir(),
		Compress:   a.cfg.Archive.Compress,
		MaxBytes:   a.cfg.Archive.MaxBytes,
		OnRotate: func(path string) {
			a.logger.Info("event log rotated", zap.String("archive", path))
		},
	}
}
