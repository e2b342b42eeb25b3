package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/suykerbuyk/vibe-profile/internal/capture"
	"github.com/suykerbuyk/vibe-profile/internal/check"
	"github.com/suykerbuyk/vibe-profile/internal/config"
	"github.com/suykerbuyk/vibe-profile/internal/eventlog"
	"github.com/suykerbuyk/vibe-profile/internal/help"
)

func newArchiveCmd(a *app) *cobra.Command {
	cmd := command("archive")
	cmd.Args = cobra.NoArgs
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		l := eventlog.Open(a.logPath(cmd))
		size, err := l.Size()
		if err != nil {
			return err
		}
		path, err := l.Rotate(a.cfg.ArchiveDir(), a.cfg.Archive.Compress, time.Now().UTC())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if path == "" {
			fmt.Fprintln(out, "nothing to archive")
			return nil
		}
		var archived int64
		if info, err := os.Stat(path); err == nil {
			archived = info.Size()
		}
		fmt.Fprintf(out, "archived %s (%d KB → %d KB)\n", config.CompressHome(path), size/1024, archived/1024)
		return nil
	}
	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	cmd := command("check")
	cmd.Args = cobra.NoArgs
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		report := check.Run(cmd.Context(), a.cfg, capture.WorkspaceRoot(wd))
		fmt.Fprint(cmd.OutOrStdout(), report.Format())
		if report.HasFailures() {
			return errors.New("check failed")
		}
		return nil
	}
	return cmd
}

func newInitCmd() *cobra.Command {
	cmd := command("init")
	cmd.Args = cobra.NoArgs
	cmd.Flags().String("data-dir", config.DefaultConfig().DataDir, "Where events, archives and snapshots live")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		dataDir, _ := cmd.Flags().GetString("data-dir")
		path, action, err := config.WriteDefault(dataDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", action, config.CompressHome(path))
		return nil
	}
	return cmd
}

func newVersionCmd() *cobra.Command {
	cmd := command("version")
	cmd.Args = cobra.NoArgs
	cmd.Run = func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "vp %s (vibe-profile)\n", help.Version)
	}
	return cmd
}
