package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/suykerbuyk/vibe-profile/internal/classify"
	"github.com/suykerbuyk/vibe-profile/internal/config"
	"github.com/suykerbuyk/vibe-profile/internal/eventlog"
	"github.com/suykerbuyk/vibe-profile/internal/hook"
)

// hookReadTimeout bounds how long vp hook waits for Claude Code's payload.
const hookReadTimeout = 2 * time.Second

func newHookCmd(a *app) *cobra.Command {
	cmd := command("hook")
	cmd.Args = cobra.NoArgs
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		in, err := hook.ReadInput(cmd.InOrStdin(), hookReadTimeout)
		if err != nil {
			return err
		}
		h := hook.NewHandler(eventlog.Open(a.logPath(cmd)), classify.New(), a.logger, nil)
		_, err = h.Handle(in)
		return err
	}

	install := command("hook install")
	install.Args = cobra.NoArgs
	install.RunE = func(cmd *cobra.Command, args []string) error {
		path, changed, err := hook.Install()
		if err != nil {
			return err
		}
		if changed {
			fmt.Fprintf(cmd.OutOrStdout(), "installed vp hooks in %s\n", config.CompressHome(path))
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "vp hooks already installed in %s\n", config.CompressHome(path))
		}
		return nil
	}

	uninstall := command("hook uninstall")
	uninstall.Args = cobra.NoArgs
	uninstall.RunE = func(cmd *cobra.Command, args []string) error {
		path, changed, err := hook.Uninstall()
		if err != nil {
			return err
		}
		if changed {
			fmt.Fprintf(cmd.OutOrStdout(), "removed vp hooks from %s\n", config.CompressHome(path))
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "no vp hooks in %s\n", config.CompressHome(path))
		}
		return nil
	}

	cmd.AddCommand(install, uninstall)
	return cmd
}
