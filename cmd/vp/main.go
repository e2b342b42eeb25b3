// Command vp records how a student works with an AI coding assistant and
// profiles their learning style from the accumulated event log.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suykerbuyk/vibe-profile/internal/config"
	"github.com/suykerbuyk/vibe-profile/internal/help"
	"github.com/suykerbuyk/vibe-profile/internal/logging"
)

// app carries what PersistentPreRunE resolved for the running command.
type app struct {
	cfg    config.Config
	logger *zap.Logger
}

// logPath returns the --log override or the configured event log.
func (a *app) logPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("log"); p != "" {
		return p
	}
	return a.cfg.LogPath()
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "vp",
		Short:         help.TopLevel.Synopsis,
		Version:       help.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			verbose, _ := cmd.Flags().GetBool("verbose")

			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := logging.New(cfg.Logging, verbose)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().String("config", "", "Config file (default: ~/.config/vibe-profile/config.toml)")
	root.PersistentFlags().String("log", "", "Event log (default: <data_dir>/events.jsonl)")
	root.PersistentFlags().BoolP("verbose", "v", false, "Debug logging on stderr")

	root.AddCommand(
		newInitCmd(),
		newHookCmd(a),
		newWatchCmd(a),
		newImportCmd(a),
		newProfileCmd(a),
		newHistoryCmd(a),
		newTrendsCmd(a),
		newArchiveCmd(a),
		newCheckCmd(a),
		newVersionCmd(),
	)

	fallback := root.HelpFunc()
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd == root {
			fmt.Fprint(cmd.OutOrStdout(), help.FormatUsage(help.TopLevel, help.Subcommands))
			return
		}
		if c, ok := help.Lookup(strings.TrimPrefix(cmd.CommandPath(), "vp ")); ok {
			fmt.Fprint(cmd.OutOrStdout(), help.FormatTerminal(c))
			return
		}
		fallback(cmd, args)
	})

	return root
}

// command builds a cobra command whose texts come from the help registry.
func command(name string) *cobra.Command {
	c, _ := help.Lookup(name)
	use := name
	if i := strings.LastIndex(name, " "); i >= 0 {
		use = name[i+1:]
	}
	return &cobra.Command{
		Use:     use,
		Short:   c.Brief,
		Long:    c.Description,
		Example: strings.Join(c.Examples, "\n"),
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "vp: %v\n", err)
		os.Exit(1)
	}
}
