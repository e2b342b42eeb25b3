package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suykerbuyk/vibe-profile/internal/adoption"
	"github.com/suykerbuyk/vibe-profile/internal/classify"
	"github.com/suykerbuyk/vibe-profile/internal/discover"
	"github.com/suykerbuyk/vibe-profile/internal/event"
	"github.com/suykerbuyk/vibe-profile/internal/eventlog"
	"github.com/suykerbuyk/vibe-profile/internal/session"
	"github.com/suykerbuyk/vibe-profile/internal/transcript"
)

func newImportCmd(a *app) *cobra.Command {
	cmd := command("import")
	cmd.Args = cobra.ArbitraryArgs
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("find home directory: %w", err)
			}
			args = []string{filepath.Join(home, ".claude", "projects")}
		}

		var files []discover.TranscriptFile
		for _, arg := range args {
			found, err := transcriptFiles(arg)
			if err != nil {
				return err
			}
			files = append(files, found...)
		}

		events, err := a.history(cmd)
		if err != nil {
			return err
		}
		known := make(map[string]bool)
		for _, id := range eventlog.Tasks(events) {
			known[id] = true
		}

		sink := &countingSink{Sink: a.sink(cmd)}
		cls := classify.New()
		var imported, skipped int
		for _, f := range files {
			tr, err := transcript.ParseFile(f.Path)
			if err != nil {
				a.logger.Warn("skipping transcript", zap.String("path", f.Path), zap.Error(err))
				skipped++
				continue
			}
			if tr.SessionID == "" || known[tr.SessionID] {
				skipped++
				continue
			}
			steps := transcript.Steps(tr)
			if len(steps) == 0 {
				skipped++
				continue
			}

			at := &session.ReplayClock{}
			tracker := session.NewTracker(cls, adoption.New(adoption.WithClock(at.Now)), sink, a.logger.Named("import"),
				session.WithClock(at.Now), session.WithTimeout(a.cfg.AdoptionTimeout()))
			if err := session.Replay(tracker, at, steps); err != nil {
				return fmt.Errorf("import %s: %w", f.Path, err)
			}
			known[tr.SessionID] = true
			imported++
			a.logger.Debug("imported session",
				zap.String("session", tr.SessionID),
				zap.Int("steps", len(steps)))
		}

		fmt.Fprintf(cmd.OutOrStdout(), "imported %d sessions (%d events), skipped %d\n", imported, sink.n, skipped)
		return nil
	}
	return cmd
}

// transcriptFiles expands a directory into its session transcripts. A
// file argument is taken as is.
func transcriptFiles(path string) ([]discover.TranscriptFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return discover.Transcripts(path)
	}
	return []discover.TranscriptFile{{Path: path, ModTime: info.ModTime()}}, nil
}

type countingSink struct {
	session.Sink
	n int
}

func (s *countingSink) Append(ev event.Event) error {
	if err := s.Sink.Append(ev); err != nil {
		return err
	}
	s.n++
	return nil
}
