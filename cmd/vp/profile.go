package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suykerbuyk/vibe-profile/internal/event"
	"github.com/suykerbuyk/vibe-profile/internal/eventlog"
	"github.com/suykerbuyk/vibe-profile/internal/profile"
	"github.com/suykerbuyk/vibe-profile/internal/snapshot"
	"github.com/suykerbuyk/vibe-profile/internal/trends"
)

// history reads archives plus the live log, warning about damaged lines.
func (a *app) history(cmd *cobra.Command) ([]event.Event, error) {
	res, err := eventlog.ReadHistory(a.logPath(cmd), a.cfg.ArchiveDir())
	if err != nil {
		return nil, err
	}
	if res.Skipped > 0 {
		a.logger.Warn("skipped unreadable event lines", zap.Int("skipped", res.Skipped))
	}
	return res.Events, nil
}

func newProfileCmd(a *app) *cobra.Command {
	cmd := command("profile")
	cmd.Args = cobra.NoArgs
	cmd.Flags().String("since", "", "Only events at or after this date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().String("until", "", "Only events before this date")
	cmd.Flags().String("format", "text", "Output format: text, json or yaml")
	cmd.Flags().Bool("save", false, "Store the profile as a snapshot")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		sinceFlag, _ := cmd.Flags().GetString("since")
		untilFlag, _ := cmd.Flags().GetString("until")
		format, _ := cmd.Flags().GetString("format")
		save, _ := cmd.Flags().GetBool("save")

		since, err := parseDate(sinceFlag)
		if err != nil {
			return fmt.Errorf("--since: %w", err)
		}
		until, err := parseDate(untilFlag)
		if err != nil {
			return fmt.Errorf("--until: %w", err)
		}

		events, err := a.history(cmd)
		if err != nil {
			return err
		}
		p := profile.NewAggregator(nil).Generate(profile.Filter(events, since, until))

		if err := writeProfile(cmd.OutOrStdout(), p, format); err != nil {
			return err
		}

		if save {
			store, err := snapshot.Open(a.cfg.SnapshotDB())
			if err != nil {
				return err
			}
			defer store.Close()
			id, err := store.Save(cmd.Context(), p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "saved snapshot %s\n", shortID(id))
		}
		return nil
	}
	return cmd
}

func writeProfile(w io.Writer, p profile.Profile, format string) error {
	if format == "" || format == "text" {
		_, err := io.WriteString(w, profile.Format(p))
		return err
	}
	data, err := profile.Marshal(p, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// parseDate accepts a calendar date (UTC midnight) or an RFC 3339 time.
// Empty input is the open bound.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: want YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func newHistoryCmd(a *app) *cobra.Command {
	cmd := command("history")
	cmd.Args = cobra.NoArgs
	cmd.Flags().Int("limit", 20, "Show at most n snapshots")
	cmd.Flags().String("show", "", "Print one snapshot by id or unique prefix")
	cmd.Flags().Int("prune", -1, "Delete all but the newest n snapshots")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		show, _ := cmd.Flags().GetString("show")
		prune, _ := cmd.Flags().GetInt("prune")
		out := cmd.OutOrStdout()
		ctx := cmd.Context()

		store, err := snapshot.Open(a.cfg.SnapshotDB())
		if err != nil {
			return err
		}
		defer store.Close()

		if prune >= 0 {
			n, err := store.Prune(ctx, prune)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "pruned %d snapshots\n", n)
			return nil
		}

		if show != "" {
			snap, err := store.Get(ctx, show)
			if errors.Is(err, snapshot.ErrNoSnapshot) {
				return fmt.Errorf("no snapshot matches %q", show)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "snapshot %s saved %s\n\n", snap.ID, snap.SavedAt.Local().Format("2006-01-02 15:04"))
			_, err = io.WriteString(out, profile.Format(snap.Profile))
			return err
		}

		snaps, err := store.List(ctx, limit)
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, formatHistory(snaps))
		return err
	}
	return cmd
}

func formatHistory(snaps []snapshot.Snapshot) string {
	if len(snaps) == 0 {
		return "No snapshots saved. Run `vp profile --save` first.\n"
	}
	var b []byte
	b = fmt.Appendf(b, "%-8s  %-16s  %-11s  %5s  %6s  %6s  %6s\n",
		"ID", "SAVED", "STYLE", "CONF", "AI-DEP", "ADOPT", "EVENTS")
	for _, s := range snaps {
		p := s.Profile
		b = fmt.Appendf(b, "%-8s  %-16s  %-11s  %4.0f%%  %5.0f%%  %5.0f%%  %6d\n",
			shortID(s.ID), s.SavedAt.Local().Format("2006-01-02 15:04"), p.LearningStyle,
			p.StyleConfidence*100, p.AIDependency*100, p.AdoptionRate*100, p.TotalEvents)
	}
	return string(b)
}

func newTrendsCmd(a *app) *cobra.Command {
	cmd := command("trends")
	cmd.Args = cobra.NoArgs
	cmd.Flags().Int("weeks", 12, "Number of weeks to display")
	cmd.Flags().String("format", "text", "Output format: text or json")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		weeks, _ := cmd.Flags().GetInt("weeks")
		format, _ := cmd.Flags().GetString("format")

		events, err := a.history(cmd)
		if err != nil {
			return err
		}
		r := trends.Compute(events, profile.NewAggregator(nil), weeks)

		switch format {
		case "", "text":
			_, err = io.WriteString(cmd.OutOrStdout(), trends.Format(r))
			return err
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(r)
		default:
			return fmt.Errorf("unknown format %q (want text or json)", format)
		}
	}
	return cmd
}
