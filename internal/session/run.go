package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/suykerbuyk/vibe-profile/internal/capture"
	"github.com/suykerbuyk/vibe-profile/internal/hook"
)

// Run drives the live pipeline: hook payloads read one per line from r,
// workspace changes from changes (may be nil) and the sweeper. It returns
// when r is exhausted or ctx is done, after ending every open task.
func Run(ctx context.Context, t *Tracker, s *Sweeper, r io.Reader, changes <-chan capture.Change) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		for {
			select {
			case <-gctx.Done():
				return nil
			case line, ok := <-lines:
				if !ok {
					select {
					case err := <-scanErr:
						if err != nil {
							return fmt.Errorf("read input: %w", err)
						}
					default:
					}
					return nil
				}
				if strings.TrimSpace(line) == "" {
					continue
				}
				in, err := hook.Decode([]byte(line))
				if err != nil {
					t.log.Warn("skipping input line", zap.Error(err))
					continue
				}
				if err := t.Apply(in); err != nil {
					return err
				}
			}
		}
	})

	if changes != nil {
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return nil
				case c, ok := <-changes:
					if !ok {
						return nil
					}
					if c.Delta != 0 {
						if err := t.Edit("", c.Path, c.Delta); err != nil {
							return err
						}
					}
					if err := t.Save("", c.Path); err != nil {
						return err
					}
				}
			}
		})
	}

	if s != nil {
		g.Go(func() error { return s.Run(gctx) })
	}

	err := g.Wait()
	if endErr := t.EndAll(); err == nil {
		err = endErr
	}
	return err
}
