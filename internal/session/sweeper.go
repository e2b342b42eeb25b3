package session

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper periodically finalizes pending turns that outlived the timeout.
type Sweeper struct {
	tracker  *Tracker
	interval time.Duration
	log      *zap.Logger
}

// NewSweeper returns a Sweeper ticking every interval.
func NewSweeper(t *Tracker, interval time.Duration, log *zap.Logger) *Sweeper {
	if log == nil {
		log = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Sweeper{tracker: t, interval: interval, log: log}
}

// Run sweeps until ctx is done, judging age by the tracker's clock. Record
// failures are logged and the tracker retries them on the next tick.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := s.tracker.Sweep(s.tracker.now())
			if err != nil {
				s.log.Warn("sweep could not record verdicts",
					zap.Int("unsent", s.tracker.Unsent()),
					zap.Error(err))
			}
			if n > 0 {
				s.log.Debug("swept pending turns", zap.Int("finalized", n))
			}
		}
	}
}
