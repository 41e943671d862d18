// internal/poller/runner.go
package poller

import (
	"context"
	"errors"
	"time"
)

// Run polls once immediately, then on every tick, and emits each
// PollResult on out. One goroutine per device. No overlap. No retries.
func (p *Poller) Run(ctx context.Context, out chan<- PollResult) error {
	if p.cfg.Interval <= 0 {
		return errors.New("poller: interval must be > 0 to run")
	}

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- p.PollOnce():
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
