// Package worker drives a tick function at a fixed rate.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/oomph-ac/grasp/oerror"
)

// Run calls tick rate times per second with a fixed tick length until ctx is cancelled. A panic in tick is
// reported to sentry and stops the loop with an error.
func Run(ctx context.Context, rate int, tick func(dt time.Duration)) error {
	if rate <= 0 {
		return oerror.New("worker: tick rate must be positive, got %d", rate)
	}
	interval := time.Second / time.Duration(rate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if ctx.Err() != nil {
				return nil
			}
			if err := safeTick(tick, interval); err != nil {
				return err
			}
		}
	}
}

func safeTick(tick func(dt time.Duration), dt time.Duration) (err error) {
	defer func() {
		if r := recover(); r != nil {
			sentry.CurrentHub().Recover(r)
			sentry.Flush(2 * time.Second)
			err = fmt.Errorf("worker: tick panicked: %v", r)
		}
	}()
	tick(dt)
	return nil
}
