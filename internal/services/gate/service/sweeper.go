package service

import (
	"context"
	"time"

	"cargogate/internal/core/filter"
	"cargogate/internal/platform/logger"
)

// DefaultSweepEvery is how often idle tracker entries are evicted when the
// caller does not choose an interval
const DefaultSweepEvery = 5 * time.Minute

// Sweeper periodically evicts idle entries from the filter's tracker state
// so long-quiet senders do not pin memory
type Sweeper struct {
	state *filter.State
	every time.Duration
}

// NewSweeper constructs a sweeper over the filter state
func NewSweeper(state *filter.State, every time.Duration) *Sweeper {
	if state == nil {
		panic("gate.Sweeper requires non nil filter state")
	}
	if every <= 0 {
		every = DefaultSweepEvery
	}
	return &Sweeper{state: state, every: every}
}

// Run blocks until ctx is done, sweeping on the configured ticker. A panic
// in one sweep is logged and does not stop the loop
func (w *Sweeper) Run(ctx context.Context) {
	log := logger.Named("gate.sweeper")
	t := time.NewTicker(w.every)
	defer t.Stop()

	log.Debug().Dur("every", w.every).Msg("tracker sweep loop started")
	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("tracker sweep loop stopped")
			return
		case now := <-t.C:
			w.sweep(now, log)
		}
	}
}

func (w *Sweeper) sweep(now time.Time, log *logger.Logger) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("tracker sweep panicked")
		}
	}()
	w.state.Sweep(now)
	freq, groups, phones, dupes := w.state.Sizes()
	log.Debug().
		Int("freq", freq).
		Int("groups", groups).
		Int("phones", phones).
		Int("dupes", dupes).
		Msg("tracker sweep done")
}
