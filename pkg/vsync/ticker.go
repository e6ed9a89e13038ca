// Package vsync paces frames and hands work to the goroutine that owns the
// scene tree.
//
// Layout is single-threaded. A [Ticker] fires on its own goroutine, so its
// callback must never touch nodes directly; it posts work to a [Loop], and
// the owner goroutine runs that work with [Loop.Drain] after waking from
// [Loop.WaitForVsync].
package vsync

import (
	"context"
	"time"
)

// DefaultInterval is used when a Ticker has no interval.
const DefaultInterval = 16 * time.Millisecond

// Ticker calls OnTick at a fixed interval until its context ends.
type Ticker struct {
	Interval time.Duration
	// Clock overrides the package clock.
	Clock Clock
	// OnTick receives the 1-based frame number and the time since Run began.
	OnTick func(frame int64, elapsed time.Duration)
}

func (t *Ticker) clock() Clock {
	if t.Clock != nil {
		return t.Clock
	}
	return clock
}

// Run blocks, ticking until ctx is done, and returns ctx.Err().
func (t *Ticker) Run(ctx context.Context) error {
	interval := t.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	c := t.clock()
	start := c.Now()
	var frame int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-c.After(interval):
			frame++
			if t.OnTick != nil {
				t.OnTick(frame, now.Sub(start))
			}
		}
	}
}
