// Package scheduler provides the idle-time scheduling primitive the fiber
// engine runs on.
//
// The contract mirrors a browser's requestIdleCallback: a callback is
// registered once, invoked later with a Deadline, and must register itself
// again if it wants another slice. Registrations are one-shot.
//
// Three hosts are provided:
//
//   - [Loop] runs slices on a ticker from its own goroutine.
//   - [Manual] runs slices only when the caller steps it. Tests and batch
//     tools use it for deterministic slicing.
//   - [Unbounded] is a Deadline that never expires.
package scheduler

import (
	"math"
	"time"
)

// Deadline tells a callback how much of its slice is left.
type Deadline interface {
	TimeRemaining() time.Duration
}

// Callback receives one idle slice.
type Callback func(Deadline)

// IdleScheduler hands out idle slices to registered callbacks.
type IdleScheduler interface {
	// RequestIdleCallback registers cb for the next idle slice.
	RequestIdleCallback(cb Callback)
}

// clockDeadline expires at a fixed instant of a clock.
type clockDeadline struct {
	clock Clock
	end   time.Time
}

func (d clockDeadline) TimeRemaining() time.Duration {
	remaining := d.end.Sub(d.clock.Now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// NewDeadline returns a Deadline that expires budget after the clock's
// current time.
func NewDeadline(clock Clock, budget time.Duration) Deadline {
	if clock == nil {
		clock = SystemClock{}
	}
	return clockDeadline{clock: clock, end: clock.Now().Add(budget)}
}

type unbounded struct{}

func (unbounded) TimeRemaining() time.Duration { return math.MaxInt64 }

// Unbounded is a Deadline with unlimited time remaining.
var Unbounded Deadline = unbounded{}
