package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/go-drift/fiber/pkg/errors"
)

// Default slicing parameters, roughly one 60Hz frame with a 5ms idle budget.
const (
	DefaultBudget   = 5 * time.Millisecond
	DefaultInterval = 16 * time.Millisecond
)

// ErrLoopRunning is returned when Run is called on a loop that is already
// running.
var ErrLoopRunning = errors.New("scheduler: loop is already running")

// Loop is an IdleScheduler that runs one slice per tick from the goroutine
// that called Run. Callbacks registered while a slice runs are deferred to
// the next tick.
type Loop struct {
	// Budget is the time each callback gets per slice.
	Budget time.Duration
	// Interval is the time between slices.
	Interval time.Duration
	// Clock supplies deadlines. Defaults to SystemClock.
	Clock Clock
	// Logger receives slice diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger

	mu      sync.Mutex
	pending []Callback
	running bool
	slices  uint64
}

// NewLoop returns a Loop with the given budget and interval. Non-positive
// values select the defaults.
func NewLoop(budget, interval time.Duration) *Loop {
	if budget <= 0 {
		budget = DefaultBudget
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{Budget: budget, Interval: interval}
}

var _ IdleScheduler = (*Loop)(nil)

// RequestIdleCallback registers cb for the next slice. Safe for concurrent
// use.
func (l *Loop) RequestIdleCallback(cb Callback) {
	if cb == nil {
		return
	}
	l.mu.Lock()
	l.pending = append(l.pending, cb)
	l.mu.Unlock()
}

// Slices returns the number of slices run so far.
func (l *Loop) Slices() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.slices
}

// Run drives slices until ctx is done. It returns ctx.Err() on exit.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return ErrLoopRunning
	}
	l.running = true
	l.mu.Unlock()
	defer func() {
		l.mu.Lock()
		l.running = false
		l.mu.Unlock()
	}()

	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.RunSlice()
		}
	}
}

// RunSlice runs every pending callback once with a fresh deadline. A
// panicking callback is reported and does not stop the others.
func (l *Loop) RunSlice() {
	l.mu.Lock()
	pending := l.pending
	l.pending = nil
	l.slices++
	l.mu.Unlock()

	budget := l.Budget
	if budget <= 0 {
		budget = DefaultBudget
	}
	for _, cb := range pending {
		l.invoke(cb, NewDeadline(l.Clock, budget))
	}
}

func (l *Loop) invoke(cb Callback, d Deadline) {
	defer errors.RecoverWithCallback("scheduler.Loop", func(r any) {
		l.logger().Warn("idle callback panicked", zap.Any("value", r))
	})
	cb(d)
}

func (l *Loop) logger() *zap.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return zap.NewNop()
}
