package scheduler

import (
	"sync"
	"time"
)

// Manual is an IdleScheduler that only runs slices when stepped. It is
// deterministic: with CostPerCheck set, every TimeRemaining call advances
// the clock, so a budget maps to a fixed number of checks.
type Manual struct {
	// Clock supplies deadlines.
	Clock *FakeClock
	// CostPerCheck advances Clock on every TimeRemaining call.
	CostPerCheck time.Duration

	mu      sync.Mutex
	pending []Callback
	steps   int
}

// NewManual returns a Manual scheduler on a fresh FakeClock.
func NewManual() *Manual {
	return &Manual{Clock: NewFakeClock()}
}

var _ IdleScheduler = (*Manual)(nil)

// RequestIdleCallback registers cb for the next Step.
func (m *Manual) RequestIdleCallback(cb Callback) {
	if cb == nil {
		return
	}
	m.mu.Lock()
	m.pending = append(m.pending, cb)
	m.mu.Unlock()
}

// Pending returns the number of registered callbacks.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Steps returns the number of slices run so far.
func (m *Manual) Steps() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.steps
}

// Step runs every pending callback once with the given budget. It reports
// whether any callback ran.
func (m *Manual) Step(budget time.Duration) bool {
	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	m.steps++
	m.mu.Unlock()

	for _, cb := range pending {
		cb(m.deadline(budget))
	}
	return len(pending) > 0
}

// StepUnbounded runs every pending callback once with an Unbounded deadline.
func (m *Manual) StepUnbounded() bool {
	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	m.steps++
	m.mu.Unlock()

	for _, cb := range pending {
		cb(Unbounded)
	}
	return len(pending) > 0
}

// RunUntil steps with the given budget until done returns true or max steps
// ran. It returns the number of steps taken and whether done was reached.
func (m *Manual) RunUntil(done func() bool, budget time.Duration, max int) (int, bool) {
	for i := 0; i < max; i++ {
		if done() {
			return i, true
		}
		if !m.Step(budget) {
			return i + 1, done()
		}
	}
	return max, done()
}

func (m *Manual) deadline(budget time.Duration) Deadline {
	clock := m.Clock
	if clock == nil {
		clock = NewFakeClock()
		m.Clock = clock
	}
	return &costDeadline{
		inner: NewDeadline(clock, budget),
		clock: clock,
		cost:  m.CostPerCheck,
	}
}

type costDeadline struct {
	inner Deadline
	clock *FakeClock
	cost  time.Duration
}

func (d *costDeadline) TimeRemaining() time.Duration {
	if d.cost > 0 {
		d.clock.Advance(d.cost)
	}
	return d.inner.TimeRemaining()
}
