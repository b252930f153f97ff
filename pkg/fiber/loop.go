package fiber

import (
	"time"

	"go.uber.org/zap"

	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/scheduler"
)

// workLoop is the idle callback. It always registers itself for the next
// slice, even when the slice panicked.
func (e *Engine) workLoop(deadline scheduler.Deadline) {
	defer e.sched.RequestIdleCallback(e.workLoop)
	defer errors.RecoverWithCallback("fiber.workLoop", e.abandonAfterPanic)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.runSlice(deadline)
}

// runSlice advances the build until the deadline runs low, then commits if
// the tree is complete. At least one unit runs per slice.
func (e *Engine) runSlice(deadline scheduler.Deadline) {
	if e.next != nil {
		e.state = StateDraining
		e.stats.Slices++
		for e.next != nil {
			next, err := e.performUnitOfWork(e.next)
			if err != nil {
				e.abandon(err)
				return
			}
			e.next = next
			e.stats.Units++
			if deadline.TimeRemaining() < e.yieldThreshold {
				break
			}
		}
	}

	switch {
	case e.next == nil && e.wip != nil:
		e.commitRoot()
	case e.next != nil:
		e.state = StateYielded
		e.logger.Debug("build yielded", zap.Int("units", e.stats.Units))
	default:
		e.state = StateIdle
	}
}

// abandon drops the in-progress build. The current tree is left untouched;
// attribute writes already made to reused nodes stay recorded in e.applied.
func (e *Engine) abandon(err error) {
	e.lastErr = err
	e.wip = nil
	e.next = nil
	e.state = StateIdle
	e.stats = BuildStats{}
	if e.current == nil {
		e.rendered = false
	}

	var buildErr *errors.BuildError
	if errors.As(err, &buildErr) {
		errors.ReportBuildError(buildErr)
	}
	e.logger.Warn("build abandoned", zap.Error(err))
	if e.onError != nil {
		e.onError(err)
	}
}

// abandonAfterPanic drops the build after a panic outside component code,
// typically in the binding. A panic during commit may leave the native tree
// partially applied and is reported as KindCommit.
func (e *Engine) abandonAfterPanic(r any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.wip == nil {
		return
	}
	op, kind := "fiber.workLoop", errors.KindPanic
	if e.state == StateCommitting {
		op, kind = "fiber.commitRoot", errors.KindCommit
	}
	now := time.Now()
	err := &errors.EngineError{
		Op:        op,
		Kind:      kind,
		Err:       &errors.PanicError{Op: op, Value: r, Timestamp: now},
		Timestamp: now,
	}
	errors.Report(err)
	e.abandon(err)
}
