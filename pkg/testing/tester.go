package testing

import (
	"testing"
	"time"

	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/fiber"
	"github.com/go-drift/fiber/pkg/platform"
	"github.com/go-drift/fiber/pkg/scheduler"
)

// DefaultMaxSlices bounds PumpAndSettle.
const DefaultMaxSlices = 10_000

// ErrSettleTimeout is returned when PumpAndSettle exceeds its slice limit.
var ErrSettleTimeout = errors.New("PumpAndSettle timed out: engine did not settle")

// Tester mounts trees into an in-memory binding and drives the engine with
// a manual scheduler.
type Tester struct {
	binding    *platform.Memory
	sched      *scheduler.Manual
	engine     *fiber.Engine
	container  *platform.Element
	commits    []fiber.BuildStats
	dispatches []func()

	buildErrors []*errors.BuildError
	panics      []*errors.PanicError
	engineErrs  []*errors.EngineError
	prevHandler errors.ErrorHandler
}

// NewTester creates a tester. Options are passed to the engine after the
// tester's own commit hook, so a caller-supplied hook replaces it.
func NewTester(opts ...fiber.Option) *Tester {
	t := &Tester{
		binding:   platform.NewMemory(),
		sched:     scheduler.NewManual(),
		container: platform.NewContainer("body"),
	}
	opts = append([]fiber.Option{fiber.WithCommitHook(func(_ *fiber.Fiber, s fiber.BuildStats) {
		t.commits = append(t.commits, s)
	})}, opts...)
	t.engine = fiber.New(t.binding, t.sched, opts...)
	return t
}

// NewTesterWithT creates a tester that records reported errors instead of
// logging them, and restores the global error handler via t.Cleanup().
// This is the recommended constructor for tests.
func NewTesterWithT(t testing.TB, opts ...fiber.Option) *Tester {
	tester := NewTester(opts...)
	tester.prevHandler = errors.DefaultHandler
	errors.SetHandler(tester)
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup restores the error handler replaced by NewTesterWithT.
func (t *Tester) Cleanup() {
	if t.prevHandler != nil {
		errors.SetHandler(t.prevHandler)
		t.prevHandler = nil
	}
}

// Mount renders node into the tester's container and settles the build.
func (t *Tester) Mount(node *element.Node) error {
	if err := t.engine.Render(node, t.container); err != nil {
		return err
	}
	return t.PumpAndSettle(DefaultMaxSlices)
}

// Update schedules a refresh build and settles it.
func (t *Tester) Update() error {
	if err := t.engine.Update(); err != nil {
		return err
	}
	return t.PumpAndSettle(DefaultMaxSlices)
}

// Pump drains queued dispatches and runs one unbounded slice. It returns
// the error of an abandoned build, if any.
func (t *Tester) Pump() error {
	t.drainDispatches()
	t.sched.StepUnbounded()
	return t.engine.Err()
}

// PumpSliced drains queued dispatches and runs one slice with the given
// budget.
func (t *Tester) PumpSliced(budget time.Duration) error {
	t.drainDispatches()
	t.sched.Step(budget)
	return t.engine.Err()
}

// PumpAndSettle pumps until no build is pending and no dispatch is queued.
// Returns ErrSettleTimeout after maxSlices slices.
func (t *Tester) PumpAndSettle(maxSlices int) error {
	for i := 0; i < maxSlices; i++ {
		if err := t.Pump(); err != nil {
			return err
		}
		if !t.needsWork() {
			return nil
		}
	}
	return ErrSettleTimeout
}

func (t *Tester) needsWork() bool {
	return t.engine.Pending() || len(t.dispatches) > 0
}

func (t *Tester) drainDispatches() {
	dispatches := t.dispatches
	t.dispatches = nil
	for _, fn := range dispatches {
		fn()
	}
}

// Dispatch queues a callback for the next pump.
func (t *Tester) Dispatch(fn func()) {
	t.dispatches = append(t.dispatches, fn)
}

// Engine returns the engine under test.
func (t *Tester) Engine() *fiber.Engine { return t.engine }

// Scheduler returns the manual scheduler driving the engine.
func (t *Tester) Scheduler() *scheduler.Manual { return t.sched }

// Binding returns the in-memory binding, including its mutation log.
func (t *Tester) Binding() *platform.Memory { return t.binding }

// Container returns the node trees are mounted into.
func (t *Tester) Container() *platform.Element { return t.container }

// Commits returns the statistics of every commit so far.
func (t *Tester) Commits() []fiber.BuildStats { return t.commits }

// LastCommit returns the statistics of the latest commit. ok is false
// before the first commit.
func (t *Tester) LastCommit() (stats fiber.BuildStats, ok bool) {
	if len(t.commits) == 0 {
		return fiber.BuildStats{}, false
	}
	return t.commits[len(t.commits)-1], true
}

// Find evaluates a finder against the container's children.
func (t *Tester) Find(finder Finder) FinderResult {
	var elements []*platform.Element
	for _, child := range t.container.Children() {
		elements = append(elements, finder.Evaluate(child)...)
	}
	return FinderResult{elements: elements, finder: finder}
}

// BuildErrors returns build errors reported while the tester was the
// global error handler.
func (t *Tester) BuildErrors() []*errors.BuildError { return t.buildErrors }

// Panics returns panics reported while the tester was the global error
// handler.
func (t *Tester) Panics() []*errors.PanicError { return t.panics }

// EngineErrors returns engine errors reported while the tester was the
// global error handler.
func (t *Tester) EngineErrors() []*errors.EngineError { return t.engineErrs }

func (t *Tester) HandleError(err *errors.EngineError) {
	t.engineErrs = append(t.engineErrs, err)
}

func (t *Tester) HandlePanic(err *errors.PanicError) {
	t.panics = append(t.panics, err)
}

func (t *Tester) HandleBuildError(err *errors.BuildError) {
	t.buildErrors = append(t.buildErrors, err)
}
