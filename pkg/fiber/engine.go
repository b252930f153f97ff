package fiber

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/platform"
	"github.com/go-drift/fiber/pkg/scheduler"
)

// DefaultYieldThreshold is the remaining time below which the work loop
// yields back to the host.
const DefaultYieldThreshold = time.Millisecond

var (
	// ErrNotInitialized is returned by Update before a render committed.
	ErrNotInitialized = errors.New("root is not initialized")
	// ErrAlreadyRendered is returned by a second Render call.
	ErrAlreadyRendered = errors.New("root is already rendered")
	// ErrBuildInProgress is returned by Update while a build is draining.
	ErrBuildInProgress = errors.New("a build is already in progress")
	// ErrNilNode is returned by Render for a nil node.
	ErrNilNode = errors.New("node is nil")
	// ErrNilContainer is returned by Render for a nil container.
	ErrNilContainer = errors.New("container is nil")
)

// State is the phase of the work loop.
type State uint8

const (
	// StateIdle means no build is pending.
	StateIdle State = iota
	// StateScheduled means a build was seeded and no slice has run yet.
	StateScheduled
	// StateDraining means units are being processed in the current slice.
	StateDraining
	// StateYielded means a started build ran out of time and waits for the
	// next slice.
	StateYielded
	// StateCommitting means the finished tree is being applied.
	StateCommitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScheduled:
		return "scheduled"
	case StateDraining:
		return "draining"
	case StateYielded:
		return "yielded"
	case StateCommitting:
		return "committing"
	default:
		return "unknown"
	}
}

// BuildStats describes one committed build.
type BuildStats struct {
	// Refresh is true for builds started by Update.
	Refresh bool
	// Units is the number of fibers processed.
	Units int
	// Slices is the number of idle callbacks the build spanned.
	Slices int
	// Placements is the number of native nodes inserted at commit.
	Placements int
	// Deletions is the number of native nodes removed at commit.
	Deletions int
	// Duration is the wall time from seeding to commit.
	Duration time.Duration
}

// CommitHook is called after every commit with the new current root.
type CommitHook func(root *Fiber, stats BuildStats)

// ErrorHook is called when a build is abandoned.
type ErrorHook func(err error)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithPruning controls whether native nodes of children that disappeared
// are removed at commit. It is on by default. Turning it off keeps stale
// nodes attached and always appends new nodes as last child.
func WithPruning(prune bool) Option {
	return func(e *Engine) { e.prune = prune }
}

// WithYieldThreshold sets the remaining time below which the work loop
// yields.
func WithYieldThreshold(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.yieldThreshold = d
		}
	}
}

// WithCommitHook registers a hook called after every commit. The hook runs
// with the engine lock held and must not call Render or Update.
func WithCommitHook(h CommitHook) Option {
	return func(e *Engine) { e.onCommit = h }
}

// WithErrorHook registers a hook called when a build is abandoned. The hook
// runs with the engine lock held and must not call Render or Update.
func WithErrorHook(h ErrorHook) Option {
	return func(e *Engine) { e.onError = h }
}

// Engine reconciles declarative trees into native nodes.
type Engine struct {
	mu sync.Mutex

	binding        platform.Binding
	sched          scheduler.IdleScheduler
	logger         *zap.Logger
	prune          bool
	yieldThreshold time.Duration
	onCommit       CommitHook
	onError        ErrorHook

	current  *Fiber // last committed root
	wip      *Fiber // root of the build in progress
	next     *Fiber // next unit of work
	rendered bool
	state    State

	// applied maps current-tree fibers to the props last written to their
	// native nodes by builds since the last commit. Abandoned builds leave
	// those writes behind, so later builds diff against them.
	applied map[*Fiber]element.Props

	stats      BuildStats
	buildStart time.Time
	lastErr    error
}

// New creates an engine and registers its work loop with the scheduler.
// It panics if binding or sched is nil.
func New(binding platform.Binding, sched scheduler.IdleScheduler, opts ...Option) *Engine {
	if binding == nil {
		panic("fiber: nil platform binding")
	}
	if sched == nil {
		panic("fiber: nil scheduler")
	}
	e := &Engine{
		binding:        binding,
		sched:          sched,
		logger:         zap.NewNop(),
		prune:          true,
		yieldThreshold: DefaultYieldThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	sched.RequestIdleCallback(e.workLoop)
	return e
}

// Render schedules the first build of node into container. It can only
// succeed once per engine; a build abandoned before its first commit
// allows another attempt.
func (e *Engine) Render(node *element.Node, container platform.Node) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.rendered {
		return &errors.EngineError{Op: "fiber.Render", Kind: errors.KindState, Err: ErrAlreadyRendered}
	}
	if node == nil {
		return &errors.EngineError{Op: "fiber.Render", Kind: errors.KindInit, Err: ErrNilNode}
	}
	if container == nil {
		return &errors.EngineError{Op: "fiber.Render", Kind: errors.KindInit, Err: ErrNilContainer}
	}

	e.rendered = true
	e.submit(&Fiber{
		typ:         element.Tag(rootTag),
		props:       element.Props{element.ChildrenProp: []*element.Node{node}},
		node:        container,
		disposition: Placement,
	}, false)
	return nil
}

// Update schedules a build that re-renders the current tree, reusing native
// nodes wherever types are unchanged.
func (e *Engine) Update() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current == nil {
		return &errors.EngineError{Op: "fiber.Update", Kind: errors.KindInit, Err: ErrNotInitialized}
	}
	if e.wip != nil {
		return &errors.EngineError{Op: "fiber.Update", Kind: errors.KindState, Err: ErrBuildInProgress}
	}

	e.submit(&Fiber{
		typ:         e.current.typ,
		props:       e.current.props,
		node:        e.current.node,
		alternate:   e.current,
		disposition: Update,
	}, true)
	return nil
}

func (e *Engine) submit(root *Fiber, refresh bool) {
	e.wip = root
	e.next = root
	e.state = StateScheduled
	e.stats = BuildStats{Refresh: refresh}
	e.buildStart = time.Now()
	e.logger.Debug("build scheduled", zap.Bool("refresh", refresh))
}

// Root returns the committed root fiber, or nil before the first commit.
func (e *Engine) Root() *Fiber {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// State returns the current work loop phase.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Pending reports whether a build is in progress.
func (e *Engine) Pending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.wip != nil
}

// Err returns the error that abandoned the most recent build, or nil if
// the most recent build committed.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}
