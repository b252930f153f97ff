package fiber

import (
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/platform"
	"github.com/go-drift/fiber/pkg/scheduler"
)

// harness wires an engine to the in-memory binding and a manual scheduler.
type harness struct {
	t         *testing.T
	mem       *platform.Memory
	sched     *scheduler.Manual
	engine    *Engine
	container *platform.Element
	commits   []BuildStats
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		t:         t,
		mem:       platform.NewMemory(),
		sched:     scheduler.NewManual(),
		container: platform.NewContainer("body"),
	}
	opts = append([]Option{WithCommitHook(func(_ *Fiber, s BuildStats) {
		h.commits = append(h.commits, s)
	})}, opts...)
	h.engine = New(h.mem, h.sched, opts...)
	return h
}

func (h *harness) render(node *element.Node) {
	h.t.Helper()
	require.NoError(h.t, h.engine.Render(node, h.container))
	h.flush()
}

func (h *harness) update() {
	h.t.Helper()
	require.NoError(h.t, h.engine.Update())
	h.flush()
}

// flush runs unbounded slices until no build is pending.
func (h *harness) flush() {
	h.t.Helper()
	for i := 0; i < 10 && h.engine.Pending(); i++ {
		h.sched.StepUnbounded()
	}
	require.False(h.t, h.engine.Pending(), "build did not finish")
}

// stepUntilCommitted steps with the given budget and returns the number of
// slices needed.
func (h *harness) stepUntilCommitted(budget time.Duration) int {
	h.t.Helper()
	steps, ok := h.sched.RunUntil(func() bool { return !h.engine.Pending() }, budget, 10_000)
	require.True(h.t, ok, "build did not finish")
	return steps
}

func (h *harness) lastCommit() BuildStats {
	h.t.Helper()
	require.NotEmpty(h.t, h.commits)
	return h.commits[len(h.commits)-1]
}

// markup materializes a declarative tree without any engine involvement.
func markup(n *element.Node) string {
	var sb strings.Builder
	writeMarkup(&sb, n)
	return sb.String()
}

func writeMarkup(sb *strings.Builder, n *element.Node) {
	if n.IsText() {
		sb.WriteString(fmt.Sprint(n.Props[element.NodeValueProp]))
		return
	}
	tag := n.Type.Tag()
	sb.WriteString("<" + tag)
	var keys []string
	for k := range n.Props {
		if k == element.ChildrenProp || element.IsListenerKey(k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(sb, " %s=%q", k, fmt.Sprint(n.Props[k]))
	}
	sb.WriteString(">")
	for _, c := range n.Children() {
		writeMarkup(sb, c)
	}
	sb.WriteString("</" + tag + ">")
}

// captureHandler records reported errors.
type captureHandler struct {
	errs   []*errors.EngineError
	panics []*errors.PanicError
	builds []*errors.BuildError
}

func (c *captureHandler) HandleError(err *errors.EngineError)     { c.errs = append(c.errs, err) }
func (c *captureHandler) HandlePanic(err *errors.PanicError)      { c.panics = append(c.panics, err) }
func (c *captureHandler) HandleBuildError(err *errors.BuildError) { c.builds = append(c.builds, err) }

func installCapture(t *testing.T) *captureHandler {
	c := &captureHandler{}
	errors.SetHandler(c)
	t.Cleanup(func() { errors.SetHandler(nil) })
	return c
}
