package errors

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var errSentinel = New("sentinel")

func TestEngineErrorString(t *testing.T) {
	err := &EngineError{
		Op:   "fiber.Update",
		Kind: KindInit,
		Err:  errSentinel,
	}
	assert.Equal(t, "fiber.Update [init]: sentinel", err.Error())
	assert.True(t, Is(err, errSentinel))
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindInit, "init"},
		{KindState, "state"},
		{KindBuild, "build"},
		{KindCommit, "commit"},
		{KindPanic, "panic"},
		{KindConfig, "config"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String(), "ErrorKind(%d)", tt.kind)
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", &EngineError{Op: "x", Kind: KindState, Err: errSentinel})
	assert.Equal(t, KindState, KindOf(wrapped))
	assert.Equal(t, KindBuild, KindOf(&BuildError{Component: "Counter", Recovered: "boom"}))
	assert.Equal(t, KindPanic, KindOf(&PanicError{Value: 1}))
	assert.Equal(t, KindUnknown, KindOf(errSentinel))
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{Value: "test panic", Timestamp: time.Now()}
	assert.Equal(t, "panic: test panic", err.Error())

	err.Op = "fiber.workLoop"
	assert.Equal(t, "panic in fiber.workLoop: test panic", err.Error())
}

func TestBuildErrorString(t *testing.T) {
	err := &BuildError{Component: "Counter", Recovered: "nil pointer dereference"}
	assert.Equal(t, "panic in Counter(): nil pointer dereference", err.Error())

	err2 := &BuildError{Component: "Counter", Err: errSentinel}
	assert.Equal(t, "error in Counter(): sentinel", err2.Error())
	assert.True(t, Is(err2, errSentinel))

	err3 := &BuildError{Component: "Counter"}
	assert.Equal(t, "unknown error in Counter()", err3.Error())
}

func TestReport(t *testing.T) {
	var captured *EngineError
	SetHandler(&testHandler{onError: func(err *EngineError) { captured = err }})
	defer SetHandler(nil)

	Report(&EngineError{Op: "test.op", Kind: KindInit, Err: errSentinel})

	require.NotNil(t, captured)
	assert.Equal(t, "test.op", captured.Op)
	assert.False(t, captured.Timestamp.IsZero())
}

func TestReportBuildError(t *testing.T) {
	var captured *BuildError
	SetHandler(&testHandler{onBuildError: func(err *BuildError) { captured = err }})
	defer SetHandler(nil)

	ReportBuildError(&BuildError{Component: "Counter", Recovered: "test panic"})

	require.NotNil(t, captured)
	assert.Equal(t, "Counter", captured.Component)
	assert.False(t, captured.Timestamp.IsZero())
}

func TestRecoverWithCallback(t *testing.T) {
	var captured *PanicError
	SetHandler(&testHandler{onPanic: func(err *PanicError) { captured = err }})
	defer SetHandler(nil)

	var got any
	func() {
		defer RecoverWithCallback("test.callback", func(r any) { got = r })
		panic(42)
	}()
	assert.Equal(t, 42, got)
	require.NotNil(t, captured)
	assert.Equal(t, 42, captured.Value)
	assert.Equal(t, "test.callback", captured.Op)
	assert.NotEmpty(t, captured.StackTrace)
}

func TestCaptureStack(t *testing.T) {
	stack := CaptureStack()
	require.NotEmpty(t, stack)
	assert.True(t, strings.Contains(stack, "testing") || strings.Contains(stack, "runtime"))
}

func TestSetHandlerNil(t *testing.T) {
	SetHandler(nil)
	require.NotNil(t, DefaultHandler)
	assert.IsType(t, &LogHandler{}, DefaultHandler)
}

func TestLogHandlerWritesThroughLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	h := &LogHandler{Verbose: true}
	h.HandleError(&EngineError{Op: "fiber.Update", Kind: KindInit, Err: errSentinel, StackTrace: "stack"})
	h.HandlePanic(&PanicError{Op: "fiber.workLoop", Value: "boom"})
	h.HandleBuildError(&BuildError{Component: "Counter", Recovered: "bad"})

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "engine error", entries[0].Message)
	assert.Equal(t, "fiber.Update", entries[0].ContextMap()["op"])
	assert.Equal(t, "stack", entries[0].ContextMap()["stack"])
	assert.Equal(t, "recovered panic", entries[1].Message)
	assert.Equal(t, "build failed", entries[2].Message)
	assert.Equal(t, "Counter", entries[2].ContextMap()["component"])
}

type testHandler struct {
	onError      func(*EngineError)
	onPanic      func(*PanicError)
	onBuildError func(*BuildError)
}

func (h *testHandler) HandleError(err *EngineError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}

func (h *testHandler) HandleBuildError(err *BuildError) {
	if h.onBuildError != nil {
		h.onBuildError(err)
	}
}
