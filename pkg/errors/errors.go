// Package errors provides structured error handling for the fiber engine.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindInit indicates an initialization error, such as updating before
	// the first render committed.
	KindInit
	// KindState indicates a call that is invalid in the engine's current state.
	KindState
	// KindBuild indicates a function component failure during a build.
	KindBuild
	// KindCommit indicates a failure while applying the commit phase.
	KindCommit
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindConfig indicates an invalid configuration.
	KindConfig
)

func (k ErrorKind) String() string {
	switch k {
	case KindInit:
		return "init"
	case KindState:
		return "state"
	case KindBuild:
		return "build"
	case KindCommit:
		return "commit"
	case KindPanic:
		return "panic"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// EngineError represents a structured error raised by the engine.
type EngineError struct {
	// Op is the operation that failed (e.g., "fiber.Update").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "fiber.workLoop").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// BuildError represents a function component that failed while a build
// was draining.
type BuildError struct {
	// Component is the name of the component that failed.
	Component string
	// Recovered is the panic value (nil for regular errors).
	Recovered any
	// Err is the underlying error (nil for panics).
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *BuildError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("panic in %s(): %v", e.Component, e.Recovered)
	}
	if e.Err != nil {
		return fmt.Sprintf("error in %s(): %v", e.Component, e.Err)
	}
	return fmt.Sprintf("unknown error in %s()", e.Component)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// ErrorHandler receives errors reported by the engine.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *EngineError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleBuildError is called when a component fails during a build.
	HandleBuildError(err *BuildError)
}

// New returns an error that formats as the given text. It mirrors the
// standard library so callers importing this package keep sentinel errors.
func New(text string) error {
	return stderrors.New(text)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// KindOf returns the kind of the first EngineError in err's tree, or
// KindBuild / KindPanic for the corresponding error types.
func KindOf(err error) ErrorKind {
	var ee *EngineError
	if stderrors.As(err, &ee) {
		return ee.Kind
	}
	var be *BuildError
	if stderrors.As(err, &be) {
		return KindBuild
	}
	var pe *PanicError
	if stderrors.As(err, &pe) {
		return KindPanic
	}
	return KindUnknown
}
