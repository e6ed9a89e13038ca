// Package errors provides structured error handling for the scene graph.
//
// Recoverable failures are reported as [SceneError] values. Configuration
// mismatches that leave the process in an unusable state are
// [InvariantError] values passed to [Fatal], which never returns.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindTree indicates a rejected tree mutation.
	KindTree
	// KindLayout indicates a problem surfaced by a measure, layout or draw pass.
	KindLayout
	// KindCallback indicates a custom-phase callback or registration failure.
	KindCallback
	// KindConfig indicates an invalid configuration or scene file.
	KindConfig
	// KindInvariant indicates a fatal invariant violation.
	KindInvariant
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindTree:
		return "tree"
	case KindLayout:
		return "layout"
	case KindCallback:
		return "callback"
	case KindConfig:
		return "config"
	case KindInvariant:
		return "invariant"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// SceneError represents a structured error raised by a scene operation.
type SceneError struct {
	// Op is the operation that failed (e.g., "scene.AddChild").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// NodeID is the id of the node involved, or zero.
	NodeID int64
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *SceneError) Error() string {
	if e.NodeID != 0 {
		return fmt.Sprintf("%s [%s] node=%d: %v", e.Op, e.Kind, e.NodeID, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *SceneError) Unwrap() error {
	return e.Err
}

// Wrap returns err wrapped in a SceneError, or nil when err is nil.
func Wrap(op string, kind ErrorKind, nodeID int64, err error) error {
	if err == nil {
		return nil
	}
	return &SceneError{Op: op, Kind: kind, NodeID: nodeID, Err: err}
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "vsync.Loop.Drain").
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

// InvariantError describes a violated hard invariant, such as a node type
// outside the instrumentation table. It is never returned to callers; it is
// handed to Fatal.
type InvariantError struct {
	// Op is the operation that detected the violation.
	Op string
	// Message describes the violated invariant.
	Message string
	// StackTrace contains the call stack at the time of the violation.
	StackTrace string
	// Timestamp is when the violation was detected.
	Timestamp time.Time
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated in %s: %s", e.Op, e.Message)
}

// ErrorHandler receives errors reported by the scene graph.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *SceneError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleInvariant is called right before the process aborts.
	HandleInvariant(err *InvariantError)
}
