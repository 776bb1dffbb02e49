// Package errors provides structured error handling for the behaviors framework.
//
// Errors fall into two classes. Contract violations signal bookkeeping
// desynchronization between controllers, behaviors and hosts; they are
// reported and then raised as a panic carrying a [*ContractViolation].
// Everything else (configuration, scene loading) is an ordinary error value
// wrapped in [*Error] and returned to the caller.
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
	// KindContract indicates a violated lifecycle precondition.
	KindContract
	// KindConfig indicates a configuration loading or resolution error.
	KindConfig
	// KindScene indicates an invalid scene description.
	KindScene
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindContract:
		return "contract"
	case KindConfig:
		return "config"
	case KindScene:
		return "scene"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Error represents a structured error in the behaviors framework.
type Error struct {
	// Op is the operation that failed (e.g., "config.Resolve").
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

func (e *Error) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "playground.Step").
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

// ContractViolation is the panic value raised when a lifecycle precondition
// does not hold, for example detaching a behavior from a host it was never
// attached to. Continuing after a violation would leave attach/detach
// bookkeeping permanently out of sync, so it is never returned as an error.
type ContractViolation struct {
	// Op is the operation whose precondition failed (e.g., "behavior.Controller.Associate").
	Op string
	// Message describes the violated precondition.
	Message string
	// StackTrace contains the call stack at the point of violation.
	StackTrace string
	// Timestamp is when the violation occurred.
	Timestamp time.Time
}

func (e *ContractViolation) Error() string {
	return fmt.Sprintf("contract violation in %s: %s", e.Op, e.Message)
}

// ErrorHandler receives errors reported by the framework.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *Error)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleViolation is called right before a contract violation panics.
	HandleViolation(err *ContractViolation)
}
