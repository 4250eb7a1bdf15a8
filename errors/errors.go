// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrRoutingFailure is returned when a target-bound message reaches a receiver that has no registered target.
	ErrRoutingFailure = errors.New("routing failure")

	// ErrNoMatchingMethod is returned when a method call cannot be resolved against the target's type.
	// A missing method, a wrong number of arguments or a mismatched argument type all yield this error.
	ErrNoMatchingMethod = errors.New("no matching method")

	// ErrUnsupportedMessage is returned when a message is neither invocable, target-bound nor
	// understood by a target implementing Behavior.
	ErrUnsupportedMessage = errors.New("unsupported message")

	// ErrTargetExecution wraps any failure raised while executing a message against its target.
	ErrTargetExecution = errors.New("target execution failed")

	// ErrContextUnavailable is returned when a handle has neither a bound context nor a process default.
	ErrContextUnavailable = errors.New("context is not available")

	// ErrContextStopped is returned when a message is sent to, or abandoned by, a stopped context.
	ErrContextStopped = errors.New("context is stopped")

	// ErrInboxFull is returned when a bounded inbox cannot accept more messages.
	ErrInboxFull = errors.New("inbox is full")

	// ErrReferenceExists is returned when registering a reference that is already registered.
	ErrReferenceExists = errors.New("reference already exists")

	// ErrReservedReference is returned when attempting to register the NOBODY reference.
	ErrReservedReference = errors.New("reference is reserved")

	// ErrInvalidTarget is returned when registering a nil target.
	ErrInvalidTarget = errors.New("invalid target")

	// ErrInvalidName is returned when a reference name is empty or contains whitespace.
	ErrInvalidName = errors.New("invalid reference name")

	// ErrFutureCancelled is returned by a future that was cancelled before its task started.
	ErrFutureCancelled = errors.New("future cancelled")

	// ErrSchedulerNotStarted is returned when attempting to use the scheduler before it has started.
	ErrSchedulerNotStarted = errors.New("scheduler has not started")

	// ErrInitFailure is returned when a target's PreStart hook fails during registration.
	ErrInitFailure = errors.New("preStart failed")

	// ErrShutdownTimeout is returned when the context could not drain its inboxes in time.
	ErrShutdownTimeout = errors.New("shutdown timed out")

	// ErrInvalidConfig is returned when the runtime configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrTypeMismatch is returned when a future's value cannot be converted to the requested type.
	ErrTypeMismatch = errors.New("type mismatch")
)

// NewRoutingError returns an error wrapping ErrRoutingFailure for the given reference.
func NewRoutingError(reference string) error {
	return fmt.Errorf("%w: %s is not registered", ErrRoutingFailure, reference)
}

// NewNoMatchingMethodError returns an error wrapping ErrNoMatchingMethod.
func NewNoMatchingMethodError(typeName, method string, reason string) error {
	return fmt.Errorf("%w: %s.%s: %s", ErrNoMatchingMethod, typeName, method, reason)
}

// NewUnsupportedMessageError returns an error wrapping ErrUnsupportedMessage.
func NewUnsupportedMessageError(message any) error {
	return fmt.Errorf("%w: %T", ErrUnsupportedMessage, message)
}

// NewInitFailure returns an error wrapping ErrInitFailure.
func NewInitFailure(err error) error {
	return fmt.Errorf("%w: %w", ErrInitFailure, err)
}

// NewReferenceExists returns an error wrapping ErrReferenceExists.
func NewReferenceExists(reference string) error {
	return fmt.Errorf("%w: %s", ErrReferenceExists, reference)
}

// PanicError defines the panic error
// wrapping the underlying error
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError from the recovered value
func NewPanicError(recovered any) *PanicError {
	if err, ok := recovered.(error); ok {
		return &PanicError{err}
	}
	return &PanicError{fmt.Errorf("%v", recovered)}
}

// Error implements the standard error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

// Unwrap returns the recovered error
func (e *PanicError) Unwrap() error {
	return e.err
}

// ExecutionError wraps a failure raised while executing a message against its target.
// It matches ErrTargetExecution and the underlying cause with errors.Is.
type ExecutionError struct {
	err error
}

// enforce compilation error
var _ error = (*ExecutionError)(nil)

// NewExecutionError creates an instance of ExecutionError
func NewExecutionError(err error) *ExecutionError {
	return &ExecutionError{err}
}

// Error implements the standard error interface
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %v", ErrTargetExecution.Error(), e.err)
}

// Unwrap returns the cause and ErrTargetExecution
func (e *ExecutionError) Unwrap() []error {
	return []error{ErrTargetExecution, e.err}
}

// Cause returns the underlying failure
func (e *ExecutionError) Cause() error {
	return e.err
}
