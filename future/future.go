/*
 * MIT License
 *
 * Copyright (c) 2022-2025  Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package future

import (
	"context"
	"fmt"

	"go.uber.org/atomic"

	"github.com/tochemey/abs/errors"
)

const (
	statePending int32 = iota
	stateRunning
	stateDone
)

// Future represents a value which may or may not currently be available,
// but will be available at some point in the future, or an error if that value
// could not be made available.
//
// Example usage:
//
//	promise := future.NewPromise[int]()
//	go func() {
//	    if promise.Start() {
//	        promise.Success(42)
//	    }
//	}()
//
//	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
//	defer cancel()
//
//	result, err := promise.Future().Await(ctx)
//
// A timeout on the awaiting side never cancels the underlying task.
type Future[T any] interface {
	// Await blocks until the Future is completed or context is canceled and
	// returns either a result or an error.
	Await(ctx context.Context) (T, error)
	// Done returns a channel closed once the Future is completed.
	Done() <-chan struct{}
	// IsDone reports whether the Future is completed.
	IsDone() bool
	// Cancel prevents the task from running when it has not started yet and
	// fails the Future with ErrFutureCancelled. It returns false when the task
	// already started or the Future is completed; a running task only has
	// its context cancelled.
	Cancel() bool
	// IsCancelled reports whether the Future was cancelled before its task started.
	IsCancelled() bool
}

// Promise is a writable, single-assignment container which completes a Future.
// The first completion wins; later ones are ignored.
type Promise[T any] interface {
	// Future returns the underlying Future.
	Future() Future[T]
	// Success completes the underlying Future with a value.
	Success(value T) bool
	// Failure fails the underlying Future with an error.
	Failure(err error) bool
	// Complete completes the underlying Future with either a value or an error.
	Complete(value T, err error) bool
	// Start claims the task for execution. It returns false when the Future
	// has been cancelled or completed.
	Start() bool
	// Context is cancelled when the Future is cancelled or completed.
	Context() context.Context
}

// future implements both Future and Promise.
type future[T any] struct {
	state     *atomic.Int32
	cancelled *atomic.Bool
	done      chan struct{}
	value     T
	err       error
	ctx       context.Context
	cancel    context.CancelFunc
}

// enforce compilation error
var (
	_ Future[any]  = (*future[any])(nil)
	_ Promise[any] = (*future[any])(nil)
)

// NewPromise creates a pending Promise.
func NewPromise[T any]() Promise[T] {
	ctx, cancel := context.WithCancel(context.Background())
	return &future[T]{
		state:     atomic.NewInt32(statePending),
		cancelled: atomic.NewBool(false),
		done:      make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Failed returns a Future already failed with err.
func Failed[T any](err error) Future[T] {
	promise := NewPromise[T]()
	promise.Failure(err)
	return promise.Future()
}

// Future returns the underlying Future.
func (x *future[T]) Future() Future[T] {
	return x
}

// Success completes the Future with a value.
func (x *future[T]) Success(value T) bool {
	return x.Complete(value, nil)
}

// Failure fails the Future with an error.
func (x *future[T]) Failure(err error) bool {
	var zero T
	return x.Complete(zero, err)
}

// Complete completes the Future with either a value or an error.
func (x *future[T]) Complete(value T, err error) bool {
	for {
		current := x.state.Load()
		if current == stateDone {
			return false
		}

		if x.state.CompareAndSwap(current, stateDone) {
			if err != nil {
				x.err = err
			} else {
				x.value = value
			}
			x.finish()
			return true
		}
	}
}

// Start claims the task for execution.
func (x *future[T]) Start() bool {
	return x.state.CompareAndSwap(statePending, stateRunning)
}

// Context returns the task context.
func (x *future[T]) Context() context.Context {
	return x.ctx
}

// Await blocks until the Future is completed or ctx is done.
func (x *future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-x.done:
		return x.value, x.err
	default:
	}

	select {
	case <-x.done:
		return x.value, x.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done returns a channel closed once the Future is completed.
func (x *future[T]) Done() <-chan struct{} {
	return x.done
}

// IsDone reports whether the Future is completed.
func (x *future[T]) IsDone() bool {
	select {
	case <-x.done:
		return true
	default:
		return false
	}
}

// Cancel cancels the Future.
func (x *future[T]) Cancel() bool {
	if x.state.CompareAndSwap(statePending, stateDone) {
		x.err = errors.ErrFutureCancelled
		x.cancelled.Store(true)
		x.finish()
		return true
	}

	if x.state.Load() == stateRunning {
		x.cancel()
	}
	return false
}

// IsCancelled reports whether the Future was cancelled before starting.
func (x *future[T]) IsCancelled() bool {
	return x.cancelled.Load()
}

func (x *future[T]) finish() {
	close(x.done)
	x.cancel()
}

// Cast converts a Future[any] into a Future[V].
// A completed value that is not a V fails the converted Future with ErrTypeMismatch;
// a nil value yields the zero V.
func Cast[V any](source Future[any]) Future[V] {
	return &cast[V]{source: source}
}

type cast[V any] struct {
	source Future[any]
}

func (c *cast[V]) Await(ctx context.Context) (V, error) {
	var zero V
	value, err := c.source.Await(ctx)
	if err != nil {
		return zero, err
	}

	if value == nil {
		return zero, nil
	}

	typed, ok := value.(V)
	if !ok {
		return zero, fmt.Errorf("%w: got %T, want %T", errors.ErrTypeMismatch, value, zero)
	}
	return typed, nil
}

func (c *cast[V]) Done() <-chan struct{} { return c.source.Done() }
func (c *cast[V]) IsDone() bool          { return c.source.IsDone() }
func (c *cast[V]) Cancel() bool          { return c.source.Cancel() }
func (c *cast[V]) IsCancelled() bool     { return c.source.IsCancelled() }
