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

package actor

import (
	"context"
	"fmt"
	"reflect"

	"go.uber.org/atomic"

	"github.com/tochemey/abs/address"
	gerrors "github.com/tochemey/abs/errors"
	"github.com/tochemey/abs/future"
)

// binding holds the Context a handle is bound to
type binding struct {
	context Context
}

// ActorRef is a handle on a reference. It is the entry point to send messages
// through the Context it is bound to, or the process default when unbound.
// ActorRef is safe for concurrent use.
type ActorRef struct {
	reference address.Address
	bound     *atomic.Pointer[binding]
}

// enforce compilation error
var _ Addressable = (*ActorRef)(nil)

// NoBody is the handle used when no sender is known.
// It is never registered and sends through the process default context.
var NoBody = NewActorRef(address.NoBody(), nil)

// NewActorRef creates a handle on ref bound to the given context.
// A nil context leaves the handle unbound.
func NewActorRef(ref Addressable, ctx Context) *ActorRef {
	x := &ActorRef{
		reference: ref.Reference(),
		bound:     atomic.NewPointer[binding](nil),
	}

	if ctx != nil {
		x.bound.Store(&binding{context: ctx})
	}
	return x
}

// Reference returns the handle's reference
func (x *ActorRef) Reference() address.Address {
	return x.reference
}

// Name returns the reference name
func (x *ActorRef) Name() string {
	return x.reference.Name()
}

// String returns the reference name
func (x *ActorRef) String() string {
	return x.reference.String()
}

// Bind binds the handle to ctx and returns the handle.
// Binding nil makes the handle fall back to the process default.
func (x *ActorRef) Bind(ctx Context) *ActorRef {
	if ctx == nil {
		x.bound.Store(nil)
		return x
	}
	x.bound.Store(&binding{context: ctx})
	return x
}

// Context returns the context the handle sends through: the bound context,
// else the process default. It fails with ErrContextUnavailable when there is none.
func (x *ActorRef) Context() (Context, error) {
	if bound := x.bound.Load(); bound != nil {
		return bound.context, nil
	}

	if ctx := Default(); ctx != nil {
		return ctx, nil
	}
	return nil, gerrors.ErrContextUnavailable
}

// Ask sends message to the receiver and returns the future of its response.
// The handle is the envelope sender. Ask never blocks.
func (x *ActorRef) Ask(to Addressable, message any) future.Future[any] {
	if isNil(to) {
		return future.Failed[any](gerrors.ErrInvalidTarget)
	}

	ctx, err := x.Context()
	if err != nil {
		return future.Failed[any](err)
	}

	envelope := NewEnvelope(x.reference, to.Reference(), message)
	ctx.Router().Route(envelope)
	return envelope.Response()
}

// Tell sends message to the receiver without waiting for its response
func (x *ActorRef) Tell(to Addressable, message any) {
	x.Ask(to, message)
}

// Invoke calls the exported method of the receiver's target with args
func (x *ActorRef) Invoke(to Addressable, method string, args ...any) future.Future[any] {
	if isNil(to) {
		return future.Failed[any](gerrors.ErrInvalidTarget)
	}

	return x.Ask(to, MethodCall{
		Receiver: to.Reference(),
		Method:   method,
		Args:     args,
	})
}

// Call invokes a method of the handle's own target
func (x *ActorRef) Call(method string, args ...any) future.Future[any] {
	return x.Invoke(x, method, args...)
}

// Sender returns the sender of the envelope the handle's target is processing,
// or NoBody when it cannot be determined.
func (x *ActorRef) Sender() (sender *ActorRef) {
	defer func() {
		if recover() != nil {
			sender = NoBody
		}
	}()

	ctx, err := x.Context()
	if err != nil {
		return NoBody
	}

	envelope, ok := ctx.InFlight(x.reference)
	if !ok || envelope.Sender().IsNoBody() {
		return NoBody
	}
	return ctx.ActorOf(envelope.Sender())
}

// Compare orders handles by reference name
func (x *ActorRef) Compare(other Addressable) int {
	return x.reference.Compare(other.Reference())
}

// Equals reports whether other has the same reference
func (x *ActorRef) Equals(other Addressable) bool {
	if isNil(other) {
		return false
	}
	return x.reference.Equals(other.Reference())
}

// applyFunc is an Applier calling a typed function on the target
type applyFunc[T, R any] func(ctx context.Context, target T) (R, error)

func (fn applyFunc[T, R]) Apply(ctx context.Context, target any) (any, error) {
	typed, ok := target.(T)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not %s", gerrors.ErrTypeMismatch, target, reflect.TypeOf((*T)(nil)).Elem())
	}
	return fn(ctx, typed)
}

// AskFunc sends fn to the receiver. fn runs with the receiver's target under
// the same ordering guarantees as any other message.
func AskFunc[T, R any](from *ActorRef, to Addressable, fn func(ctx context.Context, target T) (R, error)) future.Future[R] {
	return future.Cast[R](from.Ask(to, applyFunc[T, R](fn)))
}
