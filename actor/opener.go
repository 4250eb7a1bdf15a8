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

	gerrors "github.com/tochemey/abs/errors"
)

// Opener interprets the message of an envelope against the receiver's target
type Opener interface {
	// Open executes envelope's message and returns the value completing its response
	Open(ctx context.Context, envelope *Envelope, target any) (any, error)
}

// DefaultOpener interprets messages in this order:
//
//  1. messages that run on their own: func(), func() error, func() any,
//     func() (any, error), func(context.Context) (any, error),
//     func(context.Context) error, Runnable and Callable
//  2. messages bound to the target: Applier and MethodCall
//  3. targets implementing Behavior, which receive the raw message
//
// Anything else fails with ErrUnsupportedMessage.
type DefaultOpener struct {
	scope      Scope
	reflection *reflection
}

// enforce compilation error
var _ Opener = (*DefaultOpener)(nil)

// NewDefaultOpener creates a DefaultOpener. scope is entered while target
// bound messages execute and can be nil.
func NewDefaultOpener(scope Scope) *DefaultOpener {
	return &DefaultOpener{
		scope:      scope,
		reflection: newReflection(),
	}
}

// Open interprets the envelope message. Panics and errors raised while
// executing are returned wrapped in an ExecutionError.
func (o *DefaultOpener) Open(ctx context.Context, envelope *Envelope, target any) (result any, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			result = nil
			err = gerrors.NewExecutionError(gerrors.NewPanicError(recovered))
		}
	}()

	message := envelope.Message()
	if handled, value, err := runDirect(ctx, message); handled {
		return value, execution(err)
	}

	if isNil(target) {
		return nil, gerrors.NewRoutingError(envelope.Receiver().String())
	}

	if o.scope != nil {
		exit := o.scope.Enter(envelope)
		defer exit()
	}

	switch msg := message.(type) {
	case Applier:
		value, err := msg.Apply(ctx, target)
		return value, execution(err)
	case MethodCall:
		return o.call(ctx, target, &msg)
	case *MethodCall:
		if msg == nil {
			break
		}
		return o.call(ctx, target, msg)
	}

	if behavior, ok := target.(Behavior); ok {
		value, err := behavior.Respond(ctx, message)
		return value, execution(err)
	}
	return nil, gerrors.NewUnsupportedMessageError(message)
}

func (o *DefaultOpener) call(ctx context.Context, target any, msg *MethodCall) (any, error) {
	invoke, err := o.reflection.Bind(ctx, target, msg.Method, msg.Args)
	if err != nil {
		return nil, err
	}

	value, err := invoke()
	return value, execution(err)
}

// runDirect executes messages that need no target.
// It returns false when message is not one of them.
func runDirect(ctx context.Context, message any) (bool, any, error) {
	switch fn := message.(type) {
	case func():
		fn()
		return true, nil, nil
	case func() error:
		return true, nil, fn()
	case func() any:
		return true, fn(), nil
	case func() (any, error):
		value, err := fn()
		return true, value, err
	case func(context.Context) (any, error):
		value, err := fn(ctx)
		return true, value, err
	case func(context.Context) error:
		return true, nil, fn(ctx)
	case Runnable:
		fn.Run()
		return true, nil, nil
	case Callable:
		value, err := fn.Call()
		return true, value, err
	default:
		return false, nil, nil
	}
}

func execution(err error) error {
	if err == nil {
		return nil
	}
	return gerrors.NewExecutionError(err)
}
