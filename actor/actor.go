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

package actor

import (
	"context"

	"github.com/tochemey/abs/address"
)

// Addressable is anything that designates a target by reference.
// address.Address and *ActorRef both implement it.
type Addressable interface {
	// Reference returns the target reference
	Reference() address.Address
}

// Behavior is implemented by targets that interpret raw messages themselves.
// Respond is never called concurrently for the same target when the target
// is served by a serializing inbox.
type Behavior interface {
	// Respond handles message and returns the value completing the sender's future.
	Respond(ctx context.Context, message any) (any, error)
}

// BehaviorFunc adapts a function into a Behavior
type BehaviorFunc func(ctx context.Context, message any) (any, error)

// Respond calls f(ctx, message)
func (f BehaviorFunc) Respond(ctx context.Context, message any) (any, error) {
	return f(ctx, message)
}

// PreStarter is implemented by targets that need initialization before being registered.
// PreStart is retried until it succeeds or the init timeout expires.
type PreStarter interface {
	PreStart(ctx context.Context) error
}

// PostStopper is implemented by targets that release resources once retired
// or when the context stops.
type PostStopper interface {
	PostStop(ctx context.Context) error
}

// Applier is a message bound to its target: the opener calls Apply with the
// registered target of the receiver.
type Applier interface {
	Apply(ctx context.Context, target any) (any, error)
}

// Runnable is a self-contained message executed without a target
type Runnable interface {
	Run()
}

// Callable is a self-contained message producing a value
type Callable interface {
	Call() (any, error)
}

// MethodCall asks the opener to call the exported method named Method on the
// receiver's target with Args. A leading context.Context parameter of the
// method is filled by the opener and must not be part of Args.
type MethodCall struct {
	Receiver address.Address
	Method   string
	Args     []any
}
