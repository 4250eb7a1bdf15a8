/*
 * MIT License
 *
 * Copyright (c) 2022-2025 Arsene Tochemey Gandote
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
	"github.com/tochemey/abs/log"
)

// Context is the runtime a handle sends its messages through.
// LocalContext is the in-process implementation.
type Context interface {
	// Router returns the router envelopes are routed with
	Router() Router
	// Notary returns the registry of targets
	Notary() Notary
	// Opener returns the opener interpreting the messages sent to ref
	Opener(ref address.Address) Opener
	// Inbox returns the inbox accepting the envelopes sent to ref
	Inbox(ref address.Address) Inbox
	// Logger returns the context logger
	Logger() log.Logger
	// InFlight returns the envelope ref's target is currently processing
	InFlight(ref address.Address) (*Envelope, bool)
	// Admit accepts envelope into the context before it is routed.
	// It fails with ErrContextStopped once the context is stopping.
	Admit(envelope *Envelope) error
	// ActorOf returns a handle on ref bound to the context
	ActorOf(ref Addressable) *ActorRef
	// NewActor registers target under name and returns its handle
	NewActor(ctx context.Context, name string, target any) (*ActorRef, error)
	// Stop stops the context
	Stop(ctx context.Context) (*ShutdownReport, error)
}

// Executor runs envelopes on behalf of inboxes
type Executor interface {
	// Submit hands task to the worker pool. It returns false when the pool
	// no longer accepts work.
	Submit(task func()) bool
	// Execute interprets envelope against target and completes its response.
	Execute(envelope *Envelope, target any)
}

// Scope records which envelope a target is processing
type Scope interface {
	// Enter marks envelope as in flight for its receiver.
	// The returned function ends the scope.
	Enter(envelope *Envelope) (exit func())
}

type envelopeKey struct{}

type envelopeScope struct {
	envelope *Envelope
	context  Context
}

// withEnvelope returns a context carrying the envelope being processed
func withEnvelope(ctx context.Context, runtime Context, envelope *Envelope) context.Context {
	return context.WithValue(ctx, envelopeKey{}, &envelopeScope{envelope: envelope, context: runtime})
}

// EnvelopeOf returns the envelope being processed by the handler owning ctx
func EnvelopeOf(ctx context.Context) (*Envelope, bool) {
	scope, ok := ctx.Value(envelopeKey{}).(*envelopeScope)
	if !ok {
		return nil, false
	}
	return scope.envelope, true
}

// SenderOf returns a handle on the sender of the envelope being processed by
// the handler owning ctx, or NoBody.
func SenderOf(ctx context.Context) *ActorRef {
	scope, ok := ctx.Value(envelopeKey{}).(*envelopeScope)
	if !ok || scope.envelope.Sender().IsNoBody() {
		return NoBody
	}
	return scope.context.ActorOf(scope.envelope.Sender())
}

// SelfOf returns a handle on the receiver of the envelope being processed by
// the handler owning ctx, or NoBody.
func SelfOf(ctx context.Context) *ActorRef {
	scope, ok := ctx.Value(envelopeKey{}).(*envelopeScope)
	if !ok {
		return NoBody
	}
	return scope.context.ActorOf(scope.envelope.Receiver())
}
