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
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tochemey/abs/address"
	gerrors "github.com/tochemey/abs/errors"
	"github.com/tochemey/abs/future"
)

// Envelope carries one message from a sender to a receiver together with the
// future its outcome completes. An envelope completes exactly once.
type Envelope struct {
	id       uuid.UUID
	sender   address.Address
	receiver address.Address
	message  any
	sentAt   time.Time
	promise  future.Promise[any]

	settleOnce sync.Once
	onSettle   func(envelope *Envelope, err error)
}

// NewEnvelope creates an Envelope
func NewEnvelope(sender, receiver address.Address, message any) *Envelope {
	return &Envelope{
		id:       uuid.New(),
		sender:   sender,
		receiver: receiver,
		message:  message,
		sentAt:   time.Now(),
		promise:  future.NewPromise[any](),
	}
}

// ID returns the envelope unique identifier
func (e *Envelope) ID() uuid.UUID {
	return e.id
}

// Sender returns the sender reference
func (e *Envelope) Sender() address.Address {
	return e.sender
}

// Receiver returns the receiver reference
func (e *Envelope) Receiver() address.Address {
	return e.receiver
}

// Message returns the payload
func (e *Envelope) Message() any {
	return e.message
}

// SentAt returns the time the envelope was created
func (e *Envelope) SentAt() time.Time {
	return e.sentAt
}

// Response returns the future completed with the outcome of the message
func (e *Envelope) Response() future.Future[any] {
	return &response{Future: e.promise.Future(), envelope: e}
}

// Complete completes the response. It returns false when the response was
// already completed or cancelled.
func (e *Envelope) Complete(value any, err error) bool {
	if e.promise.Complete(value, err) {
		e.settle(err)
		return true
	}
	return false
}

// start claims the envelope for execution
func (e *Envelope) start() bool {
	return e.promise.Start()
}

// context is cancelled when the response is cancelled or completed
func (e *Envelope) context() context.Context {
	return e.promise.Context()
}

// observe sets the function called once the envelope leaves the runtime
func (e *Envelope) observe(fn func(envelope *Envelope, err error)) {
	e.onSettle = fn
}

func (e *Envelope) settle(err error) {
	e.settleOnce.Do(func() {
		if e.onSettle != nil {
			e.onSettle(e, err)
		}
	})
}

// response releases the envelope when the caller cancels it
type response struct {
	future.Future[any]
	envelope *Envelope
}

func (r *response) Cancel() bool {
	if r.Future.Cancel() {
		r.envelope.settle(gerrors.ErrFutureCancelled)
		return true
	}
	return false
}
