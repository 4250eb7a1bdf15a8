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
	"errors"
	"time"

	gerrors "github.com/tochemey/abs/errors"
)

// Deadletter is published on DeadlettersTopic for every envelope that could
// not be delivered to its target
type Deadletter struct {
	envelope *Envelope
	reason   error
	time     time.Time
}

func newDeadletter(envelope *Envelope, reason error) *Deadletter {
	return &Deadletter{
		envelope: envelope,
		reason:   reason,
		time:     time.Now(),
	}
}

// Envelope returns the undelivered envelope
func (x *Deadletter) Envelope() *Envelope {
	return x.envelope
}

// Reason returns the error the envelope failed with
func (x *Deadletter) Reason() error {
	return x.reason
}

// Time returns when the deadletter was recorded
func (x *Deadletter) Time() time.Time {
	return x.time
}

// undelivered reports whether err means the envelope never reached its target
func undelivered(err error) bool {
	switch {
	case errors.Is(err, gerrors.ErrRoutingFailure),
		errors.Is(err, gerrors.ErrUnsupportedMessage),
		errors.Is(err, gerrors.ErrInboxFull),
		errors.Is(err, gerrors.ErrContextStopped):
		return true
	default:
		return false
	}
}
