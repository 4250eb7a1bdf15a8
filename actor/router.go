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
	"github.com/tochemey/abs/config"
	gerrors "github.com/tochemey/abs/errors"
)

// Router delivers envelopes to the inbox of their receiver.
// Route never blocks and never panics into the caller: every failure
// completes the envelope's response.
type Router interface {
	Route(envelope *Envelope)
}

// LocalRouter routes envelopes within a single Context
type LocalRouter struct {
	context Context
	policy  config.UnregisteredPolicy
}

// enforce compilation error
var _ Router = (*LocalRouter)(nil)

// NewLocalRouter creates a LocalRouter applying the given unregistered receiver policy.
// An unknown policy falls back to tolerating unregistered receivers.
func NewLocalRouter(context Context, policy config.UnregisteredPolicy) *LocalRouter {
	if policy != config.RejectUnregistered {
		policy = config.TolerateUnregistered
	}
	return &LocalRouter{context: context, policy: policy}
}

// Route looks the receiver's target up and posts the envelope to the receiver's inbox.
// A missing target is only an error under the RejectUnregistered policy; otherwise
// messages that need a target fail when interpreted.
func (r *LocalRouter) Route(envelope *Envelope) {
	defer func() {
		if recovered := recover(); recovered != nil {
			envelope.Complete(nil, gerrors.NewExecutionError(gerrors.NewPanicError(recovered)))
		}
	}()

	if err := r.context.Admit(envelope); err != nil {
		envelope.Complete(nil, err)
		return
	}

	receiver := envelope.Receiver()
	target, found := r.context.Notary().Get(receiver)
	if !found && r.policy == config.RejectUnregistered {
		r.context.Logger().Warnf("dropping %T sent to unregistered %s", envelope.Message(), receiver)
		envelope.Complete(nil, gerrors.NewRoutingError(receiver.String()))
		return
	}

	r.context.Inbox(receiver).Post(envelope, target)
}
