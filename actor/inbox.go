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
	"runtime"

	"go.uber.org/atomic"

	"github.com/tochemey/abs/address"
	gerrors "github.com/tochemey/abs/errors"
	"github.com/tochemey/abs/future"
	"github.com/tochemey/abs/internal/collection"
)

const (
	idle int32 = iota
	busy
)

// Inbox accepts envelopes and executes them against their target
type Inbox interface {
	// Post queues envelope for execution against target and returns its response.
	// Post never blocks: failures complete the response.
	Post(envelope *Envelope, target any) future.Future[any]
}

// InboxFactory creates the inbox of a single receiver
type InboxFactory func(ref address.Address) Inbox

// SerialInbox executes the envelopes of a single receiver one at a time, in the
// order they were posted, on the executor's worker pool.
// At most one drain task per inbox is ever submitted to the pool.
type SerialInbox struct {
	mailbox    mailbox
	executor   Executor
	throughput int
	processing *atomic.Int32
}

// enforce compilation error
var _ Inbox = (*SerialInbox)(nil)

// NewQueueInbox creates an unbounded SerialInbox backed by a lock-free MPSC queue
func NewQueueInbox(executor Executor, throughput int) *SerialInbox {
	return newSerialInbox(newUnboundedMailbox(), executor, throughput)
}

// NewBoundedInbox creates a SerialInbox holding at most capacity envelopes.
// Envelopes posted to a full inbox fail with ErrInboxFull.
func NewBoundedInbox(executor Executor, throughput, capacity int) *SerialInbox {
	return newSerialInbox(newBoundedMailbox(capacity), executor, throughput)
}

func newSerialInbox(mailbox mailbox, executor Executor, throughput int) *SerialInbox {
	if throughput <= 0 {
		throughput = DefaultThroughput
	}
	return &SerialInbox{
		mailbox:    mailbox,
		executor:   executor,
		throughput: throughput,
		processing: atomic.NewInt32(idle),
	}
}

// Post enqueues the envelope and schedules a drain when the inbox is idle
func (x *SerialInbox) Post(envelope *Envelope, target any) future.Future[any] {
	if err := x.mailbox.Enqueue(&delivery{envelope: envelope, target: target}); err != nil {
		envelope.Complete(nil, err)
		return envelope.Response()
	}

	x.schedule()
	return envelope.Response()
}

// Len returns the number of queued envelopes
func (x *SerialInbox) Len() int64 {
	return x.mailbox.Len()
}

// IsIdle reports whether no drain task is scheduled or running
func (x *SerialInbox) IsIdle() bool {
	return x.processing.Load() == idle
}

func (x *SerialInbox) schedule() {
	// only the idle -> busy transition submits a drain task
	if !x.processing.CompareAndSwap(idle, busy) {
		return
	}

	if !x.executor.Submit(x.drain) {
		x.abandon()
	}
}

// drain executes queued envelopes until the mailbox is empty or the throughput
// is reached, in which case it resubmits itself without releasing the busy flag.
func (x *SerialInbox) drain() {
	processed := 0
	for {
		if processed >= x.throughput {
			if !x.executor.Submit(x.drain) {
				x.abandon()
			}
			return
		}

		if item, ok := x.mailbox.Dequeue(); ok {
			x.executor.Execute(item.envelope, item.target)
			processed++
			continue
		}

		// a producer is halfway through its enqueue
		if x.mailbox.Len() > 0 {
			runtime.Gosched()
			continue
		}

		x.processing.Store(idle)

		// check for envelopes posted while switching to idle
		if x.mailbox.IsEmpty() || !x.processing.CompareAndSwap(idle, busy) {
			return
		}
	}
}

// abandon fails every queued envelope once the executor refuses work.
// The caller holds the busy flag.
func (x *SerialInbox) abandon() {
	for {
		for {
			item, ok := x.mailbox.Dequeue()
			if !ok {
				if x.mailbox.Len() > 0 {
					runtime.Gosched()
					continue
				}
				break
			}
			item.envelope.Complete(nil, gerrors.ErrContextStopped)
		}

		x.processing.Store(idle)
		if x.mailbox.IsEmpty() || !x.processing.CompareAndSwap(idle, busy) {
			return
		}
	}
}

// DispatchInbox routes each envelope to the inbox of its receiver.
// Per-receiver inboxes are created on first use and removed by Retire.
type DispatchInbox struct {
	inboxes *collection.Map[address.Address, Inbox]
	factory InboxFactory
}

// enforce compilation error
var _ Inbox = (*DispatchInbox)(nil)

// NewDispatchInbox creates a DispatchInbox creating per-receiver inboxes with factory
func NewDispatchInbox(factory InboxFactory) *DispatchInbox {
	return &DispatchInbox{
		inboxes: newAddressMap[Inbox](),
		factory: factory,
	}
}

// Post hands the envelope to its receiver's inbox
func (x *DispatchInbox) Post(envelope *Envelope, target any) future.Future[any] {
	return x.For(envelope.Receiver()).Post(envelope, target)
}

// For returns the inbox of ref, creating it when missing
func (x *DispatchInbox) For(ref address.Address) Inbox {
	inbox, _ := x.inboxes.GetOrCreate(ref, func() Inbox {
		return x.factory(ref)
	})
	return inbox
}

// Retire removes the inbox of ref. Envelopes already queued in it are still executed.
func (x *DispatchInbox) Retire(ref address.Address) bool {
	_, ok := x.inboxes.Delete(ref)
	return ok
}

// Len returns the number of per-receiver inboxes
func (x *DispatchInbox) Len() int {
	return x.inboxes.Len()
}

// Reset removes every per-receiver inbox
func (x *DispatchInbox) Reset() {
	x.inboxes.Reset()
}

// AsyncInbox submits every envelope straight to the executor.
// It gives no ordering nor mutual exclusion guarantee.
type AsyncInbox struct {
	executor Executor
}

// enforce compilation error
var _ Inbox = (*AsyncInbox)(nil)

// NewAsyncInbox creates an AsyncInbox
func NewAsyncInbox(executor Executor) *AsyncInbox {
	return &AsyncInbox{executor: executor}
}

// Post submits the envelope execution to the executor
func (x *AsyncInbox) Post(envelope *Envelope, target any) future.Future[any] {
	if !x.executor.Submit(func() { x.executor.Execute(envelope, target) }) {
		envelope.Complete(nil, gerrors.ErrContextStopped)
	}
	return envelope.Response()
}
