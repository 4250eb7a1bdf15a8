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
	gods "github.com/Workiva/go-datastructures/queue"

	gerrors "github.com/tochemey/abs/errors"
	"github.com/tochemey/abs/internal/queue"
)

// delivery pairs an envelope with the target resolved when it was routed
type delivery struct {
	envelope *Envelope
	target   any
}

// mailbox is the FIFO storage behind a serial inbox.
// It accepts many producers and exactly one consumer.
type mailbox interface {
	// Enqueue appends a delivery
	Enqueue(item *delivery) error
	// Dequeue removes the oldest delivery. It returns false when nothing is
	// ready, which can happen while an Enqueue is still in progress.
	Dequeue() (*delivery, bool)
	// IsEmpty reports whether the mailbox holds no delivery
	IsEmpty() bool
	// Len returns the number of deliveries
	Len() int64
}

// unboundedMailbox is a lock-free MPSC queue
type unboundedMailbox struct {
	underlying *queue.Mpsc[*delivery]
}

var _ mailbox = (*unboundedMailbox)(nil)

func newUnboundedMailbox() *unboundedMailbox {
	return &unboundedMailbox{underlying: queue.NewMpsc[*delivery]()}
}

func (m *unboundedMailbox) Enqueue(item *delivery) error {
	m.underlying.Push(item)
	return nil
}

func (m *unboundedMailbox) Dequeue() (*delivery, bool) {
	return m.underlying.Pop()
}

func (m *unboundedMailbox) IsEmpty() bool {
	return m.underlying.IsEmpty()
}

func (m *unboundedMailbox) Len() int64 {
	return m.underlying.Len()
}

// boundedMailbox is a fixed-capacity ring buffer.
// The ring buffer rounds its capacity up to the next power of two.
type boundedMailbox struct {
	underlying *gods.RingBuffer
}

var _ mailbox = (*boundedMailbox)(nil)

func newBoundedMailbox(capacity int) *boundedMailbox {
	return &boundedMailbox{underlying: gods.NewRingBuffer(uint64(capacity))}
}

func (m *boundedMailbox) Enqueue(item *delivery) error {
	accepted, err := m.underlying.Offer(item)
	if err != nil {
		return err
	}

	if !accepted {
		return gerrors.ErrInboxFull
	}
	return nil
}

func (m *boundedMailbox) Dequeue() (*delivery, bool) {
	if m.underlying.Len() == 0 {
		return nil, false
	}

	item, err := m.underlying.Get()
	if err != nil {
		return nil, false
	}

	value, ok := item.(*delivery)
	return value, ok
}

func (m *boundedMailbox) IsEmpty() bool {
	return m.underlying.Len() == 0
}

func (m *boundedMailbox) Len() int64 {
	return int64(m.underlying.Len())
}
