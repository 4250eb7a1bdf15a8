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

// Package eventstream is an in-memory topic based publish/subscribe broker.
package eventstream

import (
	"github.com/zeebo/xxh3"

	"github.com/tochemey/abs/internal/collection"
)

// Stream defines the broker
type Stream interface {
	// AddSubscriber adds a subscriber
	AddSubscriber() Subscriber
	// RemoveSubscriber removes a subscriber
	RemoveSubscriber(sub Subscriber)
	// SubscribersCount returns the number of subscribers for a given topic
	SubscribersCount(topic string) int
	// Subscribe subscribes a subscriber to a topic
	Subscribe(sub Subscriber, topic string)
	// Unsubscribe removes a subscriber from a topic
	Unsubscribe(sub Subscriber, topic string)
	// Publish publishes a message to a topic
	Publish(topic string, msg any)
	// Close shuts every subscriber down
	Close()
}

type subscribers = collection.Map[string, Subscriber]

// EventsStream defines the stream broker
type EventsStream struct {
	subscribers *subscribers
	topics      *collection.Map[string, *subscribers]
}

// enforce a compilation error
var _ Stream = (*EventsStream)(nil)

// New creates an instance of EventsStream
func New() *EventsStream {
	return &EventsStream{
		subscribers: newSubscribers(),
		topics:      collection.NewMap[string, *subscribers](xxh3.HashString, 8),
	}
}

func newSubscribers() *subscribers {
	return collection.NewMap[string, Subscriber](xxh3.HashString, 8)
}

// AddSubscriber adds a subscriber
func (b *EventsStream) AddSubscriber() Subscriber {
	sub := newSubscriber()
	b.subscribers.Set(sub.ID(), sub)
	return sub
}

// RemoveSubscriber unsubscribes sub from every topic and shuts it down
func (b *EventsStream) RemoveSubscriber(sub Subscriber) {
	for _, topic := range sub.Topics() {
		b.Unsubscribe(sub, topic)
	}
	b.subscribers.Delete(sub.ID())
	sub.Shutdown()
}

// SubscribersCount returns the number of subscribers for a given topic
func (b *EventsStream) SubscribersCount(topic string) int {
	if subs, ok := b.topics.Get(topic); ok {
		return subs.Len()
	}
	return 0
}

// Subscribe subscribes an active subscriber to a topic
func (b *EventsStream) Subscribe(sub Subscriber, topic string) {
	if !sub.Active() {
		return
	}

	sub.subscribe(topic)
	subs, _ := b.topics.GetOrCreate(topic, newSubscribers)
	subs.Set(sub.ID(), sub)
}

// Unsubscribe removes a subscriber from a topic
func (b *EventsStream) Unsubscribe(sub Subscriber, topic string) {
	sub.unsubscribe(topic)
	if subs, ok := b.topics.Get(topic); ok {
		subs.Delete(sub.ID())
	}
}

// Publish delivers msg to the active subscribers of topic
func (b *EventsStream) Publish(topic string, msg any) {
	subs, ok := b.topics.Get(topic)
	if !ok || subs.Len() == 0 {
		return
	}

	message := NewMessage(topic, msg)
	subs.Range(func(_ string, sub Subscriber) bool {
		sub.signal(message)
		return true
	})
}

// Close shuts every subscriber down and forgets all topics
func (b *EventsStream) Close() {
	for _, sub := range b.subscribers.Reset() {
		sub.Shutdown()
	}
	b.topics.Reset()
}
