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

package eventstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStream(t *testing.T) {
	t.Run("Message accessors", func(t *testing.T) {
		msg := NewMessage("topic", "payload")
		require.Equal(t, "topic", msg.Topic())
		require.Equal(t, "payload", msg.Payload())
	})
	t.Run("With Subscriber lifecycle", func(t *testing.T) {
		sub := newSubscriber()
		require.NotEmpty(t, sub.ID())
		require.True(t, sub.Active())

		for range sub.Iterator() {
			require.Fail(t, "iterator should be empty on new subscriber")
		}

		sub.subscribe("a")
		sub.subscribe("b")
		require.ElementsMatch(t, []string{"a", "b"}, sub.Topics())

		sub.signal(NewMessage("a", "one"))
		sub.signal(NewMessage("b", "two"))

		var seen []any
		for msg := range sub.Iterator() {
			seen = append(seen, msg.Payload())
		}
		require.Equal(t, []any{"one", "two"}, seen)

		sub.unsubscribe("a")
		require.Equal(t, []string{"b"}, sub.Topics())

		sub.Shutdown()
		require.False(t, sub.Active())

		sub.signal(NewMessage("b", "three"))
		for range sub.Iterator() {
			require.Fail(t, "iterator should be empty after shutdown")
		}
		// shutting down twice is harmless
		sub.Shutdown()
	})
	t.Run("With Subscription", func(t *testing.T) {
		broker := New()

		cons := broker.AddSubscriber()
		require.NotNil(t, cons)
		broker.Subscribe(cons, "t1")
		broker.Subscribe(cons, "t2")

		require.EqualValues(t, 1, broker.SubscribersCount("t1"))
		require.EqualValues(t, 1, broker.SubscribersCount("t2"))

		broker.RemoveSubscriber(cons)
		assert.Zero(t, broker.SubscribersCount("t1"))
		assert.Zero(t, broker.SubscribersCount("t2"))

		// inactive subscribers cannot subscribe
		broker.Subscribe(cons, "t3")
		assert.Zero(t, broker.SubscribersCount("t3"))

		broker.Close()
	})
	t.Run("With Publication", func(t *testing.T) {
		broker := New()

		first := broker.AddSubscriber()
		second := broker.AddSubscriber()
		broker.Subscribe(first, "t1")
		broker.Subscribe(second, "t1")
		broker.Subscribe(second, "t2")

		broker.Publish("t1", "hi")
		broker.Publish("t2", "there")
		broker.Publish("t3", "nobody listens")

		var firstSeen, secondSeen []any
		for msg := range first.Iterator() {
			firstSeen = append(firstSeen, msg.Payload())
		}
		for msg := range second.Iterator() {
			secondSeen = append(secondSeen, msg.Payload())
		}

		assert.Equal(t, []any{"hi"}, firstSeen)
		assert.Equal(t, []any{"hi", "there"}, secondSeen)

		broker.Unsubscribe(second, "t1")
		broker.Publish("t1", "again")
		assert.Len(t, second.Iterator(), 0)
		assert.Len(t, first.Iterator(), 1)

		broker.Close()
		assert.False(t, first.Active())
		assert.False(t, second.Active())
		assert.Zero(t, broker.SubscribersCount("t1"))
	})
}
