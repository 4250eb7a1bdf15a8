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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/abs/address"
	gerrors "github.com/tochemey/abs/errors"
)

func TestEnvelope(t *testing.T) {
	t.Run("With fields", func(t *testing.T) {
		sender := address.New("sender")
		receiver := address.New("receiver")
		envelope := NewEnvelope(sender, receiver, "hello")

		assert.NotEmpty(t, envelope.ID().String())
		assert.True(t, sender.Equals(envelope.Sender()))
		assert.True(t, receiver.Equals(envelope.Receiver()))
		assert.Equal(t, "hello", envelope.Message())
		assert.False(t, envelope.SentAt().IsZero())
		assert.False(t, envelope.Response().IsDone())
		assert.NotEqual(t, envelope.ID(), NewEnvelope(sender, receiver, "hello").ID())
	})
	t.Run("With completion happening once", func(t *testing.T) {
		envelope := NewEnvelope(address.NoBody(), address.New("receiver"), "hello")

		var settled []error
		envelope.observe(func(_ *Envelope, err error) {
			settled = append(settled, err)
		})

		require.True(t, envelope.Complete("first", nil))
		require.False(t, envelope.Complete(nil, errBoom))

		value, err := await(t, envelope.Response())
		require.NoError(t, err)
		assert.Equal(t, "first", value)
		assert.Equal(t, []error{nil}, settled)
	})
	t.Run("With cancellation before start", func(t *testing.T) {
		envelope := NewEnvelope(address.NoBody(), address.New("receiver"), "hello")

		var settled []error
		envelope.observe(func(_ *Envelope, err error) {
			settled = append(settled, err)
		})

		response := envelope.Response()
		require.True(t, response.Cancel())
		assert.True(t, response.IsCancelled())
		assert.False(t, envelope.start())
		assert.False(t, envelope.Complete("late", nil))

		_, err := await(t, response)
		require.ErrorIs(t, err, gerrors.ErrFutureCancelled)
		assert.Equal(t, []error{gerrors.ErrFutureCancelled}, settled)
	})
	t.Run("With cancellation while running", func(t *testing.T) {
		envelope := NewEnvelope(address.NoBody(), address.New("receiver"), "hello")
		require.True(t, envelope.start())

		response := envelope.Response()
		require.False(t, response.Cancel())
		require.Error(t, envelope.context().Err())

		require.True(t, envelope.Complete("done", nil))
		value, err := await(t, response)
		require.NoError(t, err)
		assert.Equal(t, "done", value)
	})
}
