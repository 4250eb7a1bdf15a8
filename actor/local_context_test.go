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
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/tochemey/abs/address"
	"github.com/tochemey/abs/config"
	gerrors "github.com/tochemey/abs/errors"
	"github.com/tochemey/abs/future"
	"github.com/tochemey/abs/log"
)

// constantOpener answers every envelope with the same value
type constantOpener struct {
	value any
}

func (o constantOpener) Open(context.Context, *Envelope, any) (any, error) {
	return o.value, nil
}

func TestNewContext(t *testing.T) {
	t.Run("With defaults", func(t *testing.T) {
		ctx := newTestContext(t)
		assert.Equal(t, DefaultName, ctx.Name())
		assert.NotNil(t, ctx.Router())
		assert.NotNil(t, ctx.Notary())
		assert.NotNil(t, ctx.Opener(address.New("any")))
		assert.NotNil(t, ctx.Inbox(address.New("any")))
		assert.Equal(t, log.DiscardLogger, ctx.Logger())
		assert.IsType(t, new(DispatchInbox), ctx.Inbox(address.New("any")))
	})
	t.Run("With invalid configuration", func(t *testing.T) {
		ctx, err := NewContext(WithLogger(log.DiscardLogger), WithThroughput(0))
		require.ErrorIs(t, err, gerrors.ErrInvalidConfig)
		assert.Nil(t, ctx)
	})
	t.Run("With configuration", func(t *testing.T) {
		cfg, err := config.Parse([]byte("poolSize: 3\ninboxKind: async\nunregistered: reject\n"))
		require.NoError(t, err)

		ctx := newTestContext(t, WithConfig(cfg), WithName("configured"))
		assert.Equal(t, "configured", ctx.Name())
		assert.Equal(t, 3, ctx.pool.Size())
		assert.IsType(t, new(AsyncInbox), ctx.Inbox(address.New("any")))

		_, err = await(t, ctx.Actor("sender").Ask(ctx.Actor("ghost"), func() {}))
		require.ErrorIs(t, err, gerrors.ErrRoutingFailure)
	})
	t.Run("With component factories", func(t *testing.T) {
		notary := NewLocalNotary(config.OverwriteDuplicates)
		ctx := newTestContext(t,
			WithNotary(func(*LocalContext) Notary { return notary }),
			WithOpener(func(*LocalContext) Opener { return constantOpener{value: "constant"} }),
			WithRouter(func(ctx *LocalContext) Router { return NewLocalRouter(ctx, config.TolerateUnregistered) }),
			WithInbox(func(ctx *LocalContext) Inbox { return NewAsyncInbox(ctx) }),
		)

		assert.Same(t, notary, ctx.Notary())
		value, err := await(t, ctx.Actor("sender").Ask(ctx.Actor("anyone"), "ping"))
		require.NoError(t, err)
		assert.Equal(t, "constant", value)
	})
	t.Run("With factory returning nil", func(t *testing.T) {
		ctx, err := NewContext(WithLogger(log.DiscardLogger), WithRouter(func(*LocalContext) Router { return nil }))
		require.ErrorIs(t, err, gerrors.ErrInvalidConfig)
		assert.Nil(t, ctx)
	})
	t.Run("With metrics", func(t *testing.T) {
		ctx, err := NewContext(WithLogger(log.DiscardLogger), WithMeterProvider(noop.NewMeterProvider()))
		require.NoError(t, err)
		require.NotNil(t, ctx.registration)

		_, err = ctx.Stop(context.Background())
		require.NoError(t, err)
	})
}

func TestLocalContextNewActor(t *testing.T) {
	t.Run("With generated name", func(t *testing.T) {
		ctx := newTestContext(t)
		ref, err := ctx.NewActor(context.Background(), "", new(calculator))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(ref.Name(), address.Scheme+"/"))

		_, ok := ctx.Notary().Get(ref.Reference())
		assert.True(t, ok)
	})
	t.Run("With invalid registrations", func(t *testing.T) {
		ctx := newTestContext(t)

		_, err := ctx.NewActor(context.Background(), "calculator", nil)
		require.ErrorIs(t, err, gerrors.ErrInvalidTarget)

		_, err = ctx.NewActor(context.Background(), "with space", new(calculator))
		require.ErrorIs(t, err, gerrors.ErrInvalidName)

		_, err = ctx.NewActor(context.Background(), address.NoBody().String(), new(calculator))
		require.ErrorIs(t, err, gerrors.ErrReservedReference)

		_, err = ctx.NewActor(context.Background(), "calculator", new(calculator))
		require.NoError(t, err)
		_, err = ctx.NewActor(context.Background(), "calculator", new(calculator))
		require.ErrorIs(t, err, gerrors.ErrReferenceExists)
	})
	t.Run("With duplicates overwritten", func(t *testing.T) {
		ctx := newTestContext(t, WithDuplicatePolicy(config.OverwriteDuplicates))
		_, err := ctx.NewActor(context.Background(), "target", new(calculator))
		require.NoError(t, err)

		ref, err := ctx.NewActor(context.Background(), "target", echo{})
		require.NoError(t, err)

		value, err := await(t, ctx.Actor("sender").Ask(ref, "ping"))
		require.NoError(t, err)
		assert.Equal(t, "ping", value)
	})
	t.Run("With PreStart retried", func(t *testing.T) {
		ctx := newTestContext(t, WithInitMaxRetries(5), WithInitTimeout(time.Second))
		target := newLifecycle(2)

		_, err := ctx.NewActor(context.Background(), "lifecycle", target)
		require.NoError(t, err)
		assert.EqualValues(t, 3, target.attempts.Load())
	})
	t.Run("With PreStart failing", func(t *testing.T) {
		ctx := newTestContext(t, WithInitMaxRetries(2), WithInitTimeout(time.Second))
		target := newLifecycle(10)

		ref, err := ctx.NewActor(context.Background(), "lifecycle", target)
		require.ErrorIs(t, err, gerrors.ErrInitFailure)
		assert.Nil(t, ref)
		assert.Zero(t, ctx.Notary().Len())
	})
	t.Run("With stopped context", func(t *testing.T) {
		ctx := newTestContext(t)
		_, err := ctx.Stop(context.Background())
		require.NoError(t, err)

		_, err = ctx.NewActor(context.Background(), "calculator", new(calculator))
		require.ErrorIs(t, err, gerrors.ErrContextStopped)
	})
}

func TestLocalContextRetire(t *testing.T) {
	t.Run("With PostStop hook", func(t *testing.T) {
		ctx := newTestContext(t)
		target := newLifecycle(0)
		ref, err := ctx.NewActor(context.Background(), "lifecycle", target)
		require.NoError(t, err)

		_, err = await(t, ctx.Actor("sender").Ask(ref, func() {}))
		require.NoError(t, err)
		require.EqualValues(t, 1, ctx.Stats().Inboxes())

		require.NoError(t, ctx.Retire(context.Background(), ref))
		assert.True(t, target.stopped.Load())
		assert.Zero(t, ctx.Notary().Len())
		assert.Zero(t, ctx.Stats().Inboxes())

		err = ctx.Retire(context.Background(), ref)
		require.ErrorIs(t, err, gerrors.ErrRoutingFailure)
		require.ErrorIs(t, ctx.Retire(context.Background(), nil), gerrors.ErrInvalidTarget)
	})
	t.Run("With failing PostStop hook", func(t *testing.T) {
		ctx := newTestContext(t)
		target := newLifecycle(0)
		target.stopErr = errBoom
		ref, err := ctx.NewActor(context.Background(), "lifecycle", target)
		require.NoError(t, err)

		err = ctx.Retire(context.Background(), ref)
		require.ErrorIs(t, err, errBoom)
		assert.True(t, target.stopped.Load())
	})
	t.Run("With a handler running", func(t *testing.T) {
		ctx := newTestContext(t, WithPoolSize(2))
		target := newGuarded()
		defer target.Release()

		ref, err := ctx.NewActor(context.Background(), "guarded", target)
		require.NoError(t, err)

		working := ctx.Actor("sender").Invoke(ref, "Work")
		<-target.started

		retired := make(chan error, 1)
		go func() {
			retired <- ctx.Retire(context.Background(), ref)
		}()

		time.Sleep(50 * time.Millisecond)
		assert.False(t, target.stopped.Load())
		target.Release()

		value, err := await(t, working)
		require.NoError(t, err)
		assert.Equal(t, "released", value)

		select {
		case err := <-retired:
			require.NoError(t, err)
		case <-time.After(awaitTimeout):
			require.Fail(t, "retire did not complete")
		}

		assert.True(t, target.stopped.Load())
		assert.False(t, target.overlap.Load())
	})
}

func TestLocalContextStop(t *testing.T) {
	t.Run("With pending envelopes drained", func(t *testing.T) {
		ctx := newTestContext(t, WithPoolSize(2), WithShutdownTimeout(5*time.Second))
		block := newBlocker()
		defer block.Release()

		target, err := ctx.NewActor(context.Background(), "blocked", block)
		require.NoError(t, err)

		sender := ctx.Actor("sender")
		running := sender.Invoke(target, "Block")
		queued := sender.Ask(target, func() any { return "queued" })
		<-block.started

		go func() {
			time.Sleep(50 * time.Millisecond)
			block.Release()
		}()

		report, err := ctx.Stop(context.Background())
		require.NoError(t, err)
		require.NotNil(t, report)
		assert.True(t, report.Drained)
		assert.Empty(t, report.Abandoned)
		assert.Positive(t, report.Duration)

		value, err := await(t, running)
		require.NoError(t, err)
		assert.Equal(t, "released", value)

		value, err = await(t, queued)
		require.NoError(t, err)
		assert.Equal(t, "queued", value)
	})
	t.Run("With pending envelopes abandoned after the timeout", func(t *testing.T) {
		ctx := newTestContext(t, WithPoolSize(2), WithShutdownTimeout(100*time.Millisecond))
		block := newGuarded()
		defer block.Release()

		target, err := ctx.NewActor(context.Background(), "blocked", block)
		require.NoError(t, err)

		sender := ctx.Actor("sender")
		running := sender.Invoke(target, "Work")
		queued := sender.Ask(target, func() any { return "queued" })
		<-block.started

		report, err := ctx.Stop(context.Background())
		require.ErrorIs(t, err, gerrors.ErrShutdownTimeout)
		require.NotNil(t, report)
		assert.False(t, report.Drained)
		assert.Len(t, report.Abandoned, 2)
		assert.Equal(t, []address.Address{target.Reference()}, report.Unstopped)
		assert.False(t, block.stopped.Load())

		for _, f := range []future.Future[any]{running, queued} {
			_, err := await(t, f)
			require.ErrorIs(t, err, gerrors.ErrContextStopped)
		}
	})
	t.Run("With no shutdown timeout", func(t *testing.T) {
		ctx := newTestContext(t, WithShutdownTimeout(0))
		target, err := ctx.NewActor(context.Background(), "calculator", new(calculator))
		require.NoError(t, err)

		_, err = await(t, ctx.Actor("sender").Invoke(target, "Add", 1, 1))
		require.NoError(t, err)

		report, err := ctx.Stop(context.Background())
		require.NoError(t, err)
		assert.False(t, report.Drained)
		assert.Empty(t, report.Abandoned)
	})
	t.Run("With PostStop hooks", func(t *testing.T) {
		ctx := newTestContext(t)
		healthy := newLifecycle(0)
		failing := newLifecycle(0)
		failing.stopErr = errBoom

		_, err := ctx.NewActor(context.Background(), "healthy", healthy)
		require.NoError(t, err)
		_, err = ctx.NewActor(context.Background(), "failing", failing)
		require.NoError(t, err)

		report, err := ctx.Stop(context.Background())
		require.ErrorIs(t, err, errBoom)
		require.NotNil(t, report)
		assert.True(t, healthy.stopped.Load())
		assert.True(t, failing.stopped.Load())
		assert.Zero(t, ctx.Notary().Len())
	})
	t.Run("With second stop", func(t *testing.T) {
		ctx := newTestContext(t)
		_, err := ctx.Stop(context.Background())
		require.NoError(t, err)

		report, err := ctx.Stop(context.Background())
		require.ErrorIs(t, err, gerrors.ErrContextStopped)
		assert.Nil(t, report)

		_, err = ctx.Subscribe()
		require.ErrorIs(t, err, gerrors.ErrContextStopped)
	})
}

func TestLocalContextStats(t *testing.T) {
	ctx := newTestContext(t)
	target, err := ctx.NewActor(context.Background(), "calculator", new(calculator))
	require.NoError(t, err)

	sender := ctx.Actor("sender")
	_, err = await(t, sender.Invoke(target, "Add", 1, 2))
	require.NoError(t, err)
	_, err = await(t, sender.Invoke(target, "Fail"))
	require.Error(t, err)
	_, err = await(t, sender.Ask(target, "unsupported"))
	require.ErrorIs(t, err, gerrors.ErrUnsupportedMessage)

	require.Eventually(t, func() bool {
		stats := ctx.Stats()
		return stats.Failed() == 2 && stats.Pending() == 0 &&
			stats.BusyWorkers() == 0 && stats.QueuedTasks() == 0
	}, awaitTimeout, 10*time.Millisecond)

	stats := ctx.Stats()
	assert.EqualValues(t, 3, stats.Routed())
	assert.EqualValues(t, 1, stats.Deadletters())
	assert.EqualValues(t, 1, stats.References())
	assert.EqualValues(t, 1, stats.Inboxes())
	assert.Positive(t, stats.Uptime())

	block := newBlocker()
	defer block.Release()
	blocked, err := ctx.NewActor(context.Background(), "blocked", block)
	require.NoError(t, err)

	working := sender.Invoke(blocked, "Block")
	<-block.started
	assert.EqualValues(t, 1, ctx.Stats().BusyWorkers())

	block.Release()
	_, err = await(t, working)
	require.NoError(t, err)
}
