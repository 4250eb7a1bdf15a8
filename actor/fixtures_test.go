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
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/tochemey/abs/future"
	"github.com/tochemey/abs/log"
)

const awaitTimeout = 5 * time.Second

// newTestContext creates a LocalContext that is stopped when the test ends
func newTestContext(t *testing.T, opts ...Option) *LocalContext {
	t.Helper()
	opts = append([]Option{WithLogger(log.DiscardLogger)}, opts...)
	ctx, err := NewContext(opts...)
	require.NoError(t, err)
	require.NotNil(t, ctx)
	t.Cleanup(func() {
		_, _ = ctx.Stop(context.Background())
	})
	return ctx
}

// await waits for the future outcome
func await[T any](t *testing.T, f future.Future[T]) (T, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), awaitTimeout)
	defer cancel()
	value, err := f.Await(ctx)
	require.NotErrorIs(t, err, context.DeadlineExceeded)
	return value, err
}

var errBoom = errors.New("boom")

// calculator exposes methods called by name
type calculator struct {
	total int
}

func (c *calculator) Add(a, b int) int {
	return a + b
}

func (c *calculator) Div(a, b int) (int, error) {
	if b == 0 {
		return 0, errors.New("division by zero")
	}
	return a / b, nil
}

func (c *calculator) Sum(values ...int) int {
	sum := 0
	for _, value := range values {
		sum += value
	}
	return sum
}

func (c *calculator) Scale(ctx context.Context, value float64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return value * 2, nil
}

func (c *calculator) Shrink(value int8) int8 {
	return value
}

func (c *calculator) Magnitude(value uint) uint {
	return value
}

func (c *calculator) Halve(value float32) float32 {
	return value / 2
}

func (c *calculator) Accumulate(value int) {
	c.total += value
}

func (c *calculator) Total() int {
	return c.total
}

func (c *calculator) Fail() error {
	return errBoom
}

func (c *calculator) Boom() {
	panic("boom")
}

func (c *calculator) Pair() (int, string, bool) {
	return 1, "two", true
}

func (c *calculator) Describe(value *int) string {
	if value == nil {
		return "nil"
	}
	return "set"
}

// recorder keeps the values it received and tracks concurrent executions
type recorder struct {
	mu        sync.Mutex
	values    []int
	active    *atomic.Int32
	maxActive *atomic.Int32
}

func newRecorder() *recorder {
	return &recorder{
		active:    atomic.NewInt32(0),
		maxActive: atomic.NewInt32(0),
	}
}

func (r *recorder) Record(value int) {
	current := r.active.Inc()
	defer r.active.Dec()
	for {
		highest := r.maxActive.Load()
		if current <= highest || r.maxActive.CompareAndSwap(highest, current) {
			break
		}
	}

	// widen the window for overlapping executions
	time.Sleep(50 * time.Microsecond)

	r.mu.Lock()
	r.values = append(r.values, value)
	r.mu.Unlock()
}

func (r *recorder) Values() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	values := make([]int, len(r.values))
	copy(values, r.values)
	return values
}

// echo responds with the message it received
type echo struct{}

func (echo) Respond(_ context.Context, message any) (any, error) {
	return message, nil
}

// blocker holds its caller until released
type blocker struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlocker() *blocker {
	return &blocker{
		started: make(chan struct{}, 16),
		release: make(chan struct{}),
	}
}

func (b *blocker) Block() string {
	b.started <- struct{}{}
	<-b.release
	return "released"
}

func (b *blocker) Release() {
	b.once.Do(func() { close(b.release) })
}

// guarded reports PostStop calls made while one of its handlers is running
type guarded struct {
	*blocker
	busy    *atomic.Bool
	overlap *atomic.Bool
	stopped *atomic.Bool
}

func newGuarded() *guarded {
	return &guarded{
		blocker: newBlocker(),
		busy:    atomic.NewBool(false),
		overlap: atomic.NewBool(false),
		stopped: atomic.NewBool(false),
	}
}

func (g *guarded) Work() string {
	g.busy.Store(true)
	defer g.busy.Store(false)
	return g.Block()
}

func (g *guarded) PostStop(context.Context) error {
	if g.busy.Load() {
		g.overlap.Store(true)
	}
	g.stopped.Store(true)
	return nil
}

// lifecycle fails PreStart a number of times before succeeding
type lifecycle struct {
	failures *atomic.Int32
	attempts *atomic.Int32
	stopped  *atomic.Bool
	stopErr  error
}

func newLifecycle(failures int32) *lifecycle {
	return &lifecycle{
		failures: atomic.NewInt32(failures),
		attempts: atomic.NewInt32(0),
		stopped:  atomic.NewBool(false),
	}
}

func (l *lifecycle) PreStart(context.Context) error {
	l.attempts.Inc()
	if l.failures.Dec() >= 0 {
		return errBoom
	}
	return nil
}

func (l *lifecycle) PostStop(context.Context) error {
	l.stopped.Store(true)
	return l.stopErr
}

// counter is an Applier incrementing a calculator total
type counter struct {
	delta int
}

func (c counter) Apply(_ context.Context, target any) (any, error) {
	calc, ok := target.(*calculator)
	if !ok {
		return nil, errors.New("unexpected target")
	}
	calc.total += c.delta
	return calc.total, nil
}

// runnable records that it ran
type runnable struct {
	ran *atomic.Bool
}

func (r runnable) Run() {
	r.ran.Store(true)
}

type callable struct{}

func (callable) Call() (any, error) {
	return "called", nil
}

// refusingExecutor refuses every task
type refusingExecutor struct{}

func (refusingExecutor) Submit(func()) bool { return false }

func (refusingExecutor) Execute(*Envelope, any) {}

// inlineExecutor runs tasks on a new goroutine and records executions
type inlineExecutor struct {
	wg       sync.WaitGroup
	executed *atomic.Int32
}

func newInlineExecutor() *inlineExecutor {
	return &inlineExecutor{executed: atomic.NewInt32(0)}
}

func (e *inlineExecutor) Submit(task func()) bool {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		task()
	}()
	return true
}

func (e *inlineExecutor) Execute(envelope *Envelope, _ any) {
	e.executed.Inc()
	envelope.start()
	envelope.Complete(envelope.Message(), nil)
}
