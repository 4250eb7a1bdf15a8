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

// Package workerpool provides a fixed set of workers consuming a shared,
// unbounded FIFO work queue.
package workerpool

import (
	"context"
	"sync"
	"time"

	"github.com/Workiva/go-datastructures/queue"
	"go.uber.org/atomic"
)

const (
	// drainInterval is how often Stop checks for remaining work
	drainInterval = 5 * time.Millisecond
	// queueHint is the initial capacity of the work queue
	queueHint = 64
)

// WorkerPool runs submitted tasks on a fixed number of goroutines.
// Submission never blocks; tasks are started in submission order.
type WorkerPool struct {
	size    int
	queue   *queue.Queue
	started *atomic.Bool
	stopped *atomic.Bool
	busy    *atomic.Int64
	wg      sync.WaitGroup
	mu      sync.Mutex
}

// New creates a new worker pool with the given options.
func New(opts ...Option) *WorkerPool {
	pool := &WorkerPool{
		size:    DefaultSize(),
		started: atomic.NewBool(false),
		stopped: atomic.NewBool(false),
		busy:    atomic.NewInt64(0),
	}

	for _, opt := range opts {
		opt.Apply(pool)
	}

	pool.queue = queue.New(queueHint)
	return pool
}

// Start spawns the workers. Calling Start more than once has no effect.
func (pool *WorkerPool) Start() {
	pool.mu.Lock()
	defer pool.mu.Unlock()
	if pool.started.Load() || pool.stopped.Load() {
		return
	}

	for range pool.size {
		pool.wg.Add(1)
		go pool.work()
	}
	pool.started.Store(true)
}

// SubmitWork queues task for execution. It returns false when the pool
// is not running, in which case task is dropped.
func (pool *WorkerPool) SubmitWork(task func()) bool {
	if !pool.started.Load() || pool.stopped.Load() {
		return false
	}
	return pool.queue.Put(task) == nil
}

// Size returns the number of workers
func (pool *WorkerPool) Size() int {
	return pool.size
}

// Pending returns the number of queued tasks not yet picked by a worker
func (pool *WorkerPool) Pending() int64 {
	return pool.queue.Len()
}

// Busy returns the number of tasks currently executing
func (pool *WorkerPool) Busy() int64 {
	return pool.busy.Load()
}

// Stop rejects new work, waits for queued and running tasks to finish, then
// releases the workers. When ctx is done first, the remaining queued tasks are
// dropped and ctx.Err() is returned.
func (pool *WorkerPool) Stop(ctx context.Context) error {
	if !pool.markStopped() {
		return nil
	}

	ticker := time.NewTicker(drainInterval)
	defer ticker.Stop()

	for pool.queue.Len() > 0 || pool.busy.Load() > 0 {
		select {
		case <-ctx.Done():
			pool.release()
			return ctx.Err()
		case <-ticker.C:
		}
	}

	pool.release()
	return pool.wait(ctx)
}

// StopNow rejects new work and drops every queued task. Running tasks are
// left to complete.
func (pool *WorkerPool) StopNow() []func() {
	if !pool.markStopped() {
		return nil
	}

	dropped := pool.release()
	pool.wg.Wait()
	return dropped
}

func (pool *WorkerPool) markStopped() bool {
	pool.mu.Lock()
	defer pool.mu.Unlock()
	if !pool.started.Load() {
		return false
	}
	return pool.stopped.CompareAndSwap(false, true)
}

func (pool *WorkerPool) release() []func() {
	items := pool.queue.Dispose()
	dropped := make([]func(), 0, len(items))
	for _, item := range items {
		if task, ok := item.(func()); ok {
			dropped = append(dropped, task)
		}
	}
	return dropped
}

func (pool *WorkerPool) wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		pool.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (pool *WorkerPool) work() {
	defer pool.wg.Done()
	for {
		items, err := pool.queue.Get(1)
		if err != nil {
			return
		}

		for _, item := range items {
			if task, ok := item.(func()); ok {
				pool.run(task)
			}
		}
	}
}

func (pool *WorkerPool) run(task func()) {
	pool.busy.Inc()
	defer func() {
		pool.busy.Dec()
		// a faulty task must not take a worker down
		_ = recover()
	}()
	task()
}
