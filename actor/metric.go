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
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	imetric "github.com/tochemey/abs/internal/metric"
)

// Stats is a snapshot of a context's counters
type Stats struct {
	// routed is the number of envelopes admitted
	routed int64
	// failed is the number of envelopes completed with an error
	failed int64
	// deadletters is the number of deadletters published
	deadletters int64
	// references is the number of registered references
	references int64
	// inboxes is the number of per-target inboxes
	inboxes int64
	// pending is the number of envelopes not yet completed
	pending int64
	// busyWorkers is the number of workers running a task
	busyWorkers int64
	// queuedTasks is the number of tasks waiting for a worker
	queuedTasks int64
	// uptime is the time elapsed since the context was created
	uptime time.Duration
}

// Routed returns the number of envelopes admitted
func (x Stats) Routed() int64 {
	return x.routed
}

// Failed returns the number of envelopes completed with an error
func (x Stats) Failed() int64 {
	return x.failed
}

// Deadletters returns the number of deadletters published
func (x Stats) Deadletters() int64 {
	return x.deadletters
}

// References returns the number of registered references
func (x Stats) References() int64 {
	return x.references
}

// Inboxes returns the number of per-target inboxes
func (x Stats) Inboxes() int64 {
	return x.inboxes
}

// Pending returns the number of envelopes not yet completed
func (x Stats) Pending() int64 {
	return x.pending
}

// BusyWorkers returns the number of workers running a task
func (x Stats) BusyWorkers() int64 {
	return x.busyWorkers
}

// QueuedTasks returns the number of tasks waiting for a worker
func (x Stats) QueuedTasks() int64 {
	return x.queuedTasks
}

// Uptime returns the time elapsed since the context was created
func (x Stats) Uptime() time.Duration {
	return x.uptime
}

// registerMetrics registers the context instruments and observes them from Stats
func (x *LocalContext) registerMetrics() error {
	meter := imetric.New(imetric.WithMeterProvider(x.meterProvider)).Meter()
	instruments, err := imetric.NewContextMetric(meter)
	if err != nil {
		return err
	}

	attrs := metric.WithAttributes(attribute.String("abs.context", x.name))
	registration, err := meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		stats := x.Stats()
		observer.ObserveInt64(instruments.RoutedCount(), stats.Routed(), attrs)
		observer.ObserveInt64(instruments.FailedCount(), stats.Failed(), attrs)
		observer.ObserveInt64(instruments.DeadlettersCount(), stats.Deadletters(), attrs)
		observer.ObserveInt64(instruments.ReferencesCount(), stats.References(), attrs)
		observer.ObserveInt64(instruments.InboxesCount(), stats.Inboxes(), attrs)
		return nil
	}, instruments.Instruments()...)
	if err != nil {
		return err
	}

	x.registration = registration
	return nil
}
