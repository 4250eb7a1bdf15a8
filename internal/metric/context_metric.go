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

package metric

import "go.opentelemetry.io/otel/metric"

// ContextMetric groups the instruments describing a runtime context.
//
// Instruments:
//   - abs.envelopes.routed   (Int64ObservableCounter)
//   - abs.envelopes.failed   (Int64ObservableCounter)
//   - abs.references.count   (Int64ObservableCounter)
//   - abs.inboxes.count      (Int64ObservableCounter)
//   - abs.deadletters.count  (Int64ObservableCounter)
type ContextMetric struct {
	routedCount      metric.Int64ObservableCounter
	failedCount      metric.Int64ObservableCounter
	referencesCount  metric.Int64ObservableCounter
	inboxesCount     metric.Int64ObservableCounter
	deadlettersCount metric.Int64ObservableCounter
}

// NewContextMetric creates the instruments using the provided Meter.
// It returns the first instrument creation error.
func NewContextMetric(meter metric.Meter) (*ContextMetric, error) {
	var instruments ContextMetric
	var err error

	if instruments.routedCount, err = meter.Int64ObservableCounter(
		"abs.envelopes.routed",
		metric.WithDescription("Total number of envelopes routed"),
	); err != nil {
		return nil, err
	}

	if instruments.failedCount, err = meter.Int64ObservableCounter(
		"abs.envelopes.failed",
		metric.WithDescription("Total number of envelopes completed with an error"),
	); err != nil {
		return nil, err
	}

	if instruments.referencesCount, err = meter.Int64ObservableCounter(
		"abs.references.count",
		metric.WithDescription("Number of registered references"),
	); err != nil {
		return nil, err
	}

	if instruments.inboxesCount, err = meter.Int64ObservableCounter(
		"abs.inboxes.count",
		metric.WithDescription("Number of live per-target inboxes"),
	); err != nil {
		return nil, err
	}

	if instruments.deadlettersCount, err = meter.Int64ObservableCounter(
		"abs.deadletters.count",
		metric.WithDescription("Total number of deadletters"),
	); err != nil {
		return nil, err
	}

	return &instruments, nil
}

// RoutedCount returns the counter of routed envelopes
func (x *ContextMetric) RoutedCount() metric.Int64ObservableCounter {
	return x.routedCount
}

// FailedCount returns the counter of failed envelopes
func (x *ContextMetric) FailedCount() metric.Int64ObservableCounter {
	return x.failedCount
}

// ReferencesCount returns the counter of registered references
func (x *ContextMetric) ReferencesCount() metric.Int64ObservableCounter {
	return x.referencesCount
}

// InboxesCount returns the counter of live per-target inboxes
func (x *ContextMetric) InboxesCount() metric.Int64ObservableCounter {
	return x.inboxesCount
}

// DeadlettersCount returns the counter of deadletters
func (x *ContextMetric) DeadlettersCount() metric.Int64ObservableCounter {
	return x.deadlettersCount
}

// Instruments returns every instrument, for Meter.RegisterCallback
func (x *ContextMetric) Instruments() []metric.Observable {
	return []metric.Observable{
		x.routedCount,
		x.failedCount,
		x.referencesCount,
		x.inboxesCount,
		x.deadlettersCount,
	}
}
