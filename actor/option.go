/*
 * MIT License
 *
 * Copyright (c) 2022-2024 Tochemey
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
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/tochemey/abs/config"
	"github.com/tochemey/abs/log"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(ctx *LocalContext)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(ctx *LocalContext)

// Apply applies the option
func (f OptionFunc) Apply(ctx *LocalContext) {
	f(ctx)
}

// WithName sets the context name
func WithName(name string) Option {
	return OptionFunc(func(ctx *LocalContext) {
		ctx.name = name
	})
}

// WithLogger sets the context logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(ctx *LocalContext) {
		ctx.logger = logger
	})
}

// WithConfig replaces the whole configuration.
// Options applied afterwards override individual fields.
func WithConfig(cfg *config.Config) Option {
	return OptionFunc(func(ctx *LocalContext) {
		if cfg != nil {
			copied := *cfg
			ctx.config = &copied
		}
	})
}

// WithPoolSize sets the number of workers
func WithPoolSize(size int) Option {
	return OptionFunc(func(ctx *LocalContext) {
		ctx.config.PoolSize = size
	})
}

// WithThroughput sets the number of envelopes an inbox processes before yielding its worker
func WithThroughput(throughput int) Option {
	return OptionFunc(func(ctx *LocalContext) {
		ctx.config.Throughput = throughput
	})
}

// WithInboxCapacity bounds every per-target inbox
func WithInboxCapacity(capacity int) Option {
	return OptionFunc(func(ctx *LocalContext) {
		ctx.config.InboxCapacity = capacity
	})
}

// WithAsyncInbox disables per-target serialization
func WithAsyncInbox() Option {
	return OptionFunc(func(ctx *LocalContext) {
		ctx.config.InboxKind = config.AsyncInbox
	})
}

// WithDuplicatePolicy sets what registering an existing reference does
func WithDuplicatePolicy(policy config.DuplicatePolicy) Option {
	return OptionFunc(func(ctx *LocalContext) {
		ctx.config.Duplicates = policy
	})
}

// WithUnregisteredPolicy sets what routing to an unregistered reference does
func WithUnregisteredPolicy(policy config.UnregisteredPolicy) Option {
	return OptionFunc(func(ctx *LocalContext) {
		ctx.config.Unregistered = policy
	})
}

// WithShutdownTimeout sets how long Stop drains pending envelopes.
// Zero stops without draining.
func WithShutdownTimeout(timeout time.Duration) Option {
	return OptionFunc(func(ctx *LocalContext) {
		ctx.config.ShutdownTimeout = timeout
	})
}

// WithInitMaxRetries sets the number of PreStart attempts
func WithInitMaxRetries(max int) Option {
	return OptionFunc(func(ctx *LocalContext) {
		ctx.config.InitMaxRetries = max
	})
}

// WithInitTimeout bounds the PreStart attempts
func WithInitTimeout(timeout time.Duration) Option {
	return OptionFunc(func(ctx *LocalContext) {
		ctx.config.InitTimeout = timeout
	})
}

// WithMetrics enables the OpenTelemetry instruments on the global MeterProvider
func WithMetrics() Option {
	return OptionFunc(func(ctx *LocalContext) {
		ctx.config.Metrics = true
	})
}

// WithMeterProvider enables the OpenTelemetry instruments on provider
func WithMeterProvider(provider metric.MeterProvider) Option {
	return OptionFunc(func(ctx *LocalContext) {
		ctx.config.Metrics = true
		ctx.meterProvider = provider
	})
}

// WithRouter sets the factory creating the context Router
func WithRouter(factory func(ctx *LocalContext) Router) Option {
	return OptionFunc(func(ctx *LocalContext) {
		ctx.routerFactory = factory
	})
}

// WithNotary sets the factory creating the context Notary
func WithNotary(factory func(ctx *LocalContext) Notary) Option {
	return OptionFunc(func(ctx *LocalContext) {
		ctx.notaryFactory = factory
	})
}

// WithOpener sets the factory creating the context Opener
func WithOpener(factory func(ctx *LocalContext) Opener) Option {
	return OptionFunc(func(ctx *LocalContext) {
		ctx.openerFactory = factory
	})
}

// WithInbox sets the factory creating the top level Inbox
func WithInbox(factory func(ctx *LocalContext) Inbox) Option {
	return OptionFunc(func(ctx *LocalContext) {
		ctx.inboxFactory = factory
	})
}
