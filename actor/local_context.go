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
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/google/uuid"
	"github.com/zeebo/xxh3"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/tochemey/abs/address"
	"github.com/tochemey/abs/config"
	gerrors "github.com/tochemey/abs/errors"
	"github.com/tochemey/abs/internal/collection"
	"github.com/tochemey/abs/internal/errorschain"
	"github.com/tochemey/abs/internal/eventstream"
	"github.com/tochemey/abs/internal/workerpool"
	"github.com/tochemey/abs/log"
)

// drainInterval is how often Stop checks for pending envelopes
const drainInterval = 5 * time.Millisecond

// ShutdownReport describes how a context stopped
type ShutdownReport struct {
	// Abandoned lists the envelopes failed with ErrContextStopped
	Abandoned []*Envelope
	// Drained reports whether every pending envelope completed within the shutdown timeout
	Drained bool
	// Unstopped lists the targets whose PostStop hook was skipped because
	// the drain timed out while handlers were still running
	Unstopped []address.Address
	// Duration is how long Stop took
	Duration time.Duration
}

// LocalContext is an in-process Context.
// It runs every envelope on a shared worker pool.
type LocalContext struct {
	name          string
	logger        log.Logger
	config        *config.Config
	meterProvider metric.MeterProvider

	routerFactory func(ctx *LocalContext) Router
	notaryFactory func(ctx *LocalContext) Notary
	openerFactory func(ctx *LocalContext) Opener
	inboxFactory  func(ctx *LocalContext) Inbox

	pool         *workerpool.WorkerPool
	notary       Notary
	router       Router
	opener       Opener
	inbox        Inbox
	scheduler    *scheduler
	eventsStream eventstream.Stream
	registration metric.Registration

	// pending holds the admitted envelopes not yet completed
	pending *collection.Map[uuid.UUID, *Envelope]
	// inFlight holds the envelope each target is processing
	inFlight *collection.Map[address.Address, *Envelope]

	routedCount      *atomic.Int64
	failedCount      *atomic.Int64
	deadlettersCount *atomic.Int64
	stopped          *atomic.Bool
	startedAt        time.Time

	// guards admission against Stop
	mu sync.RWMutex
}

// enforce compilation error
var (
	_ Context  = (*LocalContext)(nil)
	_ Executor = (*LocalContext)(nil)
	_ Scope    = (*LocalContext)(nil)
)

// NewContext creates and starts a LocalContext
func NewContext(opts ...Option) (*LocalContext, error) {
	x := &LocalContext{
		name:             DefaultName,
		config:           config.Default(),
		pending:          collection.NewMap[uuid.UUID, *Envelope](hashUUID, collection.DefaultShardCount),
		inFlight:         newAddressMap[*Envelope](),
		routedCount:      atomic.NewInt64(0),
		failedCount:      atomic.NewInt64(0),
		deadlettersCount: atomic.NewInt64(0),
		stopped:          atomic.NewBool(false),
	}

	for _, opt := range opts {
		opt.Apply(x)
	}

	if err := x.config.Validate(); err != nil {
		return nil, err
	}

	if x.logger == nil {
		x.logger = log.NewZap(x.config.Level(), os.Stdout)
	}

	size := x.config.PoolSize
	if size == 0 {
		size = workerpool.DefaultSize()
	}
	x.pool = workerpool.New(workerpool.WithSize(size))

	if err := x.assemble(); err != nil {
		return nil, err
	}

	stopTimeout := x.config.ShutdownTimeout
	if stopTimeout <= 0 {
		stopTimeout = DefaultShutdownTimeout
	}
	x.scheduler = newScheduler(x.logger, stopTimeout)
	x.eventsStream = eventstream.New()

	x.pool.Start()
	x.scheduler.Start(context.Background())

	if x.config.Metrics {
		if err := x.registerMetrics(); err != nil {
			x.scheduler.Stop(context.Background())
			x.pool.StopNow()
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	x.startedAt = time.Now()
	x.logger.Infof("%s context started with %d workers", x.name, x.pool.Size())
	return x, nil
}

// assemble creates the context components, using the configured factories when set
func (x *LocalContext) assemble() error {
	x.notary = NewLocalNotary(x.config.Duplicates)
	if x.notaryFactory != nil {
		x.notary = x.notaryFactory(x)
	}

	x.opener = NewDefaultOpener(x)
	if x.openerFactory != nil {
		x.opener = x.openerFactory(x)
	}

	if x.inboxFactory != nil {
		x.inbox = x.inboxFactory(x)
	} else {
		x.inbox = x.defaultInbox()
	}

	x.router = NewLocalRouter(x, x.config.Unregistered)
	if x.routerFactory != nil {
		x.router = x.routerFactory(x)
	}

	return errorschain.New(errorschain.ReturnFirst()).
		AddError(required(x.notary, "notary")).
		AddError(required(x.opener, "opener")).
		AddError(required(x.inbox, "inbox")).
		AddError(required(x.router, "router")).
		Error()
}

func (x *LocalContext) defaultInbox() Inbox {
	if x.config.InboxKind == config.AsyncInbox {
		return NewAsyncInbox(x)
	}

	throughput := x.config.Throughput
	capacity := x.config.InboxCapacity
	return NewDispatchInbox(func(address.Address) Inbox {
		if capacity > 0 {
			return NewBoundedInbox(x, throughput, capacity)
		}
		return NewQueueInbox(x, throughput)
	})
}

// Name returns the context name
func (x *LocalContext) Name() string {
	return x.name
}

// Router returns the context Router
func (x *LocalContext) Router() Router {
	return x.router
}

// Notary returns the context Notary
func (x *LocalContext) Notary() Notary {
	return x.notary
}

// Opener returns the context Opener. Every reference shares the same one.
func (x *LocalContext) Opener(address.Address) Opener {
	return x.opener
}

// Inbox returns the top level inbox. It dispatches to per-target inboxes.
func (x *LocalContext) Inbox(address.Address) Inbox {
	return x.inbox
}

// Logger returns the context logger
func (x *LocalContext) Logger() log.Logger {
	return x.logger
}

// InFlight returns the envelope the target registered under ref is processing
func (x *LocalContext) InFlight(ref address.Address) (*Envelope, bool) {
	return x.inFlight.Get(ref)
}

// Admit records envelope as pending until it completes
func (x *LocalContext) Admit(envelope *Envelope) error {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if x.stopped.Load() {
		return gerrors.ErrContextStopped
	}

	envelope.observe(x.settled)
	x.pending.Set(envelope.ID(), envelope)
	x.routedCount.Inc()
	return nil
}

// Submit hands task to the worker pool
func (x *LocalContext) Submit(task func()) bool {
	return x.pool.SubmitWork(task)
}

// Execute opens envelope against target and completes its response.
// Envelopes cancelled before they start are skipped.
func (x *LocalContext) Execute(envelope *Envelope, target any) {
	// cancelled or abandoned
	if !envelope.start() {
		return
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			envelope.Complete(nil, gerrors.NewExecutionError(gerrors.NewPanicError(recovered)))
		}
	}()

	ctx := withEnvelope(envelope.context(), x, envelope)
	value, err := x.Opener(envelope.Receiver()).Open(ctx, envelope, target)
	if err != nil {
		x.logger.Debugf("%s failed to process %T: %v", envelope.Receiver(), envelope.Message(), err)
	}
	envelope.Complete(value, err)
}

// Enter records envelope as in flight for its receiver
func (x *LocalContext) Enter(envelope *Envelope) func() {
	receiver := envelope.Receiver()
	x.inFlight.Set(receiver, envelope)
	return func() {
		x.inFlight.DeleteFunc(receiver, func(current *Envelope) bool {
			return current == envelope
		})
	}
}

// settled is called once per admitted envelope when it completes
func (x *LocalContext) settled(envelope *Envelope, err error) {
	x.pending.Delete(envelope.ID())
	if err == nil {
		return
	}

	x.failedCount.Inc()
	if undelivered(err) {
		x.deadlettersCount.Inc()
		x.eventsStream.Publish(DeadlettersTopic, newDeadletter(envelope, err))
	}
}

// Actor returns a handle on name bound to the context. Nothing is registered.
func (x *LocalContext) Actor(name string) *ActorRef {
	return NewActorRef(address.New(name), x)
}

// ActorOf returns a handle on ref bound to the context. Nothing is registered.
func (x *LocalContext) ActorOf(ref Addressable) *ActorRef {
	if isNil(ref) {
		return NoBody
	}
	return NewActorRef(ref, x)
}

// NewActor registers target under name and returns a handle bound to the context.
// An empty name is replaced by a random one. Targets implementing PreStarter
// are initialized first; nothing is registered when initialization fails.
func (x *LocalContext) NewActor(ctx context.Context, name string, target any) (*ActorRef, error) {
	if x.stopped.Load() {
		return nil, gerrors.ErrContextStopped
	}

	if isNil(target) {
		return nil, gerrors.ErrInvalidTarget
	}

	if name == "" {
		name = uuid.NewString()
	}

	ref := address.New(name)
	if ref.IsNoBody() {
		return nil, gerrors.ErrReservedReference
	}

	if err := ref.Validate(); err != nil {
		return nil, err
	}

	if x.config.Duplicates == config.RejectDuplicates {
		if _, exist := x.notary.Get(ref); exist {
			return nil, gerrors.NewReferenceExists(ref.String())
		}
	}

	if starter, ok := target.(PreStarter); ok {
		if err := x.preStart(ctx, starter); err != nil {
			x.logger.Errorf("failed to initialize %s: %v", ref, err)
			return nil, gerrors.NewInitFailure(err)
		}
	}

	if err := x.notary.Add(ref, target); err != nil {
		return nil, err
	}

	x.logger.Debugf("%s registered", ref)
	return NewActorRef(ref, x), nil
}

func (x *LocalContext) preStart(ctx context.Context, starter PreStarter) error {
	cctx, cancel := context.WithTimeout(ctx, x.config.InitTimeout)
	defer cancel()

	retrier := retry.NewRetrier(x.config.InitMaxRetries, time.Millisecond, x.config.InitTimeout)
	return retrier.RunContext(cctx, starter.PreStart)
}

// Retire unregisters ref, runs the target PostStop hook once the envelopes
// already queued for ref completed, then drops its inbox.
func (x *LocalContext) Retire(ctx context.Context, ref Addressable) error {
	if isNil(ref) {
		return gerrors.ErrInvalidTarget
	}

	reference := ref.Reference()
	target, found := x.notary.Remove(reference)
	if !found {
		x.retireInbox(reference)
		return gerrors.NewRoutingError(reference.String())
	}

	err := x.postStopAfterQueued(ctx, reference, target)
	x.retireInbox(reference)
	x.logger.Debugf("%s retired", reference)
	return err
}

// postStopAfterQueued posts the PostStop hook through the target inbox and
// waits for it, so it never overlaps a handler running on the same target.
func (x *LocalContext) postStopAfterQueued(ctx context.Context, ref address.Address, target any) error {
	if _, ok := target.(PostStopper); !ok {
		return nil
	}

	envelope := NewEnvelope(address.NoBody(), ref, postStopHook{})
	if err := x.Admit(envelope); err != nil {
		return err
	}

	_, err := x.Inbox(ref).Post(envelope, target).Await(ctx)
	return err
}

func (x *LocalContext) retireInbox(ref address.Address) {
	if retirer, ok := x.inbox.(interface{ Retire(address.Address) bool }); ok {
		retirer.Retire(ref)
	}
}

// postStopHook is the last envelope a retired target processes
type postStopHook struct{}

func (postStopHook) Apply(ctx context.Context, target any) (any, error) {
	return nil, target.(PostStopper).PostStop(ctx)
}

// ScheduleOnce delivers message to the receiver once after delay.
// A nil sender delivers on behalf of NoBody.
func (x *LocalContext) ScheduleOnce(from *ActorRef, to Addressable, message any, delay time.Duration) (string, error) {
	return x.scheduler.ScheduleOnce(x.sender(from), to, message, delay)
}

// Schedule delivers message to the receiver every interval
func (x *LocalContext) Schedule(from *ActorRef, to Addressable, message any, interval time.Duration) (string, error) {
	return x.scheduler.Schedule(x.sender(from), to, message, interval)
}

// ScheduleWithCron delivers message to the receiver following the cron expression
func (x *LocalContext) ScheduleWithCron(from *ActorRef, to Addressable, message any, expression string) (string, error) {
	return x.scheduler.ScheduleWithCron(x.sender(from), to, message, expression)
}

// sender binds scheduled deliveries without sender to the context
func (x *LocalContext) sender(from *ActorRef) *ActorRef {
	if from == nil {
		return NewActorRef(address.NoBody(), x)
	}
	return from
}

// CancelSchedule cancels the scheduled delivery registered under key
func (x *LocalContext) CancelSchedule(key string) error {
	return x.scheduler.Cancel(key)
}

// Subscribe returns a subscriber receiving every Deadletter published by the context
func (x *LocalContext) Subscribe() (eventstream.Subscriber, error) {
	if x.stopped.Load() {
		return nil, gerrors.ErrContextStopped
	}

	subscriber := x.eventsStream.AddSubscriber()
	x.eventsStream.Subscribe(subscriber, DeadlettersTopic)
	return subscriber, nil
}

// Unsubscribe stops subscriber from receiving deadletters
func (x *LocalContext) Unsubscribe(subscriber eventstream.Subscriber) error {
	if subscriber == nil {
		return nil
	}

	x.eventsStream.Unsubscribe(subscriber, DeadlettersTopic)
	x.eventsStream.RemoveSubscriber(subscriber)
	return nil
}

// Stats returns a snapshot of the context counters
func (x *LocalContext) Stats() Stats {
	var inboxes int64
	if counter, ok := x.inbox.(interface{ Len() int }); ok {
		inboxes = int64(counter.Len())
	}

	return Stats{
		routed:      x.routedCount.Load(),
		failed:      x.failedCount.Load(),
		deadletters: x.deadlettersCount.Load(),
		references:  int64(x.notary.Len()),
		inboxes:     inboxes,
		pending:     int64(x.pending.Len()),
		busyWorkers: x.pool.Busy(),
		queuedTasks: x.pool.Pending(),
		uptime:      time.Since(x.startedAt),
	}
}

// Stop stops the context. New envelopes are rejected with ErrContextStopped
// while the pending ones are given up to the shutdown timeout to complete.
// Envelopes still pending afterwards fail with ErrContextStopped and are listed
// in the report. A shutdown timeout of zero skips the drain.
func (x *LocalContext) Stop(ctx context.Context) (*ShutdownReport, error) {
	x.mu.Lock()
	if x.stopped.Load() {
		x.mu.Unlock()
		return nil, gerrors.ErrContextStopped
	}
	x.stopped.Store(true)
	x.mu.Unlock()

	start := time.Now()
	x.logger.Infof("stopping %s context...", x.name)
	x.scheduler.Stop(ctx)

	report := new(ShutdownReport)
	chain := errorschain.New(errorschain.ReturnAll())
	timeout := x.config.ShutdownTimeout

	if timeout > 0 {
		drainCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		report.Drained = x.drain(drainCtx) == nil
		if !report.Drained {
			chain.AddError(fmt.Errorf("%w: %d envelope(s) still pending", gerrors.ErrShutdownTimeout, x.pending.Len()))
		}

		report.Abandoned = x.abandon()
		if err := x.pool.Stop(drainCtx); err != nil && report.Drained {
			chain.AddError(fmt.Errorf("%w: %w", gerrors.ErrShutdownTimeout, err))
		}
	} else {
		report.Abandoned = x.abandon()
		x.pool.StopNow()
	}

	if len(report.Abandoned) > 0 {
		x.logger.Warnf("%s context abandoned %d envelope(s)", x.name, len(report.Abandoned))
	}

	// handlers may still be running when the drain timed out
	stoppers := x.stoppers()
	if timeout > 0 && !report.Drained {
		for _, stopper := range stoppers {
			report.Unstopped = append(report.Unstopped, stopper.ref)
		}
		if len(report.Unstopped) > 0 {
			x.logger.Warnf("%s context skipped PostStop of %d target(s)", x.name, len(report.Unstopped))
		}
		stoppers = nil
	}

	chain.
		AddError(x.postStop(ctx, stoppers)).
		AddErrorFn(func() error {
			x.notary.Stop()
			if resetter, ok := x.inbox.(interface{ Reset() }); ok {
				resetter.Reset()
			}
			x.inFlight.Reset()
			return nil
		}).
		AddErrorFn(func() error {
			if x.registration != nil {
				return x.registration.Unregister()
			}
			return nil
		}).
		AddErrorFn(func() error {
			x.eventsStream.Close()
			return nil
		})

	report.Duration = time.Since(start)
	x.logger.Infof("%s context stopped in %s", x.name, report.Duration)
	chain.AddErrorFn(x.logger.Flush)
	return report, chain.Error()
}

// drain waits until every pending envelope completed
func (x *LocalContext) drain(ctx context.Context) error {
	ticker := time.NewTicker(drainInterval)
	defer ticker.Stop()

	for x.pending.Len() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// abandon fails every pending envelope with ErrContextStopped
func (x *LocalContext) abandon() []*Envelope {
	var abandoned []*Envelope
	for _, envelope := range x.pending.Values() {
		if envelope.Complete(nil, gerrors.ErrContextStopped) {
			abandoned = append(abandoned, envelope)
		}
	}
	return abandoned
}

type registeredStopper struct {
	ref     address.Address
	stopper PostStopper
}

// stoppers returns the registered targets implementing PostStopper
func (x *LocalContext) stoppers() []registeredStopper {
	var stoppers []registeredStopper
	for _, ref := range x.notary.References() {
		target, ok := x.notary.Get(ref)
		if !ok {
			continue
		}

		if stopper, ok := target.(PostStopper); ok {
			stoppers = append(stoppers, registeredStopper{ref: ref, stopper: stopper})
		}
	}
	return stoppers
}

// postStop runs the given PostStop hooks concurrently. The workers must be
// stopped so no handler runs against the same targets.
func (x *LocalContext) postStop(ctx context.Context, stoppers []registeredStopper) error {
	var (
		mu   sync.Mutex
		errs error
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(x.pool.Size())
	for _, entry := range stoppers {
		eg.Go(func() error {
			if err := entry.stopper.PostStop(ctx); err != nil {
				mu.Lock()
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", entry.ref, err))
				mu.Unlock()
			}
			return nil
		})
	}

	_ = eg.Wait()
	return errs
}

func hashUUID(id uuid.UUID) uint64 {
	return xxh3.Hash(id[:])
}

func required(component any, name string) error {
	if isNil(component) {
		return fmt.Errorf("%w: %s is nil", gerrors.ErrInvalidConfig, name)
	}
	return nil
}
