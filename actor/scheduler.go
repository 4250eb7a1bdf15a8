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
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reugn/go-quartz/job"
	quartzlogger "github.com/reugn/go-quartz/logger"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/abs/errors"
	"github.com/tochemey/abs/log"
)

// scheduler delivers messages in the future
type scheduler struct {
	// helps lock concurrent access
	mu sync.Mutex
	// underlying Scheduler
	quartzScheduler quartz.Scheduler
	// states whether the quartzScheduler has started or not
	started *atomic.Bool
	logger  log.Logger
	// define the shutdown timeout
	stopTimeout time.Duration
}

// newScheduler creates an instance of scheduler
func newScheduler(logger log.Logger, stopTimeout time.Duration) *scheduler {
	// create an instance of quartz scheduler with logger off
	quartzScheduler, _ := quartz.NewStdScheduler(quartz.WithLogger(quartzlogger.NewSimpleLogger(nil, quartzlogger.LevelOff)))

	return &scheduler{
		started:         atomic.NewBool(false),
		quartzScheduler: quartzScheduler,
		logger:          logger,
		stopTimeout:     stopTimeout,
	}
}

// Start starts the scheduler
func (x *scheduler) Start(ctx context.Context) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.logger.Info("starting messages scheduler...")
	x.quartzScheduler.Start(ctx)
	x.started.Store(x.quartzScheduler.IsStarted())
	x.logger.Info("messages scheduler started.:)")
}

// Stop stops the scheduler and waits for running jobs up to the stop timeout
func (x *scheduler) Stop(ctx context.Context) {
	if !x.started.Load() {
		return
	}

	x.logger.Info("stopping messages scheduler...")
	x.mu.Lock()
	defer x.mu.Unlock()
	_ = x.quartzScheduler.Clear()
	x.quartzScheduler.Stop()
	x.started.Store(x.quartzScheduler.IsStarted())

	ctx, cancel := context.WithTimeout(ctx, x.stopTimeout)
	defer cancel()
	x.quartzScheduler.Wait(ctx)

	x.logger.Info("messages scheduler stopped...:)")
}

// ScheduleOnce delivers message from sender to receiver once after delay.
// It returns the key of the scheduled delivery.
func (x *scheduler) ScheduleOnce(from *ActorRef, to Addressable, message any, delay time.Duration) (string, error) {
	return x.schedule(from, to, message, quartz.NewRunOnceTrigger(delay))
}

// Schedule delivers message from sender to receiver every interval
func (x *scheduler) Schedule(from *ActorRef, to Addressable, message any, interval time.Duration) (string, error) {
	return x.schedule(from, to, message, quartz.NewSimpleTrigger(interval))
}

// ScheduleWithCron delivers message from sender to receiver following the cron expression
func (x *scheduler) ScheduleWithCron(from *ActorRef, to Addressable, message any, expression string) (string, error) {
	trigger, err := quartz.NewCronTriggerWithLoc(expression, time.Now().Location())
	if err != nil {
		x.logger.Error(fmt.Errorf("failed to schedule message: %w", err))
		return "", err
	}
	return x.schedule(from, to, message, trigger)
}

// Cancel removes the scheduled delivery registered under key
func (x *scheduler) Cancel(key string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return gerrors.ErrSchedulerNotStarted
	}
	return x.quartzScheduler.DeleteJob(quartz.NewJobKey(key))
}

func (x *scheduler) schedule(from *ActorRef, to Addressable, message any, trigger quartz.Trigger) (string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return "", gerrors.ErrSchedulerNotStarted
	}

	if isNil(to) {
		return "", gerrors.ErrInvalidTarget
	}

	if from == nil {
		from = NoBody
	}

	job := job.NewFunctionJob[bool](
		func(context.Context) (bool, error) {
			from.Tell(to, message)
			return true, nil
		},
	)

	key := newJobKey()
	detail := quartz.NewJobDetail(job, quartz.NewJobKey(key))
	if err := x.quartzScheduler.ScheduleJob(detail, trigger); err != nil {
		return "", err
	}
	return key, nil
}

// newJobKey creates a new job key
func newJobKey() string {
	return uuid.NewString()
}
