/*
 * MIT License
 *
 * Copyright (c) 2022-2024  Arsene Tochemey Gandote
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

// Package errorschain collects the outcome of a sequence of steps, typically
// the teardown steps of a runtime, into a single error.
package errorschain

import "go.uber.org/multierr"

// Chain defines an error chain
type Chain struct {
	returnFirst bool
	err         error
	stopped     bool
}

// ChainOption configures an error chain at creation time.
type ChainOption func(*Chain)

// New creates a new error chain. Errors are evaluated in insertion order.
func New(opts ...ChainOption) *Chain {
	chain := new(Chain)
	for _, opt := range opts {
		opt(chain)
	}
	return chain
}

// ReturnFirst makes the chain keep only the first error and skip remaining steps.
func ReturnFirst() ChainOption {
	return func(c *Chain) { c.returnFirst = true }
}

// ReturnAll makes the chain combine every error and run every step.
func ReturnAll() ChainOption {
	return func(c *Chain) { c.returnFirst = false }
}

// AddError adds an error to the chain. Nil errors are ignored.
func (c *Chain) AddError(err error) *Chain {
	if err == nil || c.stopped {
		return c
	}

	c.err = multierr.Append(c.err, err)
	c.stopped = c.returnFirst
	return c
}

// AddErrors adds errors to the chain in order.
func (c *Chain) AddErrors(errs ...error) *Chain {
	for _, err := range errs {
		c.AddError(err)
	}
	return c
}

// AddErrorFn runs fn unless a previous error stopped a ReturnFirst chain.
func (c *Chain) AddErrorFn(fn func() error) *Chain {
	if c.stopped {
		return c
	}
	return c.AddError(fn())
}

// Error returns the accumulated error
func (c *Chain) Error() error {
	return c.err
}
