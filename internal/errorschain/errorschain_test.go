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

package errorschain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestErrorsChain(t *testing.T) {
	t.Run("With ReturnFirst", func(t *testing.T) {
		e1 := errors.New("err1")
		e2 := errors.New("err2")

		actual := New(ReturnFirst()).AddError(nil).AddError(e1).AddError(e2).Error()
		require.ErrorIs(t, actual, e1)
		require.NotErrorIs(t, actual, e2)
	})
	t.Run("With ReturnAll", func(t *testing.T) {
		e1 := errors.New("err1")
		e2 := errors.New("err2")

		actual := New(ReturnAll()).AddErrors(e1, nil, e2).Error()
		require.Len(t, multierr.Errors(actual), 2)
	})
	t.Run("With no error", func(t *testing.T) {
		require.NoError(t, New().AddError(nil).Error())
	})
	t.Run("With AddErrorFn ReturnFirst", func(t *testing.T) {
		calls := 0
		fail := func() error { calls++; return errors.New("failed") }

		actual := New(ReturnFirst()).AddErrorFn(fail).AddErrorFn(fail).Error()
		require.EqualError(t, actual, "failed")
		require.Equal(t, 1, calls)
	})
	t.Run("With AddErrorFn ReturnAll", func(t *testing.T) {
		calls := 0
		fail := func() error { calls++; return errors.New("failed") }

		actual := New().AddErrorFn(fail).AddErrorFn(func() error { calls++; return nil }).AddErrorFn(fail).Error()
		require.Len(t, multierr.Errors(actual), 2)
		require.Equal(t, 3, calls)
	})
}
