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
	"go.uber.org/atomic"
)

var defaultContext = atomic.NewPointer[binding](nil)

// SetDefault installs ctx as the process default context used by unbound handles.
// Setting nil removes it.
func SetDefault(ctx Context) {
	if ctx == nil {
		defaultContext.Store(nil)
		return
	}
	defaultContext.Store(&binding{context: ctx})
}

// Default returns the process default context, or nil when none is installed
func Default() Context {
	if current := defaultContext.Load(); current != nil {
		return current.context
	}
	return nil
}

// ResetDefault removes the process default context and returns it
func ResetDefault() Context {
	if previous := defaultContext.Swap(nil); previous != nil {
		return previous.context
	}
	return nil
}
