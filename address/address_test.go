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

package address

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/abs/errors"
)

func TestAddress(t *testing.T) {
	t.Run("With normalization", func(t *testing.T) {
		assert.Equal(t, "abs:///counter", New("counter").Name())
		assert.Equal(t, "abs:///counter", New("/counter").Name())
		assert.Equal(t, "abs://counter", New("abs://counter").Name())
		assert.Equal(t, New("counter"), New("/counter"))
		assert.Equal(t, "/counter", New("counter").Path())
	})
	t.Run("With raw name", func(t *testing.T) {
		addr := From("counter")
		assert.Equal(t, "counter", addr.Name())
		assert.Equal(t, "counter", addr.String())
		assert.False(t, addr.Equals(New("counter")))
	})
	t.Run("With NoBody", func(t *testing.T) {
		assert.True(t, NoBody().IsNoBody())
		assert.True(t, From("abs://NOBODY").IsNoBody())
		assert.True(t, NoBody().Equals(From("abs://NOBODY")))
		assert.False(t, New("NOBODY").IsNoBody())
	})
	t.Run("With ordering", func(t *testing.T) {
		a, b := New("a"), New("b")
		assert.Equal(t, -1, a.Compare(b))
		assert.Equal(t, 1, b.Compare(a))
		assert.Equal(t, 0, a.Compare(New("/a")))

		addrs := []Address{New("c"), New("a"), New("b")}
		sort.Slice(addrs, func(i, j int) bool { return addrs[i].Compare(addrs[j]) < 0 })
		assert.Equal(t, []Address{New("a"), New("b"), New("c")}, addrs)
	})
	t.Run("With map key", func(t *testing.T) {
		seen := map[Address]int{New("a"): 1}
		assert.Equal(t, 1, seen[New("/a")])
		assert.Equal(t, New("a"), New("a").Reference())
	})
	t.Run("With validation", func(t *testing.T) {
		require.NoError(t, New("counter").Validate())
		assert.ErrorIs(t, From("").Validate(), errors.ErrInvalidName)
		assert.ErrorIs(t, New("has space").Validate(), errors.ErrInvalidName)
		assert.ErrorIs(t, Address{}.Validate(), errors.ErrInvalidName)
	})
}
