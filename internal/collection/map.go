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

package collection

import (
	"sync"

	"github.com/zeebo/xxh3"
)

// DefaultShardCount is the number of shards used when none is given
const DefaultShardCount = 32

// Hasher maps a key to its hash. Keys with equal values must hash equally.
type Hasher[K comparable] func(key K) uint64

// StringHasher hashes keys by their string form with xxh3.
func StringHasher[K interface {
	comparable
	String() string
}]() Hasher[K] {
	return func(key K) uint64 {
		return xxh3.HashString(key.String())
	}
}

type shard[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

// Map is a concurrent map split in shards, each guarded by its own lock.
// Keys are spread over shards by hash.
type Map[K comparable, V any] struct {
	shards []*shard[K, V]
	hash   Hasher[K]
}

// NewMap creates a Map with count shards. A count below one uses DefaultShardCount.
func NewMap[K comparable, V any](hash Hasher[K], count int) *Map[K, V] {
	if count < 1 {
		count = DefaultShardCount
	}

	shards := make([]*shard[K, V], count)
	for i := range shards {
		shards[i] = &shard[K, V]{items: make(map[K]V)}
	}
	return &Map[K, V]{shards: shards, hash: hash}
}

func (m *Map[K, V]) shardOf(key K) *shard[K, V] {
	return m.shards[m.hash(key)%uint64(len(m.shards))]
}

// Set stores value under key
func (m *Map[K, V]) Set(key K, value V) {
	s := m.shardOf(key)
	s.mu.Lock()
	s.items[key] = value
	s.mu.Unlock()
}

// SetIfAbsent stores value under key only when key is absent.
// It returns the value held after the call and whether it was stored.
func (m *Map[K, V]) SetIfAbsent(key K, value V) (V, bool) {
	s := m.shardOf(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.items[key]; ok {
		return existing, false
	}
	s.items[key] = value
	return value, true
}

// GetOrCreate returns the value under key, creating it with create when absent.
// create runs under the shard lock and must not access the map.
func (m *Map[K, V]) GetOrCreate(key K, create func() V) (V, bool) {
	s := m.shardOf(key)
	s.mu.RLock()
	value, ok := s.items[key]
	s.mu.RUnlock()
	if ok {
		return value, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if value, ok = s.items[key]; ok {
		return value, false
	}
	value = create()
	s.items[key] = value
	return value, true
}

// Get retrieves the value under key
func (m *Map[K, V]) Get(key K) (V, bool) {
	s := m.shardOf(key)
	s.mu.RLock()
	value, ok := s.items[key]
	s.mu.RUnlock()
	return value, ok
}

// Delete removes key and returns the value it held
func (m *Map[K, V]) Delete(key K) (V, bool) {
	s := m.shardOf(key)
	s.mu.Lock()
	value, ok := s.items[key]
	delete(s.items, key)
	s.mu.Unlock()
	return value, ok
}

// DeleteFunc removes key only when match reports true for its current value
func (m *Map[K, V]) DeleteFunc(key K, match func(value V) bool) bool {
	s := m.shardOf(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.items[key]
	if !ok || !match(value) {
		return false
	}
	delete(s.items, key)
	return true
}

// Len returns the number of entries
func (m *Map[K, V]) Len() int {
	total := 0
	for _, s := range m.shards {
		s.mu.RLock()
		total += len(s.items)
		s.mu.RUnlock()
	}
	return total
}

// Range calls fn for every entry until fn returns false.
// Each shard is copied before iteration so fn may access the map.
func (m *Map[K, V]) Range(fn func(key K, value V) bool) {
	for _, s := range m.shards {
		s.mu.RLock()
		keys := make([]K, 0, len(s.items))
		values := make([]V, 0, len(s.items))
		for k, v := range s.items {
			keys = append(keys, k)
			values = append(values, v)
		}
		s.mu.RUnlock()

		for i := range keys {
			if !fn(keys[i], values[i]) {
				return
			}
		}
	}
}

// Keys returns a snapshot of the keys
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.Len())
	m.Range(func(key K, _ V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Values returns a snapshot of the values
func (m *Map[K, V]) Values() []V {
	values := make([]V, 0, m.Len())
	m.Range(func(_ K, value V) bool {
		values = append(values, value)
		return true
	})
	return values
}

// Reset removes every entry and returns the removed values
func (m *Map[K, V]) Reset() []V {
	var removed []V
	for _, s := range m.shards {
		s.mu.Lock()
		for _, v := range s.items {
			removed = append(removed, v)
		}
		s.items = make(map[K]V)
		s.mu.Unlock()
	}
	return removed
}
