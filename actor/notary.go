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
	"reflect"

	"github.com/tochemey/abs/address"
	"github.com/tochemey/abs/config"
	gerrors "github.com/tochemey/abs/errors"
	"github.com/tochemey/abs/internal/collection"
)

// Notary is the registry mapping references to targets
type Notary interface {
	// Add registers target under ref
	Add(ref address.Address, target any) error
	// Get returns the target registered under ref
	Get(ref address.Address) (any, bool)
	// Remove unregisters ref and returns its target
	Remove(ref address.Address) (any, bool)
	// Len returns the number of registered references
	Len() int
	// References returns the registered references
	References() []address.Address
	// Stop removes every registration
	Stop()
}

// LocalNotary is an in-memory Notary backed by a sharded map
type LocalNotary struct {
	entries *collection.Map[address.Address, any]
	policy  config.DuplicatePolicy
}

// enforce compilation error
var _ Notary = (*LocalNotary)(nil)

// NewLocalNotary creates a LocalNotary applying the given duplicate policy.
// An unknown policy falls back to rejecting duplicates.
func NewLocalNotary(policy config.DuplicatePolicy) *LocalNotary {
	if policy != config.OverwriteDuplicates {
		policy = config.RejectDuplicates
	}
	return &LocalNotary{
		entries: newAddressMap[any](),
		policy:  policy,
	}
}

// Add registers target under ref.
// NOBODY and nil targets are rejected; an existing registration is rejected
// or replaced according to the duplicate policy.
func (n *LocalNotary) Add(ref address.Address, target any) error {
	if ref.IsNoBody() {
		return gerrors.ErrReservedReference
	}

	if isNil(target) {
		return gerrors.ErrInvalidTarget
	}

	if err := ref.Validate(); err != nil {
		return err
	}

	if n.policy == config.OverwriteDuplicates {
		n.entries.Set(ref, target)
		return nil
	}

	if _, stored := n.entries.SetIfAbsent(ref, target); !stored {
		return gerrors.NewReferenceExists(ref.String())
	}
	return nil
}

// Get returns the target registered under ref
func (n *LocalNotary) Get(ref address.Address) (any, bool) {
	return n.entries.Get(ref)
}

// Remove unregisters ref
func (n *LocalNotary) Remove(ref address.Address) (any, bool) {
	return n.entries.Delete(ref)
}

// Len returns the number of registered references
func (n *LocalNotary) Len() int {
	return n.entries.Len()
}

// References returns the registered references
func (n *LocalNotary) References() []address.Address {
	return n.entries.Keys()
}

// Stop removes every registration
func (n *LocalNotary) Stop() {
	n.entries.Reset()
}

func newAddressMap[V any]() *collection.Map[address.Address, V] {
	return collection.NewMap[address.Address, V](collection.StringHasher[address.Address](), collection.DefaultShardCount)
}

// isNil reports whether v is nil or a typed nil
func isNil(v any) bool {
	if v == nil {
		return true
	}

	value := reflect.ValueOf(v)
	switch value.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return value.IsNil()
	default:
		return false
	}
}
