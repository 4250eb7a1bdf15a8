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

// Package address provides the identity of message targets.
//
// An Address is an opaque, scheme-qualified name:
//
//	abs://<path>
//
// where path always begins with a slash. Addresses are immutable values:
// they can be compared with == and used as map keys.
package address

import (
	"strings"

	"github.com/tochemey/abs/errors"
	"github.com/tochemey/abs/internal/validation"
)

const (
	// Scheme prefixes every normalized address
	Scheme = "abs://"

	nobody = Scheme + "NOBODY"
)

// namePattern rejects empty names and names containing whitespace
const namePattern = `^\S+$`

// Address identifies a target. The zero value is not a valid address.
type Address struct {
	name string
}

var _ validation.Validator = Address{}

// New creates an Address from name. A name already carrying the scheme is kept
// as is; otherwise a leading slash is added when missing and the scheme prefixed.
//
//	New("counter")   // abs:///counter
//	New("/counter")  // abs:///counter
func New(name string) Address {
	if strings.HasPrefix(name, Scheme) {
		return Address{name: name}
	}

	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	return Address{name: Scheme + name}
}

// From creates an Address holding raw exactly, without normalization.
func From(raw string) Address {
	return Address{name: raw}
}

// NoBody returns the sentinel address used when the sender of a message is unknown.
func NoBody() Address {
	return Address{name: nobody}
}

// Name returns the identity string
func (a Address) Name() string {
	return a.name
}

// String implements fmt.Stringer
func (a Address) String() string {
	return a.name
}

// Path returns the name without the scheme. Addresses built with From
// without a scheme return their raw name.
func (a Address) Path() string {
	return strings.TrimPrefix(a.name, Scheme)
}

// IsNoBody reports whether the address is the NOBODY sentinel.
func (a Address) IsNoBody() bool {
	return a.name == nobody
}

// Compare orders addresses lexicographically by name.
func (a Address) Compare(other Address) int {
	return strings.Compare(a.name, other.name)
}

// Equals reports whether both addresses carry the same name.
func (a Address) Equals(other Address) bool {
	return a.name == other.name
}

// Reference returns the address itself.
func (a Address) Reference() Address {
	return a
}

// Validate rejects empty names and names containing whitespace.
func (a Address) Validate() error {
	return validation.New(validation.FailFast()).
		AddValidator(validation.NewPatternValidator(namePattern, a.name, errors.ErrInvalidName)).
		Validate()
}
