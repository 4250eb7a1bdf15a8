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
	"math"
	"reflect"
	"sync"

	gerrors "github.com/tochemey/abs/errors"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// method describes an exported method callable by name
type method struct {
	fn          reflect.Value
	params      []reflect.Type
	results     []reflect.Type
	withContext bool
	variadic    bool
}

// methodTable holds the exported methods of a single type
type methodTable struct {
	typeName string
	methods  map[string]*method
}

// reflection resolves method calls against a target's runtime type.
// Method tables are built once per type.
type reflection struct {
	tables sync.Map
}

func newReflection() *reflection {
	return &reflection{}
}

// Bind resolves name against target and converts args to the method's parameters.
// The returned function performs the call. A missing method or mismatching
// arguments return ErrNoMatchingMethod.
func (r *reflection) Bind(ctx context.Context, target any, name string, args []any) (func() (any, error), error) {
	value := reflect.ValueOf(target)
	table := r.tableOf(value.Type())

	m, ok := table.methods[name]
	if !ok {
		return nil, gerrors.NewNoMatchingMethodError(table.typeName, name, "method not found")
	}

	in := make([]reflect.Value, 0, len(args)+2)
	in = append(in, value)
	if m.withContext {
		in = append(in, reflect.ValueOf(&ctx).Elem())
	}

	fixed := len(m.params)
	if m.variadic {
		fixed--
	}

	switch {
	case !m.variadic && len(args) != fixed,
		m.variadic && len(args) < fixed:
		return nil, gerrors.NewNoMatchingMethodError(table.typeName, name,
			fmt.Sprintf("expected %d argument(s), got %d", fixed, len(args)))
	}

	for i := 0; i < fixed; i++ {
		arg, ok := convert(args[i], m.params[i])
		if !ok {
			return nil, gerrors.NewNoMatchingMethodError(table.typeName, name,
				fmt.Sprintf("argument %d: %T is not assignable to %s", i, args[i], m.params[i]))
		}
		in = append(in, arg)
	}

	if !m.variadic {
		return func() (any, error) { return results(m, m.fn.Call(in)) }, nil
	}

	sliceType := m.params[fixed]
	rest := args[fixed:]

	// a single slice argument is spread as is
	if len(rest) == 1 && rest[0] != nil && reflect.TypeOf(rest[0]).AssignableTo(sliceType) {
		in = append(in, reflect.ValueOf(rest[0]))
		return func() (any, error) { return results(m, m.fn.CallSlice(in)) }, nil
	}

	for i, raw := range rest {
		arg, ok := convert(raw, sliceType.Elem())
		if !ok {
			return nil, gerrors.NewNoMatchingMethodError(table.typeName, name,
				fmt.Sprintf("argument %d: %T is not assignable to %s", fixed+i, raw, sliceType.Elem()))
		}
		in = append(in, arg)
	}
	return func() (any, error) { return results(m, m.fn.Call(in)) }, nil
}

func (r *reflection) tableOf(rtype reflect.Type) *methodTable {
	if table, ok := r.tables.Load(rtype); ok {
		return table.(*methodTable)
	}

	table := &methodTable{
		typeName: rtype.String(),
		methods:  make(map[string]*method, rtype.NumMethod()),
	}

	for i := 0; i < rtype.NumMethod(); i++ {
		candidate := rtype.Method(i)
		if !candidate.IsExported() {
			continue
		}

		mtype := candidate.Func.Type()
		m := &method{
			fn:       candidate.Func,
			variadic: mtype.IsVariadic(),
		}

		start := 1
		if mtype.NumIn() > 1 && mtype.In(1) == contextType {
			m.withContext = true
			start = 2
		}

		for j := start; j < mtype.NumIn(); j++ {
			m.params = append(m.params, mtype.In(j))
		}

		for j := 0; j < mtype.NumOut(); j++ {
			m.results = append(m.results, mtype.Out(j))
		}

		table.methods[candidate.Name] = m
	}

	actual, _ := r.tables.LoadOrStore(rtype, table)
	return actual.(*methodTable)
}

// results maps a method's return values onto a single value and an error
func results(m *method, out []reflect.Value) (any, error) {
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if m.results[0] == errorType {
			return nil, asError(out[0])
		}
		return out[0].Interface(), nil
	case 2:
		if m.results[1] == errorType {
			return out[0].Interface(), asError(out[1])
		}
	}

	values := make([]any, len(out))
	for i, value := range out {
		values[i] = value.Interface()
	}
	return values, nil
}

func asError(value reflect.Value) error {
	if value.IsNil() {
		return nil
	}
	return value.Interface().(error)
}

// convert returns arg as a value of the wanted type.
// Numeric values are converted only when no precision or sign is lost.
func convert(arg any, want reflect.Type) (reflect.Value, bool) {
	if arg == nil {
		switch want.Kind() {
		case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
			return reflect.Zero(want), true
		default:
			return reflect.Value{}, false
		}
	}

	value := reflect.ValueOf(arg)
	if value.Type().AssignableTo(want) {
		return value, true
	}

	return widen(value, want)
}

// widen converts a numeric value within its family (signed, unsigned, float)
// or from an integer to a float, provided the conversion round-trips.
func widen(value reflect.Value, want reflect.Type) (reflect.Value, bool) {
	from, to := familyOf(value.Kind()), familyOf(want.Kind())
	if from == notNumeric || to == notNumeric {
		return reflect.Value{}, false
	}

	if from != to && to != floatFamily {
		return reflect.Value{}, false
	}

	converted := value.Convert(want)
	if from == floatFamily && math.IsNaN(value.Float()) {
		return converted, true
	}

	if converted.Convert(value.Type()).Interface() != value.Interface() {
		return reflect.Value{}, false
	}
	return converted, true
}

type numericFamily int

const (
	notNumeric numericFamily = iota
	signedFamily
	unsignedFamily
	floatFamily
)

func familyOf(kind reflect.Kind) numericFamily {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return signedFamily
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return unsignedFamily
	case reflect.Float32, reflect.Float64:
		return floatFamily
	default:
		return notNumeric
	}
}
