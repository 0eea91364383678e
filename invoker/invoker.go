// Package invoker provides the capabilities that perform a single property
// get or set against a target instance. An invoker is backed by a method, by
// a struct field, or by an ambiguity sentinel that always fails.
package invoker

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrAmbiguous      = errors.New("ambiguous accessor")
	ErrBadTarget      = errors.New("target does not match accessor receiver")
	ErrBadValue       = errors.New("value does not match accessor type")
	ErrMissingValue   = errors.New("setter requires exactly one value")
	ErrNotAddressable = errors.New("field is not addressable on this target")
)

// Invoker performs one get or set operation against a property on a target
// instance. Getters take no args and return the value; setters take the
// value to assign and return nil.
type Invoker interface {
	Invoke(target any, args ...any) (any, error)

	// Type reports the declared property type the accessor reads or writes.
	Type() reflect.Type
}

// navigate walks the embedded-field hops in path starting from v,
// dereferencing pointers along the way.
func navigate(v reflect.Value, path []int) (reflect.Value, error) {
	if !v.IsValid() {
		return reflect.Value{}, fmt.Errorf("%w: nil target", ErrBadTarget)
	}

	for _, idx := range path {
		for v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, fmt.Errorf("%w: nil embedded pointer", ErrBadTarget)
			}
			v = v.Elem()
		}

		if v.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("%w: %s is not a struct", ErrBadTarget, v.Type())
		}

		v = v.Field(idx)
	}

	return v, nil
}

// coerce adapts val to the wanted type: assignable values pass through,
// convertible values are converted, anything else fails.
func coerce(val any, want reflect.Type) (reflect.Value, error) {
	if val == nil {
		switch want.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
			return reflect.Zero(want), nil
		default:
			return reflect.Value{}, fmt.Errorf("%w: nil for %s", ErrBadValue, want)
		}
	}

	rv := reflect.ValueOf(val)
	if rv.Type().AssignableTo(want) {
		return rv, nil
	}
	if rv.Type().ConvertibleTo(want) {
		return rv.Convert(want), nil
	}

	return reflect.Value{}, fmt.Errorf("%w: cannot use %s as %s", ErrBadValue, rv.Type(), want)
}
