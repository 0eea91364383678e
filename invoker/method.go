package invoker

import (
	"fmt"
	"reflect"
)

// Method is an Invoker backed by an accessor method. The method is resolved
// on the receiver at call time so that promoted accessors and accessors
// shadowed behind an embedded field both dispatch correctly.
type Method struct {
	name   string
	path   []int // embedded-field hops from the outer type to the receiver
	typ    reflect.Type
	setter bool
}

// NewGetMethod creates a getter invoker for the named method. typ is the
// declared return type of the accessor.
func NewGetMethod(name string, path []int, typ reflect.Type) *Method {
	return &Method{name: name, path: clone(path), typ: typ}
}

// NewSetMethod creates a setter invoker for the named method. typ is the
// declared parameter type of the accessor.
func NewSetMethod(name string, path []int, typ reflect.Type) *Method {
	return &Method{name: name, path: clone(path), typ: typ, setter: true}
}

func (m *Method) Invoke(target any, args ...any) (any, error) {
	recv, err := navigate(reflect.ValueOf(target), m.path)
	if err != nil {
		return nil, err
	}

	fn := methodOn(recv, m.name)
	if !fn.IsValid() {
		return nil, fmt.Errorf("%w: no method %s on %s", ErrBadTarget, m.name, recv.Type())
	}

	if m.setter {
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: method %s got %d", ErrMissingValue, m.name, len(args))
		}

		val, err := coerce(args[0], m.typ)
		if err != nil {
			return nil, fmt.Errorf("setter %s: %w", m.name, err)
		}

		fn.Call([]reflect.Value{val})

		return nil, nil
	}

	out := fn.Call(nil)

	return out[0].Interface(), nil
}

func (m *Method) Type() reflect.Type { return m.typ }

// methodOn resolves name on v, falling back to the addressed receiver for
// pointer-receiver accessors.
func methodOn(v reflect.Value, name string) reflect.Value {
	if m := v.MethodByName(name); m.IsValid() {
		return m
	}

	if v.CanAddr() {
		if m := v.Addr().MethodByName(name); m.IsValid() {
			return m
		}
	}

	return reflect.Value{}
}

func clone(path []int) []int {
	if len(path) == 0 {
		return nil
	}

	out := make([]int, len(path))
	copy(out, path)

	return out
}
