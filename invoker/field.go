package invoker

import (
	"fmt"
	"reflect"
	"unsafe"
)

// GetField is an Invoker that reads a struct field directly. Unexported
// fields are reached through their address when visibility rebinding is
// allowed, which requires the target to be passed as a pointer.
type GetField struct {
	name            string
	index           []int
	typ             reflect.Type
	allowUnexported bool
}

func NewGetField(name string, index []int, typ reflect.Type, allowUnexported bool) *GetField {
	return &GetField{name: name, index: clone(index), typ: typ, allowUnexported: allowUnexported}
}

func (g *GetField) Invoke(target any, _ ...any) (any, error) {
	fv, err := navigate(reflect.ValueOf(target), g.index)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", g.name, err)
	}

	if !fv.CanInterface() {
		fv, err = g.unlock(fv)
		if err != nil {
			return nil, err
		}
	}

	return fv.Interface(), nil
}

func (g *GetField) Type() reflect.Type { return g.typ }

func (g *GetField) unlock(fv reflect.Value) (reflect.Value, error) {
	if !g.allowUnexported || !fv.CanAddr() {
		return reflect.Value{}, fmt.Errorf("%w: unexported field %s", ErrNotAddressable, g.name)
	}

	return reflect.NewAt(fv.Type(), unsafe.Pointer(fv.UnsafeAddr())).Elem(), nil
}

// SetField is an Invoker that writes a struct field directly. The target
// must be passed as a pointer so the field is addressable.
type SetField struct {
	name            string
	index           []int
	typ             reflect.Type
	allowUnexported bool
}

func NewSetField(name string, index []int, typ reflect.Type, allowUnexported bool) *SetField {
	return &SetField{name: name, index: clone(index), typ: typ, allowUnexported: allowUnexported}
}

func (s *SetField) Invoke(target any, args ...any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: field %s got %d", ErrMissingValue, s.name, len(args))
	}

	fv, err := navigate(reflect.ValueOf(target), s.index)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", s.name, err)
	}

	if !fv.CanSet() {
		if !s.allowUnexported || !fv.CanAddr() {
			return nil, fmt.Errorf("%w: field %s", ErrNotAddressable, s.name)
		}

		fv = reflect.NewAt(fv.Type(), unsafe.Pointer(fv.UnsafeAddr())).Elem()
	}

	val, err := coerce(args[0], s.typ)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", s.name, err)
	}

	fv.Set(val)

	return nil, nil
}

func (s *SetField) Type() reflect.Type { return s.typ }
