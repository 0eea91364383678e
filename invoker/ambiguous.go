package invoker

import (
	"fmt"
	"reflect"
)

// Ambiguous is an Invoker recording an accessor conflict that could not be
// resolved. It fails on every invocation with the recorded diagnostic; the
// conflict is deliberately surfaced at invocation time, not at construction
// time.
type Ambiguous struct {
	typ reflect.Type
	msg string
}

// NewAmbiguous creates the sentinel. typ is the first-seen candidate type,
// kept only as a placeholder; msg names the property, the declaring type and
// the conflicting accessor types.
func NewAmbiguous(typ reflect.Type, msg string) *Ambiguous {
	return &Ambiguous{typ: typ, msg: msg}
}

func (a *Ambiguous) Invoke(any, ...any) (any, error) {
	return nil, fmt.Errorf("%w: %s", ErrAmbiguous, a.msg)
}

func (a *Ambiguous) Type() reflect.Type { return a.typ }
