package reflector

import "reflect"

// Record marks a type as an immutable value record: only its zero-argument
// accessor methods are scanned and none of its properties is ever writable.
type Record interface {
	RecordMarker()
}

// Introspector abstracts the host-runtime capability queries the reflector
// needs, so tests and alternative hosts can substitute their own answers.
type Introspector interface {
	// IsRecord reports whether t is an immutable value-record type.
	IsRecord(t reflect.Type) bool

	// CanRebindVisibility reports whether accessors may reach unexported
	// members. Go has no security manager, so the default answer is true.
	CanRebindVisibility() bool
}

type defaultIntrospector struct{}

var recordType = reflect.TypeFor[Record]()

func (defaultIntrospector) IsRecord(t reflect.Type) bool {
	if t.Implements(recordType) {
		return true
	}

	return t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(recordType)
}

func (defaultIntrospector) CanRebindVisibility() bool { return true }

// DefaultIntrospector returns the introspector used when none is supplied.
func DefaultIntrospector() Introspector { return defaultIntrospector{} }
