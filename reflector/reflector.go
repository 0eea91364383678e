package reflector

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"propbind/invoker"
	"propbind/property"
)

var (
	ErrNoGetter             = errors.New("no getter for property")
	ErrNoSetter             = errors.New("no setter for property")
	ErrNoDefaultConstructor = errors.New("type has no default constructor")
)

var boolType = reflect.TypeFor[bool]()

// Reflector is the cached set of property metadata for one type. It maps
// property names to accessor invokers and declared types, and is immutable
// once built; construction is the only mutation phase.
type Reflector struct {
	typ        reflect.Type
	getMethods map[string]invoker.Invoker
	setMethods map[string]invoker.Invoker
	getTypes   map[string]reflect.Type
	setTypes   map[string]reflect.Type
	readable   []string
	writable   []string
	ctor       func() any
	caseIndex  map[string]string
}

// New builds the property metadata for t with the default introspector.
func New(t reflect.Type) *Reflector {
	return NewWithIntrospector(t, DefaultIntrospector())
}

// NewWithIntrospector builds the property metadata for t. Construction only
// inspects static type metadata; the result is safe for unsynchronized
// concurrent reads.
func NewWithIntrospector(t reflect.Type, intro Introspector) *Reflector {
	r := &Reflector{
		typ:        t,
		getMethods: make(map[string]invoker.Invoker),
		setMethods: make(map[string]invoker.Invoker),
		getTypes:   make(map[string]reflect.Type),
		setTypes:   make(map[string]reflect.Type),
		caseIndex:  make(map[string]string),
	}

	r.addDefaultConstructor(t)

	methods := collectMethods(t)
	allowUnexported := intro.CanRebindVisibility()

	if intro.IsRecord(t) {
		r.addRecordGetMethods(methods)
	} else {
		r.addGetMethods(methods)
		r.addSetMethods(methods)
		r.addFields(t, nil, allowUnexported)
	}

	r.readable = sortedKeys(r.getMethods)
	r.writable = sortedKeys(r.setMethods)

	for _, name := range r.readable {
		r.caseIndex[strings.ToUpper(name)] = name
	}
	for _, name := range r.writable {
		r.caseIndex[strings.ToUpper(name)] = name
	}

	return r
}

func (r *Reflector) addDefaultConstructor(t reflect.Type) {
	base := t
	for base.Kind() == reflect.Pointer {
		base = base.Elem()
	}

	switch base.Kind() {
	case reflect.Interface, reflect.Func, reflect.Chan, reflect.Invalid:
		return
	}

	r.ctor = func() any { return reflect.New(base).Interface() }
}

// addRecordGetMethods registers every zero-argument single-result method of
// a value record as a getter keyed by the method name itself. Records have
// no mutable properties, so the setter and field passes are skipped.
func (r *Reflector) addRecordGetMethods(methods []methodInfo) {
	for i := range methods {
		m := &methods[i]
		if len(m.ins) == 0 && len(m.outs) == 1 {
			r.addGetMethod(m.name, m, false)
		}
	}
}

func (r *Reflector) addGetMethods(methods []methodInfo) {
	conflicting := make(map[string][]methodInfo)

	for _, m := range methods {
		if len(m.ins) != 0 || len(m.outs) != 1 || !property.IsGetter(m.name) {
			continue
		}

		name, err := property.ToProperty(m.name)
		if err != nil || !isValidPropertyName(name) {
			continue
		}

		conflicting[name] = append(conflicting[name], m)
	}

	r.resolveGetterConflicts(conflicting)
}

func (r *Reflector) resolveGetterConflicts(conflicting map[string][]methodInfo) {
	for name, group := range conflicting {
		var winner *methodInfo
		ambiguous := false

		for i := range group {
			candidate := &group[i]
			if winner == nil {
				winner = candidate
				continue
			}

			winnerType := winner.outs[0]
			candidateType := candidate.outs[0]

			switch {
			case candidateType == winnerType:
				if candidateType != boolType {
					ambiguous = true
				} else if isPrefixed(candidate.name) {
					// The boolean naming convention wins over the get form.
					winner = candidate
				}
			case winnerType.AssignableTo(candidateType):
				// Candidate is the broader type, the winner stays.
			case candidateType.AssignableTo(winnerType):
				winner = candidate
			default:
				ambiguous = true
			}

			if ambiguous {
				break
			}
		}

		r.addGetMethod(name, winner, ambiguous)
	}
}

func (r *Reflector) addGetMethod(name string, m *methodInfo, ambiguous bool) {
	typ := m.outs[0]

	var inv invoker.Invoker
	if ambiguous {
		inv = invoker.NewAmbiguous(typ, fmt.Sprintf(
			"overloaded getters with incompatible types for property %q in type %s",
			name, typeName(m.owner)))
	} else {
		inv = invoker.NewGetMethod(m.name, m.path, typ)
	}

	r.getMethods[name] = inv
	r.getTypes[name] = typ
}

func (r *Reflector) addSetMethods(methods []methodInfo) {
	conflicting := make(map[string][]methodInfo)

	for _, m := range methods {
		if len(m.ins) != 1 || !property.IsSetter(m.name) {
			continue
		}

		name, err := property.ToProperty(m.name)
		if err != nil || !isValidPropertyName(name) {
			continue
		}

		conflicting[name] = append(conflicting[name], m)
	}

	r.resolveSetterConflicts(conflicting)
}

func (r *Reflector) resolveSetterConflicts(conflicting map[string][]methodInfo) {
	for name, setters := range conflicting {
		getterType := r.getTypes[name]
		_, getterAmbiguous := r.getMethods[name].(*invoker.Ambiguous)

		var match *methodInfo
		setterAmbiguous := false

		for i := range setters {
			setter := &setters[i]

			if !getterAmbiguous && setter.ins[0] == getterType {
				// Exact match with the readable type is authoritative.
				match = setter
				break
			}

			if !setterAmbiguous {
				match = r.pickBetterSetter(match, setter, name)
				setterAmbiguous = match == nil
			}
		}

		if match != nil {
			r.addSetMethod(name, match)
		}
	}
}

// pickBetterSetter keeps the setter with the more specific parameter type.
// Unrelated types install the ambiguity sentinel immediately and return nil,
// making the property unwinnable for the remaining candidates.
func (r *Reflector) pickBetterSetter(current, candidate *methodInfo, name string) *methodInfo {
	if current == nil {
		return candidate
	}

	currentType := current.ins[0]
	candidateType := candidate.ins[0]

	if candidateType.AssignableTo(currentType) {
		return candidate
	}
	if currentType.AssignableTo(candidateType) {
		return current
	}

	r.setMethods[name] = invoker.NewAmbiguous(currentType, fmt.Sprintf(
		"ambiguous setters for property %q in type %s with types %s and %s",
		name, typeName(candidate.owner), typeName(currentType), typeName(candidateType)))
	r.setTypes[name] = currentType

	return nil
}

func (r *Reflector) addSetMethod(name string, m *methodInfo) {
	r.setMethods[name] = invoker.NewSetMethod(m.name, m.path, m.ins[0])
	r.setTypes[name] = m.ins[0]
}

// addFields walks named fields first, then recurses into embedded structs,
// so a more-derived resolution is never overridden by an embedded one.
func (r *Reflector) addFields(t reflect.Type, path []int, allowUnexported bool) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return
	}

	var embedded []int

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous {
			embedded = append(embedded, i)
			continue
		}

		r.addField(f, append(append([]int{}, path...), i), allowUnexported)
	}

	for _, i := range embedded {
		r.addFields(t.Field(i).Type, append(append([]int{}, path...), i), allowUnexported)
	}
}

func (r *Reflector) addField(f reflect.StructField, index []int, allowUnexported bool) {
	name, readonly, skip := parseTag(f)
	if skip || !isValidPropertyName(name) {
		return
	}

	if _, ok := r.setMethods[name]; !ok && !readonly {
		r.setMethods[name] = invoker.NewSetField(f.Name, index, f.Type, allowUnexported)
		r.setTypes[name] = f.Type
	}

	if _, ok := r.getMethods[name]; !ok {
		r.getMethods[name] = invoker.NewGetField(f.Name, index, f.Type, allowUnexported)
		r.getTypes[name] = f.Type
	}
}

// parseTag reads the property struct tag: `property:"-"` excludes the field,
// a leading name overrides the property name, and the readonly option makes
// the field never writable.
func parseTag(f reflect.StructField) (name string, readonly, skip bool) {
	name = f.Name

	tag, ok := f.Tag.Lookup("property")
	if !ok {
		return name, false, false
	}

	parts := strings.Split(tag, ",")
	if parts[0] == "-" && len(parts) == 1 {
		return "", false, true
	}
	if parts[0] != "" {
		name = parts[0]
	}

	for _, opt := range parts[1:] {
		if opt == "readonly" {
			readonly = true
		}
	}

	return name, readonly, false
}

func isValidPropertyName(name string) bool {
	return !(name == "" || name == "_" || strings.HasPrefix(name, "$") ||
		name == "serialVersionUID" || name == "class")
}

func isPrefixed(name string) bool {
	return strings.HasPrefix(name, "is") || strings.HasPrefix(name, "Is")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// Type reports the type this Reflector describes.
func (r *Reflector) Type() reflect.Type { return r.typ }

// ReadableProperties returns the readable property names, fixed and sorted
// at construction.
func (r *Reflector) ReadableProperties() []string {
	return append([]string{}, r.readable...)
}

// WritableProperties returns the writable property names, fixed and sorted
// at construction.
func (r *Reflector) WritableProperties() []string {
	return append([]string{}, r.writable...)
}

// HasGetter reports whether the type has a readable property by that name.
func (r *Reflector) HasGetter(name string) bool {
	_, ok := r.getMethods[name]
	return ok
}

// HasSetter reports whether the type has a writable property by that name.
func (r *Reflector) HasSetter(name string) bool {
	_, ok := r.setMethods[name]
	return ok
}

// GetterType returns the declared type of the named readable property.
func (r *Reflector) GetterType(name string) (reflect.Type, error) {
	t, ok := r.getTypes[name]
	if !ok {
		return nil, fmt.Errorf("%w %q in %s", ErrNoGetter, name, typeName(r.typ))
	}

	return t, nil
}

// SetterType returns the declared type of the named writable property.
func (r *Reflector) SetterType(name string) (reflect.Type, error) {
	t, ok := r.setTypes[name]
	if !ok {
		return nil, fmt.Errorf("%w %q in %s", ErrNoSetter, name, typeName(r.typ))
	}

	return t, nil
}

// GetInvoker returns the getter capability for the named property.
func (r *Reflector) GetInvoker(name string) (invoker.Invoker, error) {
	inv, ok := r.getMethods[name]
	if !ok {
		return nil, fmt.Errorf("%w %q in %s", ErrNoGetter, name, typeName(r.typ))
	}

	return inv, nil
}

// SetInvoker returns the setter capability for the named property.
func (r *Reflector) SetInvoker(name string) (invoker.Invoker, error) {
	inv, ok := r.setMethods[name]
	if !ok {
		return nil, fmt.Errorf("%w %q in %s", ErrNoSetter, name, typeName(r.typ))
	}

	return inv, nil
}

// FindPropertyName resolves a name of any case to the canonical property
// name.
func (r *Reflector) FindPropertyName(name string) (string, bool) {
	canonical, ok := r.caseIndex[strings.ToUpper(name)]
	return canonical, ok
}

// HasDefaultConstructor reports whether the type can be default-constructed.
func (r *Reflector) HasDefaultConstructor() bool { return r.ctor != nil }

// DefaultConstructor returns the capability building a zero-value instance,
// as a pointer to the base type.
func (r *Reflector) DefaultConstructor() (func() any, error) {
	if r.ctor == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoDefaultConstructor, typeName(r.typ))
	}

	return r.ctor, nil
}

// Instantiate builds a new zero-value instance of the type.
func (r *Reflector) Instantiate() (any, error) {
	ctor, err := r.DefaultConstructor()
	if err != nil {
		return nil, err
	}

	return ctor(), nil
}
