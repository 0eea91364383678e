package reflector

import (
	"reflect"
	"strings"
)

// methodInfo describes one accessor candidate discovered on a type or behind
// one of its embedded fields.
type methodInfo struct {
	name  string
	path  []int        // embedded-field hops from the root type to the receiver
	owner reflect.Type // type the method was found on, for diagnostics
	ins   []reflect.Type
	outs  []reflect.Type
}

// collectMethods returns the de-duplicated exported method set of t and of
// every embedded struct or interface reachable from it. The most-derived
// type is walked first; a method already recorded under a signature is not
// replaced by an embedded type's version. Promotion wrappers therefore win
// over the embedded original, while a shadowed accessor with a different
// signature survives as its own entry for conflict resolution to reconcile.
func collectMethods(t reflect.Type) []methodInfo {
	seen := make(map[string]struct{})

	var out []methodInfo
	walkMethods(t, nil, seen, &out)

	return out
}

func walkMethods(t reflect.Type, path []int, seen map[string]struct{}, out *[]methodInfo) {
	ownMethods(t, path, seen, out)

	st := t
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	if st.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if !f.Anonymous {
			continue
		}

		sub := append(append([]int{}, path...), i)
		walkMethods(f.Type, sub, seen, out)
	}
}

func ownMethods(t reflect.Type, path []int, seen map[string]struct{}, out *[]methodInfo) {
	mt := t
	if mt.Kind() != reflect.Interface && mt.Kind() != reflect.Pointer {
		// The pointer method set covers both receiver forms.
		mt = reflect.PointerTo(mt)
	}

	recv := 1
	if mt.Kind() == reflect.Interface {
		recv = 0
	}

	owner := t
	for owner.Kind() == reflect.Pointer {
		owner = owner.Elem()
	}

	for i := 0; i < mt.NumMethod(); i++ {
		m := mt.Method(i)
		if m.PkgPath != "" {
			continue // unexported
		}

		info := methodInfo{name: m.Name, owner: owner}
		if len(path) > 0 {
			info.path = append([]int{}, path...)
		}

		ft := m.Type
		for j := recv; j < ft.NumIn(); j++ {
			info.ins = append(info.ins, ft.In(j))
		}
		for j := 0; j < ft.NumOut(); j++ {
			info.outs = append(info.outs, ft.Out(j))
		}

		key := signature(info)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		*out = append(*out, info)
	}
}

// signature builds the dedup key: comma-joined return types, '#', the method
// name, ':', comma-joined parameter types.
func signature(m methodInfo) string {
	var sb strings.Builder

	for i, o := range m.outs {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(typeName(o))
	}
	sb.WriteByte('#')
	sb.WriteString(m.name)

	for i, in := range m.ins {
		if i == 0 {
			sb.WriteByte(':')
		} else {
			sb.WriteByte(',')
		}
		sb.WriteString(typeName(in))
	}

	return sb.String()
}
