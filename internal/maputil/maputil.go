// Package maputil provides small generic helpers for working with maps and
// key/value pairs.
package maputil

// ComputeIfAbsent returns the value stored under key, first inserting the
// result of fn(key) when the key is absent.
func ComputeIfAbsent[M ~map[K]V, K comparable, V any](m M, key K, fn func(K) V) V {
	if v, ok := m[key]; ok {
		return v
	}

	v := fn(key)
	m[key] = v

	return v
}

// Entry is an immutable key/value pair.
type Entry[K, V any] struct {
	key   K
	value V
}

// NewEntry creates an Entry holding key and value.
func NewEntry[K, V any](key K, value V) Entry[K, V] {
	return Entry[K, V]{key: key, value: value}
}

// Key returns the key of the pair.
func (e Entry[K, V]) Key() K { return e.key }

// Value returns the value of the pair.
func (e Entry[K, V]) Value() V { return e.value }
