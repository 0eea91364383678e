// Package property analyzes accessor method names. It decides whether a name
// is getter- or setter-shaped and derives the canonical property name from
// it. All functions are pure and stateless.
package property

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidName reports a method name that does not follow the is/get/set
// accessor convention.
var ErrInvalidName = errors.New("method name does not follow the is/get/set accessor convention")

// prefixed reports whether name starts with the accessor prefix, accepting
// both the lower-case spelling and the exported Go spelling with a
// capitalized first letter ("getName" and "GetName", but not "GETNAME").
func prefixed(name, prefix string) bool {
	if strings.HasPrefix(name, prefix) {
		return true
	}

	return strings.HasPrefix(name, strings.ToUpper(prefix[:1])+prefix[1:])
}

// IsGetter reports whether name is getter-shaped: a get prefix with at least
// one trailing character, or an is prefix with at least one trailing
// character.
func IsGetter(name string) bool {
	return (prefixed(name, "get") && len(name) > 3) || (prefixed(name, "is") && len(name) > 2)
}

// IsSetter reports whether name is setter-shaped: a set prefix with at least
// one trailing character.
func IsSetter(name string) bool {
	return prefixed(name, "set") && len(name) > 3
}

// IsAccessor reports whether name is getter- or setter-shaped.
func IsAccessor(name string) bool {
	return IsGetter(name) || IsSetter(name)
}

// Classify returns the accessor kind of name. Setter-shaped names win over
// nothing else; a name can never be both getter- and setter-shaped.
func Classify(name string) Kind {
	switch {
	case IsGetter(name):
		return KindGetter
	case IsSetter(name):
		return KindSetter
	default:
		return KindNeither
	}
}

// ToProperty derives the canonical property name from an accessor method
// name. The is/get/set prefix is stripped and the remainder is decapitalized
// unless its second character is upper case, so "GetURL" keeps "URL" while
// "GetName" becomes "name".
func ToProperty(name string) (string, error) {
	switch {
	case prefixed(name, "is"):
		name = name[2:]
	case prefixed(name, "get"), prefixed(name, "set"):
		name = name[3:]
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	r := []rune(name)
	if len(r) == 1 || (len(r) > 1 && !unicode.IsUpper(r[1])) {
		r[0] = unicode.ToLower(r[0])
	}

	return string(r), nil
}
