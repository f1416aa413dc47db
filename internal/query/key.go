package query

import (
	"fmt"
	"strings"
)

// Key identifies a cached query. Parts are compared by their fmt.Sprint
// form, so Key{"notes", 1} and Key{"notes", "1"} are the same key.
type Key []any

// String returns the canonical form used for map lookups.
func (k Key) String() string {
	parts := make([]string, len(k))
	for i, p := range k {
		parts[i] = fmt.Sprint(p)
	}
	return strings.Join(parts, "\x1f")
}

// HasPrefix reports whether the leading parts of k equal prefix.
func (k Key) HasPrefix(prefix ...any) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i, p := range prefix {
		if fmt.Sprint(k[i]) != fmt.Sprint(p) {
			return false
		}
	}
	return true
}

// Equal reports whether k and other are the same key.
func (k Key) Equal(other Key) bool {
	return len(k) == len(other) && k.HasPrefix(other...)
}
