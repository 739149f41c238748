package listing

import (
	"fmt"
	"strings"
)

// MissingComponent is substituted for absent composite key components so
// that unnumbered items sort after every real value within their group.
const MissingComponent = 999999

const componentWidth = 6

// CompositeNumberKey builds a single sortable string from ordered numeric
// components. Each component is zero padded to six digits and the parts
// concatenated, so plain string collation yields a multi-level ordering:
// the first component dominates, later components break ties.
func CompositeNumberKey(components ...*int) string {
	var b strings.Builder
	b.Grow(len(components) * componentWidth)
	for _, c := range components {
		v := MissingComponent
		if c != nil {
			v = *c
		}
		fmt.Fprintf(&b, "%0*d", componentWidth, v)
	}
	return b.String()
}
