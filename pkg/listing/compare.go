package listing

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Order is the direction of a sort.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

func (o Order) Sanitized() Order {
	if o == OrderDesc {
		return OrderDesc
	}
	return OrderAsc
}

func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.IgnoreCase)
}

// NumberComparator orders items by a numeric field. Items whose field is
// missing or not numeric always sort after items with a value, no matter
// the direction; the direction only flips the order among real values.
func NumberComparator[T any](field string, order Order, access Accessor[T]) func(a, b T) int {
	return func(a, b T) int {
		numA, okA := toNumber(access(a, field))
		numB, okB := toNumber(access(b, field))
		switch {
		case !okA && !okB:
			return 0
		case !okA:
			return 1
		case !okB:
			return -1
		}
		diff := numA - numB
		if order == OrderDesc {
			diff = -diff
		}
		switch {
		case diff < 0:
			return -1
		case diff > 0:
			return 1
		}
		return 0
	}
}

// StringComparator orders items by a field's stringified value using
// case-insensitive locale-aware collation. Missing values compare as
// empty strings. A collator is allocated per comparator since collate is
// not safe for concurrent use.
func StringComparator[T any](field string, order Order, access Accessor[T]) func(a, b T) int {
	c := newCollator()
	return func(a, b T) int {
		valA := stringify(access(a, field))
		valB := stringify(access(b, field))
		result := c.CompareString(valA, valB)
		if order == OrderDesc {
			result = -result
		}
		return result
	}
}
