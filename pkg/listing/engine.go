// Package listing is the generic sort/filter/search engine behind every
// list view: packs, cards, card pools, decks and archives all feed their
// entities through Process with a per-view accessor and query state.
package listing

import (
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// SortFieldNumber selects the numeric comparator with its nil-last tail
// behaviour; every other sort field is collated as text.
const SortFieldNumber = "number"

// Condition is a single field constraint. All conditions of a query must
// pass for an item to be kept.
type Condition struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// Query holds the four pieces of list-view state the engine consumes.
type Query struct {
	Search    string      `json:"search"`
	Filters   []Condition `json:"filters"`
	SortField string      `json:"sort"`
	SortOrder Order       `json:"order"`
}

// searchFields are the candidate fields probed by free-text search. A
// single hit on any of them keeps the item.
var searchFields = []string{"name", "number", "id", "cardId", "rarity"}

// Process runs the pipeline: free-text search, then structured filters,
// then a stable sort. The input slice is never mutated; the result is
// always a fresh slice. A nil accessor falls back to DefaultAccessor.
func Process[T any](data []T, q Query, access Accessor[T]) []T {
	if access == nil {
		access = DefaultAccessor[T]
	}
	if len(data) == 0 {
		return []T{}
	}
	result := searchStage(data, q.Search, access)
	result = filterStage(result, q.Filters, access)
	return sortStage(result, q.SortField, q.SortOrder.Sanitized(), access)
}

func searchStage[T any](data []T, term string, access Accessor[T]) []T {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return data
	}
	out := make([]T, 0, len(data))
	for _, item := range data {
		for _, field := range searchFields {
			v := access(item, field)
			if v == nil {
				continue
			}
			if strings.Contains(strings.ToLower(stringify(v)), term) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

func filterStage[T any](data []T, filters []Condition, access Accessor[T]) []T {
	if len(filters) == 0 {
		return data
	}
	out := make([]T, 0, len(data))
	for _, item := range data {
		keep := true
		for _, c := range filters {
			if !matches(access(item, c.Field), c.Value) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, item)
		}
	}
	return out
}

// matches evaluates one condition value against a field value. String
// conditions containing a dash are numeric ranges, other strings are
// case-insensitive substring checks, numbers and booleans compare after
// coercion, anything else falls back to strict equality.
func matches(field any, cond any) bool {
	switch cv := cond.(type) {
	case string:
		if minVal, maxVal, isRange := parseRange(cv); isRange {
			n, ok := toNumber(field)
			return ok && n >= minVal && n <= maxVal
		}
		if field == nil {
			return false
		}
		return strings.Contains(strings.ToLower(stringify(field)), strings.ToLower(cv))
	case bool:
		return truthy(field) == cv
	}
	if n, ok := toNumber(cond); ok {
		fieldNum, fieldOk := toNumber(field)
		return fieldOk && fieldNum == n
	}
	return reflect.DeepEqual(field, cond)
}

// parseRange interprets "min-max" condition values. Unparseable sides
// become NaN, which fails every bounds check, so items are silently
// excluded on malformed ranges. Kept for compatibility with the original
// filter behaviour rather than erroring or ignoring the condition.
func parseRange(v string) (float64, float64, bool) {
	low, high, found := strings.Cut(v, "-")
	if !found {
		return 0, 0, false
	}
	minVal, err := strconv.ParseFloat(strings.TrimSpace(low), 64)
	if err != nil {
		minVal = math.NaN()
	}
	maxVal, err := strconv.ParseFloat(strings.TrimSpace(high), 64)
	if err != nil {
		maxVal = math.NaN()
	}
	return minVal, maxVal, true
}

func sortStage[T any](data []T, field string, order Order, access Accessor[T]) []T {
	out := slices.Clone(data)
	if field == "" {
		return out
	}
	if field == SortFieldNumber {
		slices.SortStableFunc(out, NumberComparator(field, order, access))
	} else {
		slices.SortStableFunc(out, StringComparator(field, order, access))
	}
	return out
}
