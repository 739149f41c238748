package listing

import (
	"slices"
	"sync"
)

// Config is the per-view default sort configuration a View is created
// from and reset to.
type Config struct {
	DefaultSortField string
	DefaultSortOrder Order
}

// View owns the mutable list-view state for one data set: search term,
// filter list, sort field and sort order. The processed result is
// memoized and only recomputed when the data or the query actually
// changed. Safe for concurrent use.
type View[T any] struct {
	mu     sync.Mutex
	access Accessor[T]
	cfg    Config
	data   []T
	query  Query
	result []T
	dirty  bool
}

// NewView creates a view over data with the given accessor and defaults.
// A nil accessor falls back to DefaultAccessor.
func NewView[T any](data []T, access Accessor[T], cfg Config) *View[T] {
	if access == nil {
		access = DefaultAccessor[T]
	}
	return &View[T]{
		access: access,
		cfg:    cfg,
		data:   data,
		query: Query{
			SortField: cfg.DefaultSortField,
			SortOrder: cfg.DefaultSortOrder.Sanitized(),
		},
		dirty: true,
	}
}

// SetData replaces the underlying collection. Callers must supply a fresh
// slice when the data changed; the view never mutates it.
func (v *View[T]) SetData(data []T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.data = data
	v.dirty = true
}

// SetSortField replaces the active sort field. The sort order is kept;
// consumers that want an order reset on field change do it themselves.
func (v *View[T]) SetSortField(field string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.query.SortField == field {
		return
	}
	v.query.SortField = field
	v.dirty = true
}

func (v *View[T]) SetSortOrder(order Order) {
	v.mu.Lock()
	defer v.mu.Unlock()
	order = order.Sanitized()
	if v.query.SortOrder == order {
		return
	}
	v.query.SortOrder = order
	v.dirty = true
}

// ToggleSortOrder flips between ascending and descending.
func (v *View[T]) ToggleSortOrder() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.query.SortOrder == OrderDesc {
		v.query.SortOrder = OrderAsc
	} else {
		v.query.SortOrder = OrderDesc
	}
	v.dirty = true
}

func (v *View[T]) SetSearchTerm(term string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.query.Search == term {
		return
	}
	v.query.Search = term
	v.dirty = true
}

// SetFilters replaces the whole structured filter list.
func (v *View[T]) SetFilters(filters []Condition) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query.Filters = slices.Clone(filters)
	v.dirty = true
}

// Reset restores the default sort configuration and clears search term
// and filters.
func (v *View[T]) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query = Query{
		SortField: v.cfg.DefaultSortField,
		SortOrder: v.cfg.DefaultSortOrder.Sanitized(),
	}
	v.dirty = true
}

func (v *View[T]) SortField() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query.SortField
}

func (v *View[T]) SortOrder() Order {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query.SortOrder
}

func (v *View[T]) SearchTerm() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query.Search
}

func (v *View[T]) Filters() []Condition {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.query.Filters)
}

// Query returns a copy of the current query state.
func (v *View[T]) Query() Query {
	v.mu.Lock()
	defer v.mu.Unlock()
	q := v.query
	q.Filters = slices.Clone(q.Filters)
	return q
}

// Items returns the processed list, recomputing it only when data or
// query changed since the last call. Callers must not mutate the result.
func (v *View[T]) Items() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.dirty {
		v.result = Process(v.data, v.query, v.access)
		v.dirty = false
	}
	return v.result
}
