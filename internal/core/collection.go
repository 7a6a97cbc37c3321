package core

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/JonMunkholm/tablekit/internal/table"
)

// Collection owns the authoritative records of one table.
//
// The records live in an immutable slice behind an atomic pointer. Readers
// load the pointer and never lock. Writers hold mu, build a new slice without
// the removed records, and publish it with a single store, so a reader sees
// either the old snapshot or the new one and never a partial delete.
type Collection[T any] struct {
	info   TableInfo
	schema Schema[T]

	mu      sync.Mutex // serialises snapshot publication
	records atomic.Pointer[[]T]
}

// NewCollection creates a collection seeded with a copy of records.
// Columns, labels and searchable fields are filled from the schema when
// info leaves them empty. Panics if the schema is invalid.
func NewCollection[T any](info TableInfo, schema Schema[T], records []T) *Collection[T] {
	if err := schema.Validate(); err != nil {
		panic(fmt.Sprintf("table %s: %v", info.Key, err))
	}

	if info.IDField == "" {
		info.IDField = schema.IDField
	}
	if len(info.Columns) == 0 {
		info.Columns = make([]string, len(schema.Fields))
		info.Labels = make([]string, len(schema.Fields))
		for i, f := range schema.Fields {
			info.Columns[i] = f.Name
			info.Labels[i] = f.Label
		}
	}
	if info.Searchable == nil {
		for _, f := range schema.Fields {
			if f.Searchable {
				info.Searchable = append(info.Searchable, f.Name)
			}
		}
	}

	c := &Collection[T]{info: info, schema: schema}
	seed := slices.Clone(records)
	if seed == nil {
		seed = []T{}
	}
	c.records.Store(&seed)
	return c
}

// Info returns the table's display information.
func (c *Collection[T]) Info() TableInfo {
	return c.info
}

// Schema returns the field table the collection queries with.
func (c *Collection[T]) Schema() Schema[T] {
	return c.schema
}

// snapshot returns the current published records. Callers must not modify
// the returned slice.
func (c *Collection[T]) snapshot() []T {
	return *c.records.Load()
}

// Len returns the number of records in the current snapshot.
func (c *Collection[T]) Len() int {
	return len(c.snapshot())
}

// Snapshot returns a copy of the current records in collection order.
func (c *Collection[T]) Snapshot() []T {
	return slices.Clone(c.snapshot())
}

// ResolveSort returns the field a sort selector resolves to.
func (c *Collection[T]) ResolveSort(field string) string {
	return c.schema.ResolveSort(field)
}

// MatchesAll reports whether f selects every record regardless of content.
func (c *Collection[T]) MatchesAll(f FilterSpec) bool {
	return c.schema.MatchesAll(f)
}

// query filters and sorts the current snapshot. The result is a fresh slice.
func (c *Collection[T]) query(filter FilterSpec, sort SortSpec) []T {
	match := c.schema.Predicate(filter)

	records := c.snapshot()
	matched := make([]T, 0, len(records))
	for _, r := range records {
		if match(r) {
			matched = append(matched, r)
		}
	}

	slices.SortStableFunc(matched, c.schema.Comparator(sort))
	return matched
}

// Find filters, sorts and paginates the collection.
//
// TotalItems on the returned page is the number of records matching the
// filter, not the collection size. A page past the end is empty, not an
// error. A non-positive page number or size returns table.ErrInvalidPage.
func (c *Collection[T]) Find(filter FilterSpec, sort SortSpec, req table.PageRequest) (table.Page[T], error) {
	if err := req.Validate(); err != nil {
		return table.Page[T]{}, err
	}

	matched := c.query(filter, sort)
	return table.NewPage(pageSlice(matched, req), req, int64(len(matched))), nil
}

// pageSlice cuts the requested page out of items. Written so that huge page
// numbers or sizes cannot overflow the offset arithmetic.
func pageSlice[T any](items []T, req table.PageRequest) []T {
	n := len(items)
	if n == 0 || req.Number-1 > (n-1)/req.Size {
		return []T{}
	}

	from := req.Offset()
	to := n
	if req.Size < n-from {
		to = from + req.Size
	}
	return items[from:to:to]
}

// CountMatching returns how many records match f without sorting or
// collecting them. Equals Find's TotalItems for the same filter and snapshot.
func (c *Collection[T]) CountMatching(f FilterSpec) int {
	match := c.schema.Predicate(f)
	count := 0
	for _, r := range c.snapshot() {
		if match(r) {
			count++
		}
	}
	return count
}

// FindRows is Find with records rendered as TableRows.
func (c *Collection[T]) FindRows(q Query) (table.Page[TableRow], error) {
	page, err := c.Find(q.Filter, q.Sort, q.Page)
	if err != nil {
		return table.Page[TableRow]{}, err
	}
	return table.Map(page, c.schema.Row), nil
}

// ExportRows returns every record matching filter in sort order, rendered
// as TableRows. Used for CSV export of the current view.
func (c *Collection[T]) ExportRows(filter FilterSpec, sort SortSpec) []TableRow {
	matched := c.query(filter, sort)
	rows := make([]TableRow, len(matched))
	for i, r := range matched {
		rows[i] = c.schema.Row(r)
	}
	return rows
}
