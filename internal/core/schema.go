package core

import (
	"cmp"
	"fmt"
	"strings"
)

// Field describes one addressable attribute of a record type.
type Field[T any] struct {
	Name       string           // Selector used in queries: "email"
	Label      string           // Column header: "Email"
	Value      func(T) string   // Display and search value
	Compare    func(a, b T) int // Total order; nil compares Value lexicographically
	Searchable bool             // Offered for substring search
}

func (f Field[T]) compare() func(a, b T) int {
	if f.Compare != nil {
		return f.Compare
	}
	value := f.Value
	return func(a, b T) int {
		return strings.Compare(value(a), value(b))
	}
}

// Schema is the static field table for a record type. It replaces runtime
// field lookup: every selector the engine understands is listed here.
type Schema[T any] struct {
	IDField string        // Name of the primary identifier field
	ID      func(T) int64 // Primary identifier accessor
	Fields  []Field[T]    // Fields in display order
}

// IDCompare orders records numerically by the schema's id accessor.
func IDCompare[T any](id func(T) int64) func(a, b T) int {
	return func(a, b T) int {
		return cmp.Compare(id(a), id(b))
	}
}

// Validate checks the schema is usable. Schemas are declared in code, so a
// failure here is a programming error.
func (s Schema[T]) Validate() error {
	if s.ID == nil {
		return fmt.Errorf("schema: missing id accessor")
	}
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			return fmt.Errorf("schema: field with empty name")
		}
		if f.Value == nil {
			return fmt.Errorf("schema: field %s has no value accessor", f.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("schema: duplicate field %s", f.Name)
		}
		seen[f.Name] = true
	}
	if !seen[s.IDField] {
		return fmt.Errorf("schema: id field %q is not declared", s.IDField)
	}
	return nil
}

// Lookup returns the field with exactly the given name. Matching is
// case-sensitive.
func (s Schema[T]) Lookup(name string) (Field[T], bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field[T]{}, false
}

// ResolveSort returns the field a sort selector resolves to. Unknown or
// empty selectors fall back to the id field.
func (s Schema[T]) ResolveSort(name string) string {
	if _, ok := s.Lookup(name); ok {
		return name
	}
	return s.IDField
}

// MatchesAll reports whether the filter's predicate accepts every record:
// the search is blank, or the field is unknown or not searchable.
func (s Schema[T]) MatchesAll(f FilterSpec) bool {
	if f.IsBlank() {
		return true
	}
	field, ok := s.Lookup(f.Field)
	return !ok || !field.Searchable
}

// Predicate builds the case-insensitive substring match for f.
func (s Schema[T]) Predicate(f FilterSpec) func(T) bool {
	if s.MatchesAll(f) {
		return func(T) bool { return true }
	}
	field, _ := s.Lookup(f.Field)
	value := field.Value
	needle := strings.ToLower(f.Search)
	return func(r T) bool {
		return strings.Contains(strings.ToLower(value(r)), needle)
	}
}

// Comparator builds the total order for sort. Descending swaps the
// arguments so that a stable sort still keeps equal records in collection
// order.
func (s Schema[T]) Comparator(sort SortSpec) func(a, b T) int {
	field, _ := s.Lookup(s.ResolveSort(sort.Field))
	compare := field.compare()
	if sort.Ascending {
		return compare
	}
	return func(a, b T) int {
		return compare(b, a)
	}
}

// Row renders a record as field name -> display value.
func (s Schema[T]) Row(r T) TableRow {
	row := make(TableRow, len(s.Fields))
	for _, f := range s.Fields {
		row[f.Name] = f.Value(r)
	}
	return row
}
