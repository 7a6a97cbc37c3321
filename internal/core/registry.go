package core

import (
	"fmt"
	"sort"
	"sync"

	"github.com/JonMunkholm/tablekit/internal/table"
)

// Table is the type-erased view of a Collection used by transports that
// render any registered table generically.
type Table interface {
	Info() TableInfo
	Len() int
	ResolveSort(field string) string
	MatchesAll(f FilterSpec) bool
	FindRows(q Query) (table.Page[TableRow], error)
	ExportRows(filter FilterSpec, sort SortSpec) []TableRow
	CountMatching(f FilterSpec) int
	DeleteOne(id int64) int
	Delete(sel Selection) (int, error)
	Preview(sel Selection) DeletePreview
}

var _ Table = (*Collection[struct{}])(nil)

// Registry maps table keys to tables. One registry is built at startup and
// handed to the Service; there is no package-level registry.
type Registry struct {
	mu     sync.RWMutex
	tables map[string]Table
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tables: make(map[string]Table)}
}

// Register adds a table to the registry.
// Panics if a table with the same key is already registered.
func (r *Registry) Register(t Table) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := t.Info().Key
	if key == "" {
		panic("table registered without a key")
	}
	if _, exists := r.tables[key]; exists {
		panic(fmt.Sprintf("table already registered: %s", key))
	}
	r.tables[key] = t
}

// Get returns a table by key.
// Returns false if not found.
func (r *Registry) Get(key string) (Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tables[key]
	return t, ok
}

// All returns all registered tables.
// Sorted by group then by key for consistent ordering.
func (r *Registry) All() []Table {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Table, 0, len(r.tables))
	for _, t := range r.tables {
		result = append(result, t)
	}

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i].Info(), result[j].Info()
		if a.Group != b.Group {
			return a.Group < b.Group
		}
		return a.Key < b.Key
	})

	return result
}

// Groups returns all unique group names.
// Sorted alphabetically.
func (r *Registry) Groups() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	for _, t := range r.tables {
		seen[t.Info().Group] = true
	}

	groups := make([]string, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}

	sort.Strings(groups)
	return groups
}

// Len returns the number of registered tables.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tables)
}
