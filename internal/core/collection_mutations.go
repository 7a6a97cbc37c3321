package core

import "fmt"

// removeWhere publishes a new snapshot without the records drop selects and
// returns how many were removed. Survivors keep their order and ids. When
// nothing matches, the current snapshot stays published.
func (c *Collection[T]) removeWhere(drop func(T) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.snapshot()
	kept := make([]T, 0, len(current))
	for _, r := range current {
		if !drop(r) {
			kept = append(kept, r)
		}
	}

	removed := len(current) - len(kept)
	if removed == 0 {
		return 0
	}
	c.records.Store(&kept)
	return removed
}

// DeleteOne removes the record with the given id. Deleting an id that does
// not exist is a no-op.
func (c *Collection[T]) DeleteOne(id int64) int {
	idOf := c.schema.ID
	return c.removeWhere(func(r T) bool {
		return idOf(r) == id
	})
}

// DeleteByIDs removes every record whose id is in ids. Absent ids are
// ignored and an empty set is a no-op.
func (c *Collection[T]) DeleteByIDs(ids []int64) int {
	if len(ids) == 0 {
		return 0
	}

	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	idOf := c.schema.ID
	return c.removeWhere(func(r T) bool {
		_, ok := set[idOf(r)]
		return ok
	})
}

// DeleteByFilter removes every record matching f. A blank search matches
// everything, so this clears the collection.
func (c *Collection[T]) DeleteByFilter(f FilterSpec) int {
	return c.removeWhere(c.schema.Predicate(f))
}

// Delete dispatches a bulk delete on the selection mode. Filter mode uses
// the caller's filter unchanged.
func (c *Collection[T]) Delete(sel Selection) (int, error) {
	switch sel.Mode {
	case SelectByIDs:
		return c.DeleteByIDs(sel.IDs), nil
	case SelectByFilter:
		return c.DeleteByFilter(sel.Filter), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidSelection, sel.Mode)
	}
}

// Preview reports what Delete(sel) would remove against the current
// snapshot. In ids mode only ids that currently exist are counted.
func (c *Collection[T]) Preview(sel Selection) DeletePreview {
	p := DeletePreview{
		TableKey:    c.info.Key,
		FilterMode:  sel.Mode == SelectByFilter,
		SearchField: sel.Filter.Field,
		Search:      sel.Filter.Search,
		HasFilter:   sel.Filter.Field != "" && !sel.Filter.IsBlank(),
	}

	if p.FilterMode {
		p.Count = c.CountMatching(sel.Filter)
		p.MatchesAll = c.MatchesAll(sel.Filter)
		return p
	}

	wanted := make(map[int64]struct{}, len(sel.IDs))
	for _, id := range sel.IDs {
		wanted[id] = struct{}{}
	}
	for _, r := range c.snapshot() {
		if _, ok := wanted[c.schema.ID(r)]; ok {
			p.Count++
		}
	}
	return p
}
