package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/JonMunkholm/tablekit/internal/table"
)

// FilterSpec selects records whose Field contains Search, ignoring case.
// A blank Search matches every record.
type FilterSpec struct {
	Field  string // Field selector; unknown names match everything
	Search string
}

// IsBlank reports whether the filter has no search text.
func (f FilterSpec) IsBlank() bool {
	return strings.TrimSpace(f.Search) == ""
}

// SortSpec orders records by a single field.
type SortSpec struct {
	Field     string // Field selector; unknown names sort by id
	Ascending bool
}

// Query is one find request: filter, then sort, then paginate.
type Query struct {
	Filter FilterSpec
	Sort   SortSpec
	Page   table.PageRequest
}

// SelectionMode decides which records a bulk mutation targets.
type SelectionMode string

const (
	SelectByIDs    SelectionMode = "ids"
	SelectByFilter SelectionMode = "filter"
)

// ParseSelectionMode parses a selection mode from user input.
// Empty input defaults to SelectByIDs.
func ParseSelectionMode(s string) (SelectionMode, error) {
	switch SelectionMode(strings.TrimSpace(s)) {
	case "", SelectByIDs:
		return SelectByIDs, nil
	case SelectByFilter:
		return SelectByFilter, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSelection, s)
	}
}

// Selection is the target of a bulk mutation. IDs is used in SelectByIDs
// mode, Filter in SelectByFilter mode.
type Selection struct {
	Mode   SelectionMode
	IDs    []int64
	Filter FilterSpec
}

// IDSelection selects the given ids.
func IDSelection(ids ...int64) Selection {
	return Selection{Mode: SelectByIDs, IDs: ids}
}

// FilterSelection selects every record matching f.
func FilterSelection(f FilterSpec) Selection {
	return Selection{Mode: SelectByFilter, Filter: f}
}

// ParseID parses a record identifier from user input.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return id, nil
}

// ParseIDs parses identifiers, accepting repeated values and comma-separated
// lists. Blank entries are skipped.
func ParseIDs(values []string) ([]int64, error) {
	var ids []int64
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			id, err := ParseID(part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// TableInfo contains display information about a table.
type TableInfo struct {
	Key        string   `json:"key"`        // Unique identifier: "users"
	Group      string   `json:"group"`      // Navigation group: "Directory"
	Label      string   `json:"label"`      // Display name: "Users"
	IDField    string   `json:"idField"`    // Primary identifier field
	Columns    []string `json:"columns"`    // Field names in display order
	Labels     []string `json:"labels"`     // Header labels, parallel to Columns
	Searchable []string `json:"searchable"` // Fields offered for search
}

// TableRow is a record rendered as field name -> display value.
type TableRow map[string]string

// DeletePreview describes what a bulk delete would remove.
// Used for confirmation dialogs before performing the delete.
type DeletePreview struct {
	TableKey    string `json:"tableKey"`
	Count       int    `json:"count"`
	FilterMode  bool   `json:"filterMode"`
	HasFilter   bool   `json:"hasFilter"`
	MatchesAll  bool   `json:"matchesAll"`
	SearchField string `json:"searchField,omitempty"`
	Search      string `json:"search,omitempty"`
}
