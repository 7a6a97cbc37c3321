package table

import (
	"net/url"
	"strconv"
)

// Query parameter names shared by the fragment handlers and the links
// rendered into the table markup.
const (
	ParamSearchField = "searchField"
	ParamSearch      = "search"
	ParamSort        = "sort"
	ParamAscending   = "asc"
	ParamPage        = "page"
	ParamSize        = "size"
)

// State is everything the presentation layer needs to redraw a table:
// the current page plus the sort and search that produced it.
type State[T any] struct {
	Page        Page[T]
	SortBy      string
	Ascending   bool
	SearchTerm  string
	SearchField string
}

// HasFilter reports whether both a search field and a search term are set.
func (s State[T]) HasFilter() bool {
	return s.SearchField != "" && s.SearchTerm != ""
}

// Values encodes the state as URL query values.
func (s State[T]) Values() url.Values {
	v := url.Values{}
	if s.SearchField != "" {
		v.Set(ParamSearchField, s.SearchField)
	}
	if s.SearchTerm != "" {
		v.Set(ParamSearch, s.SearchTerm)
	}
	if s.SortBy != "" {
		v.Set(ParamSort, s.SortBy)
	}
	v.Set(ParamAscending, strconv.FormatBool(s.Ascending))
	v.Set(ParamPage, strconv.Itoa(s.Page.CurrentPage))
	v.Set(ParamSize, strconv.Itoa(s.Page.PageSize))
	return v
}

// QueryString re-encodes the state with the given parameters replaced.
// Used for sort headers, page links and page size selectors.
func (s State[T]) QueryString(overrides map[string]string) string {
	v := s.Values()
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v.Encode()
}

// SortLink returns the query string for clicking a column header: the same
// column toggles direction, a new column starts ascending. Page resets to 1.
func (s State[T]) SortLink(field string) string {
	asc := true
	if field == s.SortBy {
		asc = !s.Ascending
	}
	return s.QueryString(map[string]string{
		ParamSort:      field,
		ParamAscending: strconv.FormatBool(asc),
		ParamPage:      "1",
	})
}

// PageLink returns the query string for jumping to page n.
func (s State[T]) PageLink(n int) string {
	return s.QueryString(map[string]string{ParamPage: strconv.Itoa(n)})
}
