package web

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/JonMunkholm/tablekit/internal/core"
	"github.com/JonMunkholm/tablekit/internal/table"
)

// Selection parameter names sent by the toolbar and confirm dialog.
const (
	paramSelectItem    = "select-item"
	paramIDs           = "ids"
	paramSelectionMode = "selectionMode"
	paramConfirmToken  = "confirmToken"
)

// intParam reads an integer parameter. Missing or non-numeric values give
// def; numeric values pass through unchecked so the engine can reject them.
func intParam(v url.Values, name string, def int) int {
	raw := strings.TrimSpace(v.Get(name))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// parseFilter reads the search field and term.
func parseFilter(v url.Values) core.FilterSpec {
	return core.FilterSpec{
		Field:  strings.TrimSpace(v.Get(table.ParamSearchField)),
		Search: v.Get(table.ParamSearch),
	}
}

// parseSort reads the sort field and direction. Direction defaults to
// ascending and the field to id.
func parseSort(v url.Values) core.SortSpec {
	field := strings.TrimSpace(v.Get(table.ParamSort))
	if field == "" {
		field = "id"
	}
	asc := true
	if b, err := strconv.ParseBool(v.Get(table.ParamAscending)); err == nil {
		asc = b
	}
	return core.SortSpec{Field: field, Ascending: asc}
}

// parseQuery builds a find request from query parameters. Page sizes above
// the configured maximum are clamped.
func (s *Server) parseQuery(v url.Values) core.Query {
	size := intParam(v, table.ParamSize, s.cfg.Table.DefaultPageSize)
	if size > s.cfg.Table.MaxPageSize {
		size = s.cfg.Table.MaxPageSize
	}
	return core.Query{
		Filter: parseFilter(v),
		Sort:   parseSort(v),
		Page: table.PageRequest{
			Number: intParam(v, table.ParamPage, 1),
			Size:   size,
		},
	}
}

// parseSelection reads the selection mode and, depending on it, the ids or
// the filter. Ids may repeat or be comma separated.
func parseSelection(v url.Values) (core.Selection, error) {
	mode, err := core.ParseSelectionMode(v.Get(paramSelectionMode))
	if err != nil {
		return core.Selection{}, err
	}
	if mode == core.SelectByFilter {
		return core.FilterSelection(parseFilter(v)), nil
	}

	raw := append(append([]string{}, v[paramSelectItem]...), v[paramIDs]...)
	ids, err := core.ParseIDs(raw)
	if err != nil {
		return core.Selection{}, err
	}
	return core.IDSelection(ids...), nil
}
