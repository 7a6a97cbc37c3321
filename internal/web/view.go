package web

import (
	"slices"

	"github.com/JonMunkholm/tablekit/internal/core"
	"github.com/JonMunkholm/tablekit/internal/table"
	"github.com/JonMunkholm/tablekit/internal/web/templates"
)

func tablePageURL(key string) string { return "/tables/" + key }
func fragmentURL(key string) string  { return "/tables/" + key + "/table" }
func exportURL(key string) string    { return "/api/tables/" + key + "/export" }

// viewConfig derives the display config of a table from its info.
func (s *Server) viewConfig(info core.TableInfo) table.Config {
	columns := make([]table.Column, len(info.Columns))
	for i, field := range info.Columns {
		label := field
		if i < len(info.Labels) {
			label = info.Labels[i]
		}
		columns[i] = table.Column{Field: field, Label: label}
	}

	base := fragmentURL(info.Key)
	actions := []table.ToolbarAction{
		{
			Key:            "delete",
			Label:          "Delete",
			Icon:           "trash",
			URL:            base,
			Method:         "DELETE",
			Confirm:        true,
			SelectionBased: true,
			ShowLabel:      true,
		},
		{Key: "export", Label: "Export CSV", Icon: "download", URL: exportURL(info.Key), Method: "GET"},
		{Key: "refresh", Label: "Refresh", Icon: "refresh", URL: base, Method: "GET"},
	}

	cfg := table.NewConfig(base, columns, info.IDField, len(info.Searchable) > 0,
		info.Searchable, true, actions)
	cfg.PageSizeOptions = s.pageSizeOptions(cfg.PageSizeOptions)
	return cfg
}

// pageSizeOptions drops options above the maximum and makes sure the
// default size is offered.
func (s *Server) pageSizeOptions(options []int) []int {
	out := slices.DeleteFunc(options, func(n int) bool { return n > s.cfg.Table.MaxPageSize })
	if !slices.Contains(out, s.cfg.Table.DefaultPageSize) {
		out = append(out, s.cfg.Table.DefaultPageSize)
		slices.Sort(out)
	}
	return out
}

func (s *Server) tableView(info core.TableInfo, state table.State[core.TableRow]) templates.TableView {
	return templates.TableView{
		Title:     info.Label,
		Config:    s.viewConfig(info),
		State:     state,
		ExportURL: exportURL(info.Key),
	}
}
