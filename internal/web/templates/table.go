package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/tablekit/internal/core"
	"github.com/JonMunkholm/tablekit/internal/table"
)

// TableElementID is the id of the element the fragment replaces.
const TableElementID = "jtags-table"

// RefreshEvent is the HX-Trigger event that makes the table reload itself.
const RefreshEvent = "jtags-table-refresh"

// paginationRadius is how many page links are shown either side of the
// current page.
const paginationRadius = 2

// TableView is what the table fragment renders.
type TableView struct {
	Title     string
	Config    table.Config
	State     table.State[core.TableRow]
	ExportURL string
}

// TablePage renders the full page around the table fragment.
func TablePage(view TableView) templ.Component {
	return Layout(view.Title, TableFragment(view))
}

// TableFragment renders the table, its toolbar and pagination. The root
// element reloads itself when RefreshEvent fires.
func TableFragment(view TableView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		cfg := view.Config
		state := view.State

		h.raw(`<div`)
		h.attr("id", TableElementID)
		h.attr("class", "jtags-table")
		h.attr("hx-get", cfg.BaseURL+"?"+state.QueryString(nil))
		h.attr("hx-trigger", RefreshEvent+" from:body")
		h.attr("hx-swap", "outerHTML")
		h.raw(`>`)

		toolbar(h, view)
		grid(h, cfg, state)
		pagination(h, cfg, state.Page, state)

		h.raw(`<div id="jtags-modal"></div></div>`)
		return h.err
	})
}

func toolbar(h *html, view TableView) {
	cfg := view.Config
	state := view.State

	h.raw(`<div class="jtags-toolbar">`)
	if cfg.ShowSearch && len(cfg.SearchableFields) > 0 {
		h.raw(`<form class="jtags-search"`)
		h.attr("hx-get", cfg.BaseURL)
		h.attr("hx-target", "#"+TableElementID)
		h.attr("hx-swap", "outerHTML")
		h.raw(`><select name="searchField">`)
		for _, col := range cfg.Columns {
			if !cfg.IsSearchable(col.Field) {
				continue
			}
			h.raw(`<option`)
			h.attr("value", col.Field)
			h.flag("selected", col.Field == state.SearchField)
			h.raw(`>`)
			h.text(col.Label)
			h.raw(`</option>`)
		}
		h.raw(`</select><input type="search" name="search"`)
		h.attr("value", state.SearchTerm)
		h.raw(` placeholder="Search">`)
		hidden(h, table.ParamSort, state.SortBy)
		hidden(h, table.ParamAscending, strconv.FormatBool(state.Ascending))
		hidden(h, table.ParamSize, strconv.Itoa(state.Page.PageSize))
		h.raw(`<button type="submit">Search</button></form>`)
	}

	h.raw(`<div class="jtags-actions">`)
	if cfg.HasSelectionActions() {
		h.raw(`<select name="selectionMode" aria-label="Apply to"><option value="ids" selected>Selected rows</option><option value="filter">All `)
		h.text(strconv.FormatInt(state.Page.TotalItems, 10))
		h.raw(` matching</option></select>`)
	}
	for _, a := range cfg.ToolbarActions {
		action(h, cfg, view, a)
	}
	h.raw(`</div></div>`)
}

func action(h *html, cfg table.Config, view TableView, a table.ToolbarAction) {
	link := a.Method == "GET" && a.URL == view.ExportURL

	switch {
	case a.SelectionBased && a.Confirm:
		// The confirm endpoint counts the selection and renders the dialog.
		h.raw(`<button type="button"`)
		h.attr("hx-get", a.URL+"/confirm")
		h.attr("hx-include", `[name="select-item"]:checked, [name="selectionMode"], .jtags-search [name="searchField"], .jtags-search [name="search"]`)
		h.attr("hx-target", "#jtags-modal")
		link = false
	case link:
		h.raw(`<a`)
		h.attr("href", a.URL+"?"+view.State.QueryString(nil))
		h.attr("download", "")
	default:
		h.raw(`<button type="button"`)
		h.attr("hx-"+lower(a.Method), a.URL+"?"+view.State.QueryString(nil))
		h.attr("hx-target", "#"+TableElementID)
		h.attr("hx-swap", "outerHTML")
	}
	h.attr("class", "jtags-action jtags-action-"+a.Key)
	h.attr("title", a.Label)
	h.raw(`>`)
	icon(h, cfg.IconBasePath, a.Icon)
	if a.ShowLabel {
		h.raw(`<span>`)
		h.text(a.Label)
		h.raw(`</span>`)
	}
	if link {
		h.raw(`</a>`)
	} else {
		h.raw(`</button>`)
	}
}

func grid(h *html, cfg table.Config, state table.State[core.TableRow]) {
	h.raw(`<table class="jtags-grid"><thead><tr>`)
	if cfg.ShowCheckbox {
		h.raw(`<th class="jtags-select"><input type="checkbox" name="select-all" aria-label="Select all"></th>`)
	}
	for _, col := range cfg.Columns {
		h.raw(`<th`)
		if col.Field == state.SortBy {
			if state.Ascending {
				h.attr("aria-sort", "ascending")
			} else {
				h.attr("aria-sort", "descending")
			}
		}
		h.raw(`><a`)
		h.attr("href", "?"+state.SortLink(col.Field))
		h.attr("hx-get", cfg.BaseURL+"?"+state.SortLink(col.Field))
		h.attr("hx-target", "#"+TableElementID)
		h.attr("hx-swap", "outerHTML")
		h.raw(`>`)
		h.text(col.Label)
		h.raw(`</a></th>`)
	}
	if cfg.ShowCheckbox {
		h.raw(`<th></th>`)
	}
	h.raw(`</tr></thead><tbody>`)

	if state.Page.IsEmpty() {
		span := len(cfg.Columns)
		if cfg.ShowCheckbox {
			span += 2
		}
		h.raw(`<tr class="jtags-empty"><td`)
		h.attr("colspan", strconv.Itoa(span))
		h.raw(`>No records found</td></tr>`)
	}

	for _, row := range state.Page.Items {
		id := row[cfg.IDField]
		h.raw(`<tr`)
		h.attr("data-id", id)
		h.raw(`>`)
		if cfg.ShowCheckbox {
			h.raw(`<td class="jtags-select"><input type="checkbox" name="select-item"`)
			h.attr("value", id)
			h.raw(`></td>`)
		}
		for _, col := range cfg.Columns {
			h.raw(`<td>`)
			h.text(row[col.Field])
			h.raw(`</td>`)
		}
		if cfg.ShowCheckbox {
			h.raw(`<td class="jtags-row-actions"><button type="button"`)
			h.attr("hx-delete", cfg.BaseURL+"/"+id)
			h.attr("hx-confirm", "Delete this item?")
			h.attr("hx-swap", "none")
			h.attr("title", "Delete")
			h.raw(`>`)
			icon(h, cfg.IconBasePath, "trash")
			h.raw(`</button></td>`)
		}
		h.raw(`</tr>`)
	}
	h.raw(`</tbody></table>`)
}

func pagination(h *html, cfg table.Config, page table.Page[core.TableRow], state table.State[core.TableRow]) {
	h.raw(`<nav class="jtags-pagination"><span class="jtags-range">`)
	h.text(strconv.FormatInt(page.FirstItem(), 10) + "-" + strconv.FormatInt(page.LastItem(), 10) +
		" of " + strconv.FormatInt(page.TotalItems, 10))
	h.raw(`</span>`)

	pageButton(h, cfg, state, page.PreviousPage(), "Previous", !page.HasPrevious(), false)
	for _, n := range page.Window(paginationRadius) {
		pageButton(h, cfg, state, n, strconv.Itoa(n), false, n == page.CurrentPage)
	}
	pageButton(h, cfg, state, page.NextPage(), "Next", !page.HasNext(), false)

	h.raw(`<select name="size"`)
	// The select contributes its own size value.
	sizeQuery := state.Values()
	sizeQuery.Del(table.ParamSize)
	sizeQuery.Set(table.ParamPage, "1")
	h.attr("hx-get", cfg.BaseURL+"?"+sizeQuery.Encode())
	h.attr("hx-target", "#"+TableElementID)
	h.attr("hx-swap", "outerHTML")
	h.raw(`>`)
	for _, size := range cfg.PageSizeOptions {
		h.raw(`<option`)
		h.attr("value", strconv.Itoa(size))
		h.flag("selected", size == page.PageSize)
		h.raw(`>`)
		h.text(strconv.Itoa(size))
		h.raw(`</option>`)
	}
	h.raw(`</select></nav>`)
}

func pageButton(h *html, cfg table.Config, state table.State[core.TableRow], n int, label string, disabled, current bool) {
	h.raw(`<button type="button"`)
	h.attr("hx-get", cfg.BaseURL+"?"+state.PageLink(n))
	h.attr("hx-target", "#"+TableElementID)
	h.attr("hx-swap", "outerHTML")
	h.flag("disabled", disabled)
	if current {
		h.attr("aria-current", "page")
	}
	if !cfg.ShowPaginationLabels && (label == "Previous" || label == "Next") {
		h.attr("aria-label", label)
		h.raw(`>`)
		if label == "Previous" {
			icon(h, cfg.IconBasePath, "chevron-left")
		} else {
			icon(h, cfg.IconBasePath, "chevron-right")
		}
		h.raw(`</button>`)
		return
	}
	h.raw(`>`)
	h.text(label)
	h.raw(`</button>`)
}

func icon(h *html, sprite, name string) {
	if name == "" {
		return
	}
	h.raw(`<svg class="jtags-icon" aria-hidden="true"><use`)
	h.attr("href", sprite+"#"+name)
	h.raw(`></use></svg>`)
}

func hidden(h *html, name, value string) {
	h.raw(`<input type="hidden"`)
	h.attr("name", name)
	h.attr("value", value)
	h.raw(`>`)
}

func lower(method string) string {
	switch method {
	case "DELETE":
		return "delete"
	case "POST":
		return "post"
	case "PUT":
		return "put"
	case "PATCH":
		return "patch"
	default:
		return "get"
	}
}
