package web

import (
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/tablekit/internal/core"
	"github.com/JonMunkholm/tablekit/internal/logging"
	"github.com/JonMunkholm/tablekit/internal/table"
	"github.com/JonMunkholm/tablekit/internal/web/templates"
)

// defaultAuditLimit is how many audit entries the API returns by default.
const defaultAuditLimit = 50

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]any{
		"status":  "ok",
		"tables":  len(s.service.ListTables()),
		"exports": s.service.ExportStatus(),
	})
}

// handleIndex redirects to the first registered table.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	tables := s.service.ListTables()
	if len(tables) == 0 {
		s.handleTableIndex(w, r)
		return
	}
	http.Redirect(w, r, tablePageURL(tables[0].Key), http.StatusFound)
}

// handleTableIndex lists every table grouped for navigation.
func (s *Server) handleTableIndex(w http.ResponseWriter, r *http.Request) {
	var groups []string
	for _, info := range s.service.ListTables() {
		if len(groups) == 0 || groups[len(groups)-1] != info.Group {
			groups = append(groups, info.Group)
		}
	}
	render(w, r, templates.TableIndex(groups, s.service.ListTablesByGroup()))
}

// find runs the query in r against the table named in the route.
func (s *Server) find(r *http.Request) (core.TableInfo, table.State[core.TableRow], error) {
	key := chi.URLParam(r, "key")
	t, err := s.service.Table(key)
	if err != nil {
		return core.TableInfo{}, table.State[core.TableRow]{}, err
	}
	state, err := s.service.Find(r.Context(), key, s.parseQuery(r.URL.Query()))
	return t.Info(), state, err
}

func (s *Server) handleTablePage(w http.ResponseWriter, r *http.Request) {
	info, state, err := s.find(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	render(w, r, templates.TablePage(s.tableView(info, state)))
}

// handleTableFragment renders just the table for HTMX swaps. A browser
// landing here directly is sent to the full page with the same query.
func (s *Server) handleTableFragment(w http.ResponseWriter, r *http.Request) {
	if !isHTMX(r) {
		target := tablePageURL(chi.URLParam(r, "key"))
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	info, state, err := s.find(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	render(w, r, templates.TableFragment(s.tableView(info, state)))
}

// handleDeleteConfirm renders the bulk delete dialog for the current
// selection. Deletes that would clear the table get a confirmation token.
func (s *Server) handleDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	sel, err := parseSelection(r.URL.Query())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	preview, err := s.service.Preview(r.Context(), key, sel)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	params := templates.DeleteConfirmParams{
		DeleteURL: fragmentURL(key),
		Preview:   preview,
		IDs:       sel.IDs,
	}
	needs, err := s.service.RequiresConfirmation(key, sel)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if needs && preview.Count > 0 {
		params.ConfirmToken = s.confirms.Issue(key)
	}
	render(w, r, templates.DeleteConfirm(params))
}

func (s *Server) handleDeleteOne(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	id, err := core.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	n, err := s.service.DeleteOne(ctx, key, id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	deleted(w, n)
}

// handleDelete removes the selection. htmx sends DELETE parameters in the
// query string, which is where they are read from.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	v := r.URL.Query()

	sel, err := parseSelection(v)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	needs, err := s.service.RequiresConfirmation(key, sel)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if needs && !s.confirms.Redeem(v.Get(paramConfirmToken), key) {
		s.respondError(w, r, core.ErrConfirmationRequired)
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	n, err := s.service.Delete(ctx, key, sel)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	deleted(w, n)
}

// deleted answers a successful delete and tells the table to reload.
func deleted(w http.ResponseWriter, n int) {
	w.Header().Set("HX-Trigger", templates.RefreshEvent)
	w.Header().Set("X-Deleted-Count", strconv.Itoa(n))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, s.service.ListTables())
}

// RowsResponse is one page of a table as JSON.
type RowsResponse struct {
	Items       []core.TableRow `json:"items"`
	CurrentPage int             `json:"currentPage"`
	PageSize    int             `json:"pageSize"`
	TotalItems  int64           `json:"totalItems"`
	TotalPages  int             `json:"totalPages"`
	SortBy      string          `json:"sortBy"`
	Ascending   bool            `json:"ascending"`
	SearchField string          `json:"searchField,omitempty"`
	Search      string          `json:"search,omitempty"`
}

func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	_, state, err := s.find(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	items := state.Page.Items
	if items == nil {
		items = []core.TableRow{}
	}
	writeJSON(w, r, RowsResponse{
		Items:       items,
		CurrentPage: state.Page.CurrentPage,
		PageSize:    state.Page.PageSize,
		TotalItems:  state.Page.TotalItems,
		TotalPages:  state.Page.TotalPages(),
		SortBy:      state.SortBy,
		Ascending:   state.Ascending,
		SearchField: state.SearchField,
		Search:      state.SearchTerm,
	})
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	n, err := s.service.CountMatching(r.Context(), chi.URLParam(r, "key"), parseFilter(r.URL.Query()))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, map[string]int{"count": n})
}

// handleExport streams the filtered and sorted view as CSV.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	v := r.URL.Query()
	err := s.service.Export(r.Context(), chi.URLParam(r, "key"), parseFilter(v), parseSort(v),
		func(info core.TableInfo, rows []core.TableRow) error {
			w.Header().Set("Content-Type", "text/csv; charset=utf-8")
			w.Header().Set("Content-Disposition", `attachment; filename="`+info.Key+`.csv"`)

			cw := csv.NewWriter(w)
			cw.Write(info.Labels)
			record := make([]string, len(info.Columns))
			for _, row := range rows {
				for i, field := range info.Columns {
					record[i] = row[field]
				}
				cw.Write(record)
			}
			cw.Flush()
			if err := cw.Error(); err != nil {
				logging.ForTable(r.Context(), info.Key).Error("csv export failed", "error", err)
			}
			return nil
		})
	if err != nil {
		s.respondError(w, r, err)
	}
}

// handleAudit returns the newest audit entries for a table.
func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if _, err := s.service.Table(key); err != nil {
		s.respondError(w, r, err)
		return
	}
	limit := intParam(r.URL.Query(), "limit", defaultAuditLimit)
	if limit < 1 {
		limit = defaultAuditLimit
	}
	writeJSON(w, r, s.service.AuditLog(key, limit))
}
