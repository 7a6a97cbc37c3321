package templates

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/tablekit/internal/core"
	"github.com/JonMunkholm/tablekit/internal/table"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func testView(rows []core.TableRow, req table.PageRequest, total int64) TableView {
	cfg := table.NewConfig("/tables/users/table",
		[]table.Column{{Field: "id", Label: "ID"}, {Field: "name", Label: "Name"}},
		"id", true, []string{"name"}, true,
		[]table.ToolbarAction{
			{Key: "delete", Label: "Delete", URL: "/tables/users/table", Method: "DELETE", Confirm: true, SelectionBased: true},
			{Key: "export", Label: "Export CSV", URL: "/api/tables/users/export", Method: "GET"},
		})
	return TableView{
		Title:  "Users",
		Config: cfg,
		State: table.State[core.TableRow]{
			Page:      table.NewPage(rows, req, total),
			SortBy:    "name",
			Ascending: true,
		},
		ExportURL: "/api/tables/users/export",
	}
}

func TestTableFragmentEscapesValues(t *testing.T) {
	view := testView([]core.TableRow{{"id": "1", "name": `<script>alert("x")</script>`}},
		table.PageRequest{Number: 1, Size: 5}, 1)

	out := renderString(t, TableFragment(view))
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, `hx-delete="/tables/users/table/1"`)
	assert.Contains(t, out, `aria-sort="ascending"`)
}

func TestTableFragmentEmpty(t *testing.T) {
	out := renderString(t, TableFragment(testView(nil, table.PageRequest{Number: 1, Size: 5}, 0)))
	assert.Contains(t, out, "No records found")
	assert.Contains(t, out, "0-0 of 0")
}

func TestTableFragmentActions(t *testing.T) {
	out := renderString(t, TableFragment(testView(nil, table.PageRequest{Number: 1, Size: 5}, 0)))
	assert.Contains(t, out, `hx-get="/tables/users/table/confirm"`)
	assert.Contains(t, out, `<a href="/api/tables/users/export?`)
	assert.Contains(t, out, `name="selectionMode"`)
}

func TestPaginationWindow(t *testing.T) {
	rows := make([]core.TableRow, 5)
	for i := range rows {
		rows[i] = core.TableRow{"id": "x"}
	}
	out := renderString(t, TableFragment(testView(rows, table.PageRequest{Number: 6, Size: 5}, 100)))
	assert.Contains(t, out, "26-30 of 100")
	assert.Contains(t, out, `aria-current="page"`)
	for _, n := range []string{">4<", ">5<", ">6<", ">7<", ">8<"} {
		assert.Contains(t, out, n)
	}
	assert.NotContains(t, out, ">3</button>")
	assert.NotContains(t, out, ">9</button>")
}

func TestDeleteConfirm(t *testing.T) {
	out := renderString(t, DeleteConfirm(DeleteConfirmParams{
		DeleteURL: "/tables/users/table",
		Preview:   core.DeletePreview{Count: 2},
		IDs:       []int64{3, 8},
	}))
	assert.Contains(t, out, "Delete 2 selected items?")
	assert.Equal(t, 2, strings.Count(out, `name="select-item"`))
	assert.NotContains(t, out, "confirmToken")

	out = renderString(t, DeleteConfirm(DeleteConfirmParams{
		DeleteURL:    "/tables/users/table",
		Preview:      core.DeletePreview{Count: 21, FilterMode: true, MatchesAll: true},
		ConfirmToken: "tok",
	}))
	assert.Contains(t, out, "empties the table")
	assert.Contains(t, out, `name="confirmToken" value="tok"`)
	assert.Contains(t, out, `value="filter"`)

	out = renderString(t, DeleteConfirm(DeleteConfirmParams{DeleteURL: "/x"}))
	assert.Contains(t, out, "Nothing is selected.")
	assert.Contains(t, out, "disabled")
}

func TestErrorAlert(t *testing.T) {
	out := renderString(t, ErrorAlert("Table not found", "", "TBL001"))
	assert.Contains(t, out, `role="alert"`)
	assert.Contains(t, out, "Code: TBL001")
	assert.NotContains(t, out, "<p>")
}

func TestComponentsHaveTemplSources(t *testing.T) {
	sources := map[string][]string{
		"layout.templ":  {"Layout", "TableIndex"},
		"errors.templ":  {"ErrorAlert"},
		"confirm.templ": {"DeleteConfirm"},
		"table.templ":   {"TablePage", "TableFragment"},
	}
	for file, components := range sources {
		data, err := os.ReadFile(file)
		require.NoError(t, err, file)
		for _, name := range components {
			assert.Contains(t, string(data), "templ "+name+"(", "%s declares %s", file, name)
		}
	}
}
