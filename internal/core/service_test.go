package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/tablekit/internal/core"
	"github.com/JonMunkholm/tablekit/internal/core/tables"
	"github.com/JonMunkholm/tablekit/internal/table"
)

func newService(t *testing.T) *core.Service {
	t.Helper()
	reg := core.NewRegistry()
	tables.RegisterUsers(reg, tables.DefaultUsers())
	return core.NewService(reg)
}

func TestService_Find(t *testing.T) {
	svc := newService(t)

	state, err := svc.Find(context.Background(), tables.UsersKey, core.Query{
		Filter: core.FilterSpec{Field: "role", Search: "admin"},
		Sort:   core.SortSpec{Field: "bogus", Ascending: true},
		Page:   table.PageRequest{Number: 1, Size: 5},
	})
	require.NoError(t, err)

	assert.Equal(t, "id", state.SortBy, "unknown sort field resolves to id")
	assert.True(t, state.Ascending)
	assert.Equal(t, "admin", state.SearchTerm)
	assert.Equal(t, "role", state.SearchField)
	assert.EqualValues(t, 2, state.Page.TotalItems)
	assert.Equal(t, "1", state.Page.Items[0]["id"])
}

func TestService_UnknownTable(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Find(ctx, "orders", core.Query{Page: table.PageRequest{Number: 1, Size: 5}})
	assert.ErrorIs(t, err, core.ErrUnknownTable)

	_, err = svc.CountMatching(ctx, "orders", core.FilterSpec{})
	assert.ErrorIs(t, err, core.ErrUnknownTable)

	_, err = svc.Delete(ctx, "orders", core.IDSelection(1))
	assert.ErrorIs(t, err, core.ErrUnknownTable)
}

func TestService_FindInvalidPage(t *testing.T) {
	svc := newService(t)

	_, err := svc.Find(context.Background(), tables.UsersKey, core.Query{Page: table.PageRequest{Number: 0, Size: 5}})
	assert.ErrorIs(t, err, table.ErrInvalidPage)
	assert.Equal(t, "PAGE001", core.MapError(err).Code)
}

func TestService_DeleteWritesAudit(t *testing.T) {
	svc := newService(t)
	ctx := core.ContextWithRequestMeta(context.Background(), core.RequestMeta{
		IPAddress: "203.0.113.9",
		UserAgent: "test-agent",
	})

	n, err := svc.DeleteOne(ctx, tables.UsersKey, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = svc.Delete(ctx, tables.UsersKey, core.IDSelection(4, 5, 404))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = svc.Delete(ctx, tables.UsersKey, core.FilterSelection(core.FilterSpec{Field: "name", Search: "leo"}))
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	n, err = svc.Delete(ctx, tables.UsersKey, core.FilterSelection(core.FilterSpec{Field: "role"}))
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	entries := svc.AuditLog(tables.UsersKey, 0)
	require.Len(t, entries, 4)

	assert.Equal(t, core.ActionTableClear, entries[0].Action)
	assert.Equal(t, core.SeverityCritical, entries[0].Severity)
	assert.Equal(t, 8, entries[0].RowsAffected)

	assert.Equal(t, core.ActionBulkDeleteView, entries[1].Action)
	assert.Equal(t, "leo", entries[1].Search)

	assert.Equal(t, core.ActionBulkDeleteIDs, entries[2].Action)
	assert.Equal(t, []int64{4, 5, 404}, entries[2].RowKeys)
	assert.Equal(t, 2, entries[2].RowsAffected)

	assert.Equal(t, core.ActionRowDelete, entries[3].Action)
	assert.Equal(t, "203.0.113.9", entries[3].IPAddress)
	assert.Equal(t, "test-agent", entries[3].UserAgent)
}

func TestService_DeleteOfNothingSkipsAudit(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	n, err := svc.DeleteOne(ctx, tables.UsersKey, 404)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = svc.Delete(ctx, tables.UsersKey, core.IDSelection())
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = svc.Delete(ctx, tables.UsersKey, core.IDSelection(500, 501))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = svc.Delete(ctx, tables.UsersKey, core.FilterSelection(core.FilterSpec{Field: "name", Search: "zzz"}))
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.Empty(t, svc.AuditLog(tables.UsersKey, 0))

	n, err = svc.DeleteOne(ctx, tables.UsersKey, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, svc.AuditLog(tables.UsersKey, 0), 1)
}

func TestService_ExportHoldsSlotUntilWritten(t *testing.T) {
	reg := core.NewRegistry()
	tables.RegisterUsers(reg, tables.DefaultUsers())
	svc := core.NewService(reg, core.WithExportLimit(1, 10*time.Millisecond))
	ctx := context.Background()

	err := svc.Export(ctx, tables.UsersKey, core.FilterSpec{}, core.SortSpec{Field: "id", Ascending: true},
		func(core.TableInfo, []core.TableRow) error {
			assert.Equal(t, 1, svc.ExportStatus().Active)

			// A second export cannot start while this one is still writing.
			err := svc.Export(ctx, tables.UsersKey, core.FilterSpec{}, core.SortSpec{},
				func(core.TableInfo, []core.TableRow) error { return nil })
			assert.ErrorIs(t, err, core.ErrTooManyExports)
			return nil
		})
	require.NoError(t, err)
	assert.Zero(t, svc.ExportStatus().Active)

	writeErr := errors.New("client went away")
	err = svc.Export(ctx, tables.UsersKey, core.FilterSpec{}, core.SortSpec{},
		func(core.TableInfo, []core.TableRow) error { return writeErr })
	assert.ErrorIs(t, err, writeErr)
	assert.Zero(t, svc.ExportStatus().Active)
}

func TestService_DeleteInvalidSelection(t *testing.T) {
	svc := newService(t)

	_, err := svc.Delete(context.Background(), tables.UsersKey, core.Selection{Mode: "everything"})
	assert.True(t, errors.Is(err, core.ErrInvalidSelection))

	_, err = svc.Preview(context.Background(), tables.UsersKey, core.Selection{Mode: "everything"})
	assert.ErrorIs(t, err, core.ErrInvalidSelection)

	assert.Empty(t, svc.AuditLog("", 0))
}

func TestService_RequiresConfirmation(t *testing.T) {
	svc := newService(t)

	tests := []struct {
		name string
		sel  core.Selection
		want bool
	}{
		{"ids", core.IDSelection(1), false},
		{"narrow filter", core.FilterSelection(core.FilterSpec{Field: "role", Search: "admin"}), false},
		{"blank search", core.FilterSelection(core.FilterSpec{Field: "role"}), true},
		{"unknown field", core.FilterSelection(core.FilterSpec{Field: "nope", Search: "x"}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.RequiresConfirmation(tables.UsersKey, tt.sel)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := svc.RequiresConfirmation("orders", core.IDSelection(1))
	assert.ErrorIs(t, err, core.ErrUnknownTable)
}

func TestService_CountPreviewExport(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	f := core.FilterSpec{Field: "role", Search: "moderator"}

	n, err := svc.CountMatching(ctx, tables.UsersKey, f)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	p, err := svc.Preview(ctx, tables.UsersKey, core.FilterSelection(f))
	require.NoError(t, err)
	assert.Equal(t, 2, p.Count)
	assert.True(t, p.HasFilter)

	var (
		info core.TableInfo
		rows []core.TableRow
	)
	err = svc.Export(ctx, tables.UsersKey, f, core.SortSpec{Field: "id", Ascending: false},
		func(i core.TableInfo, r []core.TableRow) error {
			info, rows = i, r
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "email", "role"}, info.Columns)
	require.Len(t, rows, 2)
	assert.Equal(t, "9", rows[0]["id"])
	assert.Equal(t, "4", rows[1]["id"])
}

func TestService_ListTables(t *testing.T) {
	svc := newService(t)

	infos := svc.ListTables()
	require.Len(t, infos, 1)
	assert.Equal(t, tables.UsersKey, infos[0].Key)

	groups := svc.ListTablesByGroup()
	assert.Len(t, groups["Directory"], 1)
}
