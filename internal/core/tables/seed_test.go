package tables

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/tablekit/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedYAML = `
users:
  - {id: 3, name: Carol White, email: carol@example.com, role: User}
  - {id: 1, name: Alice Johnson, email: alice@example.com, role: Admin}
`

func TestLoadUsersYAML(t *testing.T) {
	users, err := LoadUsersYAML(strings.NewReader(seedYAML))
	require.NoError(t, err)
	assert.Equal(t, []User{
		{ID: 3, Name: "Carol White", Email: "carol@example.com", Role: "User"},
		{ID: 1, Name: "Alice Johnson", Email: "alice@example.com", Role: "Admin"},
	}, users)
}

func TestLoadUsersYAML_Empty(t *testing.T) {
	users, err := LoadUsersYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.NotNil(t, users)
}

func TestLoadUsersYAML_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"duplicate id", "users:\n  - {id: 1, name: A}\n  - {id: 1, name: B}\n"},
		{"zero id", "users:\n  - {id: 0, name: A}\n"},
		{"negative id", "users:\n  - {id: -4, name: A}\n"},
		{"unknown field", "users:\n  - {id: 1, nickname: A}\n"},
		{"not yaml", "users: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadUsersYAML(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSeed)
		})
	}
}

func TestLoadUsersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	users, err := LoadUsersFile(path)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	_, err = LoadUsersFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefaultUsers(t *testing.T) {
	users := DefaultUsers()
	require.Len(t, users, 21)
	for i, u := range users {
		assert.Equal(t, int64(i+1), u.ID)
	}
	require.NoError(t, validateUsers(users))
}

func TestRegisterUsers(t *testing.T) {
	reg := core.NewRegistry()
	c := RegisterUsers(reg, DefaultUsers())

	got, ok := reg.Get(UsersKey)
	require.True(t, ok)
	assert.Same(t, c, got)

	info := c.Info()
	assert.Equal(t, "id", info.IDField)
	assert.Equal(t, []string{"id", "name", "email", "role"}, info.Columns)
	assert.Equal(t, []string{"name", "email", "role"}, info.Searchable)
}

// fakeRows serves fixed rows through the pgx.Rows interface.
type fakeRows struct {
	cols []string
	data [][]any
	pos  int
	err  error
}

func (r *fakeRows) Close()                        {}
func (r *fakeRows) Err() error                    { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }
func (r *fakeRows) Conn() *pgx.Conn               { return nil }
func (r *fakeRows) RawValues() [][]byte           { return nil }

func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	fds := make([]pgconn.FieldDescription, len(r.cols))
	for i, c := range r.cols {
		fds[i] = pgconn.FieldDescription{Name: c}
	}
	return fds
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Values() ([]any, error) { return r.data[r.pos-1], nil }

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.pos-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: %d targets for %d columns", len(dest), len(row))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int64:
			*p = row[i].(int64)
		case *string:
			*p = row[i].(string)
		default:
			return fmt.Errorf("scan: unsupported target %T", d)
		}
	}
	return nil
}

type fakeQuerier struct {
	rows  *fakeRows
	err   error
	query string
}

func (q *fakeQuerier) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	q.query = sql
	if q.err != nil {
		return nil, q.err
	}
	return q.rows, nil
}

func TestLoadUsersPostgres(t *testing.T) {
	q := &fakeQuerier{rows: &fakeRows{
		cols: []string{"id", "name", "email", "role"},
		data: [][]any{
			{int64(1), "Alice Johnson", "alice@example.com", "Admin"},
			{int64(2), "Bob Smith", "bob@example.com", "User"},
		},
	}}

	users, err := LoadUsersPostgres(context.Background(), q, "directory.users")
	require.NoError(t, err)
	assert.Equal(t, `SELECT id, name, email, role FROM "directory"."users" ORDER BY id`, q.query)
	assert.Equal(t, []User{
		{ID: 1, Name: "Alice Johnson", Email: "alice@example.com", Role: "Admin"},
		{ID: 2, Name: "Bob Smith", Email: "bob@example.com", Role: "User"},
	}, users)
}

func TestLoadUsersPostgres_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := LoadUsersPostgres(ctx, &fakeQuerier{}, "  ")
	assert.ErrorIs(t, err, ErrInvalidSeed)

	boom := errors.New("connection refused")
	_, err = LoadUsersPostgres(ctx, &fakeQuerier{err: boom}, "users")
	assert.ErrorIs(t, err, boom)

	dup := &fakeQuerier{rows: &fakeRows{
		cols: []string{"id", "name", "email", "role"},
		data: [][]any{
			{int64(1), "A", "a@example.com", "User"},
			{int64(1), "B", "b@example.com", "User"},
		},
	}}
	_, err = LoadUsersPostgres(ctx, dup, "users")
	assert.ErrorIs(t, err, ErrInvalidSeed)
}

func TestWriteUsersYAMLRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteUsersYAML(&buf, DefaultUsers()[:3]))

	users, err := LoadUsersYAML(&buf)
	require.NoError(t, err)
	assert.Equal(t, DefaultUsers()[:3], users)
}
