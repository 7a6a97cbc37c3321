package tables

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"gopkg.in/yaml.v3"
)

// ErrInvalidSeed is returned when seed data cannot be used.
var ErrInvalidSeed = errors.New("invalid seed")

// userSeed is the YAML seed file layout:
//
//	users:
//	  - {id: 1, name: Alice Johnson, email: alice@example.com, role: Admin}
type userSeed struct {
	Users []User `yaml:"users"`
}

// LoadUsersYAML reads a users seed document. Ids must be positive and
// unique; record order is preserved.
func LoadUsersYAML(r io.Reader) ([]User, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var seed userSeed
	if err := dec.Decode(&seed); err != nil {
		if errors.Is(err, io.EOF) {
			return []User{}, nil
		}
		return nil, fmt.Errorf("%w: decode yaml: %v", ErrInvalidSeed, err)
	}
	if err := validateUsers(seed.Users); err != nil {
		return nil, err
	}
	if seed.Users == nil {
		seed.Users = []User{}
	}
	return seed.Users, nil
}

// WriteUsersYAML writes users in the seed file layout LoadUsersYAML reads.
func WriteUsersYAML(w io.Writer, users []User) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(userSeed{Users: users}); err != nil {
		return fmt.Errorf("encode seed: %w", err)
	}
	return enc.Close()
}

// LoadUsersFile reads a users seed file from disk.
func LoadUsersFile(path string) ([]User, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", path, err)
	}
	users, err := LoadUsersYAML(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}
	return users, nil
}

func validateUsers(users []User) error {
	seen := make(map[int64]bool, len(users))
	for i, u := range users {
		if u.ID <= 0 {
			return fmt.Errorf("%w: user %d has non-positive id %d", ErrInvalidSeed, i, u.ID)
		}
		if seen[u.ID] {
			return fmt.Errorf("%w: duplicate user id %d", ErrInvalidSeed, u.ID)
		}
		seen[u.ID] = true
	}
	return nil
}

// Querier is the subset of *pgx.Conn and *pgxpool.Pool the Postgres seed
// loader needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// LoadUsersPostgres reads the users seed once from a Postgres table with
// columns id, name, email and role. The table name may be schema
// qualified. Rows are returned in id order.
func LoadUsersPostgres(ctx context.Context, q Querier, table string) ([]User, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return nil, fmt.Errorf("%w: empty seed table name", ErrInvalidSeed)
	}
	ident := pgx.Identifier(strings.Split(table, ".")).Sanitize()

	rows, err := q.Query(ctx, "SELECT id, name, email, role FROM "+ident+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query seed table %s: %w", table, err)
	}
	users, err := pgx.CollectRows(rows, pgx.RowToStructByName[User])
	if err != nil {
		return nil, fmt.Errorf("scan seed table %s: %w", table, err)
	}
	if err := validateUsers(users); err != nil {
		return nil, err
	}
	return users, nil
}
