// Package tables declares the entity shapes served by the engine, their
// field schemas and the loaders that seed them.
package tables

import (
	"strconv"

	"github.com/JonMunkholm/tablekit/internal/core"
)

// UsersKey is the registry key of the users table.
const UsersKey = "users"

// User is one entry of the users directory.
type User struct {
	ID    int64  `yaml:"id" json:"id" db:"id"`
	Name  string `yaml:"name" json:"name" db:"name"`
	Email string `yaml:"email" json:"email" db:"email"`
	Role  string `yaml:"role" json:"role" db:"role"`
}

func userID(u User) int64 { return u.ID }

// UserSchema is the field table for User. Selectors are case-sensitive.
var UserSchema = core.Schema[User]{
	IDField: "id",
	ID:      userID,
	Fields: []core.Field[User]{
		{
			Name:    "id",
			Label:   "ID",
			Value:   func(u User) string { return strconv.FormatInt(u.ID, 10) },
			Compare: core.IDCompare(userID),
		},
		{Name: "name", Label: "Name", Value: func(u User) string { return u.Name }, Searchable: true},
		{Name: "email", Label: "Email", Value: func(u User) string { return u.Email }, Searchable: true},
		{Name: "role", Label: "Role", Value: func(u User) string { return u.Role }, Searchable: true},
	},
}

// UsersInfo is the display information of the users table.
var UsersInfo = core.TableInfo{
	Key:   UsersKey,
	Group: "Directory",
	Label: "Users",
}

// DefaultUsers returns the built-in seed: 21 users, ids 1 to 21.
func DefaultUsers() []User {
	users := []User{
		{1, "Alice Johnson", "alice@example.com", "Admin"},
		{2, "Bob Smith", "bob@example.com", "User"},
		{3, "Carol White", "carol@example.com", "User"},
		{4, "David Brown", "david@example.com", "Moderator"},
		{5, "Eve Davis", "eve@example.com", "User"},
		{6, "Frank Miller", "frank@example.com", "User"},
		{7, "Grace Lee", "grace@example.com", "Admin"},
		{8, "Henry Wilson", "henry@example.com", "User"},
		{9, "Ivy Chen", "ivy@example.com", "Moderator"},
		{10, "Jack Taylor", "jack@example.com", "User"},
		{11, "Karen Adams", "karen@example.com", "User"},
	}
	for id := int64(12); id <= 21; id++ {
		users = append(users, User{id, "Leo Martinez", "leo@example.com", "User"})
	}
	return users
}

// NewUsers creates the users collection without registering it.
func NewUsers(users []User) *core.Collection[User] {
	return core.NewCollection(UsersInfo, UserSchema, users)
}

// RegisterUsers creates the users collection seeded with users and adds it
// to reg.
func RegisterUsers(reg *core.Registry, users []User) *core.Collection[User] {
	c := NewUsers(users)
	reg.Register(c)
	return c
}
