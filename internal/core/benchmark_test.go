package core_test

import (
	"fmt"
	"testing"

	"github.com/JonMunkholm/tablekit/internal/core"
	"github.com/JonMunkholm/tablekit/internal/core/tables"
	"github.com/JonMunkholm/tablekit/internal/table"
)

// ============================================================================
// Query Benchmarks
// ============================================================================

// largeUsers builds n users cycling through a few roles and names so
// filters match a predictable share.
func largeUsers(n int) []tables.User {
	roles := []string{"Admin", "User", "User", "Moderator"}
	users := make([]tables.User, n)
	for i := range users {
		id := int64(i + 1)
		users[i] = tables.User{
			ID:    id,
			Name:  fmt.Sprintf("User %05d", n-i),
			Email: fmt.Sprintf("user%d@example.com", id),
			Role:  roles[i%len(roles)],
		}
	}
	return users
}

// BenchmarkFind_FirstPage benchmarks the default view: no filter, id order.
func BenchmarkFind_FirstPage(b *testing.B) {
	c := tables.NewUsers(largeUsers(10_000))
	req := table.PageRequest{Number: 1, Size: 25}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Find(core.FilterSpec{}, core.SortSpec{Field: "id", Ascending: true}, req); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkFind_FilterAndSort benchmarks a filtered view sorted by a
// text field, the most expensive find.
func BenchmarkFind_FilterAndSort(b *testing.B) {
	c := tables.NewUsers(largeUsers(10_000))
	filter := core.FilterSpec{Field: "role", Search: "user"}
	sort := core.SortSpec{Field: "name", Ascending: false}
	req := table.PageRequest{Number: 3, Size: 50}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Find(filter, sort, req); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkCountMatching benchmarks counting for the selection toolbar.
func BenchmarkCountMatching(b *testing.B) {
	c := tables.NewUsers(largeUsers(10_000))
	filter := core.FilterSpec{Field: "email", Search: "99"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.CountMatching(filter)
	}
}

// BenchmarkFindRows benchmarks a page rendered as TableRows, which is what
// the web handlers serve.
func BenchmarkFindRows(b *testing.B) {
	c := tables.NewUsers(largeUsers(10_000))
	q := core.Query{
		Sort: core.SortSpec{Field: "email", Ascending: true},
		Page: table.PageRequest{Number: 1, Size: 100},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.FindRows(q); err != nil {
			b.Fatal(err)
		}
	}
}

// ============================================================================
// Mutation Benchmarks
// ============================================================================

// BenchmarkDeleteByIDs benchmarks a bulk id delete against a fresh
// collection each iteration.
func BenchmarkDeleteByIDs(b *testing.B) {
	users := largeUsers(10_000)
	ids := make([]int64, 0, 100)
	for id := int64(1); id <= 10_000; id += 100 {
		ids = append(ids, id)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		c := tables.NewUsers(users)
		b.StartTimer()

		if n := c.DeleteByIDs(ids); n != len(ids) {
			b.Fatalf("deleted %d, want %d", n, len(ids))
		}
	}
}

// BenchmarkDeleteByFilter benchmarks a filter delete removing a quarter of
// the records.
func BenchmarkDeleteByFilter(b *testing.B) {
	users := largeUsers(10_000)
	filter := core.FilterSpec{Field: "role", Search: "admin"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		c := tables.NewUsers(users)
		b.StartTimer()

		c.DeleteByFilter(filter)
	}
}

// BenchmarkFind_Parallel benchmarks readers running against one snapshot.
func BenchmarkFind_Parallel(b *testing.B) {
	c := tables.NewUsers(largeUsers(10_000))
	filter := core.FilterSpec{Field: "name", Search: "00"}
	sort := core.SortSpec{Field: "name", Ascending: true}
	req := table.PageRequest{Number: 1, Size: 25}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := c.Find(filter, sort, req); err != nil {
				b.Error(err)
				return
			}
		}
	})
}
