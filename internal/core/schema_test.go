package core

import (
	"strings"
	"testing"
)

type item struct {
	id   int64
	name string
}

func itemID(i item) int64 { return i.id }

func itemSchema() Schema[item] {
	return Schema[item]{
		IDField: "id",
		ID:      itemID,
		Fields: []Field[item]{
			{Name: "id", Label: "ID", Value: func(i item) string { return "" }, Compare: IDCompare(itemID)},
			{Name: "name", Label: "Name", Value: func(i item) string { return i.name }, Searchable: true},
		},
	}
}

func TestSchemaValidate(t *testing.T) {
	valid := itemSchema()
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Schema[item])
		wantErr string
	}{
		{"missing id accessor", func(s *Schema[item]) { s.ID = nil }, "missing id accessor"},
		{"undeclared id field", func(s *Schema[item]) { s.IDField = "key" }, "is not declared"},
		{"empty field name", func(s *Schema[item]) { s.Fields[1].Name = "" }, "empty name"},
		{"missing value", func(s *Schema[item]) { s.Fields[1].Value = nil }, "no value accessor"},
		{"duplicate field", func(s *Schema[item]) { s.Fields[1].Name = "id" }, "duplicate field"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := itemSchema()
			tt.mutate(&s)
			err := s.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestSchemaComparator(t *testing.T) {
	s := itemSchema()
	a, b := item{1, "beta"}, item{2, "alpha"}

	tests := []struct {
		sort SortSpec
		want int
	}{
		{SortSpec{Field: "id", Ascending: true}, -1},
		{SortSpec{Field: "id", Ascending: false}, 1},
		{SortSpec{Field: "name", Ascending: true}, 1},
		{SortSpec{Field: "name", Ascending: false}, -1},
		{SortSpec{Field: "missing", Ascending: true}, -1},
	}
	for _, tt := range tests {
		if got := s.Comparator(tt.sort)(a, b); got != tt.want {
			t.Errorf("Comparator(%+v)(a, b) = %d, want %d", tt.sort, got, tt.want)
		}
	}
	if got := s.Comparator(SortSpec{Field: "name"})(a, a); got != 0 {
		t.Errorf("descending comparator on equal records = %d, want 0", got)
	}
}

func TestSchemaPredicate(t *testing.T) {
	s := itemSchema()
	match := s.Predicate(FilterSpec{Field: "name", Search: "LPH"})

	if !match(item{1, "alpha"}) {
		t.Error("case-insensitive substring did not match")
	}
	if match(item{2, "beta"}) {
		t.Error("predicate matched a record without the substring")
	}
}

func TestNewCollection_PanicsOnInvalidSchema(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewCollection() did not panic on invalid schema")
		}
	}()
	s := itemSchema()
	s.ID = nil
	NewCollection(TableInfo{Key: "items"}, s, nil)
}

func TestNewCollection_FillsInfoFromSchema(t *testing.T) {
	c := NewCollection(TableInfo{Key: "items"}, itemSchema(), []item{{1, "a"}})
	info := c.Info()

	if info.IDField != "id" {
		t.Errorf("IDField = %q", info.IDField)
	}
	if strings.Join(info.Columns, ",") != "id,name" || strings.Join(info.Labels, ",") != "ID,Name" {
		t.Errorf("Columns = %v, Labels = %v", info.Columns, info.Labels)
	}
	if strings.Join(info.Searchable, ",") != "name" {
		t.Errorf("Searchable = %v", info.Searchable)
	}
}
