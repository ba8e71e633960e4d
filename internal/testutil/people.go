// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"github.com/roach88/sift/internal/record"
	"github.com/roach88/sift/internal/schema"
)

// PeopleColumns is the column order of the people table.
var PeopleColumns = []string{"id", "name", "age", "city", "created", "active"}

// People returns a fresh copy of the people table. Values are text, the way
// a scraped table delivers them, except id which is numeric.
func People() []record.Row {
	return []record.Row{
		record.MustRow(map[string]any{
			"id": 1, "name": "Alice", "age": "30", "city": "Berlin",
			"created": "2026-01-01", "active": "true",
		}),
		record.MustRow(map[string]any{
			"id": 2, "name": "Bob", "age": "22", "city": "Munich",
			"created": "2024-01-25", "active": "true",
		}),
		record.MustRow(map[string]any{
			"id": 3, "name": "Cara", "age": "40", "city": "Berlin",
			"created": "2025-06-01", "active": "false",
		}),
	}
}

// PeopleTypes returns the declared types of the people table.
func PeopleTypes() *schema.TypeMap {
	return schema.NewTypeMap(
		schema.Field{Name: "id", Type: schema.Number},
		schema.Field{Name: "name", Type: schema.String},
		schema.Field{Name: "age", Type: schema.Number},
		schema.Field{Name: "city", Type: schema.String},
		schema.Field{Name: "created", Type: schema.Date},
		schema.Field{Name: "active", Type: schema.Boolean},
	)
}

// IDs extracts the id field of each row as float64, for compact assertions.
func IDs(rows []record.Row) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		if n, ok := r.Get("id").(record.Number); ok {
			out[i] = float64(n)
		}
	}
	return out
}

// Numbers converts identifier values to float64. Non-numeric ids become -1.
func Numbers(ids []record.Value) []float64 {
	out := make([]float64, len(ids))
	for i, v := range ids {
		n, ok := v.(record.Number)
		if !ok {
			out[i] = -1
			continue
		}
		out[i] = float64(n)
	}
	return out
}
