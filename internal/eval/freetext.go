package eval

import (
	"strings"

	"github.com/roach88/sift/internal/queryir"
	"github.com/roach88/sift/internal/record"
	"github.com/roach88/sift/internal/schema"
)

// compileFreeText matches a bare term.
//
// A term naming a boolean field (case-insensitively) is that field's value
// and nothing else is consulted. Otherwise fields are scanned in declaration
// order and the first hit wins:
//   - string: folded substring
//   - boolean: the term "true" or "false" equal to the field's value
//   - number, date: lowercased substring of the raw text
//
// A nil type map scans the row's own fields instead; an empty one matches
// nothing.
func (c *compiler) compileFreeText(ft queryir.FreeText) predicate {
	term := strings.ToLower(ft.Value)

	for _, f := range c.types.Fields() {
		if f.Type == schema.Boolean && strings.ToLower(f.Name) == term {
			field := f.Name
			return func(row record.Row) bool {
				return schema.Normalize(row.Get(field), schema.Boolean).Bool()
			}
		}
	}

	folded := schema.FoldText(ft.Value)
	if c.types == nil {
		return func(row record.Row) bool {
			for _, name := range row.SortedKeys() {
				if strings.Contains(schema.FoldText(record.Text(row[name])), folded) {
					return true
				}
			}
			return false
		}
	}

	fields := c.types.Fields()
	return func(row record.Row) bool {
		for _, f := range fields {
			if freeTextField(row.Get(f.Name), f.Type, term, folded) {
				return true
			}
		}
		return false
	}
}

func freeTextField(v record.Value, tag schema.TypeTag, term, folded string) bool {
	switch tag {
	case schema.String:
		return strings.Contains(schema.FoldText(record.Text(v)), folded)
	case schema.Boolean:
		k := schema.Normalize(v, schema.Boolean)
		if k.IsNull() {
			return false
		}
		return (term == "true" && k.Bool()) || (term == "false" && !k.Bool())
	case schema.Number, schema.Date:
		if record.IsNull(v) {
			return false
		}
		return strings.Contains(strings.ToLower(record.Text(v)), term)
	default:
		return false
	}
}
