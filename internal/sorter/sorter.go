// Package sorter orders rows by one field under that field's type.
//
// NaN keys (unparsable numbers and dates) sit between valid keys and nulls,
// so in ascending order they sink to the end just ahead of empty values.
package sorter

import (
	"slices"

	"github.com/roach88/sift/internal/queryir"
	"github.com/roach88/sift/internal/record"
	"github.com/roach88/sift/internal/schema"
)

// tier splits keys into classes compared before values. Within the valid
// tier keys compare by value; invalid and null keys are all equal to their
// own tier.
type tier int

const (
	tierValid   tier = iota
	tierInvalid      // NaN: unparsable dates and numbers
	tierNull
)

type keyed struct {
	row  record.Row
	key  schema.Key
	tier tier
}

// Sort returns rows stably ordered by ob. The input slice is not modified.
//
// In ascending order valid keys come first, then rows whose value did not
// normalize (invalid dates), then empty values. DESC reverses the whole
// order. Rows with equal keys, and rows in the invalid or empty tiers, keep
// their input order.
func Sort(rows []record.Row, ob queryir.OrderBy, types *schema.TypeMap) []record.Row {
	tag := types.Lookup(ob.Field)

	items := make([]keyed, len(rows))
	for i, row := range rows {
		k := schema.Normalize(row.Get(ob.Field), tag)
		items[i] = keyed{row: row, key: k, tier: tierOf(k)}
	}

	sign := 1
	if ob.Direction == queryir.Desc {
		sign = -1
	}
	slices.SortStableFunc(items, func(a, b keyed) int {
		return sign * compare(a, b)
	})

	out := make([]record.Row, len(items))
	for i, it := range items {
		out[i] = it.row
	}
	return out
}

func tierOf(k schema.Key) tier {
	switch {
	case k.IsNull():
		return tierNull
	case k.IsNaN():
		return tierInvalid
	default:
		return tierValid
	}
}

func compare(a, b keyed) int {
	if a.tier != b.tier {
		if a.tier < b.tier {
			return -1
		}
		return 1
	}
	if a.tier != tierValid {
		return 0
	}
	c, ok := a.key.Compare(b.key)
	if !ok {
		return 0
	}
	return c
}
