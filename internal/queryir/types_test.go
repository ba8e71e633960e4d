package queryir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperators_LongestFirst(t *testing.T) {
	// An operator must never be preceded by one of its own substrings.
	for i, op := range Operators {
		for _, earlier := range Operators[:i] {
			assert.NotContains(t, op.String(), earlier.String(),
				"%s is listed after its substring %s", op, earlier)
		}
	}
	assert.Len(t, Operators, 9)
}

func TestParseOperator(t *testing.T) {
	for _, op := range Operators {
		got, ok := ParseOperator(op.String())
		require.True(t, ok, op.String())
		assert.Equal(t, op, got)
	}

	_, ok := ParseOperator("=>")
	assert.False(t, ok)
	_, ok = ParseOperator("")
	assert.False(t, ok)
}

func TestOperator_IsOrdering(t *testing.T) {
	assert.True(t, Greater.IsOrdering())
	assert.True(t, LessEqual.IsOrdering())
	assert.False(t, Contains.IsOrdering())
	assert.False(t, Regex.IsOrdering())
	assert.False(t, Operator(0).Valid())
}

func TestParseDirection(t *testing.T) {
	d, ok := ParseDirection("desc")
	require.True(t, ok)
	assert.Equal(t, Desc, d)

	d, ok = ParseDirection("Asc")
	require.True(t, ok)
	assert.Equal(t, Asc, d)

	_, ok = ParseDirection("descending")
	assert.False(t, ok)
}

func TestParsedQuery_MatchesAll(t *testing.T) {
	assert.True(t, ParsedQuery{}.MatchesAll())
	assert.True(t, ParsedQuery{OrderBy: &OrderBy{Field: "age", Direction: Asc}}.MatchesAll())
	assert.False(t, ParsedQuery{OrGroups: []OrGroup{{FreeText{Value: "x"}}}}.MatchesAll())
}

func TestParsedQuery_String(t *testing.T) {
	q := ParsedQuery{
		OrGroups: []OrGroup{
			{Comparison{Field: "city", Operator: Contains, Value: "Berlin"}, Comparison{Field: "age", Operator: Less, Value: "40"}},
			{IsEmpty{Field: "email"}},
		},
		OrderBy: &OrderBy{Field: "age", Direction: Desc},
	}
	assert.Equal(t, "(city:Berlin AND age<40) OR email is empty ORDER BY age DESC", q.String())
	assert.Equal(t, "<all>", ParsedQuery{}.String())
}

func TestParsedQuery_Fields(t *testing.T) {
	q := ParsedQuery{
		OrGroups: []OrGroup{
			{Comparison{Field: "age", Operator: Greater, Value: "1"}, FreeText{Value: "bob"}},
			{IsNotEmpty{Field: "email"}, Comparison{Field: "age", Operator: Less, Value: "9"}},
		},
		OrderBy: &OrderBy{Field: "name", Direction: Asc},
	}
	assert.Equal(t, []string{"age", "email", "name"}, q.Fields())
}

func TestParsedQuery_JSON(t *testing.T) {
	q := ParsedQuery{
		OrGroups: []OrGroup{
			{Comparison{Field: "age", Operator: GreaterEqual, Value: "30"}, FreeText{Value: "berlin"}},
			{IsEmpty{Field: "a"}, IsNotEmpty{Field: "b"}},
		},
		OrderBy: &OrderBy{Field: "age", Direction: Desc},
	}

	data, err := json.Marshal(q)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"or_groups": [
			[{"kind":"comparison","field":"age","operator":">=","value":"30"},{"kind":"free_text","value":"berlin"}],
			[{"kind":"is_empty","field":"a"},{"kind":"is_not_empty","field":"b"}]
		],
		"order_by": {"field":"age","direction":"DESC"}
	}`, string(data))
}

func TestParsedQuery_JSONOmitsOrderBy(t *testing.T) {
	data, err := json.Marshal(ParsedQuery{OrGroups: []OrGroup{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"or_groups":[]}`, string(data))
}
