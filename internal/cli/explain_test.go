package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExplain_Text(t *testing.T) {
	out, _, err := execute(t, "explain", "city:Berlin age >= 30 OR name~=^B ORDER BY age DESC")
	require.NoError(t, err)

	assert.Contains(t, out, `Tokens: ["city:Berlin" "age" ">=" "30" "OR" "name~=^B" "ORDER" "BY" "age" "DESC"]`)
	assert.Contains(t, out, "Query:  (city:Berlin AND age>=30) OR name~=^B ORDER BY age DESC")
	assert.Contains(t, out, "Group 1:\n  city:Berlin\n  age>=30\n")
	assert.Contains(t, out, "Group 2:\n  name~=^B\n")
	assert.Contains(t, out, "Order:  age DESC")
}

func TestExplain_JoinsArguments(t *testing.T) {
	out, _, err := execute(t, "explain", "age", ">=", "30")
	require.NoError(t, err)
	assert.Contains(t, out, "Query:  age>=30")
}

func TestExplain_OrderOnly(t *testing.T) {
	out, _, err := execute(t, "explain", "ORDER BY name")
	require.NoError(t, err)
	assert.Contains(t, out, "Filter: matches every row")
	assert.Contains(t, out, "Order:  name ASC")
}

func TestExplain_JSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "explain", `note:"two words" email is empty`)
	require.NoError(t, err)

	var data struct {
		Text   string   `json:"text"`
		Tokens []string `json:"tokens"`
		Query  struct {
			OrGroups [][]map[string]any `json:"or_groups"`
			OrderBy  map[string]any     `json:"order_by"`
		} `json:"query"`
	}
	resp := decodeResponse(t, out, &data)

	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, []string{"note:two words", "email", "is", "empty"}, data.Tokens)
	require.Len(t, data.Query.OrGroups, 1)
	group := data.Query.OrGroups[0]
	require.Len(t, group, 2)
	assert.Equal(t, "comparison", group[0]["kind"])
	assert.Equal(t, "two words", group[0]["value"])
	assert.Equal(t, "is_empty", group[1]["kind"])
	assert.Equal(t, "email", group[1]["field"])
	assert.Nil(t, data.Query.OrderBy)
}

func TestExplain_RequiresQuery(t *testing.T) {
	_, _, err := execute(t, "explain")
	require.Error(t, err)
}
