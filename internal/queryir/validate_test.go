package queryir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sift/internal/schema"
)

func peopleTypes() *schema.TypeMap {
	return schema.NewTypeMap(
		schema.Field{Name: "id", Type: schema.Number},
		schema.Field{Name: "name", Type: schema.String},
		schema.Field{Name: "age", Type: schema.Number},
		schema.Field{Name: "active", Type: schema.Boolean},
	)
}

func TestValidate_CleanQuery(t *testing.T) {
	q := ParsedQuery{
		OrGroups: []OrGroup{
			{Comparison{Field: "age", Operator: GreaterEqual, Value: "30"}, FreeText{Value: "alice"}},
			{Comparison{Field: "name", Operator: Regex, Value: "^B"}},
		},
		OrderBy: &OrderBy{Field: "age", Direction: Desc},
	}

	result := Validate(q, peopleTypes())

	assert.True(t, result.OK)
	assert.Empty(t, result.Warnings)
}

func TestValidate_MatchAll(t *testing.T) {
	result := Validate(ParsedQuery{}, peopleTypes())
	assert.True(t, result.OK)
}

func TestValidate_UnknownField(t *testing.T) {
	q := ParsedQuery{OrGroups: []OrGroup{{Comparison{Field: "salary", Operator: Greater, Value: "1"}}}}

	result := Validate(q, peopleTypes())

	assert.False(t, result.OK)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "unknown field 'salary'")
}

func TestValidate_UnknownFieldInEmptyChecks(t *testing.T) {
	q := ParsedQuery{OrGroups: []OrGroup{{IsEmpty{Field: "x"}, IsNotEmpty{Field: "y"}}}}

	result := Validate(q, peopleTypes())

	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], "'x' in is empty")
	assert.Contains(t, result.Warnings[1], "'y' in is not empty")
}

func TestValidate_MalformedPattern(t *testing.T) {
	q := ParsedQuery{OrGroups: []OrGroup{{Comparison{Field: "name", Operator: Regex, Value: "([a-z"}}}}

	result := Validate(q, peopleTypes())

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "malformed pattern")
}

func TestValidate_RegexOnBoolean(t *testing.T) {
	q := ParsedQuery{OrGroups: []OrGroup{{Comparison{Field: "active", Operator: Regex, Value: "tr"}}}}

	result := Validate(q, peopleTypes())

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "boolean")
}

func TestValidate_OrderingOnBoolean(t *testing.T) {
	q := ParsedQuery{OrGroups: []OrGroup{{Comparison{Field: "active", Operator: Greater, Value: "false"}}}}

	result := Validate(q, peopleTypes())

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "orders false before true")
}

func TestValidate_OrderByUnknown(t *testing.T) {
	q := ParsedQuery{OrderBy: &OrderBy{Field: "height", Direction: Asc}}

	result := Validate(q, peopleTypes())

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "ORDER BY")
}

func TestValidate_NilTypesOnlyChecksPatterns(t *testing.T) {
	q := ParsedQuery{
		OrGroups: []OrGroup{{
			Comparison{Field: "anything", Operator: Equal, Value: "1"},
			Comparison{Field: "other", Operator: Regex, Value: "*"},
		}},
		OrderBy: &OrderBy{Field: "nowhere", Direction: Asc},
	}

	result := Validate(q, nil)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "malformed pattern")
}

func TestValidate_EmptyGroup(t *testing.T) {
	result := Validate(ParsedQuery{OrGroups: []OrGroup{{}}}, nil)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "empty OR group")
}
