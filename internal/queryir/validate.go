package queryir

import (
	"fmt"
	"regexp"

	"github.com/roach88/sift/internal/schema"
)

// ValidationResult contains static analysis of a query against a type map.
//
// Queries are always executable: the evaluator degrades every problem listed
// here to a non-match. Warnings exist to tell a user why a query that parses
// fine returns nothing.
type ValidationResult struct {
	// OK is true when there are no warnings.
	OK bool `json:"ok"`

	// Warnings lists the problems found, in query order.
	Warnings []string `json:"warnings"`
}

// Validate checks a parsed query against declared types.
//
// Rules:
//  1. Fields referenced by conditions should be declared in types
//  2. ~= only applies to string, number and date fields
//  3. ~= patterns should compile
//  4. Ordering operators on boolean fields compare false < true only
//  5. ORDER BY should reference a declared field
//
// A nil types map skips the declaration checks (1, 2, 4, 5).
//
// Validate is a pure function with no side effects.
func Validate(q ParsedQuery, types *schema.TypeMap) ValidationResult {
	v := &validator{
		types:    types,
		warnings: []string{},
	}
	for _, g := range q.OrGroups {
		if len(g) == 0 {
			v.addWarning("empty OR group matches every row")
		}
		for _, c := range g {
			v.validateCondition(c)
		}
	}
	if q.OrderBy != nil {
		v.checkDeclared(q.OrderBy.Field, "ORDER BY")
	}

	return ValidationResult{
		OK:       len(v.warnings) == 0,
		Warnings: v.warnings,
	}
}

// validator accumulates warnings during traversal.
type validator struct {
	types    *schema.TypeMap
	warnings []string
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) validateCondition(c Condition) {
	switch cond := c.(type) {
	case Comparison:
		v.validateComparison(cond)
	case IsEmpty:
		v.checkDeclared(cond.Field, "is empty")
	case IsNotEmpty:
		v.checkDeclared(cond.Field, "is not empty")
	case FreeText:
		// Free text matches any field; nothing to check.
	default:
		v.addWarning("unknown condition type %T", c)
	}
}

func (v *validator) validateComparison(c Comparison) {
	if !c.Operator.Valid() {
		v.addWarning("field '%s' uses unknown operator %d", c.Field, int(c.Operator))
		return
	}
	declared := v.checkDeclared(c.Field, c.Operator.String())

	if c.Operator == Regex {
		if _, err := regexp.Compile(c.Value); err != nil {
			v.addWarning("field '%s': malformed pattern %q never matches: %v", c.Field, c.Value, err)
		}
		if declared && v.types.Lookup(c.Field) == schema.Boolean {
			v.addWarning("field '%s' is boolean; ~= never matches boolean fields", c.Field)
		}
		return
	}

	if declared && c.Operator.IsOrdering() && v.types.Lookup(c.Field) == schema.Boolean {
		v.addWarning("field '%s' is boolean; %s orders false before true", c.Field, c.Operator)
	}
}

// checkDeclared warns about fields missing from the type map and reports
// whether the field is declared. Without a type map every field counts as
// undeclared but no warning is emitted.
func (v *validator) checkDeclared(field, context string) bool {
	if v.types == nil {
		return false
	}
	if v.types.Has(field) {
		return true
	}
	v.addWarning("unknown field '%s' in %s: treated as an empty string field", field, context)
	return false
}
