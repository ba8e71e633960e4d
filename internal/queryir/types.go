package queryir

import (
	"fmt"
	"strings"
)

// Condition is a single test against a row.
//
// This is a sealed interface - only types in this package implement it.
//
// Condition types:
//   - Comparison: field operator value
//   - FreeText: a bare term matched against every field
//   - IsEmpty: field is null or blank
//   - IsNotEmpty: field has a value
type Condition interface {
	conditionNode() // Marker method - seals interface to this package
	fmt.Stringer
}

// Operator is a comparison operator.
type Operator int

const (
	// Contains is ":". Substring match for string fields, equality otherwise.
	Contains Operator = iota + 1
	// Equal is "=".
	Equal
	// DoubleEqual is "==", an alias of Equal kept distinct for rendering.
	DoubleEqual
	// NotEqual is "!=".
	NotEqual
	// Greater is ">".
	Greater
	// GreaterEqual is ">=".
	GreaterEqual
	// Less is "<".
	Less
	// LessEqual is "<=".
	LessEqual
	// Regex is "~=". The literal is a regular expression over the raw value.
	Regex
)

// Operators lists every operator in recognition order: longer and more
// specific operators come before any operator that is a substring of them.
var Operators = []Operator{
	Regex,
	NotEqual,
	GreaterEqual,
	LessEqual,
	DoubleEqual,
	Equal,
	Contains,
	Greater,
	Less,
}

// String returns the operator's query syntax.
func (o Operator) String() string {
	switch o {
	case Contains:
		return ":"
	case Equal:
		return "="
	case DoubleEqual:
		return "=="
	case NotEqual:
		return "!="
	case Greater:
		return ">"
	case GreaterEqual:
		return ">="
	case Less:
		return "<"
	case LessEqual:
		return "<="
	case Regex:
		return "~="
	default:
		return fmt.Sprintf("Operator(%d)", int(o))
	}
}

// Valid reports whether o is a known operator.
func (o Operator) Valid() bool {
	return o >= Contains && o <= Regex
}

// IsOrdering reports whether o is one of > >= < <=.
func (o Operator) IsOrdering() bool {
	switch o {
	case Greater, GreaterEqual, Less, LessEqual:
		return true
	default:
		return false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Operator) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("invalid operator %d", int(o))
	}
	return []byte(o.String()), nil
}

// ParseOperator returns the operator spelled exactly as s.
func ParseOperator(s string) (Operator, bool) {
	for _, op := range Operators {
		if op.String() == s {
			return op, true
		}
	}
	return 0, false
}

// Comparison compares a field against a literal.
//
// Semantics:
//
//	<field> <operator> <value>
//
// Value is the literal exactly as written in the query, quotes removed. It
// is normalized under the field's type only when evaluated.
//
// Example:
//
//	Comparison{Field: "age", Operator: GreaterEqual, Value: "30"}
type Comparison struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    string   `json:"value"`
}

func (Comparison) conditionNode() {}

func (c Comparison) String() string {
	return c.Field + c.Operator.String() + c.Value
}

// FreeText is a bare term with no field.
//
// A term naming a boolean field tests that field. Otherwise the term matches
// when any field's value contains it, case-insensitively.
type FreeText struct {
	Value string `json:"value"`
}

func (FreeText) conditionNode() {}

func (f FreeText) String() string {
	return fmt.Sprintf("%q", f.Value)
}

// IsEmpty holds when the field is null, or blank for string fields.
type IsEmpty struct {
	Field string `json:"field"`
}

func (IsEmpty) conditionNode() {}

func (e IsEmpty) String() string {
	return e.Field + " is empty"
}

// IsNotEmpty is the complement of IsEmpty.
type IsNotEmpty struct {
	Field string `json:"field"`
}

func (IsNotEmpty) conditionNode() {}

func (e IsNotEmpty) String() string {
	return e.Field + " is not empty"
}

// OrGroup is a conjunction of conditions.
// An empty group is vacuously true; the parser never produces one.
type OrGroup []Condition

func (g OrGroup) String() string {
	parts := make([]string, len(g))
	for i, c := range g {
		parts[i] = c.String()
	}
	return strings.Join(parts, " AND ")
}

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// ParseDirection matches ASC or DESC case-insensitively.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToUpper(s) {
	case string(Asc):
		return Asc, true
	case string(Desc):
		return Desc, true
	default:
		return "", false
	}
}

// OrderBy is the ordering clause.
type OrderBy struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

func (o OrderBy) String() string {
	return "ORDER BY " + o.Field + " " + string(o.Direction)
}

// ParsedQuery is the DNF predicate plus optional ordering.
//
// Invariants:
//   - len(OrGroups) == 0 matches every row
//   - every group produced by the parser is non-empty
//   - OrderBy is nil when the query has no ordering clause
type ParsedQuery struct {
	OrGroups []OrGroup `json:"or_groups"`
	OrderBy  *OrderBy  `json:"order_by,omitempty"`
}

// MatchesAll reports whether the query has no filter.
func (q ParsedQuery) MatchesAll() bool {
	return len(q.OrGroups) == 0
}

// Fields returns the distinct field names the query references, in first
// appearance order. The ordering field comes last.
func (q ParsedQuery) Fields() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(f string) {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	for _, g := range q.OrGroups {
		for _, c := range g {
			switch cond := c.(type) {
			case Comparison:
				add(cond.Field)
			case IsEmpty:
				add(cond.Field)
			case IsNotEmpty:
				add(cond.Field)
			case FreeText:
			}
		}
	}
	if q.OrderBy != nil {
		add(q.OrderBy.Field)
	}
	return out
}

// String renders the query in a normalized, readable form.
// It is meant for display and is not guaranteed to re-parse identically.
func (q ParsedQuery) String() string {
	var b strings.Builder
	if q.MatchesAll() {
		b.WriteString("<all>")
	}
	for i, g := range q.OrGroups {
		if i > 0 {
			b.WriteString(" OR ")
		}
		if len(q.OrGroups) > 1 && len(g) > 1 {
			b.WriteString("(" + g.String() + ")")
		} else {
			b.WriteString(g.String())
		}
	}
	if q.OrderBy != nil {
		b.WriteString(" " + q.OrderBy.String())
	}
	return b.String()
}
