package eval

import (
	"fmt"
	"strings"

	"github.com/roach88/sift/internal/queryir"
	"github.com/roach88/sift/internal/record"
	"github.com/roach88/sift/internal/schema"
)

// predicate tests one row.
type predicate func(row record.Row) bool

// Matcher is a compiled query. It holds no per-row state and is safe for
// concurrent use.
type Matcher struct {
	groups   [][]predicate
	patterns []Pattern
}

// Compile prepares q for evaluation under types. A nil types map declares no
// fields: every field is a string and free text scans the row's own fields.
func Compile(q queryir.ParsedQuery, types *schema.TypeMap) *Matcher {
	c := &compiler{types: types}
	m := &Matcher{groups: make([][]predicate, 0, len(q.OrGroups))}
	for _, g := range q.OrGroups {
		preds := make([]predicate, 0, len(g))
		for _, cond := range g {
			preds = append(preds, c.compileCondition(cond))
		}
		m.groups = append(m.groups, preds)
	}
	m.patterns = c.patterns
	return m
}

// Evaluate compiles q and tests a single row.
func Evaluate(q queryir.ParsedQuery, row record.Row, types *schema.TypeMap) bool {
	return Compile(q, types).Match(row)
}

// Match reports whether row satisfies any group. No groups match everything.
func (m *Matcher) Match(row record.Row) bool {
	if len(m.groups) == 0 {
		return true
	}
	for _, g := range m.groups {
		if matchGroup(g, row) {
			return true
		}
	}
	return false
}

// PatternErrors lists the compile errors of malformed ~= patterns.
func (m *Matcher) PatternErrors() []error {
	var errs []error
	for _, p := range m.patterns {
		if err := p.Err(); err != nil {
			errs = append(errs, fmt.Errorf("pattern %q: %w", p.Source, err))
		}
	}
	return errs
}

// matchGroup is AND with short-circuit. An empty group is true.
func matchGroup(g []predicate, row record.Row) bool {
	for _, p := range g {
		if !p(row) {
			return false
		}
	}
	return true
}

type compiler struct {
	types    *schema.TypeMap
	patterns []Pattern
}

func (c *compiler) compileCondition(cond queryir.Condition) predicate {
	switch cc := cond.(type) {
	case queryir.Comparison:
		return c.compileComparison(cc)
	case queryir.FreeText:
		return c.compileFreeText(cc)
	case queryir.IsEmpty:
		return compileIsEmpty(cc.Field, c.types.Lookup(cc.Field))
	case queryir.IsNotEmpty:
		return compileIsNotEmpty(cc.Field, c.types.Lookup(cc.Field))
	default:
		panic(fmt.Sprintf("eval: unknown condition type %T", cond))
	}
}

// compileIsEmpty: null is empty; string fields are also empty when blank.
func compileIsEmpty(field string, tag schema.TypeTag) predicate {
	return func(row record.Row) bool {
		v := row.Get(field)
		if record.IsNull(v) {
			return true
		}
		if tag == schema.String {
			return strings.TrimSpace(record.Text(v)) == ""
		}
		return false
	}
}

// compileIsNotEmpty has the complementary truth table of compileIsEmpty.
func compileIsNotEmpty(field string, tag schema.TypeTag) predicate {
	return func(row record.Row) bool {
		v := row.Get(field)
		if record.IsNull(v) {
			return false
		}
		if tag == schema.String {
			return strings.TrimSpace(record.Text(v)) != ""
		}
		return true
	}
}

func (c *compiler) compileComparison(cmp queryir.Comparison) predicate {
	field := cmp.Field
	tag := c.types.Lookup(field)

	if cmp.Operator == queryir.Regex {
		pat := CompilePattern(cmp.Value)
		c.patterns = append(c.patterns, pat)
		if tag == schema.Boolean {
			return never
		}
		return func(row record.Row) bool {
			return pat.Match(record.Text(row.Get(field)))
		}
	}

	lit := schema.Normalize(record.String(cmp.Value), tag)
	key := func(row record.Row) schema.Key {
		return schema.Normalize(row.Get(field), tag)
	}

	switch cmp.Operator {
	case queryir.Contains:
		if tag == schema.String {
			return func(row record.Row) bool {
				return strings.Contains(key(row).Text(), lit.Text())
			}
		}
		return func(row record.Row) bool { return key(row).Equal(lit) }
	case queryir.Equal, queryir.DoubleEqual:
		return func(row record.Row) bool { return key(row).Equal(lit) }
	case queryir.NotEqual:
		return func(row record.Row) bool { return !key(row).Equal(lit) }
	case queryir.Greater:
		return ordered(key, lit, func(c int) bool { return c > 0 })
	case queryir.GreaterEqual:
		return ordered(key, lit, func(c int) bool { return c >= 0 })
	case queryir.Less:
		return ordered(key, lit, func(c int) bool { return c < 0 })
	case queryir.LessEqual:
		return ordered(key, lit, func(c int) bool { return c <= 0 })
	default:
		panic(fmt.Sprintf("eval: unknown operator %v", cmp.Operator))
	}
}

// ordered builds an ordering test. Incomparable keys (null, NaN) never match.
func ordered(key func(record.Row) schema.Key, lit schema.Key, accept func(int) bool) predicate {
	return func(row record.Row) bool {
		c, ok := key(row).Compare(lit)
		return ok && accept(c)
	}
}

func never(record.Row) bool { return false }
