package parser

import (
	"strings"

	"github.com/roach88/sift/internal/queryir"
)

// cursor walks the filter stream. Recognition rules read ahead through peek
// and report how many tokens they consume; only the grouping loop moves pos.
type cursor struct {
	tokens []string
	pos    int
}

func (c *cursor) done() bool { return c.pos >= len(c.tokens) }

// peek returns the token at pos+offset, or "" past the end.
func (c *cursor) peek(offset int) string {
	i := c.pos + offset
	if i < 0 || i >= len(c.tokens) {
		return ""
	}
	return c.tokens[i]
}

// has reports whether a token exists at pos+offset.
func (c *cursor) has(offset int) bool {
	return c.pos+offset < len(c.tokens)
}

func (c *cursor) advance(n int) { c.pos += n }

// rule tries to recognize a condition at the cursor. A zero count means the
// rule does not apply.
type rule func(c *cursor) (int, queryir.Condition)

// rules in precedence order. Each rule tries every operator before the
// next rule runs.
var rules = []rule{
	emptyCheck,
	embeddedOperator,
	operatorToken,
	gluedOperator,
}

// recognize applies the rules in order and falls back to free text.
// It always consumes at least one token.
func (c *cursor) recognize() (int, queryir.Condition) {
	for _, r := range rules {
		if n, cond := r(c); n > 0 {
			return n, cond
		}
	}
	return 1, queryir.FreeText{Value: c.peek(0)}
}

// emptyCheck: field is empty | field is not empty
func emptyCheck(c *cursor) (int, queryir.Condition) {
	if !c.has(2) || !strings.EqualFold(c.peek(1), "is") {
		return 0, nil
	}
	field := c.peek(0)
	if strings.EqualFold(c.peek(2), "empty") {
		return 3, queryir.IsEmpty{Field: field}
	}
	if c.has(3) && strings.EqualFold(c.peek(2), "not") && strings.EqualFold(c.peek(3), "empty") {
		return 4, queryir.IsNotEmpty{Field: field}
	}
	return 0, nil
}

// embeddedOperator: field<op>value in one token. The split must give
// exactly two non-empty parts.
func embeddedOperator(c *cursor) (int, queryir.Condition) {
	tok := c.peek(0)
	for _, op := range queryir.Operators {
		parts := strings.Split(tok, op.String())
		if len(parts) == 2 && parts[0] != "" && parts[1] != "" {
			return 1, queryir.Comparison{Field: parts[0], Operator: op, Value: parts[1]}
		}
	}
	return 0, nil
}

// operatorToken: field <op> value as three tokens.
func operatorToken(c *cursor) (int, queryir.Condition) {
	if !c.has(2) {
		return 0, nil
	}
	op, ok := queryir.ParseOperator(c.peek(1))
	if !ok {
		return 0, nil
	}
	return 3, queryir.Comparison{Field: c.peek(0), Operator: op, Value: c.peek(2)}
}

// gluedOperator: field <op>value as two tokens.
func gluedOperator(c *cursor) (int, queryir.Condition) {
	if !c.has(1) {
		return 0, nil
	}
	next := c.peek(1)
	for _, op := range queryir.Operators {
		sym := op.String()
		if len(next) > len(sym) && strings.HasPrefix(next, sym) {
			return 2, queryir.Comparison{Field: c.peek(0), Operator: op, Value: next[len(sym):]}
		}
	}
	return 0, nil
}
