// Package parser turns a token stream into a queryir.ParsedQuery.
//
// Parsing happens in two steps. The first ORDER BY pair splits off the
// ordering clause; everything before it is the filter stream. The filter
// stream is then grouped into DNF: OR closes the current group, AND is a
// no-op separator, and every other position is recognized as one condition.
//
// Parse never fails. Tokens that match no condition pattern become free
// text.
package parser

import (
	"strings"

	"github.com/roach88/sift/internal/lexer"
	"github.com/roach88/sift/internal/queryir"
)

// Parse builds a query from tokens.
func Parse(tokens []string) queryir.ParsedQuery {
	filter, orderBy := splitOrderBy(tokens)
	return queryir.ParsedQuery{
		OrGroups: group(filter),
		OrderBy:  orderBy,
	}
}

// ParseString tokenizes and parses text.
func ParseString(text string) queryir.ParsedQuery {
	return Parse(lexer.Tokenize(text))
}

// splitOrderBy finds the first ORDER BY pair. Tokens after the direction
// slot are dropped. ORDER BY with no field token yields no ordering but
// still truncates the filter stream.
func splitOrderBy(tokens []string) ([]string, *queryir.OrderBy) {
	for i := 0; i+1 < len(tokens); i++ {
		if !strings.EqualFold(tokens[i], "ORDER") || !strings.EqualFold(tokens[i+1], "BY") {
			continue
		}
		filter := tokens[:i]
		if i+2 >= len(tokens) {
			return filter, nil
		}
		ob := &queryir.OrderBy{Field: tokens[i+2], Direction: queryir.Asc}
		if i+3 < len(tokens) {
			if dir, ok := queryir.ParseDirection(tokens[i+3]); ok {
				ob.Direction = dir
			}
		}
		return filter, ob
	}
	return tokens, nil
}

func group(tokens []string) []queryir.OrGroup {
	var (
		groups  []queryir.OrGroup
		current queryir.OrGroup
	)
	cur := &cursor{tokens: tokens}

	for !cur.done() {
		tok := cur.peek(0)
		switch {
		case strings.EqualFold(tok, "OR"):
			if len(current) > 0 {
				groups = append(groups, current)
			}
			current = nil
			cur.advance(1)
		case strings.EqualFold(tok, "AND"), tok == "":
			cur.advance(1)
		default:
			n, cond := cur.recognize()
			current = append(current, cond)
			cur.advance(n)
		}
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}
