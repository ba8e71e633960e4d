package engine

import (
	"github.com/roach88/sift/internal/lexer"
	"github.com/roach88/sift/internal/parser"
	"github.com/roach88/sift/internal/queryir"
)

// Explanation is the introspection view of a query: what the tokenizer saw
// and what the parser built from it.
type Explanation struct {
	Text   string              `json:"text"`
	Tokens []string            `json:"tokens"`
	Query  queryir.ParsedQuery `json:"query"`
}

// Explain tokenizes and parses text without evaluating it.
func Explain(text string) Explanation {
	tokens := lexer.Tokenize(text)
	if tokens == nil {
		tokens = []string{}
	}
	q := parser.Parse(tokens)
	if q.OrGroups == nil {
		q.OrGroups = []queryir.OrGroup{}
	}
	return Explanation{Text: text, Tokens: tokens, Query: q}
}
