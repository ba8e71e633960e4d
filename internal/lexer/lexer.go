// Package lexer splits query text into tokens.
//
// Tokens are separated by unquoted whitespace. A double or single quote opens
// a quoted run that only the same quote character closes; there is no escape
// syntax. Quoted content is appended to the current token verbatim, so
//
//	name:"Bob Smith" age>30
//
// yields the two tokens `name:Bob Smith` and `age>30`. The quote characters
// themselves are never part of a token.
//
// An unterminated quote keeps everything consumed after it as the final
// token and drops the dangling quote character. Empty tokens are never
// emitted.
package lexer

import "strings"

// Tokenize splits text into tokens. It never fails.
func Tokenize(text string) []string {
	var (
		tokens []string
		cur    strings.Builder
		quote  rune
	)

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for _, r := range text {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			cur.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
		case isSpace(r):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()

	return tokens
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}
