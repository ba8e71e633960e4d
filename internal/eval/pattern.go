package eval

import "regexp"

// Pattern is the outcome of compiling a ~= literal: either a usable regular
// expression or the compile error. Matching a failed pattern is false.
type Pattern struct {
	Source string
	re     *regexp.Regexp
	err    error
}

// CompilePattern compiles src with RE2 syntax. It never fails; inspect Err.
func CompilePattern(src string) Pattern {
	re, err := regexp.Compile(src)
	return Pattern{Source: src, re: re, err: err}
}

// Err returns the compile error, or nil for a usable pattern.
func (p Pattern) Err() error { return p.err }

// OK reports whether the pattern compiled.
func (p Pattern) OK() bool { return p.err == nil && p.re != nil }

// Match reports whether s contains a match. Failed patterns match nothing.
func (p Pattern) Match(s string) bool {
	if !p.OK() {
		return false
	}
	return p.re.MatchString(s)
}
