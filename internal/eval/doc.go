// Package eval decides whether a row satisfies a parsed query.
//
// A query is compiled once against a type map into a Matcher: every
// condition becomes a closure over its pre-normalized literal, and every ~=
// pattern is compiled a single time. Matching a row then runs OR over groups
// and AND within a group, both short-circuiting.
//
// Evaluation is total. Unknown fields read as empty strings, values that do
// not normalize compare as non-matches, and malformed patterns never match.
package eval
