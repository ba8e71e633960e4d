// Package queryir defines the parsed form of a sift query.
//
// A query is a Disjunctive Normal Form predicate plus an optional ordering
// clause:
//
//	[OR group] OR [OR group] OR ... ORDER BY <field> [ASC|DESC]
//
// Each OrGroup is a list of conditions that must all hold. The query matches
// a row when any group matches. A query with no groups matches every row,
// which is how "no filter" is represented.
//
// SEALED INTERFACES:
//
// Condition is a sealed interface using the marker method pattern. Only
// types in this package implement it, which keeps type switches in the
// evaluator and validator exhaustive:
//
//	switch c := cond.(type) {
//	case Comparison:
//	    // field operator value
//	case FreeText:
//	    // bare search term
//	case IsEmpty:
//	    // field is empty
//	case IsNotEmpty:
//	    // field is not empty
//	}
//
// OPERATORS:
//
// Operator is a closed enum. ParseOperator and the precedence list
// Operators are the only way operator text enters the IR; the parser tries
// Operators in order so longer operators win over their prefixes
// ("==" before "=", "!=" before "=").
//
// The IR carries raw literal text. Type-dependent normalization happens at
// evaluation time against the row's type map.
package queryir
