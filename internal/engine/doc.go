// Package engine runs a sift query over a table of rows.
//
// ARCHITECTURE:
//
// The engine composes the pure stages in a fixed pipeline:
//
//	text → lexer.Tokenize → parser.Parse → eval.Compile → filter → sorter.Sort → ids
//
// Types are resolved once per call, from Options.Types when given and by
// inference over the rows otherwise. Nothing is cached between calls, so
// FilterAndOrder is safe to call concurrently on shared, read-only rows.
//
// CRITICAL PATTERNS:
//
// Blank queries bypass the pipeline entirely and return every id in input
// order. ORDER BY cannot apply on that path because nothing is parsed.
//
// The engine never returns errors. Malformed queries degrade to free text,
// malformed patterns to non-matches; both are logged at debug level.
package engine
