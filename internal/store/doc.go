// Package store provides SQLite-backed storage for sift tables.
//
// A sift table is an ordered set of typed columns plus rows. The store
// reads any SQLite table and writes tables created by sift. Tables written
// by sift record their declared type tags in the sift_columns metadata table;
// tables created elsewhere get types mapped from their declared SQL types:
//
//	INT, REAL, FLOAT, DOUBLE, NUMERIC, DECIMAL  → number
//	BOOL                                        → boolean
//	DATE, TIME                                  → date
//	anything else                               → string
//
// # Critical Patterns
//
// Deterministic reads:
//   - Columns come back in declaration order
//   - Rows come back ORDER BY rowid ASC, i.e. insertion order
//
// Identifier safety:
//   - Table and column names are validated and always double-quoted
//   - Names beginning with sift_ or sqlite_ are reserved
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait on lock contention
//   - Single connection: SQLite allows one writer
package store
