// Package harness runs conformance scenarios against the query engine.
//
// A scenario names a table of rows and a list of query cases, each with the
// identifiers it must return. Scenarios are YAML files:
//
//	name: people_numeric
//	description: "Numeric comparisons and ordering"
//	dataset: ../data/people.json   # relative to the scenario file
//	id_key: id
//	cases:
//	  - query: "age>30 ORDER BY age DESC"
//	    expect: [5, 3]
//	    ordered: true
//	  - query: "city:york"
//	    expect: [1, 4]
//
// Instead of a dataset path a scenario may carry its table inline:
//
//	types:
//	  - {name: id, type: number}
//	  - {name: tag, type: string}
//	rows:
//	  - {id: 1, tag: red}
//	  - {id: 2, tag: blue}
//
// Cases marked ordered compare identifiers position by position; the rest
// compare them as a multiset.
//
// # Golden snapshots
//
// Snapshot renders a run as canonical JSON (query, parsed form, identifiers)
// so results can be pinned in golden files. Tests use AssertGolden, which
// compares through goldie; the CLI compares and rewrites golden files with
// CompareGolden and UpdateGolden.
package harness
