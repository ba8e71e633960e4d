// Package record provides the raw row model consumed by the query core.
//
// A row is a mapping from field name to a raw Value. Values are a sealed set:
// Null, String, Number and Bool. Anything else a data source produces must be
// converted with FromAny at the boundary.
//
// This package imports nothing internal. Every other internal package may
// import record; record stays the foundational layer.
package record
