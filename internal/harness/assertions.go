package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/sift/internal/record"
)

// AssertionError is returned when a case returns the wrong identifiers.
type AssertionError struct {
	Query    string
	Ordered  bool
	Expected []record.Value
	Actual   []record.Value
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	mode := "as a set"
	if e.Ordered {
		mode = "in order"
	}
	fmt.Fprintf(&buf, "query %q: ids do not match %s\n", e.Query, mode)
	fmt.Fprintf(&buf, "  Expected: %s\n", formatIDs(e.Expected))
	fmt.Fprintf(&buf, "  Actual: %s", formatIDs(e.Actual))

	return buf.String()
}

// expectedIDs converts a case's expect list into values.
func expectedIDs(c Case) ([]record.Value, error) {
	out := make([]record.Value, len(c.Expect))
	for i, id := range c.Expect {
		v, err := record.FromAny(id)
		if err != nil {
			return nil, fmt.Errorf("expect[%d]: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// assertIDs checks actual against expected, position by position when
// ordered, otherwise as multisets.
func assertIDs(query string, ordered bool, expected, actual []record.Value) error {
	var ok bool
	if ordered {
		ok = equalSequence(expected, actual)
	} else {
		ok = equalMultiset(expected, actual)
	}
	if ok {
		return nil
	}
	return &AssertionError{
		Query:    query,
		Ordered:  ordered,
		Expected: expected,
		Actual:   actual,
	}
}

func equalSequence(a, b []record.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !sameID(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalMultiset(a, b []record.Value) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, v := range a {
		counts[idKey(v)]++
	}
	for _, v := range b {
		k := idKey(v)
		if counts[k] == 0 {
			return false
		}
		counts[k]--
	}
	return true
}

// sameID compares identifiers by kind and text, so 1 and "1" differ.
func sameID(a, b record.Value) bool {
	return idKey(a) == idKey(b)
}

func idKey(v record.Value) string {
	switch v.(type) {
	case nil, record.Null:
		return "null"
	case record.Number:
		return "n:" + record.Text(v)
	case record.Bool:
		return "b:" + record.Text(v)
	default:
		return "s:" + record.Text(v)
	}
}

func formatIDs(ids []record.Value) string {
	parts := make([]string, len(ids))
	for i, v := range ids {
		switch v.(type) {
		case nil, record.Null:
			parts[i] = "null"
		case record.String:
			parts[i] = fmt.Sprintf("%q", record.Text(v))
		default:
			parts[i] = record.Text(v)
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
