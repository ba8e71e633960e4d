package schema

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/sift/internal/record"
)

// isoDate must appear in a value's text for it to be inferred as a date.
// Parseable strings without it ("Jan 2, 2006", "12/31/2024") stay strings.
var isoDate = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// dateLayouts are tried in order. Layouts without a zone are read as UTC.
// Reduced-precision ISO dates ("2025", "2025-03") start their period.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-01",
	"2006",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	time.RFC1123Z,
	time.RFC1123,
}

// InferType derives the type tag of a single sample value.
//
// The checks run in a fixed priority: empty, boolean literal, finite number,
// ISO-looking parseable date, string. Boolean comes first so "true" and
// "false" never classify as anything else.
func InferType(v record.Value) TypeTag {
	switch val := v.(type) {
	case nil, record.Null:
		return String
	case record.Bool:
		return Boolean
	case record.Number:
		if isFinite(float64(val)) {
			return Number
		}
		return String
	}

	text := record.Text(v)
	if text == "" {
		return String
	}
	lower := strings.ToLower(text)
	if lower == "true" || lower == "false" {
		return Boolean
	}
	if _, ok := parseFiniteNumber(text); ok {
		return Number
	}
	if isoDate.MatchString(text) {
		if _, ok := parseDate(text); ok {
			return Date
		}
	}
	return String
}

// InferTypes derives a TypeMap from rows.
//
// The fields inferred are columns when given, otherwise the first row's fields
// in UTF-16 key order. Each field takes the type of its first non-empty sample
// scanning rows in order; a field with no sample is a string field.
func InferTypes(rows []record.Row, columns ...string) *TypeMap {
	m := NewTypeMap()
	if len(columns) == 0 {
		if len(rows) == 0 {
			return m
		}
		columns = rows[0].SortedKeys()
	}

	for _, field := range columns {
		tag := String
		for _, row := range rows {
			v := row.Get(field)
			if isEmpty(v) {
				continue
			}
			tag = InferType(v)
			break
		}
		m.Set(field, tag)
	}
	return m
}

// isEmpty reports whether v counts as "no sample": null or the empty string.
func isEmpty(v record.Value) bool {
	if record.IsNull(v) {
		return true
	}
	s, ok := v.(record.String)
	return ok && s == ""
}

// parseFiniteNumber parses text as a finite float.
// Surrounding whitespace is ignored; blank text is not a number.
func parseFiniteNumber(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || !isFinite(f) {
		return 0, false
	}
	return f, true
}

// parseDate parses text with the first matching layout.
func parseDate(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, text, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
