package schema

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/sift/internal/record"
)

type keyKind int

const (
	keyNull keyKind = iota
	keyNumber
	keyString
	keyBool
)

// Key is a normalized value, comparable under its type's rule.
// Numbers and dates both normalize to numeric keys.
type Key struct {
	kind keyKind
	num  float64
	str  string
	b    bool
}

// NullKey is the normalized form of an empty non-string value.
var NullKey = Key{kind: keyNull}

// NumberKey returns a numeric key.
func NumberKey(f float64) Key { return Key{kind: keyNumber, num: f} }

// StringKey returns a string key. s must already be normalized.
func StringKey(s string) Key { return Key{kind: keyString, str: s} }

// BoolKey returns a boolean key.
func BoolKey(b bool) Key { return Key{kind: keyBool, b: b} }

// IsNull reports whether k is the null key.
func (k Key) IsNull() bool { return k.kind == keyNull }

// IsNaN reports whether k is a numeric key holding NaN, the invalid-date and
// invalid-number sentinel.
func (k Key) IsNaN() bool { return k.kind == keyNumber && math.IsNaN(k.num) }

// Bool returns the boolean payload. Non-boolean keys are false.
func (k Key) Bool() bool { return k.kind == keyBool && k.b }

// Text returns the string payload. Non-string keys are "".
func (k Key) Text() string {
	if k.kind != keyString {
		return ""
	}
	return k.str
}

// Equal reports whether two keys are equal. Null equals null, NaN equals
// nothing, keys of different kinds are never equal.
func (k Key) Equal(o Key) bool {
	if k.kind != o.kind {
		return false
	}
	switch k.kind {
	case keyNull:
		return true
	case keyNumber:
		return k.num == o.num
	case keyString:
		return k.str == o.str
	case keyBool:
		return k.b == o.b
	default:
		return false
	}
}

// Compare orders two keys. ok is false when the keys are incomparable:
// either is null or NaN, or they differ in kind. Strings compare by UTF-16
// code units; false orders before true.
func (k Key) Compare(o Key) (c int, ok bool) {
	if k.kind != o.kind || k.kind == keyNull || k.IsNaN() || o.IsNaN() {
		return 0, false
	}
	switch k.kind {
	case keyNumber:
		switch {
		case k.num < o.num:
			return -1, true
		case k.num > o.num:
			return 1, true
		default:
			return 0, true
		}
	case keyString:
		return record.CompareUTF16(k.str, o.str), true
	case keyBool:
		switch {
		case k.b == o.b:
			return 0, true
		case !k.b:
			return -1, true
		default:
			return 1, true
		}
	default:
		return 0, false
	}
}

// String renders the key for diagnostics.
func (k Key) String() string {
	switch k.kind {
	case keyNull:
		return "null"
	case keyNumber:
		return record.FormatNumber(k.num)
	case keyString:
		return fmt.Sprintf("%q", k.str)
	case keyBool:
		return fmt.Sprintf("%t", k.b)
	default:
		return "?"
	}
}

// Normalize canonicalizes a raw value under tag.
func Normalize(v record.Value, tag TypeTag) Key {
	if isEmpty(v) {
		if tag == String {
			return StringKey("")
		}
		return NullKey
	}

	switch tag {
	case Number:
		return NumberKey(toNumber(v))
	case Date:
		return NumberKey(toEpochMillis(v))
	case Boolean:
		return BoolKey(strings.EqualFold(record.Text(v), "true"))
	case String:
		return StringKey(FoldText(record.Text(v)))
	default:
		panic(fmt.Sprintf("schema: unknown type tag %d", int(tag)))
	}
}

// FoldText is the case-insensitive canonical form of text: Unicode case
// folded, then NFC normalized. A Caser is stateful, so each call takes its own.
func FoldText(s string) string {
	return norm.NFC.String(cases.Fold().String(s))
}

// toNumber casts a non-empty raw value to a float. Text that is not a finite
// number yields NaN; booleans are 1 and 0.
func toNumber(v record.Value) float64 {
	switch val := v.(type) {
	case record.Number:
		return float64(val)
	case record.Bool:
		if val {
			return 1
		}
		return 0
	}
	if f, ok := parseFiniteNumber(record.Text(v)); ok {
		return f
	}
	return math.NaN()
}

// toEpochMillis parses a non-empty raw value as a calendar date. Numbers are
// taken as epoch milliseconds already; anything unparsable is NaN.
func toEpochMillis(v record.Value) float64 {
	switch val := v.(type) {
	case record.Number:
		return float64(val)
	case record.Bool:
		return math.NaN()
	}
	t, ok := parseDate(record.Text(v))
	if !ok {
		return math.NaN()
	}
	return float64(t.UnixMilli())
}
