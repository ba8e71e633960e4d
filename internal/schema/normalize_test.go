package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/sift/internal/record"
)

func TestNormalize_Empty(t *testing.T) {
	for _, tag := range []TypeTag{Number, Date, Boolean} {
		assert.True(t, Normalize(record.Null{}, tag).IsNull(), tag.String())
		assert.True(t, Normalize(record.String(""), tag).IsNull(), tag.String())
	}
	assert.Equal(t, StringKey(""), Normalize(record.Null{}, String))
	assert.Equal(t, StringKey(""), Normalize(record.String(""), String))
}

func TestNormalize_Number(t *testing.T) {
	assert.Equal(t, NumberKey(30), Normalize(record.String("30"), Number))
	assert.Equal(t, NumberKey(30), Normalize(record.Number(30), Number))
	assert.Equal(t, NumberKey(1), Normalize(record.Bool(true), Number))
	assert.True(t, Normalize(record.String("abc"), Number).IsNaN())
}

func TestNormalize_Boolean(t *testing.T) {
	assert.True(t, Normalize(record.String("TRUE"), Boolean).Bool())
	assert.True(t, Normalize(record.Bool(true), Boolean).Bool())
	assert.False(t, Normalize(record.String("yes"), Boolean).Bool())
	assert.False(t, Normalize(record.String("false"), Boolean).Bool())
}

func TestNormalize_Date(t *testing.T) {
	k := Normalize(record.String("2026-01-01"), Date)
	assert.Equal(t, NumberKey(1767225600000), k)

	k = Normalize(record.String("2026-01-01T00:00:00Z"), Date)
	assert.Equal(t, NumberKey(1767225600000), k)

	assert.True(t, Normalize(record.String("not a date"), Date).IsNaN())
	assert.True(t, Normalize(record.Bool(true), Date).IsNaN())
}

func TestNormalize_ReducedPrecisionDate(t *testing.T) {
	assert.Equal(t, NumberKey(1735689600000), Normalize(record.String("2025"), Date))
	assert.Equal(t, NumberKey(1748736000000), Normalize(record.String("2025-06"), Date))
	assert.True(t, Normalize(record.String("2025-13"), Date).IsNaN())
}

func TestNormalize_StringFoldsCase(t *testing.T) {
	assert.Equal(t, StringKey("berlin"), Normalize(record.String("Berlin"), String))
	assert.Equal(t, StringKey("30"), Normalize(record.Number(30), String))
	assert.Equal(t, StringKey("true"), Normalize(record.Bool(true), String))
	assert.Equal(t, StringKey("café"), Normalize(record.String("CAFÉ"), String))
}

func TestFoldText(t *testing.T) {
	assert.Equal(t, "strasse", FoldText("Straße"))
	assert.Equal(t, FoldText("STRASSE"), FoldText("straße"))
	assert.Equal(t, "caf\u00e9", FoldText("CAFE\u0301"))
}

func TestKey_Equal(t *testing.T) {
	assert.True(t, NullKey.Equal(NullKey))
	assert.True(t, NumberKey(2).Equal(NumberKey(2)))
	assert.False(t, NumberKey(2).Equal(StringKey("2")))
	assert.False(t, NullKey.Equal(NumberKey(0)))

	nan := Normalize(record.String("bad"), Date)
	assert.False(t, nan.Equal(nan))
}

func TestKey_Compare(t *testing.T) {
	c, ok := NumberKey(1).Compare(NumberKey(2))
	assert.True(t, ok)
	assert.Equal(t, -1, c)

	c, ok = StringKey("bob").Compare(StringKey("alice"))
	assert.True(t, ok)
	assert.Equal(t, 1, c)

	c, ok = BoolKey(false).Compare(BoolKey(true))
	assert.True(t, ok)
	assert.Equal(t, -1, c)

	_, ok = NullKey.Compare(NumberKey(1))
	assert.False(t, ok)

	nan := Normalize(record.String("bad"), Date)
	_, ok = nan.Compare(nan)
	assert.False(t, ok)
	_, ok = NumberKey(1).Compare(nan)
	assert.False(t, ok)
}
