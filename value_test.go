package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInput(t *testing.T) {
	cases := []struct {
		in   string
		kind Kind
	}{
		{"", KindEmpty},
		{"   ", KindEmpty},
		{"true", KindBoolean},
		{"FALSE", KindBoolean},
		{"42", KindNumber},
		{"-3.5", KindNumber},
		{"50%", KindNumber},
		{"hello", KindString},
	}
	for _, c := range cases {
		v := ParseInput(c.in)
		assert.Equalf(t, c.kind, v.Kind, "ParseInput(%q)", c.in)
	}
}

func TestParseInputPercent(t *testing.T) {
	v := ParseInput("50%")
	require.Equal(t, KindNumber, v.Kind)
	assert.InDelta(t, 0.5, v.Num, 1e-9)
}

func TestToNumberCoercion(t *testing.T) {
	assert.Equal(t, 0.0, Empty().ToNumber().Num)
	assert.Equal(t, 1.0, NewBoolean(true).ToNumber().Num)
	assert.Equal(t, 0.0, NewBoolean(false).ToNumber().Num)
	assert.True(t, NewString("abc").ToNumber().IsError())
	errVal := NewError(ErrDiv0, "")
	assert.True(t, errVal.ToNumber().IsError())
	assert.Equal(t, ErrDiv0, errVal.ToNumber().Code)
}

func TestToBooleanCoercion(t *testing.T) {
	assert.True(t, NewNumber(1).ToBoolean().Bool)
	assert.False(t, NewNumber(0).ToBoolean().Bool)
	assert.True(t, NewString("TRUE").ToBoolean().Bool)
	assert.True(t, NewString("True").ToBoolean().Bool)
	assert.True(t, NewString("not a bool").ToBoolean().IsError())
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "42", FormatNumber(42))
	assert.Equal(t, "-3.5", FormatNumber(-3.5))
	assert.Equal(t, "0", FormatNumber(0))
}

func TestValuesEqual(t *testing.T) {
	assert.True(t, ValuesEqual(NewNumber(1), NewNumber(1)))
	assert.False(t, ValuesEqual(NewNumber(1), NewString("1")))
	assert.True(t, ValuesEqual(Empty(), Empty()))
	assert.True(t, ValuesEqual(NewError(ErrRef, "a"), NewError(ErrRef, "b")))
	assert.False(t, ValuesEqual(NewError(ErrRef, ""), NewError(ErrValue, "")))
}

func TestCompareValuesCrossType(t *testing.T) {
	// numbers < booleans < strings < empty < error, per the comparison law
	assert.True(t, CompareValues(NewNumber(100), NewBoolean(false)) < 0)
	assert.True(t, CompareValues(NewBoolean(true), NewString("a")) < 0)
	assert.True(t, CompareValues(NewString("z"), Empty()) < 0)
	assert.True(t, CompareValues(Empty(), NewError(ErrValue, "")) < 0)
}

func TestCompareValuesStringCollation(t *testing.T) {
	assert.True(t, CompareValues(NewString("apple"), NewString("Banana")) < 0)
	assert.Equal(t, 0, CompareValues(NewString("abc"), NewString("abc")))
}

func TestCompareValuesNumbers(t *testing.T) {
	assert.True(t, CompareValues(NewNumber(1), NewNumber(2)) < 0)
	assert.True(t, CompareValues(NewNumber(2), NewNumber(1)) > 0)
	assert.Equal(t, 0, CompareValues(NewNumber(1), NewNumber(1)))
}
