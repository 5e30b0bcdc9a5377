package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFnLenCountsRunesNotBytes(t *testing.T) {
	v := fnLen([]FuncArg{arg(NewString("héllo"))})
	assert.Equal(t, 5.0, v.Num)
}

func TestFnLeftRight(t *testing.T) {
	assert.Equal(t, "ab", fnLeft([]FuncArg{arg(NewString("abcdef")), arg(NewNumber(2))}).Str)
	assert.Equal(t, "ef", fnRight([]FuncArg{arg(NewString("abcdef")), arg(NewNumber(2))}).Str)
	assert.Equal(t, "a", fnLeft([]FuncArg{arg(NewString("abc"))}).Str)
}

func TestFnLeftClampsPastEnd(t *testing.T) {
	assert.Equal(t, "abc", fnLeft([]FuncArg{arg(NewString("abc")), arg(NewNumber(10))}).Str)
}

func TestFnMid(t *testing.T) {
	v := fnMid([]FuncArg{arg(NewString("abcdef")), arg(NewNumber(2)), arg(NewNumber(3))})
	assert.Equal(t, "bcd", v.Str)
}

func TestFnConcatenate(t *testing.T) {
	v := fnConcatenate([]FuncArg{arg(NewString("a")), arg(NewNumber(1)), arg(NewBoolean(true))})
	assert.Equal(t, "a1TRUE", v.Str)
}

func TestFnUpperLower(t *testing.T) {
	assert.Equal(t, "ABC", fnUpper([]FuncArg{arg(NewString("abc"))}).Str)
	assert.Equal(t, "abc", fnLower([]FuncArg{arg(NewString("ABC"))}).Str)
}

func TestFnTrimCollapsesInteriorWhitespace(t *testing.T) {
	v := fnTrim([]FuncArg{arg(NewString("  a   b  "))})
	assert.Equal(t, "a b", v.Str)
}

func TestFnTextDefaultFormat(t *testing.T) {
	v := fnText([]FuncArg{arg(NewNumber(3.5)), arg(NewString("0.00"))})
	assert.Equal(t, "3.5", v.Str)
}
