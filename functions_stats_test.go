package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func seqArg(vs ...Value) FuncArg { return FuncArg{IsSequence: true, Sequence: vs} }

func TestFnCount(t *testing.T) {
	v := fnCount([]FuncArg{seqArg(NewNumber(1), NewString("x"), NewNumber(2), Empty())})
	assert.Equal(t, 2.0, v.Num)
}

func TestFnCountA(t *testing.T) {
	v := fnCountA([]FuncArg{seqArg(NewNumber(1), NewString("x"), Empty())})
	assert.Equal(t, 2.0, v.Num)
}

func TestFnCountBlank(t *testing.T) {
	v := fnCountBlank([]FuncArg{seqArg(Empty(), NewNumber(1), Empty())})
	assert.Equal(t, 2.0, v.Num)
}

func TestFnCountIfWildcard(t *testing.T) {
	v := fnCountIf([]FuncArg{
		seqArg(NewString("apple"), NewString("applesauce"), NewString("banana")),
		arg(NewString("apple*")),
	})
	assert.Equal(t, 2.0, v.Num)
}

func TestFnCountIfNumericComparison(t *testing.T) {
	v := fnCountIf([]FuncArg{
		seqArg(NewNumber(1), NewNumber(2), NewNumber(3), NewNumber(4)),
		arg(NewString(">2")),
	})
	assert.Equal(t, 2.0, v.Num)
}

func TestFnCountIfExactMatch(t *testing.T) {
	v := fnCountIf([]FuncArg{seqArg(NewNumber(5), NewNumber(7)), arg(NewNumber(5))})
	assert.Equal(t, 1.0, v.Num)
}

func TestFnSumIfSameRange(t *testing.T) {
	v := fnSumIf([]FuncArg{
		seqArg(NewNumber(1), NewNumber(2), NewNumber(3)),
		arg(NewString(">1")),
	})
	assert.Equal(t, 5.0, v.Num)
}

func TestFnSumIfSeparateSumRange(t *testing.T) {
	v := fnSumIf([]FuncArg{
		seqArg(NewString("a"), NewString("b"), NewString("a")),
		arg(NewString("a")),
		seqArg(NewNumber(10), NewNumber(20), NewNumber(30)),
	})
	assert.Equal(t, 40.0, v.Num)
}

func TestWildcardToRegexp(t *testing.T) {
	re := wildcardToRegexp("a*c?e")
	assert.True(t, re.MatchString("abcde"))
	assert.False(t, re.MatchString("abcdef"))
}

func TestCompileCriterionNotEqual(t *testing.T) {
	match := compileCriterion(NewString("<>5"))
	assert.True(t, match(NewNumber(3)))
	assert.False(t, match(NewNumber(5)))
}
