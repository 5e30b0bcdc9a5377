package formula

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookupIsCaseInsensitive(t *testing.T) {
	r := NewFunctionRegistry()
	_, ok := r.Lookup("sum")
	assert.True(t, ok)
	_, ok = r.Lookup("SUM")
	assert.True(t, ok)
}

func TestRegistryIsVolatile(t *testing.T) {
	r := NewFunctionRegistry()
	assert.True(t, r.IsVolatile("RAND"))
	assert.True(t, r.IsVolatile("now"))
	assert.False(t, r.IsVolatile("SUM"))
	assert.False(t, r.IsVolatile("UNKNOWN"))
}

func TestCheckArity(t *testing.T) {
	desc := FuncDescriptor{Name: "F", MinArgs: 1, MaxArgs: 2}
	assert.NotNil(t, checkArity(desc, 0))
	assert.Nil(t, checkArity(desc, 1))
	assert.Nil(t, checkArity(desc, 2))
	assert.NotNil(t, checkArity(desc, 3))
}

func TestFuncArgFlattenAndFirst(t *testing.T) {
	scalar := FuncArg{Scalar: NewNumber(5)}
	assert.Equal(t, []Value{NewNumber(5)}, scalar.Flatten())
	assert.Equal(t, NewNumber(5), scalar.First())

	seq := FuncArg{IsSequence: true, Sequence: []Value{NewNumber(1), NewNumber(2)}}
	assert.Len(t, seq.Flatten(), 2)
	assert.Equal(t, NewNumber(1), seq.First())

	empty := FuncArg{IsSequence: true}
	assert.True(t, empty.First().IsEmpty())
}

func TestVolatileFunctionsUseInjectedSources(t *testing.T) {
	r := NewFunctionRegistry()
	r.functions = map[string]FuncDescriptor{}
	registerMathFunctions(r)
	registerVolatileFunctions(r, fixedClock{}, fixedRandom{value: 0.42})

	desc, ok := r.Lookup("RAND")
	require.True(t, ok)
	assert.Equal(t, 0.42, desc.Execute(nil).Num)
}

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

type fixedRandom struct{ value float64 }

func (f fixedRandom) Float64() float64 { return f.value }
