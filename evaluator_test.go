package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalFormula(t *testing.T, wb *Workbook, body string) Value {
	t.Helper()
	node, err := ParseFormula(body)
	require.Nil(t, err, "ParseFormula(%q): %v", body, err)
	ctx := &EvalContext{Workbook: wb, CurrentSheet: "Sheet1", Evaluating: map[string]bool{}}
	return Evaluate(node, ctx)
}

func TestEvaluateArithmetic(t *testing.T) {
	wb := NewWorkbook()
	wb.SetSheet("Sheet1")
	v := evalFormula(t, wb, "1+2*3")
	assert.Equal(t, KindNumber, v.Kind)
	assert.Equal(t, 7.0, v.Num)
}

func TestEvaluateDivisionByZero(t *testing.T) {
	wb := NewWorkbook()
	wb.SetSheet("Sheet1")
	v := evalFormula(t, wb, "1/0")
	require.True(t, v.IsError())
	assert.Equal(t, ErrDiv0, v.Code)
}

func TestEvaluateErrorPropagation(t *testing.T) {
	wb := NewWorkbook()
	wb.SetSheet("Sheet1")
	v := evalFormula(t, wb, `#REF! + 1`)
	require.True(t, v.IsError())
	assert.Equal(t, ErrRef, v.Code)
}

func TestEvaluateCellRefReadsStoredValue(t *testing.T) {
	wb := NewWorkbook()
	wb.SetSheet("Sheet1")
	wb.SetCell("Sheet1", Address{Row: 0, Col: 0}, "42")
	v := evalFormula(t, wb, "A1*2")
	assert.Equal(t, 84.0, v.Num)
}

func TestEvaluateCellRefRecursesThroughDirtyFormula(t *testing.T) {
	wb := NewWorkbook()
	wb.SetSheet("Sheet1")
	wb.SetCell("Sheet1", Address{Row: 0, Col: 0}, "10")
	wb.SetCell("Sheet1", Address{Row: 1, Col: 0}, "=A1+5")
	v := evalFormula(t, wb, "A2*2")
	assert.Equal(t, 30.0, v.Num)
}

func TestEvaluateRangeAggregation(t *testing.T) {
	wb := NewWorkbook()
	wb.SetSheet("Sheet1")
	for i := uint32(0); i < 5; i++ {
		wb.SetCell("Sheet1", Address{Row: i, Col: 0}, FormatNumber(float64(i+1)))
	}
	v := evalFormula(t, wb, "SUM(A1:A5)")
	assert.Equal(t, 15.0, v.Num)
}

func TestEvaluateMixedTypeRangeIgnoresText(t *testing.T) {
	wb := NewWorkbook()
	wb.SetSheet("Sheet1")
	wb.SetCell("Sheet1", Address{Row: 0, Col: 0}, "1")
	wb.SetCell("Sheet1", Address{Row: 1, Col: 0}, "hello")
	wb.SetCell("Sheet1", Address{Row: 2, Col: 0}, "3")
	v := evalFormula(t, wb, "SUM(A1:A3)")
	assert.Equal(t, 4.0, v.Num)
}

func TestEvaluateIfError(t *testing.T) {
	wb := NewWorkbook()
	wb.SetSheet("Sheet1")
	v := evalFormula(t, wb, `IFERROR(1/0, "fallback")`)
	assert.Equal(t, "fallback", v.Str)
}

func TestEvaluateCountIfWildcard(t *testing.T) {
	wb := NewWorkbook()
	wb.SetSheet("Sheet1")
	wb.SetCell("Sheet1", Address{Row: 0, Col: 0}, "apple")
	wb.SetCell("Sheet1", Address{Row: 1, Col: 0}, "applesauce")
	wb.SetCell("Sheet1", Address{Row: 2, Col: 0}, "banana")
	v := evalFormula(t, wb, `COUNTIF(A1:A3, "apple*")`)
	assert.Equal(t, 2.0, v.Num)
}

func TestEvaluateCountIfComparison(t *testing.T) {
	wb := NewWorkbook()
	wb.SetSheet("Sheet1")
	for i := uint32(0); i < 5; i++ {
		wb.SetCell("Sheet1", Address{Row: i, Col: 0}, FormatNumber(float64(i+1)))
	}
	v := evalFormula(t, wb, `COUNTIF(A1:A5, ">3")`)
	assert.Equal(t, 2.0, v.Num)
}

func TestEvaluateCircularReferenceReturnsCircularError(t *testing.T) {
	wb := NewWorkbook()
	wb.SetSheet("Sheet1")
	wb.SetCell("Sheet1", Address{Row: 0, Col: 0}, "=B1")
	wb.SetCell("Sheet1", Address{Row: 0, Col: 1}, "=A1")
	ctx := &EvalContext{Workbook: wb, CurrentSheet: "Sheet1", Evaluating: map[string]bool{}}
	node, _ := ParseFormula("A1")
	v := Evaluate(node, ctx)
	require.True(t, v.IsError())
	assert.Equal(t, ErrCircular, v.Code)
}

func TestEvaluateNamedRangeUnknownIsName(t *testing.T) {
	wb := NewWorkbook()
	wb.SetSheet("Sheet1")
	v := evalFormula(t, wb, "Undefined")
	require.True(t, v.IsError())
	assert.Equal(t, ErrName, v.Code)
}

func TestEvaluateNamedRangeResolvesDefinition(t *testing.T) {
	wb := NewWorkbook()
	wb.SetSheet("Sheet1")
	wb.SetCell("Sheet1", Address{Row: 0, Col: 0}, "99")
	wb.NamedRanges.Define("MyCell", "Sheet1!A1")
	v := evalFormula(t, wb, "MyCell+1")
	assert.Equal(t, 100.0, v.Num)
}

func TestEvaluateConcatenation(t *testing.T) {
	wb := NewWorkbook()
	wb.SetSheet("Sheet1")
	v := evalFormula(t, wb, `"a"&"b"&1`)
	assert.Equal(t, "ab1", v.Str)
}

func TestEvaluateArrayReducesToFirstElement(t *testing.T) {
	wb := NewWorkbook()
	wb.SetSheet("Sheet1")
	v := evalFormula(t, wb, "{1,2;3,4}")
	assert.Equal(t, 1.0, v.Num)
}

func TestEvaluateUnknownFunctionIsNameError(t *testing.T) {
	wb := NewWorkbook()
	wb.SetSheet("Sheet1")
	v := evalFormula(t, wb, "NOTAFUNCTION(1)")
	require.True(t, v.IsError())
	assert.Equal(t, ErrName, v.Code)
}

func TestEvaluateArityErrorBeforeBodyRuns(t *testing.T) {
	wb := NewWorkbook()
	wb.SetSheet("Sheet1")
	v := evalFormula(t, wb, "ABS(1,2)")
	require.True(t, v.IsError())
}
