package formula

import "math"

// registerMathFunctions wires SUM, AVERAGE, MIN, MAX, ABS, ROUND, SQRT,
// POWER, per spec §4.5, grounded on builtin.go's SUM/AVERAGE/MIN/MAX/
// ABS/ROUND/SQRT/POWER bodies.
func registerMathFunctions(r *FunctionRegistry) {
	r.Register(FuncDescriptor{Name: "SUM", MinArgs: 0, MaxArgs: -1, Execute: fnSum})
	r.Register(FuncDescriptor{Name: "AVERAGE", MinArgs: 1, MaxArgs: -1, Execute: fnAverage})
	r.Register(FuncDescriptor{Name: "MIN", MinArgs: 0, MaxArgs: -1, Execute: fnMin})
	r.Register(FuncDescriptor{Name: "MAX", MinArgs: 0, MaxArgs: -1, Execute: fnMax})
	r.Register(FuncDescriptor{Name: "ABS", MinArgs: 1, MaxArgs: 1, Execute: fnAbs})
	r.Register(FuncDescriptor{Name: "ROUND", MinArgs: 2, MaxArgs: 2, Execute: fnRound})
	r.Register(FuncDescriptor{Name: "SQRT", MinArgs: 1, MaxArgs: 1, Execute: fnSqrt})
	r.Register(FuncDescriptor{Name: "POWER", MinArgs: 2, MaxArgs: 2, Execute: fnPower})
}

// numericSelection flattens all arguments and keeps only number/boolean
// values, coercing booleans to 1/0; strings and empties are ignored, per
// spec §4.5.
func numericSelection(args []FuncArg) []float64 {
	return toNumbersAndBools(flattenAll(args))
}

func fnSum(args []FuncArg) Value {
	total := 0.0
	for _, n := range numericSelection(args) {
		total += n
	}
	return NewNumber(total)
}

func fnAverage(args []FuncArg) Value {
	nums := numericSelection(args)
	if len(nums) == 0 {
		return NewError(ErrDiv0, "AVERAGE of empty selection")
	}
	total := 0.0
	for _, n := range nums {
		total += n
	}
	return NewNumber(total / float64(len(nums)))
}

func fnMin(args []FuncArg) Value {
	nums := numericSelection(args)
	if len(nums) == 0 {
		return NewNumber(0)
	}
	m := nums[0]
	for _, n := range nums[1:] {
		if n < m {
			m = n
		}
	}
	return NewNumber(m)
}

func fnMax(args []FuncArg) Value {
	nums := numericSelection(args)
	if len(nums) == 0 {
		return NewNumber(0)
	}
	m := nums[0]
	for _, n := range nums[1:] {
		if n > m {
			m = n
		}
	}
	return NewNumber(m)
}

func fnAbs(args []FuncArg) Value {
	n := args[0].First().ToNumber()
	if n.IsError() {
		return n
	}
	return NewNumber(math.Abs(n.Num))
}

// fnRound implements spec §4.5: round half away from zero to n decimal
// digits, as round(x · 10ⁿ) / 10ⁿ.
func fnRound(args []FuncArg) Value {
	x := args[0].First().ToNumber()
	if x.IsError() {
		return x
	}
	nDigits := args[1].First().ToNumber()
	if nDigits.IsError() {
		return nDigits
	}
	scale := math.Pow(10, nDigits.Num)
	scaled := x.Num * scale
	rounded := math.Floor(math.Abs(scaled) + 0.5)
	if scaled < 0 {
		rounded = -rounded
	}
	result := rounded / scale
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return NewError(ErrNum, "ROUND result out of range")
	}
	return NewNumber(result)
}

func fnSqrt(args []FuncArg) Value {
	x := args[0].First().ToNumber()
	if x.IsError() {
		return x
	}
	if x.Num < 0 {
		return NewError(ErrNum, "SQRT of negative number")
	}
	return NewNumber(math.Sqrt(x.Num))
}

// fnPower implements x^y; a non-finite result becomes #NUM! (spec §4.5).
func fnPower(args []FuncArg) Value {
	base := args[0].First().ToNumber()
	if base.IsError() {
		return base
	}
	exp := args[1].First().ToNumber()
	if exp.IsError() {
		return exp
	}
	result := math.Pow(base.Num, exp.Num)
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return NewError(ErrNum, "POWER result out of range")
	}
	return NewNumber(result)
}
