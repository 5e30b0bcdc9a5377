package formula

// registerLogicalFunctions wires IF, AND, OR, NOT, TRUE, FALSE, IFERROR
// per spec §4.5, grounded on builtin.go's IF/AND/OR/NOT bodies.
//
// The evaluator, not Execute, is where eager-argument evaluation happens
// (spec §4.5: "the evaluator... eagerly evaluates all arguments to
// simplify this version"); these bodies only see already-evaluated
// FuncArgs, matching that contract.
func registerLogicalFunctions(r *FunctionRegistry) {
	r.Register(FuncDescriptor{Name: "IF", MinArgs: 2, MaxArgs: 3, Execute: fnIf})
	r.Register(FuncDescriptor{Name: "AND", MinArgs: 1, MaxArgs: -1, Execute: fnAnd})
	r.Register(FuncDescriptor{Name: "OR", MinArgs: 1, MaxArgs: -1, Execute: fnOr})
	r.Register(FuncDescriptor{Name: "NOT", MinArgs: 1, MaxArgs: 1, Execute: fnNot})
	r.Register(FuncDescriptor{Name: "TRUE", MinArgs: 0, MaxArgs: 0, Execute: func([]FuncArg) Value { return NewBoolean(true) }})
	r.Register(FuncDescriptor{Name: "FALSE", MinArgs: 0, MaxArgs: 0, Execute: func([]FuncArg) Value { return NewBoolean(false) }})
	r.Register(FuncDescriptor{Name: "IFERROR", MinArgs: 2, MaxArgs: 2, Execute: fnIfError})
}

func fnIf(args []FuncArg) Value {
	cond := args[0].First().ToBoolean()
	if cond.IsError() {
		return cond
	}
	if cond.Bool {
		return args[1].First()
	}
	if len(args) == 3 {
		return args[2].First()
	}
	return NewBoolean(false)
}

func fnAnd(args []FuncArg) Value {
	result := true
	for _, v := range flattenAll(args) {
		b := v.ToBoolean()
		if b.IsError() {
			return b
		}
		result = result && b.Bool
	}
	return NewBoolean(result)
}

func fnOr(args []FuncArg) Value {
	result := false
	for _, v := range flattenAll(args) {
		b := v.ToBoolean()
		if b.IsError() {
			return b
		}
		result = result || b.Bool
	}
	return NewBoolean(result)
}

func fnNot(args []FuncArg) Value {
	b := args[0].First().ToBoolean()
	if b.IsError() {
		return b
	}
	return NewBoolean(!b.Bool)
}

// fnIfError is the only built-in permitted to see an error argument
// without the generic propagation short-circuit kicking in first (spec
// §4.5/§7).
func fnIfError(args []FuncArg) Value {
	x := args[0].First()
	if x.IsError() {
		return args[1].First()
	}
	return x
}
