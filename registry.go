package formula

import "strings"

// FuncArg is one positional function argument: either a single Value or
// the flat row-major sequence produced by a range reference (spec §4.5).
type FuncArg struct {
	IsSequence bool
	Scalar     Value
	Sequence   []Value
}

// Flatten returns the argument as a slice regardless of its shape.
func (a FuncArg) Flatten() []Value {
	if a.IsSequence {
		return a.Sequence
	}
	return []Value{a.Scalar}
}

// First returns the argument's first value (its scalar, or the first
// element of its sequence; empty if the sequence is empty).
func (a FuncArg) First() Value {
	if !a.IsSequence {
		return a.Scalar
	}
	if len(a.Sequence) == 0 {
		return Empty()
	}
	return a.Sequence[0]
}

// FuncDescriptor is a registered built-in or user-defined function: a
// name, an arity range (MaxArgs == -1 is unbounded), and its body.
type FuncDescriptor struct {
	Name     string
	MinArgs  int
	MaxArgs  int
	Execute  func(args []FuncArg) Value
	Volatile bool
}

// FunctionRegistry is a process-wide (or per-context overlay) mapping
// from uppercase name to FuncDescriptor (spec §4.5/§9: an immutable base
// map plus a per-evaluation-context overlay for user-defined functions).
type FunctionRegistry struct {
	functions map[string]FuncDescriptor
}

// NewFunctionRegistry builds a registry preloaded with every built-in
// function family from spec §4.5.
func NewFunctionRegistry() *FunctionRegistry {
	r := &FunctionRegistry{functions: make(map[string]FuncDescriptor)}
	registerMathFunctions(r)
	registerLogicalFunctions(r)
	registerTextFunctions(r)
	registerStatsFunctions(r)
	registerVolatileFunctions(r, wallClock{}, defaultRandomSource{})
	return r
}

// Register adds or replaces a function descriptor; the name is
// uppercased so dispatch is case-insensitive (spec §4.4/§6's Function
// Extension Surface).
func (r *FunctionRegistry) Register(desc FuncDescriptor) {
	desc.Name = strings.ToUpper(desc.Name)
	r.functions[desc.Name] = desc
}

// Lookup returns the descriptor for an uppercase-insensitive name.
func (r *FunctionRegistry) Lookup(name string) (FuncDescriptor, bool) {
	d, ok := r.functions[strings.ToUpper(name)]
	return d, ok
}

// IsVolatile reports whether name is a volatile function (NOW, TODAY,
// RAND). The core does not auto-recalculate volatile cells (spec §1
// Non-goals); this is exposed purely as an embedder query, per
// SPEC_FULL's Supplemented Features.
func (r *FunctionRegistry) IsVolatile(name string) bool {
	d, ok := r.Lookup(name)
	return ok && d.Volatile
}

// checkArity validates argument count before Execute runs, per spec
// §4.5: "Arity violations produce an error before the body runs."
func checkArity(desc FuncDescriptor, n int) *EngineError {
	if n < desc.MinArgs {
		return newEngineError(ErrValue, desc.Name+": too few arguments")
	}
	if desc.MaxArgs >= 0 && n > desc.MaxArgs {
		return newEngineError(ErrValue, desc.Name+": too many arguments")
	}
	return nil
}

// argsCatchErrors lists functions that are allowed to receive error
// arguments without propagating them automatically (spec §4.5/§4.6/§7:
// "IFERROR is the only built-in that catches errors").
var argsCatchErrors = map[string]bool{
	"IFERROR": true,
}

// firstArgError returns the first error Value found among args' flattened
// elements, or the zero Value and false if none.
func firstArgError(args []FuncArg) (Value, bool) {
	for _, a := range args {
		for _, v := range a.Flatten() {
			if v.IsError() {
				return v, true
			}
		}
	}
	return Value{}, false
}

func toNumbersAndBools(values []Value) []float64 {
	var out []float64
	for _, v := range values {
		switch v.Kind {
		case KindNumber:
			out = append(out, v.Num)
		case KindBoolean:
			if v.Bool {
				out = append(out, 1)
			} else {
				out = append(out, 0)
			}
		}
	}
	return out
}

func flattenAll(args []FuncArg) []Value {
	var out []Value
	for _, a := range args {
		out = append(out, a.Flatten()...)
	}
	return out
}
