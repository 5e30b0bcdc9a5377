package formula

import (
	"strings"
	"unicode/utf8"
)

// registerTextFunctions wires LEN, LEFT, RIGHT, MID, CONCATENATE, UPPER,
// LOWER, TRIM, TEXT per spec §4.5, grounded on builtin.go's
// LEN/UPPER/LOWER/TRIM/CONCATENATE bodies; LEFT/RIGHT/MID/TEXT are built
// fresh from the spec text since the teacher omits them.
func registerTextFunctions(r *FunctionRegistry) {
	r.Register(FuncDescriptor{Name: "LEN", MinArgs: 1, MaxArgs: 1, Execute: fnLen})
	r.Register(FuncDescriptor{Name: "LEFT", MinArgs: 1, MaxArgs: 2, Execute: fnLeft})
	r.Register(FuncDescriptor{Name: "RIGHT", MinArgs: 1, MaxArgs: 2, Execute: fnRight})
	r.Register(FuncDescriptor{Name: "MID", MinArgs: 3, MaxArgs: 3, Execute: fnMid})
	r.Register(FuncDescriptor{Name: "CONCATENATE", MinArgs: 0, MaxArgs: -1, Execute: fnConcatenate})
	r.Register(FuncDescriptor{Name: "UPPER", MinArgs: 1, MaxArgs: 1, Execute: fnUpper})
	r.Register(FuncDescriptor{Name: "LOWER", MinArgs: 1, MaxArgs: 1, Execute: fnLower})
	r.Register(FuncDescriptor{Name: "TRIM", MinArgs: 1, MaxArgs: 1, Execute: fnTrim})
	r.Register(FuncDescriptor{Name: "TEXT", MinArgs: 2, MaxArgs: 2, Execute: fnText})
}

func fnLen(args []FuncArg) Value {
	s := args[0].First().ToStringValue()
	return NewNumber(float64(utf8.RuneCountInString(s.Str)))
}

func fnLeft(args []FuncArg) Value {
	s := args[0].First().ToStringValue().Str
	n := 1
	if len(args) == 2 {
		nv := args[1].First().ToNumber()
		if nv.IsError() {
			return nv
		}
		n = int(nv.Num)
	}
	runes := []rune(s)
	if n < 0 {
		return NewError(ErrValue, "LEFT: negative length")
	}
	if n > len(runes) {
		n = len(runes)
	}
	return NewString(string(runes[:n]))
}

func fnRight(args []FuncArg) Value {
	s := args[0].First().ToStringValue().Str
	n := 1
	if len(args) == 2 {
		nv := args[1].First().ToNumber()
		if nv.IsError() {
			return nv
		}
		n = int(nv.Num)
	}
	runes := []rune(s)
	if n < 0 {
		return NewError(ErrValue, "RIGHT: negative length")
	}
	if n > len(runes) {
		n = len(runes)
	}
	return NewString(string(runes[len(runes)-n:]))
}

func fnMid(args []FuncArg) Value {
	s := args[0].First().ToStringValue().Str
	start := args[1].First().ToNumber()
	if start.IsError() {
		return start
	}
	length := args[2].First().ToNumber()
	if length.IsError() {
		return length
	}
	if start.Num < 1 || length.Num < 0 {
		return NewError(ErrValue, "MID: invalid start or length")
	}
	runes := []rune(s)
	from := int(start.Num) - 1
	if from > len(runes) {
		return NewString("")
	}
	to := from + int(length.Num)
	if to > len(runes) {
		to = len(runes)
	}
	return NewString(string(runes[from:to]))
}

func fnConcatenate(args []FuncArg) Value {
	var b strings.Builder
	for _, v := range flattenAll(args) {
		b.WriteString(v.ToStringValue().Str)
	}
	return NewString(b.String())
}

func fnUpper(args []FuncArg) Value {
	return NewString(strings.ToUpper(args[0].First().ToStringValue().Str))
}

func fnLower(args []FuncArg) Value {
	return NewString(strings.ToLower(args[0].First().ToStringValue().Str))
}

// fnTrim strips leading/trailing whitespace and collapses interior runs
// of whitespace to a single space (spec §4.5).
func fnTrim(args []FuncArg) Value {
	s := args[0].First().ToStringValue().Str
	fields := strings.Fields(s)
	return NewString(strings.Join(fields, " "))
}

// fnText returns the default string conversion of x; a format-code
// formatter is out of scope per spec §9.
func fnText(args []FuncArg) Value {
	return NewString(args[0].First().ToStringValue().Str)
}
