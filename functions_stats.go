package formula

import (
	"regexp"
	"strings"
)

// registerStatsFunctions wires COUNT, COUNTA, COUNTBLANK, COUNTIF, SUMIF
// per spec §4.5. COUNT/COUNTA follow builtin.go's COUNT/COUNTA bodies;
// COUNTBLANK/COUNTIF/SUMIF are built fresh from the spec's criteria
// grammar, which the teacher does not implement.
func registerStatsFunctions(r *FunctionRegistry) {
	r.Register(FuncDescriptor{Name: "COUNT", MinArgs: 0, MaxArgs: -1, Execute: fnCount})
	r.Register(FuncDescriptor{Name: "COUNTA", MinArgs: 0, MaxArgs: -1, Execute: fnCountA})
	r.Register(FuncDescriptor{Name: "COUNTBLANK", MinArgs: 1, MaxArgs: 1, Execute: fnCountBlank})
	r.Register(FuncDescriptor{Name: "COUNTIF", MinArgs: 2, MaxArgs: 2, Execute: fnCountIf})
	r.Register(FuncDescriptor{Name: "SUMIF", MinArgs: 2, MaxArgs: 3, Execute: fnSumIf})
}

func fnCount(args []FuncArg) Value {
	n := 0
	for _, v := range flattenAll(args) {
		if v.Kind == KindNumber {
			n++
		}
	}
	return NewNumber(float64(n))
}

func fnCountA(args []FuncArg) Value {
	n := 0
	for _, v := range flattenAll(args) {
		if !v.IsEmpty() {
			n++
		}
	}
	return NewNumber(float64(n))
}

func fnCountBlank(args []FuncArg) Value {
	n := 0
	for _, v := range args[0].Flatten() {
		if v.IsEmpty() {
			n++
		}
	}
	return NewNumber(float64(n))
}

func fnCountIf(args []FuncArg) Value {
	match := compileCriterion(args[1].First())
	n := 0
	for _, v := range args[0].Flatten() {
		if match(v) {
			n++
		}
	}
	return NewNumber(float64(n))
}

// fnSumIf sums sumRange entries whose corresponding range entry matches
// the criterion; with a separate sum-range of mismatched length, both are
// truncated to the shorter (spec §4.5).
func fnSumIf(args []FuncArg) Value {
	match := compileCriterion(args[1].First())
	testRange := args[0].Flatten()
	sumRange := testRange
	if len(args) == 3 {
		sumRange = args[2].Flatten()
	}
	n := len(testRange)
	if len(sumRange) < n {
		n = len(sumRange)
	}
	total := 0.0
	for i := 0; i < n; i++ {
		if match(testRange[i]) {
			numVal := sumRange[i].ToNumber()
			if numVal.Kind == KindNumber {
				total += numVal.Num
			}
		}
	}
	return NewNumber(total)
}

// compileCriterion builds a predicate from a COUNTIF/SUMIF-style
// criterion per spec §4.5: an optional leading comparison operator, else
// wildcard (*, ?) exact match, else case-insensitive exact match.
func compileCriterion(criterion Value) func(Value) bool {
	if criterion.Kind == KindNumber {
		target := criterion.Num
		return func(v Value) bool {
			n := v.ToNumber()
			return n.Kind == KindNumber && n.Num == target
		}
	}
	text := criterion.ToStringValue().Str
	for _, op := range []string{">=", "<=", "<>", ">", "<", "="} {
		if strings.HasPrefix(text, op) {
			rest := strings.TrimSpace(text[len(op):])
			if numVal, ok := parseDecimal(rest); ok {
				return numericCriterionPredicate(op, numVal)
			}
			return stringCriterionPredicate(op, rest)
		}
	}
	re := wildcardToRegexp(text)
	return func(v Value) bool {
		return re.MatchString(v.ToStringValue().Str)
	}
}

func numericCriterionPredicate(op string, target float64) func(Value) bool {
	return func(v Value) bool {
		n := v.ToNumber()
		if n.Kind != KindNumber {
			return false
		}
		switch op {
		case ">=":
			return n.Num >= target
		case "<=":
			return n.Num <= target
		case "<>":
			return n.Num != target
		case ">":
			return n.Num > target
		case "<":
			return n.Num < target
		case "=":
			return n.Num == target
		}
		return false
	}
}

func stringCriterionPredicate(op string, target string) func(Value) bool {
	return func(v Value) bool {
		s := v.ToStringValue().Str
		switch op {
		case "<>":
			return !strings.EqualFold(s, target)
		case "=":
			return strings.EqualFold(s, target)
		default:
			// comparisons against a non-numeric operand fall back to
			// case-insensitive string comparison.
			c := strings.Compare(strings.ToUpper(s), strings.ToUpper(target))
			switch op {
			case ">=":
				return c >= 0
			case "<=":
				return c <= 0
			case ">":
				return c > 0
			case "<":
				return c < 0
			}
			return false
		}
	}
}

// wildcardToRegexp expands * and ? to regex .* and ., anchoring the
// match across the whole string with case-insensitive comparison.
func wildcardToRegexp(pattern string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("(?i)^")
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	re, err := regexp.Compile(b.String())
	if err != nil {
		return regexp.MustCompile("^$")
	}
	return re
}
