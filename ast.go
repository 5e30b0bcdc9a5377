package formula

import (
	"strconv"
	"strings"
)

// BinaryOp enumerates binary operators.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpPow
	OpConcat
	OpEqual
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
)

// UnaryOp enumerates unary operators.
type UnaryOp uint8

const (
	UnaryPlus UnaryOp = iota
	UnaryMinus
	UnaryPercent
)

// ASTNode is the tagged union of parsed expression nodes (spec §3/§9):
// pure data, visited by the evaluator's type switch rather than carrying
// its own Eval method.
type ASTNode interface {
	// ToString renders a normalized, whitespace-insensitive,
	// fully-parenthesized form, used for debugging and in tests.
	ToString() string
}

type NumberNode struct{ Value float64 }

func (n NumberNode) ToString() string { return FormatNumber(n.Value) }

type StringNode struct{ Value string }

func (n StringNode) ToString() string { return strconv.Quote(n.Value) }

type BooleanNode struct{ Value bool }

func (n BooleanNode) ToString() string {
	if n.Value {
		return "TRUE"
	}
	return "FALSE"
}

type ErrorLiteralNode struct{ Code ErrorCode }

func (n ErrorLiteralNode) ToString() string { return string(n.Code) }

type CellRefNode struct{ Addr Address }

func (n CellRefNode) ToString() string {
	prefix := ""
	if n.Addr.Sheet != "" {
		prefix = n.Addr.Sheet + "!"
	}
	return prefix + FormatAddress(n.Addr)
}

type RangeRefNode struct{ Range RangeAddr }

func (n RangeRefNode) ToString() string {
	prefix := ""
	if n.Range.Start.Sheet != "" {
		prefix = n.Range.Start.Sheet + "!"
	}
	return prefix + FormatAddress(n.Range.Start) + ":" + FormatAddress(n.Range.End)
}

type NamedRangeNode struct{ Name string }

func (n NamedRangeNode) ToString() string { return strings.ToUpper(n.Name) }

type BinaryOpNode struct {
	Op    BinaryOp
	Left  ASTNode
	Right ASTNode
}

func (n BinaryOpNode) ToString() string {
	return "(" + n.Left.ToString() + binaryOpSymbol(n.Op) + n.Right.ToString() + ")"
}

func binaryOpSymbol(op BinaryOp) string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpPow:
		return "^"
	case OpConcat:
		return "&"
	case OpEqual:
		return "="
	case OpNotEqual:
		return "<>"
	case OpLess:
		return "<"
	case OpLessEqual:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterEqual:
		return ">="
	}
	return "?"
}

type UnaryOpNode struct {
	Op   UnaryOp
	Expr ASTNode
}

func (n UnaryOpNode) ToString() string {
	switch n.Op {
	case UnaryPlus:
		return "(+" + n.Expr.ToString() + ")"
	case UnaryMinus:
		return "(-" + n.Expr.ToString() + ")"
	case UnaryPercent:
		return "(" + n.Expr.ToString() + "%)"
	}
	return n.Expr.ToString()
}

type FuncCallNode struct {
	Name string
	Args []ASTNode
}

func (n FuncCallNode) ToString() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.ToString()
	}
	return n.Name + "(" + strings.Join(parts, ",") + ")"
}

// ArrayNode is a rectangular sequence of sequences of nodes: {row1; row2}.
type ArrayNode struct{ Rows [][]ASTNode }

func (n ArrayNode) ToString() string {
	rows := make([]string, len(n.Rows))
	for i, row := range n.Rows {
		parts := make([]string, len(row))
		for j, e := range row {
			parts[j] = e.ToString()
		}
		rows[i] = strings.Join(parts, ",")
	}
	return "{" + strings.Join(rows, ";") + "}"
}

// WalkRefs folds over node collecting every single cell reference and
// every cell covered by a range reference (expanded), used by the
// dependency graph to determine precedents (spec §4.7). Named ranges are
// reported by name via onNamedRange so the caller can resolve their
// definitions separately.
func WalkRefs(node ASTNode, onCell func(Address), onRange func(RangeAddr), onNamedRange func(string)) {
	if node == nil {
		return
	}
	switch n := node.(type) {
	case CellRefNode:
		onCell(n.Addr)
	case RangeRefNode:
		onRange(n.Range)
	case NamedRangeNode:
		onNamedRange(n.Name)
	case BinaryOpNode:
		WalkRefs(n.Left, onCell, onRange, onNamedRange)
		WalkRefs(n.Right, onCell, onRange, onNamedRange)
	case UnaryOpNode:
		WalkRefs(n.Expr, onCell, onRange, onNamedRange)
	case FuncCallNode:
		for _, a := range n.Args {
			WalkRefs(a, onCell, onRange, onNamedRange)
		}
	case ArrayNode:
		for _, row := range n.Rows {
			for _, e := range row {
				WalkRefs(e, onCell, onRange, onNamedRange)
			}
		}
	}
}
