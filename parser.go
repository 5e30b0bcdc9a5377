package formula

// Parser is a recursive-descent / Pratt parser over a Lexer's token
// stream, implementing the precedence table of spec §4.4.
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser builds a Parser over an already-lexed token stream (EOF
// included).
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseFormula lexes and parses the body of a formula (the text after the
// leading '='). Returns an EngineError on failure: ErrSyntax for
// malformed input (trailing tokens after a complete expression included),
// ErrRef for a ':' operand that is not a cell reference or for range
// endpoints on different sheets, ErrValue for a ragged array literal.
func ParseFormula(body string) (ASTNode, *EngineError) {
	tokens := Tokenize(body)
	p := NewParser(tokens)
	node, err := p.parseRangeLevel()
	if err != nil {
		return nil, err
	}
	if p.current().Kind != TokEOF {
		return nil, newEngineError(ErrSyntax, "unexpected token after expression: "+p.current().Lexeme)
	}
	return node, nil
}

func (p *Parser) current() Token { return p.tokens[p.pos] }

func (p *Parser) advance() Token {
	tok := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) expectDelimiter(lexeme string) *EngineError {
	if p.current().Kind == TokDelimiter && p.current().Lexeme == lexeme {
		p.advance()
		return nil
	}
	return newEngineError(ErrSyntax, "expected '"+lexeme+"'")
}

// parseRangeLevel is the lowest-precedence level: "A1:B2" parsed such
// that both operands must already be cell-ref nodes, immediately folded
// into a range-ref node. Using ':' where an operand isn't a cell
// reference fails with ErrRef.
func (p *Parser) parseRangeLevel() (ASTNode, *EngineError) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.current().Kind == TokDelimiter && p.current().Lexeme == ":" {
		p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		leftCell, ok1 := left.(CellRefNode)
		rightCell, ok2 := right.(CellRefNode)
		if !ok1 || !ok2 {
			return nil, newEngineError(ErrRef, "range operator requires two cell references")
		}
		sheet, ok := reconcileSheets(leftCell.Addr.Sheet, rightCell.Addr.Sheet)
		if !ok {
			return nil, newEngineError(ErrRef, "range endpoints reference different sheets")
		}
		leftCell.Addr.Sheet = sheet
		rightCell.Addr.Sheet = sheet
		left = RangeRefNode{Range: RangeAddr{Start: leftCell.Addr, End: rightCell.Addr}}
	}
	return left, nil
}

func (p *Parser) parseComparison() (ASTNode, *EngineError) {
	left, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	for p.current().Kind == TokOperator && isComparisonOp(p.current().Lexeme) {
		opTok := p.advance()
		right, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		left = BinaryOpNode{Op: comparisonOpFromLexeme(opTok.Lexeme), Left: left, Right: right}
	}
	return left, nil
}

func isComparisonOp(lexeme string) bool {
	switch lexeme {
	case "=", "<>", "<", "<=", ">", ">=":
		return true
	}
	return false
}

func comparisonOpFromLexeme(lexeme string) BinaryOp {
	switch lexeme {
	case "=":
		return OpEqual
	case "<>":
		return OpNotEqual
	case "<":
		return OpLess
	case "<=":
		return OpLessEqual
	case ">":
		return OpGreater
	case ">=":
		return OpGreaterEqual
	}
	return OpEqual
}

func (p *Parser) parseConcat() (ASTNode, *EngineError) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.current().Kind == TokOperator && p.current().Lexeme == "&" {
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = BinaryOpNode{Op: OpConcat, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ASTNode, *EngineError) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.current().Kind == TokOperator && (p.current().Lexeme == "+" || p.current().Lexeme == "-") {
		opTok := p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		op := OpAdd
		if opTok.Lexeme == "-" {
			op = OpSub
		}
		left = BinaryOpNode{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ASTNode, *EngineError) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for p.current().Kind == TokOperator && (p.current().Lexeme == "*" || p.current().Lexeme == "/") {
		opTok := p.advance()
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		op := OpMul
		if opTok.Lexeme == "/" {
			op = OpDiv
		}
		left = BinaryOpNode{Op: op, Left: left, Right: right}
	}
	return left, nil
}

// parsePower is right-associative: recurse back into itself on the RHS.
func (p *Parser) parsePower() (ASTNode, *EngineError) {
	left, err := p.parseUnaryPrefix()
	if err != nil {
		return nil, err
	}
	if p.current().Kind == TokOperator && p.current().Lexeme == "^" {
		p.advance()
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		return BinaryOpNode{Op: OpPow, Left: left, Right: right}, nil
	}
	return left, nil
}

// parseUnaryPrefix is right-associative: "--5" is -(-5).
func (p *Parser) parseUnaryPrefix() (ASTNode, *EngineError) {
	if p.current().Kind == TokOperator && (p.current().Lexeme == "+" || p.current().Lexeme == "-") {
		opTok := p.advance()
		operand, err := p.parseUnaryPrefix()
		if err != nil {
			return nil, err
		}
		op := UnaryPlus
		if opTok.Lexeme == "-" {
			op = UnaryMinus
		}
		return UnaryOpNode{Op: op, Expr: operand}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ASTNode, *EngineError) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.current().Kind == TokOperator && p.current().Lexeme == "%" {
		p.advance()
		node = UnaryOpNode{Op: UnaryPercent, Expr: node}
	}
	return node, nil
}

func (p *Parser) parsePrimary() (ASTNode, *EngineError) {
	tok := p.current()
	switch tok.Kind {
	case TokNumber:
		p.advance()
		return NumberNode{Value: tok.NumberValue}, nil
	case TokString:
		p.advance()
		return StringNode{Value: tok.Lexeme}, nil
	case TokBoolean:
		p.advance()
		return BooleanNode{Value: tok.BoolValue}, nil
	case TokError:
		p.advance()
		return ErrorLiteralNode{Code: tok.ErrorCode}, nil
	case TokCellRef:
		p.advance()
		return CellRefNode{Addr: Address{
			Row: tok.CellRow, Col: tok.CellCol, AbsRow: tok.CellAbsRow, AbsCol: tok.CellAbsCol,
		}}, nil
	case TokNamedRange:
		p.advance()
		return NamedRangeNode{Name: tok.Lexeme}, nil
	case TokFunction:
		return p.parseFunctionCall()
	case TokSheetRef:
		return p.parseSheetQualified()
	case TokDelimiter:
		switch tok.Lexeme {
		case "(":
			p.advance()
			inner, err := p.parseRangeLevel()
			if err != nil {
				return nil, err
			}
			if e := p.expectDelimiter(")"); e != nil {
				return nil, e
			}
			return inner, nil
		case "{":
			return p.parseArrayLiteral()
		}
	}
	return nil, newEngineError(ErrSyntax, "unexpected token: "+tok.Lexeme)
}

func (p *Parser) parseSheetQualified() (ASTNode, *EngineError) {
	tok := p.advance() // TokSheetRef
	sheet := tok.SheetName
	inner, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	switch v := inner.(type) {
	case CellRefNode:
		v.Addr.Sheet = sheet
		return v, nil
	case NamedRangeNode:
		return v, nil
	default:
		return nil, newEngineError(ErrSyntax, "sheet qualifier must be followed by a cell reference")
	}
}

func (p *Parser) parseFunctionCall() (ASTNode, *EngineError) {
	nameTok := p.advance() // TokFunction, already uppercased by the lexer
	if e := p.expectDelimiter("("); e != nil {
		return nil, e
	}
	var args []ASTNode
	if !(p.current().Kind == TokDelimiter && p.current().Lexeme == ")") {
		for {
			arg, err := p.parseRangeLevel()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.current().Kind == TokDelimiter && p.current().Lexeme == "," {
				p.advance()
				if p.current().Kind == TokDelimiter && p.current().Lexeme == ")" {
					return nil, newEngineError(ErrSyntax, "trailing comma in argument list")
				}
				continue
			}
			break
		}
	}
	if e := p.expectDelimiter(")"); e != nil {
		return nil, e
	}
	return FuncCallNode{Name: nameTok.Lexeme, Args: args}, nil
}

func (p *Parser) parseArrayLiteral() (ASTNode, *EngineError) {
	p.advance() // '{'
	var rows [][]ASTNode
	for {
		row, err := p.parseArrayRow()
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
		if p.current().Kind == TokDelimiter && p.current().Lexeme == ";" {
			p.advance()
			continue
		}
		break
	}
	if e := p.expectDelimiter("}"); e != nil {
		return nil, e
	}
	rowLen := -1
	for _, row := range rows {
		if rowLen == -1 {
			rowLen = len(row)
		} else if len(row) != rowLen {
			return nil, newEngineError(ErrValue, "ragged array literal")
		}
	}
	return ArrayNode{Rows: rows}, nil
}

func (p *Parser) parseArrayRow() ([]ASTNode, *EngineError) {
	var elems []ASTNode
	for {
		elem, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
		if p.current().Kind == TokDelimiter && p.current().Lexeme == "," {
			p.advance()
			continue
		}
		break
	}
	return elems, nil
}
