package formula

// TokenKind classifies a lexed token, per spec §3/§4.3.
type TokenKind uint8

const (
	TokNumber TokenKind = iota
	TokString
	TokBoolean
	TokError
	TokCellRef
	TokSheetRef
	TokNamedRange
	TokFunction
	TokOperator
	TokDelimiter
	TokWhitespace
	TokEOF
	TokInvalid
)

// Token is a single lexed unit: its kind, the exact source lexeme, its
// span, and an optional semantic payload attached by the lexer (e.g. the
// parsed number, or cell-reference column/row/absolute flags).
type Token struct {
	Kind   TokenKind
	Lexeme string
	Start  int
	End    int

	// Semantic payloads, populated depending on Kind.
	NumberValue float64
	BoolValue   bool
	ErrorCode   ErrorCode
	SheetName   string
	CellCol     uint32
	CellRow     uint32
	CellAbsCol  bool
	CellAbsRow  bool
}
