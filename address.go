package formula

import (
	"strconv"
	"strings"
)

// Address is a cell address: zero-based row/column plus an optional sheet
// name (empty when the address is unscoped, as inside a sheet's own
// formulas) and the absolute-reference flags recorded from the source
// text (spec §3/§4.2). Flags are preserved through parsing but do not
// affect evaluation.
type Address struct {
	Row    uint32
	Col    uint32
	Sheet  string
	AbsRow bool
	AbsCol bool
}

// RangeAddr is an axis-aligned rectangle of cells sharing a sheet.
type RangeAddr struct {
	Start Address
	End   Address
}

// AddressKey is the canonical text key used by the dependency graph:
// "sheet!row,col", with an empty sheet prefix when unscoped.
func AddressKey(a Address) string {
	return a.Sheet + "!" + strconv.FormatUint(uint64(a.Row), 10) + "," + strconv.FormatUint(uint64(a.Col), 10)
}

// ColumnLetters converts a zero-based column index to its A, B, ..., Z,
// AA, AB, ... letter form.
func ColumnLetters(col uint32) string {
	col64 := int64(col) + 1
	var b []byte
	for col64 > 0 {
		col64--
		b = append([]byte{byte('A' + col64%26)}, b...)
		col64 /= 26
	}
	return string(b)
}

// ParseColumnLetters converts an uppercase column-letter run (A-Z, AA-ZZ,
// ...) to a zero-based column index. Returns false if the text is not a
// valid letter run.
func ParseColumnLetters(letters string) (uint32, bool) {
	if letters == "" {
		return 0, false
	}
	var n uint64
	for _, r := range letters {
		if r < 'A' || r > 'Z' {
			return 0, false
		}
		n = n*26 + uint64(r-'A'+1)
	}
	return uint32(n - 1), true
}

// ParseAddress parses an A1-style address such as "A1" or "$B$12" into an
// Address. Row and column are zero-based internally; the lexeme's row
// digits are 1-based.
func ParseAddress(text string) (Address, bool) {
	i := 0
	absCol := false
	if i < len(text) && text[i] == '$' {
		absCol = true
		i++
	}
	start := i
	for i < len(text) && text[i] >= 'A' && text[i] <= 'Z' {
		i++
	}
	if i == start {
		return Address{}, false
	}
	col, ok := ParseColumnLetters(text[start:i])
	if !ok {
		return Address{}, false
	}
	absRow := false
	if i < len(text) && text[i] == '$' {
		absRow = true
		i++
	}
	rowStart := i
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	if i == rowStart || i != len(text) {
		return Address{}, false
	}
	rowNum, err := strconv.ParseUint(text[rowStart:i], 10, 32)
	if err != nil || rowNum == 0 {
		return Address{}, false
	}
	return Address{Row: uint32(rowNum - 1), Col: col, AbsRow: absRow, AbsCol: absCol}, true
}

// FormatAddress renders an Address back to A1-style text (without its
// sheet qualifier), preserving absolute-reference flags.
func FormatAddress(a Address) string {
	var b strings.Builder
	if a.AbsCol {
		b.WriteByte('$')
	}
	b.WriteString(ColumnLetters(a.Col))
	if a.AbsRow {
		b.WriteByte('$')
	}
	b.WriteString(strconv.FormatUint(uint64(a.Row)+1, 10))
	return b.String()
}

// ParseRangeReference parses "A1:B10" (optionally sheet-qualified) into a
// RangeAddr. If both endpoints carry a sheet qualifier, they must match;
// a mismatch fails (caller should surface #REF!).
func ParseRangeReference(text string) (RangeAddr, bool) {
	parts := strings.SplitN(text, ":", 2)
	if len(parts) != 2 {
		return RangeAddr{}, false
	}
	startSheet, startAddr, ok1 := splitSheetQualifier(parts[0])
	endSheet, endAddr, ok2 := splitSheetQualifier(parts[1])
	if !ok1 || !ok2 {
		return RangeAddr{}, false
	}
	start, ok := ParseAddress(startAddr)
	if !ok {
		return RangeAddr{}, false
	}
	end, ok := ParseAddress(endAddr)
	if !ok {
		return RangeAddr{}, false
	}
	sheet, ok := reconcileSheets(startSheet, endSheet)
	if !ok {
		return RangeAddr{}, false
	}
	start.Sheet = sheet
	end.Sheet = sheet
	return RangeAddr{Start: start, End: end}, true
}

func splitSheetQualifier(text string) (sheet string, addr string, ok bool) {
	if idx := strings.LastIndex(text, "!"); idx >= 0 {
		return unquoteSheetName(text[:idx]), text[idx+1:], true
	}
	return "", text, true
}

func unquoteSheetName(name string) string {
	if len(name) >= 2 && name[0] == '\'' && name[len(name)-1] == '\'' {
		inner := name[1 : len(name)-1]
		return strings.ReplaceAll(inner, "''", "'")
	}
	return name
}

func reconcileSheets(a, b string) (string, bool) {
	if a == "" {
		return b, true
	}
	if b == "" {
		return a, true
	}
	if a != b {
		return "", false
	}
	return a, true
}

// IterateRange yields every Address in r in row-major order, walking
// min_row..=max_row × min_col..=max_col regardless of how the endpoints
// were given.
func IterateRange(r RangeAddr) []Address {
	minRow, maxRow := r.Start.Row, r.End.Row
	if minRow > maxRow {
		minRow, maxRow = maxRow, minRow
	}
	minCol, maxCol := r.Start.Col, r.End.Col
	if minCol > maxCol {
		minCol, maxCol = maxCol, minCol
	}
	sheet := r.Start.Sheet
	if sheet == "" {
		sheet = r.End.Sheet
	}
	addrs := make([]Address, 0, int(maxRow-minRow+1)*int(maxCol-minCol+1))
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			addrs = append(addrs, Address{Row: row, Col: col, Sheet: sheet})
		}
	}
	return addrs
}
