package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sheetCase is a chainable test-scenario builder for multi-step workbook
// tests, trimmed from the teacher's SpreadsheetTestCase: Set/Run build up
// a scenario step by step, AssertCellEq/AssertCellStr/AssertCellErr/
// AssertCellEmpty check the result. A failed step records the failure
// and short-circuits every later call, same as the teacher's tc.err
// bookkeeping, so one bad Set doesn't cascade into unrelated assertion
// noise.
type sheetCase struct {
	t       require.TestingT
	assert  *assert.Assertions
	name    string
	wb      *Workbook
	sheet   string
	pending []Address
	failed  bool
}

func newSheetCase(t *testing.T, name string) *sheetCase {
	wb := NewWorkbook()
	wb.SetSheet("Sheet1")
	return &sheetCase{t: t, assert: assert.New(t), name: name, wb: wb, sheet: "Sheet1"}
}

// Sheet switches the active sheet that Set/AssertCell* target.
func (sc *sheetCase) Sheet(name string) *sheetCase {
	sc.wb.SetSheet(name)
	sc.sheet = name
	return sc
}

// Set writes raw into a1 on the active sheet and queues it for Run.
func (sc *sheetCase) Set(a1, raw string) *sheetCase {
	if sc.failed {
		return sc
	}
	addr, ok := ParseAddress(a1)
	if !ok {
		sc.t.Errorf("%s: Set(%s): not a valid address", sc.name, a1)
		sc.failed = true
		return sc
	}
	changed, err := sc.wb.SetCell(sc.sheet, addr, raw)
	if err != nil {
		sc.t.Errorf("%s: Set(%s) failed: %v", sc.name, a1, err)
		sc.failed = true
		return sc
	}
	sc.pending = append(sc.pending, changed...)
	return sc
}

// DefineName registers a named range's raw definition.
func (sc *sheetCase) DefineName(name, definition string) *sheetCase {
	if sc.failed {
		return sc
	}
	sc.wb.NamedRanges.Define(name, definition)
	return sc
}

// Run recalculates every cell queued by Set since the last Run.
func (sc *sheetCase) Run() *sheetCase {
	if sc.failed || len(sc.pending) == 0 {
		return sc
	}
	sc.wb.Recalculate(sc.pending)
	sc.pending = sc.pending[:0]
	return sc
}

func (sc *sheetCase) cell(a1 string) *Cell {
	addr, ok := ParseAddress(a1)
	if !ok {
		sc.t.Errorf("%s: %s: not a valid address", sc.name, a1)
		sc.failed = true
		return nil
	}
	return sc.wb.GetCell(sc.sheet, addr)
}

// AssertCellEq checks a cell's computed numeric value.
func (sc *sheetCase) AssertCellEq(a1 string, want float64) *sheetCase {
	if sc.failed {
		return sc
	}
	if c := sc.cell(a1); c != nil {
		sc.assert.InDelta(want, c.Computed.Num, 1e-10, "%s: cell %s", sc.name, a1)
	}
	return sc
}

// AssertCellStr checks a cell's computed string value.
func (sc *sheetCase) AssertCellStr(a1 string, want string) *sheetCase {
	if sc.failed {
		return sc
	}
	if c := sc.cell(a1); c != nil {
		sc.assert.Equal(want, c.Computed.Str, "%s: cell %s", sc.name, a1)
	}
	return sc
}

// AssertCellErr checks a cell computed to an error Value of exactly code.
func (sc *sheetCase) AssertCellErr(a1 string, code ErrorCode) *sheetCase {
	if sc.failed {
		return sc
	}
	c := sc.cell(a1)
	if c == nil {
		return sc
	}
	if sc.assert.True(c.Computed.IsError(), "%s: cell %s: want error %s, got %v", sc.name, a1, code, c.Computed) {
		sc.assert.Equal(code, c.Computed.Code, "%s: cell %s", sc.name, a1)
	}
	return sc
}

// AssertCellEmpty checks a cell never computed to anything.
func (sc *sheetCase) AssertCellEmpty(a1 string) *sheetCase {
	if sc.failed {
		return sc
	}
	if c := sc.cell(a1); c != nil {
		sc.assert.True(c.Computed.IsEmpty(), "%s: cell %s: want empty, got %v", sc.name, a1, c.Computed)
	}
	return sc
}
