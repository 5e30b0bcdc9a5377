package formula

// Script is a thin fluent wrapper over Workbook for batch edits: call
// Set repeatedly, then Run once to resolve the full closure and
// recalculate in one pass, rather than recalculating after every single
// cell edit. Grounded on the teacher's RunnableSpreadsheet batch-setter
// (spec §9's Supplemented Features), kept because it adds convenience
// with no new evaluation semantics.
type Script struct {
	wb      *Workbook
	sheet   string
	pending []Address
	lastErr *EngineError
}

// NewScript opens a Script against wb, scoped to the given default
// sheet for unqualified cell addresses.
func NewScript(wb *Workbook, defaultSheet string) *Script {
	wb.SetSheet(defaultSheet)
	return &Script{wb: wb, sheet: defaultSheet}
}

// Sheet switches the default sheet subsequent Set calls target.
func (s *Script) Sheet(name string) *Script {
	s.wb.SetSheet(name)
	s.sheet = name
	return s
}

// Set parses and stores raw at the given A1-style address on the current
// sheet, queuing it for the next Run. A malformed address records the
// first such error, surfaced by Err; the call is otherwise a no-op.
func (s *Script) Set(a1 string, raw string) *Script {
	addr, ok := ParseAddress(a1)
	if !ok {
		if s.lastErr == nil {
			s.lastErr = newEngineError(ErrSyntax, "invalid address: "+a1)
		}
		return s
	}
	addr.Sheet = s.sheet
	changed, err := s.wb.SetCell(s.sheet, addr, raw)
	if err != nil && s.lastErr == nil {
		s.lastErr = err
	}
	s.pending = append(s.pending, changed...)
	return s
}

// DefineName registers a named range definition, visible to every
// subsequent formula that references it.
func (s *Script) DefineName(name, definition string) *Script {
	s.wb.NamedRanges.Define(name, definition)
	return s
}

// Run recalculates every cell queued by Set since the last Run (or since
// the Script was created) and clears the queue.
func (s *Script) Run() *Script {
	if len(s.pending) > 0 {
		s.wb.Recalculate(s.pending)
		s.pending = s.pending[:0]
	}
	return s
}

// Err returns the first parse/address error encountered by Set, if any.
func (s *Script) Err() *EngineError { return s.lastErr }

// Get reads back a cell's computed value by A1-style address on the
// current sheet.
func (s *Script) Get(a1 string) Value {
	addr, ok := ParseAddress(a1)
	if !ok {
		return NewError(ErrRef, "invalid address: "+a1)
	}
	addr.Sheet = s.sheet
	cell := s.wb.GetCell(s.sheet, addr)
	return cell.Computed
}

// Workbook exposes the underlying Workbook for callers that need the
// full façade (dependency queries, circular-reference checks).
func (s *Script) Workbook() *Workbook { return s.wb }
