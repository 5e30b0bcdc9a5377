package formula

import "strings"

// SheetTable interns sheet names to small sheet ids, per spec §9's design
// note and grounded on worksheet.go's WorksheetTable. Sheet id 0 is
// reserved for "no sheet" (an empty/unscoped address).
type SheetTable struct {
	nameToID map[string]uint32
	idToName map[uint32]string
	nextID   uint32
}

func NewSheetTable() *SheetTable {
	return &SheetTable{nameToID: make(map[string]uint32), idToName: make(map[uint32]string), nextID: 1}
}

// Intern returns the id for name, assigning a new one if unseen. The
// empty sheet name always maps to id 0.
func (st *SheetTable) Intern(name string) uint32 {
	if name == "" {
		return 0
	}
	if id, ok := st.nameToID[name]; ok {
		return id
	}
	id := st.nextID
	st.nextID++
	st.nameToID[name] = id
	st.idToName[id] = name
	return id
}

// Name returns the sheet name for an id, or "" for id 0.
func (st *SheetTable) Name(id uint32) (string, bool) {
	if id == 0 {
		return "", true
	}
	name, ok := st.idToName[id]
	return name, ok
}

// NamedRangeTable maps case-insensitive names to raw definition text
// (e.g. "Sheet1!A1:A10"), grounded on range.go's NamedRangeTable, per the
// spec §9 Open Question: named-range resolution is implemented fully
// rather than always returning NAME.
type NamedRangeTable struct {
	definitions map[string]string // upper(name) -> raw definition
	displayName map[string]string // upper(name) -> original-case name
}

func NewNamedRangeTable() *NamedRangeTable {
	return &NamedRangeTable{definitions: make(map[string]string), displayName: make(map[string]string)}
}

// Define registers or replaces a named range's definition.
func (nr *NamedRangeTable) Define(name, definition string) {
	key := strings.ToUpper(name)
	nr.definitions[key] = definition
	nr.displayName[key] = name
}

// Remove deletes a named range's definition.
func (nr *NamedRangeTable) Remove(name string) {
	key := strings.ToUpper(name)
	delete(nr.definitions, key)
	delete(nr.displayName, key)
}

// Resolve looks up a named range's raw definition, case-insensitively.
func (nr *NamedRangeTable) Resolve(name string) (string, bool) {
	def, ok := nr.definitions[strings.ToUpper(name)]
	return def, ok
}

// List returns every (name, definition) pair, in the display-name casing
// they were defined with.
func (nr *NamedRangeTable) List() []NamedRangeEntry {
	out := make([]NamedRangeEntry, 0, len(nr.definitions))
	for key, def := range nr.definitions {
		out = append(out, NamedRangeEntry{Name: nr.displayName[key], Definition: def})
	}
	return out
}

// NamedRangeEntry is one (name, definition) pair.
type NamedRangeEntry struct {
	Name       string
	Definition string
}

// Cell is a single spreadsheet cell: its raw text, whether that text is a
// formula, its parsed AST (present iff it's a formula that parsed
// successfully), and its last-computed Value (spec §3).
type Cell struct {
	Address   Address
	Raw       string
	IsFormula bool
	AST       ASTNode
	Computed  Value
	dirty     bool
}

// MaxRows and MaxCols bound valid addresses (spec §6: "addresses within
// 0 <= row < row_count, 0 <= col < col_count"), matching Excel's own
// worksheet grid so ColumnLetters/ParseAddress round-trip every address
// SetCell will accept.
const (
	MaxRows = 1048576
	MaxCols = 16384
)

// Sheet is a named collection of cells, sparse: absent addresses are
// implicitly empty (spec §3).
type Sheet struct {
	Name       string
	worksheetID uint32
	cells      map[cellKey]*Cell
}

func newSheet(name string, id uint32) *Sheet {
	return &Sheet{Name: name, worksheetID: id, cells: make(map[cellKey]*Cell)}
}

func sheetCellKey(a Address) cellKey { return cellKey{row: a.Row, col: a.Col} }

func (s *Sheet) getCellNoCreate(addr Address) *Cell {
	return s.cells[sheetCellKey(addr)]
}

func (s *Sheet) getOrCreateCell(addr Address) *Cell {
	k := sheetCellKey(addr)
	c, ok := s.cells[k]
	if !ok {
		c = &Cell{Address: addr, Computed: Empty()}
		s.cells[k] = c
	}
	return c
}

// Workbook is the only interface the embedding application sees for the
// core (spec §4.8/§6): sheets, cells, named ranges, and the
// recalculation entry points.
type Workbook struct {
	sheetOrder  []string
	sheets      map[string]*Sheet
	sheetTable  *SheetTable
	NamedRanges *NamedRangeTable
	Functions   *FunctionRegistry
	graph       *DependencyGraph
}

// NewWorkbook builds an empty workbook with the default built-in
// function registry.
func NewWorkbook() *Workbook {
	sheetTable := NewSheetTable()
	return &Workbook{
		sheets:      make(map[string]*Sheet),
		sheetTable:  sheetTable,
		NamedRanges: NewNamedRangeTable(),
		Functions:   NewFunctionRegistry(),
		graph:       NewDependencyGraph(sheetTable),
	}
}

// SetSheet adds a new, empty sheet named name if one does not already
// exist, and returns it either way.
func (w *Workbook) SetSheet(name string) *Sheet {
	if s, ok := w.sheets[name]; ok {
		return s
	}
	id := w.sheetTable.Intern(name)
	s := newSheet(name, id)
	w.sheets[name] = s
	w.sheetOrder = append(w.sheetOrder, name)
	return s
}

// GetSheetByName looks up a sheet by its exact name.
func (w *Workbook) GetSheetByName(name string) (*Sheet, bool) {
	s, ok := w.sheets[name]
	return s, ok
}

// IterateSheets returns sheets in the order they were added.
func (w *Workbook) IterateSheets() []*Sheet {
	out := make([]*Sheet, 0, len(w.sheetOrder))
	for _, name := range w.sheetOrder {
		out = append(out, w.sheets[name])
	}
	return out
}

// GetCell returns the cell at sheet!addr, lazily creating an empty one
// for never-set addresses (spec §4.8).
func (w *Workbook) GetCell(sheetName string, addr Address) *Cell {
	s := w.SetSheet(sheetName)
	return s.getOrCreateCell(addr)
}

// SetCell parses raw, updates is_formula/AST, updates the dependency
// graph, and returns the set of cells that must be recalculated as a
// result (spec §4.8). The returned set is just {addr}, the seed that
// callers pass to Recalculate, which expands it to the transitive
// closure of dependents.
func (w *Workbook) SetCell(sheetName string, addr Address, raw string) ([]Address, *EngineError) {
	if addr.Row >= MaxRows || addr.Col >= MaxCols {
		return nil, newEngineError(ErrBounds, "address out of bounds")
	}
	s := w.SetSheet(sheetName)
	addr.Sheet = sheetName
	cell := s.getOrCreateCell(addr)
	cell.Raw = raw

	isFormula := strings.HasPrefix(raw, "=")
	cell.IsFormula = isFormula

	if !isFormula {
		cell.AST = nil
		cell.Computed = ParseInput(raw)
		cell.dirty = false
		w.graph.UpdateDependencies(addr, nil)
		return w.changedSetFor(addr), nil
	}

	ast, perr := ParseFormula(raw[1:])
	if perr != nil {
		cell.AST = nil
		cell.Computed = perr.AsValue()
		cell.dirty = false
		w.graph.UpdateDependencies(addr, nil)
		return w.changedSetFor(addr), nil
	}
	cell.AST = ast
	cell.dirty = true
	w.graph.UpdateDependencies(addr, ast)
	w.wireNamedRangePrecedents(addr, ast, sheetName)
	return w.changedSetFor(addr), nil
}

// wireNamedRangePrecedents links addr as a dependent of every cell a
// named range it references resolves to, so edits to those cells still
// schedule addr for recalculation even though UpdateDependencies' own
// walk treats named ranges as opaque (spec §9: named ranges are resolved
// fully, so their precedents must join the graph too).
func (w *Workbook) wireNamedRangePrecedents(addr Address, ast ASTNode, sheetName string) {
	WalkRefs(ast, func(Address) {}, func(RangeAddr) {}, func(name string) {
		def, ok := w.NamedRanges.Resolve(name)
		if !ok {
			return
		}
		if rng, ok := ParseRangeReference(def); ok {
			if rng.Start.Sheet == "" {
				rng.Start.Sheet = sheetName
			}
			rangeNode := RangeRefNode{Range: rng}
			w.graph.linkExtraPrecedent(addr, rangeNode)
			return
		}
		defSheet, cellText, _ := splitSheetQualifier(def)
		if cellAddr, ok := ParseAddress(cellText); ok {
			if defSheet == "" {
				defSheet = sheetName
			}
			cellAddr.Sheet = defSheet
			w.graph.linkExtraPrecedent(addr, CellRefNode{Addr: cellAddr})
		}
	})
}

func (w *Workbook) changedSetFor(addr Address) []Address {
	return []Address{addr}
}

// Remove deletes the cell at sheet!addr entirely, removing it from the
// dependency graph too.
func (w *Workbook) Remove(sheetName string, addr Address) {
	addr.Sheet = sheetName
	s := w.SetSheet(sheetName)
	delete(s.cells, sheetCellKey(addr))
	w.graph.RemoveCell(addr)
}

// GetDependents / GetPrecedents / GetRecalculationOrder /
// HasCircularReference / CircularReferenceCells delegate straight to the
// dependency graph (spec §4.8's exposed surface).
func (w *Workbook) GetDependents(sheetName string, addr Address) []Address {
	addr.Sheet = sheetName
	return w.graph.GetDependents(addr)
}

func (w *Workbook) GetPrecedents(sheetName string, addr Address) []Address {
	addr.Sheet = sheetName
	return w.graph.GetPrecedents(addr)
}

func (w *Workbook) GetRecalculationOrder(changed []Address) []Address {
	return w.graph.GetRecalculationOrder(changed)
}

func (w *Workbook) HasCircularReference(sheetName string, addr Address) bool {
	addr.Sheet = sheetName
	return w.graph.HasCircularReference(addr)
}

func (w *Workbook) CircularReferenceCells(sheetName string, addr Address) []Address {
	addr.Sheet = sheetName
	return w.graph.CircularReferenceCells(addr)
}

// Recalculate runs GetRecalculationOrder then, for each cell in order,
// evaluates it and writes the new Value (spec §4.8). Non-formula cells
// in the order are skipped (their Computed value was already set by
// ParseInput in SetCell); formula cells are re-evaluated with a fresh
// evaluating-set so #CIRCULAR! is detected per pass. Cells that Kahn's
// algorithm can never dequeue — because they sit on a cycle, or only
// reach a value through one — never get an indegree-zero turn at all;
// those are written #CIRCULAR! directly instead of being left at
// whatever value they held before the edit (spec §4.7's
// has_circular_reference/circular_reference_cells are the detectors,
// but a caller who only calls recalculate still needs a diagnostic
// value in the cell, not silence).
func (w *Workbook) Recalculate(changed []Address) {
	order := w.graph.GetRecalculationOrder(changed)
	evaluating := make(map[string]bool)
	for _, addr := range order {
		sheet, ok := w.GetSheetByName(addr.Sheet)
		if !ok {
			continue
		}
		cell := sheet.getCellNoCreate(addr)
		if cell == nil || !cell.IsFormula || cell.AST == nil {
			continue
		}
		ctx := &EvalContext{Workbook: w, CurrentSheet: addr.Sheet, CurrentCell: addr, Evaluating: evaluating}
		key := AddressKey(addr)
		evaluating[key] = true
		cell.Computed = Evaluate(cell.AST, ctx)
		delete(evaluating, key)
		cell.dirty = false
	}

	for _, addr := range w.graph.StuckInCycle(changed) {
		sheet, ok := w.GetSheetByName(addr.Sheet)
		if !ok {
			continue
		}
		cell := sheet.getCellNoCreate(addr)
		if cell == nil || !cell.IsFormula {
			continue
		}
		cell.Computed = NewError(ErrCircular, "circular reference")
		cell.dirty = false
	}
}
