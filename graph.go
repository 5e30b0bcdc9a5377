package formula

// cellKey is the dependency graph's internal map key: a packed integer
// triple, cheap to hash and compare, per spec §9's design note ("prefer
// a packed integer key (sheet_id × row × col)... Sheet names map to
// sheet ids via a small interned table"). AddressKey (address.go) remains
// the separately-tested canonical string form for external consumers.
type cellKey struct {
	sheetID uint32
	row     uint32
	col     uint32
}

// DependencyGraph maintains, per cell, the set of precedents (cells it
// reads) and dependents (cells that read it), per spec §4.7. Every
// mutation preserves the bidirectional symmetry invariant of spec §3:
// b ∈ precedents(a) ⇔ a ∈ dependents(b).
type DependencyGraph struct {
	sheetIDs   *SheetTable
	precedents map[cellKey]map[cellKey]bool
	dependents map[cellKey]map[cellKey]bool
}

// NewDependencyGraph builds an empty graph backed by the given sheet
// interning table (shared with the owning Workbook).
func NewDependencyGraph(sheetIDs *SheetTable) *DependencyGraph {
	return &DependencyGraph{
		sheetIDs:   sheetIDs,
		precedents: make(map[cellKey]map[cellKey]bool),
		dependents: make(map[cellKey]map[cellKey]bool),
	}
}

func (g *DependencyGraph) key(a Address) cellKey {
	return cellKey{sheetID: g.sheetIDs.Intern(a.Sheet), row: a.Row, col: a.Col}
}

func (g *DependencyGraph) addrFromKey(k cellKey) Address {
	name, _ := g.sheetIDs.Name(k.sheetID)
	return Address{Sheet: name, Row: k.row, Col: k.col}
}

// UpdateDependencies clears addr's existing precedent set (maintaining
// symmetry on the way out), then — if ast references any cells — walks
// it collecting every single cell reference and every cell covered by a
// range reference, wiring addr as their dependent (spec §4.7). A reference
// without a sheet qualifier resolves to addr's own sheet.
func (g *DependencyGraph) UpdateDependencies(addr Address, ast ASTNode) {
	k := g.key(addr)
	g.clearPrecedents(k)
	if ast == nil {
		return
	}
	seen := make(map[cellKey]bool)
	add := func(precedentAddr Address) {
		if precedentAddr.Sheet == "" {
			precedentAddr.Sheet = addr.Sheet
		}
		pk := g.key(precedentAddr)
		if pk == k || seen[pk] {
			return
		}
		seen[pk] = true
		g.link(k, pk)
	}
	WalkRefs(ast,
		func(a Address) { add(a) },
		func(r RangeAddr) {
			for _, a := range IterateRange(r) {
				if a.Sheet == "" {
					a.Sheet = r.Start.Sheet
				}
				add(a)
			}
		},
		func(string) { /* named ranges are resolved and re-walked by the caller */ },
	)
}

// linkExtraPrecedent adds precedentNode's references as precedents of
// dependent without clearing dependent's existing precedent set, for
// callers (named-range resolution) that wire edges outside the normal
// UpdateDependencies pass.
func (g *DependencyGraph) linkExtraPrecedent(dependent Address, precedentNode ASTNode) {
	dk := g.key(dependent)
	WalkRefs(precedentNode,
		func(a Address) { g.link(dk, g.key(a)) },
		func(r RangeAddr) {
			for _, a := range IterateRange(r) {
				if a.Sheet == "" {
					a.Sheet = r.Start.Sheet
				}
				g.link(dk, g.key(a))
			}
		},
		func(string) {},
	)
}

func (g *DependencyGraph) link(dependent, precedent cellKey) {
	if g.precedents[dependent] == nil {
		g.precedents[dependent] = make(map[cellKey]bool)
	}
	g.precedents[dependent][precedent] = true
	if g.dependents[precedent] == nil {
		g.dependents[precedent] = make(map[cellKey]bool)
	}
	g.dependents[precedent][dependent] = true
}

func (g *DependencyGraph) clearPrecedents(k cellKey) {
	for p := range g.precedents[k] {
		delete(g.dependents[p], k)
		if len(g.dependents[p]) == 0 {
			delete(g.dependents, p)
		}
	}
	delete(g.precedents, k)
}

// RemoveCell deletes addr from every precedent's dependents and every
// dependent's precedents, then deletes its own entries (spec §4.7).
func (g *DependencyGraph) RemoveCell(addr Address) {
	k := g.key(addr)
	g.clearPrecedents(k)
	for d := range g.dependents[k] {
		delete(g.precedents[d], k)
		if len(g.precedents[d]) == 0 {
			delete(g.precedents, d)
		}
	}
	delete(g.dependents, k)
}

// GetDependents returns addr's direct dependents, in no particular order.
func (g *DependencyGraph) GetDependents(addr Address) []Address {
	return g.keysToAddrs(g.dependents[g.key(addr)])
}

// GetPrecedents returns addr's direct precedents, in no particular order.
func (g *DependencyGraph) GetPrecedents(addr Address) []Address {
	return g.keysToAddrs(g.precedents[g.key(addr)])
}

func (g *DependencyGraph) keysToAddrs(set map[cellKey]bool) []Address {
	out := make([]Address, 0, len(set))
	for k := range set {
		out = append(out, g.addrFromKey(k))
	}
	return out
}

// GetRecalculationOrder computes the transitive closure of dependents
// reachable from changedCells (BFS), then topologically sorts that
// closure with Kahn's algorithm restricted to edges whose endpoints are
// both inside the closure: indegree-zero cells emit first, ties broken
// by insertion order into the ready queue (spec §4.7).
func (g *DependencyGraph) GetRecalculationOrder(changedCells []Address) []Address {
	order, _ := g.recalcOrderAndStuck(changedCells)
	out := make([]Address, len(order))
	for i, k := range order {
		out[i] = g.addrFromKey(k)
	}
	return out
}

// StuckInCycle returns every cell in changedCells' closure that Kahn's
// algorithm never emits because it never reaches indegree zero — i.e.
// every cell that is itself part of a cycle, or whose only path to a
// value runs through one. Recalculate uses this to mark those cells
// #CIRCULAR! instead of silently leaving them at a stale value.
func (g *DependencyGraph) StuckInCycle(changedCells []Address) []Address {
	_, stuck := g.recalcOrderAndStuck(changedCells)
	out := make([]Address, len(stuck))
	for i, k := range stuck {
		out[i] = g.addrFromKey(k)
	}
	return out
}

// recalcOrderAndStuck is the shared BFS-closure + Kahn's-sort pass behind
// GetRecalculationOrder and StuckInCycle: order is the topological order,
// stuck is every closure member Kahn's never dequeued.
func (g *DependencyGraph) recalcOrderAndStuck(changedCells []Address) (order []cellKey, stuck []cellKey) {
	closure := make(map[cellKey]bool)
	order = make([]cellKey, 0)
	queue := make([]cellKey, 0, len(changedCells))
	for _, a := range changedCells {
		k := g.key(a)
		if !closure[k] {
			closure[k] = true
			queue = append(queue, k)
		}
	}
	for len(queue) > 0 {
		k := queue[0]
		queue = queue[1:]
		for d := range g.dependents[k] {
			if !closure[d] {
				closure[d] = true
				queue = append(queue, d)
			}
		}
	}

	indegree := make(map[cellKey]int, len(closure))
	for k := range closure {
		count := 0
		for p := range g.precedents[k] {
			if closure[p] {
				count++
			}
		}
		indegree[k] = count
	}

	ready := make([]cellKey, 0, len(closure))
	// Deterministic seed order: iterate changedCells first (their
	// original order), then any remaining closure members, so ties break
	// by insertion order into the ready queue as specified.
	visited := make(map[cellKey]bool)
	seedOrder := make([]cellKey, 0, len(closure))
	for _, a := range changedCells {
		k := g.key(a)
		if !visited[k] {
			visited[k] = true
			seedOrder = append(seedOrder, k)
		}
	}
	for k := range closure {
		if !visited[k] {
			visited[k] = true
			seedOrder = append(seedOrder, k)
		}
	}
	for _, k := range seedOrder {
		if indegree[k] == 0 {
			ready = append(ready, k)
		}
	}

	for len(ready) > 0 {
		k := ready[0]
		ready = ready[1:]
		order = append(order, k)
		for d := range g.dependents[k] {
			if !closure[d] {
				continue
			}
			indegree[d]--
			if indegree[d] == 0 {
				ready = append(ready, d)
			}
		}
	}

	if len(order) < len(closure) {
		emitted := make(map[cellKey]bool, len(order))
		for _, k := range order {
			emitted[k] = true
		}
		for _, k := range seedOrder {
			if !emitted[k] {
				stuck = append(stuck, k)
			}
		}
	}

	return order, stuck
}

// colorState is the DFS color used for cycle detection.
type colorState uint8

const (
	colorWhite colorState = iota
	colorGray
	colorBlack
)

// HasCircularReference runs a DFS from start over precedents using an
// explicit stack (spec §9: avoid unbounded call depth on adversarial
// cycles); a revisit of a gray node is a cycle.
func (g *DependencyGraph) HasCircularReference(start Address) bool {
	found, _ := g.dfsForCycle(start)
	return found
}

// CircularReferenceCells returns the cycle path when one exists: the
// slice from the first occurrence of the repeated node to the current
// top of the stack, followed by the repeated node once more so the path
// closes on itself (spec §4.7). Returns nil when there is no cycle.
func (g *DependencyGraph) CircularReferenceCells(start Address) []Address {
	_, path := g.dfsForCycle(start)
	return path
}

type dfsFrame struct {
	key      cellKey
	iterator []cellKey
	idx      int
}

func (g *DependencyGraph) dfsForCycle(start Address) (bool, []Address) {
	startKey := g.key(start)
	color := make(map[cellKey]colorState)
	stackIndex := make(map[cellKey]int)
	stack := []dfsFrame{{key: startKey, iterator: g.sortedPrecedentKeys(startKey)}}
	color[startKey] = colorGray
	stackIndex[startKey] = 0

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.idx >= len(top.iterator) {
			color[top.key] = colorBlack
			stack = stack[:len(stack)-1]
			continue
		}
		next := top.iterator[top.idx]
		top.idx++
		switch color[next] {
		case colorWhite:
			color[next] = colorGray
			stackIndex[next] = len(stack)
			stack = append(stack, dfsFrame{key: next, iterator: g.sortedPrecedentKeys(next)})
		case colorGray:
			// found a cycle: build the path from next's position to the
			// current top of the stack.
			cyclePath := make([]Address, 0, len(stack))
			startIdx := stackIndex[next]
			for i := startIdx; i < len(stack); i++ {
				cyclePath = append(cyclePath, g.addrFromKey(stack[i].key))
			}
			cyclePath = append(cyclePath, g.addrFromKey(next))
			return true, cyclePath
		case colorBlack:
			// already fully explored, not part of a new cycle
		}
	}
	return false, nil
}

func (g *DependencyGraph) sortedPrecedentKeys(k cellKey) []cellKey {
	set := g.precedents[k]
	out := make([]cellKey, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	return out
}

// Clear removes every node and edge from the graph.
func (g *DependencyGraph) Clear() {
	g.precedents = make(map[cellKey]map[cellKey]bool)
	g.dependents = make(map[cellKey]map[cellKey]bool)
}

// Size returns the number of distinct cells with at least one precedent
// or dependent edge.
func (g *DependencyGraph) Size() int {
	seen := make(map[cellKey]bool)
	for k := range g.precedents {
		seen[k] = true
	}
	for k := range g.dependents {
		seen[k] = true
	}
	return len(seen)
}
