package engine

import (
	"fmt"
	"sort"

	"github.com/piwi3910/SquareFill/internal/model"
)

// cell is one arena slot of the grid.
type cell struct {
	exists   bool
	nearest  [model.DirCount]model.Pos // Closest existing point per direction
	linked   [model.DirCount]bool      // Whether nearest[d] is set
	children []model.Pos               // Points created by squares using this point, sorted
	added    bool                      // Created by a square rather than given as input
	addedBy  model.Square
}

// PointInfo is a read-only view of an existing point.
type PointInfo struct {
	Pos      model.Pos
	Nearest  [model.DirCount]model.Pos
	Linked   [model.DirCount]bool
	Children []model.Pos
	AddedBy  *model.Square // nil for initial points
}

// Grid owns the points, the edge flags, and the nearest-neighbour links of an
// n×n board. Every flag flips only through AddPoint/RemovePoint and
// Connect/Disconnect.
type Grid struct {
	size  int
	cells []cell
	edges []uint8 // Bit d set when an edge leaves the cell in direction d

	// Existing points in no particular order, for uniform sampling.
	order    []model.Pos
	orderIdx []int32
}

func NewGrid(n int) *Grid {
	g := &Grid{
		size:     n,
		cells:    make([]cell, n*n),
		edges:    make([]uint8, n*n),
		orderIdx: make([]int32, n*n),
	}
	for i := range g.orderIdx {
		g.orderIdx[i] = -1
	}
	return g
}

func (g *Grid) Size() int { return g.size }

func (g *Grid) idx(p model.Pos) int { return p.Y*g.size + p.X }

// InBounds reports whether p lies on the board.
func (g *Grid) InBounds(p model.Pos) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.size && p.Y < g.size
}

func (g *Grid) HasPoint(p model.Pos) bool {
	return g.cells[g.idx(p)].exists
}

func (g *Grid) HasEdge(p model.Pos, d model.Dir) bool {
	return g.edges[g.idx(p)]&(1<<d) != 0
}

// PointCount is the number of existing points.
func (g *Grid) PointCount() int { return len(g.order) }

// PointAt returns the i-th existing point in sampling order.
func (g *Grid) PointAt(i int) model.Pos { return g.order[i] }

// Nearest returns the cached closest point from p in direction d.
func (g *Grid) Nearest(p model.Pos, d model.Dir) (model.Pos, bool) {
	c := &g.cells[g.idx(p)]
	return c.nearest[d], c.linked[d]
}

// Children returns the points created using p as a corner.
func (g *Grid) Children(p model.Pos) []model.Pos {
	return g.cells[g.idx(p)].children
}

// AddedBy returns the square that created p, if any.
func (g *Grid) AddedBy(p model.Pos) (model.Square, bool) {
	c := &g.cells[g.idx(p)]
	return c.addedBy, c.exists && c.added
}

// Point returns a copy of the point at p.
func (g *Grid) Point(p model.Pos) (PointInfo, bool) {
	c := &g.cells[g.idx(p)]
	if !c.exists {
		return PointInfo{}, false
	}
	info := PointInfo{
		Pos:      p,
		Nearest:  c.nearest,
		Linked:   c.linked,
		Children: append([]model.Pos(nil), c.children...),
	}
	if c.added {
		sq := c.addedBy
		info.AddedBy = &sq
	}
	return info, true
}

// NearestPoint walks from p in direction d until it leaves the board or
// finds an existing point.
func (g *Grid) NearestPoint(from model.Pos, d model.Dir) (model.Pos, bool) {
	for cur := from.Step(d); g.InBounds(cur); cur = cur.Step(d) {
		if g.HasPoint(cur) {
			return cur, true
		}
	}
	return model.Pos{}, false
}

// CanConnect reports whether a straight edge from a to b would neither
// overlap another edge nor pass through a point.
func (g *Grid) CanConnect(a, b model.Pos) bool {
	d := model.DirBetween(a, b)
	if g.HasEdge(a, d) || g.HasEdge(b, d.Rev()) {
		return false
	}
	for _, p := range model.Between(a, b) {
		if g.HasPoint(p) {
			return false
		}
		if g.HasEdge(p, d) || g.HasEdge(p, d.Rev()) {
			return false
		}
	}
	return true
}

// Connect marks the edge from a to b. When relaxed is set the segment may
// pass through existing points; this is only valid while replaying a
// previously consistent state.
func (g *Grid) Connect(a, b model.Pos, relaxed bool) {
	d := model.DirBetween(a, b)
	g.setEdge(a, d)
	for _, p := range model.Between(a, b) {
		if g.HasEdge(p, d) {
			panic(fmt.Sprintf("engine: edge %v already crosses %v", d, p))
		}
		if !relaxed && g.HasPoint(p) {
			panic(fmt.Sprintf("engine: edge %v-%v passes through point %v", a, b, p))
		}
		g.setEdge(p, d)
		g.setEdge(p, d.Rev())
	}
	g.setEdge(b, d.Rev())
}

// Disconnect clears the edge from a to b.
func (g *Grid) Disconnect(a, b model.Pos) {
	d := model.DirBetween(a, b)
	g.clearEdge(a, d)
	for _, p := range model.Between(a, b) {
		if !g.HasEdge(p, d) {
			panic(fmt.Sprintf("engine: missing edge %v at %v", d, p))
		}
		g.clearEdge(p, d)
		g.clearEdge(p, d.Rev())
	}
	g.clearEdge(b, d.Rev())
}

func (g *Grid) setEdge(p model.Pos, d model.Dir)   { g.edges[g.idx(p)] |= 1 << d }
func (g *Grid) clearEdge(p model.Pos, d model.Dir) { g.edges[g.idx(p)] &^= 1 << d }

// AddPoint places a point at p and links it into the four lines through it.
func (g *Grid) AddPoint(p model.Pos, addedBy *model.Square) {
	i := g.idx(p)
	if g.cells[i].exists {
		panic(fmt.Sprintf("engine: point %v already exists", p))
	}
	c := cell{exists: true}
	for _, d := range model.AllDirs {
		nb, ok := g.NearestPoint(p, d)
		if !ok {
			continue
		}
		// nb's reverse link used to skip over p; p is now closer.
		n := &g.cells[g.idx(nb)]
		n.nearest[d.Rev()] = p
		n.linked[d.Rev()] = true
		c.nearest[d] = nb
		c.linked[d] = true
	}
	if addedBy != nil {
		c.added = true
		c.addedBy = *addedBy
	}
	g.cells[i] = c

	g.orderIdx[i] = int32(len(g.order))
	g.order = append(g.order, p)
}

// RemovePoint splices the point at p out of its lines and clears the slot.
func (g *Grid) RemovePoint(p model.Pos) {
	i := g.idx(p)
	c := &g.cells[i]
	if !c.exists {
		panic(fmt.Sprintf("engine: no point at %v", p))
	}
	if len(c.children) > 0 {
		panic(fmt.Sprintf("engine: point %v still has %d dependents", p, len(c.children)))
	}
	for _, d := range model.AllDirs {
		if !c.linked[d] {
			continue
		}
		n := &g.cells[g.idx(c.nearest[d])]
		r := d.Rev()
		if c.linked[r] {
			n.nearest[r] = c.nearest[r]
			n.linked[r] = true
		} else {
			n.nearest[r] = model.Pos{}
			n.linked[r] = false
		}
	}
	g.cells[i] = cell{}

	// Swap-remove from the sampling order.
	k := g.orderIdx[i]
	last := g.order[len(g.order)-1]
	g.order[k] = last
	g.orderIdx[g.idx(last)] = k
	g.order = g.order[:len(g.order)-1]
	g.orderIdx[i] = -1
}

// CreateSquare adds the square's new point, its four edges, and the
// dependency links from the three existing corners.
func (g *Grid) CreateSquare(sq model.Square, isReverse bool) {
	g.AddPoint(sq.NewPos, &sq)

	g.Connect(sq.Connect[0], sq.NewPos, isReverse)
	g.Connect(sq.Connect[1], sq.NewPos, isReverse)
	g.Connect(sq.Connect[0], sq.Diagonal, isReverse)
	g.Connect(sq.Connect[1], sq.Diagonal, isReverse)

	g.registerChild(sq.Connect[0], sq.NewPos)
	g.registerChild(sq.Connect[1], sq.NewPos)
	g.registerChild(sq.Diagonal, sq.NewPos)
}

// DeleteSquare undoes CreateSquare. Dependents must already be gone.
func (g *Grid) DeleteSquare(sq model.Square) {
	g.RemovePoint(sq.NewPos)

	g.Disconnect(sq.Connect[0], sq.NewPos)
	g.Disconnect(sq.Connect[1], sq.NewPos)
	g.Disconnect(sq.Connect[0], sq.Diagonal)
	g.Disconnect(sq.Connect[1], sq.Diagonal)

	g.unregisterChild(sq.Connect[0], sq.NewPos)
	g.unregisterChild(sq.Connect[1], sq.NewPos)
	g.unregisterChild(sq.Diagonal, sq.NewPos)
}

// registerChild keeps children sorted so that replaying a deletion restores
// the exact same list.
func (g *Grid) registerChild(parent, child model.Pos) {
	c := &g.cells[g.idx(parent)]
	if !c.exists {
		panic(fmt.Sprintf("engine: corner %v does not exist", parent))
	}
	k := sort.Search(len(c.children), func(i int) bool { return !c.children[i].Less(child) })
	c.children = append(c.children, model.Pos{})
	copy(c.children[k+1:], c.children[k:])
	c.children[k] = child
}

func (g *Grid) unregisterChild(parent, child model.Pos) {
	c := &g.cells[g.idx(parent)]
	k := sort.Search(len(c.children), func(i int) bool { return !c.children[i].Less(child) })
	if k == len(c.children) || c.children[k] != child {
		panic(fmt.Sprintf("engine: %v is not a dependent of %v", child, parent))
	}
	c.children = append(c.children[:k], c.children[k+1:]...)
	if len(c.children) == 0 {
		c.children = nil
	}
}

// CheckLinks verifies that every cached link matches a fresh walk and is
// mirrored by its neighbour, and that every created point is registered with
// its corners.
func (g *Grid) CheckLinks() error {
	for _, p := range g.order {
		c := &g.cells[g.idx(p)]
		for _, d := range model.AllDirs {
			want, ok := g.NearestPoint(p, d)
			if ok != c.linked[d] || (ok && want != c.nearest[d]) {
				return fmt.Errorf("point %v direction %v: cached %v/%t, walk finds %v/%t",
					p, d, c.nearest[d], c.linked[d], want, ok)
			}
			if !ok {
				continue
			}
			back, linked := g.Nearest(want, d.Rev())
			if !linked || back != p {
				return fmt.Errorf("point %v direction %v: neighbour %v links back to %v/%t", p, d, want, back, linked)
			}
		}
		if !c.added {
			continue
		}
		sq := c.addedBy
		for _, corner := range [3]model.Pos{sq.Connect[0], sq.Connect[1], sq.Diagonal} {
			if !g.HasPoint(corner) {
				return fmt.Errorf("square %d: corner %v is missing", sq.ID, corner)
			}
			found := false
			for _, ch := range g.Children(corner) {
				if ch == p {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("square %d: corner %v does not list %v as dependent", sq.ID, corner, p)
			}
		}
	}
	return nil
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	cp := &Grid{
		size:     g.size,
		cells:    make([]cell, len(g.cells)),
		edges:    append([]uint8(nil), g.edges...),
		order:    append([]model.Pos(nil), g.order...),
		orderIdx: append([]int32(nil), g.orderIdx...),
	}
	copy(cp.cells, g.cells)
	for i := range cp.cells {
		if cp.cells[i].children != nil {
			cp.cells[i].children = append([]model.Pos(nil), cp.cells[i].children...)
		}
	}
	return cp
}
