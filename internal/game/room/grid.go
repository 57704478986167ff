package room

// CellType marks what occupies a placement cell.
type CellType int

// Placement cell states.
const (
	CellEmpty CellType = iota
	CellEnemy
	CellItem
	CellChest
	CellObstacle
	CellWall
)

// GridPos is a placement cell coordinate. X runs right and Y runs up from
// the room's bottom-left cell.
type GridPos struct {
	X, Y int
}

// At returns a pointer to the cell coordinate, for explicit spawns.
func At(x, y int) *GridPos {
	return &GridPos{X: x, Y: y}
}

// Chebyshev returns the king-move distance between p and o.
func (p GridPos) Chebyshev(o GridPos) int {
	return max(abs(p.X-o.X), abs(p.Y-o.Y))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Grid is a room's placement grid. It is only consulted while content is
// generated.
type Grid struct {
	w, h  int
	cells []CellType
}

// NewGrid returns a w by h grid whose outer ring is wall.
func NewGrid(w, h int) *Grid {
	g := &Grid{w: w, h: h, cells: make([]CellType, w*h)}
	for x := 0; x < w; x++ {
		g.cells[x] = CellWall
		g.cells[(h-1)*w+x] = CellWall
	}
	for y := 0; y < h; y++ {
		g.cells[y*w] = CellWall
		g.cells[y*w+w-1] = CellWall
	}
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.w }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.h }

// InBounds reports whether p lies on the grid.
func (g *Grid) InBounds(p GridPos) bool {
	return p.X >= 0 && p.X < g.w && p.Y >= 0 && p.Y < g.h
}

// Interior reports whether p lies inside the outer ring.
func (g *Grid) Interior(p GridPos) bool {
	return p.X >= 1 && p.X <= g.w-2 && p.Y >= 1 && p.Y <= g.h-2
}

// At returns the cell type at p; out of range reads as wall.
func (g *Grid) At(p GridPos) CellType {
	if !g.InBounds(p) {
		return CellWall
	}
	return g.cells[p.Y*g.w+p.X]
}

// Set marks p. Out of range writes are ignored.
func (g *Grid) Set(p GridPos, t CellType) {
	if g.InBounds(p) {
		g.cells[p.Y*g.w+p.X] = t
	}
}

// Center returns the middle cell.
func (g *Grid) Center() GridPos {
	return GridPos{X: g.w / 2, Y: g.h / 2}
}
