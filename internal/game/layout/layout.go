package layout

import (
	"errors"
	"fmt"

	"github.com/zyedidia/generic/mapset"
)

// RoomType is a room's archetype. It selects the content recipe.
type RoomType int

// Room archetypes.
const (
	Normal RoomType = iota
	Start
	End
	Boss
	Shop
	Trap
	Chest
)

// RoomTypes lists every archetype.
var RoomTypes = []RoomType{Normal, Start, End, Boss, Shop, Trap, Chest}

var roomTypeNames = map[RoomType]string{
	Normal: "normal",
	Start:  "start",
	End:    "end",
	Boss:   "boss",
	Shop:   "shop",
	Trap:   "trap",
	Chest:  "chest",
}

// String returns the lower-case archetype name.
func (t RoomType) String() string {
	if n, ok := roomTypeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("room_type(%d)", int(t))
}

// ParseRoomType converts a name produced by String back to a RoomType.
func ParseRoomType(s string) (RoomType, error) {
	for t, n := range roomTypeNames {
		if n == s {
			return t, nil
		}
	}
	return Normal, fmt.Errorf("unknown room type %q", s)
}

var (
	// ErrNoStartRoom is returned when a layout has no START cell.
	ErrNoStartRoom = errors.New("layout has no start room")
	// ErrIsolatedRoom is returned when a room has no orthogonal neighbour.
	ErrIsolatedRoom = errors.New("room has no neighbours")
)

// RoomSpec is one authored cell. A zero Shape means the shape is resolved
// from the neighbours.
type RoomSpec struct {
	Type  RoomType
	Shape Shape
}

// Cell is a grid coordinate.
type Cell struct {
	Row, Col int
}

// Step returns the neighbouring cell through direction d.
func (c Cell) Step(d Direction) Cell {
	dr, dc := d.Offset()
	return Cell{Row: c.Row + dr, Col: c.Col + dc}
}

// Layout is an immutable rows by cols grid of optional room specs.
type Layout struct {
	Name  string
	Cells [][]*RoomSpec
}

// Rows returns the number of grid rows.
func (l *Layout) Rows() int {
	return len(l.Cells)
}

// Cols returns the number of grid columns.
func (l *Layout) Cols() int {
	if len(l.Cells) == 0 {
		return 0
	}
	return len(l.Cells[0])
}

// At returns the spec at c, or nil when c is empty or out of range.
func (l *Layout) At(c Cell) *RoomSpec {
	if c.Row < 0 || c.Row >= len(l.Cells) || c.Col < 0 || c.Col >= len(l.Cells[c.Row]) {
		return nil
	}
	return l.Cells[c.Row][c.Col]
}

// Occupied returns every non-empty cell in row-major order.
func (l *Layout) Occupied() []Cell {
	var out []Cell
	for r, row := range l.Cells {
		for c, spec := range row {
			if spec != nil {
				out = append(out, Cell{Row: r, Col: c})
			}
		}
	}
	return out
}

// FindStart returns the first START cell in row-major order.
//
// Postcondition: returns ErrNoStartRoom when none exists.
func (l *Layout) FindStart() (Cell, error) {
	for _, c := range l.Occupied() {
		if l.At(c).Type == Start {
			return c, nil
		}
	}
	return Cell{}, ErrNoStartRoom
}

// ResolveShape derives the door shape of the room at c from which of its
// four orthogonal neighbours exist. An authored shape overrides detection.
//
// Precondition: c must be an occupied cell.
// Postcondition: for an unauthored room with N neighbours the shape has
// exactly N doors facing them. An isolated room yields ShapeDS together with
// ErrIsolatedRoom.
func ResolveShape(l *Layout, c Cell) (Shape, error) {
	spec := l.At(c)
	if spec == nil {
		return ShapeAuto, fmt.Errorf("no room at row %d col %d", c.Row, c.Col)
	}
	if spec.Shape != ShapeAuto {
		return spec.Shape, nil
	}
	shape := shapeFor(
		l.At(c.Step(Up)) != nil,
		l.At(c.Step(Down)) != nil,
		l.At(c.Step(Left)) != nil,
		l.At(c.Step(Right)) != nil,
	)
	if shape == ShapeAuto {
		return ShapeDS, fmt.Errorf("row %d col %d: %w", c.Row, c.Col, ErrIsolatedRoom)
	}
	return shape, nil
}

// Validate checks that the grid is rectangular, holds exactly one START, has
// no isolated rooms and that every room is reachable from START through
// doors on both sides.
func (l *Layout) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("layout name must not be empty")
	}
	if l.Rows() == 0 || l.Cols() == 0 {
		return fmt.Errorf("layout %q: grid must not be empty", l.Name)
	}
	for r, row := range l.Cells {
		if len(row) != l.Cols() {
			return fmt.Errorf("layout %q: row %d has %d cells, want %d", l.Name, r, len(row), l.Cols())
		}
	}

	starts := 0
	for _, c := range l.Occupied() {
		if l.At(c).Type == Start {
			starts++
		}
		if _, err := ResolveShape(l, c); err != nil {
			return fmt.Errorf("layout %q: %w", l.Name, err)
		}
	}
	if starts == 0 {
		return fmt.Errorf("layout %q: %w", l.Name, ErrNoStartRoom)
	}
	if starts > 1 {
		return fmt.Errorf("layout %q: %d start rooms, want exactly 1", l.Name, starts)
	}

	start, _ := l.FindStart()
	reached := l.Reachable(start)
	if reached.Size() != len(l.Occupied()) {
		return fmt.Errorf("layout %q: %d of %d rooms reachable from start",
			l.Name, reached.Size(), len(l.Occupied()))
	}
	return nil
}

// Reachable returns every cell reachable from start by walking through a
// door that both rooms open.
func (l *Layout) Reachable(start Cell) mapset.Set[Cell] {
	visited := mapset.New[Cell]()
	queue := []Cell{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if l.At(cur) == nil || visited.Has(cur) {
			continue
		}
		visited.Put(cur)
		shape, _ := ResolveShape(l, cur)
		for _, d := range shape.Doors() {
			next := cur.Step(d)
			if l.At(next) == nil {
				continue
			}
			if ns, _ := ResolveShape(l, next); ns.HasDoor(d.Opposite()) {
				queue = append(queue, next)
			}
		}
	}
	return visited
}
