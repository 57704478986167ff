package layout

import (
	"fmt"
	"slices"
)

// Shape names the set of walls of a room that carry a door.
//
// I shapes are through-rooms, T shapes are named by their missing wall's
// opposite, L shapes by the corner they turn and D shapes are dead ends.
type Shape int

// ShapeAuto asks the resolver to derive the shape from the neighbours.
const (
	ShapeAuto Shape = iota
	ShapeO
	ShapeIN
	ShapeIE
	ShapeTN
	ShapeTE
	ShapeTS
	ShapeTW
	ShapeLN
	ShapeLE
	ShapeLS
	ShapeLW
	ShapeDN
	ShapeDE
	ShapeDS
	ShapeDW
)

// doorTable is the single source of truth for which walls a shape opens.
var doorTable = map[Shape][]Direction{
	ShapeO:  {Up, Down, Left, Right},
	ShapeIN: {Up, Down},
	ShapeIE: {Left, Right},
	ShapeTN: {Up, Left, Right},
	ShapeTE: {Up, Right, Down},
	ShapeTS: {Left, Right, Down},
	ShapeTW: {Up, Left, Down},
	ShapeLN: {Up, Right},
	ShapeLE: {Right, Down},
	ShapeLS: {Left, Down},
	ShapeLW: {Up, Left},
	ShapeDN: {Up},
	ShapeDE: {Right},
	ShapeDS: {Down},
	ShapeDW: {Left},
}

var shapeNames = map[Shape]string{
	ShapeAuto: "AUTO",
	ShapeO:    "O",
	ShapeIN:   "I_N",
	ShapeIE:   "I_E",
	ShapeTN:   "T_N",
	ShapeTE:   "T_E",
	ShapeTS:   "T_S",
	ShapeTW:   "T_W",
	ShapeLN:   "L_N",
	ShapeLE:   "L_E",
	ShapeLS:   "L_S",
	ShapeLW:   "L_W",
	ShapeDN:   "D_N",
	ShapeDE:   "D_E",
	ShapeDS:   "D_S",
	ShapeDW:   "D_W",
}

// Shapes lists the fifteen concrete shapes.
var Shapes = []Shape{
	ShapeO, ShapeIN, ShapeIE,
	ShapeTN, ShapeTE, ShapeTS, ShapeTW,
	ShapeLN, ShapeLE, ShapeLS, ShapeLW,
	ShapeDN, ShapeDE, ShapeDS, ShapeDW,
}

// String returns the authored shape name, e.g. "T_N".
func (s Shape) String() string {
	if n, ok := shapeNames[s]; ok {
		return n
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

// Doors returns a copy of the shape's door directions. ShapeAuto has none.
func (s Shape) Doors() []Direction {
	return slices.Clone(doorTable[s])
}

// HasDoor reports whether the shape opens wall d.
func (s Shape) HasDoor(d Direction) bool {
	return slices.Contains(doorTable[s], d)
}

// ParseShape converts an authored name such as "L_E" into a Shape.
func ParseShape(s string) (Shape, error) {
	for shape, name := range shapeNames {
		if name == s {
			return shape, nil
		}
	}
	return ShapeAuto, fmt.Errorf("unknown shape %q", s)
}

// shapeFor maps a neighbour pattern to its shape.
//
// Postcondition: the returned shape's door set equals the set of true flags,
// except for the isolated pattern which yields ShapeAuto.
func shapeFor(up, down, left, right bool) Shape {
	switch {
	case up && down && left && right:
		return ShapeO
	case up && left && right && !down:
		return ShapeTN
	case up && right && down && !left:
		return ShapeTE
	case left && right && down && !up:
		return ShapeTS
	case up && left && down && !right:
		return ShapeTW
	case up && down:
		return ShapeIN
	case left && right:
		return ShapeIE
	case up && right:
		return ShapeLN
	case right && down:
		return ShapeLE
	case left && down:
		return ShapeLS
	case up && left:
		return ShapeLW
	case up:
		return ShapeDN
	case right:
		return ShapeDE
	case down:
		return ShapeDS
	case left:
		return ShapeDW
	default:
		return ShapeAuto
	}
}
