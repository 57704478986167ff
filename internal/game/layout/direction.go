// Package layout describes authored level layouts: a rows by cols grid of
// optional room specs, and the rules that turn grid adjacency into door
// shapes.
package layout

import "fmt"

// Direction is one of the four walls a door can sit in.
type Direction int

// The four door directions. Up is toward row 0.
const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists every direction in table order.
var Directions = []Direction{Up, Down, Left, Right}

// String returns the lower-case direction name.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Opposite returns the direction facing d.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

// Offset returns the (row, col) step taken when moving through a door in d.
func (d Direction) Offset() (dRow, dCol int) {
	switch d {
	case Up:
		return -1, 0
	case Down:
		return 1, 0
	case Left:
		return 0, -1
	default:
		return 0, 1
	}
}

// ParseDirection converts a name produced by String back to a Direction.
func ParseDirection(s string) (Direction, error) {
	for _, d := range Directions {
		if d.String() == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}
