package layout

import (
	"fmt"
	"slices"
	"strings"
)

var letterTypes = map[rune]RoomType{
	'S': Start,
	'N': Normal,
	'T': Trap,
	'B': Boss,
	'C': Chest,
	'$': Shop,
	'E': End,
}

// Letter returns the single-character code used by layout files.
func (t RoomType) Letter() rune {
	for r, rt := range letterTypes {
		if rt == t {
			return r
		}
	}
	return '?'
}

// FromRows builds a layout from whitespace separated cell letters, one
// string per row. "." marks an empty cell.
//
// Postcondition: returns an error for unknown letters; the layout is not
// validated.
func FromRows(name string, rows ...string) (*Layout, error) {
	l := &Layout{Name: name}
	for r, row := range rows {
		var cells []*RoomSpec
		for c, tok := range strings.Fields(row) {
			if tok == "." {
				cells = append(cells, nil)
				continue
			}
			runes := []rune(tok)
			rt, ok := letterTypes[runes[0]]
			if len(runes) != 1 || !ok {
				return nil, fmt.Errorf("layout %q row %d col %d: unknown cell %q", name, r, c, tok)
			}
			cells = append(cells, &RoomSpec{Type: rt})
		}
		l.Cells = append(l.Cells, cells)
	}
	return l, nil
}

func mustRows(name string, rows ...string) *Layout {
	l, err := FromRows(name, rows...)
	if err != nil {
		panic(err)
	}
	return l
}

var builtins = map[string]*Layout{
	"layout1": mustRows("layout1",
		"S . E",
		"N T B",
		"$ . C",
	),
	"layout2": mustRows("layout2",
		". E . C",
		"$ B . N",
		"N N T N",
		". S . .",
	),
	"layout3": mustRows("layout3",
		"N S . .",
		"N C T .",
		". $ N C",
		"E B . .",
	),
	"layout4": mustRows("layout4",
		". C N N S",
		"N N $ . .",
		". T N B C",
		". . T . .",
		"E N N . .",
	),
	"layout5": mustRows("layout5",
		"N N C $",
		"N T N N",
		"T S C B",
		"C N B E",
	),
}

// Builtin returns the named built-in layout. The result is shared and must
// not be modified.
func Builtin(name string) (*Layout, error) {
	l, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown built-in layout %q", name)
	}
	return l, nil
}

// BuiltinNames returns the built-in layout names in sorted order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
