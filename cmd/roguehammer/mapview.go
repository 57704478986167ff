package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cory-johannsen/roguehammer/internal/game/layout"
)

var roomStyles = map[layout.RoomType]color.Style{
	layout.Start:  {color.FgGreen, color.OpBold},
	layout.End:    {color.FgCyan, color.OpBold},
	layout.Boss:   {color.FgRed, color.OpBold},
	layout.Shop:   {color.FgYellow},
	layout.Trap:   {color.FgMagenta},
	layout.Chest:  {color.FgYellow, color.OpBold},
	layout.Normal: {color.FgBlue},
}

var (
	styleDoor  = color.Style{color.FgWhite}
	styleEmpty = color.Style{color.FgGray}
)

func newMapCmd(e *env) *cobra.Command {
	var (
		name    string
		file    string
		noColor bool
	)
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Print a level's room grid with resolved door shapes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if name == "" {
				name = e.cfg.Simulation.Layout
			}
			l, err := loadLayout(name, file)
			if err != nil {
				return fmt.Errorf("loading layout: %w", err)
			}
			out := cmd.OutOrStdout()
			return renderMap(out, l, !noColor && isTerminal(out))
		},
	}
	cmd.Flags().StringVar(&name, "layout", "", "built-in layout name (defaults to simulation.layout)")
	cmd.Flags().StringVar(&file, "layout-file", "", "YAML layout file, overrides --layout")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable ANSI colours even on a terminal")
	return cmd
}

// renderMap draws each room as a five-column, three-line glyph: the room
// letter in brackets with door stubs on the walls its shape opens. Rooms
// whose shape cannot be resolved are drawn with their fallback shape and
// listed below the grid.
func renderMap(w io.Writer, l *layout.Layout, colored bool) error {
	paint := func(s color.Style, text string) string {
		if !colored {
			return text
		}
		return s.Sprint(text)
	}

	var problems []error
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%dx%d)\n", l.Name, l.Rows(), l.Cols())
	for r := 0; r < l.Rows(); r++ {
		var top, mid, bot strings.Builder
		for c := 0; c < l.Cols(); c++ {
			cell := layout.Cell{Row: r, Col: c}
			spec := l.At(cell)
			if spec == nil {
				top.WriteString("     ")
				mid.WriteString(paint(styleEmpty, "  .  "))
				bot.WriteString("     ")
				continue
			}
			shape, err := layout.ResolveShape(l, cell)
			if err != nil {
				problems = append(problems, err)
			}
			top.WriteString(stub(shape.HasDoor(layout.Up), "  |  ", paint))
			mid.WriteString(stub(shape.HasDoor(layout.Left), "-", paint))
			mid.WriteString(paint(roomStyles[spec.Type], "["+string(spec.Type.Letter())+"]"))
			mid.WriteString(stub(shape.HasDoor(layout.Right), "-", paint))
			bot.WriteString(stub(shape.HasDoor(layout.Down), "  |  ", paint))
		}
		for _, line := range []*strings.Builder{&top, &mid, &bot} {
			b.WriteString(strings.TrimRight(line.String(), " "))
			b.WriteByte('\n')
		}
	}
	for _, p := range problems {
		fmt.Fprintf(&b, "warning: %v\n", p)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// isTerminal reports whether w is an interactive terminal. Colours are
// only written to terminals.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func stub(open bool, glyph string, paint func(color.Style, string) string) string {
	if !open {
		return strings.Repeat(" ", len(glyph))
	}
	return paint(styleDoor, glyph)
}
