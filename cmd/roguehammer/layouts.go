package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/roguehammer/internal/game/layout"
)

// errInvalidLayouts is returned after listing when any layout failed
// validation.
var errInvalidLayouts = errors.New("one or more layouts are invalid")

func newLayoutsCmd(e *env) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "layouts",
		Short: "List and validate layouts",
		Long:  `Lists the built-in layouts, or the layouts in a YAML file or directory, and validates each one.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			layouts, err := collectLayouts(file)
			if err != nil {
				return err
			}
			e.logger.Debug("validating layouts")
			return listLayouts(cmd.OutOrStdout(), layouts)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML layout file or directory of files")
	return cmd
}

func collectLayouts(path string) ([]*layout.Layout, error) {
	if path == "" {
		var out []*layout.Layout
		for _, name := range layout.BuiltinNames() {
			l, err := layout.Builtin(name)
			if err != nil {
				return nil, err
			}
			out = append(out, l)
		}
		return out, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading layouts: %w", err)
	}
	if !info.IsDir() {
		l, err := layout.LoadFile(path)
		if err != nil {
			return nil, err
		}
		return []*layout.Layout{l}, nil
	}

	byName, err := layout.LoadDir(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	slices.Sort(names)
	out := make([]*layout.Layout, 0, len(names))
	for _, n := range names {
		out = append(out, byName[n])
	}
	return out, nil
}

func listLayouts(w io.Writer, layouts []*layout.Layout) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tGRID\tROOMS\tSTATUS")
	invalid := false
	for _, l := range layouts {
		status := "ok"
		if err := l.Validate(); err != nil {
			status = err.Error()
			invalid = true
		}
		fmt.Fprintf(tw, "%s\t%dx%d\t%d\t%s\n", l.Name, l.Rows(), l.Cols(), len(l.Occupied()), status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if invalid {
		return errInvalidLayouts
	}
	return nil
}
