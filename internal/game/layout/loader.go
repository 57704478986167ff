package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlLayoutFile is the top-level YAML structure for layout files.
type yamlLayoutFile struct {
	Layout yamlLayout `yaml:"layout"`
}

type yamlLayout struct {
	Name   string      `yaml:"name"`
	Rows   []string    `yaml:"rows"`
	Shapes []yamlShape `yaml:"shapes"`
}

// yamlShape pins an authored shape on one cell.
type yamlShape struct {
	Row   int    `yaml:"row"`
	Col   int    `yaml:"col"`
	Shape string `yaml:"shape"`
}

// LoadFile reads and validates a single layout YAML file.
//
// Postcondition: Returns a validated Layout or a non-nil error.
func LoadFile(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout file %s: %w", path, err)
	}
	l, err := LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("layout file %s: %w", path, err)
	}
	return l, nil
}

// LoadBytes parses and validates a layout from YAML bytes.
func LoadBytes(data []byte) (*Layout, error) {
	var f yamlLayoutFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing layout yaml: %w", err)
	}
	l, err := FromRows(f.Layout.Name, f.Layout.Rows...)
	if err != nil {
		return nil, err
	}
	for _, ys := range f.Layout.Shapes {
		shape, err := ParseShape(ys.Shape)
		if err != nil {
			return nil, fmt.Errorf("layout %q: %w", l.Name, err)
		}
		spec := l.At(Cell{Row: ys.Row, Col: ys.Col})
		if spec == nil {
			return nil, fmt.Errorf("layout %q: shape %s pinned on empty cell (%d,%d)", l.Name, ys.Shape, ys.Row, ys.Col)
		}
		spec.Shape = shape
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// LoadDir loads every .yaml file in dir, keyed by layout name.
func LoadDir(dir string) (map[string]*Layout, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading layout directory %s: %w", dir, err)
	}
	out := make(map[string]*Layout)
	for _, e := range entries {
		if e.IsDir() || !(strings.HasSuffix(e.Name(), ".yaml") || strings.HasSuffix(e.Name(), ".yml")) {
			continue
		}
		l, err := LoadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		if _, dup := out[l.Name]; dup {
			return nil, fmt.Errorf("duplicate layout name %q in %s", l.Name, dir)
		}
		out[l.Name] = l
	}
	return out, nil
}

// Letters renders l back into the letter rows accepted by FromRows.
func (l *Layout) Letters() []string {
	out := make([]string, 0, l.Rows())
	for _, row := range l.Cells {
		toks := make([]string, len(row))
		for i, spec := range row {
			if spec == nil {
				toks[i] = "."
				continue
			}
			toks[i] = string(spec.Type.Letter())
		}
		out = append(out, strings.Join(toks, " "))
	}
	return out
}
