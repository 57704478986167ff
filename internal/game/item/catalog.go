package item

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/roguehammer/internal/game/dice"
)

// Catalog is an ordered set of item definitions. The order fixes which
// definition each random roll selects.
type Catalog struct {
	defs  map[string]*Def
	order []string
	// random lists the ids eligible for Random, in roll order.
	random []string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{defs: make(map[string]*Def)}
}

// Register validates and adds d. When random is true d takes part in Random.
//
// Postcondition: returns an error on invalid or duplicate ids.
func (c *Catalog) Register(d *Def, random bool) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if _, dup := c.defs[d.ID]; dup {
		return fmt.Errorf("item %q already registered", d.ID)
	}
	c.defs[d.ID] = d
	c.order = append(c.order, d.ID)
	if random {
		c.random = append(c.random, d.ID)
	}
	return nil
}

// Get returns the definition with id.
func (c *Catalog) Get(id string) (*Def, bool) {
	d, ok := c.defs[id]
	return d, ok
}

// MustGet returns the definition with id and panics when it is missing.
func (c *Catalog) MustGet(id string) *Def {
	d, ok := c.defs[id]
	if !ok {
		panic("item: no definition for " + id)
	}
	return d
}

// All returns every definition in registration order.
func (c *Catalog) All() []*Def {
	out := make([]*Def, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.defs[id])
	}
	return out
}

// Random returns a uniformly chosen random-eligible definition.
//
// Precondition: at least one definition was registered with random set.
func (c *Catalog) Random(src dice.Source) *Def {
	return c.defs[dice.Pick(src, c.random)]
}

// RandomOfKind draws until it finds a definition of kind, up to attempts
// draws. It returns nil when none was found.
func (c *Catalog) RandomOfKind(src dice.Source, kind string, attempts int) *Def {
	for i := 0; i < attempts; i++ {
		if d := c.Random(src); d.Kind == kind {
			return d
		}
	}
	return nil
}

// yamlCatalogEntry is one catalog entry in an item file.
type yamlCatalogEntry struct {
	Def    `yaml:",inline"`
	Random *bool `yaml:"random"`
}

type yamlCatalogFile struct {
	Items []yamlCatalogEntry `yaml:"items"`
}

// LoadCatalog reads an item catalogue from a YAML file.
//
// Postcondition: Returns a catalog of validated definitions or an error.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading item file %s: %w", path, err)
	}
	return LoadCatalogBytes(data)
}

// LoadCatalogBytes parses an item catalogue from YAML bytes. Passive
// multipliers left unset default to 1 and entries join Random unless they
// set random: false.
func LoadCatalogBytes(data []byte) (*Catalog, error) {
	var f yamlCatalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing item yaml: %w", err)
	}
	c := NewCatalog()
	for i := range f.Items {
		e := f.Items[i]
		def := e.Def
		if def.Modifiers != nil {
			m := defaultMultipliers(*def.Modifiers)
			def.Modifiers = &m
		}
		random := e.Random == nil || *e.Random
		if err := c.Register(&def, random); err != nil {
			return nil, err
		}
	}
	if len(c.random) == 0 {
		return nil, fmt.Errorf("item catalog has no random-eligible items")
	}
	return c, nil
}

func defaultMultipliers(m Modifiers) Modifiers {
	one := func(v float64) float64 {
		if v == 0 {
			return 1
		}
		return v
	}
	m.Speed = one(m.Speed)
	m.Damage = one(m.Damage)
	m.ReloadTime = one(m.ReloadTime)
	m.FireRate = one(m.FireRate)
	m.BulletSpeed = one(m.BulletSpeed)
	m.Magazine = one(m.Magazine)
	return m
}
