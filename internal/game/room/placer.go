package room

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/roguehammer/internal/game/dice"
	"github.com/cory-johannsen/roguehammer/internal/game/enemy"
	"github.com/cory-johannsen/roguehammer/internal/game/geom"
	"github.com/cory-johannsen/roguehammer/internal/game/item"
	"github.com/cory-johannsen/roguehammer/internal/game/layout"
)

// Placement defaults.
const (
	DefaultPlacementAttempts = 1000
	DefaultDoorSafetyRadius  = 2
)

// Placement reports the outcome of one Place call.
type Placement struct {
	Placed  int
	Skipped int
}

// Placer turns a Plan into entities on a room's grid.
type Placer struct {
	src      dice.Source
	attempts int
	radius   int
	logger   *zap.Logger
}

// NewPlacer returns a Placer with the default attempt cap and door radius.
func NewPlacer(src dice.Source, logger *zap.Logger) *Placer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Placer{
		src:      src,
		attempts: DefaultPlacementAttempts,
		radius:   DefaultDoorSafetyRadius,
		logger:   logger,
	}
}

// DoorCell returns the grid cell a door in direction d projects onto.
func DoorCell(g *Grid, d layout.Direction) GridPos {
	c := g.Center()
	switch d {
	case layout.Up:
		return GridPos{X: c.X, Y: g.Height() - 1}
	case layout.Down:
		return GridPos{X: c.X, Y: 0}
	case layout.Left:
		return GridPos{X: 0, Y: c.Y}
	default:
		return GridPos{X: g.Width() - 1, Y: c.Y}
	}
}

// ValidSpawnCell reports whether p may receive a randomly placed entity: an
// empty interior cell further than radius from every door cell.
func ValidSpawnCell(g *Grid, doors []layout.Direction, p GridPos, radius int) bool {
	if !g.Interior(p) || g.At(p) != CellEmpty {
		return false
	}
	for _, d := range doors {
		if p.Chebyshev(DoorCell(g, d)) <= radius {
			return false
		}
	}
	return true
}

// Place creates every entity in plan inside r. Explicit cells are converted
// directly and marked; the rest are rejection sampled. A spawn with no valid
// cell within the attempt cap is skipped.
//
// Postcondition: no two sampled spawns share a cell, and every sampled cell
// is further than the safety radius from each door cell.
func (p *Placer) Place(r *Room, plan Plan) Placement {
	var res Placement
	// Explicit cells go first so sampling avoids them. A cell outside the
	// interior is skipped rather than spawned beyond the walls.
	explicit := func(at GridPos, kind CellType, spawn func(geom.Vec2)) {
		if !r.grid.Interior(at) {
			res.Skipped++
			return
		}
		r.grid.Set(at, kind)
		spawn(r.cellToWorld(at))
		res.Placed++
	}
	for _, s := range plan.Chests {
		if s.At != nil {
			explicit(*s.At, CellChest, func(at geom.Vec2) {
				r.chests = append(r.chests, newChest(at))
			})
		}
	}
	for _, s := range plan.Items {
		if s.At != nil {
			def := s.Def
			explicit(*s.At, CellItem, func(at geom.Vec2) {
				r.pickups = append(r.pickups, item.NewPickup(def, at))
			})
		}
	}
	for _, s := range plan.Enemies {
		if s.At != nil {
			kind := s.Kind
			explicit(*s.At, CellEnemy, func(at geom.Vec2) {
				r.enemies = append(r.enemies, enemy.New(kind, at, r.Handle, r.svc.Dims))
			})
		}
	}
	for _, s := range plan.Traps {
		if s.At != nil {
			explicit(*s.At, CellObstacle, func(at geom.Vec2) {
				r.traps = append(r.traps, newTrap(at))
			})
		}
	}

	place := func(kind CellType, spawn func(geom.Vec2)) {
		pos, ok := p.sample(r)
		if !ok {
			res.Skipped++
			return
		}
		r.grid.Set(pos, kind)
		spawn(r.cellToWorld(pos))
		res.Placed++
	}
	for _, s := range plan.Enemies {
		if s.At == nil {
			kind := s.Kind
			place(CellEnemy, func(at geom.Vec2) {
				r.enemies = append(r.enemies, enemy.New(kind, at, r.Handle, r.svc.Dims))
			})
		}
	}
	for _, s := range plan.Items {
		if s.At == nil {
			def := s.Def
			place(CellItem, func(at geom.Vec2) {
				r.pickups = append(r.pickups, item.NewPickup(def, at))
			})
		}
	}
	for _, s := range plan.Traps {
		if s.At == nil {
			place(CellObstacle, func(at geom.Vec2) { r.traps = append(r.traps, newTrap(at)) })
		}
	}
	for _, s := range plan.Chests {
		if s.At == nil {
			place(CellChest, func(at geom.Vec2) { r.chests = append(r.chests, newChest(at)) })
		}
	}

	if res.Skipped > 0 {
		p.logger.Debug("spawns skipped",
			zap.Int("row", r.Cell.Row),
			zap.Int("col", r.Cell.Col),
			zap.Int("skipped", res.Skipped),
		)
	}
	return res
}

// sample draws random interior cells until one is valid or the cap is hit.
func (p *Placer) sample(r *Room) (GridPos, bool) {
	g := r.grid
	for i := 0; i < p.attempts; i++ {
		pos := GridPos{X: 1 + p.src.Intn(g.Width()-2), Y: 1 + p.src.Intn(g.Height()-2)}
		if ValidSpawnCell(g, r.doors, pos, p.radius) {
			return pos, true
		}
	}
	return GridPos{}, false
}
