// Package room implements a single dungeon room: its door shape, placement
// grid, lazily generated content, per-archetype recipes and the per-frame
// update that runs enemies, projectiles, traps and chests while the player
// is inside.
package room

import (
	"math"
	"slices"

	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"

	"github.com/cory-johannsen/roguehammer/internal/game/combat"
	"github.com/cory-johannsen/roguehammer/internal/game/dice"
	"github.com/cory-johannsen/roguehammer/internal/game/enemy"
	"github.com/cory-johannsen/roguehammer/internal/game/event"
	"github.com/cory-johannsen/roguehammer/internal/game/geom"
	"github.com/cory-johannsen/roguehammer/internal/game/item"
	"github.com/cory-johannsen/roguehammer/internal/game/layout"
	"github.com/cory-johannsen/roguehammer/internal/game/player"
	"github.com/cory-johannsen/roguehammer/internal/game/stats"
	"github.com/cory-johannsen/roguehammer/internal/game/tuning"
)

// Listener receives room events. Calls happen inside Update.
type Listener interface {
	EnemyKilled(r *Room, e *enemy.Enemy)
	RoomCleared(r *Room)
}

type nopListener struct{}

func (nopListener) EnemyKilled(*Room, *enemy.Enemy) {}
func (nopListener) RoomCleared(*Room)               {}

// Services are the collaborators shared by every room of a level.
type Services struct {
	Dims     tuning.Dimensions
	Catalog  *item.Catalog
	Roller   *dice.Roller
	Resolver *combat.Resolver
	Stats    stats.Recorder
	Audio    event.Audio
	Logger   *zap.Logger
	Listener Listener
}

// NewServices fills unset collaborators with defaults.
//
// Precondition: roller is non-nil.
func NewServices(dims tuning.Dimensions, catalog *item.Catalog, roller *dice.Roller, rec stats.Recorder, audio event.Audio, logger *zap.Logger) *Services {
	if catalog == nil {
		catalog = item.Builtin()
	}
	if rec == nil {
		rec = stats.Nop{}
	}
	if audio == nil {
		audio = event.NopAudio{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Services{
		Dims:     dims,
		Catalog:  catalog,
		Roller:   roller,
		Resolver: combat.NewResolver(rec, audio, logger),
		Stats:    rec,
		Audio:    audio,
		Logger:   logger,
		Listener: nopListener{},
	}
}

// Room is one populated layout cell.
//
// Invariant: content is generated at most once; enemies removed from the
// room are never added back.
type Room struct {
	// Handle is the room's index in the level's room registry.
	Handle   int
	Cell     layout.Cell
	Type     layout.RoomType
	Shape    layout.Shape
	Position geom.Vec2

	svc    *Services
	doors  []layout.Direction
	grid   *Grid
	placer *Placer

	enemies []*enemy.Enemy
	pickups []*item.Pickup
	traps   []*Trap
	chests  []*Chest
	shop    map[string]int
	exit    *geom.Rect
	onExit  bool

	generated       bool
	active          bool
	doorsHidden     bool
	initialEnemies  int
	clearedReported bool
	killsReported   mapset.Set[string]
}

// New creates an inactive, ungenerated room at pos.
func New(handle int, cell layout.Cell, rt layout.RoomType, shape layout.Shape, pos geom.Vec2, svc *Services) *Room {
	d := svc.Dims
	return &Room{
		Handle:        handle,
		Cell:          cell,
		Type:          rt,
		Shape:         shape,
		Position:      pos,
		svc:           svc,
		doors:         shape.Doors(),
		grid:          NewGrid(d.GridWidth(), d.GridHeight()),
		placer:        NewPlacer(svc.Roller.Source(), svc.Logger),
		doorsHidden:   true,
		killsReported: mapset.New[string](),
	}
}

// Bounds returns the room's full rectangle.
func (r *Room) Bounds() geom.Rect {
	return geom.Rect{X: r.Position.X, Y: r.Position.Y, W: r.svc.Dims.RoomWidth, H: r.svc.Dims.RoomHeight}
}

// InteriorBounds returns the walkable area: the room rectangle inset by
// half a wall on every side. Entities are clamped to it and bullets leaving
// it are stopped.
func (r *Room) InteriorBounds() geom.Rect {
	return r.Bounds().Inset(r.svc.Dims.WallThickness / 2)
}

// Center returns the room's centre in world space.
func (r *Room) Center() geom.Vec2 {
	return r.Bounds().Center()
}

// SpawnPoint is where the player appears when the level starts here.
func (r *Room) SpawnPoint() geom.Vec2 {
	return r.Center()
}

// Grid returns the placement grid.
func (r *Room) Grid() *Grid { return r.grid }

// Doors returns the door directions.
func (r *Room) Doors() []layout.Direction { return slices.Clone(r.doors) }

// HasDoor reports whether wall d has a door.
func (r *Room) HasDoor(d layout.Direction) bool { return slices.Contains(r.doors, d) }

// DoorsHidden reports whether the door gaps are hidden from presentation.
func (r *Room) DoorsHidden() bool { return r.doorsHidden }

// DoorBounds returns the physical door rectangle in wall d.
func (r *Room) DoorBounds(d layout.Direction) geom.Rect {
	dm := r.svc.Dims
	width := dm.WallThickness * 2
	x, y := r.Position.X, r.Position.Y
	switch d {
	case layout.Up:
		return geom.Rect{X: x + dm.RoomWidth/2 - width/2, Y: y + dm.RoomHeight - dm.WallThickness, W: width, H: dm.WallThickness}
	case layout.Down:
		return geom.Rect{X: x + dm.RoomWidth/2 - width/2, Y: y - dm.WallThickness/2, W: width, H: dm.WallThickness}
	case layout.Left:
		return geom.Rect{X: x - dm.WallThickness/2, Y: y + dm.RoomHeight/2 - width/2, W: dm.WallThickness, H: width}
	default:
		return geom.Rect{X: x + dm.RoomWidth - dm.WallThickness/2, Y: y + dm.RoomHeight/2 - width/2, W: dm.WallThickness, H: width}
	}
}

// DoorZone returns the door's interaction rectangle: the physical door grown
// by the door padding.
func (r *Room) DoorZone(d layout.Direction) geom.Rect {
	return r.DoorBounds(d).Expand(r.svc.Dims.DoorPadding() / 2)
}

// EntryPoint returns where the player appears after travelling through a
// door in direction travel: just inside the wall opposite to it.
func (r *Room) EntryPoint(travel layout.Direction) geom.Vec2 {
	dm := r.svc.Dims
	offset := dm.RoomHeight / 12
	x, y := r.Position.X, r.Position.Y
	switch travel.Opposite() {
	case layout.Up:
		return geom.V(x+dm.RoomWidth/2, y+dm.RoomHeight-offset)
	case layout.Down:
		return geom.V(x+dm.RoomWidth/2, y+offset)
	case layout.Left:
		return geom.V(x+offset, y+dm.RoomHeight/2)
	default:
		return geom.V(x+dm.RoomWidth-offset, y+dm.RoomHeight/2)
	}
}

// cellToWorld converts a placement cell to the world position of its centre.
func (r *Room) cellToWorld(p GridPos) geom.Vec2 {
	t := r.svc.Dims.TileSize
	return geom.V(r.Position.X+float64(p.X)*t+t/2, r.Position.Y+float64(p.Y)*t+t/2)
}

// Enemies returns the live enemy list.
func (r *Room) Enemies() []*enemy.Enemy { return r.enemies }

// Pickups returns the pickups lying in the room.
func (r *Room) Pickups() []*item.Pickup { return r.pickups }

// Traps returns the floor traps.
func (r *Room) Traps() []*Trap { return r.traps }

// Chests returns the chests.
func (r *Room) Chests() []*Chest { return r.chests }

// Generated reports whether content generation has run.
func (r *Room) Generated() bool { return r.generated }

// Active reports whether the room is being updated.
func (r *Room) Active() bool { return r.active }

// Cleared reports whether the room-cleared event has fired.
func (r *Room) Cleared() bool { return r.clearedReported }

// EnemiesRemain reports whether any enemy is still in the room. An enemy
// playing its death animation counts until it is removed and its loot has
// dropped. It is evaluated on every call.
func (r *Room) EnemiesRemain() bool { return len(r.enemies) > 0 }

// GenerateContentIfNeeded runs the archetype recipe once. Later calls do
// nothing.
func (r *Room) GenerateContentIfNeeded() {
	if r.generated {
		return
	}
	r.generated = true
	a := archetypeFor(r.Type)
	var placed Placement
	if a.plan != nil {
		placed = r.placer.Place(r, a.plan(r))
	}
	if a.setup != nil {
		a.setup(r)
	}
	r.svc.Logger.Debug("room content generated",
		zap.Int("row", r.Cell.Row),
		zap.Int("col", r.Cell.Col),
		zap.String("room_type", r.Type.String()),
		zap.Int("placed", placed.Placed),
		zap.Int("skipped", placed.Skipped),
		zap.Int("enemies", len(r.enemies)),
		zap.Int("pickups", len(r.pickups)),
	)
}

// Activate generates content if needed, wakes the enemies and shows the
// doors.
func (r *Room) Activate() {
	r.GenerateContentIfNeeded()
	r.active = true
	r.doorsHidden = false
	for _, e := range r.enemies {
		e.Activate()
	}
	if r.initialEnemies == 0 {
		r.initialEnemies = len(r.enemies)
	}
}

// Deactivate freezes the room and hides its doors.
func (r *Room) Deactivate() {
	r.active = false
	r.doorsHidden = true
	r.onExit = false
	for _, e := range r.enemies {
		e.Deactivate()
	}
}

// Update runs one frame for an active room. Inactive rooms do nothing.
//
// Precondition: pl is inside this room and has already run its own update
// this frame.
func (r *Room) Update(delta float64, pl *player.Player) {
	if !r.active {
		return
	}
	interior := r.InteriorBounds()
	for _, e := range r.enemies {
		e.Update(delta, pl, interior, r.enemies)
	}
	combat.Resolve(r.svc.Resolver, pl.Bullets(), r.enemies, interior)
	r.reportKills()
	r.removeFinished()

	for _, t := range r.traps {
		t.update(delta, pl, r.svc.Dims.TileSize)
	}
	r.updateChests(delta)
	r.collectCurrency(pl)
	r.pickups = slices.DeleteFunc(r.pickups, func(p *item.Pickup) bool { return p.Taken })
	if r.exit != nil {
		r.onExit = pl.Bounds().Overlaps(*r.exit)
	}
	r.checkCleared()
}

func (r *Room) reportKills() {
	for _, e := range r.enemies {
		if e.IsDead() && !r.killsReported.Has(e.ID) {
			r.killsReported.Put(e.ID)
			r.svc.Listener.EnemyKilled(r, e)
		}
	}
}

// removeFinished drops enemies whose death animation has ended and spawns
// their loot.
func (r *Room) removeFinished() {
	r.enemies = slices.DeleteFunc(r.enemies, func(e *enemy.Enemy) bool {
		if !e.DeathFinished() {
			return false
		}
		r.dropLoot(e)
		return true
	})
}

func (r *Room) dropLoot(e *enemy.Enemy) {
	loot := e.Profile().Loot.Roll(r.svc.Roller, r.svc.Catalog)
	var defs []*item.Def
	for i := 0; i < loot.Coins; i++ {
		defs = append(defs, r.svc.Catalog.MustGet(item.Coin))
	}
	for i := 0; i < loot.Keys; i++ {
		defs = append(defs, r.svc.Catalog.MustGet(item.Key))
	}
	defs = append(defs, loot.Items...)

	interior := r.InteriorBounds()
	half := r.svc.Dims.TileSize / 4
	for i, def := range defs {
		angle := 2 * math.Pi * float64(i) / float64(len(defs))
		at := e.Position().Add(geom.V(math.Cos(angle), math.Sin(angle)).Scale(r.svc.Dims.TileSize * 0.5))
		r.pickups = append(r.pickups, item.NewPickup(def, interior.ClampCenter(at, half, half)))
	}
	if loot.Chest {
		r.chests = append(r.chests, newChest(e.Position()))
	}
	r.svc.Logger.Debug("loot dropped",
		zap.String("enemy", e.Kind.String()),
		zap.Int("coins", loot.Coins),
		zap.Int("keys", loot.Keys),
		zap.Int("items", len(loot.Items)),
		zap.Bool("chest", loot.Chest),
	)
}

func (r *Room) checkCleared() {
	if r.clearedReported || r.initialEnemies == 0 || r.EnemiesRemain() {
		return
	}
	r.clearedReported = true
	r.svc.Stats.OnRoomCleared()
	r.svc.Listener.RoomCleared(r)
}
