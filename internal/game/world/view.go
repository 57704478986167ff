package world

import (
	"github.com/cory-johannsen/roguehammer/internal/game/enemy"
	"github.com/cory-johannsen/roguehammer/internal/game/geom"
	"github.com/cory-johannsen/roguehammer/internal/game/layout"
	"github.com/cory-johannsen/roguehammer/internal/game/room"
)

// View is a read-only copy of everything a renderer draws for one frame.
// Nothing in it aliases Navigator state.
type View struct {
	Phase  Phase
	Frame  int
	Camera geom.Vec2
	Room   RoomView
	Player PlayerView
	// DeathFade runs from 0 to 1 over the death delay while Dying.
	DeathFade float64
}

// RoomView describes the current room.
type RoomView struct {
	Cell    layout.Cell
	Type    layout.RoomType
	Shape   layout.Shape
	Bounds  geom.Rect
	Doors   []DoorView
	Enemies []EnemyView
	Pickups []PickupView
	Traps   []TrapView
	Chests  []ChestView
	Exit    *geom.Rect
}

// DoorView is one door. Open doors can be walked through.
type DoorView struct {
	Direction layout.Direction
	Bounds    geom.Rect
	Open      bool
	Near      bool
}

// EnemyView is one enemy.
type EnemyView struct {
	Kind     enemy.Kind
	State    enemy.State
	Bounds   geom.Rect
	Size     float64
	Facing   geom.Vec2
	Health   int
	Swinging bool
}

// PickupView is one item on the floor or on a shop shelf.
type PickupView struct {
	ItemID string
	Bounds geom.Rect
	Price  int
}

// TrapView is one trap.
type TrapView struct {
	Bounds geom.Rect
	Armed  bool
}

// ChestView is one chest.
type ChestView struct {
	Bounds geom.Rect
	State  room.ChestState
}

// PlayerView is the player and their projectiles.
type PlayerView struct {
	Bounds    geom.Rect
	Aim       geom.Vec2
	Health    int
	MaxHealth int
	Coins     int
	Keys      int
	Weapon    string
	Ammo      int
	Magazine  int
	Reloading bool
	Bullets   []geom.Rect
}

// View snapshots the current frame.
func (n *Navigator) View() View {
	cur := n.CurrentRoom()
	tile := n.dims.TileSize
	v := View{
		Phase:  n.phase,
		Frame:  n.frames,
		Camera: n.camera.Position,
	}
	if n.phase == Dying && n.dims.PlayerDeathDelay > 0 {
		v.DeathFade = min(n.deathTimer/n.dims.PlayerDeathDelay, 1)
	}

	rv := RoomView{
		Cell:   cur.Cell,
		Type:   cur.Type,
		Shape:  cur.Shape,
		Bounds: cur.Bounds(),
	}
	near, isNear := n.NearDoor()
	if !cur.DoorsHidden() {
		open := n.CanUseDoor()
		for _, d := range cur.Doors() {
			rv.Doors = append(rv.Doors, DoorView{
				Direction: d,
				Bounds:    cur.DoorBounds(d),
				Open:      open,
				Near:      isNear && near == d,
			})
		}
	}
	for _, e := range cur.Enemies() {
		rv.Enemies = append(rv.Enemies, EnemyView{
			Kind:     e.Kind,
			State:    e.State(),
			Bounds:   e.Bounds(),
			Size:     e.VisualSize(),
			Facing:   e.Facing(),
			Health:   e.Health(),
			Swinging: e.Swinging(),
		})
	}
	for _, p := range cur.Pickups() {
		if p.Taken {
			continue
		}
		rv.Pickups = append(rv.Pickups, PickupView{ItemID: p.Def.ID, Bounds: p.Bounds(tile), Price: p.Price})
	}
	for _, t := range cur.Traps() {
		rv.Traps = append(rv.Traps, TrapView{Bounds: t.Bounds(tile), Armed: t.Armed()})
	}
	for _, c := range cur.Chests() {
		if c.State() == room.ChestGone {
			continue
		}
		rv.Chests = append(rv.Chests, ChestView{Bounds: c.Bounds(tile), State: c.State()})
	}
	if exit, ok := cur.ExitBounds(); ok {
		rv.Exit = &exit
	}
	v.Room = rv

	pl := n.player
	pv := PlayerView{
		Bounds:    pl.Bounds(),
		Aim:       pl.Aim(),
		Health:    pl.Health(),
		MaxHealth: pl.MaxHealth(),
		Coins:     pl.Coins(),
		Keys:      pl.Keys(),
	}
	if w := pl.Equipped(); w != nil {
		pv.Weapon = w.Def.ID
		pv.Ammo = w.Ammo()
		pv.Magazine = w.Magazine()
		pv.Reloading = w.Reloading()
	}
	for _, b := range pl.Bullets() {
		if b.Active {
			pv.Bullets = append(pv.Bullets, b.Bounds())
		}
	}
	v.Player = pv
	return v
}
