package sim

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/cory-johannsen/roguehammer/internal/game/enemy"
	"github.com/cory-johannsen/roguehammer/internal/game/geom"
	"github.com/cory-johannsen/roguehammer/internal/game/input"
	"github.com/cory-johannsen/roguehammer/internal/game/item"
	"github.com/cory-johannsen/roguehammer/internal/game/layout"
	"github.com/cory-johannsen/roguehammer/internal/game/room"
	"github.com/cory-johannsen/roguehammer/internal/game/world"
)

// InputProvider produces the input snapshot for the next frame.
type InputProvider interface {
	Next(n *world.Navigator) input.Snapshot
}

// Idle is an InputProvider that never touches anything.
type Idle struct{}

// Next returns input.Idle.
func (Idle) Next(*world.Navigator) input.Snapshot { return input.Idle }

// Autopilot tuning, in tiles.
const (
	engageFar    = 5.0
	engageNear   = 2.5
	reachPickup  = 0.8
	lowHealthCut = 2
)

// Autopilot plays a level headlessly: it fights whatever is in the room,
// picks up what it can afford, opens chests when it holds keys, explores
// every reachable room and finally takes the exit.
type Autopilot struct {
	frame   int
	visited mapset.Set[layout.Cell]
	tried   mapset.Set[string]
}

// NewAutopilot returns an Autopilot that has seen no rooms.
func NewAutopilot() *Autopilot {
	return &Autopilot{
		visited: mapset.New[layout.Cell](),
		tried:   mapset.New[string](),
	}
}

// Visited returns the number of distinct rooms entered.
func (a *Autopilot) Visited() int { return a.visited.Size() }

// Next decides the input for the coming frame.
func (a *Autopilot) Next(n *world.Navigator) input.Snapshot {
	a.frame++
	if n.Phase() != world.Exploring {
		return input.Idle
	}
	cur := n.CurrentRoom()
	a.visited.Put(cur.Cell)
	pl := n.Player()

	var in input.Snapshot
	if w := pl.Equipped(); w != nil && w.Ammo() == 0 && !w.Reloading() {
		in.Reload = true
	}
	if sel := pl.SelectedActive(); sel != nil && sel.Ready() && pl.Health() <= lowHealthCut {
		in.UseItem = true
	}

	if target := a.nearestEnemy(cur, pl.Position()); target != nil {
		a.fight(&in, n, target)
		return in
	}
	if p := a.nextPickup(cur, n); p != nil {
		a.walkAndUse(&in, n, p.Position, p.ID, p.Def.Kind != item.KindCurrency)
		return in
	}
	if c := a.nextChest(cur, n); c != nil {
		a.walkAndUse(&in, n, c.Position, c.ID, true)
		return in
	}
	if d, ok := a.route(n); ok {
		a.takeDoor(&in, n, d)
		return in
	}
	if exit, ok := cur.ExitBounds(); ok {
		in.Move = exit.Center().Sub(pl.Position())
		if pl.Bounds().Overlaps(exit) {
			in.Move = geom.Vec2{}
			in.UseJustPressed = a.frame%2 == 0
		}
	}
	return in
}

func (a *Autopilot) nearestEnemy(r *room.Room, from geom.Vec2) *enemy.Enemy {
	var best *enemy.Enemy
	for _, e := range r.Enemies() {
		if !e.Alive() {
			continue
		}
		if best == nil || from.Dst(e.Position()) < from.Dst(best.Position()) {
			best = e
		}
	}
	return best
}

func (a *Autopilot) fight(in *input.Snapshot, n *world.Navigator, e *enemy.Enemy) {
	pl := n.Player()
	tile := pl.Size()
	to := e.Position().Sub(pl.Position())
	in.Aim = to
	dist := to.Len()
	switch {
	case dist > engageFar*tile:
		in.Move = to
	case dist < engageNear*tile:
		in.Move = to.Scale(-1)
	}
	if w := pl.Equipped(); w != nil {
		in.Shoot = true
		in.ShootJustPressed = a.frame%2 == 0
	}
}

// nextPickup returns the nearest pickup worth walking to: currency, free
// items and shop offers the player can afford that it has not tried yet.
func (a *Autopilot) nextPickup(r *room.Room, n *world.Navigator) *item.Pickup {
	pl := n.Player()
	var best *item.Pickup
	for _, p := range r.Pickups() {
		if p.Taken || a.tried.Has(p.ID) || p.Price > pl.Coins() {
			continue
		}
		if best == nil || pl.Position().Dst(p.Position) < pl.Position().Dst(best.Position) {
			best = p
		}
	}
	return best
}

func (a *Autopilot) nextChest(r *room.Room, n *world.Navigator) *room.Chest {
	if n.Player().Keys() == 0 {
		return nil
	}
	for _, c := range r.Chests() {
		if c.State() == room.ChestLocked && !a.tried.Has(c.ID) {
			return c
		}
	}
	return nil
}

// walkAndUse moves to target and, when press is set, presses use once in
// reach. Inside a door zone use would take the door, so the target is
// skipped instead.
func (a *Autopilot) walkAndUse(in *input.Snapshot, n *world.Navigator, target geom.Vec2, id string, press bool) {
	pl := n.Player()
	in.Move = target.Sub(pl.Position())
	if !press || pl.Position().Dst(target) > reachPickup*pl.Size() {
		return
	}
	in.Move = geom.Vec2{}
	if id != "" {
		a.tried.Put(id)
	}
	if _, near := n.NearDoor(); near {
		return
	}
	in.UseJustPressed = true
}

func (a *Autopilot) takeDoor(in *input.Snapshot, n *world.Navigator, d layout.Direction) {
	cur := n.CurrentRoom()
	pl := n.Player()
	zone := cur.DoorZone(d)
	in.Move = zone.Center().Sub(pl.Position())
	if near, ok := n.NearDoor(); ok && near == d {
		in.UseJustPressed = a.frame%2 == 0
	}
}

// route returns the first door on the shortest path to the nearest
// unvisited room, or to the End room once everything has been seen.
func (a *Autopilot) route(n *world.Navigator) (layout.Direction, bool) {
	start := n.CurrentRoom().Cell
	type step struct {
		cell  layout.Cell
		first layout.Direction
	}
	seen := mapset.New[layout.Cell]()
	seen.Put(start)
	queue := []step{}
	var fallback *step
	for _, d := range layout.Directions {
		if next, ok := passable(n, start, d); ok {
			seen.Put(next)
			queue = append(queue, step{cell: next, first: d})
		}
	}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		if !a.visited.Has(s.cell) {
			return s.first, true
		}
		if r, _ := n.RoomAt(s.cell); r.Type == layout.End && fallback == nil {
			found := s
			fallback = &found
		}
		for _, d := range layout.Directions {
			if next, ok := passable(n, s.cell, d); ok && !seen.Has(next) {
				seen.Put(next)
				queue = append(queue, step{cell: next, first: s.first})
			}
		}
	}
	if fallback != nil {
		return fallback.first, true
	}
	return 0, false
}

// passable reports whether a door connects from with its neighbour in d.
func passable(n *world.Navigator, from layout.Cell, d layout.Direction) (layout.Cell, bool) {
	r, ok := n.RoomAt(from)
	if !ok || !r.HasDoor(d) {
		return layout.Cell{}, false
	}
	to := from.Step(d)
	next, ok := n.RoomAt(to)
	if !ok || !next.HasDoor(d.Opposite()) {
		return layout.Cell{}, false
	}
	return to, true
}
