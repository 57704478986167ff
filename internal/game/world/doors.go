package world

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/roguehammer/internal/game/event"
	"github.com/cory-johannsen/roguehammer/internal/game/layout"
)

// DoorResult is the outcome of a door-use request.
type DoorResult int

// Door-use outcomes.
const (
	// DoorMoved means the player went through.
	DoorMoved DoorResult = iota
	// DoorBlocked means the current room still has live enemies.
	DoorBlocked
	// DoorNoRoom means there is no door that way or no room behind it.
	DoorNoRoom
	// DoorDisabled means the level is not accepting door use.
	DoorDisabled
)

func (r DoorResult) String() string {
	switch r {
	case DoorMoved:
		return "moved"
	case DoorBlocked:
		return "blocked"
	case DoorNoRoom:
		return "no_room"
	default:
		return "disabled"
	}
}

// NearDoor returns the door whose interaction zone the player overlapped
// during the last frame.
func (n *Navigator) NearDoor() (layout.Direction, bool) {
	if n.nearDoor == nil {
		return 0, false
	}
	return *n.nearDoor, true
}

func (n *Navigator) detectDoor() *layout.Direction {
	cur := n.CurrentRoom()
	bounds := n.player.Bounds()
	for _, d := range cur.Doors() {
		if bounds.Overlaps(cur.DoorZone(d)) {
			return &d
		}
	}
	return nil
}

// CanUseDoor reports whether doors are open right now. It is evaluated on
// every call because enemies can be removed between frames. Doors stay shut
// while a killed enemy is still playing its death animation.
func (n *Navigator) CanUseDoor() bool {
	return n.phase == Exploring && !n.CurrentRoom().EnemiesRemain()
}

// UseDoor moves the player through the current room's door in direction d.
//
// Postcondition: on DoorMoved the old room is inactive, the new room is
// active and generated, and the player stands just inside the wall of the
// new room opposite to d. Any other result leaves the level unchanged.
func (n *Navigator) UseDoor(d layout.Direction) DoorResult {
	if n.phase != Exploring {
		return DoorDisabled
	}
	cur := n.CurrentRoom()
	if cur.EnemiesRemain() {
		n.logger.Debug("door blocked", zap.Stringer("direction", d))
		return DoorBlocked
	}
	if !cur.HasDoor(d) {
		return DoorNoRoom
	}
	target := cur.Cell.Step(d)
	h, ok := n.index[target]
	if !ok {
		return DoorNoRoom
	}

	next := n.rooms[h]
	cur.Deactivate()
	n.player.ClearBullets()
	next.Activate()
	n.current = h
	n.player.SetPosition(next.EntryPoint(d), next.InteriorBounds())
	n.nearDoor = nil
	n.audio.Play(event.CueDoorUsed)
	n.hooks.RoomEntered(target.Row, target.Col, next.Type.String())
	n.logger.Debug("room entered",
		zap.Stringer("direction", d),
		zap.Int("row", target.Row),
		zap.Int("col", target.Col),
		zap.String("room_type", next.Type.String()),
	)
	return DoorMoved
}
