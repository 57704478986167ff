// Package input defines the per-frame input snapshot the simulation reads.
// The core never polls devices; a collaborator builds one Snapshot per frame.
package input

import "github.com/cory-johannsen/roguehammer/internal/game/geom"

// Snapshot is an immutable view of the controls for one frame.
type Snapshot struct {
	// Move is a unit vector or zero.
	Move geom.Vec2
	// Aim is the direction to shoot in. Zero means keep the last aim.
	Aim geom.Vec2

	Shoot            bool
	ShootJustPressed bool
	Reload           bool
	UseJustPressed   bool
	UseItem          bool
	NextItem         bool
	PrevItem         bool
	NextWeapon       bool
}

// Idle is the snapshot with nothing pressed.
var Idle = Snapshot{}
