package world

import (
	"github.com/cory-johannsen/roguehammer/internal/game/geom"
	"github.com/cory-johannsen/roguehammer/internal/game/room"
)

// CameraLerp is the fraction of the remaining distance the camera covers
// each frame.
const CameraLerp = 0.25

// Camera follows the current room.
type Camera struct {
	Position geom.Vec2
	Target   geom.Vec2
}

// newCamera returns a camera snapped to target.
func newCamera(target geom.Vec2) Camera {
	return Camera{Position: target, Target: target}
}

func (c *Camera) update(target geom.Vec2) {
	c.Target = target
	c.Position = c.Position.Lerp(target, CameraLerp)
}

// cameraTarget centres on r, shifted up by half the HUD margin.
func (n *Navigator) cameraTarget(r *room.Room) geom.Vec2 {
	return r.Center().Add(geom.V(0, n.dims.TopMargin/2))
}
