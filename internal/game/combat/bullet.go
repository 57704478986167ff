// Package combat resolves projectile hits inside the active room.
package combat

import (
	"slices"

	"github.com/cory-johannsen/roguehammer/internal/game/geom"
)

// Bullet is a projectile in flight.
//
// Invariant: once Active is false the bullet never moves or hits again.
type Bullet struct {
	Position geom.Vec2
	Velocity geom.Vec2
	Damage   int
	Size     float64
	Active   bool
}

// NewBullet fires a bullet from origin along dir.
//
// Precondition: dir is non-zero.
// Postcondition: Velocity is dir normalised and scaled by speed.
func NewBullet(origin, dir geom.Vec2, speed float64, damage int, size float64) *Bullet {
	return &Bullet{
		Position: origin,
		Velocity: dir.Nor().Scale(speed),
		Damage:   damage,
		Size:     size,
		Active:   true,
	}
}

// Update advances an active bullet by one frame.
func (b *Bullet) Update(delta float64) {
	if !b.Active {
		return
	}
	b.Position = b.Position.Add(b.Velocity.Scale(delta))
}

// Bounds returns the bullet's square hit box.
func (b *Bullet) Bounds() geom.Rect {
	return geom.RectAround(b.Position, b.Size, b.Size)
}

// Deactivate stops the bullet. The owner disposes of it on its next sweep.
func (b *Bullet) Deactivate() {
	b.Active = false
}

// Sweep removes inactive bullets in place and returns the shortened slice.
func Sweep(bullets []*Bullet) []*Bullet {
	return slices.DeleteFunc(bullets, func(b *Bullet) bool { return !b.Active })
}
