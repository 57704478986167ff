package enemy

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/roguehammer/internal/game/geom"
	"github.com/cory-johannsen/roguehammer/internal/game/tuning"
)

// State is the enemy's behaviour state.
type State int

// Behaviour states. Die is terminal.
const (
	Idle State = iota
	Attack
	Die
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Attack:
		return "attack"
	case Die:
		return "die"
	default:
		return "unknown"
	}
}

// Target is what enemies chase and attack.
type Target interface {
	Position() geom.Vec2
	TakeDamage(n int) int
}

// Enemy is a live enemy owned by one room.
//
// Invariant: health never increases; once State is Die it stays Die.
type Enemy struct {
	ID   string
	Kind Kind
	// Room is the handle of the owning room in the level's room registry.
	Room int

	profile *Profile

	position    geom.Vec2
	facing      geom.Vec2
	moving      bool
	health      int
	state       State
	active      bool
	aggroRange  float64
	attackRange float64
	tolerance   float64
	visualSize  float64
	hitSize     float64
	attackTimer float64
	swingTimer  float64
	deathTimer  float64
}

// New creates an inactive enemy of kind at pos in room.
//
// Postcondition: health is the archetype maximum and the attack timer is
// primed so the first attack in range lands immediately.
func New(kind Kind, pos geom.Vec2, room int, dims tuning.Dimensions) *Enemy {
	p := ProfileFor(kind)
	aggro, attack, tol := p.ranges(dims)
	return &Enemy{
		ID:          uuid.NewString(),
		Kind:        kind,
		Room:        room,
		profile:     p,
		position:    pos,
		facing:      geom.V(0, -1),
		health:      p.MaxHealth,
		aggroRange:  aggro,
		attackRange: attack,
		tolerance:   tol,
		visualSize:  dims.TileSize * p.VisualScale,
		hitSize:     dims.TileSize * p.CollisionScale,
		attackTimer: p.AttackCooldown,
	}
}

// Profile returns the archetype table.
func (e *Enemy) Profile() *Profile { return e.profile }

// Position returns the enemy's centre.
func (e *Enemy) Position() geom.Vec2 { return e.position }

// Facing returns the last movement direction, for presentation.
func (e *Enemy) Facing() geom.Vec2 { return e.facing }

// Moving reports whether the enemy moved on its last update.
func (e *Enemy) Moving() bool { return e.moving }

// Health returns current health.
func (e *Enemy) Health() int { return e.health }

// State returns the behaviour state.
func (e *Enemy) State() State { return e.state }

// VisualSize returns the presentation size in world units.
func (e *Enemy) VisualSize() float64 { return e.visualSize }

// Swinging reports whether an attack swing is playing.
func (e *Enemy) Swinging() bool { return e.swingTimer > 0 }

// Active reports whether the enemy's room is running it.
func (e *Enemy) Active() bool { return e.active }

// Activate lets the enemy update.
func (e *Enemy) Activate() { e.active = true }

// Deactivate freezes the enemy.
func (e *Enemy) Deactivate() { e.active = false }

// IsDead reports whether the enemy has entered Die.
func (e *Enemy) IsDead() bool { return e.state == Die }

// Alive reports whether the enemy is active and not dead.
func (e *Enemy) Alive() bool { return e.active && e.state != Die }

// Hittable reports whether bullets can hit the enemy.
func (e *Enemy) Hittable() bool { return e.Alive() }

// Bounds returns the collision box, which is smaller than the visual size.
func (e *Enemy) Bounds() geom.Rect {
	return geom.RectAround(e.position, e.hitSize, e.hitSize)
}

// DeathFinished reports whether the death animation has run its course and
// the enemy should be removed from its room.
func (e *Enemy) DeathFinished() bool {
	return e.state == Die && e.deathTimer >= DeathDuration
}

// TakeDamage applies n damage.
//
// Postcondition: returns the damage applied and true exactly once, on the
// call that moves the enemy into Die. Calls after death apply nothing.
func (e *Enemy) TakeDamage(n int) (int, bool) {
	if e.state == Die || n <= 0 {
		return 0, false
	}
	applied := min(n, e.health)
	e.health -= applied
	if e.health > 0 {
		return applied, false
	}
	e.state = Die
	e.moving = false
	e.deathTimer = 0
	return applied, true
}

// Update runs one frame of behaviour.
//
// Precondition: bounds is the owning room's interior; others are the room's
// enemies and may include e.
func (e *Enemy) Update(delta float64, target Target, bounds geom.Rect, others []*Enemy) {
	if !e.active {
		return
	}
	if e.state == Die {
		e.deathTimer += delta
		return
	}
	e.attackTimer += delta
	if e.swingTimer > 0 {
		e.swingTimer = max(0, e.swingTimer-delta)
	}
	e.moving = false

	toTarget := target.Position().Sub(e.position)
	dist := toTarget.Len()
	ready := e.attackTimer >= e.profile.AttackCooldown

	switch {
	case dist > e.aggroRange:
		e.state = Idle
	case dist <= e.attackRange:
		e.state = Attack
		if !toTarget.IsZero() {
			e.facing = toTarget.Nor()
		}
		if ready {
			e.profile.attack(e, target)
			e.attackTimer = 0
		}
	default:
		e.state = Attack
		if ready {
			e.chase(delta, toTarget, bounds, others)
		}
	}
}

// chase takes one axis-dominant step toward the target plus separation
// from overlapping neighbours, then clamps to bounds.
func (e *Enemy) chase(delta float64, toTarget geom.Vec2, bounds geom.Rect, others []*Enemy) {
	dir := toTarget.AxisDominant()
	step := dir.Scale(e.profile.Speed * delta)
	candidate := e.position.Add(step)
	next := candidate.Add(e.separation(candidate, others).Scale(SeparationStrength * delta))
	e.position = bounds.ClampCenter(next, e.hitSize, e.hitSize)
	e.facing = dir
	e.moving = true
}

// separation sums unit vectors pointing away from every active, living
// neighbour whose box would overlap e's box at candidate.
func (e *Enemy) separation(candidate geom.Vec2, others []*Enemy) geom.Vec2 {
	box := geom.RectAround(candidate, e.hitSize, e.hitSize)
	var push geom.Vec2
	for _, o := range others {
		if o == e || !o.Alive() || !box.Overlaps(o.Bounds()) {
			continue
		}
		away := e.position.Sub(o.position).Nor()
		if away.IsZero() {
			away = geom.V(1, 0)
		}
		push = push.Add(away)
	}
	return push
}
