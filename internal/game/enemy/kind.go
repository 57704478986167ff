// Package enemy implements the enemy archetypes and their per-frame
// behaviour: an Idle, Attack and Die state machine driven by distance to the
// player, with separation between neighbouring enemies.
package enemy

import (
	"fmt"

	"github.com/cory-johannsen/roguehammer/internal/game/dice"
	"github.com/cory-johannsen/roguehammer/internal/game/tuning"
)

// Kind selects an enemy archetype.
type Kind int

// Enemy archetypes.
const (
	Goblin Kind = iota
	Orc
	Boss
)

// String returns the lower-case archetype name.
func (k Kind) String() string {
	switch k {
	case Goblin:
		return "goblin"
	case Orc:
		return "orc"
	case Boss:
		return "boss"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind converts a name produced by String back to a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range []Kind{Goblin, Orc, Boss} {
		if k.String() == s {
			return k, nil
		}
	}
	return Goblin, fmt.Errorf("unknown enemy kind %q", s)
}

// attackFunc performs one attack against target and reports whether it
// landed.
type attackFunc func(e *Enemy, target Target) bool

// Profile is the constant table for one archetype. Ranges and sizes are in
// tiles so they scale with the configured tile size.
type Profile struct {
	MaxHealth      int
	Speed          float64
	Damage         int
	AttackCooldown float64
	// AttackRange is the melee reach in tiles.
	AttackRange float64
	// AggroFraction is the aggro range as a fraction of the room width.
	AggroFraction  float64
	VisualScale    float64
	CollisionScale float64
	// SwingDuration is how long the presentation swing lasts; zero for none.
	SwingDuration float64
	Loot          LootTable

	attack attackFunc
}

var profiles = map[Kind]*Profile{
	Goblin: {
		MaxHealth:      4,
		Speed:          220,
		Damage:         1,
		AttackCooldown: 1.2,
		AttackRange:    0.7,
		AggroFraction:  1 / 1.5,
		VisualScale:    1.0,
		CollisionScale: 0.8,
		Loot: LootTable{
			Coins:      dice.MustParse("1d2-1"),
			KeyChance:  0.10,
			ItemChance: 0.05,
		},
		attack: strike,
	},
	Orc: {
		MaxHealth:      16,
		Speed:          180,
		Damage:         2,
		AttackCooldown: 2.0,
		AttackRange:    1.5 * 0.7,
		AggroFraction:  1 / 1.5,
		VisualScale:    1.5,
		CollisionScale: 1.25,
		SwingDuration:  0.6,
		Loot: LootTable{
			Coins:      dice.MustParse("1d2"),
			KeyChance:  0.20,
			ItemChance: 0.10,
		},
		attack: swing,
	},
	Boss: {
		MaxHealth:      60,
		Speed:          140,
		Damage:         3,
		AttackCooldown: 1.5,
		AttackRange:    2.5 * 0.7,
		AggroFraction:  1,
		VisualScale:    2.5,
		CollisionScale: 2.0,
		SwingDuration:  0.8,
		Loot: LootTable{
			Coins:       dice.MustParse("5"),
			KeyChance:   1,
			ItemChance:  0.5,
			ChestChance: 0.5,
		},
		attack: swing,
	},
}

// ProfileFor returns the constant table for k.
//
// Precondition: k is Goblin, Orc or Boss.
func ProfileFor(k Kind) *Profile {
	p, ok := profiles[k]
	if !ok {
		panic("enemy: no profile for " + k.String())
	}
	return p
}

// Tuning constants shared by every archetype.
const (
	// DeathDuration is how long a dead enemy stays in the room.
	DeathDuration = 1.0
	// SeparationStrength is the push speed away from overlapping neighbours.
	SeparationStrength = 150.0
	// attackToleranceTiles extends the reach check when an attack fires.
	attackToleranceTiles = 0.25
)

// strike is a plain melee hit.
func strike(e *Enemy, target Target) bool {
	if e.position.Dst(target.Position()) > e.attackRange+e.tolerance {
		return false
	}
	target.TakeDamage(e.profile.Damage)
	return true
}

// swing starts the presentation swing and then strikes.
func swing(e *Enemy, target Target) bool {
	e.swingTimer = e.profile.SwingDuration
	return strike(e, target)
}

// ranges converts tile units to world units for d.
func (p *Profile) ranges(d tuning.Dimensions) (aggro, attack, tolerance float64) {
	return d.RoomWidth * p.AggroFraction, d.TileSize * p.AttackRange, d.TileSize * attackToleranceTiles
}
