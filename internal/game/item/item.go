// Package item defines the static item catalogue (weapons, passive upgrades,
// active items, consumables and currency) and the pickups that place those
// items in a room.
package item

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/roguehammer/internal/game/geom"
)

// Kind constants for Def.Kind.
const (
	KindWeapon     = "weapon"
	KindPassive    = "passive"
	KindActive     = "active"
	KindConsumable = "consumable"
	KindCurrency   = "currency"
)

var validKinds = map[string]bool{
	KindWeapon:     true,
	KindPassive:    true,
	KindActive:     true,
	KindConsumable: true,
	KindCurrency:   true,
}

// Currency names for Def.Currency.
const (
	CurrencyCoin = "coin"
	CurrencyKey  = "key"
)

// Active effect names for ActiveStats.Effect.
const (
	EffectHeal       = "heal"
	EffectRefillAmmo = "refill_ammo"
)

// WeaponStats are the base firing characteristics of a weapon.
type WeaponStats struct {
	Cooldown    float64 `yaml:"cooldown"`
	BulletSpeed float64 `yaml:"bullet_speed"`
	Damage      float64 `yaml:"damage"`
	Magazine    int     `yaml:"magazine"`
	ReloadTime  float64 `yaml:"reload_time"`
	Automatic   bool    `yaml:"automatic"`
}

// Modifiers are the stat changes a passive item contributes. Multipliers
// default to 1 when loaded from YAML.
type Modifiers struct {
	Speed          float64 `yaml:"speed"`
	Damage         float64 `yaml:"damage"`
	ReloadTime     float64 `yaml:"reload_time"`
	FireRate       float64 `yaml:"fire_rate"`
	BulletSpeed    float64 `yaml:"bullet_speed"`
	Magazine       float64 `yaml:"magazine"`
	MaxHealthBonus int     `yaml:"max_health_bonus"`
}

// Identity returns modifiers that change nothing.
func Identity() Modifiers {
	return Modifiers{Speed: 1, Damage: 1, ReloadTime: 1, FireRate: 1, BulletSpeed: 1, Magazine: 1}
}

// Combine folds o into m: multipliers multiply and bonuses add.
func (m Modifiers) Combine(o Modifiers) Modifiers {
	return Modifiers{
		Speed:          m.Speed * o.Speed,
		Damage:         m.Damage * o.Damage,
		ReloadTime:     m.ReloadTime * o.ReloadTime,
		FireRate:       m.FireRate * o.FireRate,
		BulletSpeed:    m.BulletSpeed * o.BulletSpeed,
		Magazine:       m.Magazine * o.Magazine,
		MaxHealthBonus: m.MaxHealthBonus + o.MaxHealthBonus,
	}
}

// ActiveStats describe a rechargeable item used on demand.
type ActiveStats struct {
	Effect   string  `yaml:"effect"`
	Amount   int     `yaml:"amount"`
	Cooldown float64 `yaml:"cooldown"`
}

// Def is the static definition of one item.
type Def struct {
	ID        string       `yaml:"id"`
	Name      string       `yaml:"name"`
	Kind      string       `yaml:"kind"`
	Weapon    *WeaponStats `yaml:"weapon,omitempty"`
	Modifiers *Modifiers   `yaml:"modifiers,omitempty"`
	Active    *ActiveStats `yaml:"active,omitempty"`
	Heal      int          `yaml:"heal,omitempty"`
	Currency  string       `yaml:"currency,omitempty"`
	Amount    int          `yaml:"amount,omitempty"`
}

// IsUnique reports whether a player may hold at most one of this item, which
// also keeps it from being offered twice in one shop.
func (d *Def) IsUnique() bool {
	return d.Kind == KindWeapon || d.Kind == KindActive
}

// Validate checks that the Def satisfies its invariants.
//
// Postcondition: returns nil iff all fields are valid for the kind.
func (d *Def) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if !validKinds[d.Kind] {
		errs = append(errs, fmt.Errorf("Kind must be one of weapon, passive, active, consumable, currency; got %q", d.Kind))
	}
	switch d.Kind {
	case KindWeapon:
		if d.Weapon == nil {
			errs = append(errs, errors.New("weapon stats are required when Kind is weapon"))
		} else if d.Weapon.Magazine < 1 || d.Weapon.Cooldown <= 0 || d.Weapon.BulletSpeed <= 0 {
			errs = append(errs, errors.New("weapon magazine, cooldown and bullet_speed must be positive"))
		}
	case KindPassive:
		if d.Modifiers == nil {
			errs = append(errs, errors.New("modifiers are required when Kind is passive"))
		}
	case KindActive:
		if d.Active == nil {
			errs = append(errs, errors.New("active stats are required when Kind is active"))
		} else if d.Active.Effect != EffectHeal && d.Active.Effect != EffectRefillAmmo {
			errs = append(errs, fmt.Errorf("unknown active effect %q", d.Active.Effect))
		}
	case KindConsumable:
		if d.Heal <= 0 {
			errs = append(errs, errors.New("consumable heal must be > 0"))
		}
	case KindCurrency:
		if d.Currency != CurrencyCoin && d.Currency != CurrencyKey {
			errs = append(errs, fmt.Errorf("currency must be coin or key; got %q", d.Currency))
		}
		if d.Amount < 1 {
			errs = append(errs, errors.New("currency amount must be >= 1"))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("item %q validation failed: %w", d.ID, errors.Join(errs...))
	}
	return nil
}

// Pickup is an item lying in a room.
type Pickup struct {
	ID       string
	Def      *Def
	Position geom.Vec2
	// Price is the shop price in coins; zero means free.
	Price int
	// Taken marks a pickup that has been collected and awaits removal.
	Taken bool
}

// NewPickup places def at pos.
func NewPickup(def *Def, pos geom.Vec2) *Pickup {
	return &Pickup{ID: uuid.NewString(), Def: def, Position: pos}
}

// Bounds returns the pickup's interaction square.
func (p *Pickup) Bounds(tile float64) geom.Rect {
	return geom.RectAround(p.Position, tile*0.5, tile*0.5)
}
