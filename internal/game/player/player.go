// Package player models the player: movement, health, held weapons and
// items, stat folding over passive upgrades, and the bullets the player owns.
package player

import (
	"math"

	"github.com/cory-johannsen/roguehammer/internal/game/combat"
	"github.com/cory-johannsen/roguehammer/internal/game/event"
	"github.com/cory-johannsen/roguehammer/internal/game/geom"
	"github.com/cory-johannsen/roguehammer/internal/game/input"
	"github.com/cory-johannsen/roguehammer/internal/game/item"
	"github.com/cory-johannsen/roguehammer/internal/game/stats"
	"github.com/cory-johannsen/roguehammer/internal/game/tuning"
)

// Base player constants.
const (
	BaseSpeed     = 300.0
	BaseMaxHealth = 6
	// HurtCooldown is the invulnerability window after taking damage.
	HurtCooldown = 0.5
)

// Player is the controlled character.
//
// Invariant: 0 <= health <= maxHealth; the death signal is raised once.
type Player struct {
	dims  tuning.Dimensions
	stats stats.Recorder
	audio event.Audio

	position geom.Vec2
	aim      geom.Vec2
	moving   bool

	health    int
	maxHealth int
	hurtTimer float64
	dead      bool
	justDied  bool

	passives []*item.Def
	mods     item.Modifiers

	weapons  []*Weapon
	equipped int
	actives  []*ActiveItem
	selected int

	coins int
	keys  int

	bullets []*combat.Bullet
}

// New creates a player at pos with full health and empty hands.
func New(pos geom.Vec2, dims tuning.Dimensions, rec stats.Recorder, audio event.Audio) *Player {
	if rec == nil {
		rec = stats.Nop{}
	}
	if audio == nil {
		audio = event.NopAudio{}
	}
	return &Player{
		dims:      dims,
		stats:     rec,
		audio:     audio,
		position:  pos,
		aim:       geom.V(1, 0),
		health:    BaseMaxHealth,
		maxHealth: BaseMaxHealth,
		mods:      item.Identity(),
	}
}

// Position returns the player's centre.
func (p *Player) Position() geom.Vec2 { return p.position }

// SetPosition teleports the player, clamped to bounds.
func (p *Player) SetPosition(pos geom.Vec2, bounds geom.Rect) {
	p.position = bounds.ClampCenter(pos, p.Size(), p.Size())
}

// Size returns the side of the player's square.
func (p *Player) Size() float64 { return p.dims.TileSize }

// Bounds returns the player's collision box.
func (p *Player) Bounds() geom.Rect {
	return geom.RectAround(p.position, p.Size(), p.Size())
}

// Aim returns the unit direction the player shoots in.
func (p *Player) Aim() geom.Vec2 { return p.aim }

// Moving reports whether the player moved on the last update.
func (p *Player) Moving() bool { return p.moving }

// Health returns current health.
func (p *Player) Health() int { return p.health }

// MaxHealth returns maximum health including passive bonuses.
func (p *Player) MaxHealth() int { return p.maxHealth }

// Dead reports whether the player has died.
func (p *Player) Dead() bool { return p.dead }

// Coins returns the coin count.
func (p *Player) Coins() int { return p.coins }

// Keys returns the key count.
func (p *Player) Keys() int { return p.keys }

// Modifiers returns the folded passive modifiers.
func (p *Player) Modifiers() item.Modifiers { return p.mods }

// Passives returns the held passive items in pickup order.
func (p *Player) Passives() []*item.Def { return p.passives }

// Speed returns the current movement speed.
func (p *Player) Speed() float64 { return BaseSpeed * p.mods.Speed }

// Weapons returns the held weapons.
func (p *Player) Weapons() []*Weapon { return p.weapons }

// Equipped returns the equipped weapon, or nil when unarmed.
func (p *Player) Equipped() *Weapon {
	if len(p.weapons) == 0 {
		return nil
	}
	return p.weapons[p.equipped]
}

// Actives returns the held active items.
func (p *Player) Actives() []*ActiveItem { return p.actives }

// SelectedActive returns the selected active item, or nil.
func (p *Player) SelectedActive() *ActiveItem {
	if len(p.actives) == 0 {
		return nil
	}
	return p.actives[p.selected]
}

// Bullets returns the player's bullets, active or awaiting sweep.
func (p *Player) Bullets() []*combat.Bullet { return p.bullets }

// Update runs one frame of player control.
//
// Precondition: bounds is the current room's interior.
// Postcondition: the player's centre keeps its box inside bounds.
func (p *Player) Update(delta float64, in input.Snapshot, bounds geom.Rect) {
	if p.dead {
		p.UpdateBullets(delta)
		return
	}
	if p.hurtTimer > 0 {
		p.hurtTimer = max(0, p.hurtTimer-delta)
	}
	for _, a := range p.actives {
		a.charge += delta
	}
	for _, w := range p.weapons {
		w.Update(delta)
	}

	p.moving = !in.Move.IsZero()
	if p.moving {
		next := p.position.Add(in.Move.Nor().Scale(p.Speed() * delta))
		p.position = bounds.ClampCenter(next, p.Size(), p.Size())
	}
	if !in.Aim.IsZero() {
		p.aim = in.Aim.Nor()
	}

	if in.NextWeapon && len(p.weapons) > 1 {
		p.equipped = (p.equipped + 1) % len(p.weapons)
	}
	if n := len(p.actives); n > 1 {
		if in.NextItem {
			p.selected = (p.selected + 1) % n
		}
		if in.PrevItem {
			p.selected = (p.selected + n - 1) % n
		}
	}
	if in.UseItem {
		p.UseActive()
	}
	if w := p.Equipped(); w != nil {
		if in.Reload && w.StartReload() {
			p.audio.Play(event.CueReload)
		}
		trigger := in.ShootJustPressed || (in.Shoot && w.Automatic())
		if trigger && w.CanShoot() {
			p.fire(w)
		}
	}
	p.UpdateBullets(delta)
}

// fire spawns one bullet from the muzzle.
func (p *Player) fire(w *Weapon) {
	damage := max(1, int(math.Round(w.base.Damage*p.mods.Damage)))
	muzzle := p.position.Add(p.aim.Scale(p.Size() / 2))
	p.bullets = append(p.bullets, combat.NewBullet(muzzle, p.aim, w.bulletSpeed, damage, p.dims.TileSize/4))
	w.shoot()
	p.stats.OnBulletFired()
	p.audio.Play(event.CueShoot)
}

// UpdateBullets moves every active bullet.
func (p *Player) UpdateBullets(delta float64) {
	for _, b := range p.bullets {
		b.Update(delta)
	}
}

// SweepBullets disposes of inactive bullets.
func (p *Player) SweepBullets() {
	p.bullets = combat.Sweep(p.bullets)
}

// ClearBullets disposes of every bullet, used when leaving a room.
func (p *Player) ClearBullets() {
	p.bullets = p.bullets[:0]
}

// TakeDamage applies n damage unless the player is dead or recovering from a
// previous hit. It returns the damage applied.
//
// Postcondition: the death signal is raised on the call that empties health.
func (p *Player) TakeDamage(n int) int {
	if p.dead || n <= 0 || p.hurtTimer > 0 {
		return 0
	}
	applied := min(n, p.health)
	p.health -= applied
	p.hurtTimer = HurtCooldown
	p.stats.OnDamageTaken(applied)
	p.audio.Play(event.CuePlayerHurt)
	if p.health == 0 {
		p.dead = true
		p.justDied = true
	}
	return applied
}

// ConsumeDeath returns true once, on the first call after the player died.
func (p *Player) ConsumeDeath() bool {
	if !p.justDied {
		return false
	}
	p.justDied = false
	return true
}

// Heal restores up to n health and returns the amount restored.
func (p *Player) Heal(n int) int {
	if p.dead || n <= 0 {
		return 0
	}
	restored := min(n, p.maxHealth-p.health)
	p.health += restored
	return restored
}

// AddPassive takes a passive item and refolds every derived stat.
//
// Postcondition: the derived stats equal the fold of all held passives, and
// a max health bonus also heals by the bonus.
func (p *Player) AddPassive(def *item.Def) {
	p.passives = append(p.passives, def)
	oldMax := p.maxHealth
	p.mods = item.Identity()
	for _, d := range p.passives {
		p.mods = p.mods.Combine(*d.Modifiers)
	}
	p.maxHealth = BaseMaxHealth + p.mods.MaxHealthBonus
	if gained := p.maxHealth - oldMax; gained > 0 {
		p.health += gained
	}
	p.health = min(p.health, p.maxHealth)
	for _, w := range p.weapons {
		w.apply(p.mods)
	}
}

// AddWeapon takes a weapon and equips it. It returns false when a weapon
// with the same id is already held.
func (p *Player) AddWeapon(def *item.Def) bool {
	for _, w := range p.weapons {
		if w.Def.ID == def.ID {
			return false
		}
	}
	w := NewWeapon(def)
	w.apply(p.mods)
	w.ammo = w.magazine
	p.weapons = append(p.weapons, w)
	p.equipped = len(p.weapons) - 1
	return true
}

// AddActive takes an active item. It returns false when already held.
func (p *Player) AddActive(def *item.Def) bool {
	for _, a := range p.actives {
		if a.Def.ID == def.ID {
			return false
		}
	}
	p.actives = append(p.actives, newActiveItem(def))
	p.selected = len(p.actives) - 1
	return true
}

// UseActive triggers the selected active item if it is charged.
func (p *Player) UseActive() bool {
	a := p.SelectedActive()
	if a == nil || !a.Ready() || p.dead {
		return false
	}
	switch a.Def.Active.Effect {
	case item.EffectHeal:
		p.Heal(a.Def.Active.Amount)
	case item.EffectRefillAmmo:
		for _, w := range p.weapons {
			w.Refill()
		}
	}
	a.charge = 0
	return true
}

// Collect applies a picked up item. It returns false when the item cannot be
// taken, such as a second copy of a held weapon.
func (p *Player) Collect(def *item.Def) bool {
	switch def.Kind {
	case item.KindPassive:
		p.AddPassive(def)
	case item.KindWeapon:
		if !p.AddWeapon(def) {
			return false
		}
	case item.KindActive:
		if !p.AddActive(def) {
			return false
		}
	case item.KindConsumable:
		p.Heal(def.Heal)
	case item.KindCurrency:
		if def.Currency == item.CurrencyKey {
			p.keys += def.Amount
		} else {
			p.coins += def.Amount
			p.stats.OnCoinsCollected(def.Amount)
		}
		p.audio.Play(event.CueItemPickup)
		return true
	default:
		return false
	}
	p.stats.OnItemCollected()
	p.audio.Play(event.CueItemPickup)
	return true
}

// SpendCoins deducts n coins if the player has them.
func (p *Player) SpendCoins(n int) bool {
	if n > p.coins {
		return false
	}
	p.coins -= n
	return true
}

// UseKey spends one key if the player has one.
func (p *Player) UseKey() bool {
	if p.keys == 0 {
		return false
	}
	p.keys--
	return true
}
