package player

import (
	"math"

	"github.com/cory-johannsen/roguehammer/internal/game/item"
)

// Weapon is a held gun with its own magazine and reload timers.
type Weapon struct {
	Def  *item.Def
	base item.WeaponStats

	cooldown    float64
	bulletSpeed float64
	reloadTime  float64
	magazine    int

	ammo           int
	sinceShot      float64
	reloading      bool
	reloadProgress float64
}

// NewWeapon creates a full, ready weapon from def.
//
// Precondition: def.Kind is item.KindWeapon.
func NewWeapon(def *item.Def) *Weapon {
	w := &Weapon{Def: def, base: *def.Weapon}
	w.apply(item.Identity())
	w.ammo = w.magazine
	w.sinceShot = w.cooldown
	return w
}

// apply rescales the weapon by the player's folded passive modifiers.
func (w *Weapon) apply(m item.Modifiers) {
	w.cooldown = w.base.Cooldown * m.FireRate
	w.bulletSpeed = w.base.BulletSpeed * m.BulletSpeed
	w.reloadTime = w.base.ReloadTime * m.ReloadTime
	w.magazine = max(1, int(math.Round(float64(w.base.Magazine)*m.Magazine)))
	w.ammo = min(w.ammo, w.magazine)
}

// Update advances the shot and reload timers.
func (w *Weapon) Update(delta float64) {
	w.sinceShot += delta
	if !w.reloading {
		return
	}
	w.reloadProgress += delta
	if w.reloadProgress >= w.reloadTime {
		w.ammo = w.magazine
		w.reloading = false
		w.reloadProgress = 0
	}
}

// CanShoot reports whether a shot may be fired this frame.
func (w *Weapon) CanShoot() bool {
	return !w.reloading && w.ammo > 0 && w.sinceShot >= w.cooldown
}

// shoot spends one round and starts a reload when the magazine empties.
//
// Precondition: CanShoot() is true.
func (w *Weapon) shoot() {
	w.ammo--
	w.sinceShot = 0
	if w.ammo == 0 {
		w.StartReload()
	}
}

// StartReload begins a reload unless one is running or the magazine is full.
func (w *Weapon) StartReload() bool {
	if w.reloading || w.ammo >= w.magazine {
		return false
	}
	w.reloading = true
	w.reloadProgress = 0
	return true
}

// Refill fills the magazine instantly and cancels any reload.
func (w *Weapon) Refill() {
	w.ammo = w.magazine
	w.reloading = false
	w.reloadProgress = 0
}

// Automatic reports whether holding the trigger keeps firing.
func (w *Weapon) Automatic() bool { return w.base.Automatic }

// Ammo returns rounds left in the magazine.
func (w *Weapon) Ammo() int { return w.ammo }

// Magazine returns the current magazine size.
func (w *Weapon) Magazine() int { return w.magazine }

// Cooldown returns the current time between shots.
func (w *Weapon) Cooldown() float64 { return w.cooldown }

// ReloadTime returns the current reload duration.
func (w *Weapon) ReloadTime() float64 { return w.reloadTime }

// BulletSpeed returns the current muzzle speed.
func (w *Weapon) BulletSpeed() float64 { return w.bulletSpeed }

// Reloading reports whether a reload is in progress.
func (w *Weapon) Reloading() bool { return w.reloading }

// ActiveItem is a held item that recharges after use.
type ActiveItem struct {
	Def    *item.Def
	charge float64
}

func newActiveItem(def *item.Def) *ActiveItem {
	return &ActiveItem{Def: def, charge: def.Active.Cooldown}
}

// Ready reports whether the item has recharged.
func (a *ActiveItem) Ready() bool {
	return a.charge >= a.Def.Active.Cooldown
}

// Remaining returns the seconds until the item is ready.
func (a *ActiveItem) Remaining() float64 {
	return max(0, a.Def.Active.Cooldown-a.charge)
}
