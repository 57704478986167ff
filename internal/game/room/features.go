package room

import (
	"github.com/google/uuid"
	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"

	"github.com/cory-johannsen/roguehammer/internal/game/event"
	"github.com/cory-johannsen/roguehammer/internal/game/geom"
	"github.com/cory-johannsen/roguehammer/internal/game/item"
	"github.com/cory-johannsen/roguehammer/internal/game/player"
)

// Trap and chest tuning.
const (
	TrapDamage         = 1
	TrapCooldown       = 1.0
	ChestOpenDelay     = 0.5
	ChestRemoveDelay   = 5.0
	ChestMinDrops      = 1
	ChestMaxDrops      = 2
	ShopItemCount      = 3
	ShopMaxDraws       = 1000
	consumableAttempts = 1000
)

// ShopPrices are the coin prices a shop offer can carry.
var ShopPrices = []int{5, 7, 10, 12, 15, 20, 25, 30}

// shopOffsets are the x offsets of shop offers from the room centre, in tiles.
var shopOffsets = []float64{-2, 0, 2}

// Trap is a tile-sized floor hazard.
type Trap struct {
	Position geom.Vec2
	cooldown float64
}

func newTrap(pos geom.Vec2) *Trap {
	return &Trap{Position: pos}
}

// Bounds returns the trap's hit square.
func (t *Trap) Bounds(tile float64) geom.Rect {
	return geom.RectAround(t.Position, tile, tile)
}

// Armed reports whether the trap can hurt on its next overlap.
func (t *Trap) Armed() bool { return t.cooldown <= 0 }

func (t *Trap) update(delta float64, pl *player.Player, tile float64) {
	if t.cooldown > 0 {
		t.cooldown -= delta
	}
	if t.Armed() && !pl.Dead() && pl.Bounds().Overlaps(t.Bounds(tile)) {
		pl.TakeDamage(TrapDamage)
		t.cooldown = TrapCooldown
	}
}

// ChestState is the lifecycle of a chest.
type ChestState int

// Chest states.
const (
	ChestLocked ChestState = iota
	ChestOpening
	ChestOpened
	ChestGone
)

// Chest is a locked container that drops random items once opened with a
// key.
type Chest struct {
	ID       string
	Position geom.Vec2
	state    ChestState
	timer    float64
}

func newChest(pos geom.Vec2) *Chest {
	return &Chest{ID: uuid.NewString(), Position: pos}
}

// State returns the chest's lifecycle state.
func (c *Chest) State() ChestState { return c.state }

// Bounds returns the chest's square.
func (c *Chest) Bounds(tile float64) geom.Rect {
	return geom.RectAround(c.Position, tile, tile)
}

func (c *Chest) open() {
	c.state = ChestOpening
	c.timer = ChestOpenDelay
}

func (r *Room) updateChests(delta float64) {
	kept := r.chests[:0]
	for _, c := range r.chests {
		switch c.state {
		case ChestOpening:
			c.timer -= delta
			if c.timer <= 0 {
				r.dropChestContents(c)
				c.state = ChestOpened
				c.timer = ChestRemoveDelay
			}
		case ChestOpened:
			c.timer -= delta
			if c.timer <= 0 {
				c.state = ChestGone
			}
		}
		if c.state != ChestGone {
			kept = append(kept, c)
		}
	}
	clear(r.chests[len(kept):])
	r.chests = kept
}

func (r *Room) dropChestContents(c *Chest) {
	n := r.svc.Roller.Between("chest drops", ChestMinDrops, ChestMaxDrops)
	tile := r.svc.Dims.TileSize
	interior := r.InteriorBounds()
	for i := 0; i < n; i++ {
		def := r.svc.Catalog.Random(r.svc.Roller.Source())
		at := c.Position.Add(geom.V(float64(2*i-1)*tile, -tile))
		r.pickups = append(r.pickups, item.NewPickup(def, interior.ClampCenter(at, tile/4, tile/4)))
	}
}

// generateShop lays out ShopItemCount priced offers in a row through the
// room centre. Currency is never offered and a weapon or active item appears
// at most once. Offers of the same item share one price.
func (r *Room) generateShop() {
	src := r.svc.Roller.Source()
	seen := mapset.New[string]()
	var offers []*item.Def
	for draws := 0; len(offers) < ShopItemCount && draws < ShopMaxDraws; draws++ {
		def := r.svc.Catalog.Random(src)
		if def.Kind == item.KindCurrency {
			continue
		}
		if def.IsUnique() && seen.Has(def.ID) {
			continue
		}
		seen.Put(def.ID)
		offers = append(offers, def)
		if _, ok := r.shop[def.ID]; !ok {
			r.shop[def.ID] = ShopPrices[r.svc.Roller.Between("shop price", 0, len(ShopPrices)-1)]
		}
	}
	c := r.Center()
	tile := r.svc.Dims.TileSize
	for i, def := range offers {
		p := item.NewPickup(def, geom.V(c.X+shopOffsets[i]*tile, c.Y))
		p.Price = r.shop[def.ID]
		r.pickups = append(r.pickups, p)
	}
	if len(offers) < ShopItemCount {
		r.svc.Logger.Warn("shop stocked short",
			zap.Int("wanted", ShopItemCount),
			zap.Int("stocked", len(offers)),
		)
	}
}

// Price returns the shop price of an item id, or false outside a shop.
func (r *Room) Price(id string) (int, bool) {
	p, ok := r.shop[id]
	return p, ok
}

// ExitBounds returns the exit hatch of an End room.
func (r *Room) ExitBounds() (geom.Rect, bool) {
	if r.exit == nil {
		return geom.Rect{}, false
	}
	return *r.exit, true
}

// PlayerOnExit reports whether the player overlapped the exit hatch during
// the last update.
func (r *Room) PlayerOnExit() bool { return r.onExit }

// Interaction is the outcome of the use input inside a room.
type Interaction int

// Interaction outcomes.
const (
	InteractNone Interaction = iota
	InteractPickedUp
	InteractPurchased
	InteractTooPoor
	InteractRefused
	InteractChestOpened
	InteractNeedKey
)

func (i Interaction) String() string {
	switch i {
	case InteractPickedUp:
		return "picked_up"
	case InteractPurchased:
		return "purchased"
	case InteractTooPoor:
		return "too_poor"
	case InteractRefused:
		return "refused"
	case InteractChestOpened:
		return "chest_opened"
	case InteractNeedKey:
		return "need_key"
	default:
		return "none"
	}
}

// Interact applies the use input to the nearest pickup or locked chest
// within one tile of the player.
func (r *Room) Interact(pl *player.Player) Interaction {
	tile := r.svc.Dims.TileSize
	pos := pl.Position()
	var best *item.Pickup
	for _, p := range r.pickups {
		if p.Taken || p.Def.Kind == item.KindCurrency {
			continue
		}
		if d := pos.Dst(p.Position); d <= tile && (best == nil || d < pos.Dst(best.Position)) {
			best = p
		}
	}
	if best != nil {
		return r.take(pl, best)
	}
	for _, c := range r.chests {
		if c.state != ChestLocked || pos.Dst(c.Position) > tile {
			continue
		}
		if !pl.UseKey() {
			return InteractNeedKey
		}
		c.open()
		r.svc.Audio.Play(event.CueChestOpen)
		return InteractChestOpened
	}
	return InteractNone
}

func (r *Room) take(pl *player.Player, p *item.Pickup) Interaction {
	if p.Price > 0 && pl.Coins() < p.Price {
		return InteractTooPoor
	}
	if !pl.Collect(p.Def) {
		return InteractRefused
	}
	p.Taken = true
	if p.Price > 0 {
		pl.SpendCoins(p.Price)
		return InteractPurchased
	}
	return InteractPickedUp
}

// collectCurrency picks up free coins and keys the player touches.
func (r *Room) collectCurrency(pl *player.Player) {
	if pl.Dead() {
		return
	}
	tile := r.svc.Dims.TileSize
	bounds := pl.Bounds()
	for _, p := range r.pickups {
		if !p.Taken && p.Price == 0 && p.Def.Kind == item.KindCurrency && bounds.Overlaps(p.Bounds(tile)) {
			pl.Collect(p.Def)
			p.Taken = true
		}
	}
}
