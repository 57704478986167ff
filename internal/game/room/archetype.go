package room

import (
	"github.com/cory-johannsen/roguehammer/internal/game/enemy"
	"github.com/cory-johannsen/roguehammer/internal/game/geom"
	"github.com/cory-johannsen/roguehammer/internal/game/item"
	"github.com/cory-johannsen/roguehammer/internal/game/layout"
)

// archetype is a room type's content recipe. plan feeds the placer; setup
// runs afterwards for content that bypasses the grid.
type archetype struct {
	plan  func(r *Room) Plan
	setup func(r *Room)
}

var archetypes = map[layout.RoomType]archetype{
	layout.Start:  {plan: startPlan},
	layout.Normal: {plan: normalPlan},
	layout.Trap:   {plan: trapPlan},
	layout.Boss:   {plan: bossPlan},
	layout.Chest:  {plan: chestPlan},
	layout.Shop:   {setup: shopSetup},
	layout.End:    {plan: endPlan, setup: endSetup},
}

func archetypeFor(t layout.RoomType) archetype {
	if a, ok := archetypes[t]; ok {
		return a
	}
	return archetype{}
}

// Fixed cells are offsets from the grid centre, so (10,4) on the default
// 20x10 grid is one row above the centre.
func startPlan(r *Room) Plan {
	c := r.grid.Center()
	return Plan{Items: []ItemSpawn{
		{Def: r.svc.Catalog.MustGet(item.Pistol), At: At(c.X, c.Y-1)},
		{Def: r.svc.Catalog.MustGet(item.SmallHealthPotion), At: At(c.X-2, c.Y-1)},
	}}
}

var normalKinds = []enemy.Kind{enemy.Goblin, enemy.Orc}

func normalPlan(r *Room) Plan {
	var p Plan
	n := r.svc.Roller.Between("normal enemies", 0, r.svc.Dims.NormalMaxEnemies)
	for i := 0; i < n; i++ {
		kind := normalKinds[r.svc.Roller.Between("normal enemy kind", 0, len(normalKinds)-1)]
		p.Enemies = append(p.Enemies, EnemySpawn{Kind: kind})
	}
	return p
}

func trapPlan(r *Room) Plan {
	var p Plan
	goblins := r.svc.Roller.Between("trap room goblins", 2, 5)
	for i := 0; i < goblins; i++ {
		p.Enemies = append(p.Enemies, EnemySpawn{Kind: enemy.Goblin})
	}
	traps := r.svc.Roller.Between("trap room traps", 4, 8)
	p.Traps = make([]TrapSpawn, traps)
	return p
}

func bossPlan(r *Room) Plan {
	c := r.grid.Center()
	return Plan{Enemies: []EnemySpawn{{Kind: enemy.Boss, At: At(c.X, c.Y-1)}}}
}

func chestPlan(r *Room) Plan {
	c := r.grid.Center()
	p := Plan{Chests: []ChestSpawn{
		{At: At(c.X-1, c.Y)},
		{At: At(c.X+1, c.Y)},
	}}
	orcs := r.svc.Roller.Between("chest room orcs", 2, 6)
	for i := 0; i < orcs; i++ {
		p.Enemies = append(p.Enemies, EnemySpawn{Kind: enemy.Orc})
	}
	return p
}

func shopSetup(r *Room) {
	r.shop = make(map[string]int, ShopItemCount)
	r.generateShop()
}

func endPlan(r *Room) Plan {
	c := r.grid.Center()
	p := Plan{Chests: []ChestSpawn{{At: At(c.X+2, c.Y)}}}
	if def := r.svc.Catalog.RandomOfKind(r.svc.Roller.Source(), item.KindConsumable, consumableAttempts); def != nil {
		p.Items = append(p.Items, ItemSpawn{Def: def, At: At(c.X-2, c.Y)})
	}
	return p
}

func endSetup(r *Room) {
	t := r.svc.Dims.TileSize
	exit := geom.RectAround(r.Center(), t, t)
	r.exit = &exit
}
