package enemy

import (
	"fmt"

	"github.com/cory-johannsen/roguehammer/internal/game/dice"
	"github.com/cory-johannsen/roguehammer/internal/game/item"
)

// LootTable defines what an archetype drops when it is removed.
type LootTable struct {
	// Coins is rolled once; negative totals drop nothing.
	Coins       dice.Expression
	KeyChance   float64
	ItemChance  float64
	ChestChance float64
}

// Validate checks that every chance lies in [0, 1].
func (lt LootTable) Validate() error {
	for name, p := range map[string]float64{"key": lt.KeyChance, "item": lt.ItemChance, "chest": lt.ChestChance} {
		if p < 0 || p > 1 {
			return fmt.Errorf("loot table: %s chance must be in [0, 1], got %f", name, p)
		}
	}
	return nil
}

// LootResult is one rolled drop.
type LootResult struct {
	Coins int
	Keys  int
	Items []*item.Def
	Chest bool
}

// Empty reports whether the drop holds nothing.
func (r LootResult) Empty() bool {
	return r.Coins == 0 && r.Keys == 0 && len(r.Items) == 0 && !r.Chest
}

// Roll draws a drop from lt. Bonus items come from catalog's random pool.
//
// Precondition: roller and catalog are non-nil.
// Postcondition: Coins >= 0; Keys is 0 or 1; at most one bonus item.
func (lt LootTable) Roll(roller *dice.Roller, catalog *item.Catalog) LootResult {
	var res LootResult
	res.Coins = max(0, roller.Roll(lt.Coins).Total())
	if roller.Chance("loot_key", lt.KeyChance) {
		res.Keys = 1
	}
	if roller.Chance("loot_item", lt.ItemChance) {
		res.Items = append(res.Items, catalog.Random(roller.Source()))
	}
	res.Chest = roller.Chance("loot_chest", lt.ChestChance)
	return res
}
