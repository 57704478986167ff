package room

import (
	"github.com/cory-johannsen/roguehammer/internal/game/enemy"
	"github.com/cory-johannsen/roguehammer/internal/game/item"
)

// EnemySpawn asks for one enemy. A nil At lets the placer choose a cell.
type EnemySpawn struct {
	Kind enemy.Kind
	At   *GridPos
}

// ItemSpawn asks for one free pickup.
type ItemSpawn struct {
	Def *item.Def
	At  *GridPos
}

// TrapSpawn asks for one floor trap.
type TrapSpawn struct {
	At *GridPos
}

// ChestSpawn asks for one locked chest.
type ChestSpawn struct {
	At *GridPos
}

// Plan is the declarative list of spawns a recipe wants. It is consumed by a
// single Place call and then dropped.
type Plan struct {
	Enemies []EnemySpawn
	Items   []ItemSpawn
	Traps   []TrapSpawn
	Chests  []ChestSpawn
}

// Len returns the number of requested spawns.
func (p Plan) Len() int {
	return len(p.Enemies) + len(p.Items) + len(p.Traps) + len(p.Chests)
}
