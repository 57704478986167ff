// Package dice provides the randomness abstraction used by every random
// decision in the dungeon simulation: content recipes, placement, loot and
// shop pricing.
package dice

import "fmt"

// RollResult holds the audit trail for one evaluated expression.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string
	Dice       []int
	Modifier   int
}

// Total returns the sum of all die results plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String renders the roll as "1d2-1 -> [2] -1 = 1".
func (r RollResult) String() string {
	return fmt.Sprintf("%s -> %v %+d = %d", r.Expression, r.Dice, r.Modifier, r.Total())
}

// Source is the randomness provider.
//
// The simulation is single threaded, so implementations need not be safe for
// concurrent use unless they are shared across runs.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}
