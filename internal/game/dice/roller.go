package dice

// Roll evaluates an Expression using src.
//
// Precondition: expr must come from Parse; src must be non-nil.
// Postcondition: len(result.Dice) == expr.Count and a flat expression
// consumes no randomness.
func Roll(expr Expression, src Source) RollResult {
	rolled := make([]int, expr.Count)
	for i := range rolled {
		rolled[i] = src.Intn(expr.Sides) + 1
	}
	return RollResult{
		Expression: expr.Raw,
		Dice:       rolled,
		Modifier:   expr.Modifier,
	}
}

// Between returns a uniformly distributed int in [lo, hi].
//
// Precondition: lo <= hi.
// Postcondition: no randomness is consumed when lo == hi.
func Between(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.Intn(hi-lo+1)
}

// chanceResolution is the granularity of Chance.
const chanceResolution = 1_000_000

// Chance reports true with probability p.
//
// Postcondition: p <= 0 is always false and p >= 1 is always true; neither
// consumes randomness.
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return src.Intn(chanceResolution) < int(p*chanceResolution)
}

// Pick returns a uniformly chosen element of items.
//
// Precondition: len(items) > 0.
func Pick[T any](src Source, items []T) T {
	return items[src.Intn(len(items))]
}
