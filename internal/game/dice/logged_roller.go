package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger so every loot and recipe roll leaves a
// debug trail.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs to logger.
//
// Precondition: src must be non-nil. A nil logger is replaced by a no-op one.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{src: src, logger: logger}
}

// Source returns the underlying randomness provider.
func (r *Roller) Source() Source {
	return r.src
}

// Roll evaluates expr and logs the result at debug level.
func (r *Roller) Roll(expr Expression) RollResult {
	result := Roll(expr, r.src)
	r.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result
}

// Between returns a logged uniform int in [lo, hi].
func (r *Roller) Between(label string, lo, hi int) int {
	v := Between(r.src, lo, hi)
	r.logger.Debug("dice range",
		zap.String("label", label),
		zap.Int("min", lo),
		zap.Int("max", hi),
		zap.Int("value", v),
	)
	return v
}

// Chance evaluates a probability check and logs its outcome.
func (r *Roller) Chance(label string, p float64) bool {
	ok := Chance(r.src, p)
	r.logger.Debug("dice chance",
		zap.String("label", label),
		zap.Float64("p", p),
		zap.Bool("success", ok),
	)
	return ok
}
