// Package stats records run statistics. The simulation only ever writes to a
// Recorder; nothing in the core reads the counters back.
package stats

// Recorder receives fire-and-forget counter updates.
type Recorder interface {
	OnEnemyKilled()
	OnDamageDealt(n int)
	OnDamageTaken(n int)
	OnRoomCleared()
	OnBulletFired()
	OnBulletHit()
	OnItemCollected()
	OnCoinsCollected(n int)
}

// Nop discards every update.
type Nop struct{}

func (Nop) OnEnemyKilled()       {}
func (Nop) OnDamageDealt(int)    {}
func (Nop) OnDamageTaken(int)    {}
func (Nop) OnRoomCleared()       {}
func (Nop) OnBulletFired()       {}
func (Nop) OnBulletHit()         {}
func (Nop) OnItemCollected()     {}
func (Nop) OnCoinsCollected(int) {}

// Summary is an immutable snapshot of a run's counters.
type Summary struct {
	EnemiesKilled  int
	DamageDealt    int
	DamageTaken    int
	RoomsCleared   int
	BulletsFired   int
	BulletsHit     int
	ItemsCollected int
	Coins          int
}

// Accuracy returns the share of fired bullets that hit, in [0, 1].
func (s Summary) Accuracy() float64 {
	if s.BulletsFired == 0 {
		return 0
	}
	return float64(s.BulletsHit) / float64(s.BulletsFired)
}

// Run accumulates counters for one run.
type Run struct {
	s Summary
}

// NewRun returns a zeroed Run.
func NewRun() *Run {
	return &Run{}
}

func (r *Run) OnEnemyKilled()         { r.s.EnemiesKilled++ }
func (r *Run) OnDamageDealt(n int)    { r.s.DamageDealt += n }
func (r *Run) OnDamageTaken(n int)    { r.s.DamageTaken += n }
func (r *Run) OnRoomCleared()         { r.s.RoomsCleared++ }
func (r *Run) OnBulletFired()         { r.s.BulletsFired++ }
func (r *Run) OnBulletHit()           { r.s.BulletsHit++ }
func (r *Run) OnItemCollected()       { r.s.ItemsCollected++ }
func (r *Run) OnCoinsCollected(n int) { r.s.Coins += n }

// Summary returns a copy of the current counters.
func (r *Run) Summary() Summary {
	return r.s
}

// Reset zeroes every counter.
func (r *Run) Reset() {
	r.s = Summary{}
}
