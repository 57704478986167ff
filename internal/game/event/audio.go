// Package event carries the named trigger points the simulation raises for
// presentation collaborators such as audio.
package event

import "go.uber.org/zap"

// Cue names a sound trigger.
type Cue string

// Cues raised by the simulation.
const (
	CueEnemyHit     Cue = "enemy_hit"
	CueEnemyDeath   Cue = "enemy_death"
	CueDoorUsed     Cue = "door_used"
	CueItemPickup   Cue = "item_pickup"
	CuePlayerHurt   Cue = "player_hurt"
	CueShoot        Cue = "shoot"
	CueReload       Cue = "reload"
	CueChestOpen    Cue = "chest_open"
	CueLevelCleared Cue = "level_cleared"
)

// Audio plays cues. Play has no result and failures are the implementation's
// concern.
type Audio interface {
	Play(cue Cue)
}

// NopAudio ignores every cue.
type NopAudio struct{}

// Play does nothing.
func (NopAudio) Play(Cue) {}

// LogAudio writes every cue to a logger at debug level. Headless runs use it
// in place of a sound backend.
type LogAudio struct {
	logger *zap.Logger
}

// NewLogAudio returns a LogAudio writing to logger.
func NewLogAudio(logger *zap.Logger) *LogAudio {
	return &LogAudio{logger: logger}
}

// Play logs the cue.
func (a *LogAudio) Play(cue Cue) {
	a.logger.Debug("audio cue", zap.String("cue", string(cue)))
}
