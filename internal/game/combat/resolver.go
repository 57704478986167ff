package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/roguehammer/internal/game/event"
	"github.com/cory-johannsen/roguehammer/internal/game/geom"
	"github.com/cory-johannsen/roguehammer/internal/game/stats"
)

// Target is anything a bullet can hit.
type Target interface {
	// Bounds returns the target's hit box.
	Bounds() geom.Rect
	// Hittable reports whether the target is active and alive.
	Hittable() bool
	// TakeDamage applies n damage and returns the damage actually applied
	// and whether this call killed the target.
	TakeDamage(n int) (applied int, killed bool)
}

// Report summarises one Resolve pass.
type Report struct {
	Hits        int
	Kills       int
	Damage      int
	OutOfBounds int
}

// Resolver pairs bullets with targets and reports outcomes to the
// statistics and audio collaborators.
type Resolver struct {
	stats  stats.Recorder
	audio  event.Audio
	logger *zap.Logger
}

// NewResolver builds a Resolver. Nil collaborators are replaced by no-ops.
func NewResolver(rec stats.Recorder, audio event.Audio, logger *zap.Logger) *Resolver {
	if rec == nil {
		rec = stats.Nop{}
	}
	if audio == nil {
		audio = event.NopAudio{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{stats: rec, audio: audio, logger: logger}
}

// Resolve runs one frame of projectile resolution for a room.
//
// Every active bullet outside bounds is deactivated. Every remaining active
// bullet hits at most one hittable target, the first in targets order whose
// bounds it overlaps, and is deactivated by the hit.
//
// Postcondition: no bullet is counted as a hit more than once.
func Resolve[T Target](r *Resolver, bullets []*Bullet, targets []T, bounds geom.Rect) Report {
	var rep Report
	for _, b := range bullets {
		if !b.Active {
			continue
		}
		if !bounds.Contains(b.Position) {
			b.Deactivate()
			rep.OutOfBounds++
			continue
		}
		hitBox := b.Bounds()
		for _, t := range targets {
			if !t.Hittable() || !hitBox.Overlaps(t.Bounds()) {
				continue
			}
			applied, killed := t.TakeDamage(b.Damage)
			b.Deactivate()
			rep.Hits++
			rep.Damage += applied
			r.stats.OnBulletHit()
			r.stats.OnDamageDealt(applied)
			r.audio.Play(event.CueEnemyHit)
			if killed {
				rep.Kills++
				r.stats.OnEnemyKilled()
				r.audio.Play(event.CueEnemyDeath)
			}
			break
		}
	}
	if rep.Hits > 0 || rep.OutOfBounds > 0 {
		r.logger.Debug("projectiles resolved",
			zap.Int("hits", rep.Hits),
			zap.Int("kills", rep.Kills),
			zap.Int("damage", rep.Damage),
			zap.Int("out_of_bounds", rep.OutOfBounds),
		)
	}
	return rep
}
