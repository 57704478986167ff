package enemy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/roguehammer/internal/game/dice"
	"github.com/cory-johannsen/roguehammer/internal/game/enemy"
	"github.com/cory-johannsen/roguehammer/internal/game/geom"
	"github.com/cory-johannsen/roguehammer/internal/game/item"
	"github.com/cory-johannsen/roguehammer/internal/game/tuning"
)

const frame = 1.0 / 60

var (
	dims   = tuning.Default()
	bounds = geom.Rect{X: 32, Y: 32, W: dims.RoomWidth - 64, H: dims.RoomHeight - 64}
)

type dummyTarget struct {
	pos   geom.Vec2
	taken int
	hits  int
}

func (d *dummyTarget) Position() geom.Vec2 { return d.pos }
func (d *dummyTarget) TakeDamage(n int) int {
	d.taken += n
	d.hits++
	return n
}

// maxSource always returns the largest value, so partial chances fail.
type maxSource struct{}

func (maxSource) Intn(n int) int { return n - 1 }

func newActive(kind enemy.Kind, pos geom.Vec2) *enemy.Enemy {
	e := enemy.New(kind, pos, 0, dims)
	e.Activate()
	return e
}

func TestUpdate_IdleBeyondAggro(t *testing.T) {
	e := newActive(enemy.Goblin, geom.V(100, 100))
	target := &dummyTarget{pos: geom.V(100+dims.RoomWidth, 100)}
	e.Update(frame, target, bounds, nil)
	assert.Equal(t, enemy.Idle, e.State())
	assert.Equal(t, geom.V(100, 100), e.Position())
}

func TestUpdate_AttacksImmediatelyThenWaitsForCooldown(t *testing.T) {
	e := newActive(enemy.Goblin, geom.V(200, 200))
	target := &dummyTarget{pos: geom.V(220, 200)}

	e.Update(frame, target, bounds, nil)
	assert.Equal(t, enemy.Attack, e.State())
	assert.Equal(t, 1, target.hits, "the attack timer starts primed")
	assert.Equal(t, 1, target.taken)

	for i := 0; i < 60; i++ {
		e.Update(frame, target, bounds, nil)
	}
	assert.Equal(t, 1, target.hits, "goblin cooldown is 1.2s")

	for i := 0; i < 20; i++ {
		e.Update(frame, target, bounds, nil)
	}
	assert.Equal(t, 2, target.hits)
	assert.Equal(t, geom.V(200, 200), e.Position(), "enemies in attack range stand still")
}

func TestUpdate_ChasesAlongDominantAxis(t *testing.T) {
	e := newActive(enemy.Orc, geom.V(300, 300))
	target := &dummyTarget{pos: geom.V(600, 340)}
	e.Update(0.1, target, bounds, nil)

	assert.Equal(t, enemy.Attack, e.State())
	assert.InDelta(t, 318, e.Position().X, 1e-9, "orc speed 180 for 0.1s")
	assert.InDelta(t, 300, e.Position().Y, 1e-9)
	assert.True(t, e.Moving())
	assert.Zero(t, target.hits)
}

func TestUpdate_OrcSwings(t *testing.T) {
	e := newActive(enemy.Orc, geom.V(300, 300))
	target := &dummyTarget{pos: geom.V(330, 300)}
	e.Update(frame, target, bounds, nil)
	assert.True(t, e.Swinging())
	assert.Equal(t, 2, target.taken)
}

func TestUpdate_SeparationPushesApart(t *testing.T) {
	a := newActive(enemy.Goblin, geom.V(400, 300))
	b := newActive(enemy.Goblin, geom.V(400, 330))
	target := &dummyTarget{pos: geom.V(900, 300)}
	others := []*enemy.Enemy{a, b}

	a.Update(0.1, target, bounds, others)
	assert.InDelta(t, 422, a.Position().X, 1e-9)
	assert.Less(t, a.Position().Y, 300.0, "a is pushed away from b")
}

func TestUpdate_ClampsToBounds(t *testing.T) {
	e := newActive(enemy.Goblin, geom.V(bounds.X+bounds.W-30, 300))
	target := &dummyTarget{pos: geom.V(bounds.X+bounds.W+500, 300)}
	for i := 0; i < 120; i++ {
		e.Update(frame, target, bounds, nil)
	}
	box := e.Bounds()
	assert.LessOrEqual(t, box.X+box.W, bounds.X+bounds.W+1e-9)
}

func TestUpdate_InactiveIsFrozen(t *testing.T) {
	e := enemy.New(enemy.Goblin, geom.V(200, 200), 0, dims)
	target := &dummyTarget{pos: geom.V(220, 200)}
	e.Update(frame, target, bounds, nil)
	assert.Zero(t, target.hits)
	assert.False(t, e.Hittable())
}

func TestTakeDamage_DieOnceThenNoop(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		kind := rapid.SampledFrom([]enemy.Kind{enemy.Goblin, enemy.Orc, enemy.Boss}).Draw(rt, "kind")
		e := newActive(kind, geom.V(100, 100))
		hits := rapid.SliceOfN(rapid.IntRange(0, 10), 1, 40).Draw(rt, "hits")

		kills := 0
		prev := e.Health()
		for _, h := range hits {
			_, killed := e.TakeDamage(h)
			if killed {
				kills++
			}
			require.LessOrEqual(rt, e.Health(), prev, "health never increases")
			require.GreaterOrEqual(rt, e.Health(), 0)
			prev = e.Health()
		}
		if e.IsDead() {
			assert.Equal(rt, 1, kills)
			applied, killed := e.TakeDamage(100)
			assert.Zero(rt, applied)
			assert.False(rt, killed)
		} else {
			assert.Zero(rt, kills)
		}
	})
}

func TestDeathTimer(t *testing.T) {
	e := newActive(enemy.Goblin, geom.V(100, 100))
	_, killed := e.TakeDamage(10)
	require.True(t, killed)
	assert.False(t, e.Alive())

	target := &dummyTarget{pos: geom.V(110, 100)}
	for i := 0; i < 59; i++ {
		e.Update(frame, target, geom.Rect{}, nil)
	}
	assert.False(t, e.DeathFinished())
	e.Update(2*frame, target, geom.Rect{}, nil)
	assert.True(t, e.DeathFinished())
	assert.Zero(t, target.hits, "dead enemies never attack")
}

func TestBossLoot_AlwaysFailingChances(t *testing.T) {
	roller := dice.NewLoggedRoller(maxSource{}, nil)
	res := enemy.ProfileFor(enemy.Boss).Loot.Roll(roller, item.Builtin())
	assert.Equal(t, 5, res.Coins)
	assert.Equal(t, 1, res.Keys)
	assert.Empty(t, res.Items)
	assert.False(t, res.Chest)
}

func TestGoblinLoot_Range(t *testing.T) {
	roller := dice.NewLoggedRoller(dice.NewSeededSource(7), nil)
	for i := 0; i < 200; i++ {
		res := enemy.ProfileFor(enemy.Goblin).Loot.Roll(roller, item.Builtin())
		assert.GreaterOrEqual(t, res.Coins, 0)
		assert.LessOrEqual(t, res.Coins, 1)
		assert.False(t, res.Chest)
	}
}

func TestProfiles_Valid(t *testing.T) {
	for _, k := range []enemy.Kind{enemy.Goblin, enemy.Orc, enemy.Boss} {
		p := enemy.ProfileFor(k)
		assert.NoError(t, p.Loot.Validate(), k.String())
		assert.Less(t, p.CollisionScale, p.VisualScale, k.String())
		parsed, err := enemy.ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
}
