package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/roguehammer/internal/game/dice"
)

type fixedSource struct{ val int }

func (f fixedSource) Intn(n int) int {
	if f.val >= n {
		return n - 1
	}
	return f.val
}

// countingSource records how many values were drawn.
type countingSource struct{ calls int }

func (c *countingSource) Intn(int) int {
	c.calls++
	return 0
}

func TestParse_Forms(t *testing.T) {
	cases := []struct {
		in                     string
		count, sides, modifier int
	}{
		{"d6", 1, 6, 0},
		{"2d6", 2, 6, 0},
		{"1d2-1", 1, 2, -1},
		{"3D4+2", 3, 4, 2},
		{"5", 0, 0, 5},
		{"-1", 0, 0, -1},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			e, err := dice.Parse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.count, e.Count)
			assert.Equal(t, tc.sides, e.Sides)
			assert.Equal(t, tc.modifier, e.Modifier)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "d1", "0d6", "xd6", "2d6+x", "abc"} {
		_, err := dice.Parse(in)
		assert.Error(t, err, in)
	}
}

func TestRoll_FlatConsumesNoRandomness(t *testing.T) {
	src := &countingSource{}
	res := dice.Roll(dice.MustParse("5"), src)
	assert.Equal(t, 5, res.Total())
	assert.Zero(t, src.calls)
}

func TestRoll_WithinBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 6).Draw(rt, "count")
		sides := rapid.IntRange(2, 20).Draw(rt, "sides")
		mod := rapid.IntRange(-5, 5).Draw(rt, "mod")
		e := dice.Expression{Raw: "x", Count: count, Sides: sides, Modifier: mod}
		seed := rapid.Uint64().Draw(rt, "seed")
		total := dice.Roll(e, dice.NewSeededSource(seed)).Total()
		assert.GreaterOrEqual(rt, total, e.Min())
		assert.LessOrEqual(rt, total, e.Max())
	})
}

func TestChance_Extremes(t *testing.T) {
	src := &countingSource{}
	assert.False(t, dice.Chance(src, 0))
	assert.True(t, dice.Chance(src, 1))
	assert.Zero(t, src.calls)
	assert.False(t, dice.Chance(fixedSource{val: 1 << 30}, 0.5), "a maximal roll always fails a partial chance")
	assert.True(t, dice.Chance(fixedSource{val: 0}, 0.01))
}

func TestBetween(t *testing.T) {
	assert.Equal(t, 3, dice.Between(fixedSource{val: 0}, 3, 7))
	assert.Equal(t, 7, dice.Between(fixedSource{val: 99}, 3, 7))
	assert.Equal(t, 4, dice.Between(&countingSource{}, 4, 4))
}

func TestSeededSource_Reproducible(t *testing.T) {
	a, b := dice.NewSeededSource(42), dice.NewSeededSource(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Intn(1000), b.Intn(1000))
	}
}

func TestCryptoSource_Range(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 100; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
	assert.Panics(t, func() { src.Intn(0) })
}

func TestLoggedRoller_LogsRolls(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := dice.NewLoggedRoller(fixedSource{val: 1}, zap.New(core))

	res := r.Roll(dice.MustParse("1d2"))
	assert.Equal(t, 2, res.Total())
	r.Chance("key", 0.5)
	r.Between("enemies", 2, 5)

	require.Equal(t, 3, logs.Len())
	assert.Equal(t, "dice roll", logs.All()[0].Message)
	assert.Equal(t, "dice chance", logs.All()[1].Message)
	assert.Equal(t, "dice range", logs.All()[2].Message)
}

func TestRollResult_String(t *testing.T) {
	r := dice.RollResult{Expression: "1d2-1", Dice: []int{2}, Modifier: -1}
	assert.Equal(t, "1d2-1 -> [2] -1 = 1", r.String())
}
