package sim_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/roguehammer/internal/game/dice"
	"github.com/cory-johannsen/roguehammer/internal/game/input"
	"github.com/cory-johannsen/roguehammer/internal/game/layout"
	"github.com/cory-johannsen/roguehammer/internal/game/world"
	"github.com/cory-johannsen/roguehammer/internal/sim"
)

func newNav(t testing.TB, seed uint64, rows ...string) *world.Navigator {
	t.Helper()
	l, err := layout.FromRows("sim", rows...)
	require.NoError(t, err)
	n, err := world.New(l, world.Options{Source: dice.NewSeededSource(seed)})
	require.NoError(t, err)
	return n
}

func TestRun_AutopilotClearsCorridor(t *testing.T) {
	n := newNav(t, 1, "S E")
	pilot := sim.NewAutopilot()

	res, err := sim.NewRunner(n, pilot, 0, nil).Run(context.Background(), 5000)
	require.NoError(t, err)
	assert.Equal(t, world.OutcomeComplete, res.Outcome)
	assert.Equal(t, "sim", res.Layout)
	assert.Equal(t, 2, pilot.Visited())
	assert.Equal(t, world.LevelComplete, n.Phase())
	assert.GreaterOrEqual(t, res.Summary.ItemsCollected, 2, "pistol and potion in the start room")
}

func TestRun_FrameBudgetAborts(t *testing.T) {
	n := newNav(t, 1, "S N")
	res, err := sim.NewRunner(n, nil, 0, nil).Run(context.Background(), 10)
	assert.ErrorIs(t, err, sim.ErrFrameBudget)
	assert.Equal(t, world.OutcomeAborted, res.Outcome)
	assert.Equal(t, 10, res.Frames)
	assert.True(t, n.Finished())
}

func TestRun_CancelledContextAborts(t *testing.T) {
	n := newNav(t, 1, "S N")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := sim.NewRunner(n, nil, 0, nil).Run(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, world.OutcomeAborted, res.Outcome)
}

func TestRun_SameSeedSameRun(t *testing.T) {
	run := func() world.Result {
		l, err := layout.Builtin("layout1")
		require.NoError(t, err)
		n, err := world.New(l, world.Options{Source: dice.NewSeededSource(77)})
		require.NoError(t, err)
		res, _ := sim.NewRunner(n, sim.NewAutopilot(), 0, nil).Run(context.Background(), 20000)
		return res
	}
	first := run()
	assert.Equal(t, first, run())
	assert.Positive(t, first.Frames)
}

func TestRunRealtime_FrameBudget(t *testing.T) {
	n := newNav(t, 1, "S N")
	res, err := sim.NewRunner(n, nil, 0.001, nil).RunRealtime(context.Background(), 5)
	assert.ErrorIs(t, err, sim.ErrFrameBudget)
	assert.Equal(t, 5, res.Frames)
}

func TestRunRealtime_ContextStops(t *testing.T) {
	n := newNav(t, 1, "S N")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := sim.NewRunner(n, nil, 0.5, nil).RunRealtime(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAutopilot_IdleOnceRunIsOver(t *testing.T) {
	n := newNav(t, 1, "S N")
	n.Abort()
	assert.Equal(t, input.Idle, sim.NewAutopilot().Next(n))
}

func TestAutopilot_HeadsForUnvisitedRoom(t *testing.T) {
	n := newNav(t, 1, "S N")
	pilot := sim.NewAutopilot()
	runner := sim.NewRunner(n, pilot, 0, nil)
	for i := 0; i < 2000 && n.CurrentRoom().Type == layout.Start; i++ {
		runner.Step()
	}
	assert.Equal(t, layout.Cell{Row: 0, Col: 1}, n.CurrentRoom().Cell)
	runner.Step()
	assert.Equal(t, 2, pilot.Visited())
}
