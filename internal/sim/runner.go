// Package sim drives a level headlessly, either as fast as possible with a
// fixed frame step or paced by a wall-clock ticker.
package sim

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/roguehammer/internal/game/world"
)

// DefaultStep is the simulated time per frame.
const DefaultStep = 1.0 / 60

// ErrFrameBudget is returned when a run is aborted for reaching its frame
// budget.
var ErrFrameBudget = errors.New("frame budget exhausted")

// Runner steps a Navigator with input from an InputProvider.
type Runner struct {
	nav    *world.Navigator
	input  InputProvider
	step   float64
	logger *zap.Logger
}

// NewRunner creates a Runner.
//
// Precondition: nav is non-nil. A nil input becomes Idle, a non-positive
// step becomes DefaultStep and a nil logger a no-op logger.
func NewRunner(nav *world.Navigator, in InputProvider, step float64, logger *zap.Logger) *Runner {
	if in == nil {
		in = Idle{}
	}
	if step <= 0 {
		step = DefaultStep
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{nav: nav, input: in, step: step, logger: logger}
}

// Step advances exactly one frame.
func (r *Runner) Step() {
	r.nav.Update(r.step, r.input.Next(r.nav))
}

// Run steps frames back to back until the run ends, maxFrames frames have
// run or ctx is done. A maxFrames of zero means no budget.
//
// Postcondition: the Navigator is finished. A budget or context stop aborts
// the run and returns ErrFrameBudget or the context error with the result.
func (r *Runner) Run(ctx context.Context, maxFrames int) (world.Result, error) {
	for frames := 0; !r.nav.Finished(); frames++ {
		if maxFrames > 0 && frames >= maxFrames {
			return r.abort(ErrFrameBudget)
		}
		if frames%256 == 0 {
			if err := ctx.Err(); err != nil {
				return r.abort(err)
			}
		}
		r.Step()
	}
	res, _ := r.nav.Result()
	return res, nil
}

// RunRealtime steps one frame per tick of a wall-clock ticker whose period
// matches the frame step.
func (r *Runner) RunRealtime(ctx context.Context, maxFrames int) (world.Result, error) {
	ticker := time.NewTicker(time.Duration(r.step * float64(time.Second)))
	defer ticker.Stop()
	frames := 0
	for !r.nav.Finished() {
		if maxFrames > 0 && frames >= maxFrames {
			return r.abort(ErrFrameBudget)
		}
		select {
		case <-ctx.Done():
			return r.abort(ctx.Err())
		case <-ticker.C:
			r.Step()
			frames++
		}
	}
	res, _ := r.nav.Result()
	return res, nil
}

func (r *Runner) abort(cause error) (world.Result, error) {
	r.logger.Warn("run aborted",
		zap.Int("frames", r.nav.Frames()),
		zap.Error(cause),
	)
	r.nav.Abort()
	res, _ := r.nav.Result()
	return res, cause
}
