package server

import (
	"context"
	"errors"
	"sync"

	"github.com/cory-johannsen/roguehammer/internal/game/world"
	"github.com/cory-johannsen/roguehammer/internal/sim"
)

// SimulationService runs one realtime simulation as a Service. Stopping it
// or cancelling its context aborts the run.
type SimulationService struct {
	runner    *sim.Runner
	maxFrames int
	onResult  func(world.Result, error)

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewSimulationService wraps runner. onResult, when non-nil, receives the
// run result once Start returns.
//
// Precondition: runner must be non-nil.
func NewSimulationService(runner *sim.Runner, maxFrames int, onResult func(world.Result, error)) *SimulationService {
	return &SimulationService{runner: runner, maxFrames: maxFrames, onResult: onResult}
}

// Start paces the run with a wall-clock ticker. Exhausting the frame budget
// or being stopped is not a failure.
func (s *SimulationService) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	res, err := s.runner.RunRealtime(ctx, s.maxFrames)
	if s.onResult != nil {
		s.onResult(res, err)
	}
	if errors.Is(err, sim.ErrFrameBudget) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Stop cancels a running simulation.
func (s *SimulationService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}
