package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/roguehammer/internal/game/dice"
	"github.com/cory-johannsen/roguehammer/internal/game/event"
	"github.com/cory-johannsen/roguehammer/internal/game/item"
	"github.com/cory-johannsen/roguehammer/internal/game/layout"
	"github.com/cory-johannsen/roguehammer/internal/game/stats"
	"github.com/cory-johannsen/roguehammer/internal/game/world"
	"github.com/cory-johannsen/roguehammer/internal/observability"
	"github.com/cory-johannsen/roguehammer/internal/scripting"
	"github.com/cory-johannsen/roguehammer/internal/server"
	"github.com/cory-johannsen/roguehammer/internal/sim"
	"github.com/cory-johannsen/roguehammer/internal/storage/postgres"
)

const saveTimeout = 5 * time.Second

func newSimulateCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run one level with the autopilot and print the run summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulate(cmd, e)
		},
	}
	f := cmd.Flags()
	f.String("layout", "", "built-in layout name")
	f.String("layout-file", "", "YAML layout file, overrides --layout")
	f.Uint64("seed", 0, "random seed (0 = non-deterministic)")
	f.Int("max-frames", 0, "abort after this many frames (0 = no budget)")
	f.Bool("realtime", false, "pace frames by the wall clock")
	f.Bool("record", false, "store the finished run in PostgreSQL")
	return cmd
}

// applySimulateFlags overlays explicitly set flags onto the loaded
// simulation config.
func applySimulateFlags(cmd *cobra.Command, e *env) error {
	s := &e.cfg.Simulation
	f := cmd.Flags()
	var err error
	if f.Changed("layout") {
		if s.Layout, err = f.GetString("layout"); err != nil {
			return err
		}
		s.LayoutFile = ""
	}
	if f.Changed("layout-file") {
		if s.LayoutFile, err = f.GetString("layout-file"); err != nil {
			return err
		}
	}
	if f.Changed("seed") {
		if s.Seed, err = f.GetUint64("seed"); err != nil {
			return err
		}
	}
	if f.Changed("max-frames") {
		if s.MaxFrames, err = f.GetInt("max-frames"); err != nil {
			return err
		}
	}
	if f.Changed("realtime") {
		if s.Realtime, err = f.GetBool("realtime"); err != nil {
			return err
		}
	}
	if f.Changed("record") {
		if s.RecordRuns, err = f.GetBool("record"); err != nil {
			return err
		}
	}
	return e.cfg.Validate()
}

func loadLayout(name, file string) (*layout.Layout, error) {
	if file != "" {
		return layout.LoadFile(file)
	}
	return layout.Builtin(name)
}

func runSimulate(cmd *cobra.Command, e *env) error {
	if err := applySimulateFlags(cmd, e); err != nil {
		return err
	}
	s := e.cfg.Simulation

	l, err := loadLayout(s.Layout, s.LayoutFile)
	if err != nil {
		return fmt.Errorf("loading layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		e.logger.Warn("layout failed validation, running anyway", zap.Error(err))
	}

	catalog := item.Builtin()
	if s.ItemFile != "" {
		if catalog, err = item.LoadCatalog(s.ItemFile); err != nil {
			return fmt.Errorf("loading items: %w", err)
		}
	}

	src := dice.NewCryptoSource()
	if s.Seed != 0 {
		src = dice.NewSeededSource(s.Seed)
	}

	runID := uuid.New()
	logger := observability.RunLogger(e.logger, runID.String(), l.Name, s.Seed)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var hooks world.Hooks = world.NopHooks{}
	if s.ScriptDir != "" {
		scripts := scripting.NewManager(dice.NewLoggedRoller(src, logger), logger)
		defer scripts.Close()
		switch err := scripts.LoadLevel(l.Name, s.ScriptDir, s.InstructionLimit); {
		case errors.Is(err, scripting.ErrNoScript):
			logger.Debug("no level script", zap.String("dir", s.ScriptDir))
		case err != nil:
			return fmt.Errorf("loading level script: %w", err)
		default:
			hooks = scripts.Hooks(l.Name)
		}
	}

	var runs *postgres.RunRepository
	if s.RecordRuns {
		pool, err := postgres.NewPool(ctx, e.cfg.Database)
		if err != nil {
			return fmt.Errorf("connecting run history database: %w", err)
		}
		defer pool.Close()
		runs = postgres.NewRunRepository(pool.DB())
	}

	var saveErr error
	nav, err := world.New(l, world.Options{
		Dims:    e.cfg.Gameplay.Dimensions(),
		Catalog: catalog,
		Source:  src,
		Stats:   stats.NewRun(),
		Audio:   event.NewLogAudio(logger),
		Hooks:   hooks,
		EndOfRun: func(res world.Result) {
			if runs == nil {
				return
			}
			rec := postgres.NewRunRecord(res, s.Seed)
			rec.ID = runID
			saveCtx, cancel := context.WithTimeout(context.Background(), saveTimeout)
			defer cancel()
			if _, saveErr = runs.Save(saveCtx, rec); saveErr != nil {
				logger.Error("recording run", zap.Error(saveErr))
				return
			}
			logger.Info("run recorded")
		},
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("building level: %w", err)
	}

	runner := sim.NewRunner(nav, sim.NewAutopilot(), s.Step(), logger)
	res, runErr := run(ctx, runner, s.MaxFrames, s.Realtime, logger)
	if runErr != nil && !errors.Is(runErr, sim.ErrFrameBudget) && !errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("running simulation: %w", runErr)
	}

	if err := printSummary(cmd.OutOrStdout(), runID, res, s.Step()); err != nil {
		return err
	}
	if saveErr != nil {
		return fmt.Errorf("recording run: %w", saveErr)
	}
	return nil
}

func run(ctx context.Context, runner *sim.Runner, maxFrames int, realtime bool, logger *zap.Logger) (world.Result, error) {
	if !realtime {
		return runner.Run(ctx, maxFrames)
	}
	var (
		res    world.Result
		runErr error
	)
	lc := server.NewLifecycle(logger)
	lc.Add("simulation", server.NewSimulationService(runner, maxFrames, func(r world.Result, err error) {
		res, runErr = r, err
	}))
	if err := lc.Run(ctx); err != nil {
		return res, err
	}
	return res, runErr
}

func printSummary(w io.Writer, runID uuid.UUID, res world.Result, step float64) error {
	s := res.Summary
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "run\t%s\n", runID)
	fmt.Fprintf(tw, "layout\t%s\n", res.Layout)
	fmt.Fprintf(tw, "outcome\t%s\n", res.Outcome)
	fmt.Fprintf(tw, "frames\t%d (%.1fs simulated)\n", res.Frames, float64(res.Frames)*step)
	fmt.Fprintf(tw, "enemies killed\t%d\n", s.EnemiesKilled)
	fmt.Fprintf(tw, "rooms cleared\t%d\n", s.RoomsCleared)
	fmt.Fprintf(tw, "damage dealt\t%d\n", s.DamageDealt)
	fmt.Fprintf(tw, "damage taken\t%d\n", s.DamageTaken)
	fmt.Fprintf(tw, "accuracy\t%.0f%% (%d/%d)\n", s.Accuracy()*100, s.BulletsHit, s.BulletsFired)
	fmt.Fprintf(tw, "items\t%d\n", s.ItemsCollected)
	fmt.Fprintf(tw, "coins\t%d\n", s.Coins)
	return tw.Flush()
}
