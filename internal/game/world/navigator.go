// Package world runs one level: it builds the rooms of a layout, steps the
// player and the current room each frame, gates door use on cleared rooms
// and moves the player between rooms.
package world

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/roguehammer/internal/game/dice"
	"github.com/cory-johannsen/roguehammer/internal/game/enemy"
	"github.com/cory-johannsen/roguehammer/internal/game/event"
	"github.com/cory-johannsen/roguehammer/internal/game/geom"
	"github.com/cory-johannsen/roguehammer/internal/game/input"
	"github.com/cory-johannsen/roguehammer/internal/game/item"
	"github.com/cory-johannsen/roguehammer/internal/game/layout"
	"github.com/cory-johannsen/roguehammer/internal/game/player"
	"github.com/cory-johannsen/roguehammer/internal/game/room"
	"github.com/cory-johannsen/roguehammer/internal/game/stats"
	"github.com/cory-johannsen/roguehammer/internal/game/tuning"
)

// ErrNoStartRoom is returned by New for a layout without a start cell.
var ErrNoStartRoom = layout.ErrNoStartRoom

// Phase is the level's state.
type Phase int

// Level phases.
const (
	Loading Phase = iota
	Exploring
	Dying
	RunOver
	LevelComplete
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Exploring:
		return "exploring"
	case Dying:
		return "dying"
	case RunOver:
		return "run_over"
	case LevelComplete:
		return "level_complete"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Outcome is how a run ended.
type Outcome string

// Run outcomes.
const (
	OutcomeDeath    Outcome = "death"
	OutcomeComplete Outcome = "complete"
	OutcomeAborted  Outcome = "aborted"
)

// Result is handed to the end-of-run collaborator.
type Result struct {
	Layout  string
	Outcome Outcome
	Frames  int
	Summary stats.Summary
}

// EndOfRun receives the result of a finished run. It is called at most once
// per Navigator.
type EndOfRun func(Result)

// Hooks observes level events. Implementations must not call back into the
// Navigator.
type Hooks interface {
	RoomEntered(row, col int, roomType string)
	RoomCleared(row, col int, roomType string)
	EnemyKilled(kind string, row, col int)
	LevelComplete(s stats.Summary)
}

// NopHooks ignores every event.
type NopHooks struct{}

func (NopHooks) RoomEntered(int, int, string) {}
func (NopHooks) RoomCleared(int, int, string) {}
func (NopHooks) EnemyKilled(string, int, int) {}
func (NopHooks) LevelComplete(stats.Summary)  {}

// Options configures a Navigator. Zero values are replaced by defaults.
type Options struct {
	Dims     tuning.Dimensions
	Catalog  *item.Catalog
	Source   dice.Source
	Stats    *stats.Run
	Audio    event.Audio
	Hooks    Hooks
	EndOfRun EndOfRun
	Logger   *zap.Logger
}

// Navigator owns a level's rooms and the player.
type Navigator struct {
	layout  *layout.Layout
	dims    tuning.Dimensions
	rooms   []*room.Room
	index   map[layout.Cell]int
	current int

	player *player.Player
	camera Camera
	stats  *stats.Run
	audio  event.Audio
	hooks  Hooks
	end    EndOfRun
	logger *zap.Logger

	phase      Phase
	frames     int
	deathTimer float64
	nearDoor   *layout.Direction
	finished   bool
	result     Result
}

// New builds every room of l, activates the start room and places the
// player at its spawn point.
//
// Precondition: l is rectangular.
// Postcondition: returns an error wrapping layout.ErrNoStartRoom when l has
// no start cell; otherwise the Navigator is Exploring.
func New(l *layout.Layout, opts Options) (*Navigator, error) {
	if l == nil {
		return nil, errors.New("layout must not be nil")
	}
	start, err := l.FindStart()
	if err != nil {
		return nil, fmt.Errorf("layout %q: %w", l.Name, err)
	}
	if opts.Dims == (tuning.Dimensions{}) {
		opts.Dims = tuning.Default()
	}
	if err := opts.Dims.Validate(); err != nil {
		return nil, fmt.Errorf("dimensions: %w", err)
	}
	if opts.Source == nil {
		opts.Source = dice.NewCryptoSource()
	}
	if opts.Stats == nil {
		opts.Stats = stats.NewRun()
	}
	if opts.Audio == nil {
		opts.Audio = event.NopAudio{}
	}
	if opts.Hooks == nil {
		opts.Hooks = NopHooks{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	n := &Navigator{
		layout: l,
		dims:   opts.Dims,
		index:  make(map[layout.Cell]int),
		stats:  opts.Stats,
		audio:  opts.Audio,
		hooks:  opts.Hooks,
		end:    opts.EndOfRun,
		logger: opts.Logger.With(zap.String("layout", l.Name)),
		phase:  Loading,
	}

	roller := dice.NewLoggedRoller(opts.Source, n.logger)
	svc := room.NewServices(n.dims, opts.Catalog, roller, n.stats, n.audio, n.logger)
	svc.Listener = n
	for _, c := range l.Occupied() {
		shape, err := layout.ResolveShape(l, c)
		if err != nil {
			n.logger.Warn("room shape fallback",
				zap.Int("row", c.Row),
				zap.Int("col", c.Col),
				zap.String("shape", shape.String()),
				zap.Error(err),
			)
		}
		handle := len(n.rooms)
		n.rooms = append(n.rooms, room.New(handle, c, l.At(c).Type, shape, n.RoomPosition(c), svc))
		n.index[c] = handle
	}

	n.current = n.index[start]
	cur := n.rooms[n.current]
	cur.Activate()
	n.player = player.New(cur.SpawnPoint(), n.dims, n.stats, n.audio)
	n.camera = newCamera(n.cameraTarget(cur))
	n.phase = Exploring
	n.hooks.RoomEntered(start.Row, start.Col, cur.Type.String())

	n.logger.Info("level loaded",
		zap.Int("rooms", len(n.rooms)),
		zap.Int("start_row", start.Row),
		zap.Int("start_col", start.Col),
	)
	return n, nil
}

// RoomPosition returns the world position of the room at c. Layout row zero
// is the top of the world.
func (n *Navigator) RoomPosition(c layout.Cell) geom.Vec2 {
	spacing := n.dims.RoomSpacing()
	return geom.V(
		float64(c.Col)*(n.dims.RoomWidth+spacing),
		float64(n.layout.Rows()-1-c.Row)*(n.dims.RoomHeight+spacing),
	)
}

// Layout returns the level's layout.
func (n *Navigator) Layout() *layout.Layout { return n.layout }

// Rooms returns every room in handle order.
func (n *Navigator) Rooms() []*room.Room { return n.rooms }

// RoomAt returns the room at c.
func (n *Navigator) RoomAt(c layout.Cell) (*room.Room, bool) {
	h, ok := n.index[c]
	if !ok {
		return nil, false
	}
	return n.rooms[h], true
}

// CurrentRoom returns the room the player is in.
func (n *Navigator) CurrentRoom() *room.Room { return n.rooms[n.current] }

// Player returns the player.
func (n *Navigator) Player() *player.Player { return n.player }

// Camera returns the camera state.
func (n *Navigator) Camera() Camera { return n.camera }

// Phase returns the level phase.
func (n *Navigator) Phase() Phase { return n.phase }

// Frames returns the number of Update calls so far.
func (n *Navigator) Frames() int { return n.frames }

// Summary returns the statistics gathered so far.
func (n *Navigator) Summary() stats.Summary { return n.stats.Summary() }

// Finished reports whether the run has ended.
func (n *Navigator) Finished() bool { return n.finished }

// Result returns the run result once the run has ended.
func (n *Navigator) Result() (Result, bool) { return n.result, n.finished }

// Update advances the level by delta seconds using the input snapshot in.
func (n *Navigator) Update(delta float64, in input.Snapshot) {
	n.frames++
	switch n.phase {
	case Exploring:
		n.explore(delta, in)
	case Dying:
		n.player.Update(delta, in, n.CurrentRoom().InteriorBounds())
		n.player.SweepBullets()
		n.deathTimer += delta
		if n.deathTimer >= n.dims.PlayerDeathDelay {
			n.phase = RunOver
			n.finish(OutcomeDeath)
		}
		n.camera.update(n.cameraTarget(n.CurrentRoom()))
	}
}

func (n *Navigator) explore(delta float64, in input.Snapshot) {
	cur := n.CurrentRoom()
	n.player.Update(delta, in, cur.InteriorBounds())
	cur.Update(delta, n.player)

	if n.player.ConsumeDeath() {
		n.phase = Dying
		n.deathTimer = 0
		n.nearDoor = nil
		// Nothing resolves bullets while dying, so drop them all here.
		n.player.ClearBullets()
		n.logger.Info("player died",
			zap.Int("row", cur.Cell.Row),
			zap.Int("col", cur.Cell.Col),
			zap.Int("frame", n.frames),
		)
		return
	}

	n.nearDoor = n.detectDoor()
	if in.UseJustPressed {
		switch {
		case n.nearDoor != nil:
			n.UseDoor(*n.nearDoor)
		case cur.PlayerOnExit():
			n.completeLevel()
		default:
			cur.Interact(n.player)
		}
	}
	n.player.SweepBullets()
	n.camera.update(n.cameraTarget(n.CurrentRoom()))
}

// Abort ends the run early, for instance when a frame budget runs out.
func (n *Navigator) Abort() {
	if n.finished {
		return
	}
	n.phase = RunOver
	n.finish(OutcomeAborted)
}

func (n *Navigator) completeLevel() {
	n.phase = LevelComplete
	n.audio.Play(event.CueLevelCleared)
	n.hooks.LevelComplete(n.stats.Summary())
	n.logger.Info("level complete", zap.Int("frame", n.frames))
	n.finish(OutcomeComplete)
}

// finish hands the run to the end-of-run collaborator once.
func (n *Navigator) finish(o Outcome) {
	if n.finished {
		return
	}
	n.finished = true
	res := Result{Layout: n.layout.Name, Outcome: o, Frames: n.frames, Summary: n.stats.Summary()}
	n.result = res
	n.logger.Info("run over",
		zap.String("outcome", string(o)),
		zap.Int("frames", res.Frames),
		zap.Int("enemies_killed", res.Summary.EnemiesKilled),
		zap.Int("rooms_cleared", res.Summary.RoomsCleared),
	)
	if n.end != nil {
		n.end(res)
	}
}

// EnemyKilled forwards a room's kill to the hooks.
func (n *Navigator) EnemyKilled(r *room.Room, e *enemy.Enemy) {
	n.hooks.EnemyKilled(e.Kind.String(), r.Cell.Row, r.Cell.Col)
}

// RoomCleared forwards a room's cleared event to the hooks.
func (n *Navigator) RoomCleared(r *room.Room) {
	n.audio.Play(event.CueLevelCleared)
	n.logger.Debug("room cleared",
		zap.Int("row", r.Cell.Row),
		zap.Int("col", r.Cell.Col),
	)
	n.hooks.RoomCleared(r.Cell.Row, r.Cell.Col, r.Type.String())
}
