package room_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/roguehammer/internal/game/dice"
	"github.com/cory-johannsen/roguehammer/internal/game/enemy"
	"github.com/cory-johannsen/roguehammer/internal/game/geom"
	"github.com/cory-johannsen/roguehammer/internal/game/item"
	"github.com/cory-johannsen/roguehammer/internal/game/layout"
	"github.com/cory-johannsen/roguehammer/internal/game/player"
	"github.com/cory-johannsen/roguehammer/internal/game/room"
	"github.com/cory-johannsen/roguehammer/internal/game/tuning"
)

// scriptedSource replays fixed values, then returns zero.
type scriptedSource struct {
	values []int
}

func (s *scriptedSource) Intn(n int) int {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[0]
	s.values = s.values[1:]
	return v % n
}

// maxSource always returns the largest value, so partial chances fail.
type maxSource struct{}

func (maxSource) Intn(n int) int { return n - 1 }

type mockListener struct{ mock.Mock }

func (m *mockListener) EnemyKilled(r *room.Room, e *enemy.Enemy) { m.Called(r, e) }
func (m *mockListener) RoomCleared(r *room.Room)                  { m.Called(r) }

func newRoom(rt layout.RoomType, shape layout.Shape, src dice.Source) *room.Room {
	svc := room.NewServices(tuning.Default(), nil, dice.NewLoggedRoller(src, nil), nil, nil, nil)
	return room.New(0, layout.Cell{}, rt, shape, geom.V(0, 0), svc)
}

func newRoomWith(rt layout.RoomType, src dice.Source, l room.Listener) *room.Room {
	svc := room.NewServices(tuning.Default(), nil, dice.NewLoggedRoller(src, nil), nil, nil, nil)
	svc.Listener = l
	return room.New(0, layout.Cell{}, rt, layout.ShapeO, geom.V(0, 0), svc)
}

// farPlayer stands in a corner out of reach of everything recipes place.
func farPlayer() *player.Player {
	return player.New(geom.V(100, 100), tuning.Default(), nil, nil)
}

func toCell(r *room.Room, pos geom.Vec2) room.GridPos {
	tile := tuning.Default().TileSize
	return room.GridPos{X: int((pos.X - r.Position.X) / tile), Y: int((pos.Y - r.Position.Y) / tile)}
}

func TestGenerateContentIfNeeded_Idempotent(t *testing.T) {
	for _, rt := range []layout.RoomType{layout.Start, layout.Normal, layout.Trap, layout.Boss, layout.Chest, layout.Shop, layout.End} {
		t.Run(rt.String(), func(t *testing.T) {
			r := newRoom(rt, layout.ShapeO, dice.NewSeededSource(42))
			r.GenerateContentIfNeeded()
			enemies, pickups, traps, chests := len(r.Enemies()), len(r.Pickups()), len(r.Traps()), len(r.Chests())

			r.GenerateContentIfNeeded()
			r.Activate()
			r.Deactivate()
			r.Activate()

			assert.True(t, r.Generated())
			assert.Len(t, r.Enemies(), enemies)
			assert.Len(t, r.Pickups(), pickups)
			assert.Len(t, r.Traps(), traps)
			assert.Len(t, r.Chests(), chests)
		})
	}
}

func TestPlace_SampledSpawnsAvoidDoorsAndEachOther(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		shape := rapid.SampledFrom(layout.Shapes).Draw(rt, "shape")
		rtype := rapid.SampledFrom([]layout.RoomType{layout.Normal, layout.Trap, layout.Chest}).Draw(rt, "type")
		seed := rapid.Uint64().Draw(rt, "seed")

		r := newRoom(rtype, shape, dice.NewSeededSource(seed))
		r.GenerateContentIfNeeded()

		var cells []room.GridPos
		for _, e := range r.Enemies() {
			cells = append(cells, toCell(r, e.Position()))
		}
		for _, tr := range r.Traps() {
			cells = append(cells, toCell(r, tr.Position))
		}
		seen := map[room.GridPos]bool{}
		for _, c := range cells {
			if seen[c] {
				rt.Fatalf("two spawns share cell %v", c)
			}
			seen[c] = true
			for _, d := range shape.Doors() {
				if dist := c.Chebyshev(room.DoorCell(r.Grid(), d)); dist <= room.DefaultDoorSafetyRadius {
					rt.Fatalf("cell %v is %d from the %s door", c, dist, d)
				}
			}
		}
	})
}

func TestValidSpawnCell_DoorDistance(t *testing.T) {
	g := room.NewGrid(20, 10)
	doors := []layout.Direction{layout.Left}
	door := room.DoorCell(g, layout.Left)
	require.Equal(t, room.GridPos{X: 0, Y: 5}, door)

	assert.False(t, room.ValidSpawnCell(g, doors, room.GridPos{X: 2, Y: 5}, room.DefaultDoorSafetyRadius))
	assert.False(t, room.ValidSpawnCell(g, doors, room.GridPos{X: 2, Y: 7}, room.DefaultDoorSafetyRadius))
	assert.True(t, room.ValidSpawnCell(g, doors, room.GridPos{X: 3, Y: 5}, room.DefaultDoorSafetyRadius))
	assert.True(t, room.ValidSpawnCell(g, doors, room.GridPos{X: 3, Y: 8}, room.DefaultDoorSafetyRadius))
}

func TestValidSpawnCell_RejectsWallsAndOccupied(t *testing.T) {
	g := room.NewGrid(20, 10)
	assert.False(t, room.ValidSpawnCell(g, nil, room.GridPos{X: 0, Y: 3}, 2))
	assert.False(t, room.ValidSpawnCell(g, nil, room.GridPos{X: 19, Y: 9}, 2))
	g.Set(room.GridPos{X: 5, Y: 5}, room.CellEnemy)
	assert.False(t, room.ValidSpawnCell(g, nil, room.GridPos{X: 5, Y: 5}, 2))
	assert.True(t, room.ValidSpawnCell(g, nil, room.GridPos{X: 6, Y: 5}, 2))
}

func TestBossRoom_LootWhenChancesFail(t *testing.T) {
	r := newRoom(layout.Boss, layout.ShapeDN, maxSource{})
	r.Activate()

	require.Len(t, r.Enemies(), 1)
	boss := r.Enemies()[0]
	assert.Equal(t, enemy.Boss, boss.Kind)

	_, killed := boss.TakeDamage(1000)
	require.True(t, killed)
	pl := farPlayer()
	for i := 0; i < 3; i++ {
		r.Update(0.5, pl)
	}

	assert.Empty(t, r.Enemies())
	assert.Empty(t, r.Chests())
	counts := map[string]int{}
	for _, p := range r.Pickups() {
		counts[p.Def.ID]++
	}
	assert.Equal(t, map[string]int{item.Coin: 5, item.Key: 1}, counts)
}

func TestShopRoom_RetriesDuplicateWeapons(t *testing.T) {
	// rifle, price 10, rifle again, shotgun, price 5, smg, price 30
	src := &scriptedSource{values: []int{11, 2, 11, 12, 0, 13, 7}}
	r := newRoom(layout.Shop, layout.ShapeO, src)
	r.GenerateContentIfNeeded()

	require.Len(t, r.Pickups(), 3)
	var ids []string
	var prices []int
	for _, p := range r.Pickups() {
		ids = append(ids, p.Def.ID)
		prices = append(prices, p.Price)
	}
	assert.Equal(t, []string{item.Rifle, item.Shotgun, item.Smg}, ids)
	assert.Equal(t, []int{10, 5, 30}, prices)

	c := r.Center()
	assert.InDelta(t, c.X-128, r.Pickups()[0].Position.X, 1e-9)
	assert.InDelta(t, c.X, r.Pickups()[1].Position.X, 1e-9)
	assert.InDelta(t, c.X+128, r.Pickups()[2].Position.X, 1e-9)

	price, ok := r.Price(item.Shotgun)
	assert.True(t, ok)
	assert.Equal(t, 5, price)
}

func TestShopRoom_NeverOffersCurrency(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r := newRoom(layout.Shop, layout.ShapeO, dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed")))
		r.GenerateContentIfNeeded()
		unique := map[string]bool{}
		for _, p := range r.Pickups() {
			if p.Def.Kind == item.KindCurrency {
				rt.Fatalf("currency %s offered", p.Def.ID)
			}
			if p.Def.IsUnique() {
				if unique[p.Def.ID] {
					rt.Fatalf("duplicate %s offered", p.Def.ID)
				}
				unique[p.Def.ID] = true
			}
			if p.Price <= 0 {
				rt.Fatalf("offer %s has no price", p.Def.ID)
			}
		}
	})
}

func TestShopRoom_Purchase(t *testing.T) {
	src := &scriptedSource{values: []int{11, 2, 12, 0, 13, 7}}
	r := newRoom(layout.Shop, layout.ShapeO, src)
	r.Activate()
	rifle := r.Pickups()[0]

	pl := player.New(rifle.Position, tuning.Default(), nil, nil)
	assert.Equal(t, room.InteractTooPoor, r.Interact(pl))

	for i := 0; i < 12; i++ {
		pl.Collect(item.Builtin().MustGet(item.Coin))
	}
	assert.Equal(t, room.InteractPurchased, r.Interact(pl))
	assert.Equal(t, 2, pl.Coins())
	require.NotNil(t, pl.Equipped())
	assert.Equal(t, item.Rifle, pl.Equipped().Def.ID)

	r.Update(0.01, pl)
	assert.Len(t, r.Pickups(), 2)
}

func TestStartRoom_Recipe(t *testing.T) {
	r := newRoom(layout.Start, layout.ShapeO, dice.NewSeededSource(1))
	r.GenerateContentIfNeeded()

	require.Len(t, r.Pickups(), 2)
	assert.Equal(t, item.Pistol, r.Pickups()[0].Def.ID)
	assert.Equal(t, geom.V(10*64+32, 4*64+32), r.Pickups()[0].Position)
	assert.Equal(t, item.SmallHealthPotion, r.Pickups()[1].Def.ID)
	assert.Empty(t, r.Enemies())
	assert.Equal(t, r.Center(), r.SpawnPoint())
}

func TestRecipes_Counts(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")

		normal := newRoom(layout.Normal, layout.ShapeO, dice.NewSeededSource(seed))
		normal.GenerateContentIfNeeded()
		if n := len(normal.Enemies()); n > tuning.Default().NormalMaxEnemies {
			rt.Fatalf("normal room has %d enemies", n)
		}

		trap := newRoom(layout.Trap, layout.ShapeO, dice.NewSeededSource(seed))
		trap.GenerateContentIfNeeded()
		if n := len(trap.Traps()); n < 4 || n > 8 {
			rt.Fatalf("trap room has %d traps", n)
		}
		for _, e := range trap.Enemies() {
			if e.Kind != enemy.Goblin {
				rt.Fatalf("trap room has a %s", e.Kind)
			}
		}

		chest := newRoom(layout.Chest, layout.ShapeO, dice.NewSeededSource(seed))
		chest.GenerateContentIfNeeded()
		if n := len(chest.Chests()); n != 2 {
			rt.Fatalf("chest room has %d chests", n)
		}
		if n := len(chest.Enemies()); n < 2 || n > 6 {
			rt.Fatalf("chest room has %d orcs", n)
		}
	})
}

func TestRoomCleared_FiresOnceAfterLastDeath(t *testing.T) {
	l := &mockListener{}
	l.On("EnemyKilled", mock.Anything, mock.Anything).Return()
	l.On("RoomCleared", mock.Anything).Return().Once()

	r := newRoomWith(layout.Chest, dice.NewSeededSource(3), l)
	r.Activate()
	require.NotEmpty(t, r.Enemies())
	assert.True(t, r.EnemiesRemain())

	killed := len(r.Enemies())
	for _, e := range r.Enemies() {
		e.TakeDamage(1000)
	}
	pl := farPlayer()
	r.Update(0.1, pl)
	assert.True(t, r.EnemiesRemain(), "dying enemies keep the room closed until removal")
	assert.False(t, r.Cleared())

	r.Update(enemy.DeathDuration, pl)
	assert.False(t, r.EnemiesRemain())
	assert.True(t, r.Cleared())
	r.Update(0.1, pl)
	l.AssertNumberOfCalls(t, "EnemyKilled", killed)
	l.AssertExpectations(t)
}

func TestRoomCleared_NeverForEmptyRoom(t *testing.T) {
	l := &mockListener{}
	r := newRoomWith(layout.Start, dice.NewSeededSource(3), l)
	r.Activate()
	r.Update(0.1, farPlayer())
	assert.False(t, r.Cleared())
	l.AssertNotCalled(t, "RoomCleared", mock.Anything)
}

func TestChest_NeedsKeyThenDropsAndDisappears(t *testing.T) {
	r := newRoom(layout.End, layout.ShapeO, dice.NewSeededSource(9))
	r.Activate()
	require.Len(t, r.Chests(), 1)
	chest := r.Chests()[0]
	before := len(r.Pickups())

	pl := player.New(chest.Position, tuning.Default(), nil, nil)
	assert.Equal(t, room.InteractNeedKey, r.Interact(pl))
	assert.Equal(t, room.ChestLocked, chest.State())

	pl.Collect(item.Builtin().MustGet(item.Key))
	assert.Equal(t, room.InteractChestOpened, r.Interact(pl))
	assert.Equal(t, 0, pl.Keys())
	assert.Equal(t, room.ChestOpening, chest.State())

	r.Update(room.ChestOpenDelay+0.01, pl)
	assert.Equal(t, room.ChestOpened, chest.State())
	dropped := len(r.Pickups()) - before
	assert.GreaterOrEqual(t, dropped, room.ChestMinDrops)
	assert.LessOrEqual(t, dropped, room.ChestMaxDrops)

	r.Update(room.ChestRemoveDelay+0.01, pl)
	assert.Empty(t, r.Chests())
}

func TestEndRoom_Exit(t *testing.T) {
	r := newRoom(layout.End, layout.ShapeO, dice.NewSeededSource(9))
	r.Activate()
	exit, ok := r.ExitBounds()
	require.True(t, ok)
	assert.Equal(t, r.Center(), exit.Center())

	pl := farPlayer()
	r.Update(0.01, pl)
	assert.False(t, r.PlayerOnExit())

	pl.SetPosition(r.Center(), r.InteriorBounds())
	r.Update(0.01, pl)
	assert.True(t, r.PlayerOnExit())

	_, ok = newRoom(layout.Normal, layout.ShapeO, dice.NewSeededSource(9)).ExitBounds()
	assert.False(t, ok)
}

func TestCurrency_CollectedOnContact(t *testing.T) {
	r := newRoom(layout.Boss, layout.ShapeDN, maxSource{})
	r.Activate()
	boss := r.Enemies()[0]
	boss.TakeDamage(1000)
	for i := 0; i < 3; i++ {
		r.Update(0.5, farPlayer())
	}
	require.NotEmpty(t, r.Pickups())

	pl := player.New(boss.Position(), tuning.Default(), nil, nil)
	r.Update(0.01, pl)
	assert.Equal(t, 5, pl.Coins())
	assert.Equal(t, 1, pl.Keys())
	assert.Empty(t, r.Pickups())
}

func TestDoorGeometry(t *testing.T) {
	r := newRoom(layout.Normal, layout.ShapeO, dice.NewSeededSource(1))
	assert.Equal(t, geom.Rect{X: 576, Y: 576, W: 128, H: 64}, r.DoorBounds(layout.Up))
	assert.Equal(t, geom.Rect{X: 576, Y: -32, W: 128, H: 64}, r.DoorBounds(layout.Down))
	assert.Equal(t, geom.Rect{X: -32, Y: 256, W: 64, H: 128}, r.DoorBounds(layout.Left))
	assert.Equal(t, geom.Rect{X: 1248, Y: 256, W: 64, H: 128}, r.DoorBounds(layout.Right))

	zone := r.DoorZone(layout.Up)
	pad := tuning.Default().DoorPadding()
	assert.InDelta(t, 128+pad, zone.W, 1e-9)
	assert.InDelta(t, 64+pad, zone.H, 1e-9)

	// Travelling up enters through the bottom wall.
	assert.Equal(t, geom.V(640, 640.0/12), r.EntryPoint(layout.Up))
	assert.Equal(t, geom.V(640, 640-640.0/12), r.EntryPoint(layout.Down))
	assert.Equal(t, geom.V(1280-640.0/12, 320), r.EntryPoint(layout.Left))
	assert.Equal(t, geom.V(640.0/12, 320), r.EntryPoint(layout.Right))
}

func TestActivate_TogglesDoorsAndEnemies(t *testing.T) {
	r := newRoom(layout.Boss, layout.ShapeDN, maxSource{})
	assert.True(t, r.DoorsHidden())
	assert.False(t, r.Generated())

	r.Activate()
	assert.False(t, r.DoorsHidden())
	assert.True(t, r.Enemies()[0].Active())

	r.Deactivate()
	assert.True(t, r.DoorsHidden())
	assert.False(t, r.Enemies()[0].Active())
	assert.False(t, r.Enemies()[0].Alive())
	assert.True(t, r.EnemiesRemain())
}

func TestBossRoom_LootDropsWhenDeathAnimationEnds(t *testing.T) {
	r := newRoom(layout.Boss, layout.ShapeDN, maxSource{})
	r.Activate()
	boss := r.Enemies()[0]
	boss.TakeDamage(1000)

	pl := farPlayer()
	r.Update(enemy.DeathDuration/2, pl)
	assert.Empty(t, r.Pickups(), "no loot while the boss is dying")
	assert.True(t, r.EnemiesRemain())
	assert.False(t, r.Cleared())

	r.Update(enemy.DeathDuration/2, pl)
	assert.NotEmpty(t, r.Pickups())
	assert.False(t, r.EnemiesRemain())
	assert.True(t, r.Cleared())
}

// smallRoomServices uses an 8x6 tile grid instead of the default 20x10.
func smallRoomServices(src dice.Source) *room.Services {
	dims := tuning.Default()
	dims.RoomWidth = 512
	dims.RoomHeight = 384
	return room.NewServices(dims, nil, dice.NewLoggedRoller(src, nil), nil, nil, nil)
}

func TestRecipes_StayInsideNonDefaultGrid(t *testing.T) {
	for _, rt := range []layout.RoomType{layout.Start, layout.Boss, layout.End} {
		t.Run(rt.String(), func(t *testing.T) {
			svc := smallRoomServices(dice.NewSeededSource(5))
			r := room.New(0, layout.Cell{}, rt, layout.ShapeO, geom.V(0, 0), svc)
			r.GenerateContentIfNeeded()
			interior := r.InteriorBounds()

			for _, p := range r.Pickups() {
				assert.True(t, interior.Contains(p.Position), "pickup %s at %v", p.Def.ID, p.Position)
			}
			for _, e := range r.Enemies() {
				assert.True(t, interior.Contains(e.Position()), "%s at %v", e.Kind, e.Position())
			}
			for _, c := range r.Chests() {
				assert.True(t, interior.Contains(c.Position), "chest at %v", c.Position)
			}
		})
	}
}

func TestRecipes_NonDefaultGridCounts(t *testing.T) {
	svc := smallRoomServices(maxSource{})
	start := room.New(0, layout.Cell{}, layout.Start, layout.ShapeO, geom.V(0, 0), svc)
	start.GenerateContentIfNeeded()
	assert.Len(t, start.Pickups(), 2)

	boss := room.New(1, layout.Cell{}, layout.Boss, layout.ShapeO, geom.V(0, 0), smallRoomServices(maxSource{}))
	boss.GenerateContentIfNeeded()
	require.Len(t, boss.Enemies(), 1)
	assert.Equal(t, geom.V(4*64+32, 2*64+32), boss.Enemies()[0].Position())

	end := room.New(2, layout.Cell{}, layout.End, layout.ShapeO, geom.V(0, 0), smallRoomServices(maxSource{}))
	end.GenerateContentIfNeeded()
	assert.Len(t, end.Chests(), 1)
}

func TestPlacer_SkipsExplicitSpawnOutsideInterior(t *testing.T) {
	r := newRoom(layout.Normal, layout.ShapeO, dice.NewSeededSource(1))
	outside := []room.GridPos{{X: 0, Y: 0}, {X: 19, Y: 5}, {X: 25, Y: 3}, {X: 4, Y: -1}}
	plan := room.Plan{}
	for i := range outside {
		at := outside[i]
		plan.Enemies = append(plan.Enemies, room.EnemySpawn{Kind: enemy.Goblin, At: &at})
	}
	placer := room.NewPlacer(dice.NewSeededSource(1), nil)
	got := placer.Place(r, plan)

	assert.Equal(t, len(outside), got.Skipped)
	assert.Zero(t, got.Placed)
	assert.Empty(t, r.Enemies())
}
