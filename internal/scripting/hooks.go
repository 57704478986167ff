package scripting

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/roguehammer/internal/game/stats"
)

// Hook function names a level script may define.
const (
	HookRoomEntered   = "on_room_entered"
	HookRoomCleared   = "on_room_cleared"
	HookEnemyKilled   = "on_enemy_killed"
	HookLevelComplete = "on_level_complete"
)

// LevelHooks forwards level events to one level's script.
type LevelHooks struct {
	m     *Manager
	level string
}

// Hooks returns the hook adapter for level. Events for a level without a
// script are dropped.
func (m *Manager) Hooks(level string) *LevelHooks {
	return &LevelHooks{m: m, level: level}
}

// RoomEntered calls on_room_entered(row, col, room_type).
func (h *LevelHooks) RoomEntered(row, col int, roomType string) {
	h.m.CallHook(h.level, HookRoomEntered, lua.LNumber(row), lua.LNumber(col), lua.LString(roomType)) //nolint:errcheck
}

// RoomCleared calls on_room_cleared(row, col, room_type).
func (h *LevelHooks) RoomCleared(row, col int, roomType string) {
	h.m.CallHook(h.level, HookRoomCleared, lua.LNumber(row), lua.LNumber(col), lua.LString(roomType)) //nolint:errcheck
}

// EnemyKilled calls on_enemy_killed(kind, row, col).
func (h *LevelHooks) EnemyKilled(kind string, row, col int) {
	h.m.CallHook(h.level, HookEnemyKilled, lua.LString(kind), lua.LNumber(row), lua.LNumber(col)) //nolint:errcheck
}

// LevelComplete calls on_level_complete(summary) with the run statistics as
// a table.
func (h *LevelHooks) LevelComplete(s stats.Summary) {
	t, ok := h.summaryTable(s)
	if !ok {
		return
	}
	h.m.CallHook(h.level, HookLevelComplete, t) //nolint:errcheck
}

// summaryTable builds the summary table on the level's VM.
//
// Postcondition: the table is fully populated before the VM lock is
// released; ok is false when the level has no live VM.
func (h *LevelHooks) summaryTable(s stats.Summary) (*lua.LTable, bool) {
	h.m.mu.RLock()
	v, ok := h.m.levels[h.level]
	h.m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.L == nil {
		return nil, false
	}
	t := v.L.NewTable()
	for k, n := range map[string]int{
		"enemies_killed":  s.EnemiesKilled,
		"damage_dealt":    s.DamageDealt,
		"damage_taken":    s.DamageTaken,
		"rooms_cleared":   s.RoomsCleared,
		"bullets_fired":   s.BulletsFired,
		"bullets_hit":     s.BulletsHit,
		"items_collected": s.ItemsCollected,
		"coins":           s.Coins,
	} {
		t.RawSetString(k, lua.LNumber(n))
	}
	return t, true
}
