package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/roguehammer/internal/game/dice"
)

// ErrNoScript is returned by LoadLevel when a level has no script file.
var ErrNoScript = errors.New("no script for level")

// vm is one level's Lua state. Calls into a state are serialized.
type vm struct {
	mu     sync.Mutex
	L      *lua.LState
	cancel func()
	limit  int
}

// Manager owns one sandboxed VM per level and dispatches hooks into it.
//
// Manager is safe for concurrent use.
type Manager struct {
	mu     sync.RWMutex
	levels map[string]*vm
	roller *dice.Roller
	logger *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: roller and logger must be non-nil.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	if roller == nil {
		panic("scripting.NewManager: roller must not be nil")
	}
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		levels: make(map[string]*vm),
		roller: roller,
		logger: logger,
	}
}

// LoadLevel loads <scriptDir>/<level>.lua into a fresh VM for level.
//
// Postcondition: returns an error wrapping ErrNoScript when the file does
// not exist, or the Lua load error; a previous VM for level is replaced only
// on success.
func (m *Manager) LoadLevel(level, scriptDir string, instLimit int) error {
	path := filepath.Join(scriptDir, level+".lua")
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("scripting: %q: %w", path, ErrNoScript)
		}
		return fmt.Errorf("scripting: %q: %w", path, err)
	}
	return m.load(level, instLimit, func(L *lua.LState) error { return L.DoFile(path) })
}

// LoadLevelString loads Lua source for level.
func (m *Manager) LoadLevelString(level, src string, instLimit int) error {
	return m.load(level, instLimit, func(L *lua.LState) error { return L.DoString(src) })
}

func (m *Manager) load(level string, instLimit int, run func(*lua.LState) error) error {
	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L, level)
	if err := run(L); err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: loading level %q: %w", level, err)
	}

	next := &vm{L: L, cancel: cancel, limit: instLimit}
	m.mu.Lock()
	old := m.levels[level]
	m.levels[level] = next
	m.mu.Unlock()
	if old != nil {
		old.close()
	}
	m.logger.Debug("level script loaded", zap.String("level", level))
	return nil
}

// Loaded reports whether level has a VM.
func (m *Manager) Loaded(level string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.levels[level]
	return ok
}

// CallHook calls the global Lua function hook in level's VM with a fresh
// instruction budget. It returns (LNil, nil) when the level has no VM or the
// hook is undefined. Lua runtime errors are logged at Warn and never
// propagated.
//
// Postcondition: returns the hook's first return value, or LNil.
func (m *Manager) CallHook(level, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	v, ok := m.levels[level]
	m.mu.RUnlock()
	if !ok {
		return lua.LNil, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.L == nil {
		return lua.LNil, nil
	}
	fn := v.L.GetGlobal(hook)
	if fn.Type() != lua.LTFunction {
		return lua.LNil, nil
	}

	v.cancel()
	v.cancel = rearm(v.L, v.limit)
	if err := v.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("level", level),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}
	ret := v.L.Get(-1)
	v.L.Pop(1)
	return ret, nil
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	levels := m.levels
	m.levels = make(map[string]*vm)
	m.mu.Unlock()
	for _, v := range levels {
		v.close()
	}
}

func (v *vm) close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.L == nil {
		return
	}
	v.cancel()
	v.L.Close()
	v.L = nil
}
