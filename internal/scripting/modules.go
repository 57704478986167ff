package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/roguehammer/internal/game/dice"
)

// RegisterModules installs the engine table into L:
//
//	engine.log.debug|info|warn|error(msg)
//	engine.dice.roll(expr)      -> total
//	engine.dice.between(lo, hi) -> int
//
// Precondition: L must come from NewSandboxedState.
func (m *Manager) RegisterModules(L *lua.LState, level string) {
	logger := m.logger.With(zap.String("level", level), zap.String("source", "lua"))

	engine := L.NewTable()
	L.SetGlobal("engine", engine)

	logTable := L.NewTable()
	for name, fn := range map[string]func(string, ...zap.Field){
		"debug": logger.Debug,
		"info":  logger.Info,
		"warn":  logger.Warn,
		"error": logger.Error,
	} {
		L.SetField(logTable, name, L.NewFunction(func(L *lua.LState) int {
			fn(L.CheckString(1))
			return 0
		}))
	}
	L.SetField(engine, "log", logTable)

	diceTable := L.NewTable()
	L.SetField(diceTable, "roll", L.NewFunction(func(L *lua.LState) int {
		expr, err := dice.Parse(L.CheckString(1))
		if err != nil {
			L.RaiseError("engine.dice.roll: %s", err.Error())
			return 0
		}
		L.Push(lua.LNumber(m.roller.Roll(expr).Total()))
		return 1
	}))
	L.SetField(diceTable, "between", L.NewFunction(func(L *lua.LState) int {
		lo, hi := L.CheckInt(1), L.CheckInt(2)
		if hi < lo {
			L.ArgError(2, "must be >= lo")
			return 0
		}
		L.Push(lua.LNumber(m.roller.Between("lua", lo, hi)))
		return 1
	}))
	L.SetField(engine, "dice", diceTable)
}
