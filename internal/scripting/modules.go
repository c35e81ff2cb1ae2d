package scripting

import (
	"sort"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers the engine.log, engine.dice, and engine.combat
// Lua tables into L.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "log", m.logModule(L))
	L.SetField(engine, "dice", m.diceModule(L))
	L.SetField(engine, "combat", m.combatModule(L))
	L.SetGlobal("engine", engine)
}

func (m *Manager) logModule(L *lua.LState) *lua.LTable {
	t := L.NewTable()
	levels := map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	}
	for name, fn := range levels {
		L.SetField(t, name, L.NewFunction(func(L *lua.LState) int {
			fn("lua: " + L.CheckString(1))
			return 0
		}))
	}
	return t
}

func (m *Manager) diceModule(L *lua.LState) *lua.LTable {
	t := L.NewTable()
	// engine.dice.chance(p [, label]) → bool
	L.SetField(t, "chance", L.NewFunction(func(L *lua.LState) int {
		p := float64(L.CheckNumber(1))
		label := L.OptString(2, "lua")
		L.Push(lua.LBool(m.roller.Chance(label, p)))
		return 1
	}))
	// engine.dice.percent(pct [, label]) → bool, pct in 0-100
	L.SetField(t, "percent", L.NewFunction(func(L *lua.LState) int {
		pct := float64(L.CheckNumber(1))
		label := L.OptString(2, "lua")
		L.Push(lua.LBool(m.roller.Percent(label, pct)))
		return 1
	}))
	// engine.dice.random() → [0, 1)
	L.SetField(t, "random", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(m.roller.Float64()))
		return 1
	}))
	return t
}

func (m *Manager) combatModule(L *lua.LState) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "query_combatant", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		if m.GetCombatant == nil {
			L.Push(lua.LNil)
			return 1
		}
		info := m.GetCombatant(id)
		if info == nil {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(CombatantToTable(L, info))
		return 1
	}))
	return t
}

// CombatantToTable converts info into a Lua table with fields id, name,
// kind, hp, max_hp, chakra, max_chakra, buffs (array of names), and
// cooldowns (skill id → turns).
func CombatantToTable(L *lua.LState, info *CombatantInfo) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "id", lua.LString(info.ID))
	L.SetField(t, "name", lua.LString(info.Name))
	L.SetField(t, "kind", lua.LString(info.Kind))
	L.SetField(t, "hp", lua.LNumber(info.HP))
	L.SetField(t, "max_hp", lua.LNumber(info.MaxHP))
	L.SetField(t, "chakra", lua.LNumber(info.Chakra))
	L.SetField(t, "max_chakra", lua.LNumber(info.MaxChakra))

	buffs := L.NewTable()
	for _, b := range info.Buffs {
		buffs.Append(lua.LString(b))
	}
	L.SetField(t, "buffs", buffs)

	cds := L.NewTable()
	ids := make([]string, 0, len(info.Cooldowns))
	for id := range info.Cooldowns {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		L.SetField(cds, id, lua.LNumber(info.Cooldowns[id]))
	}
	L.SetField(t, "cooldowns", cds)
	return t
}
