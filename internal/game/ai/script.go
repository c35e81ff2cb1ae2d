// Package ai provides enemy skill-choice policies: the built-in basic policy
// and Lua-scripted policies driven by a choose_skill hook.
package ai

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/shinobi/internal/game/combat"
	"github.com/cory-johannsen/shinobi/internal/game/damage"
	"github.com/cory-johannsen/shinobi/internal/game/skill"
	"github.com/cory-johannsen/shinobi/internal/scripting"
)

// ChooseSkillHook is the Lua global a script set defines to pick a skill:
//
//	function choose_skill(self, opponent, usable, phase) return "skill_id" end
//
// self and opponent are combatant tables (see scripting.CombatantToTable);
// usable is an array of {id, name, category, chakra_cost, upkeep_cost,
// cooldown, max_cooldown, active, damage} tables where cooldown is the turns
// left before the skill is ready. phase is PhaseSide when usable holds the
// Side and Toggle skills, called after every side action, and PhaseMain for
// the Main-category choice. Returning false in the side phase moves on to
// the main phase; nil or an unknown ID defers to the fallback policy.
const ChooseSkillHook = "choose_skill"

// Phase names passed to ChooseSkillHook.
const (
	PhaseSide = "side"
	PhaseMain = "main"
)

// ScriptPolicy is a combat.Policy backed by a Lua script set.
type ScriptPolicy struct {
	scripts  *scripting.Manager
	key      string
	fallback combat.Policy
	logger   *zap.Logger
}

// NewScriptPolicy creates a policy calling choose_skill in the script set key.
//
// Precondition: scripts must not be nil; a nil fallback selects combat.BasicPolicy.
func NewScriptPolicy(scripts *scripting.Manager, key string, fallback combat.Policy, logger *zap.Logger) *ScriptPolicy {
	if scripts == nil {
		panic("ai: NewScriptPolicy requires a script manager")
	}
	if fallback == nil {
		fallback = combat.BasicPolicy{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScriptPolicy{scripts: scripts, key: key, fallback: fallback, logger: logger}
}

// ChooseSide implements combat.Policy.
func (p *ScriptPolicy) ChooseSide(self, opponent *combat.Combatant, usable []*skill.Instance) string {
	ret := p.call(self, opponent, usable, PhaseSide)
	if ret == lua.LFalse {
		return ""
	}
	if id, ok := p.pick(ret, usable); ok {
		return id
	}
	return p.fallback.ChooseSide(self, opponent, usable)
}

// ChooseSkill implements combat.Policy.
func (p *ScriptPolicy) ChooseSkill(self, opponent *combat.Combatant, usable []*skill.Instance) string {
	if id, ok := p.pick(p.call(self, opponent, usable, PhaseMain), usable); ok {
		return id
	}
	return p.fallback.ChooseSkill(self, opponent, usable)
}

func (p *ScriptPolicy) call(self, opponent *combat.Combatant, usable []*skill.Instance, phase string) lua.LValue {
	ret, err := p.scripts.Call(p.key, ChooseSkillHook, func(L *lua.LState) []lua.LValue {
		return []lua.LValue{
			scripting.CombatantToTable(L, Info(self)),
			scripting.CombatantToTable(L, Info(opponent)),
			usableTable(L, self, usable),
			lua.LString(phase),
		}
	})
	if err != nil {
		return lua.LNil
	}
	return ret
}

// pick resolves a hook result to one of usable.
func (p *ScriptPolicy) pick(ret lua.LValue, usable []*skill.Instance) (string, bool) {
	id, ok := ret.(lua.LString)
	if !ok {
		return "", false
	}
	for _, inst := range usable {
		if inst.ID() == string(id) {
			return inst.ID(), true
		}
	}
	p.logger.Debug("ai: script chose unusable skill",
		zap.String("script", p.key),
		zap.String("skill", string(id)),
	)
	return "", false
}

// Info snapshots c for Lua.
func Info(c *combat.Combatant) *scripting.CombatantInfo {
	snap := c.Snapshot()
	info := &scripting.CombatantInfo{
		ID:        snap.ID,
		Name:      snap.Name,
		Kind:      c.Kind.String(),
		HP:        snap.HP,
		MaxHP:     snap.MaxHP,
		Chakra:    snap.Chakra,
		MaxChakra: snap.MaxChakra,
		Cooldowns: snap.Cooldowns,
	}
	for _, b := range snap.Buffs {
		info.Buffs = append(info.Buffs, b.Name)
	}
	return info
}

func usableTable(L *lua.LState, self *combat.Combatant, usable []*skill.Instance) *lua.LTable {
	t := L.NewTable()
	eff := self.Stats().Effective
	for _, inst := range usable {
		row := L.NewTable()
		L.SetField(row, "id", lua.LString(inst.ID()))
		L.SetField(row, "name", lua.LString(inst.Skill.DisplayName()))
		L.SetField(row, "category", lua.LString(inst.Skill.Category.String()))
		L.SetField(row, "chakra_cost", lua.LNumber(inst.Skill.ChakraCost))
		L.SetField(row, "upkeep_cost", lua.LNumber(inst.Skill.UpkeepCost))
		L.SetField(row, "cooldown", lua.LNumber(inst.Cooldown))
		L.SetField(row, "max_cooldown", lua.LNumber(inst.Skill.Cooldown))
		L.SetField(row, "active", lua.LBool(inst.Active))
		L.SetField(row, "damage", lua.LNumber(damage.RawDamage(inst.Skill, inst.Level, eff)))
		t.Append(row)
	}
	return t
}
