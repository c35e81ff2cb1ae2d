package combat

import (
	"github.com/cory-johannsen/shinobi/internal/game/condition"
	"github.com/cory-johannsen/shinobi/internal/game/damage"
	"github.com/cory-johannsen/shinobi/internal/game/skill"
)

// Policy drives an automated turn. ChooseSide is asked again after every
// side action until it declines or the side-action budget is spent; then
// ChooseSkill picks the Main-category skill.
type Policy interface {
	// ChooseSide returns the ID of one of usable, the Side and Toggle skills
	// c could use right now, or "" to move on to the main phase. An ID
	// outside usable also ends the side phase.
	//
	// Precondition: usable is non-empty.
	ChooseSide(self, opponent *Combatant, usable []*skill.Instance) string

	// ChooseSkill returns the ID of one of usable. An ID outside usable, or
	// the empty string, falls back to the basic attack.
	//
	// Precondition: usable is non-empty.
	ChooseSkill(self, opponent *Combatant, usable []*skill.Instance) string
}

// BasicPolicy uses the damaging skill with the highest raw damage, and the
// first usable skill when none deals damage. In the side phase it heals
// below half HP, activates toggles it can keep paying for, and casts lasting
// effects that are not already up.
type BasicPolicy struct{}

// ChooseSide implements Policy.
func (BasicPolicy) ChooseSide(self, opponent *Combatant, usable []*skill.Instance) string {
	if self.HP*2 < self.Stats().Derived.MaxHP {
		for _, inst := range usable {
			if restores(inst.Skill) {
				return inst.ID()
			}
		}
	}
	for _, inst := range usable {
		s := inst.Skill
		switch {
		case s.Category == skill.CategoryToggle:
			if !inst.Active && self.Chakra-s.ChakraCost >= s.UpkeepCost {
				return inst.ID()
			}
		case lasting(s):
			src := SourceID(self, inst.ID())
			if self.Buffs.CountBySource(src)+opponent.Buffs.CountBySource(src) == 0 {
				return inst.ID()
			}
		}
	}
	return ""
}

// restores reports whether s heals its user.
func restores(s *skill.Skill) bool {
	for _, d := range s.Effects {
		switch d.Kind {
		case condition.KindHeal, condition.KindRegen:
			if d.Target == condition.TargetSelf {
				return true
			}
		case condition.KindDrain:
			return true
		}
	}
	return false
}

// lasting reports whether s leaves at least one buff behind.
func lasting(s *skill.Skill) bool {
	for _, d := range s.Effects {
		if !d.Kind.IsInstant() {
			return true
		}
	}
	return false
}

// ChooseSkill implements Policy.
func (BasicPolicy) ChooseSkill(self, _ *Combatant, usable []*skill.Instance) string {
	best, bestDmg := "", -1.0
	for _, inst := range usable {
		if !inst.Skill.Damaging() {
			continue
		}
		if dmg := damage.RawDamage(inst.Skill, inst.Level, self.Stats().Effective); dmg > bestDmg {
			best, bestDmg = inst.ID(), dmg
		}
	}
	if best == "" && len(usable) > 0 {
		return usable[0].ID()
	}
	return best
}

// PolicyFunc adapts a Main-skill choice function to Policy. It never uses
// side actions.
type PolicyFunc func(self, opponent *Combatant, usable []*skill.Instance) string

// ChooseSide implements Policy.
func (f PolicyFunc) ChooseSide(_, _ *Combatant, _ []*skill.Instance) string { return "" }

// ChooseSkill implements Policy.
func (f PolicyFunc) ChooseSkill(self, opponent *Combatant, usable []*skill.Instance) string {
	return f(self, opponent, usable)
}
