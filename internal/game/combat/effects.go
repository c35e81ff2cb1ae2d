package combat

import (
	"github.com/cory-johannsen/shinobi/internal/game/condition"
	"github.com/cory-johannsen/shinobi/internal/game/damage"
)

// SourceID is the buff source key for effects created by c's skill or
// passive skillID. Keying by owner and stable ID keeps two combatants with
// the same skill from cancelling each other's buffs.
func SourceID(c *Combatant, skillID string) string {
	return c.ID + "/" + skillID
}

// applyEffect lands def on recipient. Harmful effects on an opponent land
// with probability chance × (1 − status resistance); a roll is drawn only
// when that probability is below 1.
func (e *Encounter) applyEffect(user, recipient *Combatant, def *condition.Definition, source string) {
	chance := def.ApplyChance()
	if def.Kind.IsHarmful() && recipient != user {
		chance *= 1 - recipient.Stats().Derived.StatusResistance
	}
	if chance < 1 && !e.rng.Chance("effect:"+def.ID, chance) {
		e.logf(SeverityInfo, "%s resists %s.", recipient.Name, def.DisplayName())
		return
	}

	switch def.Kind {
	case condition.KindHeal:
		gained := recipient.heal(int(def.Value))
		e.logf(SeveritySuccess, "%s recovers %d HP.", recipient.Name, gained)
	case condition.KindDrain:
		res := e.calc.Resolve(damage.Attack{
			Attacker:        user.Stats(),
			Defender:        recipient.Stats(),
			Skill:           dotSkill(def),
			Level:           1,
			AttackerElement: user.Element,
			DefenderElement: recipient.Element,
		})
		taken, guts := e.takeDamage(recipient, res.Final)
		res.GutsTriggered = guts
		e.record(res)
		gained := user.heal(taken)
		e.logf(SeverityWarning, "%s drains %d HP from %s and recovers %d.", user.Name, taken, recipient.Name, gained)
	default:
		b := recipient.Buffs.Apply(def, source)
		// Upkeep ticks come before the recipient acts.
		b.Held = recipient != e.Actor() && !def.Kind.IsPeriodic()
		sev := SeverityInfo
		if def.Kind.IsHarmful() {
			sev = SeverityWarning
		}
		e.logf(sev, "%s is affected by %s (%d turns).", recipient.Name, b.Name, b.Remaining)
	}
	recipient.clampPools()
}

// tickBuffs applies each buff's per-turn magnitude in application order and
// then expires durations.
func (e *Encounter) tickBuffs(c *Combatant) {
	for _, b := range c.Buffs.All() {
		switch k := b.Def.Kind; {
		case k.IsDoT():
			res := e.calc.Resolve(damage.Attack{
				Defender:        c.Stats(),
				Skill:           dotSkill(b.Def),
				Level:           1,
				DefenderElement: c.Element,
			})
			taken, guts := e.takeDamage(c, res.Final)
			res.GutsTriggered = guts
			e.record(res)
			e.logf(SeverityDanger, "%s takes %d damage from %s.", c.Name, taken, b.Name)
		case k == condition.KindRegen:
			if gained := c.heal(int(b.Def.Value)); gained > 0 {
				e.logf(SeveritySuccess, "%s regenerates %d HP from %s.", c.Name, gained, b.Name)
			}
		case k == condition.KindChakraRegen:
			if gained := c.restoreChakra(int(b.Def.Value)); gained > 0 {
				e.logf(SeverityInfo, "%s recovers %d chakra from %s.", c.Name, gained, b.Name)
			}
		}
	}
	for _, b := range c.Buffs.Tick() {
		e.logf(SeverityInfo, "%s's %s wears off.", c.Name, b.Name)
	}
	c.clampPools()
}
