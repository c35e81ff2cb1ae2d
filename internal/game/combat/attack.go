package combat

import (
	"github.com/cory-johannsen/shinobi/internal/game/condition"
	"github.com/cory-johannsen/shinobi/internal/game/damage"
	"github.com/cory-johannsen/shinobi/internal/game/skill"
	"github.com/cory-johannsen/shinobi/internal/game/stats"
)

// hitContext carries what a landed hit's passives decided before HP changes.
type hitContext struct {
	damage    int
	lifesteal float64
	reflect   float64
	executeAt float64
	counter   *condition.Passive
}

// resolveSkill runs the damage pipeline for a damaging skill and then its
// effects. Enemy-targeted effects need the attack to land; self-targeted
// effects always apply.
func (e *Encounter) resolveSkill(user, target *Combatant, inst *skill.Instance, mods damage.Modifiers) {
	s := inst.Skill
	landed := true
	if s.Damaging() {
		res := e.attack(user, target, s, inst.Level, mods, target != user)
		landed = res.Landed()
	}
	for _, def := range s.Effects {
		recipient := target
		if def.Target == condition.TargetSelf {
			recipient = user
		} else if !landed {
			continue
		}
		if recipient.IsDefeated() {
			continue
		}
		e.applyEffect(user, recipient, def, SourceID(user, s.ID))
	}
}

// attack resolves s from att against def and applies the damage. When
// reactive is true, on-hit passives, reflect, and counter-attacks are
// evaluated; follow-up attacks they cause are never reactive, which bounds
// every exchange to one re-entry into the calculator.
func (e *Encounter) attack(att, def *Combatant, s *skill.Skill, level int, mods damage.Modifiers, reactive bool) damage.Result {
	res := e.calc.Resolve(damage.Attack{
		Attacker:        att.Stats(),
		Defender:        def.Stats(),
		Skill:           s,
		Level:           level,
		AttackerElement: att.Element,
		DefenderElement: def.Element,
		Modifiers:       attackModifiers(att, mods),
	})
	if !res.Landed() {
		e.record(res)
		verb := "misses"
		if res.IsEvaded {
			verb = "is evaded by"
		}
		e.logf(SeverityInfo, "%s's %s %s %s.", att.Name, s.DisplayName(), verb, def.Name)
		return res
	}

	hit := &hitContext{damage: res.Final}
	if reactive {
		e.evaluateHit(att, def, res.IsCrit, hit)
	}
	taken, guts := e.takeDamage(def, hit.damage)
	res.GutsTriggered = guts
	e.record(res)
	sev := SeverityInfo
	if res.IsCrit {
		sev = SeverityWarning
		e.logf(sev, "Critical hit!")
	}
	e.logf(sev, "%s's %s hits %s for %d %s damage.", att.Name, s.DisplayName(), def.Name, taken, res.DamageType)
	if reactive {
		e.afterHit(att, def, hit, taken)
	}
	return res
}

// attackModifiers folds the attacker's static offensive passives into mods.
func attackModifiers(att *Combatant, mods damage.Modifiers) damage.Modifiers {
	for _, p := range att.ActivePassives() {
		switch p.Kind {
		case condition.PassivePierceDefense:
			mods.DefensePierce += p.Value
		case condition.PassiveConvertToElemental:
			mods.ConvertToElemental = true
			if mods.Element == "" {
				mods.Element = p.Element
			}
		case condition.PassiveElementOverride:
			if mods.Element == "" {
				mods.Element = p.Element
			}
		}
	}
	return mods
}

// takeDamage applies invulnerability, shields, and guts, in that order.
//
// Postcondition: taken is the HP actually lost.
func (e *Encounter) takeDamage(c *Combatant, amount int) (taken int, guts bool) {
	if amount <= 0 {
		return 0, false
	}
	if c.Buffs.HasKind(condition.KindInvulnerable) {
		e.logf(SeverityInfo, "%s is invulnerable.", c.Name)
		return 0, false
	}
	remaining, absorbed := c.Buffs.Absorb(amount)
	if absorbed > 0 {
		e.logf(SeverityInfo, "%s's shield absorbs %d damage.", c.Name, absorbed)
	}
	before := c.HP
	c.HP, guts = damage.Intercept(c.HP, remaining, c.gutsChance(), e.rng)
	if guts {
		e.logf(SeverityWarning, "%s refuses to fall and hangs on with 1 HP!", c.Name)
	}
	return before - c.HP, guts
}

// afterHit applies what the hit's passives and reflect buffs decided.
func (e *Encounter) afterHit(att, def *Combatant, hit *hitContext, taken int) {
	if hit.executeAt > 0 && !def.IsDefeated() &&
		float64(def.HP) <= hit.executeAt*float64(def.Stats().Derived.MaxHP) {
		def.HP = 0
		e.logf(SeverityDanger, "%s executes %s!", att.Name, def.Name)
	}
	if hit.lifesteal > 0 && taken > 0 {
		if gained := att.heal(int(float64(taken) * hit.lifesteal)); gained > 0 {
			e.logf(SeveritySuccess, "%s drains %d HP.", att.Name, gained)
		}
	}
	frac := hit.reflect + def.Buffs.ReflectFraction()
	if frac > 1 {
		frac = 1
	}
	if amount := int(float64(hit.damage) * frac); amount > 0 && !att.IsDefeated() {
		e.reflect(def, att, amount)
	}
	if hit.counter != nil && !def.IsDefeated() && !att.IsDefeated() {
		e.logf(SeverityInfo, "%s counter-attacks!", def.Name)
		e.attack(def, att, counterSkill(hit.counter), 1, damage.Modifiers{}, false)
	}
	if def.IsDefeated() {
		e.firePassives(att, def, condition.TriggerOnKill)
	}
}

// reflect returns amount as True Auto damage from owner to target.
func (e *Encounter) reflect(owner, target *Combatant, amount int) {
	res := e.calc.Resolve(damage.Attack{
		Attacker: owner.Stats(),
		Defender: target.Stats(),
		Skill: &skill.Skill{
			ID:         "reflect",
			Name:       "Reflect",
			BaseDamage: float64(amount),
			DamageType: stats.TrueDamage,
			Property:   stats.TrueProperty,
			Method:     stats.Auto,
		},
		Level: 1,
	})
	taken, guts := e.takeDamage(target, res.Final)
	res.GutsTriggered = guts
	e.record(res)
	e.logf(SeverityInfo, "%s reflects %d damage back at %s.", owner.Name, taken, target.Name)
}

// counterSkill is the strike a counter_attack passive performs. Its
// multiplier is the passive's value, defaulting to 1.
func counterSkill(p *condition.Passive) *skill.Skill {
	mult := p.Value
	if mult <= 0 {
		mult = 1
	}
	return &skill.Skill{
		ID:         p.ID,
		Name:       p.DisplayName(),
		Category:   skill.CategoryMain,
		Multiplier: mult,
		Scaling:    stats.Strength,
		DamageType: stats.Physical,
		Property:   stats.Normal,
		Method:     stats.Melee,
	}
}

// dotSkill is the synthetic Auto skill a DoT or drain effect deals damage with.
func dotSkill(def *condition.Definition) *skill.Skill {
	return &skill.Skill{
		ID:         def.ID,
		Name:       def.DisplayName(),
		BaseDamage: def.Value,
		DamageType: def.DamageType,
		Property:   def.Property,
		Method:     stats.Auto,
	}
}
