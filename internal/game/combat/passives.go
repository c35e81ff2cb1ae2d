package combat

import (
	"fmt"
	"math"

	"github.com/cory-johannsen/shinobi/internal/game/condition"
)

// evaluateHit runs the passives of a landed hit before HP changes: the
// attacker's offensive on_hit (and on_crit) passives first, then the
// defender's defensive passives, each in slot order.
func (e *Encounter) evaluateHit(att, def *Combatant, crit bool, hit *hitContext) {
	for _, p := range att.ActivePassives() {
		if p.Kind.Defensive() || p.Kind.Static() || !hitTriggered(p.Trigger, crit) {
			continue
		}
		e.firePassive(att, def, p, hit)
	}
	for _, p := range def.ActivePassives() {
		if !p.Kind.Defensive() || p.Kind == condition.PassiveGutsBonus {
			continue
		}
		if !p.Kind.Static() && !hitTriggered(p.Trigger, crit) {
			continue
		}
		e.firePassive(def, att, p, hit)
	}
}

// hitTriggered reports whether a passive with trigger t reacts to a landed
// hit. Always-passives react to every hit.
func hitTriggered(t condition.Trigger, crit bool) bool {
	switch t {
	case condition.TriggerAlways, condition.TriggerOnHit:
		return true
	case condition.TriggerOnCrit:
		return crit
	default:
		return false
	}
}

// firePassives fires owner's non-static passives declared with trigger.
func (e *Encounter) firePassives(owner, opp *Combatant, trigger condition.Trigger) {
	for _, p := range owner.ActivePassives() {
		if p.Trigger != trigger || p.Kind.Static() {
			continue
		}
		e.firePassive(owner, opp, p, nil)
	}
}

// firePassive rolls p's chance and applies it. hit is nil outside of a
// landed attack; kinds that only make sense on a hit then do nothing.
func (e *Encounter) firePassive(owner, opp *Combatant, p *condition.Passive, hit *hitContext) {
	if chance := p.FireChance(); chance < 1 && !e.rng.Chance("passive:"+p.ID, chance) {
		return
	}
	switch p.Kind {
	case condition.PassiveBleed, condition.PassiveBurn, condition.PassiveSealChance,
		condition.PassiveRegen, condition.PassiveShieldOnStart:
		def, _ := p.EffectDefinition()
		recipient := opp
		if def.Target == condition.TargetSelf {
			recipient = owner
		}
		if def.Kind == condition.KindShield && def.Duration == 0 {
			recipient.Buffs.ApplyPersistent(def, SourceID(owner, p.ID))
			e.logf(SeverityInfo, "%s is shielded by %s.", recipient.Name, p.DisplayName())
			return
		}
		e.applyEffect(owner, recipient, def, SourceID(owner, p.ID))
	case condition.PassiveChakraDrain:
		n := int(math.Min(p.Value, float64(opp.Chakra)))
		opp.Chakra -= n
		gained := owner.restoreChakra(n)
		e.logf(SeverityInfo, "%s's %s drains %d chakra from %s (recovers %d).", owner.Name, p.DisplayName(), n, opp.Name, gained)
	case condition.PassiveRestore:
		if gained := owner.heal(int(p.Value)); gained > 0 {
			e.logf(SeveritySuccess, "%s's %s restores %d HP.", owner.Name, p.DisplayName(), gained)
		}
	case condition.PassiveCooldownResetOnKill:
		for _, inst := range owner.Skills {
			inst.ResetCooldown()
		}
		e.logf(SeverityInfo, "%s's cooldowns are reset by %s.", owner.Name, p.DisplayName())
	case condition.PassiveLifesteal:
		if hit != nil {
			hit.lifesteal += p.Value
		}
	case condition.PassiveReflect:
		if hit != nil {
			hit.reflect += p.Value
		}
	case condition.PassiveCounterAttack:
		if hit != nil && hit.counter == nil {
			hit.counter = p
		}
	case condition.PassiveExecuteThreshold:
		if hit != nil {
			hit.executeAt = math.Max(hit.executeAt, p.Value)
		}
	case condition.PassiveDamageReduction:
		if hit != nil && hit.damage > 0 {
			reduced := int(float64(hit.damage) * (1 - math.Min(p.Value, 1)))
			e.logf(SeverityInfo, "%s's %s reduces the blow by %d.", owner.Name, p.DisplayName(), hit.damage-reduced)
			hit.damage = reduced
		}
	case condition.PassiveInvulnerableFirstTurn:
		if hit != nil && hit.damage > 0 && e.round == 1 {
			e.logf(SeverityInfo, "%s's %s negates the blow.", owner.Name, p.DisplayName())
			hit.damage = 0
		}
	case condition.PassiveGutsBonus, condition.PassivePierceDefense, condition.PassiveConvertToElemental,
		condition.PassiveFreeFirstSkill, condition.PassiveElementOverride:
		// consulted while the action is set up
	default:
		panic(fmt.Sprintf("combat: passive %q has invalid kind %d", p.ID, int(p.Kind)))
	}
}
