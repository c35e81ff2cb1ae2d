package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/shinobi/internal/game/condition"
	"github.com/cory-johannsen/shinobi/internal/game/skill"
)

// activateToggle applies every effect of inst as a persistent buff keyed by
// SourceID(c, inst.ID()). Costs are paid by the caller.
//
// Postcondition: inst.Active is true and exactly len(Effects) buffs carry the toggle's source.
func (e *Encounter) activateToggle(c *Combatant, inst *skill.Instance) {
	opp := e.opponent(c)
	src := SourceID(c, inst.ID())
	for _, def := range inst.Skill.Effects {
		recipient := c
		if def.Target == condition.TargetEnemy {
			recipient = opp
		}
		recipient.Buffs.ApplyPersistent(def, src)
	}
	inst.Active = true
	e.logf(SeverityInfo, "%s activates %s.", c.Name, inst.Skill.DisplayName())
}

// deactivateToggle removes every buff the toggle created on either side.
// Nothing is refunded.
func (e *Encounter) deactivateToggle(c *Combatant, inst *skill.Instance) {
	src := SourceID(c, inst.ID())
	removed := len(c.Buffs.RemoveBySource(src)) + len(e.opponent(c).Buffs.RemoveBySource(src))
	inst.Active = false
	c.clampPools()
	e.opponent(c).clampPools()
	e.logger.Debug("toggle deactivated",
		zap.String("actor", c.ID),
		zap.String("skill", inst.ID()),
		zap.Int("removed", removed),
	)
}

// payToggleUpkeep charges each active toggle its upkeep cost in skill order.
// A toggle that cannot be paid is deactivated.
func (e *Encounter) payToggleUpkeep(c *Combatant) {
	for _, inst := range c.Skills {
		cost := inst.Skill.UpkeepCost
		if !inst.Active || cost == 0 {
			continue
		}
		if c.Chakra >= cost {
			c.Chakra -= cost
			continue
		}
		e.deactivateToggle(c, inst)
		e.logf(SeverityWarning, "%s cannot sustain %s and it fades.", c.Name, inst.Skill.DisplayName())
		e.logger.Warn("toggle upkeep unpaid",
			zap.String("actor", c.ID),
			zap.String("skill", inst.ID()),
			zap.Int("cost", cost),
			zap.Int("chakra", c.Chakra),
		)
	}
}
