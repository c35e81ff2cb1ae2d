// Package combat implements the turn controller for one-on-one encounters:
// the phase machine, skill validation, effect and passive resolution, and
// defeat detection.
package combat

import (
	"fmt"

	"github.com/cory-johannsen/shinobi/internal/game/condition"
	"github.com/cory-johannsen/shinobi/internal/game/element"
	"github.com/cory-johannsen/shinobi/internal/game/skill"
	"github.com/cory-johannsen/shinobi/internal/game/stats"
)

// Kind distinguishes player combatants from enemy combatants.
type Kind int

const (
	KindPlayer Kind = iota
	KindEnemy
)

// String returns "player" or "enemy".
func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindEnemy:
		return "enemy"
	default:
		return "unknown"
	}
}

// Combatant is one side of an encounter. Derived stats are never stored;
// call Stats for the current values.
type Combatant struct {
	ID        string
	Name      string
	Kind      Kind
	Primary   stats.PrimaryAttributes
	Equipment stats.Equipment
	Element   element.Element
	// Passives are the equipment passives in slot order.
	Passives []*condition.Passive
	Skills   []*skill.Instance
	HP       int
	Chakra   int
	Buffs    *condition.ActiveSet

	basic         *skill.Instance
	freeSkillUsed bool
}

// NewCombatant creates a combatant with full HP and chakra and an empty buff list.
//
// Precondition: id must not be empty.
// Postcondition: HP == MaxHP and Chakra == MaxChakra for the resolved stats.
func NewCombatant(id, name string, kind Kind, primary stats.PrimaryAttributes, equip stats.Equipment) *Combatant {
	if id == "" {
		panic("combat: NewCombatant requires an id")
	}
	c := &Combatant{
		ID:        id,
		Name:      name,
		Kind:      kind,
		Primary:   primary,
		Equipment: equip,
		Buffs:     condition.NewActiveSet(),
		basic:     skill.NewInstance(skill.BasicAttack(), 1),
	}
	c.Refill()
	return c
}

// AddSkill appends a skill instance in the order it should be listed.
//
// Precondition: inst must not be nil.
func (c *Combatant) AddSkill(inst *skill.Instance) {
	if inst == nil {
		panic("combat: AddSkill requires an instance")
	}
	c.Skills = append(c.Skills, inst)
}

// Skill returns the instance for id. Every combatant can use the basic attack
// even when it is not listed in Skills.
func (c *Combatant) Skill(id string) (*skill.Instance, bool) {
	for _, inst := range c.Skills {
		if inst.ID() == id {
			return inst, true
		}
	}
	if id == skill.BasicAttackID && c.basic != nil {
		return c.basic, true
	}
	return nil, false
}

// allSkills returns Skills followed by the implicit basic attack when it is not listed.
func (c *Combatant) allSkills() []*skill.Instance {
	out := make([]*skill.Instance, 0, len(c.Skills)+1)
	out = append(out, c.Skills...)
	for _, inst := range c.Skills {
		if inst.ID() == skill.BasicAttackID {
			return out
		}
	}
	if c.basic != nil {
		out = append(out, c.basic)
	}
	return out
}

// Modifiers returns the stat modifiers from active buffs followed by those
// of Passive-category skills.
func (c *Combatant) Modifiers() []stats.Modifier {
	mods := c.Buffs.Modifiers()
	for _, inst := range c.Skills {
		if inst.Skill.Category != skill.CategoryPassive {
			continue
		}
		for _, d := range inst.Skill.Effects {
			if m, ok := d.Modifier(); ok {
				mods = append(mods, m)
			}
		}
	}
	return mods
}

// Stats resolves the combatant's current effective attributes and derived stats.
func (c *Combatant) Stats() stats.Resolved {
	return stats.Resolve(c.Primary, c.Equipment, c.Modifiers())
}

// ActivePassives returns equipment passives in slot order followed by the
// passives of Passive-category skills in skill order.
func (c *Combatant) ActivePassives() []*condition.Passive {
	out := make([]*condition.Passive, 0, len(c.Passives))
	out = append(out, c.Passives...)
	for _, inst := range c.Skills {
		if inst.Skill.Category == skill.CategoryPassive && inst.Skill.Passive != nil {
			out = append(out, inst.Skill.Passive)
		}
	}
	return out
}

// IsDefeated reports whether the combatant is at 0 HP.
func (c *Combatant) IsDefeated() bool { return c.HP <= 0 }

// Refill restores HP and chakra to their maxima.
func (c *Combatant) Refill() {
	d := c.Stats().Derived
	c.HP, c.Chakra = d.MaxHP, d.MaxChakra
}

// clampPools keeps HP and chakra inside [0, max] after stats change.
func (c *Combatant) clampPools() {
	d := c.Stats().Derived
	c.HP = clampInt(c.HP, 0, d.MaxHP)
	c.Chakra = clampInt(c.Chakra, 0, d.MaxChakra)
}

// heal adds amount scaled by active curses and returns the HP actually gained.
//
// Precondition: amount >= 0.
func (c *Combatant) heal(amount int) int {
	scaled := int(float64(amount) * c.Buffs.HealingScale())
	before := c.HP
	c.HP = clampInt(c.HP+scaled, 0, c.Stats().Derived.MaxHP)
	return c.HP - before
}

// restoreChakra adds amount and returns the chakra actually gained.
func (c *Combatant) restoreChakra(amount int) int {
	before := c.Chakra
	c.Chakra = clampInt(c.Chakra+amount, 0, c.Stats().Derived.MaxChakra)
	return c.Chakra - before
}

// staticPassives returns active passives of kind k in evaluation order.
func (c *Combatant) staticPassives(k condition.PassiveKind) []*condition.Passive {
	var out []*condition.Passive
	for _, p := range c.ActivePassives() {
		if p.Kind == k {
			out = append(out, p)
		}
	}
	return out
}

// gutsChance is the derived guts chance plus every guts_bonus passive, capped below 1.
func (c *Combatant) gutsChance() float64 {
	chance := c.Stats().Derived.GutsChance
	for _, p := range c.staticPassives(condition.PassiveGutsBonus) {
		chance += p.Value
	}
	if chance >= 1 {
		return 0.999
	}
	return chance
}

// Snapshot is a read-only copy of a combatant's mutable state.
type Snapshot struct {
	ID        string
	Name      string
	HP        int
	MaxHP     int
	Chakra    int
	MaxChakra int
	Buffs     []condition.Buff
	Cooldowns map[string]int
	Toggles   []string
	Defeated  bool
}

// Snapshot copies c's current state.
func (c *Combatant) Snapshot() Snapshot {
	d := c.Stats().Derived
	s := Snapshot{
		ID:        c.ID,
		Name:      c.Name,
		HP:        c.HP,
		MaxHP:     d.MaxHP,
		Chakra:    c.Chakra,
		MaxChakra: d.MaxChakra,
		Buffs:     c.Buffs.Snapshot(),
		Cooldowns: make(map[string]int, len(c.Skills)),
		Defeated:  c.IsDefeated(),
	}
	for _, inst := range c.Skills {
		s.Cooldowns[inst.ID()] = inst.Cooldown
		if inst.Active {
			s.Toggles = append(s.Toggles, inst.ID())
		}
	}
	return s
}

// String renders a short status line such as "Naruto HP 120/170 CK 40/70".
func (s Snapshot) String() string {
	return fmt.Sprintf("%s HP %d/%d CK %d/%d", s.Name, s.HP, s.MaxHP, s.Chakra, s.MaxChakra)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
