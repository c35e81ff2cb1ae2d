package roster

import (
	"fmt"

	"github.com/cory-johannsen/shinobi/internal/game/combat"
	"github.com/cory-johannsen/shinobi/internal/game/element"
	"github.com/cory-johannsen/shinobi/internal/game/skill"
)

// Build creates a live combatant from tmpl with full HP and chakra.
// id distinguishes several combatants built from one template; empty uses
// the template ID.
//
// Precondition: tmpl must be validated; skills and elements must not be nil.
// Postcondition: returns an error if a skill or element reference is unknown.
func Build(tmpl *Template, id string, skills *skill.Registry, elements *element.Table) (*combat.Combatant, error) {
	if id == "" {
		id = tmpl.ID
	}
	if !elements.Known(tmpl.Element) {
		return nil, fmt.Errorf("template %q: unknown element %q", tmpl.ID, tmpl.Element)
	}
	for _, p := range tmpl.Passives {
		if !elements.Known(p.Element) {
			return nil, fmt.Errorf("template %q: passive %q: unknown element %q", tmpl.ID, p.ID, p.Element)
		}
	}

	kind := combat.KindEnemy
	if tmpl.Kind == "player" {
		kind = combat.KindPlayer
	}
	c := combat.NewCombatant(id, tmpl.Name, kind, tmpl.Attributes, tmpl.Equipment)
	c.Element = tmpl.Element
	c.Passives = append(c.Passives, tmpl.Passives...)
	for _, ref := range tmpl.Skills {
		s, ok := skills.Get(ref.ID)
		if !ok {
			return nil, fmt.Errorf("template %q: unknown skill %q", tmpl.ID, ref.ID)
		}
		if !elements.Known(s.Element) {
			return nil, fmt.Errorf("template %q: skill %q: unknown element %q", tmpl.ID, s.ID, s.Element)
		}
		level := ref.Level
		if level == 0 {
			level = 1
		}
		c.AddSkill(skill.NewInstance(s, level))
	}
	// Passive-category skills can raise max HP or chakra.
	c.Refill()
	return c, nil
}
