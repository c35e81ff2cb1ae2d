// Package skill provides skill templates loaded from content data and the
// leveled instances a combatant carries into an encounter.
package skill

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/shinobi/internal/game/condition"
	"github.com/cory-johannsen/shinobi/internal/game/element"
	"github.com/cory-johannsen/shinobi/internal/game/stats"
)

// Category decides in which turn phase a skill may be used.
type Category int

const (
	CategoryMain Category = iota
	CategoryToggle
	CategorySide
	CategoryPassive
)

// String returns the lowercase category name.
func (c Category) String() string {
	switch c {
	case CategoryMain:
		return "main"
	case CategoryToggle:
		return "toggle"
	case CategorySide:
		return "side"
	case CategoryPassive:
		return "passive"
	default:
		return "unknown"
	}
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty value decodes as CategoryMain.
func (c *Category) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "", "main":
		*c = CategoryMain
	case "toggle":
		*c = CategoryToggle
	case "side":
		*c = CategorySide
	case "passive":
		*c = CategoryPassive
	default:
		return fmt.Errorf("skill: unknown category %q", string(text))
	}
	return nil
}

// Skill is an immutable skill template.
type Skill struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Category    Category `yaml:"category"`
	ChakraCost  int      `yaml:"chakra_cost"`
	HPCost      int      `yaml:"hp_cost"`
	Cooldown    int      `yaml:"cooldown"`
	// UpkeepCost is the chakra an active toggle consumes at each owner upkeep.
	UpkeepCost int `yaml:"upkeep_cost"`

	Multiplier     float64              `yaml:"multiplier"`
	BaseDamage     float64              `yaml:"base_damage"`
	DamagePerLevel float64              `yaml:"damage_per_level"`
	Scaling        stats.Attribute      `yaml:"scaling"`
	DamageType     stats.DamageType     `yaml:"damage_type"`
	Property       stats.DamageProperty `yaml:"property"`
	Method         stats.Method         `yaml:"method"`
	Element        element.Element      `yaml:"element"`

	Effects    []*condition.Definition `yaml:"effects"`
	EffectRefs []string                `yaml:"effect_refs"`
	Passive    *condition.Passive      `yaml:"passive"`
}

// DisplayName returns Name, falling back to ID.
func (s *Skill) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}

// Damaging reports whether using s runs the damage pipeline.
func (s *Skill) Damaging() bool {
	return s.Multiplier > 0 || s.BaseDamage > 0 || s.DamagePerLevel > 0
}

// Validate checks s for content-authoring errors.
//
// Precondition: s must not be nil.
// Postcondition: Returns nil iff every field is in range; otherwise a joined
// error naming every violation.
func (s *Skill) Validate() error {
	var errs []error
	if s.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if s.ChakraCost < 0 || s.HPCost < 0 || s.Cooldown < 0 || s.UpkeepCost < 0 {
		errs = append(errs, errors.New("costs and cooldown must be >= 0"))
	}
	if s.Multiplier < 0 || s.BaseDamage < 0 || s.DamagePerLevel < 0 {
		errs = append(errs, errors.New("damage figures must be >= 0"))
	}
	if s.Multiplier > 0 && s.Scaling == stats.AttributeNone {
		errs = append(errs, errors.New("a damage multiplier requires a scaling attribute"))
	}
	if s.UpkeepCost > 0 && s.Category != CategoryToggle {
		errs = append(errs, errors.New("upkeep_cost is only valid on toggle skills"))
	}
	if s.Passive != nil && s.Category != CategoryPassive {
		errs = append(errs, errors.New("passive is only valid on passive skills"))
	}
	if s.Category == CategoryPassive && s.Damaging() {
		errs = append(errs, errors.New("passive skills cannot deal damage"))
	}
	for _, d := range s.Effects {
		if d == nil {
			errs = append(errs, errors.New("nil effect"))
			continue
		}
		if err := d.Validate(); err != nil {
			errs = append(errs, err)
		}
		if s.Category == CategoryToggle && d.Kind.IsInstant() {
			errs = append(errs, fmt.Errorf("toggle effect %q is instant", d.ID))
		}
	}
	if s.Passive != nil {
		if err := s.Passive.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("skill %q: %w", s.ID, errors.Join(errs...))
}

// BasicAttackID is the stable ID of the fallback attack every combatant can use.
const BasicAttackID = "basic_attack"

// BasicAttack returns the fallback attack: a free Physical/Normal/Melee
// strike scaling with strength.
func BasicAttack() *Skill {
	return &Skill{
		ID:         BasicAttackID,
		Name:       "Attack",
		Category:   CategoryMain,
		Multiplier: 1,
		Scaling:    stats.Strength,
		DamageType: stats.Physical,
		Property:   stats.Normal,
		Method:     stats.Melee,
	}
}
