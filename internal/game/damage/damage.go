// Package damage resolves one attack into a Result: hit and evasion
// checks, raw damage, elemental effectiveness, defense mitigation, and
// critical hits. Guts interception is applied by the caller with Intercept.
package damage

import (
	"fmt"
	"math"

	"github.com/cory-johannsen/shinobi/internal/game/element"
	"github.com/cory-johannsen/shinobi/internal/game/skill"
	"github.com/cory-johannsen/shinobi/internal/game/stats"
)

// Roller performs labelled probability checks. *dice.Roller satisfies it.
type Roller interface {
	Chance(label string, chance float64) bool
}

// Modifiers adjust a single attack. The zero value changes nothing.
type Modifiers struct {
	// Scale multiplies raw damage. Zero is treated as 1.
	Scale float64
	// DefensePierce is the fraction in [0,1] of the defender's flat and
	// percent defense the attack ignores.
	DefensePierce float64
	// Element replaces the skill's element tag when set.
	Element element.Element
	// ConvertToElemental resolves Physical attacks as Elemental.
	ConvertToElemental bool
	// ElementalOverride forces the elemental multiplier when > 0, including
	// for True damage.
	ElementalOverride float64
}

// Attack is the input to Resolve.
type Attack struct {
	Attacker stats.Resolved
	Defender stats.Resolved
	Skill    *skill.Skill
	// Level is the skill instance level; values below 1 are treated as 1.
	Level           int
	AttackerElement element.Element
	DefenderElement element.Element
	Modifiers       Modifiers
}

// Result describes one resolved attack. Reduction figures are in damage points.
type Result struct {
	SkillID             string
	DamageType          stats.DamageType
	Element             element.Element
	HitChance           float64 // percent
	Raw                 float64
	ElementalMultiplier float64
	FlatReduction       float64
	PercentReduction    float64
	CritMultiplier      float64
	Final               int
	IsMiss              bool
	IsEvaded            bool
	IsCrit              bool
	GutsTriggered       bool
}

// Landed reports whether the attack connected.
func (r Result) Landed() bool {
	return !r.IsMiss && !r.IsEvaded
}

// String renders r for combat logs.
func (r Result) String() string {
	switch {
	case r.IsMiss:
		return "missed"
	case r.IsEvaded:
		return "evaded"
	case r.IsCrit:
		return fmt.Sprintf("%d %s damage (critical)", r.Final, r.DamageType)
	default:
		return fmt.Sprintf("%d %s damage", r.Final, r.DamageType)
	}
}

// Calculator resolves attacks against an element table with an injected Roller.
type Calculator struct {
	elements *element.Table
	rng      Roller
}

// NewCalculator creates a Calculator.
//
// Precondition: elements and rng must be non-nil.
func NewCalculator(elements *element.Table, rng Roller) *Calculator {
	if elements == nil || rng == nil {
		panic("damage: NewCalculator requires non-nil elements and rng")
	}
	return &Calculator{elements: elements, rng: rng}
}

// Resolve runs the damage pipeline for a.
//
// Rolls are drawn in the order hit, evasion, crit; Auto attacks draw none
// and a miss or evade ends the pipeline.
//
// Precondition: a.Skill is non-nil and its enums are declared values;
// violations panic.
// Postcondition: Final >= 0 and is zero whenever IsMiss or IsEvaded.
func (c *Calculator) Resolve(a Attack) Result {
	s := a.Skill
	if s == nil {
		panic("damage: Resolve requires a skill")
	}
	dtype := s.DamageType
	if a.Modifiers.ConvertToElemental && dtype == stats.Physical {
		dtype = stats.Elemental
	}
	res := Result{
		SkillID:             s.ID,
		DamageType:          dtype,
		HitChance:           stats.HitRate(a.Attacker.Effective, a.Defender.Effective, s.Method),
		ElementalMultiplier: 1,
		CritMultiplier:      1,
	}

	if s.Method != stats.Auto {
		if !c.rng.Chance("hit", res.HitChance/100) {
			res.IsMiss = true
			return res
		}
		if c.rng.Chance("evade", a.Defender.Derived.Evasion) {
			res.IsEvaded = true
			return res
		}
	}

	dmg := RawDamage(s, a.Level, a.Attacker.Effective)
	if a.Modifiers.Scale > 0 {
		dmg *= a.Modifiers.Scale
	}
	res.Raw = dmg

	res.Element = c.attackElement(s, dtype, a)
	res.ElementalMultiplier = c.elementalMultiplier(dtype, res.Element, a)
	dmg *= res.ElementalMultiplier

	def := a.Defender.Derived.Defense(dtype)
	pierce := clamp01(a.Modifiers.DefensePierce)
	def.Flat *= 1 - pierce
	def.Percent *= 1 - pierce
	dmg, res.FlatReduction, res.PercentReduction = mitigate(dmg, dtype, s.Property, def)

	if s.Method != stats.Auto && c.rng.Chance("crit", a.Attacker.Derived.CritChance/100) {
		res.IsCrit = true
		res.CritMultiplier = a.Attacker.Derived.CritMultiplier(s.Method)
		dmg *= res.CritMultiplier
	}

	if math.IsNaN(dmg) || dmg < 0 {
		dmg = 0
	}
	res.Final = int(math.Floor(dmg))
	return res
}

// RawDamage is scaling attribute × multiplier + base damage + (level−1) × per-level bonus.
//
// Postcondition: Returns >= 0.
func RawDamage(s *skill.Skill, level int, attacker stats.PrimaryAttributes) float64 {
	if level < 1 {
		level = 1
	}
	raw := s.BaseDamage + float64(level-1)*s.DamagePerLevel
	if s.Scaling != stats.AttributeNone {
		raw += float64(attacker.Get(s.Scaling)) * s.Multiplier
	}
	return math.Max(0, raw)
}

func (c *Calculator) attackElement(s *skill.Skill, dtype stats.DamageType, a Attack) element.Element {
	if a.Modifiers.Element != element.None {
		return a.Modifiers.Element
	}
	if s.Element != element.None {
		return s.Element
	}
	if dtype == stats.Elemental {
		return a.AttackerElement
	}
	return element.None
}

func (c *Calculator) elementalMultiplier(dtype stats.DamageType, elem element.Element, a Attack) float64 {
	if a.Modifiers.ElementalOverride > 0 {
		return a.Modifiers.ElementalOverride
	}
	if dtype == stats.TrueDamage {
		return 1
	}
	return c.elements.Multiplier(elem, a.DefenderElement)
}

// mitigate applies def to dmg according to the damage type and property.
// True damage type bypasses mitigation regardless of property.
func mitigate(dmg float64, dtype stats.DamageType, prop stats.DamageProperty, def stats.Defense) (out, flat, pct float64) {
	if dtype == stats.TrueDamage {
		return dmg, 0, 0
	}
	var useFlat, usePercent bool
	switch prop {
	case stats.Normal:
		useFlat, usePercent = true, true
	case stats.Piercing:
		usePercent = true
	case stats.ArmorBreak:
		useFlat = true
	case stats.TrueProperty:
	default:
		panic(fmt.Sprintf("damage: invalid damage property %d", int(prop)))
	}
	out = dmg
	if useFlat {
		flat = math.Min(def.Flat, out)
		out -= flat
	}
	if usePercent {
		pct = out * def.Percent
		out -= pct
	}
	return out, flat, pct
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
