package condition

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/shinobi/internal/game/element"
	"github.com/cory-johannsen/shinobi/internal/game/stats"
)

// Trigger is the combat event that activates a passive.
type Trigger int

const (
	TriggerAlways Trigger = iota
	TriggerOnHit
	TriggerOnCrit
	TriggerOnKill
	TriggerCombatStart
	TriggerTurnStart
	TriggerBelowHalfHP
)

var triggerNames = map[Trigger]string{
	TriggerAlways:      "always",
	TriggerOnHit:       "on_hit",
	TriggerOnCrit:      "on_crit",
	TriggerOnKill:      "on_kill",
	TriggerCombatStart: "combat_start",
	TriggerTurnStart:   "turn_start",
	TriggerBelowHalfHP: "below_half_hp",
}

// String returns the content name of t.
func (t Trigger) String() string {
	if n, ok := triggerNames[t]; ok {
		return n
	}
	return "unknown"
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty value decodes as TriggerAlways.
func (t *Trigger) UnmarshalText(text []byte) error {
	want := strings.ToLower(string(text))
	if want == "" {
		*t = TriggerAlways
		return nil
	}
	for trig, name := range triggerNames {
		if name == want {
			*t = trig
			return nil
		}
	}
	return fmt.Errorf("condition: unknown passive trigger %q", string(text))
}

// PassiveKind is what a passive does once triggered.
type PassiveKind int

const (
	PassiveBleed PassiveKind = iota
	PassiveBurn
	PassiveChakraDrain
	PassiveRestore
	PassiveLifesteal
	PassiveReflect
	PassiveShieldOnStart
	PassiveInvulnerableFirstTurn
	PassiveDamageReduction
	PassiveRegen
	PassiveGutsBonus
	PassivePierceDefense
	PassiveConvertToElemental
	PassiveExecuteThreshold
	PassiveCounterAttack
	PassiveFreeFirstSkill
	PassiveCooldownResetOnKill
	PassiveSealChance
	PassiveElementOverride
)

var passiveKindNames = map[PassiveKind]string{
	PassiveBleed:                 "bleed",
	PassiveBurn:                  "burn",
	PassiveChakraDrain:           "chakra_drain",
	PassiveRestore:               "restore",
	PassiveLifesteal:             "lifesteal",
	PassiveReflect:               "reflect",
	PassiveShieldOnStart:         "shield_on_start",
	PassiveInvulnerableFirstTurn: "invulnerable_first_turn",
	PassiveDamageReduction:       "damage_reduction",
	PassiveRegen:                 "regen",
	PassiveGutsBonus:             "guts_bonus",
	PassivePierceDefense:         "pierce_defense",
	PassiveConvertToElemental:    "convert_to_elemental",
	PassiveExecuteThreshold:      "execute_threshold",
	PassiveCounterAttack:         "counter_attack",
	PassiveFreeFirstSkill:        "free_first_skill",
	PassiveCooldownResetOnKill:   "cooldown_reset_on_kill",
	PassiveSealChance:            "seal_chance",
	PassiveElementOverride:       "element_override",
}

// String returns the content name of k.
func (k PassiveKind) String() string {
	if n, ok := passiveKindNames[k]; ok {
		return n
	}
	return "unknown"
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *PassiveKind) UnmarshalText(text []byte) error {
	want := strings.ToLower(string(text))
	for kind, name := range passiveKindNames {
		if name == want {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("condition: unknown passive kind %q", string(text))
}

// Defensive reports whether k reacts to its owner being hit rather than to
// its owner attacking. On a shared trigger the attacker's offensive passives
// resolve before the defender's defensive ones.
func (k PassiveKind) Defensive() bool {
	switch k {
	case PassiveReflect, PassiveDamageReduction, PassiveCounterAttack,
		PassiveInvulnerableFirstTurn, PassiveGutsBonus:
		return true
	case PassiveBleed, PassiveBurn, PassiveChakraDrain, PassiveRestore, PassiveLifesteal,
		PassiveShieldOnStart, PassiveRegen, PassivePierceDefense, PassiveConvertToElemental,
		PassiveExecuteThreshold, PassiveFreeFirstSkill, PassiveCooldownResetOnKill,
		PassiveSealChance, PassiveElementOverride:
		return false
	default:
		panic(fmt.Sprintf("condition: invalid passive kind %d", int(k)))
	}
}

// Static reports whether k is a standing modifier consulted while an
// action is set up, as opposed to an effect fired by its trigger.
func (k PassiveKind) Static() bool {
	switch k {
	case PassiveGutsBonus, PassivePierceDefense, PassiveConvertToElemental,
		PassiveElementOverride, PassiveFreeFirstSkill, PassiveDamageReduction,
		PassiveInvulnerableFirstTurn:
		return true
	default:
		return false
	}
}

// Passive is an always-on or triggered effect granted by equipment or a
// Passive-category skill.
//
// Value is interpreted per Kind: DoT damage per tick for bleed/burn, chakra
// for chakra_drain, HP for restore and regen, a fraction of damage for
// lifesteal/reflect/damage_reduction/pierce_defense, shield charge for
// shield_on_start, additive guts chance for guts_bonus, an HP fraction for
// execute_threshold, and the counter strike's multiplier for counter_attack.
type Passive struct {
	ID       string          `yaml:"id"`
	Name     string          `yaml:"name"`
	Trigger  Trigger         `yaml:"trigger"`
	Kind     PassiveKind     `yaml:"kind"`
	Value    float64         `yaml:"value"`
	Chance   float64         `yaml:"chance"` // 0 = always
	Duration int             `yaml:"duration"`
	Element  element.Element `yaml:"element"`
}

// FireChance returns the activation probability. A zero Chance means always.
func (p *Passive) FireChance() float64 {
	if p.Chance <= 0 {
		return 1
	}
	return p.Chance
}

// DisplayName returns Name, falling back to ID.
func (p *Passive) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// Validate checks p for content-authoring errors.
func (p *Passive) Validate() error {
	var errs []error
	if p.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if _, ok := triggerNames[p.Trigger]; !ok {
		errs = append(errs, fmt.Errorf("invalid trigger %d", int(p.Trigger)))
	}
	if _, ok := passiveKindNames[p.Kind]; !ok {
		errs = append(errs, fmt.Errorf("invalid kind %d", int(p.Kind)))
	}
	if p.Value < 0 {
		errs = append(errs, fmt.Errorf("value must be >= 0, got %v", p.Value))
	}
	if p.Chance < 0 || p.Chance > 1 {
		errs = append(errs, fmt.Errorf("chance must be in [0,1], got %v", p.Chance))
	}
	if p.Duration < 0 {
		errs = append(errs, fmt.Errorf("duration must be >= 0, got %d", p.Duration))
	}
	switch p.Kind {
	case PassiveElementOverride:
		if p.Element == element.None {
			errs = append(errs, errors.New("element_override requires an element"))
		}
	case PassiveLifesteal, PassiveReflect, PassiveDamageReduction, PassivePierceDefense, PassiveExecuteThreshold:
		if p.Value > 1 {
			errs = append(errs, fmt.Errorf("%s value must be <= 1, got %v", p.Kind, p.Value))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("passive %q: %w", p.ID, errors.Join(errs...))
}

// EffectDefinition returns the buff a triggered passive applies, if any.
// Bleed and burn produce DoTs on the defender; shield_on_start, regen and
// seal_chance produce buffs whose target is given by the returned Target.
func (p *Passive) EffectDefinition() (*Definition, bool) {
	d := &Definition{ID: p.ID, Name: p.DisplayName(), Value: p.Value, Duration: p.Duration}
	switch p.Kind {
	case PassiveBleed:
		d.Kind, d.DamageType, d.Target = KindBleed, stats.Physical, TargetEnemy
	case PassiveBurn:
		d.Kind, d.DamageType, d.Target = KindBurn, stats.Elemental, TargetEnemy
	case PassiveShieldOnStart:
		d.Kind, d.Target = KindShield, TargetSelf
	case PassiveRegen:
		d.Kind, d.Target = KindRegen, TargetSelf
	case PassiveSealChance:
		d.Kind, d.Target = KindSilence, TargetEnemy
		if d.Duration == 0 {
			d.Duration = DefaultSealDuration
		}
	default:
		return nil, false
	}
	return d, true
}

// DefaultSealDuration is the silence length of a seal_chance passive with
// no declared duration.
const DefaultSealDuration = 1
