package stats

import (
	"fmt"
	"strings"
)

// DamageType is the defense category an attack is mitigated against.
type DamageType int

const (
	Physical DamageType = iota
	Elemental
	Mental
	TrueDamage
)

// String returns the lowercase damage type name.
func (d DamageType) String() string {
	switch d {
	case Physical:
		return "physical"
	case Elemental:
		return "elemental"
	case Mental:
		return "mental"
	case TrueDamage:
		return "true"
	default:
		return "unknown"
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for YAML content.
// An empty value decodes as Physical.
func (d *DamageType) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "", "physical":
		*d = Physical
	case "elemental":
		*d = Elemental
	case "mental":
		*d = Mental
	case "true":
		*d = TrueDamage
	default:
		return fmt.Errorf("stats: unknown damage type %q", string(text))
	}
	return nil
}

// DamageProperty selects which defense components an attack ignores.
type DamageProperty int

const (
	Normal DamageProperty = iota
	Piercing
	ArmorBreak
	TrueProperty
)

// String returns the lowercase property name.
func (p DamageProperty) String() string {
	switch p {
	case Normal:
		return "normal"
	case Piercing:
		return "piercing"
	case ArmorBreak:
		return "armor_break"
	case TrueProperty:
		return "true"
	default:
		return "unknown"
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for YAML content.
// An empty value decodes as Normal.
func (p *DamageProperty) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "", "normal":
		*p = Normal
	case "piercing":
		*p = Piercing
	case "armor_break":
		*p = ArmorBreak
	case "true":
		*p = TrueProperty
	default:
		return fmt.Errorf("stats: unknown damage property %q", string(text))
	}
	return nil
}

// Method is the delivery method of an attack. It selects the hit-rate stat
// and the crit multiplier; Auto attacks always connect and never crit.
type Method int

const (
	Melee Method = iota
	Ranged
	Auto
)

// String returns the lowercase method name.
func (m Method) String() string {
	switch m {
	case Melee:
		return "melee"
	case Ranged:
		return "ranged"
	case Auto:
		return "auto"
	default:
		return "unknown"
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for YAML content.
// An empty value decodes as Melee.
func (m *Method) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "", "melee":
		*m = Melee
	case "ranged":
		*m = Ranged
	case "auto":
		*m = Auto
	default:
		return fmt.Errorf("stats: unknown method %q", string(text))
	}
	return nil
}
