package stats

import (
	"fmt"
	"strings"
)

// Mode selects how a Modifier combines with an attribute.
type Mode int

const (
	// ModeAdd adds Value to the attribute (e.g. +10 strength).
	ModeAdd Mode = iota
	// ModeMul multiplies the attribute by Value (e.g. ×1.2 speed).
	ModeMul
)

// String returns "add" or "mul".
func (m Mode) String() string {
	switch m {
	case ModeAdd:
		return "add"
	case ModeMul:
		return "mul"
	default:
		return "unknown"
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for YAML content.
func (m *Mode) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "", "add":
		*m = ModeAdd
	case "mul":
		*m = ModeMul
	default:
		return fmt.Errorf("stats: unknown modifier mode %q", string(text))
	}
	return nil
}

// Modifier is one attribute adjustment contributed by a buff, debuff, or
// passive skill. Multiple modifiers may target the same attribute.
type Modifier struct {
	Attribute Attribute
	Mode      Mode
	Value     float64
}

// Equipment holds the flat bonuses contributed by equipped items. Items
// themselves are resolved by the content layer; only their sums reach here.
type Equipment struct {
	Attributes       PrimaryAttributes `yaml:"attributes"`
	MaxHP            int               `yaml:"max_hp"`
	MaxChakra        int               `yaml:"max_chakra"`
	PhysicalDefense  float64           `yaml:"physical_defense"`
	ElementalDefense float64           `yaml:"elemental_defense"`
	MentalDefense    float64           `yaml:"mental_defense"`
	CritChance       float64           `yaml:"crit_chance"` // percentage points
}

// Effective applies equipment and modifiers to base.
// Additive modifiers are summed first, then multiplicative modifiers are applied.
//
// Precondition: every modifier targets a member of AllAttributes.
// Postcondition: every returned attribute is >= 0.
func Effective(base PrimaryAttributes, equip Equipment, mods []Modifier) PrimaryAttributes {
	add := make(map[Attribute]float64, len(mods))
	mul := make(map[Attribute]float64, len(mods))
	for _, m := range mods {
		if m.Attribute == AttributeNone {
			panic("stats: modifier must target an attribute")
		}
		switch m.Mode {
		case ModeAdd:
			add[m.Attribute] += m.Value
		case ModeMul:
			if _, ok := mul[m.Attribute]; !ok {
				mul[m.Attribute] = 1
			}
			mul[m.Attribute] *= m.Value
		default:
			panic(fmt.Sprintf("stats: invalid modifier mode %d", int(m.Mode)))
		}
	}

	out := base.Plus(equip.Attributes)
	for _, a := range AllAttributes {
		v := float64(out.Get(a)) + add[a]
		if f, ok := mul[a]; ok {
			v *= f
		}
		n := int(v)
		if v < 0 {
			n = 0
		}
		out = out.With(a, n)
	}
	return out
}
