package condition

import (
	"math"

	"github.com/cory-johannsen/shinobi/internal/game/stats"
)

// Modifiers returns the attribute modifiers of every buff and debuff in
// application order. An additive debuff always lowers its attribute.
func (s *ActiveSet) Modifiers() []stats.Modifier {
	var out []stats.Modifier
	for _, b := range s.buffs {
		if m, ok := b.Def.Modifier(); ok {
			out = append(out, m)
		}
	}
	return out
}

// Modifier converts a buff or debuff definition into a stats.Modifier.
// It reports false for every other kind.
func (d *Definition) Modifier() (stats.Modifier, bool) {
	switch d.Kind {
	case KindBuff:
		return stats.Modifier{Attribute: d.Attribute, Mode: d.Mode, Value: d.Value}, true
	case KindDebuff:
		v := d.Value
		if d.Mode == stats.ModeAdd {
			v = -math.Abs(v)
		}
		return stats.Modifier{Attribute: d.Attribute, Mode: d.Mode, Value: v}, true
	default:
		return stats.Modifier{}, false
	}
}

// HealingScale returns the factor applied to healing received.
// Each curse multiplies the factor by (1 - value).
//
// Postcondition: Returns a value in [0, 1].
func (s *ActiveSet) HealingScale() float64 {
	scale := 1.0
	for _, b := range s.buffs {
		if b.Def.Kind == KindCurse {
			scale *= 1 - clamp01(b.Def.Value)
		}
	}
	return scale
}

// ReflectFraction returns the summed fraction of incoming damage returned to
// the attacker, capped at 1.
func (s *ActiveSet) ReflectFraction() float64 {
	total := 0.0
	for _, b := range s.buffs {
		if b.Def.Kind == KindReflect {
			total += b.Def.Value
		}
	}
	return clamp01(total)
}

// ConfusionChance returns the highest redirect chance among confusion
// buffs, or 0 when the owner is not confused.
func (s *ActiveSet) ConfusionChance() float64 {
	chance := 0.0
	for _, b := range s.buffs {
		if b.Def.Kind != KindConfusion {
			continue
		}
		c := b.Def.Value
		if c <= 0 {
			c = DefaultConfusionChance
		}
		chance = math.Max(chance, c)
	}
	return clamp01(chance)
}

// Absorb drains shield charge against incoming damage in application order.
// Depleted shields are removed.
//
// Precondition: damage >= 0.
// Postcondition: 0 <= remaining <= damage and remaining + absorbed == damage.
func (s *ActiveSet) Absorb(damage int) (remaining, absorbed int) {
	remaining = damage
	kept := s.buffs[:0]
	for _, b := range s.buffs {
		if b.Def.Kind != KindShield || remaining == 0 {
			kept = append(kept, b)
			continue
		}
		take := int(math.Min(math.Floor(b.Charge), float64(remaining)))
		remaining -= take
		absorbed += take
		b.Charge -= float64(take)
		if b.Charge >= 1 {
			kept = append(kept, b)
		}
	}
	clear(s.buffs[len(kept):])
	s.buffs = kept
	return remaining, absorbed
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
