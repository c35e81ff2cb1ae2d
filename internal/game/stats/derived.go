package stats

import (
	"fmt"
	"math"
)

// Tuning constants for the derived-stat formulas.
const (
	HPBase          = 50
	HPPerWillpower  = 12
	ChakraBase      = 30
	ChakraPerChakra = 8

	HPRegenPercent    = 0.02
	ChakraRegenPerInt = 0.5

	PhysicalDefensePerStrength = 0.25
	ElementalDefensePerSpirit  = 0.3
	MentalDefensePerCalmness   = 0.3

	PhysicalSoftCap  = 200
	ElementalSoftCap = 200
	MentalSoftCap    = 150
	EvasionSoftCap   = 250

	BaseHitChance  = 92.0
	HitPerStatDiff = 1.5
	MinHitChance   = 20.0
	MaxHitChance   = 100.0

	BaseCritChance             = 8.0
	CritPerDex                 = 0.5
	BaseCritMultiplier         = 1.75
	RangedCritBonusPerAccuracy = 0.008

	GutsSoftCap         = 200
	StatusResistSoftCap = 80

	InitBase     = 10
	InitPerSpeed = 1
)

// Defense is one flat + percent defense pair.
//
// Invariant: Flat >= 0; 0 <= Percent < 1.
type Defense struct {
	Flat    float64
	Percent float64
}

// Derived holds every combat statistic computed from effective attributes.
type Derived struct {
	MaxHP       int
	MaxChakra   int
	HPRegen     int
	ChakraRegen int

	Physical  Defense
	Elemental Defense
	Mental    Defense

	StatusResistance float64 // [0, 1)
	GutsChance       float64 // [0, 1)
	Evasion          float64 // [0, 1)

	CritChance           float64 // percent, [0, 100]
	MeleeCritMultiplier  float64
	RangedCritMultiplier float64

	Initiative int
}

// Defense returns the defense pair matching damage type dt. TrueDamage has
// no defense pair and yields the zero Defense.
//
// Precondition: dt is a declared DamageType; panics otherwise.
func (d Derived) Defense(dt DamageType) Defense {
	switch dt {
	case Physical:
		return d.Physical
	case Elemental:
		return d.Elemental
	case Mental:
		return d.Mental
	case TrueDamage:
		return Defense{}
	default:
		panic(fmt.Sprintf("stats: Defense called with invalid damage type %d", int(dt)))
	}
}

// CritMultiplier returns the crit multiplier for delivery method m.
// Auto attacks never crit and use a multiplier of 1.
//
// Precondition: m is a declared Method; panics otherwise.
func (d Derived) CritMultiplier(m Method) float64 {
	switch m {
	case Melee:
		return d.MeleeCritMultiplier
	case Ranged:
		return d.RangedCritMultiplier
	case Auto:
		return 1
	default:
		panic(fmt.Sprintf("stats: CritMultiplier called with invalid method %d", int(m)))
	}
}

// Resolved is the output of Resolve: effective attributes plus derived stats.
type Resolved struct {
	Effective PrimaryAttributes
	Derived   Derived
}

// Resolve derives combat statistics from primary attributes, equipment, and
// active modifiers. It has no side effects and may be called at any time.
//
// Postcondition: every percent defense, evasion, guts, and status resistance
// value is in [0, 1).
func Resolve(primary PrimaryAttributes, equip Equipment, mods []Modifier) Resolved {
	eff := Effective(primary, equip, mods)

	maxHP := HPBase + eff.Willpower*HPPerWillpower + equip.MaxHP
	if maxHP < 1 {
		maxHP = 1
	}
	maxChakra := ChakraBase + eff.Chakra*ChakraPerChakra + equip.MaxChakra
	if maxChakra < 0 {
		maxChakra = 0
	}

	d := Derived{
		MaxHP:       maxHP,
		MaxChakra:   maxChakra,
		HPRegen:     int(math.Round(float64(maxHP) * HPRegenPercent)),
		ChakraRegen: int(math.Round(float64(eff.Intelligence) * ChakraRegenPerInt)),
		Physical: Defense{
			Flat:    nonNegative(float64(eff.Strength)*PhysicalDefensePerStrength + equip.PhysicalDefense),
			Percent: SoftCap(eff.Strength, PhysicalSoftCap),
		},
		Elemental: Defense{
			Flat:    nonNegative(float64(eff.Spirit)*ElementalDefensePerSpirit + equip.ElementalDefense),
			Percent: SoftCap(eff.Spirit, ElementalSoftCap),
		},
		Mental: Defense{
			Flat:    nonNegative(float64(eff.Calmness)*MentalDefensePerCalmness + equip.MentalDefense),
			Percent: SoftCap(eff.Calmness, MentalSoftCap),
		},
		StatusResistance:     SoftCap(eff.Calmness, StatusResistSoftCap),
		GutsChance:           SoftCap(eff.Willpower, GutsSoftCap),
		Evasion:              SoftCap(eff.Speed, EvasionSoftCap),
		CritChance:           clamp(BaseCritChance+float64(eff.Dexterity)*CritPerDex+equip.CritChance, 0, 100),
		MeleeCritMultiplier:  BaseCritMultiplier,
		RangedCritMultiplier: BaseCritMultiplier + float64(eff.Accuracy)*RangedCritBonusPerAccuracy,
		Initiative:           InitBase + eff.Speed*InitPerSpeed,
	}
	return Resolved{Effective: eff, Derived: d}
}

// SoftCap is the diminishing-returns curve stat/(stat+cap).
//
// Precondition: cap > 0.
// Postcondition: 0 <= result < 1; result is 0 for stat <= 0.
func SoftCap(stat, cap int) float64 {
	if cap <= 0 {
		panic("stats: SoftCap requires cap > 0")
	}
	if stat <= 0 {
		return 0
	}
	r := float64(stat) / (float64(stat) + float64(cap))
	if r >= 1 {
		r = math.Nextafter(1, 0)
	}
	return r
}

// HitRate returns the attacker's hit chance in percent against defender for
// delivery method m. Melee compares speed to speed, Ranged compares accuracy
// to speed, and Auto always hits.
//
// Precondition: m is a declared Method; panics otherwise.
// Postcondition: MinHitChance <= result <= MaxHitChance.
func HitRate(attacker, defender PrimaryAttributes, m Method) float64 {
	var stat int
	switch m {
	case Melee:
		stat = attacker.Speed
	case Ranged:
		stat = attacker.Accuracy
	case Auto:
		return MaxHitChance
	default:
		panic(fmt.Sprintf("stats: HitRate called with invalid method %d", int(m)))
	}
	rate := BaseHitChance + float64(stat-defender.Speed)*HitPerStatDiff
	return clamp(rate, MinHitChance, MaxHitChance)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
