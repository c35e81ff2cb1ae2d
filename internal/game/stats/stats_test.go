package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/shinobi/internal/game/stats"
)

func TestResolve_MaxHP_ZeroWillpower(t *testing.T) {
	r := stats.Resolve(stats.PrimaryAttributes{}, stats.Equipment{}, nil)
	assert.Equal(t, 50, r.Derived.MaxHP)
}

func TestResolve_MaxHP_TenWillpower(t *testing.T) {
	r := stats.Resolve(stats.PrimaryAttributes{Willpower: 10}, stats.Equipment{}, nil)
	assert.Equal(t, 170, r.Derived.MaxHP)
}

func TestResolve_MaxHP_EquipmentBonus(t *testing.T) {
	r := stats.Resolve(stats.PrimaryAttributes{Willpower: 10}, stats.Equipment{MaxHP: 25}, nil)
	assert.Equal(t, 195, r.Derived.MaxHP)
}

func TestResolve_Property_MaxHPFormula(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		wp := rapid.IntRange(0, 500).Draw(rt, "willpower")
		r := stats.Resolve(stats.PrimaryAttributes{Willpower: wp}, stats.Equipment{}, nil)
		assert.Equal(rt, stats.HPBase+wp*stats.HPPerWillpower, r.Derived.MaxHP)
	})
}

func TestResolve_ChakraAndRegen(t *testing.T) {
	r := stats.Resolve(stats.PrimaryAttributes{Chakra: 5, Willpower: 10, Intelligence: 9}, stats.Equipment{}, nil)
	assert.Equal(t, 70, r.Derived.MaxChakra)
	assert.Equal(t, 3, r.Derived.HPRegen)     // round(170 × 0.02) = round(3.4)
	assert.Equal(t, 5, r.Derived.ChakraRegen) // round(9 × 0.5) = round(4.5)
}

func TestResolve_PhysicalDefense_Strength40(t *testing.T) {
	r := stats.Resolve(stats.PrimaryAttributes{Strength: 40}, stats.Equipment{}, nil)
	assert.InDelta(t, 10.0, r.Derived.Physical.Flat, 1e-9)
	assert.InDelta(t, 40.0/240.0, r.Derived.Physical.Percent, 1e-9)
}

func TestResolve_MentalUsesSmallerCap(t *testing.T) {
	r := stats.Resolve(stats.PrimaryAttributes{Calmness: 150, Spirit: 150}, stats.Equipment{}, nil)
	assert.InDelta(t, 0.5, r.Derived.Mental.Percent, 1e-9)
	assert.InDelta(t, 150.0/350.0, r.Derived.Elemental.Percent, 1e-9)
	assert.InDelta(t, 150.0/230.0, r.Derived.StatusResistance, 1e-9)
}

func TestResolve_Property_PercentDefenseBounded(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.IntRange(0, 10_000_000).Draw(rt, "strength")
		r := stats.Resolve(stats.PrimaryAttributes{Strength: s}, stats.Equipment{}, nil)
		p := r.Derived.Physical.Percent
		assert.GreaterOrEqual(rt, p, 0.0)
		assert.Less(rt, p, 1.0)
	})
}

func TestResolve_Property_PercentDefenseMonotonic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := rapid.IntRange(0, 100_000).Draw(rt, "a")
		b := rapid.IntRange(a+1, 100_001).Draw(rt, "b")
		assert.Less(rt, stats.SoftCap(a, stats.PhysicalSoftCap), stats.SoftCap(b, stats.PhysicalSoftCap))
	})
}

func TestSoftCap_HugeStatStaysBelowOne(t *testing.T) {
	assert.Less(t, stats.SoftCap(1<<62, 150), 1.0)
}

func TestSoftCap_PanicsOnNonPositiveCap(t *testing.T) {
	assert.Panics(t, func() { stats.SoftCap(10, 0) })
}

func TestResolve_EvasionGutsInitiative(t *testing.T) {
	r := stats.Resolve(stats.PrimaryAttributes{Speed: 250, Willpower: 200}, stats.Equipment{}, nil)
	assert.InDelta(t, 0.5, r.Derived.Evasion, 1e-9)
	assert.InDelta(t, 0.5, r.Derived.GutsChance, 1e-9)
	assert.Equal(t, 260, r.Derived.Initiative)
}

func TestResolve_CritChanceAndMultipliers(t *testing.T) {
	r := stats.Resolve(stats.PrimaryAttributes{Dexterity: 20, Accuracy: 50}, stats.Equipment{CritChance: 2}, nil)
	assert.InDelta(t, 20.0, r.Derived.CritChance, 1e-9)
	assert.InDelta(t, 1.75, r.Derived.CritMultiplier(stats.Melee), 1e-9)
	assert.InDelta(t, 2.15, r.Derived.CritMultiplier(stats.Ranged), 1e-9)
	assert.Equal(t, 1.0, r.Derived.CritMultiplier(stats.Auto))
}

func TestResolve_CritChanceClamped(t *testing.T) {
	r := stats.Resolve(stats.PrimaryAttributes{Dexterity: 1000}, stats.Equipment{}, nil)
	assert.Equal(t, 100.0, r.Derived.CritChance)
}

func TestHitRate(t *testing.T) {
	atk := stats.PrimaryAttributes{Speed: 10, Accuracy: 30}
	def := stats.PrimaryAttributes{Speed: 20}
	assert.InDelta(t, 77.0, stats.HitRate(atk, def, stats.Melee), 1e-9)
	assert.InDelta(t, 100.0, stats.HitRate(atk, def, stats.Ranged), 1e-9)
	assert.Equal(t, stats.MaxHitChance, stats.HitRate(atk, def, stats.Auto))
}

func TestHitRate_Property_Clamped(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		atk := stats.PrimaryAttributes{Speed: rapid.IntRange(0, 1000).Draw(rt, "as"), Accuracy: rapid.IntRange(0, 1000).Draw(rt, "aa")}
		def := stats.PrimaryAttributes{Speed: rapid.IntRange(0, 1000).Draw(rt, "ds")}
		m := rapid.SampledFrom([]stats.Method{stats.Melee, stats.Ranged, stats.Auto}).Draw(rt, "method")
		h := stats.HitRate(atk, def, m)
		assert.GreaterOrEqual(rt, h, stats.MinHitChance)
		assert.LessOrEqual(rt, h, stats.MaxHitChance)
	})
}

func TestEffective_AdditiveThenMultiplicative(t *testing.T) {
	base := stats.PrimaryAttributes{Strength: 10}
	equip := stats.Equipment{Attributes: stats.PrimaryAttributes{Strength: 5}}
	mods := []stats.Modifier{
		{Attribute: stats.Strength, Mode: stats.ModeMul, Value: 2},
		{Attribute: stats.Strength, Mode: stats.ModeAdd, Value: 5},
	}
	eff := stats.Effective(base, equip, mods)
	assert.Equal(t, 40, eff.Strength) // (10 + 5 + 5) × 2
	assert.Equal(t, 10, base.Strength, "base must not be mutated")
}

func TestEffective_NeverNegative(t *testing.T) {
	eff := stats.Effective(stats.PrimaryAttributes{Speed: 5}, stats.Equipment{},
		[]stats.Modifier{{Attribute: stats.Speed, Mode: stats.ModeAdd, Value: -50}})
	assert.Equal(t, 0, eff.Speed)
}

func TestResolve_BuffChangesDerived(t *testing.T) {
	base := stats.PrimaryAttributes{Willpower: 10}
	plain := stats.Resolve(base, stats.Equipment{}, nil)
	buffed := stats.Resolve(base, stats.Equipment{}, []stats.Modifier{{Attribute: stats.Willpower, Mode: stats.ModeAdd, Value: 10}})
	assert.Equal(t, 170, plain.Derived.MaxHP)
	assert.Equal(t, 290, buffed.Derived.MaxHP)
	assert.Equal(t, 20, buffed.Effective.Willpower)
}

func TestParseAttribute(t *testing.T) {
	for _, a := range stats.AllAttributes {
		got, err := stats.ParseAttribute(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
	_, err := stats.ParseAttribute("luck")
	assert.Error(t, err)
}

func TestPrimaryAttributes_GetPanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { stats.PrimaryAttributes{}.Get(stats.Attribute(99)) })
}

func TestDerived_DefenseTrueIsZero(t *testing.T) {
	r := stats.Resolve(stats.PrimaryAttributes{Strength: 100}, stats.Equipment{}, nil)
	assert.Equal(t, stats.Defense{}, r.Derived.Defense(stats.TrueDamage))
}

func TestTaxonomy_UnmarshalText(t *testing.T) {
	var dt stats.DamageType
	require.NoError(t, dt.UnmarshalText([]byte("mental")))
	assert.Equal(t, stats.Mental, dt)
	assert.Error(t, dt.UnmarshalText([]byte("psychic")))

	var p stats.DamageProperty
	require.NoError(t, p.UnmarshalText([]byte("armor_break")))
	assert.Equal(t, stats.ArmorBreak, p)

	var m stats.Method
	require.NoError(t, m.UnmarshalText([]byte("ranged")))
	assert.Equal(t, stats.Ranged, m)
	assert.Error(t, m.UnmarshalText([]byte("thrown")))
}
