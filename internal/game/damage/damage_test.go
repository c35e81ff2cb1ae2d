package damage_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/shinobi/internal/game/damage"
	"github.com/cory-johannsen/shinobi/internal/game/dice"
	"github.com/cory-johannsen/shinobi/internal/game/element"
	"github.com/cory-johannsen/shinobi/internal/game/skill"
	"github.com/cory-johannsen/shinobi/internal/game/stats"
)

func scripted(values ...float64) (*dice.ScriptedSource, *dice.Roller) {
	src := dice.NewScriptedSource(values...)
	return src, dice.NewLoggedRoller(src, zap.NewNop())
}

func elements(t testing.TB) *element.Table {
	tbl, err := element.NewTable([]element.Element{"fire", "water", "wind"}, map[element.Element]map[element.Element]float64{
		"fire":  {"wind": 1.5, "water": 0.5},
		"water": {"fire": 1.5},
	})
	require.NoError(t, err)
	return tbl
}

func strike(dt stats.DamageType, prop stats.DamageProperty, m stats.Method) *skill.Skill {
	return &skill.Skill{
		ID: "strike", Multiplier: 1, Scaling: stats.Strength,
		DamageType: dt, Property: prop, Method: m,
	}
}

func flatOnly(base float64, dt stats.DamageType, prop stats.DamageProperty) *skill.Skill {
	return &skill.Skill{ID: "flat", BaseDamage: base, DamageType: dt, Property: prop, Method: stats.Auto}
}

func defender(def stats.Defense) stats.Resolved {
	return stats.Resolved{Derived: stats.Derived{Physical: def, Elemental: def, Mental: def}}
}

func TestResolve_EndToEnd_ThirtyThree(t *testing.T) {
	src, rng := scripted(dice.Succeed, dice.Fail, dice.Fail)
	calc := damage.NewCalculator(element.Neutral(), rng)

	res := calc.Resolve(damage.Attack{
		Attacker: stats.Resolve(stats.PrimaryAttributes{Strength: 50}, stats.Equipment{}, nil),
		Defender: stats.Resolve(stats.PrimaryAttributes{Strength: 40}, stats.Equipment{}, nil),
		Skill:    strike(stats.Physical, stats.Normal, stats.Melee),
		Level:    1,
	})

	assert.Equal(t, 3, src.Drawn(), "hit, evade, and crit are each rolled once")
	assert.True(t, res.Landed())
	assert.False(t, res.IsCrit)
	assert.Equal(t, 50.0, res.Raw)
	assert.Equal(t, 1.0, res.ElementalMultiplier)
	assert.Equal(t, 10.0, res.FlatReduction)
	assert.InDelta(t, 40.0/6, res.PercentReduction, 1e-9)
	assert.Equal(t, 33, res.Final)
	assert.Equal(t, "33 physical damage", res.String())
}

func TestResolve_Miss_StopsRolling(t *testing.T) {
	src, rng := scripted(dice.Fail)
	calc := damage.NewCalculator(element.Neutral(), rng)
	res := calc.Resolve(damage.Attack{
		Attacker: stats.Resolve(stats.PrimaryAttributes{Strength: 50}, stats.Equipment{}, nil),
		Defender: stats.Resolve(stats.PrimaryAttributes{}, stats.Equipment{}, nil),
		Skill:    strike(stats.Physical, stats.Normal, stats.Melee),
	})
	assert.True(t, res.IsMiss)
	assert.False(t, res.Landed())
	assert.Equal(t, 0, res.Final)
	assert.Equal(t, 1, src.Drawn())
	assert.Equal(t, "missed", res.String())
}

func TestResolve_Evaded_StopsRolling(t *testing.T) {
	src, rng := scripted(dice.Succeed, dice.Succeed)
	calc := damage.NewCalculator(element.Neutral(), rng)
	res := calc.Resolve(damage.Attack{
		Attacker: stats.Resolve(stats.PrimaryAttributes{Strength: 50}, stats.Equipment{}, nil),
		Defender: stats.Resolve(stats.PrimaryAttributes{Speed: 50}, stats.Equipment{}, nil),
		Skill:    strike(stats.Physical, stats.Normal, stats.Melee),
	})
	assert.True(t, res.IsEvaded)
	assert.Equal(t, 0, res.Final)
	assert.Equal(t, 2, src.Drawn())
}

func TestResolve_Auto_SkipsAllRolls(t *testing.T) {
	src, rng := scripted(dice.Fail)
	calc := damage.NewCalculator(element.Neutral(), rng)
	res := calc.Resolve(damage.Attack{
		Attacker: stats.Resolve(stats.PrimaryAttributes{Strength: 20, Dexterity: 200}, stats.Equipment{}, nil),
		Defender: stats.Resolve(stats.PrimaryAttributes{Speed: 500}, stats.Equipment{}, nil),
		Skill:    strike(stats.TrueDamage, stats.Normal, stats.Auto),
	})
	assert.Equal(t, 0, src.Drawn())
	assert.Equal(t, 100.0, res.HitChance)
	assert.False(t, res.IsCrit)
	assert.Equal(t, 20, res.Final)
}

func TestResolve_Crit_UsesMethodMultiplier(t *testing.T) {
	_, rng := scripted(dice.Succeed, dice.Fail, dice.Succeed)
	calc := damage.NewCalculator(element.Neutral(), rng)
	res := calc.Resolve(damage.Attack{
		Attacker: stats.Resolve(stats.PrimaryAttributes{Strength: 40, Accuracy: 125}, stats.Equipment{}, nil),
		Defender: stats.Resolve(stats.PrimaryAttributes{}, stats.Equipment{}, nil),
		Skill:    strike(stats.Physical, stats.Normal, stats.Ranged),
	})
	require.True(t, res.IsCrit)
	assert.InDelta(t, 2.75, res.CritMultiplier, 1e-9)
	assert.Equal(t, 110, res.Final)
	assert.Contains(t, res.String(), "critical")
}

func TestResolve_ElementalMultiplier(t *testing.T) {
	_, rng := scripted(dice.Fail)
	calc := damage.NewCalculator(elements(t), rng)
	s := flatOnly(40, stats.Elemental, stats.TrueProperty)
	s.Element = "fire"

	res := calc.Resolve(damage.Attack{Skill: s, DefenderElement: "wind"})
	assert.Equal(t, 1.5, res.ElementalMultiplier)
	assert.Equal(t, 60, res.Final)

	res = calc.Resolve(damage.Attack{Skill: s, DefenderElement: "water"})
	assert.Equal(t, 20, res.Final)
}

func TestResolve_ElementFallsBackToAttacker(t *testing.T) {
	_, rng := scripted(dice.Fail)
	calc := damage.NewCalculator(elements(t), rng)
	res := calc.Resolve(damage.Attack{
		Skill:           flatOnly(10, stats.Elemental, stats.TrueProperty),
		AttackerElement: "water",
		DefenderElement: "fire",
	})
	assert.Equal(t, element.Element("water"), res.Element)
	assert.Equal(t, 15, res.Final)
}

func TestResolve_ElementOverrideAndConversion(t *testing.T) {
	_, rng := scripted(dice.Fail)
	calc := damage.NewCalculator(elements(t), rng)
	res := calc.Resolve(damage.Attack{
		Skill:           flatOnly(10, stats.Physical, stats.TrueProperty),
		AttackerElement: "fire",
		DefenderElement: "wind",
		Modifiers:       damage.Modifiers{ConvertToElemental: true},
	})
	assert.Equal(t, stats.Elemental, res.DamageType)
	assert.Equal(t, 15, res.Final)

	res = calc.Resolve(damage.Attack{
		Skill:           flatOnly(10, stats.Elemental, stats.TrueProperty),
		AttackerElement: "fire",
		DefenderElement: "fire",
		Modifiers:       damage.Modifiers{Element: "water"},
	})
	assert.Equal(t, element.Element("water"), res.Element)
	assert.Equal(t, 15, res.Final)
}

func TestResolve_UnknownElementPanics(t *testing.T) {
	_, rng := scripted(dice.Fail)
	calc := damage.NewCalculator(elements(t), rng)
	s := flatOnly(10, stats.Elemental, stats.Normal)
	s.Element = "plasma"
	assert.Panics(t, func() { calc.Resolve(damage.Attack{Skill: s}) })
}

func TestResolve_InvalidPropertyPanics(t *testing.T) {
	_, rng := scripted(dice.Fail)
	calc := damage.NewCalculator(element.Neutral(), rng)
	assert.Panics(t, func() {
		calc.Resolve(damage.Attack{Skill: flatOnly(10, stats.Physical, stats.DamageProperty(42))})
	})
	assert.Panics(t, func() { calc.Resolve(damage.Attack{}) })
}

func TestResolve_ZeroMultiplierYieldsZero(t *testing.T) {
	_, rng := scripted(dice.Succeed, dice.Fail, dice.Succeed)
	calc := damage.NewCalculator(element.Neutral(), rng)
	s := strike(stats.Physical, stats.Normal, stats.Melee)
	s.Multiplier = 0
	var res damage.Result
	assert.NotPanics(t, func() {
		res = calc.Resolve(damage.Attack{
			Attacker: stats.Resolve(stats.PrimaryAttributes{Strength: 99}, stats.Equipment{}, nil),
			Skill:    s,
		})
	})
	assert.Equal(t, 0, res.Final)
}

func TestResolve_LevelAndScale(t *testing.T) {
	_, rng := scripted(dice.Fail)
	calc := damage.NewCalculator(element.Neutral(), rng)
	s := &skill.Skill{ID: "x", BaseDamage: 10, DamagePerLevel: 3, Method: stats.Auto, DamageType: stats.TrueDamage}
	res := calc.Resolve(damage.Attack{Skill: s, Level: 3, Modifiers: damage.Modifiers{Scale: 2}})
	assert.Equal(t, 32.0, res.Raw)
	assert.Equal(t, 32, res.Final)
}

func TestResolve_DefensePierce(t *testing.T) {
	_, rng := scripted(dice.Fail)
	calc := damage.NewCalculator(element.Neutral(), rng)
	res := calc.Resolve(damage.Attack{
		Skill:     flatOnly(100, stats.Physical, stats.ArmorBreak),
		Defender:  defender(stats.Defense{Flat: 40}),
		Modifiers: damage.Modifiers{DefensePierce: 0.5},
	})
	assert.Equal(t, 20.0, res.FlatReduction)
	assert.Equal(t, 80, res.Final)
}

func TestProperty_NormalMitigation(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		d := rapid.IntRange(0, 1000).Draw(rt, "raw")
		f := rapid.IntRange(0, 200).Draw(rt, "flat")
		p := rapid.Float64Range(0, 0.99).Draw(rt, "percent")
		_, rng := scripted(dice.Fail)
		calc := damage.NewCalculator(element.Neutral(), rng)

		res := calc.Resolve(damage.Attack{
			Skill:    flatOnly(float64(d), stats.Physical, stats.Normal),
			Defender: defender(stats.Defense{Flat: float64(f), Percent: p}),
		})
		afterFlat := math.Max(0, float64(d-f))
		want := int(math.Floor(afterFlat - afterFlat*p))
		assert.Equal(rt, want, res.Final)
		assert.GreaterOrEqual(rt, res.Final, 0)
		if f >= d {
			assert.Equal(rt, 0, res.Final)
		}
	})
}

func TestProperty_TrueDamageIgnoresDefense(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		strength := rapid.IntRange(0, 300).Draw(rt, "strength")
		prop := rapid.SampledFrom([]stats.DamageProperty{stats.Normal, stats.Piercing, stats.ArmorBreak, stats.TrueProperty}).Draw(rt, "property")
		crit := rapid.Bool().Draw(rt, "crit")
		critRoll := dice.Fail
		if crit {
			critRoll = dice.Succeed
		}
		_, rng := scripted(dice.Succeed, dice.Fail, critRoll)
		calc := damage.NewCalculator(element.Neutral(), rng)
		att := stats.Resolve(stats.PrimaryAttributes{Strength: strength}, stats.Equipment{}, nil)

		res := calc.Resolve(damage.Attack{
			Attacker: att,
			Defender: stats.Resolve(stats.PrimaryAttributes{Strength: 150, Spirit: 150, Calmness: 150}, stats.Equipment{}, nil),
			Skill:    strike(stats.TrueDamage, prop, stats.Melee),
		})
		mult := 1.0
		if crit {
			mult = att.Derived.MeleeCritMultiplier
		}
		assert.Equal(rt, 1.0, res.ElementalMultiplier)
		assert.Equal(rt, 0.0, res.FlatReduction)
		assert.Equal(rt, 0.0, res.PercentReduction)
		assert.Equal(rt, int(math.Floor(float64(strength)*mult)), res.Final)
	})
}

func TestProperty_PiercingAtLeastNormal(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		d := rapid.IntRange(0, 1000).Draw(rt, "raw")
		def := stats.Defense{
			Flat:    rapid.Float64Range(0.01, 200).Draw(rt, "flat"),
			Percent: rapid.Float64Range(0, 0.99).Draw(rt, "percent"),
		}
		_, rng := scripted(dice.Fail)
		calc := damage.NewCalculator(element.Neutral(), rng)
		normal := calc.Resolve(damage.Attack{Skill: flatOnly(float64(d), stats.Physical, stats.Normal), Defender: defender(def)})
		piercing := calc.Resolve(damage.Attack{Skill: flatOnly(float64(d), stats.Physical, stats.Piercing), Defender: defender(def)})
		assert.GreaterOrEqual(rt, piercing.Final, normal.Final)
	})
}

func TestProperty_FinalNeverNegative(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		rng := dice.NewLoggedRoller(dice.NewSeededSource(seed), zap.NewNop())
		calc := damage.NewCalculator(element.Neutral(), rng)
		prim := func(label string) stats.PrimaryAttributes {
			return stats.PrimaryAttributes{
				Strength: rapid.IntRange(0, 300).Draw(rt, label+"-str"),
				Speed:    rapid.IntRange(0, 300).Draw(rt, label+"-spd"),
				Spirit:   rapid.IntRange(0, 300).Draw(rt, label+"-spi"),
			}
		}
		s := strike(
			rapid.SampledFrom([]stats.DamageType{stats.Physical, stats.Elemental, stats.Mental, stats.TrueDamage}).Draw(rt, "type"),
			rapid.SampledFrom([]stats.DamageProperty{stats.Normal, stats.Piercing, stats.ArmorBreak, stats.TrueProperty}).Draw(rt, "prop"),
			rapid.SampledFrom([]stats.Method{stats.Melee, stats.Ranged, stats.Auto}).Draw(rt, "method"),
		)
		res := calc.Resolve(damage.Attack{
			Attacker: stats.Resolve(prim("att"), stats.Equipment{}, nil),
			Defender: stats.Resolve(prim("def"), stats.Equipment{}, nil),
			Skill:    s,
		})
		assert.GreaterOrEqual(rt, res.Final, 0)
		if !res.Landed() {
			assert.Equal(rt, 0, res.Final)
		}
	})
}
