package combat_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/shinobi/internal/game/combat"
	"github.com/cory-johannsen/shinobi/internal/game/condition"
	"github.com/cory-johannsen/shinobi/internal/game/damage"
	"github.com/cory-johannsen/shinobi/internal/game/dice"
	"github.com/cory-johannsen/shinobi/internal/game/element"
	"github.com/cory-johannsen/shinobi/internal/game/skill"
	"github.com/cory-johannsen/shinobi/internal/game/stats"
)

// Zero attributes give 50 HP, 30 chakra, no defense, no evasion, and 10 initiative.

func strike() *skill.Skill {
	return &skill.Skill{
		ID:         "strike",
		Name:       "Strike",
		Category:   skill.CategoryMain,
		BaseDamage: 10,
		DamageType: stats.Physical,
		Property:   stats.Normal,
		Method:     stats.Melee,
	}
}

func sideSkill(id string, effects ...*condition.Definition) *skill.Skill {
	return &skill.Skill{ID: id, Category: skill.CategorySide, Effects: effects}
}

func fighter(id string, kind combat.Kind, primary stats.PrimaryAttributes, skills ...*skill.Skill) *combat.Combatant {
	c := combat.NewCombatant(id, id, kind, primary, stats.Equipment{})
	for _, s := range skills {
		c.AddSkill(skill.NewInstance(s, 1))
	}
	return c
}

func player(skills ...*skill.Skill) *combat.Combatant {
	return fighter("hero", combat.KindPlayer, stats.PrimaryAttributes{}, skills...)
}

func enemy(skills ...*skill.Skill) *combat.Combatant {
	return fighter("bandit", combat.KindEnemy, stats.PrimaryAttributes{}, skills...)
}

// hit scripts one landed, non-critical, non-evaded attack.
var hit = []float64{dice.Succeed, dice.Fail, dice.Fail}

func rolls(groups ...[]float64) []float64 {
	var out []float64
	for _, g := range groups {
		out = append(out, g...)
	}
	return append(out, dice.Fail)
}

func newEncounter(t *testing.T, p, e *combat.Combatant, opts combat.Options, values ...float64) (*combat.Encounter, *dice.ScriptedSource) {
	t.Helper()
	if len(values) == 0 {
		values = []float64{dice.Fail}
	}
	src := dice.NewScriptedSource(values...)
	rng := dice.NewLoggedRoller(src, zaptest.NewLogger(t))
	if opts.Logger == nil {
		opts.Logger = zaptest.NewLogger(t)
	}
	enc := combat.NewEncounter(p, e, damage.NewCalculator(element.Neutral(), rng), rng, opts)
	return enc, src
}

// started returns an encounter whose player turn is open in the side phase.
func started(t *testing.T, p, e *combat.Combatant, opts combat.Options, values ...float64) (*combat.Encounter, *dice.ScriptedSource) {
	t.Helper()
	enc, src := newEncounter(t, p, e, opts, values...)
	_, err := enc.Start()
	require.NoError(t, err)
	require.Same(t, p, enc.Actor())
	_, err = enc.BeginTurn()
	require.NoError(t, err)
	require.Equal(t, combat.PhaseSide, enc.Phase())
	return enc, src
}

func requireReason(t *testing.T, err error, want combat.ReasonCode) {
	t.Helper()
	var rej *combat.Rejection
	require.ErrorAs(t, err, &rej)
	require.Equal(t, want, rej.Reason, rej.Message)
}

func logText(res combat.TurnResult) []string {
	out := make([]string, len(res.Log))
	for i, l := range res.Log {
		out[i] = l.Message
	}
	return out
}
