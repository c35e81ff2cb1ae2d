package skill_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/shinobi/internal/game/condition"
	"github.com/cory-johannsen/shinobi/internal/game/skill"
	"github.com/cory-johannsen/shinobi/internal/game/stats"
)

const fireballYAML = `
id: fireball
name: Fireball
category: main
chakra_cost: 12
cooldown: 2
multiplier: 1.4
base_damage: 5
damage_per_level: 2
scaling: spirit
damage_type: elemental
property: normal
method: ranged
element: fire
effects:
  - id: scorch
    kind: burn
    value: 3
    duration: 2
    chance: 0.5
    damage_type: elemental
effect_refs: [daze]
`

func effectRegistry() *condition.Registry {
	reg := condition.NewRegistry()
	reg.Register(&condition.Definition{ID: "daze", Kind: condition.KindConfusion, Duration: 2})
	return reg
}

func TestLoadFromBytes_Fireball(t *testing.T) {
	s, err := skill.LoadFromBytes([]byte(fireballYAML), effectRegistry())
	require.NoError(t, err)
	assert.Equal(t, "Fireball", s.DisplayName())
	assert.Equal(t, skill.CategoryMain, s.Category)
	assert.Equal(t, stats.Spirit, s.Scaling)
	assert.Equal(t, stats.Elemental, s.DamageType)
	assert.Equal(t, stats.Ranged, s.Method)
	assert.Equal(t, "fire", string(s.Element))
	require.Len(t, s.Effects, 2)
	assert.Equal(t, "scorch", s.Effects[0].ID)
	assert.Equal(t, "daze", s.Effects[1].ID)
	assert.True(t, s.Damaging())
}

func TestLoadFromBytes_UnknownEffectRef(t *testing.T) {
	_, err := skill.LoadFromBytes([]byte("id: x\neffect_refs: [nope]\n"), effectRegistry())
	assert.ErrorContains(t, err, "nope")
	_, err = skill.LoadFromBytes([]byte("id: x\neffect_refs: [daze]\n"), nil)
	assert.Error(t, err)
}

func TestLoadFromBytes_RejectsUnknownEnum(t *testing.T) {
	_, err := skill.LoadFromBytes([]byte("id: x\ndamage_type: plasma\n"), nil)
	assert.Error(t, err)
	_, err = skill.LoadFromBytes([]byte("id: x\ncategory: ultimate\n"), nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		s    skill.Skill
		ok   bool
	}{
		{"basic", *skill.BasicAttack(), true},
		{"missing id", skill.Skill{}, false},
		{"negative cost", skill.Skill{ID: "x", ChakraCost: -1}, false},
		{"multiplier without scaling", skill.Skill{ID: "x", Multiplier: 1}, false},
		{"upkeep on main", skill.Skill{ID: "x", UpkeepCost: 2}, false},
		{"upkeep on toggle", skill.Skill{ID: "x", Category: skill.CategoryToggle, UpkeepCost: 2}, true},
		{"damaging passive", skill.Skill{ID: "x", Category: skill.CategoryPassive, BaseDamage: 3}, false},
		{"passive on main", skill.Skill{ID: "x", Passive: &condition.Passive{ID: "p", Kind: condition.PassiveRegen}}, false},
		{"instant toggle effect", skill.Skill{ID: "x", Category: skill.CategoryToggle, Effects: []*condition.Definition{
			{ID: "h", Kind: condition.KindHeal, Value: 3},
		}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.s.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fireball.yaml"), []byte(fireballYAML), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stance.yaml"), []byte(`
id: iron_stance
category: toggle
chakra_cost: 8
upkeep_cost: 2
effects:
  - id: iron_skin
    kind: buff
    target: self
    attribute: strength
    value: 10
`), 0644))

	reg, err := skill.LoadDirectory(dir, effectRegistry())
	require.NoError(t, err)
	_, ok := reg.Get("fireball")
	assert.True(t, ok)
	stance, ok := reg.Get("iron_stance")
	require.True(t, ok)
	assert.Equal(t, skill.CategoryToggle, stance.Category)
	_, ok = reg.Get(skill.BasicAttackID)
	assert.True(t, ok, "basic attack is always registered")
	assert.Len(t, reg.All(), 3)
}

func TestLoadDirectory_DuplicateID(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("id: x\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte("id: x\n"), 0644))
	_, err := skill.LoadDirectory(dir, nil)
	assert.Error(t, err)
}

func TestLoadDirectory_MissingDir(t *testing.T) {
	_, err := skill.LoadDirectory(filepath.Join(t.TempDir(), "nope"), nil)
	assert.Error(t, err)
}

func TestInstance_Cooldown(t *testing.T) {
	s := &skill.Skill{ID: "x", Cooldown: 2}
	inst := skill.NewInstance(s, 1)
	assert.True(t, inst.Ready())
	inst.StartCooldown()
	assert.False(t, inst.Ready())
	inst.TickCooldown()
	assert.Equal(t, 1, inst.Cooldown)
	inst.TickCooldown()
	inst.TickCooldown()
	assert.Equal(t, 0, inst.Cooldown)
	assert.True(t, inst.Ready())
	inst.StartCooldown()
	inst.ResetCooldown()
	assert.True(t, inst.Ready())
}

func TestNewInstance_Preconditions(t *testing.T) {
	assert.Panics(t, func() { skill.NewInstance(nil, 1) })
	assert.Panics(t, func() { skill.NewInstance(skill.BasicAttack(), 0) })
}

func TestInstance_Clone(t *testing.T) {
	inst := skill.NewInstance(skill.BasicAttack(), 3)
	c := inst.Clone()
	c.Active = true
	c.Cooldown = 4
	assert.False(t, inst.Active)
	assert.Equal(t, 0, inst.Cooldown)
	assert.Same(t, inst.Skill, c.Skill)
}

func TestProperty_Cooldown_NeverNegative(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		limit := rapid.IntRange(0, 10).Draw(rt, "limit")
		inst := skill.NewInstance(&skill.Skill{ID: "x", Cooldown: limit}, 1)
		inst.StartCooldown()
		ticks := rapid.IntRange(0, 20).Draw(rt, "ticks")
		for i := 0; i < ticks; i++ {
			inst.TickCooldown()
			assert.GreaterOrEqual(rt, inst.Cooldown, 0)
		}
		assert.Equal(rt, ticks >= limit, inst.Ready())
	})
}
