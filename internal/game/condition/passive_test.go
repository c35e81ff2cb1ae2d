package condition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/shinobi/internal/game/condition"
	"github.com/cory-johannsen/shinobi/internal/game/element"
	"github.com/cory-johannsen/shinobi/internal/game/stats"
)

func TestPassive_DecodeYAML(t *testing.T) {
	var p condition.Passive
	err := yaml.Unmarshal([]byte(`
id: ember_ring
name: Ember Ring
trigger: on_hit
kind: burn
value: 4
chance: 0.3
duration: 3
`), &p)
	require.NoError(t, err)
	assert.Equal(t, condition.TriggerOnHit, p.Trigger)
	assert.Equal(t, condition.PassiveBurn, p.Kind)
	assert.Equal(t, 0.3, p.FireChance())
	require.NoError(t, p.Validate())
}

func TestPassive_TriggerDefaultsToAlways(t *testing.T) {
	var p condition.Passive
	require.NoError(t, yaml.Unmarshal([]byte("id: x\nkind: guts_bonus\nvalue: 0.1\n"), &p))
	assert.Equal(t, condition.TriggerAlways, p.Trigger)
	assert.Equal(t, 1.0, p.FireChance())
}

func TestPassive_DecodeRejectsUnknown(t *testing.T) {
	var p condition.Passive
	assert.Error(t, yaml.Unmarshal([]byte("id: x\nkind: teleport\n"), &p))
	assert.Error(t, yaml.Unmarshal([]byte("id: x\nkind: regen\ntrigger: on_dodge\n"), &p))
}

func TestPassive_Validate(t *testing.T) {
	assert.Error(t, (&condition.Passive{ID: "x", Kind: condition.PassiveElementOverride}).Validate())
	assert.NoError(t, (&condition.Passive{ID: "x", Kind: condition.PassiveElementOverride, Element: "fire"}).Validate())
	assert.Error(t, (&condition.Passive{ID: "x", Kind: condition.PassiveLifesteal, Value: 1.5}).Validate())
	assert.Error(t, (&condition.Passive{Kind: condition.PassiveRegen}).Validate())
	assert.Error(t, (&condition.Passive{ID: "x", Kind: condition.PassiveRegen, Chance: -0.1}).Validate())
}

func TestPassive_Defensive(t *testing.T) {
	assert.True(t, condition.PassiveReflect.Defensive())
	assert.True(t, condition.PassiveCounterAttack.Defensive())
	assert.False(t, condition.PassiveLifesteal.Defensive())
	assert.False(t, condition.PassiveBleed.Defensive())
	assert.True(t, condition.PassivePierceDefense.Static())
	assert.False(t, condition.PassiveBurn.Static())
}

func TestPassive_EffectDefinition(t *testing.T) {
	bleed := &condition.Passive{ID: "serrated", Kind: condition.PassiveBleed, Value: 3, Duration: 2}
	def, ok := bleed.EffectDefinition()
	require.True(t, ok)
	assert.Equal(t, condition.KindBleed, def.Kind)
	assert.Equal(t, stats.Physical, def.DamageType)
	assert.Equal(t, condition.TargetEnemy, def.Target)
	assert.NoError(t, def.Validate())

	burn := &condition.Passive{ID: "ember", Kind: condition.PassiveBurn, Value: 3, Duration: 2}
	def, ok = burn.EffectDefinition()
	require.True(t, ok)
	assert.Equal(t, stats.Elemental, def.DamageType)

	seal := &condition.Passive{ID: "seal", Kind: condition.PassiveSealChance, Chance: 0.2}
	def, ok = seal.EffectDefinition()
	require.True(t, ok)
	assert.Equal(t, condition.KindSilence, def.Kind)
	assert.Equal(t, condition.DefaultSealDuration, def.Duration)

	shield := &condition.Passive{ID: "aegis", Kind: condition.PassiveShieldOnStart, Value: 25}
	def, ok = shield.EffectDefinition()
	require.True(t, ok)
	assert.Equal(t, condition.TargetSelf, def.Target)
	assert.Equal(t, 25.0, def.Value)

	_, ok = (&condition.Passive{ID: "x", Kind: condition.PassiveLifesteal}).EffectDefinition()
	assert.False(t, ok)
}

func TestPassive_ElementField(t *testing.T) {
	var p condition.Passive
	require.NoError(t, yaml.Unmarshal([]byte("id: x\nkind: element_override\nelement: water\n"), &p))
	assert.Equal(t, element.Element("water"), p.Element)
}
