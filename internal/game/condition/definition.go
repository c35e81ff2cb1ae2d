package condition

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/shinobi/internal/game/stats"
)

// Kind is the behavior an effect definition produces.
type Kind int

const (
	KindStun Kind = iota
	KindPoison
	KindBleed
	KindBurn
	KindBuff
	KindDebuff
	KindHeal
	KindDrain
	KindConfusion
	KindSilence
	KindShield
	KindInvulnerable
	KindCurse
	KindReflect
	KindRegen
	KindChakraRegen
)

// AllKinds lists every Kind in declaration order.
var AllKinds = []Kind{
	KindStun, KindPoison, KindBleed, KindBurn, KindBuff, KindDebuff, KindHeal, KindDrain,
	KindConfusion, KindSilence, KindShield, KindInvulnerable, KindCurse, KindReflect,
	KindRegen, KindChakraRegen,
}

var kindNames = map[Kind]string{
	KindStun:         "stun",
	KindPoison:       "poison",
	KindBleed:        "bleed",
	KindBurn:         "burn",
	KindBuff:         "buff",
	KindDebuff:       "debuff",
	KindHeal:         "heal",
	KindDrain:        "drain",
	KindConfusion:    "confusion",
	KindSilence:      "silence",
	KindShield:       "shield",
	KindInvulnerable: "invulnerable",
	KindCurse:        "curse",
	KindReflect:      "reflect",
	KindRegen:        "regen",
	KindChakraRegen:  "chakra_regen",
}

// String returns the content name of k, e.g. "chakra_regen".
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// UnmarshalText implements encoding.TextUnmarshaler for YAML content.
func (k *Kind) UnmarshalText(text []byte) error {
	want := strings.ToLower(string(text))
	for kind, name := range kindNames {
		if name == want {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("condition: unknown effect kind %q", string(text))
}

// IsDoT reports whether k deals damage at each owner upkeep.
func (k Kind) IsDoT() bool {
	switch k {
	case KindPoison, KindBleed, KindBurn:
		return true
	default:
		return false
	}
}

// IsPeriodic reports whether k acts at each owner upkeep, so every tick of
// its duration has an effect of its own.
func (k Kind) IsPeriodic() bool {
	return k.IsDoT() || k == KindRegen || k == KindChakraRegen
}

// IsInstant reports whether k resolves on application and is never stored
// as a Buff.
func (k Kind) IsInstant() bool {
	switch k {
	case KindHeal, KindDrain:
		return true
	default:
		return false
	}
}

// IsHarmful reports whether k is subject to the target's status resistance
// when applied to an enemy.
func (k Kind) IsHarmful() bool {
	switch k {
	case KindStun, KindPoison, KindBleed, KindBurn, KindDebuff, KindDrain,
		KindConfusion, KindSilence, KindCurse:
		return true
	case KindBuff, KindHeal, KindShield, KindInvulnerable, KindReflect, KindRegen, KindChakraRegen:
		return false
	default:
		panic(fmt.Sprintf("condition: invalid effect kind %d", int(k)))
	}
}

// Target selects which side of an action an effect lands on.
type Target int

const (
	// TargetEnemy applies the effect to the action's defender.
	TargetEnemy Target = iota
	// TargetSelf applies the effect to the action's user.
	TargetSelf
)

// String returns "enemy" or "self".
func (t Target) String() string {
	switch t {
	case TargetEnemy:
		return "enemy"
	case TargetSelf:
		return "self"
	default:
		return "unknown"
	}
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty value decodes as TargetEnemy.
func (t *Target) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "", "enemy":
		*t = TargetEnemy
	case "self":
		*t = TargetSelf
	default:
		return fmt.Errorf("condition: unknown target %q", string(text))
	}
	return nil
}

// DefaultConfusionChance is the redirect chance of a confusion effect whose value is 0.
const DefaultConfusionChance = 0.5

// Definition is the static description of an effect, loaded from YAML or
// embedded in a skill.
//
// Value is interpreted per Kind: damage per tick for DoTs, the modifier
// value for buff/debuff, HP for heal/regen, chakra for chakra_regen, damage
// for drain, absorption for shield, the healing penalty fraction for curse,
// the returned damage fraction for reflect, and the redirect chance for
// confusion. Stun, silence and invulnerable ignore Value.
type Definition struct {
	ID          string               `yaml:"id"`
	Name        string               `yaml:"name"`
	Description string               `yaml:"description"`
	Kind        Kind                 `yaml:"kind"`
	Value       float64              `yaml:"value"`
	Duration    int                  `yaml:"duration"`
	Chance      float64              `yaml:"chance"` // 0 = always
	Target      Target               `yaml:"target"`
	Attribute   stats.Attribute      `yaml:"attribute"`
	Mode        stats.Mode           `yaml:"mode"`
	DamageType  stats.DamageType     `yaml:"damage_type"`
	Property    stats.DamageProperty `yaml:"property"`
}

// ApplyChance returns the probability this definition lands before status
// resistance. A zero Chance means the effect always lands.
func (d *Definition) ApplyChance() float64 {
	if d.Chance <= 0 {
		return 1
	}
	return d.Chance
}

// DisplayName returns Name, falling back to ID.
func (d *Definition) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}

// Validate checks d for content-authoring errors.
//
// Postcondition: Returns nil when d is usable, or a joined error listing every violation.
func (d *Definition) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if _, ok := kindNames[d.Kind]; !ok {
		errs = append(errs, fmt.Errorf("invalid kind %d", int(d.Kind)))
	}
	if d.Duration < 0 {
		errs = append(errs, fmt.Errorf("duration must be >= 0, got %d", d.Duration))
	}
	if d.Chance < 0 || d.Chance > 1 {
		errs = append(errs, fmt.Errorf("chance must be in [0,1], got %v", d.Chance))
	}
	switch d.Kind {
	case KindBuff, KindDebuff:
		if d.Attribute == stats.AttributeNone {
			errs = append(errs, fmt.Errorf("%s requires an attribute", d.Kind))
		}
		if d.Mode == stats.ModeMul && d.Value < 0 {
			errs = append(errs, fmt.Errorf("multiplicative %s value must be >= 0, got %v", d.Kind, d.Value))
		}
	case KindCurse, KindReflect, KindConfusion:
		if d.Value < 0 || d.Value > 1 {
			errs = append(errs, fmt.Errorf("%s value must be in [0,1], got %v", d.Kind, d.Value))
		}
	default:
		if d.Value < 0 {
			errs = append(errs, fmt.Errorf("%s value must be >= 0, got %v", d.Kind, d.Value))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("effect %q: %w", d.ID, errors.Join(errs...))
}

// Registry holds all known Definitions keyed by ID.
type Registry struct {
	defs map[string]*Definition
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

// Register adds def to the registry, overwriting any existing entry with the same ID.
//
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) Register(def *Definition) {
	if def == nil || def.ID == "" {
		panic("condition: Register requires a definition with an id")
	}
	r.defs[def.ID] = def
}

// Get returns the Definition for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Definition, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns the registered Definitions sorted by ID.
func (r *Registry) All() []*Definition {
	out := make([]*Definition, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses each as a Definition,
// validates it, and returns a populated Registry.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading effect dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def Definition
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("validating %q: %w", path, err)
		}
		if _, dup := reg.Get(def.ID); dup {
			return nil, fmt.Errorf("duplicate effect id %q in %q", def.ID, path)
		}
		reg.Register(&def)
	}
	return reg, nil
}
