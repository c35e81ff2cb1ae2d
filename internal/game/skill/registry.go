package skill

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/shinobi/internal/game/condition"
)

// Registry holds skill templates keyed by ID.
type Registry struct {
	skills map[string]*Skill
}

// NewRegistry creates a Registry containing only BasicAttack.
func NewRegistry() *Registry {
	r := &Registry{skills: make(map[string]*Skill)}
	r.Register(BasicAttack())
	return r
}

// Register adds s, overwriting any existing entry with the same ID.
//
// Precondition: s must not be nil and s.ID must not be empty.
func (r *Registry) Register(s *Skill) {
	if s == nil || s.ID == "" {
		panic("skill: Register requires a skill with an id")
	}
	r.skills[s.ID] = s
}

// Get returns the skill for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Skill, bool) {
	s, ok := r.skills[id]
	return s, ok
}

// All returns the registered skills sorted by ID.
func (r *Registry) All() []*Skill {
	out := make([]*Skill, 0, len(r.skills))
	for _, s := range r.skills {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadFromBytes parses one skill from YAML, resolves its effect_refs
// against effects, and validates it.
//
// Precondition: effects may be nil only when the skill has no effect_refs.
// Postcondition: Returns a validated *Skill whose Effects include every referenced definition.
func LoadFromBytes(data []byte, effects *condition.Registry) (*Skill, error) {
	var s Skill
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing skill YAML: %w", err)
	}
	for _, ref := range s.EffectRefs {
		if effects == nil {
			return nil, fmt.Errorf("skill %q: effect_refs given without an effect registry", s.ID)
		}
		def, ok := effects.Get(ref)
		if !ok {
			return nil, fmt.Errorf("skill %q: unknown effect %q", s.ID, ref)
		}
		s.Effects = append(s.Effects, def)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadDirectory reads every *.yaml file in dir as one skill.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a Registry holding BasicAttack plus every loaded
// skill, or an error on the first parse, reference, or validation failure.
func LoadDirectory(dir string, effects *condition.Registry) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading skill dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	seen := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		s, err := LoadFromBytes(data, effects)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		if prev, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("skill %q defined in both %q and %q", s.ID, prev, path)
		}
		seen[s.ID] = path
		reg.Register(s)
	}
	return reg, nil
}
