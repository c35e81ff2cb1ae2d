// Package roster provides combatant templates loaded from YAML and builds
// live combatants from them.
package roster

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/shinobi/internal/game/condition"
	"github.com/cory-johannsen/shinobi/internal/game/element"
	"github.com/cory-johannsen/shinobi/internal/game/stats"
)

// SkillRef names a skill template and the level the combatant knows it at.
type SkillRef struct {
	ID    string `yaml:"id"`
	Level int    `yaml:"level"` // 0 = 1
}

// Template defines a reusable combatant archetype: an enemy type or a
// player snapshot.
type Template struct {
	ID          string                  `yaml:"id"`
	Name        string                  `yaml:"name"`
	Description string                  `yaml:"description"`
	Kind        string                  `yaml:"kind"` // "player" or "enemy"; empty = enemy
	Element     element.Element         `yaml:"element"`
	Attributes  stats.PrimaryAttributes `yaml:"attributes"`
	Equipment   stats.Equipment         `yaml:"equipment"`
	// Passives are equipment passives in slot order.
	Passives []*condition.Passive `yaml:"passives"`
	Skills   []SkillRef           `yaml:"skills"`
	// AI is the enemy policy ID; empty selects the basic policy.
	AI string `yaml:"ai"`
}

// Validate checks the template's own fields. Skill and element references
// are checked by Build.
//
// Postcondition: Returns nil, or a joined error listing every violation.
func (t *Template) Validate() error {
	var errs []error
	if t.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if t.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	switch t.Kind {
	case "", "enemy", "player":
	default:
		errs = append(errs, fmt.Errorf("kind must be player or enemy, got %q", t.Kind))
	}
	for _, a := range stats.AllAttributes {
		if v := t.Attributes.Get(a); v < 0 {
			errs = append(errs, fmt.Errorf("attribute %s must be >= 0, got %d", a, v))
		}
	}
	seen := make(map[string]bool, len(t.Skills))
	for _, ref := range t.Skills {
		if ref.ID == "" {
			errs = append(errs, errors.New("skill reference without id"))
			continue
		}
		if seen[ref.ID] {
			errs = append(errs, fmt.Errorf("skill %q listed twice", ref.ID))
		}
		seen[ref.ID] = true
		if ref.Level < 0 {
			errs = append(errs, fmt.Errorf("skill %q level must be >= 0, got %d", ref.ID, ref.Level))
		}
	}
	for i, p := range t.Passives {
		if p == nil {
			errs = append(errs, fmt.Errorf("passive slot %d is empty", i))
			continue
		}
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("template %q: %w", t.ID, errors.Join(errs...))
}

// LoadTemplateFromBytes parses a single template from raw YAML bytes.
// Unknown fields are rejected.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// Roster indexes templates by ID.
type Roster struct {
	templates map[string]*Template
}

// Get returns the template for id.
func (r *Roster) Get(id string) (*Template, bool) {
	t, ok := r.templates[id]
	return t, ok
}

// All returns every template sorted by ID.
func (r *Roster) All() []*Template {
	out := make([]*Template, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadTemplates reads all *.yaml files in dir.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns every template or an error on the first parse,
// validation, or duplicate-ID failure.
func LoadTemplates(dir string) (*Roster, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading template dir %q: %w", dir, err)
	}

	r := &Roster{templates: make(map[string]*Template)}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		if _, dup := r.templates[tmpl.ID]; dup {
			return nil, fmt.Errorf("loading %q: duplicate template id %q", path, tmpl.ID)
		}
		r.templates[tmpl.ID] = tmpl
	}
	return r, nil
}
