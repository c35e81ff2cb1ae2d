package ai

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/cory-johannsen/shinobi/internal/game/combat"
	"github.com/cory-johannsen/shinobi/internal/scripting"
)

// BasicID names the built-in combat.BasicPolicy in every Registry.
const BasicID = "basic"

// Registry indexes enemy policies by AI ID.
//
// Invariant: each ID is registered at most once.
type Registry struct {
	policies map[string]combat.Policy
}

// NewRegistry returns a Registry holding only the basic policy.
func NewRegistry() *Registry {
	return &Registry{policies: map[string]combat.Policy{BasicID: combat.BasicPolicy{}}}
}

// Register stores policy under id.
//
// Precondition: policy must not be nil.
// Postcondition: returns error on ID collision.
func (r *Registry) Register(id string, policy combat.Policy) error {
	if policy == nil {
		panic("ai: Register requires a policy")
	}
	if _, exists := r.policies[id]; exists {
		return fmt.Errorf("ai.Registry: policy %q already registered", id)
	}
	r.policies[id] = policy
	return nil
}

// PolicyFor returns the policy for id. The empty ID selects the basic policy.
func (r *Registry) PolicyFor(id string) (combat.Policy, bool) {
	if id == "" {
		id = BasicID
	}
	p, ok := r.policies[id]
	return p, ok
}

// IDs returns every registered ID in lexical order.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.policies))
	for id := range r.policies {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// LoadDirectory loads every subdirectory of dir as a script set named after
// the subdirectory and registers a ScriptPolicy for it. Loose *.lua files in
// dir form the global set shared by all script policies.
//
// Postcondition: returns a wrapped error on the first set that fails to load.
func LoadDirectory(dir string, scripts *scripting.Manager, instLimit int, logger *zap.Logger) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ai: reading %q: %w", dir, err)
	}
	r := NewRegistry()
	hasGlobal := false
	for _, e := range entries {
		if !e.IsDir() {
			hasGlobal = hasGlobal || filepath.Ext(e.Name()) == ".lua"
			continue
		}
		id := e.Name()
		if err := scripts.LoadSet(id, filepath.Join(dir, id), instLimit); err != nil {
			return nil, fmt.Errorf("ai: %w", err)
		}
		if err := r.Register(id, NewScriptPolicy(scripts, id, nil, logger)); err != nil {
			return nil, err
		}
	}
	if hasGlobal {
		if err := scripts.LoadGlobal(dir, instLimit); err != nil {
			return nil, fmt.Errorf("ai: %w", err)
		}
	}
	return r, nil
}
