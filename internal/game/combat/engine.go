package combat

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/shinobi/internal/game/damage"
	"github.com/cory-johannsen/shinobi/internal/game/element"
)

// Engine tracks every live Encounter by ID and keeps a combatant in at most
// one of them. All methods are safe for concurrent use; each Encounter
// itself must still be driven by one caller at a time.
type Engine struct {
	elements *element.Table
	logger   *zap.Logger

	mu         sync.RWMutex
	encounters map[uuid.UUID]*Encounter
	busy       map[string]uuid.UUID
}

// NewEngine creates an empty Engine resolving elemental damage with elements.
//
// Precondition: elements must not be nil.
func NewEngine(elements *element.Table, logger *zap.Logger) *Engine {
	if elements == nil {
		panic("combat: NewEngine requires an element table")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		elements:   elements,
		logger:     logger,
		encounters: make(map[uuid.UUID]*Encounter),
		busy:       make(map[string]uuid.UUID),
	}
}

// StartEncounter registers a new encounter between player and enemy and
// runs its Start step. rng drives both the damage calculator and the
// encounter's own rolls.
//
// Precondition: rng must not be nil.
// Postcondition: returns an error if either combatant is already in an encounter.
func (e *Engine) StartEncounter(player, enemy *Combatant, rng damage.Roller, opts Options) (*Encounter, TurnResult, error) {
	if opts.Logger == nil {
		opts.Logger = e.logger
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, c := range []*Combatant{player, enemy} {
		if id, ok := e.busy[c.ID]; ok {
			return nil, TurnResult{}, fmt.Errorf("combatant %q is already in encounter %s", c.ID, id)
		}
	}
	enc := NewEncounter(player, enemy, damage.NewCalculator(e.elements, rng), rng, opts)
	res, err := enc.Start()
	if err != nil {
		return nil, TurnResult{}, err
	}
	e.encounters[enc.ID] = enc
	e.busy[player.ID] = enc.ID
	e.busy[enemy.ID] = enc.ID
	return enc, res, nil
}

// Get returns the encounter with id.
func (e *Engine) Get(id uuid.UUID) (*Encounter, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	enc, ok := e.encounters[id]
	return enc, ok
}

// EncounterFor returns the encounter combatantID is fighting in.
func (e *Engine) EncounterFor(combatantID string) (*Encounter, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	id, ok := e.busy[combatantID]
	if !ok {
		return nil, false
	}
	return e.encounters[id], true
}

// End removes the encounter with id and frees its combatants. Ending an
// unknown ID is a no-op.
func (e *Engine) End(id uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	enc, ok := e.encounters[id]
	if !ok {
		return
	}
	delete(e.busy, enc.Player.ID)
	delete(e.busy, enc.Enemy.ID)
	delete(e.encounters, id)
}

// Len returns the number of live encounters.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.encounters)
}

// IDs returns the live encounter IDs in lexical order.
func (e *Engine) IDs() []uuid.UUID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]uuid.UUID, 0, len(e.encounters))
	for id := range e.encounters {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
