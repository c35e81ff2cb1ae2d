package condition

import (
	"fmt"

	"github.com/google/uuid"
)

// Buff is one applied effect instance on a combatant.
type Buff struct {
	ID        uuid.UUID
	Name      string
	Remaining int
	Def       *Definition
	// Source is the stable ID of the skill or passive that created the buff.
	Source string
	// Persistent buffs are never decremented by Tick; toggle buffs use this.
	Persistent bool
	// Held buffs skip their next Tick. A gating effect cast on a combatant
	// between its turns is held so its duration counts that combatant's
	// next turn.
	Held bool
	// Charge is the absorption a shield has left.
	Charge float64
}

// ActiveSet is the ordered buff list owned by one combatant. Every
// application appends an independent instance; buffs of the same kind are
// never merged.
// It is not safe for concurrent use; the caller must serialise access.
type ActiveSet struct {
	buffs []*Buff
}

// NewActiveSet creates an empty ActiveSet.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{}
}

// Apply appends a new Buff for def lasting def.Duration ticks.
//
// Precondition: def must not be nil, def.Duration must be >= 0, and def.Kind
// must not be instant. Violations are content bugs and panic.
// Postcondition: Len() grows by exactly one; the returned Buff is last in All().
func (s *ActiveSet) Apply(def *Definition, source string) *Buff {
	return s.add(def, source, false)
}

// ApplyPersistent appends a Buff for def that Tick never expires. It is
// removed only by Remove or RemoveBySource.
//
// Precondition: same as Apply.
func (s *ActiveSet) ApplyPersistent(def *Definition, source string) *Buff {
	return s.add(def, source, true)
}

func (s *ActiveSet) add(def *Definition, source string, persistent bool) *Buff {
	if def == nil {
		panic("condition: Apply requires a definition")
	}
	if def.Duration < 0 {
		panic(fmt.Sprintf("condition: effect %q has negative duration %d", def.ID, def.Duration))
	}
	if def.Kind.IsInstant() {
		panic(fmt.Sprintf("condition: effect %q of kind %s is instant and cannot be stored", def.ID, def.Kind))
	}
	b := &Buff{
		ID:         uuid.New(),
		Name:       def.DisplayName(),
		Remaining:  def.Duration,
		Def:        def,
		Source:     source,
		Persistent: persistent,
	}
	if def.Kind == KindShield {
		b.Charge = def.Value
	}
	s.buffs = append(s.buffs, b)
	return b
}

// Tick decrements every non-persistent buff by one and removes those that
// reach zero. A buff applied with duration 0 survives until the next Tick.
// A Held buff skips one Tick instead and is released.
//
// Postcondition: every returned Buff has been removed; Remaining >= 0 for all buffs still present.
func (s *ActiveSet) Tick() []*Buff {
	var expired []*Buff
	kept := s.buffs[:0]
	for _, b := range s.buffs {
		if b.Persistent {
			kept = append(kept, b)
			continue
		}
		if b.Held {
			b.Held = false
			kept = append(kept, b)
			continue
		}
		if b.Remaining > 0 {
			b.Remaining--
		}
		if b.Remaining == 0 {
			expired = append(expired, b)
			continue
		}
		kept = append(kept, b)
	}
	clear(s.buffs[len(kept):])
	s.buffs = kept
	return expired
}

// Remove deletes the buff with id. It reports whether a buff was removed.
func (s *ActiveSet) Remove(id uuid.UUID) bool {
	for i, b := range s.buffs {
		if b.ID == id {
			s.buffs = append(s.buffs[:i], s.buffs[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveBySource deletes every buff whose Source equals source and returns them
// in application order. Buffs from other sources are untouched.
//
// Postcondition: CountBySource(source) == 0.
func (s *ActiveSet) RemoveBySource(source string) []*Buff {
	var removed []*Buff
	kept := s.buffs[:0]
	for _, b := range s.buffs {
		if b.Source == source {
			removed = append(removed, b)
			continue
		}
		kept = append(kept, b)
	}
	clear(s.buffs[len(kept):])
	s.buffs = kept
	return removed
}

// CountBySource returns how many buffs carry source.
func (s *ActiveSet) CountBySource(source string) int {
	n := 0
	for _, b := range s.buffs {
		if b.Source == source {
			n++
		}
	}
	return n
}

// HasKind reports whether any active buff is of kind k.
func (s *ActiveSet) HasKind(k Kind) bool {
	for _, b := range s.buffs {
		if b.Def.Kind == k {
			return true
		}
	}
	return false
}

// Len returns the number of active buffs.
func (s *ActiveSet) Len() int {
	return len(s.buffs)
}

// All returns the active buffs in application order.
// The slice is a new allocation, but the pointed-to Buff values are shared;
// callers outside the combat package must not modify them.
func (s *ActiveSet) All() []*Buff {
	out := make([]*Buff, len(s.buffs))
	copy(out, s.buffs)
	return out
}

// Snapshot returns value copies of the active buffs in application order.
func (s *ActiveSet) Snapshot() []Buff {
	out := make([]Buff, len(s.buffs))
	for i, b := range s.buffs {
		out[i] = *b
	}
	return out
}

// Clone returns a deep copy of s. Definitions are shared.
func (s *ActiveSet) Clone() *ActiveSet {
	c := &ActiveSet{buffs: make([]*Buff, len(s.buffs))}
	for i, b := range s.buffs {
		cp := *b
		c.buffs[i] = &cp
	}
	return c
}
