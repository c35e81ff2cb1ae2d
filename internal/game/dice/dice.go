// Package dice provides the randomness abstraction and roll audit types for
// the shinobi combat engine. Every probabilistic decision in the engine draws
// from a Source so encounters are reproducible under a fixed seed.
package dice

import "fmt"

// Source is the randomness provider for all combat rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Float64 returns a uniformly distributed value in [0, 1).
	Float64() float64
}

// Roll holds the audit trail for a single probability check.
//
// Postcondition: Success == (Chance > 0 && Value < Chance).
type Roll struct {
	Label   string  // what the roll decided, e.g. "hit" or "guts"
	Chance  float64 // success probability in [0, 1]
	Value   float64 // value drawn from the Source
	Success bool
}

// String returns a human-readable audit string in the format:
//
//	"hit 0.920 → 0.413 success"
//
// Precondition: r.Label is non-empty.
func (r Roll) String() string {
	if r.Label == "" {
		panic("dice: Roll.String() precondition violated: Label must be non-empty")
	}
	verdict := "failure"
	if r.Success {
		verdict = "success"
	}
	return fmt.Sprintf("%s %.3f → %.3f %s", r.Label, r.Chance, r.Value, verdict)
}

// Check draws one value from src and reports whether it falls under chance.
// Chances outside [0, 1] are clamped; a chance of 0 never succeeds and a
// chance of 1 always succeeds.
//
// Precondition: src must be non-nil.
// Postcondition: Exactly one value is drawn from src.
func Check(label string, chance float64, src Source) Roll {
	if chance < 0 {
		chance = 0
	}
	if chance > 1 {
		chance = 1
	}
	v := src.Float64()
	return Roll{
		Label:   label,
		Chance:  chance,
		Value:   v,
		Success: chance > 0 && v < chance,
	}
}
