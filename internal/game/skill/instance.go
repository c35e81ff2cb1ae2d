package skill

import "fmt"

// Instance is a leveled copy of a Skill held by one combatant. Only the
// cooldown and toggle state mutate during combat.
type Instance struct {
	Skill *Skill
	Level int
	// Cooldown is the number of owner upkeeps before the skill is usable again.
	Cooldown int
	// Active is the toggle activation state; always false for other categories.
	Active bool
}

// NewInstance creates a ready instance of s at level.
//
// Precondition: s must not be nil and level must be >= 1.
// Postcondition: Ready() is true and Active is false.
func NewInstance(s *Skill, level int) *Instance {
	if s == nil {
		panic("skill: NewInstance requires a skill")
	}
	if level < 1 {
		panic(fmt.Sprintf("skill: level must be >= 1, got %d", level))
	}
	return &Instance{Skill: s, Level: level}
}

// ID returns the template's stable ID.
func (i *Instance) ID() string { return i.Skill.ID }

// Ready reports whether the skill is off cooldown.
func (i *Instance) Ready() bool { return i.Cooldown == 0 }

// StartCooldown sets the remaining cooldown to the template maximum.
func (i *Instance) StartCooldown() { i.Cooldown = i.Skill.Cooldown }

// TickCooldown decrements the remaining cooldown, never below zero.
func (i *Instance) TickCooldown() {
	if i.Cooldown > 0 {
		i.Cooldown--
	}
}

// ResetCooldown makes the skill ready immediately.
func (i *Instance) ResetCooldown() { i.Cooldown = 0 }

// Clone returns an independent copy sharing the template.
func (i *Instance) Clone() *Instance {
	cp := *i
	return &cp
}
