package combat

import "fmt"

// ReasonCode identifies why an action was rejected.
type ReasonCode string

const (
	ReasonWrongPhase         ReasonCode = "wrong_phase"
	ReasonSideActionLimit    ReasonCode = "side_action_limit"
	ReasonOnCooldown         ReasonCode = "on_cooldown"
	ReasonInsufficientChakra ReasonCode = "insufficient_chakra"
	ReasonInsufficientHP     ReasonCode = "insufficient_hp"
	ReasonStunned            ReasonCode = "stunned"
	ReasonSilenced           ReasonCode = "silenced"
	ReasonNotUsable          ReasonCode = "not_usable"
	ReasonUnknownSkill       ReasonCode = "unknown_skill"
	ReasonEncounterOver      ReasonCode = "encounter_over"
	ReasonNotYourTurn        ReasonCode = "not_your_turn"
)

// Rejection is returned when an action fails validation. A rejected action
// leaves the encounter unchanged.
type Rejection struct {
	Reason  ReasonCode
	Message string
}

// Error implements error.
func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Reason, r.Message)
}

func reject(reason ReasonCode, format string, args ...any) *Rejection {
	return &Rejection{Reason: reason, Message: fmt.Sprintf(format, args...)}
}
