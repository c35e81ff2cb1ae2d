package combat

import (
	"fmt"

	"github.com/cory-johannsen/shinobi/internal/game/damage"
)

// Severity tags a log entry for presentation.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// LogEntry is one human-readable line of combat narration.
type LogEntry struct {
	Severity Severity
	Message  string
}

// String renders the entry as "[severity] message".
func (l LogEntry) String() string {
	return fmt.Sprintf("[%s] %s", l.Severity, l.Message)
}

// Outcome is the encounter's resolution state.
type Outcome int

const (
	OutcomeOngoing Outcome = iota
	OutcomePlayerWon
	OutcomeEnemyWon
	OutcomeDraw
)

// String returns a human-readable outcome label.
func (o Outcome) String() string {
	switch o {
	case OutcomeOngoing:
		return "ongoing"
	case OutcomePlayerWon:
		return "player won"
	case OutcomeEnemyWon:
		return "enemy won"
	case OutcomeDraw:
		return "draw"
	default:
		return "unknown"
	}
}

// TurnResult reports everything one controller call changed.
// Attacker is the acting combatant of the call and Defender its opponent.
type TurnResult struct {
	Player           Snapshot
	Enemy            Snapshot
	ActorID          string
	Phase            Phase
	Round            int
	Log              []LogEntry
	Damage           []damage.Result
	AttackerDefeated bool
	DefenderDefeated bool
	Outcome          Outcome
}
