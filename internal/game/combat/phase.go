package combat

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
)

// Phase is one step of an actor's turn.
type Phase string

const (
	PhaseUpkeep Phase = "upkeep"
	PhaseSide   Phase = "side"
	PhaseMain   Phase = "main"
	PhaseEnd    Phase = "end"
)

// DefaultMaxSideActions is the number of Side-category uses allowed per turn.
const DefaultMaxSideActions = 2

const (
	eventOpen     = "open"      // upkeep → side
	eventCommit   = "commit"    // side → main
	eventFinish   = "finish"    // side|main → end
	eventNextTurn = "next_turn" // end → upkeep
)

// PhaseState tracks the turn phase of the current actor and its action economy.
type PhaseState struct {
	machine         *fsm.FSM
	SideActionsUsed int
	MaxSideActions  int
	UpkeepProcessed bool
}

// NewPhaseState creates a PhaseState in the upkeep phase.
//
// Precondition: maxSide >= 0; 0 selects DefaultMaxSideActions.
func NewPhaseState(maxSide int) *PhaseState {
	if maxSide < 0 {
		panic(fmt.Sprintf("combat: max side actions must be >= 0, got %d", maxSide))
	}
	if maxSide == 0 {
		maxSide = DefaultMaxSideActions
	}
	return &PhaseState{
		machine: fsm.NewFSM(
			string(PhaseUpkeep),
			fsm.Events{
				{Name: eventOpen, Src: []string{string(PhaseUpkeep)}, Dst: string(PhaseSide)},
				{Name: eventCommit, Src: []string{string(PhaseSide)}, Dst: string(PhaseMain)},
				{Name: eventFinish, Src: []string{string(PhaseSide), string(PhaseMain)}, Dst: string(PhaseEnd)},
				{Name: eventNextTurn, Src: []string{string(PhaseEnd)}, Dst: string(PhaseUpkeep)},
			},
			fsm.Callbacks{},
		),
		MaxSideActions: maxSide,
	}
}

// Phase returns the current phase.
func (p *PhaseState) Phase() Phase {
	return Phase(p.machine.Current())
}

// SideActionsLeft returns how many Side-category uses remain this turn.
func (p *PhaseState) SideActionsLeft() int {
	return p.MaxSideActions - p.SideActionsUsed
}

// fire drives the machine. An illegal transition is a controller bug and panics.
func (p *PhaseState) fire(event string) {
	if err := p.machine.Event(context.Background(), event); err != nil {
		panic(fmt.Sprintf("combat: phase transition %q from %q: %v", event, p.machine.Current(), err))
	}
}

// open completes upkeep and moves to the side phase.
func (p *PhaseState) open() {
	p.fire(eventOpen)
}

// finish ends the turn from the side or main phase, entering main first so
// the machine records that a main action happened.
func (p *PhaseState) finish() {
	if p.Phase() == PhaseSide {
		p.fire(eventCommit)
	}
	p.fire(eventFinish)
}

// next resets the turn counters for the following actor.
func (p *PhaseState) next() {
	p.fire(eventNextTurn)
	p.SideActionsUsed = 0
	p.UpkeepProcessed = false
}
