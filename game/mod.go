package game

import (
	"errors"
	"fmt"
)

// Action is one agent's move within a turn. Implementations must be
// comparable with == (value types or pointers to canonical values).
type Action interface {
	String() string
}

// State is the contract any game must satisfy to be searched. Operations
// never mutate the receiver: Apply and EndTurn return the successor.
type State interface {
	// Agents is the number of agents acting each turn
	Agents() int
	// LegalActions may be empty, its order must be deterministic
	LegalActions(agent int) []Action
	// Apply plays an agent's action for the current turn; a refused action
	// returns an error and leaves the receiver untouched
	Apply(agent int, action Action) (State, error)
	// EndTurn resolves the turn once every agent has acted and advances the
	// turn counter; repeated calls must eventually reach a terminal state
	EndTurn() State
	IsTerminal() bool
	// Reward is defined at least once IsTerminal is true
	Reward(agent int) float64
	// Clone is a deep copy sharing no mutable substructure with the source
	Clone() State
}

// Hasher is implemented by states able to fingerprint themselves. Tree
// reuse uses it to detect hidden divergence (e.g. a different deal).
type Hasher interface {
	Hash() uint64
}

// Defaulter supplies a forced action for an agent that has no legal action
// or whose every legal action was refused.
type Defaulter interface {
	DefaultAction(agent int) (Action, bool)
}

// ErrActionRejected is reported when the adapter refuses an action.
var ErrActionRejected = errors.New("action rejected")

// RejectedError records which agent's action was refused.
type RejectedError struct {
	Agent  int
	Action Action
	Err    error
}

func (e *RejectedError) Error() string {
	if e.Err == nil || e.Err == ErrActionRejected {
		return fmt.Sprintf("agent %d playing %s: %s", e.Agent, e.Action, ErrActionRejected)
	}
	return fmt.Sprintf("agent %d playing %s: %s", e.Agent, e.Action, e.Err)
}

func (e *RejectedError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrActionRejected}
	}
	return []error{ErrActionRejected, e.Err}
}

type pass struct{}

func (pass) String() string { return "pass" }

// Pass is the synthetic "do nothing" action used when an agent has no legal
// action. It is never sent to the adapter.
var Pass Action = pass{}
