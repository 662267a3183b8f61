// Package matching is a minimal simultaneous-move game: every turn each
// agent plays A or B, and an agent earns 1 when it played A on every turn of
// the horizon.
package matching

import (
	"fmt"

	"dmag/game"
)

type Symbol string

func (s Symbol) String() string { return string(s) }

const (
	A Symbol = "A"
	B Symbol = "B"
)

type State struct {
	agents  int
	horizon int
	turn    int
	played  [][]Symbol // per agent, one symbol per finished turn
	pending []Symbol   // this turn's actions, "" until played
	refused map[Symbol]bool
}

type Option func(*State)

// WithRefused lists symbols as legal that Apply then refuses.
func WithRefused(symbols ...Symbol) Option {
	return func(s *State) {
		for _, sym := range symbols {
			s.refused[sym] = true
		}
	}
}

func New(agents, horizon int, options ...Option) *State {
	s := &State{
		agents:  agents,
		horizon: horizon,
		played:  make([][]Symbol, agents),
		pending: make([]Symbol, agents),
		refused: map[Symbol]bool{},
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *State) Agents() int { return s.agents }

func (s *State) Turn() int { return s.turn }

// Played returns the symbols an agent played on finished turns.
func (s *State) Played(agent int) []Symbol {
	return append([]Symbol(nil), s.played[agent]...)
}

func (s *State) LegalActions(agent int) []game.Action {
	if s.IsTerminal() || s.pending[agent] != "" {
		return nil
	}
	return []game.Action{A, B}
}

func (s *State) Apply(agent int, action game.Action) (game.State, error) {
	sym, ok := action.(Symbol)
	if !ok || (sym != A && sym != B) {
		return nil, fmt.Errorf("unknown action %v: %w", action, game.ErrActionRejected)
	}
	if s.IsTerminal() {
		return nil, fmt.Errorf("game over: %w", game.ErrActionRejected)
	}
	if s.pending[agent] != "" {
		return nil, fmt.Errorf("agent %d already played this turn: %w", agent, game.ErrActionRejected)
	}
	if s.refused[sym] {
		return nil, fmt.Errorf("%s is refused: %w", sym, game.ErrActionRejected)
	}
	next := s.copy()
	next.pending[agent] = sym
	return next, nil
}

func (s *State) EndTurn() game.State {
	next := s.copy()
	if next.IsTerminal() {
		return next
	}
	for agent, sym := range next.pending {
		next.played[agent] = append(next.played[agent], sym)
		next.pending[agent] = ""
	}
	next.turn++
	return next
}

func (s *State) IsTerminal() bool { return s.turn >= s.horizon }

func (s *State) Reward(agent int) float64 {
	if len(s.played[agent]) < s.horizon {
		return 0
	}
	for _, sym := range s.played[agent] {
		if sym != A {
			return 0
		}
	}
	return 1
}

func (s *State) Clone() game.State { return s.copy() }

func (s *State) copy() *State {
	played := make([][]Symbol, len(s.played))
	for i, p := range s.played {
		played[i] = append([]Symbol(nil), p...)
	}
	return &State{
		agents:  s.agents,
		horizon: s.horizon,
		turn:    s.turn,
		played:  played,
		pending: append([]Symbol(nil), s.pending...),
		refused: s.refused, // read-only after New
	}
}
