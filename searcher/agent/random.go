package agent

import (
	"dmag/experiments/metrics"
	"dmag/game"

	"golang.org/x/exp/rand"
)

type randomAgent struct {
	agent int
	state game.State
	rng   *rand.Rand
}

// NewRandomAgent returns a baseline agent that plays a uniformly random
// legal action, or passes when it has none.
func NewRandomAgent(state game.State, agent int, seed uint64) Agent {
	return &randomAgent{
		agent: agent,
		state: state.Clone(),
		rng:   rand.New(rand.NewSource(seed)),
	}
}

func (a *randomAgent) FindMove() (game.Action, metrics.SearchMetric, error) {
	legal := a.state.LegalActions(a.agent)
	if len(legal) == 0 {
		return game.Pass, metrics.SearchMetric{}, nil
	}
	return legal[a.rng.Intn(len(legal))], metrics.SearchMetric{}, nil
}

func (a *randomAgent) Observe(_ game.JointAction, state game.State) {
	a.state = state.Clone()
}
