package searcher

import (
	"dmag/game"
)

// rollout plays uniformly random turns from the node's state to the end of
// the game, or for cutoff turns when a cutoff is set, and returns the
// perspective agent's reward at the final state.
func (m *MCTS) rollout(node *Node) (float64, error) {
	state, err := node.State(m.rng)
	if err != nil {
		return 0, err
	}
	if node.terminal {
		return state.Reward(m.perspective), nil
	}

	state = state.Clone()
	// Rollout till game over or for cutoff number of turns
	for depth := 0; !state.IsTerminal(); depth++ {
		if m.cutoff > 0 && depth >= m.cutoff {
			// At cutoff, the mid-game reward stands in for the outcome
			return state.Reward(m.perspective), nil
		}
		state, _, err = game.PlayTurn(state, nil, m.rng)
		if err != nil {
			return 0, err
		}
	}

	m.metrics.AddFullPlayout()
	return state.Reward(m.perspective), nil
}

// backup adds reward to the node and every ancestor up to the root.
func backup(node *Node, reward float64) {
	for node != nil {
		node.Update(reward)
		node = node.parent
	}
}
