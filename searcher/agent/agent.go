package agent

import (
	"dmag/experiments/metrics"
	"dmag/game"
	"dmag/searcher"
)

type Agent interface {
	// FindMove returns the agent's action for the current turn and the metrics (if collected) of the search behind it
	FindMove() (game.Action, metrics.SearchMetric, error)
	// Observe moves the agent past the joint action the game actually played
	Observe(realized game.JointAction, state game.State)
}

// search runs the tree search and returns the searching agent's slot of the
// recommended joint action.
func search(mcts *searcher.MCTS, iterations int) (game.Action, error) {
	joint, err := mcts.Search(iterations)
	if err != nil {
		return nil, err
	}
	action := joint[mcts.Perspective()]
	if action == nil {
		return game.Pass, nil
	}
	return action, nil
}

// actionVisits sums root visits per action of the searching agent, in the
// order the actions first appear.
func actionVisits(mcts *searcher.MCTS) ([]game.Action, []float64) {
	var actions []game.Action
	var visits []float64
	index := map[game.Action]int{}
	for _, v := range mcts.Policy() {
		action := v.Action[mcts.Perspective()]
		if action == nil {
			continue
		}
		i, ok := index[action]
		if !ok {
			i = len(actions)
			index[action] = i
			actions = append(actions, action)
			visits = append(visits, 0)
		}
		visits[i] += float64(v.Visits)
	}
	return actions, visits
}
