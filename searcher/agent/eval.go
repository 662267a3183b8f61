package agent

import (
	"dmag/experiments/metrics"
	"dmag/game"
	"dmag/searcher"
)

type evaluationAgent struct {
	mcts       *searcher.MCTS
	iterations int
}

// NewEvaluationAgent returns a new agent for actual game play during evaluation.
func NewEvaluationAgent(mcts *searcher.MCTS, iterations int) Agent {
	return &evaluationAgent{mcts: mcts, iterations: iterations}
}

func (a *evaluationAgent) FindMove() (game.Action, metrics.SearchMetric, error) {
	action, err := search(a.mcts, a.iterations)
	return action, a.mcts.Metrics(), err
}

func (a *evaluationAgent) Observe(realized game.JointAction, state game.State) {
	a.mcts.CommitMove(realized, state)
}
