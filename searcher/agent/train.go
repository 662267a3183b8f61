package agent

import (
	"math"

	"dmag/experiments/metrics"
	"dmag/game"
	"dmag/searcher"

	"golang.org/x/exp/rand"
)

type trainingAgent struct {
	mcts        *searcher.MCTS
	iterations  int
	temperature float64
	rng         *rand.Rand
}

// NewTrainingAgent returns a new agent for self-play: it samples its action
// in proportion to root visits sharpened by 1/temperature.
func NewTrainingAgent(mcts *searcher.MCTS, iterations int, temperature float64, seed uint64) Agent {
	if temperature <= 0 {
		temperature = 1.0
	}
	return &trainingAgent{
		mcts:        mcts,
		iterations:  iterations,
		temperature: temperature,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (a *trainingAgent) FindMove() (game.Action, metrics.SearchMetric, error) {
	best, err := search(a.mcts, a.iterations)
	if err != nil {
		return nil, a.mcts.Metrics(), err
	}
	actions, visits := actionVisits(a.mcts)
	if len(actions) == 0 {
		return best, a.mcts.Metrics(), nil
	}
	probs := adjustTemperature(visits, a.temperature)
	return actions[sample(probs, a.rng.Float64())], a.mcts.Metrics(), nil
}

func (a *trainingAgent) Observe(realized game.JointAction, state game.State) {
	a.mcts.CommitMove(realized, state)
}

func adjustTemperature(visits []float64, temperature float64) []float64 {
	// Compute temperature-adjusted move probabilities
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make([]float64, len(visits))
	for i, visit := range visits {
		prob := math.Pow(visit, exponent)
		sum += prob
		adjusted[i] = prob
	}
	if sum == 0 {
		for i := range adjusted {
			adjusted[i] = 1.0 / float64(len(adjusted))
		}
		return adjusted
	}
	// Normalize
	for i := range adjusted {
		adjusted[i] /= sum
	}
	return adjusted
}

func sample(probs []float64, sampled float64) int {
	cumulative := 0.0
	for i, prob := range probs {
		cumulative += prob
		if sampled < cumulative {
			return i
		}
	}
	return len(probs) - 1 // Fallback in case of rounding errors
}
