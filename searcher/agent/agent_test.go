package agent

import (
	"testing"

	"dmag/experiments/metrics"
	"dmag/game"
	"dmag/game/draft"
	"dmag/game/matching"
	"dmag/searcher"

	"github.com/stretchr/testify/require"
)

func TestEvaluationAgent(t *testing.T) {
	t.Run("playing the best action", func(t *testing.T) {
		state := matching.New(2, 2)
		a := NewEvaluationAgent(searcher.NewMCTS(state, 1, searcher.WithSeed(1)), 500)

		action, _, err := a.FindMove()
		require.NoError(t, err)
		require.Equal(t, matching.A, action)
	})

	t.Run("reusing the tree after observing", func(t *testing.T) {
		state := matching.New(2, 3)
		mcts := searcher.NewMCTS(state, 0, searcher.WithSeed(1), searcher.WithMetrics(metrics.NewCollector()))
		a := NewEvaluationAgent(mcts, 200)

		_, _, err := a.FindMove()
		require.NoError(t, err)
		realized := game.JointAction{matching.A, matching.B}
		next, _, err := game.PlayTurn(state, realized, nil)
		require.NoError(t, err)
		a.Observe(realized, next)

		_, metric, err := a.FindMove()
		require.NoError(t, err)
		require.False(t, metric.IsTreeReset)
		require.Equal(t, 200, metric.Iterations)
	})
}

func TestTrainingAgent(t *testing.T) {
	t.Run("sampling a legal action", func(t *testing.T) {
		state := draft.New(3, 1)
		a := NewTrainingAgent(searcher.NewMCTS(state, 2, searcher.WithSeed(1)), 100, 1.0, 1)

		action, _, err := a.FindMove()
		require.NoError(t, err)
		require.Contains(t, state.LegalActions(2), action)
	})

	t.Run("sampling in proportion to visits", func(t *testing.T) {
		probs := adjustTemperature([]float64{1, 3}, 1.0)
		require.InDeltaSlice(t, []float64{0.25, 0.75}, probs, 1e-9)

		require.Equal(t, 0, sample(probs, 0.2))
		require.Equal(t, 1, sample(probs, 0.3))
		require.Equal(t, 1, sample(probs, 1.0))
	})

	t.Run("sharpening with a low temperature", func(t *testing.T) {
		probs := adjustTemperature([]float64{1, 3}, 0.5)
		require.InDeltaSlice(t, []float64{0.1, 0.9}, probs, 1e-9)
	})

	t.Run("spreading evenly without visits", func(t *testing.T) {
		require.Equal(t, []float64{0.5, 0.5}, adjustTemperature([]float64{0, 0}, 1.0))
	})
}

func TestRandomAgent(t *testing.T) {
	t.Run("playing a legal action", func(t *testing.T) {
		state := draft.New(3, 1)
		a := NewRandomAgent(state, 0, 1)

		for i := 0; i < 10; i++ {
			action, _, err := a.FindMove()
			require.NoError(t, err)
			require.Contains(t, state.LegalActions(0), action)
		}
	})

	t.Run("passing without legal actions", func(t *testing.T) {
		state := matching.New(2, 1)
		a := NewRandomAgent(state, 0, 1)
		next, _, err := game.PlayTurn(state, game.JointAction{matching.A, matching.A}, nil)
		require.NoError(t, err)
		a.Observe(game.JointAction{matching.A, matching.A}, next)

		action, _, err := a.FindMove()
		require.NoError(t, err)
		require.Equal(t, game.Pass, action)
	})
}
