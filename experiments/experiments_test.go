package experiments

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"dmag/experiments/metrics"
	"dmag/game/draft"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestZVal(t *testing.T) {
	require.InDelta(t, 1.959964, ZVal(95), 1e-5)
	require.InDelta(t, 2.575829, ZVal(99), 1e-5)
}

func TestSummarize(t *testing.T) {
	agents := []metrics.AgentConfig{{ID: 1, Kind: KindMCTS}, {ID: 2, Kind: KindRandom}}
	games := []metrics.GameMetric{
		{Rewards: []float64{1, 0}, Winners: []int{0}},
		{Rewards: []float64{0.5, 0.5}, Winners: []int{0, 1}},
		{Rewards: []float64{0, 1}, Winners: []int{1}},
		{Rewards: []float64{1, 0}, Winners: []int{0}},
	}

	summary := Summarize(3, agents, games)
	require.Equal(t, 3, summary.Matchup)
	require.Equal(t, 4, summary.Games)
	require.Len(t, summary.Seats, 2)

	first := summary.Seats[0]
	require.Equal(t, agents[0], first.Agent)
	require.InDelta(t, 2.5, first.Wins, 1e-9)
	require.InDelta(t, 0.625, first.WinRate, 1e-9)
	require.InDelta(t, 0.625, first.MeanReward, 1e-9)
	require.Greater(t, first.StdErr, 0.0)
	require.InDelta(t, first.MeanReward-first.Low, first.High-first.MeanReward, 1e-9)
	require.InDelta(t, 1.5, summary.Seats[1].Wins, 1e-9)

	t.Run("collapsing the interval for a single game", func(t *testing.T) {
		single := Summarize(0, agents, games[:1])
		require.Zero(t, single.Seats[0].StdErr)
		require.Equal(t, 1.0, single.Seats[0].Low)
		require.Equal(t, 1.0, single.Seats[0].High)
	})
}

func TestNewAgent(t *testing.T) {
	state := draft.New(2, 1)

	t.Run("building every kind", func(t *testing.T) {
		for _, kind := range []string{KindMCTS, KindTraining, KindRandom, ""} {
			a, err := NewAgent(metrics.AgentConfig{ID: 1, Kind: kind, Iterations: 10}, state, 0, 1, nil)
			require.NoError(t, err)
			require.NotNil(t, a)
		}
	})

	t.Run("rejecting an unknown kind", func(t *testing.T) {
		_, err := NewAgent(metrics.AgentConfig{Kind: "greedy"}, state, 0, 1, nil)
		require.Error(t, err)
	})

	t.Run("rejecting a search without iterations", func(t *testing.T) {
		_, err := NewAgent(metrics.AgentConfig{Kind: KindMCTS}, state, 0, 1, nil)
		require.Error(t, err)
	})

	t.Run("rejecting an unknown regime", func(t *testing.T) {
		_, err := NewAgent(metrics.AgentConfig{Kind: KindMCTS, Iterations: 10, Regime: "mixed"}, state, 0, 1, nil)
		require.Error(t, err)
	})
}

func TestRun(t *testing.T) {
	t.Run("playing and storing every game", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		prom, err := metrics.NewPrometheus(reg)
		require.NoError(t, err)

		mcts := metrics.AgentConfig{ID: 1, Kind: KindMCTS, Iterations: 20, Regime: "single"}
		random := metrics.AgentConfig{ID: 2, Kind: KindRandom}
		exp := Experiment{
			Name:      "smoke",
			Players:   2,
			HandSize:  3,
			Eras:      1,
			Matchups:  [][]metrics.AgentConfig{{mcts, random}, {random, random}},
			NumGames:  2,
			Seed:      42,
			OutputDir: t.TempDir(),
		}

		result, err := Run(context.Background(), exp, prom)
		require.NoError(t, err)
		require.Len(t, result.Games, 4)
		require.Len(t, result.Summary, 2)
		require.Len(t, result.Moves, 4*3*2)

		for _, name := range []string{"setup.yaml", "game_records.csv", "move_records.csv"} {
			_, err := os.Stat(filepath.Join(result.Dir, name))
			require.NoError(t, err, name)
		}
		// 2 games x 3 turns x 20 iterations for the searching seat
		require.Equal(t, 120.0, counterTotal(t, reg, "dmag_search_episodes_total"))
	})

	t.Run("rejecting a matchup of the wrong size", func(t *testing.T) {
		exp := Experiment{
			Players:  3,
			Matchups: [][]metrics.AgentConfig{{{Kind: KindRandom}}},
			NumGames: 1,
		}

		_, err := Run(context.Background(), exp, nil)
		require.Error(t, err)
	})
}

func counterTotal(t *testing.T, reg prometheus.Gatherer, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	total := 0.0
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}
