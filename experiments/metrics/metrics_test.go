package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCollector(t *testing.T) {
	t.Run("counting one search", func(t *testing.T) {
		c := NewCollector()
		c.SetTreeReset(true)
		c.Start(10, 5)
		c.AddEpisode()
		c.AddEpisode()
		c.AddFullPlayout()
		c.AddRejection()
		c.SetTreeSize(7)

		m := c.Complete()

		require.Equal(t, 10, m.Iterations)
		require.Equal(t, 5, m.Cutoff)
		require.Equal(t, 2, m.Episodes)
		require.Equal(t, 1, m.FullPlayouts)
		require.Equal(t, 1, m.Rejections)
		require.Equal(t, 7, m.TreeSize)
		require.True(t, m.IsTreeReset)
	})

	t.Run("clearing counters between searches", func(t *testing.T) {
		c := NewCollector()
		c.Start(1, 0)
		c.AddEpisode()
		c.Complete()

		c.Start(1, 0)
		require.Equal(t, 0, c.Complete().Episodes)
	})

	t.Run("ignoring everything when dummy", func(t *testing.T) {
		c := NewDummyCollector()
		c.Start(1, 0)
		c.AddEpisode()
		require.Equal(t, SearchMetric{}, c.Complete())
	})
}

func TestPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	p, err := NewPrometheus(reg)
	require.NoError(t, err)

	c := p.Collector("0")
	c.SetTreeReset(true)
	c.Start(3, 0)
	c.AddEpisode()
	c.AddEpisode()
	c.AddRejection()
	c.SetTreeSize(4)
	m := c.Complete()

	require.Equal(t, 2, m.Episodes, "Should still report through the inner collector")
	require.Equal(t, 2.0, testutil.ToFloat64(p.episodes.WithLabelValues("0")))
	require.Equal(t, 1.0, testutil.ToFloat64(p.rejections.WithLabelValues("0")))
	require.Equal(t, 1.0, testutil.ToFloat64(p.treeResets.WithLabelValues("0")))
	require.Equal(t, 4.0, testutil.ToFloat64(p.treeSize.WithLabelValues("0")))

	_, err = NewPrometheus(reg)
	require.Error(t, err, "Registering twice should fail")
}

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "unit")
	require.NoError(t, err)

	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	setup := Setup{
		Name:     "unit",
		Players:  3,
		NumGames: 2,
		Matchups: [][]AgentConfig{{{ID: 1, Kind: "mcts", Iterations: 50}, {ID: 2, Kind: "random"}}},
	}
	require.NoError(t, w.WriteSetup(setup))
	require.NoError(t, w.WriteGameRecords([]GameMetric{
		{ID: 1, Agents: 2, Rewards: []float64{1, 0.5}, Winners: []int{0}, StartTime: start, EndTime: start, TotalTurns: 4},
	}))
	require.NoError(t, w.WriteMoveRecords([]MoveMetric{
		{Game: 1, Turn: 0, Agent: 1, Action: "build altar", SearchMetric: SearchMetric{Episodes: 9}},
	}))

	raw, err := os.ReadFile(filepath.Join(w.Dir(), "setup.yaml"))
	require.NoError(t, err)
	var got Setup
	require.NoError(t, yaml.Unmarshal(raw, &got))
	require.Equal(t, setup.Matchups, got.Matchups)

	games := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
	require.Len(t, games, 2)
	require.Equal(t, []string{"1", "2", "1.0000;0.5000", "0", "2026-01-02T03:04:05Z", "2026-01-02T03:04:05Z", "0s", "4"}, games[1])

	moves := readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))
	require.Len(t, moves, 2)
	require.Equal(t, "build altar", moves[1][3])
	require.Equal(t, "9", moves[1][6])
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
