package game_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"dmag/game"
	"dmag/game/draft"
	"dmag/game/matching"
)

func TestPlayTurn(t *testing.T) {
	t.Run("playing labeled slots as given", func(t *testing.T) {
		state := matching.New(2, 2)
		rng := rand.New(rand.NewSource(1))

		next, played, err := game.PlayTurn(state, game.JointAction{matching.A, matching.B}, rng)

		require.NoError(t, err)
		require.Equal(t, game.JointAction{matching.A, matching.B}, played)
		require.Equal(t, []matching.Symbol{matching.A}, next.(*matching.State).Played(0))
		require.Equal(t, []matching.Symbol{matching.B}, next.(*matching.State).Played(1))
		require.Equal(t, 0, state.Turn(), "Receiver should not change")
	})

	t.Run("drawing deferred slots", func(t *testing.T) {
		state := matching.New(3, 1)
		rng := rand.New(rand.NewSource(7))

		next, played, err := game.PlayTurn(state, game.Single(3, 1, matching.B), rng)

		require.NoError(t, err)
		require.Equal(t, matching.B, played[1])
		require.NotNil(t, played[0], "Deferred slot should be resolved")
		require.NotNil(t, played[2], "Deferred slot should be resolved")
		require.True(t, next.IsTerminal())
	})

	t.Run("reporting refused labeled slot", func(t *testing.T) {
		state := matching.New(2, 2, matching.WithRefused(matching.B))
		rng := rand.New(rand.NewSource(1))

		_, _, err := game.PlayTurn(state, game.JointAction{matching.A, matching.B}, rng)

		require.ErrorIs(t, err, game.ErrActionRejected)
		var rejected *game.RejectedError
		require.True(t, errors.As(err, &rejected))
		require.Equal(t, 1, rejected.Agent)
		require.Equal(t, matching.B, rejected.Action)
	})

	t.Run("resampling refused random draws", func(t *testing.T) {
		state := matching.New(2, 1, matching.WithRefused(matching.B))
		for seed := uint64(0); seed < 20; seed++ {
			_, played, err := game.PlayTurn(state, nil, rand.New(rand.NewSource(seed)))
			require.NoError(t, err)
			require.Equal(t, game.JointAction{matching.A, matching.A}, played)
		}
	})

	t.Run("passing when every draw is refused", func(t *testing.T) {
		state := matching.New(1, 1, matching.WithRefused(matching.A, matching.B))

		next, played, err := game.PlayTurn(state, nil, rand.New(rand.NewSource(3)))

		require.NoError(t, err)
		require.Equal(t, game.JointAction{game.Pass}, played)
		require.True(t, next.IsTerminal(), "Turn should still advance")
	})

	t.Run("never sending pass to the adapter", func(t *testing.T) {
		state := matching.New(2, 1)

		_, played, err := game.PlayTurn(state, game.JointAction{game.Pass, matching.A}, rand.New(rand.NewSource(3)))

		require.NoError(t, err)
		require.Equal(t, game.Pass, played[0])
	})

	t.Run("playing the default action", func(t *testing.T) {
		state := noLegal{State: draft.New(3, 1)}

		_, played, err := game.PlayTurn(state, nil, rand.New(rand.NewSource(3)))

		require.NoError(t, err)
		for agent := 0; agent < 3; agent++ {
			require.Equal(t, draft.Pick{Card: state.Hand(agent)[0], Discard: true}, played[agent])
		}
	})
}

// noLegal hides every legal action so only the default remains.
type noLegal struct {
	*draft.State
}

func (noLegal) LegalActions(int) []game.Action { return nil }

func TestJointAction(t *testing.T) {
	t.Run("comparing slots", func(t *testing.T) {
		a := game.JointAction{matching.A, nil}
		require.True(t, a.Equal(game.JointAction{matching.A, nil}))
		require.False(t, a.Equal(game.JointAction{matching.A, matching.B}))
		require.False(t, a.Equal(game.JointAction{matching.A}))
	})

	t.Run("detecting deferred slots", func(t *testing.T) {
		require.True(t, game.Single(3, 0, matching.A).Deferred())
		require.False(t, game.JointAction{matching.A, game.Pass}.Deferred())
	})

	t.Run("hashing distinguishes deferred from played", func(t *testing.T) {
		require.Equal(t, game.JointAction{matching.A, matching.B}.Hash(), game.JointAction{matching.A, matching.B}.Hash())
		require.NotEqual(t, game.JointAction{matching.A, nil}.Hash(), game.JointAction{matching.A, matching.B}.Hash())
		require.NotEqual(t, game.JointAction{matching.A, matching.B}.Hash(), game.JointAction{matching.B, matching.A}.Hash())
	})

	t.Run("formatting", func(t *testing.T) {
		require.Equal(t, "[A * pass]", game.JointAction{matching.A, nil, game.Pass}.String())
	})
}
