package matching

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dmag/game"
)

func TestMatching(t *testing.T) {
	t.Run("rewarding all-A agents", func(t *testing.T) {
		var s game.State = New(2, 2)
		for turn := 0; turn < 2; turn++ {
			var err error
			s, err = s.Apply(0, A)
			require.NoError(t, err)
			s, err = s.Apply(1, B)
			require.NoError(t, err)
			s = s.EndTurn()
		}

		require.True(t, s.IsTerminal())
		require.Equal(t, 1.0, s.Reward(0))
		require.Equal(t, 0.0, s.Reward(1))
	})

	t.Run("counting a pass against the agent", func(t *testing.T) {
		var s game.State = New(1, 1)
		s = s.EndTurn()

		require.True(t, s.IsTerminal())
		require.Equal(t, 0.0, s.Reward(0))
	})

	t.Run("refusing listed symbols", func(t *testing.T) {
		s := New(1, 1, WithRefused(B))
		require.Equal(t, []game.Action{A, B}, s.LegalActions(0))

		_, err := s.Apply(0, B)
		require.ErrorIs(t, err, game.ErrActionRejected)
	})

	t.Run("cloning deeply", func(t *testing.T) {
		s := New(1, 2)
		next, err := s.Apply(0, A)
		require.NoError(t, err)
		after := next.EndTurn()
		clone := after.Clone().(*State)

		clone.played[0][0] = B

		require.Equal(t, []Symbol{A}, after.(*State).Played(0))
	})
}
