package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dmag/experiments/metrics"
	"dmag/game"
	"dmag/searcher/agent"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

type Option func(*Local)

func WithMaxTurns(turns int) Option {
	return func(e *Local) {
		if turns > 0 {
			e.maxTurns = turns
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(e *Local) {
		e.seed = seed
	}
}

// Local runs a game in process. Every agent keeps its own tree; each turn
// all agents search concurrently, the joint action is played on the real
// state, and every agent then observes the outcome.
type Local struct {
	id       int
	state    game.State
	agents   []agent.Agent
	maxTurns int
	seed     uint64
	logger   zerolog.Logger
}

func NewLocal(id int, state game.State, agents []agent.Agent, options ...Option) *Local {
	if len(agents) != state.Agents() {
		panic("number of agents does not match the game")
	}
	e := &Local{
		id:       id,
		state:    state,
		agents:   agents,
		maxTurns: MaxTurns,
		seed:     uint64(id),
		logger:   log.With().Int("game", id).Logger(),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// State returns the current real game state.
func (e *Local) State() game.State { return e.state }

func (e *Local) Run(ctx context.Context) (metrics.GameMetric, []metrics.MoveMetric, error) {
	start := time.Now()
	rng := rand.New(rand.NewSource(e.seed))
	var moveMetrics []metrics.MoveMetric

	turn := 0
	for ; !e.state.IsTerminal(); turn++ {
		if err := ctx.Err(); err != nil {
			return metrics.GameMetric{}, moveMetrics, err
		}
		if turn >= e.maxTurns {
			e.logger.Warn().Int("turns", turn).Msg("stopping game at the turn limit")
			break
		}

		actions, searches, err := e.findMoves(ctx)
		if err != nil {
			return metrics.GameMetric{}, moveMetrics, fmt.Errorf("turn %d: %w", turn, err)
		}

		next, realized := e.play(actions, rng)
		for _, a := range e.agents {
			a.Observe(realized, next)
		}
		e.state = next

		moveMetrics = append(moveMetrics, lo.Map(searches, func(s metrics.SearchMetric, i int) metrics.MoveMetric {
			return metrics.MoveMetric{
				Game:         e.id,
				Turn:         turn,
				Agent:        i,
				Action:       realized[i].String(),
				SearchMetric: s,
			}
		})...)
		e.logger.Debug().Int("turn", turn).Stringer("action", realized).Msg("played turn")
	}

	rewards := lo.Times(e.state.Agents(), func(i int) float64 {
		return e.state.Reward(i)
	})
	best := lo.Max(rewards)
	end := time.Now()
	gameMetric := metrics.GameMetric{
		ID:      e.id,
		Agents:  len(e.agents),
		Rewards: rewards,
		Winners: lo.Filter(lo.Range(len(rewards)), func(i int, _ int) bool {
			return rewards[i] == best
		}),
		StartTime:  start,
		EndTime:    end,
		Duration:   end.Sub(start),
		TotalTurns: turn,
	}
	return gameMetric, moveMetrics, nil
}

// findMoves runs every agent's search on its own goroutine.
func (e *Local) findMoves(ctx context.Context) (game.JointAction, []metrics.SearchMetric, error) {
	actions := make(game.JointAction, len(e.agents))
	searches := make([]metrics.SearchMetric, len(e.agents))

	g, _ := errgroup.WithContext(ctx)
	for i, a := range e.agents {
		i, a := i, a
		g.Go(func() error {
			action, metric, err := a.FindMove()
			if err != nil {
				return fmt.Errorf("agent %d: %w", i, err)
			}
			actions[i] = action
			searches[i] = metric
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return actions, searches, nil
}

// play applies the joint action to the real state. An agent whose action is
// refused has it replaced by a random legal one.
func (e *Local) play(actions game.JointAction, rng game.Rand) (game.State, game.JointAction) {
	fixed := append(game.JointAction(nil), actions...)
	for {
		next, realized, err := game.PlayTurn(e.state, fixed, rng)
		if err == nil {
			return next, realized
		}
		var rejected *game.RejectedError
		if !errors.As(err, &rejected) {
			// PlayTurn fails only on refused labeled slots
			panic(err)
		}
		e.logger.Warn().Err(err).Int("agent", rejected.Agent).Msg("agent's action refused, playing a random one")
		fixed[rejected.Agent] = nil
	}
}
