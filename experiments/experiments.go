package experiments

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"dmag/engine"
	"dmag/experiments/metrics"
	"dmag/game"
	"dmag/game/draft"
	"dmag/searcher"
	"dmag/searcher/agent"

	"github.com/rs/zerolog/log"
)

const (
	KindMCTS     = "mcts"
	KindTraining = "training"
	KindRandom   = "random"
)

// Experiment plays NumGames draft games for each matchup. A matchup seats
// one agent config per player.
type Experiment struct {
	Name      string
	Players   int
	HandSize  int
	Eras      int
	Matchups  [][]metrics.AgentConfig
	NumGames  int // Per match up
	Seed      uint64
	MaxTurns  int
	OutputDir string // records are not written when empty
}

type Result struct {
	Games   []metrics.GameMetric
	Moves   []metrics.MoveMetric
	Summary []Summary // one per matchup
	Dir     string
}

// Run plays every game of the experiment and stores its setup and records.
// Search metrics are exported to prom when it is not nil.
func Run(ctx context.Context, exp Experiment, prom *metrics.Prometheus) (Result, error) {
	for i, matchup := range exp.Matchups {
		if len(matchup) != exp.Players {
			return Result{}, fmt.Errorf("matchup %d seats %d agents for %d players", i+1, len(matchup), exp.Players)
		}
	}

	start := time.Now()
	result := Result{}
	count := 0

	log.Info().Str("experiment", exp.Name).Int("matchups", len(exp.Matchups)).Msg("starting experiment")

	for mi, matchup := range exp.Matchups {
		log.Info().Msgf("starting matchup %d of %d between %+v...", mi+1, len(exp.Matchups), matchup)

		var games []metrics.GameMetric
		for i := 0; i < exp.NumGames; i++ {
			count++
			gameMetric, moveMetrics, err := runGame(ctx, exp, matchup, count, prom)
			if err != nil {
				return result, fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
			}
			games = append(games, gameMetric)
			result.Moves = append(result.Moves, moveMetrics...)

			log.Info().Msgf("completed matchup %d of %d game %d with winners: %v", mi+1, len(exp.Matchups), i+1, gameMetric.Winners)
		}
		result.Games = append(result.Games, games...)
		result.Summary = append(result.Summary, Summarize(mi, matchup, games))
		log.Info().Msgf("completed matchup %d of %d", mi+1, len(exp.Matchups))
	}

	end := time.Now()
	log.Info().Str("experiment", exp.Name).Dur("duration", end.Sub(start)).Msg("completed experiment")

	if exp.OutputDir == "" {
		return result, nil
	}
	dir, err := store(exp, result, start, end)
	result.Dir = dir
	return result, err
}

func store(exp Experiment, result Result, start, end time.Time) (string, error) {
	writer, err := metrics.NewWriter(exp.OutputDir, exp.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	// Store experiment metadata
	err = writer.WriteSetup(metrics.Setup{
		Name:      exp.Name,
		Players:   exp.Players,
		Matchups:  exp.Matchups,
		NumGames:  exp.NumGames,
		Seed:      exp.Seed,
		StartTime: start,
		EndTime:   end,
		Duration:  end.Sub(start),
	})
	if err != nil {
		return writer.Dir(), fmt.Errorf("failed to store setup: %w", err)
	}
	log.Info().Msg("stored setup")

	// Store experiment results
	if err := writer.WriteGameRecords(result.Games); err != nil {
		return writer.Dir(), fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(result.Moves); err != nil {
		return writer.Dir(), fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Str("dir", writer.Dir()).Msg("stored move records")
	return writer.Dir(), nil
}

// runGame plays a single game between the matchup's agents.
func runGame(ctx context.Context, exp Experiment, matchup []metrics.AgentConfig, id int, prom *metrics.Prometheus) (metrics.GameMetric, []metrics.MoveMetric, error) {
	seed := exp.Seed + uint64(id)
	var options []draft.Option
	if exp.HandSize > 0 {
		options = append(options, draft.WithHandSize(exp.HandSize))
	}
	if exp.Eras > 0 {
		options = append(options, draft.WithEras(exp.Eras))
	}
	state := draft.New(exp.Players, seed, options...)

	agents := make([]agent.Agent, len(matchup))
	for seat, config := range matchup {
		a, err := NewAgent(config, state, seat, seed*uint64(len(matchup)+1)+uint64(seat), prom)
		if err != nil {
			return metrics.GameMetric{}, nil, err
		}
		agents[seat] = a
	}

	engineOptions := []engine.Option{engine.WithSeed(seed)}
	if exp.MaxTurns > 0 {
		engineOptions = append(engineOptions, engine.WithMaxTurns(exp.MaxTurns))
	}
	return engine.NewLocal(id, state, agents, engineOptions...).Run(ctx)
}

// NewAgent builds the agent described by config for a seat of the game.
func NewAgent(config metrics.AgentConfig, state game.State, seat int, seed uint64, prom *metrics.Prometheus) (agent.Agent, error) {
	switch config.Kind {
	case KindRandom:
		return agent.NewRandomAgent(state, seat, seed), nil
	case KindMCTS, KindTraining, "":
	default:
		return nil, fmt.Errorf("unknown agent kind %q", config.Kind)
	}

	mcts, err := createMCTS(config, state, seat, seed, prom)
	if err != nil {
		return nil, err
	}
	if config.Kind == KindTraining {
		return agent.NewTrainingAgent(mcts, config.Iterations, config.Temperature, seed), nil
	}
	return agent.NewEvaluationAgent(mcts, config.Iterations), nil
}

func createMCTS(config metrics.AgentConfig, state game.State, seat int, seed uint64, prom *metrics.Prometheus) (*searcher.MCTS, error) {
	if config.Iterations <= 0 {
		return nil, fmt.Errorf("agent %d: iterations must be positive", config.ID)
	}
	regime, err := searcher.ParseRegime(config.Regime)
	if err != nil {
		return nil, fmt.Errorf("agent %d: %w", config.ID, err)
	}

	options := []searcher.Option{
		searcher.WithRegime(regime),
		searcher.WithSeed(seed),
	}
	if config.Exploration > 0 {
		options = append(options, searcher.WithExploration(config.Exploration))
	}
	if config.JointLimit > 0 {
		options = append(options, searcher.WithJointLimit(config.JointLimit))
	}
	if config.Cutoff > 0 {
		options = append(options, searcher.WithCutoff(config.Cutoff))
	}
	if config.ExpandAll {
		options = append(options, searcher.WithExpandAll())
	}

	collector := metrics.NewCollector()
	if prom != nil {
		collector = prom.Collector(strconv.Itoa(config.ID))
	}
	options = append(options, searcher.WithMetrics(collector))
	return searcher.NewMCTS(state, seat, options...), nil
}
