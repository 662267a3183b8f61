package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"dmag/config"
	"dmag/experiments"
	"dmag/experiments/metrics"
	"dmag/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play games between an MCTS seat and the configured opponents",
	RunE:  runPlay,
}

func init() {
	flags := playCmd.Flags()
	flags.Int("games", 10, "games to play")
	flags.Int("iterations", 1000, "search iterations per move")
	flags.String("regime", "joint", "joint or single")
	flags.String("opponent", "random", "random or mcts")
	flags.Uint64("seed", 1, "seed of the deals and the searches")
	flags.String("output", "results", "directory for the game records")
	flags.String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")

	for key, flag := range map[string]string{
		"games":        "games",
		"iterations":   "iterations",
		"regime":       "regime",
		"opponent":     "opponent",
		"seed":         "seed",
		"output_dir":   "output",
		"metrics_addr": "metrics-addr",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(v, configPath)
	if err != nil {
		return err
	}
	logger.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var prom *metrics.Prometheus
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		prom, err = metrics.NewPrometheus(reg)
		if err != nil {
			return err
		}
		shutdown := serveMetrics(cfg.MetricsAddr, reg)
		defer shutdown()
	}

	result, err := experiments.Run(ctx, newExperiment(cfg), prom)
	if err != nil {
		return err
	}

	for _, summary := range result.Summary {
		for _, seat := range summary.Seats {
			log.Info().
				Int("seat", seat.Seat).
				Str("kind", seat.Agent.Kind).
				Int("games", summary.Games).
				Float64("wins", seat.Wins).
				Float64("winRate", seat.WinRate).
				Float64("meanReward", seat.MeanReward).
				Float64("low", seat.Low).
				Float64("high", seat.High).
				Msg("seat summary")
		}
	}
	return nil
}

func newExperiment(cfg config.Config) experiments.Experiment {
	searching := metrics.AgentConfig{
		ID:          1,
		Kind:        experiments.KindMCTS,
		Iterations:  cfg.Iterations,
		Exploration: cfg.Exploration,
		Regime:      cfg.Regime,
		JointLimit:  cfg.JointLimit,
		Cutoff:      cfg.Cutoff,
		ExpandAll:   cfg.ExpandAll,
	}
	opponent := metrics.AgentConfig{ID: 2, Kind: experiments.KindRandom}
	if cfg.Opponent == experiments.KindMCTS {
		opponent = searching
		opponent.ID = 2
	}

	matchup := append([]metrics.AgentConfig{searching}, lo.Times(cfg.Players-1, func(int) metrics.AgentConfig {
		return opponent
	})...)
	return experiments.Experiment{
		Name:      "play",
		Players:   cfg.Players,
		HandSize:  cfg.HandSize,
		Eras:      cfg.Eras,
		Matchups:  [][]metrics.AgentConfig{matchup},
		NumGames:  cfg.Games,
		Seed:      cfg.Seed,
		MaxTurns:  cfg.MaxTurns,
		OutputDir: cfg.OutputDir,
	}
}

func serveMetrics(addr string, reg *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info().Str("addr", addr).Msg("serving metrics")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}
}
