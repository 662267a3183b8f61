package engine

import (
	"context"

	"dmag/experiments/metrics"
)

// MaxTurns bounds a game whose adapter fails to terminate.
const MaxTurns = 10000

type Engine interface {
	// Run plays a game till it is over or a max number of turns is reached
	Run(ctx context.Context) (gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
