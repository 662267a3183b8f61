package experiments

import (
	"dmag/experiments/metrics"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Confidence of the reward intervals, in percent.
const Confidence = 95.0

type Summary struct {
	Matchup int
	Games   int
	Seats   []SeatSummary
}

// SeatSummary aggregates one seat of a matchup over its games. A shared
// win counts as a fraction of a win for each winner.
type SeatSummary struct {
	Seat       int
	Agent      metrics.AgentConfig
	Wins       float64
	WinRate    float64
	MeanReward float64
	StdErr     float64
	Low        float64 // Confidence interval of the mean reward
	High       float64
}

// ZVal returns the two-tailed z-value of a confidence given in percent.
func ZVal(confidence float64) float64 {
	dist := distuv.Normal{
		Mu:    0,
		Sigma: 1,
	}
	return dist.Quantile((1 + confidence/100) / 2)
}

func Summarize(matchup int, agents []metrics.AgentConfig, games []metrics.GameMetric) Summary {
	z := ZVal(Confidence)
	summary := Summary{Matchup: matchup, Games: len(games)}
	for seat, config := range agents {
		rewards := make([]float64, 0, len(games))
		wins := 0.0
		for _, g := range games {
			if seat < len(g.Rewards) {
				rewards = append(rewards, g.Rewards[seat])
			}
			for _, w := range g.Winners {
				if w == seat {
					wins += 1 / float64(len(g.Winners))
				}
			}
		}

		s := SeatSummary{Seat: seat, Agent: config, Wins: wins}
		if len(games) > 0 {
			s.WinRate = wins / float64(len(games))
		}
		if len(rewards) > 0 {
			mean, std := stat.MeanStdDev(rewards, nil)
			if len(rewards) < 2 {
				std = 0
			}
			s.MeanReward = mean
			s.StdErr = stat.StdErr(std, float64(len(rewards)))
			s.Low = mean - z*s.StdErr
			s.High = mean + z*s.StdErr
		}
		summary.Seats = append(summary.Seats, s)
	}
	return summary
}
