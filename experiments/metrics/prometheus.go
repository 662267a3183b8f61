package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus exports search counters labelled by agent.
type Prometheus struct {
	episodes     *prometheus.CounterVec
	fullPlayouts *prometheus.CounterVec
	rejections   *prometheus.CounterVec
	treeResets   *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	treeSize     *prometheus.GaugeVec
}

func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	p := &Prometheus{
		episodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dmag_search_episodes_total",
			Help: "Select/expand/rollout/backup iterations completed",
		}, []string{"agent"}),
		fullPlayouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dmag_search_full_playouts_total",
			Help: "Rollouts that reached a terminal state",
		}, []string{"agent"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dmag_search_rejections_total",
			Help: "Expanded actions refused by the game",
		}, []string{"agent"}),
		treeResets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dmag_search_tree_resets_total",
			Help: "Searches that started from a rebuilt tree",
		}, []string{"agent"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dmag_search_duration_seconds",
			Help:    "Wall time of one search call",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16),
		}, []string{"agent"}),
		treeSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dmag_search_tree_nodes",
			Help: "Nodes reachable from the root after the last search",
		}, []string{"agent"}),
	}

	for _, c := range []prometheus.Collector{p.episodes, p.fullPlayouts, p.rejections, p.treeResets, p.duration, p.treeSize} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register search metrics: %w", err)
		}
	}
	return p, nil
}

// Collector returns a collector for one agent's tree.
func (p *Prometheus) Collector(agent string) Collector {
	return &promCollector{
		Collector: NewCollector(),
		prom:      p,
		agent:     agent,
	}
}

type promCollector struct {
	Collector
	prom  *Prometheus
	agent string
}

func (c *promCollector) AddEpisode() {
	c.Collector.AddEpisode()
	c.prom.episodes.WithLabelValues(c.agent).Inc()
}

func (c *promCollector) AddFullPlayout() {
	c.Collector.AddFullPlayout()
	c.prom.fullPlayouts.WithLabelValues(c.agent).Inc()
}

func (c *promCollector) AddRejection() {
	c.Collector.AddRejection()
	c.prom.rejections.WithLabelValues(c.agent).Inc()
}

func (c *promCollector) Complete() SearchMetric {
	m := c.Collector.Complete()
	c.prom.duration.WithLabelValues(c.agent).Observe(m.Duration.Seconds())
	c.prom.treeSize.WithLabelValues(c.agent).Set(float64(m.TreeSize))
	if m.IsTreeReset {
		c.prom.treeResets.WithLabelValues(c.agent).Inc()
	}
	return m
}
