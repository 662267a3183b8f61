package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Iterations   int
	Duration     time.Duration
	Episodes     int
	Cutoff       int
	FullPlayouts int
	Rejections   int
	TreeSize     int
	IsTreeReset  bool
}

type MoveMetric struct {
	Game   int
	Turn   int
	Agent  int
	Action string
	SearchMetric
}

type GameMetric struct {
	ID         int
	Agents     int
	Rewards    []float64
	Winners    []int // agents sharing the best reward
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalTurns int
}

type Collector interface {
	Start(iterations, cutoff int)
	SetTreeReset(value bool)
	SetTreeSize(nodes int)
	AddEpisode()
	AddFullPlayout()
	AddRejection()
	Complete() SearchMetric
}

type collector struct {
	iterations   int
	cutoff       int
	startTime    time.Time
	episodes     atomic.Int32
	fullPlayouts atomic.Int32
	rejections   atomic.Int32
	treeSize     atomic.Int32
	isTreeReset  atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) SetTreeReset(value bool) {
	m.isTreeReset.Store(value)
}

func (m *collector) SetTreeSize(nodes int) {
	m.treeSize.Store(int32(nodes))
}

// Start clears the counters of the previous search. The tree reset flag is
// kept: it describes how the tree was carried into this search.
func (m *collector) Start(iterations, cutoff int) {
	m.startTime = time.Now()
	m.iterations = iterations
	m.cutoff = cutoff
	m.episodes.Store(0)
	m.fullPlayouts.Store(0)
	m.rejections.Store(0)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *collector) AddRejection() {
	m.rejections.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Iterations:   m.iterations,
		Duration:     time.Since(m.startTime),
		Episodes:     int(m.episodes.Load()),
		Cutoff:       m.cutoff,
		FullPlayouts: int(m.fullPlayouts.Load()),
		Rejections:   int(m.rejections.Load()),
		TreeSize:     int(m.treeSize.Load()),
		IsTreeReset:  m.isTreeReset.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(iterations, cutoff int) {}
func (m *dummyCollector) SetTreeReset(value bool)      {}
func (m *dummyCollector) SetTreeSize(nodes int)        {}
func (m *dummyCollector) AddEpisode()                  {}
func (m *dummyCollector) AddFullPlayout()              {}
func (m *dummyCollector) AddRejection()                {}
func (m *dummyCollector) Complete() SearchMetric       { return SearchMetric{} }
