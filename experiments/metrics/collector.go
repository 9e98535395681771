package metrics

import (
	"sync/atomic"
	"time"
)

// SearchMetric describes one decision cycle of the search.
type SearchMetric struct {
	Iterations   int
	RolloutDepth int
	Duration     time.Duration
	Episodes     int // iterations that ran a rollout
	Skipped      int // iterations that selected a dead state
	Victories    int // rollouts that reached the victory tile
	Nodes        int
}

type MoveMetric struct {
	Step      int
	Direction string
	Score     float64
	HighTile  uint32
	SearchMetric
}

type GameMetric struct {
	Agent     int // AgentConfig.ID
	Seed      uint64
	Score     float64
	HighTile  uint32
	Moves     int
	Won       bool
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

type Collector interface {
	Start(iterations, rolloutDepth int)
	AddEpisode()
	AddSkipped()
	AddVictory()
	Complete(nodes int) SearchMetric
}

type collector struct {
	iterations   int
	rolloutDepth int
	startTime    time.Time
	episodes     atomic.Int32
	skipped      atomic.Int32
	victories    atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(iterations, rolloutDepth int) {
	m.startTime = time.Now()
	m.iterations = iterations
	m.rolloutDepth = rolloutDepth
	m.episodes.Store(0)
	m.skipped.Store(0)
	m.victories.Store(0)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) AddSkipped() {
	m.skipped.Add(1)
}

func (m *collector) AddVictory() {
	m.victories.Add(1)
}

func (m *collector) Complete(nodes int) SearchMetric {
	return SearchMetric{
		Iterations:   m.iterations,
		RolloutDepth: m.rolloutDepth,
		Duration:     time.Since(m.startTime),
		Episodes:     int(m.episodes.Load()),
		Skipped:      int(m.skipped.Load()),
		Victories:    int(m.victories.Load()),
		Nodes:        nodes,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(iterations, rolloutDepth int) {}
func (m *dummyCollector) AddEpisode()                        {}
func (m *dummyCollector) AddSkipped()                        {}
func (m *dummyCollector) AddVictory()                        {}
func (m *dummyCollector) Complete(nodes int) SearchMetric    { return SearchMetric{} }
