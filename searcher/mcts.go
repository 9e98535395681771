package searcher

import (
	"math"
	"mcts2048/experiments/metrics"
	"mcts2048/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"lukechampine.com/frand"
)

type Option func(mcts *MCTS)

// Result is the outcome of one decision cycle.
type Result struct {
	Move   game.Direction
	Policy []Edge
	Metric metrics.SearchMetric
}

type MCTS struct {
	iterations   int
	rolloutDepth int
	cSquared     float64
	rng          *rand.Rand
	metrics      metrics.Collector
}

func WithIterations(iterations int) Option {
	return func(m *MCTS) {
		if iterations > 0 {
			m.iterations = iterations
		}
	}
}

func WithRolloutDepth(depth int) Option {
	return func(m *MCTS) {
		if depth > 0 {
			m.rolloutDepth = depth
		}
	}
}

// WithExploration sets the exploration constant c of the UCT formula.
func WithExploration(c float64) Option {
	return func(m *MCTS) {
		if c > 0 {
			m.cSquared = c * c
		}
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(m *MCTS) {
		if rng != nil {
			m.rng = rng
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.rng = rand.New(rand.NewSource(seed))
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		iterations:   DefaultIterations,
		rolloutDepth: DefaultRolloutDepth,
		cSquared:     CSquared,
		metrics:      metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(frand.Uint64n(math.MaxUint64)))
	}
	return m
}

func (m *MCTS) Iterations() int   { return m.iterations }
func (m *MCTS) RolloutDepth() int { return m.rolloutDepth }

// Search builds a fresh tree rooted at a copy of state, runs the configured
// number of iterations and returns the recommended move. The state itself is
// never modified. Searching a state without legal moves panics; callers
// check IsAlive first.
func (m *MCTS) Search(state *game.Game) Result {
	t := newTree(state, m.rolloutDepth, m.cSquared, m.rng)

	m.metrics.Start(m.iterations, m.rolloutDepth)
	for i := 0; i < m.iterations; i++ {
		m.simulate(t)
	}
	metric := m.metrics.Complete(len(t.nodes))

	move := t.bestMove()
	log.Debug().Msgf("search picked %s after %d iterations over %d nodes", move, m.iterations, len(t.nodes))

	return Result{Move: move, Policy: t.policy(), Metric: metric}
}

// FindMove returns the recommended move and the search metrics.
func (m *MCTS) FindMove(state *game.Game) (game.Direction, metrics.SearchMetric) {
	res := m.Search(state)
	return res.Move, res.Metric
}

// SelectBestMove runs one decision cycle with the given budget.
func SelectBestMove(state *game.Game, iterations, rolloutDepth int) game.Direction {
	if iterations <= 0 {
		panic("Must specify a positive number of search iterations")
	}
	move, _ := NewMCTS(WithIterations(iterations), WithRolloutDepth(rolloutDepth)).FindMove(state)
	return move
}

// simulate runs one select, expand, rollout and backup pass. Passes that
// land on a dead state are skipped but still use up an iteration.
func (m *MCTS) simulate(t *tree) {
	i := t.selects()
	if !t.nodes[i].game.IsAlive() {
		m.metrics.AddSkipped()
		return
	}
	t.expands(i)
	result, victory := t.rollout(i)
	if victory {
		m.metrics.AddVictory()
	}
	t.backup(i, result)
	m.metrics.AddEpisode()
}
