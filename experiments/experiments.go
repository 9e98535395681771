package experiments

import (
	"context"
	"fmt"
	"math"
	"mcts2048/engine"
	"mcts2048/experiments/metrics"
	"mcts2048/game"
	"mcts2048/searcher"
	"mcts2048/searcher/agent"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

const (
	NumGames       = 30 // Per agent config
	SweepBudget    = 200
	SweepMaxMoves  = 5000
	RandomBaseline = 0
)

// Setup holds what every game of an experiment shares.
type Setup struct {
	Games               int
	Workers             int
	MaxMoves            int
	Seed                uint64
	SpawnTwoProbability float64
}

func DefaultSetup() Setup {
	return Setup{
		Games:               NumGames,
		Workers:             4,
		MaxMoves:            SweepMaxMoves,
		Seed:                1,
		SpawnTwoProbability: game.SpawnTwoProbability,
	}
}

var baseline = metrics.AgentConfig{ID: RandomBaseline, Agent: "random"}

func exploration() float64 {
	return math.Sqrt(searcher.CSquared)
}

// RunDepthExperiment compares rollout depths at a fixed iteration budget.
func RunDepthExperiment(ctx context.Context, setup Setup, outputDir string) ([]metrics.Summary, error) {
	configs := []metrics.AgentConfig{baseline}
	for i, depth := range []int{10, 30, 100, searcher.DefaultRolloutDepth} {
		configs = append(configs, metrics.AgentConfig{ID: i + 1, Agent: "mcts", Iterations: SweepBudget, RolloutDepth: depth, Exploration: exploration()})
	}
	return runAndWrite(ctx, "rollout_depth", configs, setup, outputDir)
}

// RunIterationsExperiment compares iteration budgets at the default rollout depth.
func RunIterationsExperiment(ctx context.Context, setup Setup, outputDir string) ([]metrics.Summary, error) {
	configs := []metrics.AgentConfig{baseline}
	for i, iterations := range []int{50, 100, 500, searcher.DefaultIterations} {
		configs = append(configs, metrics.AgentConfig{ID: i + 1, Agent: "mcts", Iterations: iterations, RolloutDepth: searcher.DefaultRolloutDepth, Exploration: exploration()})
	}
	return runAndWrite(ctx, "iterations", configs, setup, outputDir)
}

func runAndWrite(ctx context.Context, name string, configs []metrics.AgentConfig, setup Setup, outputDir string) ([]metrics.Summary, error) {
	writer, err := metrics.NewWriter(outputDir, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	return Run(ctx, name, configs, setup, writer)
}

type gameResult struct {
	config      metrics.AgentConfig
	gameMetric  metrics.GameMetric
	moveMetrics []metrics.MoveMetric
}

// Run plays setup.Games games per agent config, at most setup.Workers at a
// time. Game i of every config starts from the same seed. Records are
// written when writer is not nil.
func Run(ctx context.Context, name string, configs []metrics.AgentConfig, setup Setup, writer *metrics.Writer) ([]metrics.Summary, error) {
	log.Info().Msgf("starting %s experiment with %d configs and %d games each...", name, len(configs), setup.Games)

	results := make([]gameResult, len(configs)*setup.Games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(setup.Workers, 1))
	for ci, config := range configs {
		for i := 0; i < setup.Games; i++ {
			config, i := config, i // per-iteration copies (go directive < 1.22)
			slot := ci*setup.Games + i
			seed := setup.Seed + uint64(i)
			g.Go(func() error {
				log.Info().Msgf("starting agent %d game %d of %d...", config.ID, i+1, setup.Games)
				gameMetric, moveMetrics, err := runGame(ctx, config, setup, seed)
				if err != nil {
					return fmt.Errorf("agent %d game %d: %w", config.ID, i+1, err)
				}
				results[slot] = gameResult{config: config, gameMetric: gameMetric, moveMetrics: moveMetrics}
				log.Info().Msgf("completed agent %d game %d with score %.1f and high tile %d", config.ID, i+1, gameMetric.Score, gameMetric.HighTile)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Info().Msgf("completed %s experiment", name)

	gameRecords := make([]metrics.GameRecord, 0, len(results))
	moveRecords := []metrics.MoveRecord{}
	byAgent := map[int][]metrics.GameMetric{}
	for i, r := range results {
		id := i + 1
		gameRecords = append(gameRecords, metrics.GameRecord{ID: id, GameMetric: r.gameMetric})
		for _, mm := range r.moveMetrics {
			moveRecords = append(moveRecords, metrics.MoveRecord{Game: id, Agent: r.config.ID, MoveMetric: mm})
		}
		byAgent[r.config.ID] = append(byAgent[r.config.ID], r.gameMetric)
	}

	summaries := make([]metrics.Summary, 0, len(configs))
	throughput := Throughput(moveRecords)
	for _, config := range configs {
		s := metrics.Summarize(config.ID, byAgent[config.ID])
		summaries = append(summaries, s)
		log.Info().Msgf("%s, %.0f episodes/s", s, throughput[config.ID])

		var hist strings.Builder
		if err := metrics.FprintScores(&hist, byAgent[config.ID]); err != nil {
			log.Warn().Err(err).Msgf("failed to draw scores of agent %d", config.ID)
		} else if hist.Len() > 0 {
			log.Debug().Msgf("agent %d scores:\n%s", config.ID, hist.String())
		}
	}

	if writer != nil {
		if err := write(writer, configs, gameRecords, moveRecords); err != nil {
			return summaries, err
		}
		log.Info().Msgf("stored records in %s", writer.Dir())
	}
	return summaries, nil
}

func write(writer *metrics.Writer, configs []metrics.AgentConfig, gameRecords []metrics.GameRecord, moveRecords []metrics.MoveRecord) error {
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	return nil
}

// runGame plays one game to the end. The game and the agent draw from
// streams derived from seed.
func runGame(ctx context.Context, config metrics.AgentConfig, setup Setup, seed uint64) (metrics.GameMetric, []metrics.MoveMetric, error) {
	rng := rand.New(rand.NewSource(seed))
	g := game.NewGame(game.WithSeed(rng.Uint64()), game.WithSpawnProbability(setup.SpawnTwoProbability))
	e := engine.LocalEngine(g, CreateAgent(config, rng.Uint64()))
	if setup.MaxMoves > 0 {
		e.MaxMoves = setup.MaxMoves
	}

	gameMetric, moveMetrics, err := e.Run(ctx)
	gameMetric.Agent = config.ID
	gameMetric.Seed = seed
	return gameMetric, moveMetrics, err
}

func CreateAgent(config metrics.AgentConfig, seed uint64) agent.Agent {
	if config.Agent == "random" {
		return agent.NewRandomAgent(rand.New(rand.NewSource(seed)))
	}
	return agent.NewMCTSAgent(createMCTS(config, seed))
}

func createMCTS(config metrics.AgentConfig, seed uint64) *searcher.MCTS {
	options := []searcher.Option{searcher.WithSeed(seed)}

	if config.Iterations > 0 {
		options = append(options, searcher.WithIterations(config.Iterations))
	}
	if config.RolloutDepth > 0 {
		options = append(options, searcher.WithRolloutDepth(config.RolloutDepth))
	}
	if config.Exploration > 0 {
		options = append(options, searcher.WithExploration(config.Exploration))
	}

	options = append(options, searcher.WithMetrics())
	return searcher.NewMCTS(options...)
}
