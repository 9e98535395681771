package main

import (
	"context"
	"fmt"
	"mcts2048/config"
	"mcts2048/engine"
	"mcts2048/experiments"
	"mcts2048/experiments/metrics"
	"mcts2048/game"
	"mcts2048/searcher/agent"
	"mcts2048/tui"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

const usage = `usage: mcts2048 <command> [flags]

commands:
  play                          play one game with the configured agent
  tui                           watch or play a game in the terminal
  experiment [run|depth|iterations]  play batches of games and store records

run "mcts2048 <command> -h" for the flags of a command`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "play":
		err = play(ctx, args)
	case "tui":
		err = watch(args)
	case "experiment":
		err = experiment(ctx, args)
	default:
		err = fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
	if err != nil {
		log.Error().Err(err).Msg("failed")
		os.Exit(1)
	}
}

func load(name string, args []string) (*config.Config, error) {
	cfg, err := config.Load(name, args)
	if err != nil {
		return nil, err
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(cfg.Level()).With().Timestamp().Logger()
	log.Info().Msgf("seed %d", cfg.ResolveSeed())
	return cfg, nil
}

func agentConfig(cfg *config.Config) metrics.AgentConfig {
	return metrics.AgentConfig{
		ID:           1,
		Agent:        cfg.Agent,
		Iterations:   cfg.Iterations,
		RolloutDepth: cfg.RolloutDepth,
		Exploration:  cfg.Exploration,
	}
}

func play(ctx context.Context, args []string) error {
	cfg, err := load("play", args)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	g := game.NewGame(game.WithSeed(rng.Uint64()), game.WithSpawnProbability(cfg.SpawnTwoProbability))
	e := engine.LocalEngine(g, experiments.CreateAgent(agentConfig(cfg), rng.Uint64()))
	e.MaxMoves = cfg.MaxMoves

	gameMetric, _, err := e.Run(ctx)
	fmt.Println(g)
	fmt.Printf("score %.1f, high tile %d, %d moves, won %t\n", gameMetric.Score, gameMetric.HighTile, gameMetric.Moves, gameMetric.Won)
	return err
}

func watch(args []string) error {
	cfg, err := load("tui", args)
	if err != nil {
		return err
	}

	// The terminal belongs to the UI; logs go to a file.
	f, err := os.OpenFile("mcts2048.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: f, NoColor: true})

	rng := rand.New(rand.NewSource(cfg.Seed))
	return tui.Run(
		func() *game.Game {
			return game.NewGame(game.WithSeed(rng.Uint64()), game.WithSpawnProbability(cfg.SpawnTwoProbability))
		},
		func() agent.Agent { return experiments.CreateAgent(agentConfig(cfg), rng.Uint64()) },
	)
}

func experiment(ctx context.Context, args []string) error {
	name := "run"
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		name, args = args[0], args[1:]
	}
	cfg, err := load("experiment", args)
	if err != nil {
		return err
	}

	setup := experiments.Setup{
		Games:               cfg.Games,
		Workers:             cfg.Workers,
		MaxMoves:            cfg.MaxMoves,
		Seed:                cfg.Seed,
		SpawnTwoProbability: cfg.SpawnTwoProbability,
	}
	switch name {
	case "depth":
		_, err = experiments.RunDepthExperiment(ctx, setup, cfg.OutputDir)
	case "iterations":
		_, err = experiments.RunIterationsExperiment(ctx, setup, cfg.OutputDir)
	case "run":
		var writer *metrics.Writer
		writer, err = metrics.NewWriter(cfg.OutputDir, name)
		if err != nil {
			return fmt.Errorf("failed to create experiment writer: %w", err)
		}
		_, err = experiments.Run(ctx, name, []metrics.AgentConfig{agentConfig(cfg)}, setup, writer)
	default:
		err = fmt.Errorf("unknown experiment %q", name)
	}
	return err
}
