package config

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"mcts2048/engine"
	"mcts2048/game"
	"mcts2048/searcher"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
	"lukechampine.com/frand"
)

type Config struct {
	Iterations          int     `yaml:"iterations"`
	RolloutDepth        int     `yaml:"rollout_depth"`
	Exploration         float64 `yaml:"exploration"`
	Agent               string  `yaml:"agent"` // mcts or random
	Games               int     `yaml:"games"`
	Workers             int     `yaml:"workers"`
	MaxMoves            int     `yaml:"max_moves"`
	Seed                uint64  `yaml:"seed"` // 0 picks a random seed
	SpawnTwoProbability float64 `yaml:"spawn_two_probability"`
	LogLevel            string  `yaml:"log_level"`
	OutputDir           string  `yaml:"output_dir"`
}

func Default() Config {
	return Config{
		Iterations:          searcher.DefaultIterations,
		RolloutDepth:        searcher.DefaultRolloutDepth,
		Exploration:         math.Sqrt(searcher.CSquared),
		Agent:               "mcts",
		Games:               10,
		Workers:             4,
		MaxMoves:            engine.MaxMoves,
		SpawnTwoProbability: game.SpawnTwoProbability,
		LogLevel:            "info",
		OutputDir:           "experiments",
	}
}

// Load builds a Config from defaults, then the YAML file named by -config
// (if any), then the flags set explicitly in args.
func Load(name string, args []string) (*Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	path := fs.String("config", "", "path to a YAML config file")
	flags := Default()
	fs.IntVar(&flags.Iterations, "iterations", flags.Iterations, "search iterations per move")
	fs.IntVar(&flags.RolloutDepth, "rollout-depth", flags.RolloutDepth, "maximum valid moves per rollout")
	fs.Float64Var(&flags.Exploration, "exploration", flags.Exploration, "UCT exploration constant")
	fs.StringVar(&flags.Agent, "agent", flags.Agent, "agent to play with: mcts or random")
	fs.IntVar(&flags.Games, "games", flags.Games, "games per agent configuration in experiments")
	fs.IntVar(&flags.Workers, "workers", flags.Workers, "games played concurrently in experiments")
	fs.IntVar(&flags.MaxMoves, "max-moves", flags.MaxMoves, "stop a game after this many moves")
	fs.Uint64Var(&flags.Seed, "seed", flags.Seed, "random seed, 0 for a random one")
	fs.Float64Var(&flags.SpawnTwoProbability, "spawn-two", flags.SpawnTwoProbability, "probability that a spawned tile is a 2")
	fs.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&flags.OutputDir, "out-dir", flags.OutputDir, "directory for experiment records")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := Default()
	if *path != "" {
		if err := cfg.LoadFile(*path); err != nil {
			return nil, err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		cfg.override(f.Name, flags)
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile overlays the fields present in a YAML file.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) override(name string, flags Config) {
	switch name {
	case "iterations":
		c.Iterations = flags.Iterations
	case "rollout-depth":
		c.RolloutDepth = flags.RolloutDepth
	case "exploration":
		c.Exploration = flags.Exploration
	case "agent":
		c.Agent = flags.Agent
	case "games":
		c.Games = flags.Games
	case "workers":
		c.Workers = flags.Workers
	case "max-moves":
		c.MaxMoves = flags.MaxMoves
	case "seed":
		c.Seed = flags.Seed
	case "spawn-two":
		c.SpawnTwoProbability = flags.SpawnTwoProbability
	case "log-level":
		c.LogLevel = flags.LogLevel
	case "out-dir":
		c.OutputDir = flags.OutputDir
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Iterations <= 0 {
		errs = append(errs, fmt.Errorf("iterations must be positive, got %d", c.Iterations))
	}
	if c.RolloutDepth <= 0 {
		errs = append(errs, fmt.Errorf("rollout depth must be positive, got %d", c.RolloutDepth))
	}
	if c.Exploration <= 0 {
		errs = append(errs, fmt.Errorf("exploration must be positive, got %g", c.Exploration))
	}
	if c.Agent != "mcts" && c.Agent != "random" {
		errs = append(errs, fmt.Errorf("unknown agent %q", c.Agent))
	}
	if c.Games <= 0 || c.Workers <= 0 || c.MaxMoves <= 0 {
		errs = append(errs, errors.New("games, workers and max moves must be positive"))
	}
	if c.SpawnTwoProbability < 0 || c.SpawnTwoProbability > 1 {
		errs = append(errs, fmt.Errorf("spawn probability must be in [0, 1], got %g", c.SpawnTwoProbability))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid log level: %w", err))
	}
	return errors.Join(errs...)
}

// ResolveSeed fixes a random seed when none was configured, so that the run
// can be reproduced from the logged value.
func (c *Config) ResolveSeed() uint64 {
	if c.Seed == 0 {
		c.Seed = frand.Uint64n(math.MaxUint64-1) + 1
	}
	return c.Seed
}

func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
