package engine

import (
	"context"
	"mcts2048/experiments/metrics"
	"mcts2048/game"
	"mcts2048/searcher/agent"
	"time"

	"github.com/rs/zerolog/log"
)

// Step is the record of one decision cycle.
type Step struct {
	Number int
	Move   game.Direction
	Result game.MoveResult
	Score  float64
	Metric metrics.SearchMetric
}

// Engine owns the authoritative game and asks its agent for one move per
// decision cycle. A MaxMoves of zero or less means no cap.
type Engine struct {
	Game     *game.Game
	Agent    agent.Agent
	OnMove   func(Step)
	MaxMoves int
	steps    int
}

func LocalEngine(g *game.Game, a agent.Agent) *Engine {
	if g == nil || a == nil {
		panic("engine needs a game and an agent")
	}
	return &Engine{
		Game:     g,
		Agent:    a,
		MaxMoves: MaxMoves,
	}
}

func (e *Engine) Steps() int { return e.steps }

// Step runs exactly one decision cycle: search, then apply the chosen move
// to the authoritative game.
func (e *Engine) Step() (Step, error) {
	if !e.Game.IsAlive() {
		return Step{}, ErrGameOver
	}

	move, metric := e.Agent.FindMove(e.Game)
	res := e.Game.Move(move)
	e.steps++

	step := Step{
		Number: e.steps,
		Move:   move,
		Result: res,
		Score:  e.Game.Score(),
		Metric: metric,
	}
	log.Debug().Msgf("step %d: %s valid=%t score=%.1f high=%d", step.Number, move, res.IsValidMove, step.Score, e.Game.HighTile())

	if e.OnMove != nil {
		e.OnMove(step)
	}
	return step, nil
}

// Run plays until the game is over. A cancelled ctx stops the loop between
// decision cycles, never during a search; Run then returns ctx.Err() along
// with the metrics gathered so far.
func (e *Engine) Run(ctx context.Context) (metrics.GameMetric, []metrics.MoveMetric, error) {
	start := time.Now()
	log.Info().Msgf("game started\n%s", e.Game)

	var moveMetrics []metrics.MoveMetric
	var err error
	for e.Game.IsAlive() && (e.MaxMoves <= 0 || e.steps < e.MaxMoves) {
		if err = ctx.Err(); err != nil {
			log.Info().Msgf("game stopped after %d moves", e.steps)
			break
		}

		step, stepErr := e.Step()
		if stepErr != nil {
			err = stepErr
			break
		}
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step.Number,
			Direction:    step.Move.String(),
			Score:        step.Score,
			HighTile:     e.Game.HighTile(),
			SearchMetric: step.Metric,
		})
	}

	end := time.Now()
	gameMetric := metrics.GameMetric{
		Score:     e.Game.Score(),
		HighTile:  e.Game.HighTile(),
		Moves:     e.steps,
		Won:       e.Game.HasWon(),
		StartTime: start,
		EndTime:   end,
		Duration:  end.Sub(start),
	}

	if !e.Game.IsAlive() {
		log.Info().Msgf("game over after %d moves with score %.1f and high tile %d", e.steps, gameMetric.Score, gameMetric.HighTile)
	} else if err == nil {
		log.Info().Msgf("stopped after %d moves (game still alive)", e.steps)
	}

	return gameMetric, moveMetrics, err
}
