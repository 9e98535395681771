package engine

import (
	"context"
	"errors"
	"mcts2048/experiments/metrics"
)

const MaxMoves = 100000

var ErrGameOver = errors.New("game over")

type Runner interface {
	// Run plays decision cycles until the game dies, the move cap is reached or ctx is done
	Run(ctx context.Context) (gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
