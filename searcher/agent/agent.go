package agent

import (
	"mcts2048/experiments/metrics"
	"mcts2048/game"
)

type Agent interface {
	// FindMove returns the next move for a live game and performance metrics (if collected) from the search behind it
	FindMove(state *game.Game) (game.Direction, metrics.SearchMetric)
}
