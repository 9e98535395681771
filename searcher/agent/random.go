package agent

import (
	"mcts2048/experiments/metrics"
	"mcts2048/game"

	"golang.org/x/exp/rand"
)

type randomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent returns a baseline agent that plays a uniformly random
// valid move.
func NewRandomAgent(rng *rand.Rand) Agent {
	return randomAgent{rng: rng}
}

func (a randomAgent) FindMove(state *game.Game) (game.Direction, metrics.SearchMetric) {
	moves := state.Board().ValidMoves()
	if len(moves) == 0 {
		panic("FindMove called when no move available")
	}
	return moves[a.rng.Intn(len(moves))], metrics.SearchMetric{}
}
