package agent

import (
	"mcts2048/experiments/metrics"
	"mcts2048/game"
	"mcts2048/searcher"
)

type mctsAgent struct {
	mcts *searcher.MCTS
}

// NewMCTSAgent returns an agent that builds a fresh search tree for every
// decision.
func NewMCTSAgent(mcts *searcher.MCTS) Agent {
	return mctsAgent{mcts: mcts}
}

func (a mctsAgent) FindMove(state *game.Game) (game.Direction, metrics.SearchMetric) {
	return a.mcts.FindMove(state)
}
