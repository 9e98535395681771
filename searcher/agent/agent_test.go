package agent

import (
	"mcts2048/game"
	"mcts2048/searcher"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestRandomAgent(t *testing.T) {
	t.Run("plays only valid moves", func(t *testing.T) {
		a := NewRandomAgent(rand.New(rand.NewSource(1)))
		state := game.NewGameFromBoard(game.Board{{2, 0, 0, 0}}, game.WithSeed(1))

		for i := 0; i < 20; i++ {
			move, _ := a.FindMove(state)
			require.Contains(t, []game.Direction{game.Down, game.Right}, move)
		}
	})

	t.Run("panics on a dead game", func(t *testing.T) {
		a := NewRandomAgent(rand.New(rand.NewSource(1)))
		dead := game.NewGameFromBoard(game.Board{
			{2, 4, 2, 4},
			{4, 2, 4, 2},
			{2, 4, 2, 4},
			{4, 2, 4, 2},
		})

		require.Panics(t, func() { a.FindMove(dead) })
	})
}

func TestMCTSAgent(t *testing.T) {
	mcts := searcher.NewMCTS(searcher.WithIterations(30), searcher.WithRolloutDepth(10), searcher.WithSeed(1), searcher.WithMetrics())
	a := NewMCTSAgent(mcts)
	state := game.NewGame(game.WithSeed(1))

	move, metric := a.FindMove(state)

	require.Contains(t, state.Board().ValidMoves(), move)
	require.Equal(t, 30, metric.Iterations)
}
