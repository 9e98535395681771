package searcher

import (
	"mcts2048/game"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectBestMove(t *testing.T) {
	t.Run("single iteration still picks a legal move", func(t *testing.T) {
		state := game.NewGameFromBoard(game.Board{{2, 0, 0, 0}}, game.WithSeed(1))

		got := SelectBestMove(state, 1, 10)

		require.Contains(t, []game.Direction{game.Down, game.Right}, got,
			"Root expansion should populate every valid move before the first rollout")
	})

	t.Run("panics on a dead game", func(t *testing.T) {
		dead := game.Board{
			{2, 4, 2, 4},
			{4, 2, 4, 2},
			{2, 4, 2, 4},
			{4, 2, 4, 2},
		}
		state := game.NewGameFromBoard(dead, game.WithSeed(1))

		require.PanicsWithValue(t, "root has no children", func() {
			SelectBestMove(state, 10, 10)
		})
	})

	t.Run("panics without iterations", func(t *testing.T) {
		require.Panics(t, func() {
			SelectBestMove(game.NewGame(game.WithSeed(1)), 0, 10)
		})
	})
}

func TestMCTSSearch(t *testing.T) {
	t.Run("search leaves the searched game untouched", func(t *testing.T) {
		state := game.NewGame(game.WithSeed(2))
		before := *state

		m := NewMCTS(WithIterations(100), WithRolloutDepth(20), WithSeed(2))
		m.Search(state)

		require.Equal(t, before.Board(), state.Board())
		require.Equal(t, before.Score(), state.Score())
		require.Equal(t, before.ComboStreak(), state.ComboStreak())
	})

	t.Run("policy covers every valid root move", func(t *testing.T) {
		state := game.NewGameFromBoard(game.Board{{2, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 4}}, game.WithSeed(3))

		res := NewMCTS(WithIterations(50), WithRolloutDepth(20), WithSeed(3)).Search(state)

		require.Len(t, res.Policy, 4)
		visits := 0
		best := res.Policy[0]
		for _, edge := range res.Policy {
			visits += edge.Visits
			if edge.BestScore > best.BestScore {
				best = edge
			}
		}
		require.Equal(t, 49, visits, "Every iteration after the root rollout should visit one root child")
		require.Equal(t, best.Move, res.Move, "Best move should be the highest scoring root child")
	})

	t.Run("metrics account for every iteration", func(t *testing.T) {
		state := game.NewGame(game.WithSeed(4))

		res := NewMCTS(WithIterations(80), WithRolloutDepth(10), WithSeed(4), WithMetrics()).Search(state)

		require.Equal(t, 80, res.Metric.Iterations)
		require.Equal(t, 10, res.Metric.RolloutDepth)
		require.Equal(t, 80, res.Metric.Episodes+res.Metric.Skipped)
		require.Greater(t, res.Metric.Nodes, 1)
	})

	t.Run("same seeds give the same decision", func(t *testing.T) {
		state := game.NewGame(game.WithSeed(5))

		first := NewMCTS(WithIterations(60), WithRolloutDepth(15), WithSeed(9)).Search(state)
		second := NewMCTS(WithIterations(60), WithRolloutDepth(15), WithSeed(9)).Search(state)

		require.Equal(t, first.Move, second.Move)
		require.Equal(t, first.Policy, second.Policy)
	})

	t.Run("options ignore invalid values", func(t *testing.T) {
		m := NewMCTS(WithIterations(-1), WithRolloutDepth(0))

		require.Equal(t, DefaultIterations, m.Iterations())
		require.Equal(t, DefaultRolloutDepth, m.RolloutDepth())
	})
}
