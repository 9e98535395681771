package game

import (
	"math"
	"math/bits"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

var deadBoard = Board{
	{2, 4, 2, 4},
	{4, 2, 4, 2},
	{2, 4, 2, 4},
	{4, 2, 4, 2},
}

func TestNewGame(t *testing.T) {
	g := NewGame(WithSeed(1))

	require.Equal(t, 14, g.Board().CountEmpty(), "New game should spawn exactly two tiles")
	require.Equal(t, 0.0, g.Score(), "New game should start with no score")
	require.Equal(t, uint32(2), g.HighTile(), "New game should start with high tile 2")
	require.Equal(t, 0, g.ComboStreak(), "New game should start without a streak")
	require.True(t, g.IsAlive(), "New game should be alive")
}

func TestSlideAndCombine(t *testing.T) {
	cases := []struct {
		name string
		row  [Size]uint32
		want [Size]uint32
	}{
		{"single pass merge", [Size]uint32{2, 2, 2, 2}, [Size]uint32{4, 4, 0, 0}},
		{"merge after gap", [Size]uint32{4, 0, 4, 8}, [Size]uint32{8, 8, 0, 0}},
		{"merged tile does not merge again", [Size]uint32{2, 2, 4, 0}, [Size]uint32{4, 4, 0, 0}},
		{"leftmost pair merges first", [Size]uint32{8, 8, 8, 0}, [Size]uint32{16, 8, 0, 0}},
		{"no merges", [Size]uint32{0, 2, 0, 4}, [Size]uint32{2, 4, 0, 0}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			row, _ := combine(slide(c.row))
			require.Equal(t, c.want, slide(row))
		})
	}
}

func TestRotate(t *testing.T) {
	b := Board{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
		{9, 10, 11, 12},
		{13, 14, 15, 16},
	}

	t.Run("quarter turn is clockwise", func(t *testing.T) {
		got := b.Rotate(1)
		require.Equal(t, [Size]uint32{13, 9, 5, 1}, got[0], "First row should be the first column read upwards")
	})

	t.Run("four quarter turns are the identity", func(t *testing.T) {
		require.Equal(t, b, b.Rotate(4))
		require.Equal(t, b, b.Rotate(1).Rotate(3))
	})
}

func TestShiftRotationSymmetry(t *testing.T) {
	b := Board{
		{2, 0, 2, 4},
		{0, 4, 4, 4},
		{8, 8, 0, 2},
		{2, 2, 2, 2},
	}

	right, _ := shift(b, Right)
	left, _ := shift(b.Rotate(2), Left)
	require.Equal(t, left.Rotate(2), right, "Right should equal rot180(left(rot180(B)))")

	up, _ := shift(b, Up)
	require.Equal(t, [Size]uint32{2, 4, 2, 8}, up[0])
	down, _ := shift(b, Down)
	require.Equal(t, [Size]uint32{2, 2, 2, 4}, down[3])
}

func TestCanMove(t *testing.T) {
	require.False(t, deadBoard.CanMove(), "Full board without equal neighbours should be dead")

	horizontal := deadBoard
	horizontal[0][1] = 2
	require.True(t, horizontal.CanMove(), "Equal horizontal neighbours should allow a move")

	vertical := deadBoard
	vertical[1][3] = 4
	require.True(t, vertical.CanMove(), "Equal vertical neighbours should allow a move")

	empty := deadBoard
	empty[2][2] = 0
	require.True(t, empty.CanMove(), "An empty cell should allow a move")
}

func TestMove(t *testing.T) {
	t.Run("merging two tiles scores merge, corner and empty bonuses", func(t *testing.T) {
		g := NewGameFromBoard(Board{{2, 2, 0, 0}}, WithSeed(7))

		res := g.Move(Left)

		require.True(t, res.IsValidMove)
		require.True(t, res.IsAlive)
		require.Equal(t, uint32(4), res.Board[0][0], "Row 0 should start with the merged tile")
		require.Equal(t, 14, res.Board.CountEmpty(), "One merged tile plus one spawned tile")
		require.Equal(t, uint32(4), g.HighTile())
		require.Equal(t, 1, g.ComboStreak())

		var visited Visited
		want := MergeScore(4) + 4 + SequenceBonus(res.Board, 4, &visited) + 14*0.5*2
		require.InDelta(t, 8.0, MergeScore(4), 1e-9, "4*(1+0.5*log2(4)) is 8")
		require.InDelta(t, want, g.Score(), 1e-9)
	})

	t.Run("invalid move is penalised and idempotent", func(t *testing.T) {
		b := Board{{2, 4, 8, 16}}
		g := NewGameFromBoard(b, WithSeed(3), WithScore(50, 3))

		first := g.Move(Left)
		second := g.Move(Left)

		require.False(t, first.IsValidMove)
		require.False(t, second.IsValidMove)
		require.Equal(t, b, first.Board, "Invalid move should leave the board unchanged")
		require.Equal(t, first.Board, second.Board, "Repeated invalid move should yield the same board")
		require.Equal(t, 48.0, g.Score(), "Each invalid move should cost one point")
		require.Equal(t, 0, g.ComboStreak(), "Invalid move should reset the streak")
		require.True(t, g.IsAlive())
	})

	t.Run("dead game accepts no moves", func(t *testing.T) {
		g := NewGameFromBoard(deadBoard, WithSeed(1), WithScore(10, 2))
		require.False(t, g.IsAlive())

		for _, d := range Directions {
			res := g.Move(d)
			require.False(t, res.IsValidMove)
			require.False(t, res.IsAlive)
			require.Equal(t, deadBoard, res.Board)
		}
		require.Equal(t, 10.0, g.Score(), "Dead game should not be penalised")
		require.Equal(t, 2, g.ComboStreak())
	})

	t.Run("multiple merges earn efficiency and streak bonuses", func(t *testing.T) {
		g := NewGameFromBoard(Board{{2, 2, 4, 4}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 16}}, WithSeed(5))

		g.Move(Left)

		require.Equal(t, 2, g.ComboStreak())
		require.Equal(t, uint32(16), g.HighTile(), "High tile should come from the board")
	})

	t.Run("two merges on a running streak score exactly", func(t *testing.T) {
		g := NewGameFromBoard(Board{{2, 2, 4, 4}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 16}}, WithSeed(5), WithScore(100, 3))

		res := g.Move(Left)

		require.True(t, res.IsValidMove)
		require.Equal(t, [Size]uint32{4, 8, 0, 0}, res.Board[0])
		require.Equal(t, uint32(16), res.Board[3][0], "16 slides into the bottom-left corner")
		require.Equal(t, 5, g.ComboStreak(), "Streak of 3 plus two merges")

		// merges 8 + 20, efficiency 10*2, streak 5, corner 16
		fixed := 8.0 + 20.0 + 20.0 + 5.0 + 16.0
		var visited Visited
		positional := SequenceBonus(res.Board, 16, &visited) + float64(res.Board.CountEmpty())*0.5*4
		require.Equal(t, 12, res.Board.CountEmpty(), "Three tiles plus one spawned tile")
		require.InDelta(t, 100+fixed+positional, g.Score(), 1e-9)
	})

	t.Run("valid move recomputes liveness", func(t *testing.T) {
		b := deadBoard
		b[0][0], b[0][1] = 4, 4
		b[0][2], b[0][3] = 2, 8
		g := NewGameFromBoard(b, WithSeed(2))
		require.True(t, g.IsAlive())

		res := g.Move(Left)
		require.True(t, res.IsValidMove)
		require.Equal(t, res.Board.CanMove(), res.IsAlive)
	})
}

func TestMoveStreak(t *testing.T) {
	g := NewGameFromBoard(Board{{2, 2, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {4, 4, 0, 0}}, WithSeed(11))

	g.Move(Left)
	require.Equal(t, 2, g.ComboStreak(), "Two merges in one move add two to the streak")

	g = NewGameFromBoard(Board{{2, 0, 0, 0}}, WithSeed(11), WithScore(0, 5))
	res := g.Move(Right)
	require.True(t, res.IsValidMove)
	require.Equal(t, 0, g.ComboStreak(), "A valid move without merges resets the streak")
}

func TestPlayInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	g := NewGame(WithRand(rand.New(rand.NewSource(43))))

	prevHigh := g.HighTile()
	for i := 0; i < 2000 && g.IsAlive(); i++ {
		g.Move(Directions[rng.Intn(len(Directions))])

		b := g.Board()
		for _, row := range b {
			for _, v := range row {
				require.True(t, v == 0 || bits.OnesCount32(v) == 1, "Tile %d should be zero or a power of two", v)
			}
		}
		require.GreaterOrEqual(t, g.HighTile(), prevHigh, "High tile should never decrease")
		prevHigh = g.HighTile()
		require.Equal(t, b.CanMove(), g.IsAlive())
	}
}

func TestClone(t *testing.T) {
	g := NewGameFromBoard(Board{{2, 2, 0, 0}}, WithSeed(9), WithScore(12, 1))
	c := g.Clone()

	require.Equal(t, g.Board(), c.Board())
	require.Equal(t, g.Score(), c.Score())
	require.Equal(t, g.ComboStreak(), c.ComboStreak())
	require.Equal(t, g.HighTile(), c.HighTile())

	c.Move(Left)
	require.Equal(t, Board{{2, 2, 0, 0}}, g.Board(), "Moving a clone should not touch the source game")
	require.Equal(t, 12.0, g.Score())
	require.NotSame(t, g.rng, c.rng, "Clone should own its random stream")
}

func TestSpawnProbability(t *testing.T) {
	count := func(p float64) (twos int) {
		rng := rand.New(rand.NewSource(1))
		for i := 0; i < 200; i++ {
			g := NewGame(WithRand(rng), WithSpawnProbability(p))
			for _, row := range g.Board() {
				for _, v := range row {
					if v == 2 {
						twos++
					}
				}
			}
		}
		return twos
	}

	require.Equal(t, 400, count(1), "Probability 1 should only spawn twos")
	require.Equal(t, 0, count(0), "Probability 0 should only spawn fours")
	require.InDelta(t, 0.82, float64(count(SpawnTwoProbability))/400, 0.08)
}

func TestSequenceBonus(t *testing.T) {
	t.Run("descending chain from the high tile", func(t *testing.T) {
		b := Board{{16, 8, 4, 2}}
		var visited Visited
		require.InDelta(t, 4*math.Log2(16), SequenceBonus(b, 16, &visited), 1e-9)
	})

	t.Run("quarter steps extend the chain", func(t *testing.T) {
		b := Board{{32, 8, 0, 0}, {0, 2, 0, 0}}
		var visited Visited
		require.InDelta(t, 3*math.Log2(32), SequenceBonus(b, 32, &visited), 1e-9)
	})

	t.Run("lone high tile scores nothing", func(t *testing.T) {
		b := Board{{16, 2, 0, 0}}
		var visited Visited
		require.Equal(t, 0.0, SequenceBonus(b, 16, &visited))
	})

	t.Run("visited cells are shared between origins", func(t *testing.T) {
		b := Board{{16, 16, 0, 0}}
		var visited Visited
		require.InDelta(t, 2*math.Log2(16), SequenceBonus(b, 16, &visited), 1e-9,
			"Second origin should already be claimed by the first")
		require.True(t, visited[0][0])
		require.True(t, visited[0][1])
	})

	t.Run("pre-visited cells are skipped", func(t *testing.T) {
		b := Board{{16, 8, 4, 2}}
		var visited Visited
		visited[0][2] = true
		require.InDelta(t, 2*math.Log2(16), SequenceBonus(b, 16, &visited), 1e-9)
	})

	t.Run("cell rejected from one neighbour is claimed through another", func(t *testing.T) {
		// (1,0)=2 is too small to follow 16 but follows (1,1)=4 reached via 8.
		b := Board{
			{16, 8, 0, 0},
			{2, 4, 0, 0},
		}
		var visited Visited
		require.InDelta(t, 4*math.Log2(16), SequenceBonus(b, 16, &visited), 1e-9)
	})
}

func TestParseDirection(t *testing.T) {
	for _, d := range Directions {
		got, err := ParseDirection(d.String())
		require.NoError(t, err)
		require.Equal(t, d, got)
	}

	_, err := ParseDirection("sideways")
	require.ErrorIs(t, err, ErrInvalidDirection, "Unknown labels should not alias to left")

	require.Equal(t, 0, Left.Rotations())
	require.Equal(t, 1, Down.Rotations())
	require.Equal(t, 2, Right.Rotations())
	require.Equal(t, 3, Up.Rotations())
	require.Panics(t, func() { Direction(7).Rotations() })
}

func TestValidMoves(t *testing.T) {
	require.Equal(t, []Direction{Down, Right}, Board{{2, 0, 0, 0}}.ValidMoves())
	require.Empty(t, deadBoard.ValidMoves())
	require.Equal(t, Directions, Board{{0, 2, 0, 0}, {2, 0, 0, 0}}.ValidMoves())
}
