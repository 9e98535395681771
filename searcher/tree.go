package searcher

import (
	"math"
	"mcts2048/game"

	"github.com/samber/lo"
	"golang.org/x/exp/rand"
)

const noParent = -1

// node is a game state in the search tree. Nodes live in the tree's arena
// and refer to their parent and children by index.
type node struct {
	game      *game.Game
	move      game.Direction // move from the parent, unset on the root
	parent    int
	children  []int
	bestScore float64
	visits    int
}

// tree is built for a single decision and thrown away afterwards.
type tree struct {
	nodes        []node
	rolloutDepth int
	cSquared     float64
	rng          *rand.Rand
}

const root = 0

func newTree(state *game.Game, rolloutDepth int, cSquared float64, rng *rand.Rand) *tree {
	t := &tree{
		rolloutDepth: rolloutDepth,
		cSquared:     cSquared,
		rng:          rng,
	}
	t.nodes = append(t.nodes, node{game: state.CloneWithSeed(rng.Uint64()), parent: noParent})
	return t
}

// selects descends from the root to a node without children, following the
// child with the highest UCT score. The first child wins ties.
func (t *tree) selects() int {
	i := root
	for len(t.nodes[i].children) > 0 {
		i = t.pickChild(i)
	}
	return i
}

func (t *tree) pickChild(i int) int {
	maxIndex := -1
	maxScore := math.Inf(-1)
	for _, c := range t.nodes[i].children {
		if score := t.score(c); score > maxScore {
			maxScore = score
			maxIndex = c
		}
	}
	return maxIndex
}

// score returns the UCT value of node i relative to its parent. The root
// has no parent and cannot be scored.
func (t *tree) score(i int) float64 {
	n := &t.nodes[i]
	if n.parent == noParent {
		panic("cannot compute UCT for the root node")
	}
	if n.visits == 0 {
		return math.Inf(1)
	}
	policy := newUCT(t.cSquared, float64(t.nodes[n.parent].visits))
	return policy.evaluate(n.bestScore, float64(n.visits))
}

// expands adds one child per direction that changes the board of node i.
func (t *tree) expands(i int) {
	if !t.nodes[i].game.IsAlive() {
		return
	}

	children := make([]int, 0, len(game.Directions))
	for _, d := range game.Directions {
		next := t.nodes[i].game.Clone()
		if res := next.Move(d); !res.IsValidMove {
			continue
		}
		t.nodes = append(t.nodes, node{game: next, move: d, parent: i})
		children = append(children, len(t.nodes)-1)
	}
	t.nodes[i].children = children
}

// rollout plays random moves from a copy of node i until the game dies or
// rolloutDepth valid moves are made. Invalid picks are retried without
// counting. Reaching the victory tile ends the rollout with VictoryReward.
func (t *tree) rollout(i int) (result float64, victory bool) {
	sim := t.nodes[i].game.Clone()
	moves := 0
	for sim.IsAlive() && moves < t.rolloutDepth {
		d := game.Directions[t.rng.Intn(len(game.Directions))]
		res := sim.Move(d)
		if !res.IsValidMove {
			continue
		}
		if res.Board.Contains(game.VictoryTile) {
			victory = true
			break
		}
		moves++
	}

	result = sim.Score()
	if victory {
		result = VictoryReward
	}
	t.nodes[i].bestScore = result
	return result, victory
}

// backup records result on node i and walks to the root. Every ancestor's
// score becomes the plain mean over its visited children.
func (t *tree) backup(i int, result float64) {
	t.nodes[i].bestScore = result
	t.nodes[i].visits++

	for p := t.nodes[i].parent; p != noParent; p = t.nodes[p].parent {
		visited := lo.Filter(t.nodes[p].children, func(c int, _ int) bool {
			return t.nodes[c].visits > 0
		})
		scores := lo.Map(visited, func(c int, _ int) float64 {
			return t.nodes[c].bestScore
		})
		t.nodes[p].bestScore = lo.Sum(scores) / float64(len(scores))
		t.nodes[p].visits++
	}
}

// bestMove returns the move of the root child with the highest score. The
// first child wins ties.
func (t *tree) bestMove() game.Direction {
	children := t.nodes[root].children
	if len(children) == 0 {
		panic("root has no children")
	}

	best := children[0]
	for _, c := range children[1:] {
		if t.nodes[c].bestScore > t.nodes[best].bestScore {
			best = c
		}
	}
	return t.nodes[best].move
}

// Edge summarises a root child after a search.
type Edge struct {
	Move      game.Direction
	BestScore float64
	Visits    int
}

func (t *tree) policy() []Edge {
	return lo.Map(t.nodes[root].children, func(c int, _ int) Edge {
		n := t.nodes[c]
		return Edge{Move: n.move, BestScore: n.bestScore, Visits: n.visits}
	})
}
