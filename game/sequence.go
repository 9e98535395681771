package game

import "math"

// Visited marks cells already claimed by a sequence. One set is shared by
// every origin of a single SequenceBonus call.
type Visited [Size][Size]bool

type step struct {
	row, col int
	prev     uint32
}

// SequenceBonus rewards chains of tiles that step down smoothly from the
// high tile. From every cell holding highTile it flood-fills through
// 4-connected neighbours whose value equals, halves or quarters the value of
// the cell they were reached from. An origin whose chain is longer than one
// cell scores length*log2(origin value).
func SequenceBonus(b Board, highTile uint32, visited *Visited) float64 {
	bonus := 0.0
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			if b[i][j] != highTile {
				continue
			}
			length := chainLength(b, Cell{Row: i, Col: j}, visited)
			if length > 1 {
				bonus += float64(length) * math.Log2(float64(b[i][j]))
			}
		}
	}
	return bonus
}

// chainLength walks depth first with an explicit stack. Cells are checked
// when popped, so a cell rejected from one predecessor can still be claimed
// through another, matching a recursive walk that tries neighbours in the
// order down, up, right, left.
func chainLength(b Board, origin Cell, visited *Visited) int {
	stack := []step{{row: origin.Row, col: origin.Col, prev: b[origin.Row][origin.Col] * 2}}
	length := 0
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if s.row < 0 || s.row >= Size || s.col < 0 || s.col >= Size || visited[s.row][s.col] {
			continue
		}
		v := b[s.row][s.col]
		if !extends(v, s.prev) {
			continue
		}
		visited[s.row][s.col] = true
		length++

		// Pushed in reverse so the first neighbour is explored first.
		stack = append(stack,
			step{row: s.row, col: s.col - 1, prev: v},
			step{row: s.row, col: s.col + 1, prev: v},
			step{row: s.row - 1, col: s.col, prev: v},
			step{row: s.row + 1, col: s.col, prev: v},
		)
	}
	return length
}

func extends(v, prev uint32) bool {
	if v == 0 {
		return false
	}
	return v == prev || (prev%2 == 0 && v == prev/2) || (prev%4 == 0 && v == prev/4)
}
