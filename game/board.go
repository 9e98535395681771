package game

import (
	"strconv"
	"strings"
)

const Size = 4

// Board is a 4x4 grid of tiles. Zero is an empty cell, anything else is a
// power of two. Boards are values: assigning one copies every cell.
type Board [Size][Size]uint32

type Cell struct {
	Row, Col int
}

// Rotate turns the board clockwise by n quarter turns.
func (b Board) Rotate(n int) Board {
	n = ((n % 4) + 4) % 4
	for ; n > 0; n-- {
		var r Board
		for i := 0; i < Size; i++ {
			for j := 0; j < Size; j++ {
				r[i][j] = b[Size-1-j][i]
			}
		}
		b = r
	}
	return b
}

// slide packs the non-zero values of a row to the left, keeping their order.
func slide(row [Size]uint32) [Size]uint32 {
	var out [Size]uint32
	k := 0
	for _, v := range row {
		if v != 0 {
			out[k] = v
			k++
		}
	}
	return out
}

// combine merges equal neighbours left to right in a single pass and
// returns the merged values. A tile produced by a merge is not merged again.
func combine(row [Size]uint32) ([Size]uint32, []uint32) {
	var merged []uint32
	for j := 0; j < Size-1; j++ {
		if row[j] != 0 && row[j] == row[j+1] {
			row[j] *= 2
			row[j+1] = 0
			merged = append(merged, row[j])
			j++
		}
	}
	return row, merged
}

func (b Board) EmptyCells() []Cell {
	var cells []Cell
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			if b[i][j] == 0 {
				cells = append(cells, Cell{Row: i, Col: j})
			}
		}
	}
	return cells
}

func (b Board) CountEmpty() int {
	n := 0
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			if b[i][j] == 0 {
				n++
			}
		}
	}
	return n
}

// CanMove reports whether any move is possible: an empty cell, or two equal
// tiles next to each other in a row or a column.
func (b Board) CanMove() bool {
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			if b[i][j] == 0 {
				return true
			}
			if j < Size-1 && b[i][j] == b[i][j+1] {
				return true
			}
			if i < Size-1 && b[i][j] == b[i+1][j] {
				return true
			}
		}
	}
	return false
}

func (b Board) Contains(v uint32) bool {
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			if b[i][j] == v {
				return true
			}
		}
	}
	return false
}

func (b Board) Max() uint32 {
	var m uint32
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			m = max(m, b[i][j])
		}
	}
	return m
}

// InCorner reports whether v sits in one of the four corners.
func (b Board) InCorner(v uint32) bool {
	return b[0][0] == v || b[Size-1][0] == v || b[0][Size-1] == v || b[Size-1][Size-1] == v
}

func (b Board) String() string {
	var sb strings.Builder
	for i, row := range b {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for j, v := range row {
			if j > 0 {
				sb.WriteByte('\t')
			}
			sb.WriteString(strconv.FormatUint(uint64(v), 10))
		}
	}
	return sb.String()
}
