package game

import (
	"errors"
	"fmt"
	"strings"
)

// Direction is one of the four sliding moves. The values double as the
// number of clockwise quarter turns that reduce the move to a left slide.
type Direction int

const (
	Left Direction = iota
	Down
	Right
	Up
)

// Directions is the order in which moves are tried when expanding a state.
var Directions = []Direction{Up, Down, Left, Right}

var ErrInvalidDirection = errors.New("invalid direction")

func (d Direction) Valid() bool {
	return d >= Left && d <= Up
}

// Rotations returns the clockwise quarter turns applied before sliding left.
func (d Direction) Rotations() int {
	if !d.Valid() {
		panic(fmt.Sprintf("invalid direction %d", int(d)))
	}
	return int(d)
}

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Down:
		return "down"
	case Right:
		return "right"
	case Up:
		return "up"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ParseDirection maps a move label to a Direction. Unknown labels are
// rejected rather than treated as left.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l":
		return Left, nil
	case "down", "d":
		return Down, nil
	case "right", "r":
		return Right, nil
	case "up", "u":
		return Up, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}
