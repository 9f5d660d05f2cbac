package search

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/betsy/move"
)

// Credit: MIT-licensed https://github.com/algerbrex/blunder/blob/main/engine/search.go
//
// PVLine is the principal variation: the line of play, starting at the
// root, that produced a node's value.
type PVLine struct {
	Moves []move.Move
	score int
}

// Clear the principal variation line.
func (pvLine *PVLine) Clear() {
	pvLine.Moves = nil
}

// Update the principal variation line with a new best move,
// and a new line of best play after the best move.
func (pvLine *PVLine) Update(m move.Move, newPVLine PVLine, score int) {
	pvLine.Clear()
	pvLine.Moves = append(pvLine.Moves, m)
	pvLine.Moves = append(pvLine.Moves, newPVLine.Moves...)
	pvLine.score = score
}

// GetPVMove returns the first move of the line, or the zero Move if the
// line is empty.
func (pvLine *PVLine) GetPVMove() move.Move {
	if len(pvLine.Moves) == 0 {
		return move.Move{}
	}
	return pvLine.Moves[0]
}

func (pvLine PVLine) String() string {
	var s string
	s = fmt.Sprintf("PV; val %d\n", pvLine.score)
	for i := 0; i < len(pvLine.Moves); i++ {
		s += fmt.Sprintf("%d: %s\n", i+1, pvLine.Moves[i].ShortDescription())
	}
	return s
}

// NLBString is String without line breaks, for logging.
func (pvLine PVLine) NLBString() string {
	descs := lo.Map(pvLine.Moves, func(m move.Move, _ int) string {
		return m.ShortDescription()
	})
	return fmt.Sprintf("PV; val %d; %s", pvLine.score, strings.Join(descs, " "))
}
