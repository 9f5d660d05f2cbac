// Package movegen generates the legal successors of a betsy position.
package movegen

import (
	"math/rand"

	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/domino14/betsy/board"
	"github.com/domino14/betsy/move"
)

// Shuffler randomizes the order of a sequence. *frand.RNG and *rand.Rand
// both satisfy it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Successor is a move together with the board it produces.
type Successor struct {
	Move  move.Move
	Board board.Board
}

// MoveGenerator is a generator of betsy successors.
type MoveGenerator interface {
	GenAll(player board.Cell, b board.Board) []Successor
}

// Generator produces every drop that fits and every rotation, in an order
// that is reshuffled on each call. A Generator is not safe for concurrent
// use; give each search thread its own.
type Generator struct {
	shuffler Shuffler
}

// NewGenerator returns a generator using the given shuffler, or a fresh
// entropy-seeded one if s is nil.
func NewGenerator(s Shuffler) *Generator {
	if s == nil {
		s = frand.New()
	}
	return &Generator{shuffler: s}
}

// NewSeededGenerator returns a generator with a deterministic move order.
func NewSeededGenerator(seed int64) *Generator {
	return NewGenerator(rand.New(rand.NewSource(seed)))
}

// GenAll returns all successors for the player on turn.
func (g *Generator) GenAll(player board.Cell, b board.Board) []Successor {
	plays := make([]Successor, 0, 2*b.Dim())
	for _, col := range lo.RangeFrom(1, b.Dim()) {
		if nb, ok := b.Drop(player, col); ok {
			plays = append(plays, Successor{Move: move.NewDrop(col), Board: nb})
		}
		plays = append(plays, Successor{Move: move.NewRotate(col), Board: b.Rotate(col)})
	}
	g.shuffler.Shuffle(len(plays), func(i, j int) {
		plays[i], plays[j] = plays[j], plays[i]
	})
	return plays
}
