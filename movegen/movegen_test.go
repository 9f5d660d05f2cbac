package movegen

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/betsy/board"
	"github.com/domino14/betsy/move"
)

func descriptions(plays []Successor) []string {
	s := make([]string, len(plays))
	for i, p := range plays {
		s[i] = p.Move.ShortDescription()
	}
	return s
}

func TestGenAllEmptyBoard(t *testing.T) {
	is := is.New(t)
	b, _ := board.New(3)
	plays := NewSeededGenerator(1).GenAll(board.PlayerA, b)
	is.Equal(len(plays), 6)

	drops, rotates := 0, 0
	for _, p := range plays {
		switch p.Move.Action() {
		case move.MoveTypeDrop:
			drops++
			is.Equal(p.Board.Occupied(), 1)
			is.Equal(p.Board.Count(board.PlayerA), 1)
		case move.MoveTypeRotate:
			rotates++
			is.True(p.Board.Equal(b))
		}
	}
	is.Equal(drops, 3)
	is.Equal(rotates, 3)
}

func TestGenAllSkipsFullColumns(t *testing.T) {
	is := is.New(t)
	// column 1 is full
	b, err := board.Parse(3, "x..o..x..o..x..o..", board.DefaultSymbols)
	is.NoErr(err)
	plays := NewSeededGenerator(1).GenAll(board.PlayerB, b)
	is.Equal(len(plays), 5)
	for _, p := range plays {
		is.True(p.Move != move.NewDrop(1))
	}
}

func TestGenAllFullBoardOnlyRotates(t *testing.T) {
	is := is.New(t)
	b, err := board.Parse(3, "xoxoxooxoxoxoxoxox", board.DefaultSymbols)
	is.NoErr(err)
	plays := NewGenerator(nil).GenAll(board.PlayerA, b)
	is.Equal(len(plays), 3)
	for _, p := range plays {
		is.Equal(p.Move.Action(), move.MoveTypeRotate)
	}
}

func TestSeededOrderIsDeterministic(t *testing.T) {
	is := is.New(t)
	b, _ := board.New(4)
	g1 := NewSeededGenerator(99)
	g2 := NewSeededGenerator(99)
	for i := 0; i < 5; i++ {
		is.Equal(descriptions(g1.GenAll(board.PlayerA, b)), descriptions(g2.GenAll(board.PlayerA, b)))
	}
}

func TestOrderChangesBetweenCalls(t *testing.T) {
	is := is.New(t)
	b, _ := board.New(5)
	g := NewSeededGenerator(3)
	first := descriptions(g.GenAll(board.PlayerA, b))
	differs := false
	// 10! orderings; twenty identical shuffles in a row won't happen.
	for i := 0; i < 20 && !differs; i++ {
		next := descriptions(g.GenAll(board.PlayerA, b))
		for j := range next {
			if next[j] != first[j] {
				differs = true
				break
			}
		}
	}
	is.True(differs)
}
