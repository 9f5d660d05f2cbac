package board

import (
	"errors"
	"fmt"
)

// A Cell is a single square on the board. It is either empty or holds a
// pebble belonging to one of the two players.
type Cell uint8

const (
	Empty Cell = iota
	PlayerA
	PlayerB
)

// EmptySymbol is the character used for an empty cell in the flat encoding.
const EmptySymbol = '.'

var (
	ErrBadCell      = errors.New("invalid cell symbol")
	ErrBadPlayer    = errors.New("invalid player")
	ErrBadSymbols   = errors.New("player symbols must be distinct and not '.'")
	ErrBadLength    = errors.New("board has the wrong length")
	ErrBadDimension = errors.New("board dimension must be positive")
)

// Opponent returns the other player. The opponent of Empty is Empty.
func (c Cell) Opponent() Cell {
	switch c {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	}
	return Empty
}

func (c Cell) String() string {
	switch c {
	case PlayerA:
		return "A"
	case PlayerB:
		return "B"
	}
	return "empty"
}

// Symbols maps the two players to the characters used to represent their
// pebbles in the flat board encoding.
type Symbols struct {
	a, b rune
}

// DefaultSymbols are the standard pebble symbols.
var DefaultSymbols = Symbols{a: 'x', b: 'o'}

func NewSymbols(a, b rune) (Symbols, error) {
	if a == b || a == EmptySymbol || b == EmptySymbol {
		return Symbols{}, ErrBadSymbols
	}
	return Symbols{a: a, b: b}, nil
}

// Cell converts a flat-encoding character to a Cell.
func (s Symbols) Cell(r rune) (Cell, error) {
	switch r {
	case EmptySymbol:
		return Empty, nil
	case s.a:
		return PlayerA, nil
	case s.b:
		return PlayerB, nil
	}
	return Empty, fmt.Errorf("%w: %q", ErrBadCell, r)
}

// Player parses a player identifier such as "x". Unlike Cell, it rejects
// the empty symbol.
func (s Symbols) Player(str string) (Cell, error) {
	rs := []rune(str)
	if len(rs) != 1 {
		return Empty, fmt.Errorf("%w: %q", ErrBadPlayer, str)
	}
	c, err := s.Cell(rs[0])
	if err != nil || c == Empty {
		return Empty, fmt.Errorf("%w: %q", ErrBadPlayer, str)
	}
	return c, nil
}

func (s Symbols) Rune(c Cell) rune {
	switch c {
	case PlayerA:
		return s.a
	case PlayerB:
		return s.b
	}
	return EmptySymbol
}
