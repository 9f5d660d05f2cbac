package board

import (
	"fmt"
	"strings"
)

// Parse reads a flat board encoding of n*(n+3) characters drawn from '.'
// and the two player symbols.
func Parse(n int, s string, syms Symbols) (Board, error) {
	if n <= 0 {
		return Board{}, ErrBadDimension
	}
	rs := []rune(s)
	if len(rs) != n*(n+ReservoirRows) {
		return Board{}, fmt.Errorf("%w: got %d cells, want %d", ErrBadLength,
			len(rs), n*(n+ReservoirRows))
	}
	cells := make([]Cell, len(rs))
	for i, r := range rs {
		c, err := syms.Cell(r)
		if err != nil {
			return Board{}, fmt.Errorf("position %d: %w", i, err)
		}
		cells[i] = c
	}
	return Board{n: n, cells: cells}, nil
}

// Serialize writes the board in the flat encoding accepted by Parse.
func (b Board) Serialize(syms Symbols) string {
	var sb strings.Builder
	sb.Grow(len(b.cells))
	for _, c := range b.cells {
		sb.WriteRune(syms.Rune(c))
	}
	return sb.String()
}

func (b Board) String() string {
	return b.Serialize(DefaultSymbols)
}

// ToDisplayText draws the board one row per line, with a rule separating
// the scored zone from the reservoir.
func (b Board) ToDisplayText(syms Symbols) string {
	var str string
	n := b.n
	row := "   "
	for i := 0; i < n; i++ {
		row = row + fmt.Sprintf("%d", (i+1)%10) + " "
	}
	str = str + row + "\n"
	str = str + "   " + strings.Repeat("-", n*2) + "\n"
	for i := 0; i < b.Rows(); i++ {
		if i == n {
			str = str + "   " + strings.Repeat("~", n*2) + "\n"
		}
		row := fmt.Sprintf("%2d|", i+1)
		for j := 0; j < n; j++ {
			row = row + string(syms.Rune(b.At(i, j))) + " "
		}
		row = row + "|"
		str = str + row + "\n"
	}
	str = str + "   " + strings.Repeat("-", n*2) + "\n"
	return "\n" + str
}
