package equity

import (
	"github.com/domino14/betsy/board"
)

// ThreatCalculator scores a position by looking at the scored zone with the
// bottom reservoir row stacked on top of it, since that row is the next to
// enter play when a column rotates. The score is the sum of row-pair
// threats, diagonal threats, and material on the stacked grid.
//
// The value is not symmetric: swapping the player flips the material term
// but the threat terms only ever count the given player's pebbles.
type ThreatCalculator struct{}

func (tc ThreatCalculator) Value(player board.Cell, b board.Board) int {
	g := newStackedGrid(b)
	return RowPairThreats(player, g) + Material(player, g) +
		DiagonalThreats(player, g, false) + DiagonalThreats(player, g, true)
}

// StackedGrid is the (n+1)×n view used by the evaluator. Row 0 is the
// bottom reservoir row; rows 1..n are the scored zone, top to bottom.
type StackedGrid struct {
	b board.Board
	n int
}

func newStackedGrid(b board.Board) StackedGrid {
	return StackedGrid{b: b, n: b.Dim()}
}

// Stack builds the stacked view of a board.
func Stack(b board.Board) StackedGrid {
	return newStackedGrid(b)
}

func (g StackedGrid) at(row, col int) board.Cell {
	if row == 0 {
		return g.b.At(g.b.Rows()-1, col)
	}
	return g.b.At(row-1, col)
}

// RowPairThreats walks adjacent row pairs from the bottom of the stacked
// grid upward. A pair is worth one point when every column has the
// player's pebble in at least one of its two rows. The first failing
// column abandons the pair and the walk moves to the pair above.
func RowPairThreats(player board.Cell, g StackedGrid) int {
	v := 0
	i, j := g.n, 0
	for j < g.n && i > 0 {
		if g.at(i, j) == player || g.at(i-1, j) == player {
			j++
			if j == g.n {
				v++
				i--
				j = 0
			}
		} else {
			i--
			j = 0
		}
	}
	return v
}

// Material is +1 for each of the player's pebbles and -1 for each of the
// opponent's on the stacked grid.
func Material(player board.Cell, g StackedGrid) int {
	v := 0
	for r := 0; r <= g.n; r++ {
		for c := 0; c < g.n; c++ {
			switch g.at(r, c) {
			case board.Empty:
			case player:
				v++
			default:
				v--
			}
		}
	}
	return v
}

// DiagonalThreats is the diagonal version of the row-pair walk: position p
// is satisfied when the player holds the diagonal cell in stacked row p+1
// or the cell just above it in row p. A complete diagonal is worth one
// point. anti selects the right-to-left diagonal.
func DiagonalThreats(player board.Cell, g StackedGrid, anti bool) int {
	col := func(p int) int {
		if anti {
			return g.n - 1 - p
		}
		return p
	}
	for p := 0; p < g.n; p++ {
		if g.at(p+1, col(p)) != player && g.at(p, col(p)) != player {
			return 0
		}
	}
	return 1
}
