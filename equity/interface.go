package equity

import (
	"github.com/domino14/betsy/board"
)

// Calculator values a board from one player's point of view. Higher is
// better for that player.
type Calculator interface {
	Value(player board.Cell, b board.Board) int
}
