package move

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/domino14/betsy/board"
)

// MoveType is a type of move; a drop or a rotation.
type MoveType uint8

const (
	MoveTypeNone MoveType = iota
	MoveTypeDrop
	MoveTypeRotate
)

var ErrBadMove = errors.New("invalid move")

// Move is a drop or a rotation of a 1-indexed column. The zero Move is
// "no move".
type Move struct {
	action MoveType
	column int
}

var reMove *regexp.Regexp

func init() {
	reMove = regexp.MustCompile(`^(?P<action>drop|d|rotate|r)\s*(?P<col>[0-9]+)$`)
}

func NewDrop(column int) Move {
	return Move{action: MoveTypeDrop, column: column}
}

func NewRotate(column int) Move {
	return Move{action: MoveTypeRotate, column: column}
}

// FromString parses descriptions such as "drop2", "rotate 3", or "r1" for
// a board with n columns.
func FromString(s string, n int) (Move, error) {
	m := reMove.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil {
		return Move{}, fmt.Errorf("%w: %q", ErrBadMove, s)
	}
	col, err := strconv.Atoi(m[2])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q", ErrBadMove, s)
	}
	if col < 1 || col > n {
		return Move{}, fmt.Errorf("%w: column %d out of range 1-%d", ErrBadMove, col, n)
	}
	if strings.HasPrefix(m[1], "d") {
		return NewDrop(col), nil
	}
	return NewRotate(col), nil
}

func (m Move) Action() MoveType {
	return m.action
}

func (m Move) Column() int {
	return m.column
}

func (m Move) IsZero() bool {
	return m.action == MoveTypeNone
}

// String provides a string just for debugging purposes.
func (m Move) String() string {
	switch m.action {
	case MoveTypeDrop:
		return fmt.Sprintf("<action: drop column: %d>", m.column)
	case MoveTypeRotate:
		return fmt.Sprintf("<action: rotate column: %d>", m.column)
	}
	return "<no move>"
}

func (m Move) MoveTypeString() string {
	switch m.action {
	case MoveTypeDrop:
		return "Drop"
	case MoveTypeRotate:
		return "Rotate"
	}
	return "None"
}

// ShortDescription provides a short description, useful for logging or
// user display.
func (m Move) ShortDescription() string {
	switch m.action {
	case MoveTypeDrop:
		return "drop" + strconv.Itoa(m.column)
	case MoveTypeRotate:
		return "rotate" + strconv.Itoa(m.column)
	}
	return "start"
}

// Apply plays the move for the player on the given board. The second
// return value is false if the move is a drop into a full column, or
// no move at all.
func (m Move) Apply(player board.Cell, b board.Board) (board.Board, bool) {
	switch m.action {
	case MoveTypeDrop:
		return b.Drop(player, m.column)
	case MoveTypeRotate:
		return b.Rotate(m.column), true
	}
	return board.Board{}, false
}
