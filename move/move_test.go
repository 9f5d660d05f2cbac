package move

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/betsy/board"
)

func TestFromString(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Move
	}{
		{"drop2", NewDrop(2)},
		{"drop 3", NewDrop(3)},
		{"D1", NewDrop(1)},
		{"rotate1", NewRotate(1)},
		{" Rotate 3 ", NewRotate(3)},
		{"r2", NewRotate(2)},
	} {
		m, err := FromString(tc.in, 3)
		assert.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, m, tc.in)
	}
}

func TestFromStringErrors(t *testing.T) {
	is := is.New(t)
	for _, in := range []string{"", "drop", "drop0", "rotate4", "flip1", "drop-1"} {
		_, err := FromString(in, 3)
		is.True(errors.Is(err, ErrBadMove))
	}
}

func TestShortDescription(t *testing.T) {
	is := is.New(t)
	is.Equal(NewDrop(3).ShortDescription(), "drop3")
	is.Equal(NewRotate(1).ShortDescription(), "rotate1")
	is.Equal(Move{}.ShortDescription(), "start")
	is.True(Move{}.IsZero())
	is.Equal(NewRotate(2).MoveTypeString(), "Rotate")
}

func TestApply(t *testing.T) {
	is := is.New(t)
	b, _ := board.New(3)
	nb, ok := NewDrop(1).Apply(board.PlayerA, b)
	is.True(ok)
	is.Equal(nb.Occupied(), 1)

	nb, ok = NewRotate(1).Apply(board.PlayerA, nb)
	is.True(ok)
	is.Equal(nb.Occupied(), 1)

	_, ok = Move{}.Apply(board.PlayerA, b)
	is.True(!ok)
}
