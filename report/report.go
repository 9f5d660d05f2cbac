// Package report turns a recommended move into output for the caller.
package report

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/domino14/betsy/board"
	"github.com/domino14/betsy/move"
)

var ErrIllegalMove = errors.New("recommended move cannot be played")

// Recommendation is a move and the board it produces. It is built from the
// move and the searched board only.
type Recommendation struct {
	Action    string `json:"action" yaml:"action"`
	Column    int    `json:"column,omitempty" yaml:"column,omitempty"`
	Player    string `json:"player" yaml:"player"`
	Board     string `json:"board" yaml:"board"`
	Resulting string `json:"resulting_board" yaml:"resulting_board"`

	m     move.Move
	after board.Board
	syms  board.Symbols
}

// New applies m for player to b. A zero move produces a recommendation
// with no resulting board, used when the position is already won.
func New(m move.Move, player board.Cell, b board.Board, syms board.Symbols) (*Recommendation, error) {
	r := &Recommendation{
		Action: strings.ToLower(m.MoveTypeString()),
		Column: m.Column(),
		Player: string(syms.Rune(player)),
		Board:  b.Serialize(syms),
		m:      m,
		syms:   syms,
	}
	if m.IsZero() {
		r.Resulting = r.Board
		r.after = b
		return r, nil
	}
	after, ok := m.Apply(player, b)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrIllegalMove, m.ShortDescription())
	}
	r.after = after
	r.Resulting = after.Serialize(r.syms)
	return r, nil
}

func (r *Recommendation) Move() move.Move {
	return r.m
}

func (r *Recommendation) After() board.Board {
	return r.after
}

func (r *Recommendation) String() string {
	switch r.m.Action() {
	case move.MoveTypeDrop:
		return fmt.Sprintf("I'd recommend dropping a pebble in column %d. %s", r.Column, r.Resulting)
	case move.MoveTypeRotate:
		return fmt.Sprintf("I'd recommend rotating column %d. %s", r.Column, r.Resulting)
	}
	return fmt.Sprintf("No move to recommend; %s has already won. %s", r.Player, r.Resulting)
}

// YAML renders the recommendation as a YAML document.
func (r *Recommendation) YAML() ([]byte, error) {
	return yaml.Marshal(r)
}

// Render writes the recommendation in the given format: "text" or "yaml".
func (r *Recommendation) Render(format string) (string, error) {
	switch format {
	case "", "text":
		return r.String(), nil
	case "yaml":
		out, err := r.YAML()
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
	return "", fmt.Errorf("unknown output format %q", format)
}
