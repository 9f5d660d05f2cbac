package board

// ReservoirRows is the number of staging rows below the scored zone.
const ReservoirRows = 3

// Board is a betsy board of n columns and n+3 rows, stored row-major with
// row 0 at the top. Rows 0..n-1 are the scored zone; the remaining rows are
// the staging reservoir that feeds the scored zone when a column rotates.
//
// A Board is immutable. Drop and Rotate return new boards and never modify
// the receiver, so boards may be shared freely between search branches.
type Board struct {
	n     int
	cells []Cell
}

// New returns an empty board with n columns.
func New(n int) (Board, error) {
	if n <= 0 {
		return Board{}, ErrBadDimension
	}
	return Board{n: n, cells: make([]Cell, n*(n+ReservoirRows))}, nil
}

// FromCells builds a board from a row-major cell slice. The slice is copied.
func FromCells(n int, cells []Cell) (Board, error) {
	if n <= 0 {
		return Board{}, ErrBadDimension
	}
	if len(cells) != n*(n+ReservoirRows) {
		return Board{}, ErrBadLength
	}
	cp := make([]Cell, len(cells))
	copy(cp, cells)
	return Board{n: n, cells: cp}, nil
}

// Dim returns the number of columns, n.
func (b Board) Dim() int {
	return b.n
}

// Rows returns the total number of rows including the reservoir.
func (b Board) Rows() int {
	return b.n + ReservoirRows
}

// Len is the number of cells on the board.
func (b Board) Len() int {
	return len(b.cells)
}

// At returns the cell at the given 0-indexed row and column.
func (b Board) At(row, col int) Cell {
	return b.cells[row*b.n+col]
}

// Cells returns a copy of the board's cells in row-major order.
func (b Board) Cells() []Cell {
	cp := make([]Cell, len(b.cells))
	copy(cp, b.cells)
	return cp
}

// ValidColumn reports whether the 1-indexed column exists on this board.
func (b Board) ValidColumn(column int) bool {
	return column >= 1 && column <= b.n
}

// Occupied counts the non-empty cells.
func (b Board) Occupied() int {
	ct := 0
	for _, c := range b.cells {
		if c != Empty {
			ct++
		}
	}
	return ct
}

// Count counts the cells that hold the given value.
func (b Board) Count(c Cell) int {
	ct := 0
	for _, x := range b.cells {
		if x == c {
			ct++
		}
	}
	return ct
}

// Equal reports whether both boards have the same dimension and cells.
func (b Board) Equal(o Board) bool {
	if b.n != o.n || len(b.cells) != len(o.cells) {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Diff returns the number of cells that differ between two boards of the
// same dimension, or -1 if the dimensions differ.
func (b Board) Diff(o Board) int {
	if b.n != o.n || len(b.cells) != len(o.cells) {
		return -1
	}
	d := 0
	for i := range b.cells {
		if b.cells[i] != o.cells[i] {
			d++
		}
	}
	return d
}

// Column returns the contents of a 1-indexed column, top to bottom.
func (b Board) Column(column int) []Cell {
	col := make([]Cell, b.Rows())
	for r := range col {
		col[r] = b.cells[r*b.n+column-1]
	}
	return col
}

// Drop places the player's pebble in the lowest empty cell of the given
// 1-indexed column. The second return value is false if the column is full
// or out of range.
func (b Board) Drop(player Cell, column int) (Board, bool) {
	if !b.ValidColumn(column) {
		return Board{}, false
	}
	col := column - 1
	for r := b.Rows() - 1; r >= 0; r-- {
		idx := r*b.n + col
		if b.cells[idx] == Empty {
			nb := b.clone()
			nb.cells[idx] = player
			return nb, true
		}
	}
	return Board{}, false
}

// Rotate shifts every cell of the 1-indexed column down one row, wrapping
// the bottom cell around to the top, then lets pebbles settle into any gap
// directly below them with a single top-to-bottom pass. Rotate
// only permutes the column. An out-of-range column leaves the board as is.
func (b Board) Rotate(column int) Board {
	if !b.ValidColumn(column) {
		return b
	}
	col := column - 1
	rows := b.Rows()
	nb := b.clone()
	for r := 0; r < rows; r++ {
		src := (r - 1 + rows) % rows
		nb.cells[r*b.n+col] = b.cells[src*b.n+col]
	}
	for r := 0; r < rows-1; r++ {
		upper := r*b.n + col
		lower := upper + b.n
		if nb.cells[upper] != Empty && nb.cells[lower] == Empty {
			nb.cells[upper], nb.cells[lower] = nb.cells[lower], nb.cells[upper]
		}
	}
	return nb
}

// WinTest reports whether the player owns a full row, a full column, or
// either diagonal of the n×n scored zone. Only the given player's lines
// are considered.
func (b Board) WinTest(player Cell) bool {
	if player == Empty {
		return false
	}
	n := b.n
	owns := func(r, c int) bool {
		return b.cells[r*n+c] == player
	}
	line := func(f func(i int) bool) bool {
		for i := 0; i < n; i++ {
			if !f(i) {
				return false
			}
		}
		return true
	}
	for k := 0; k < n; k++ {
		if line(func(i int) bool { return owns(k, i) }) ||
			line(func(i int) bool { return owns(i, k) }) {
			return true
		}
	}
	return line(func(i int) bool { return owns(i, i) }) ||
		line(func(i int) bool { return owns(i, n-1-i) })
}

func (b Board) clone() Board {
	cp := make([]Cell, len(b.cells))
	copy(cp, b.cells)
	return Board{n: b.n, cells: cp}
}
