package search

import (
	"github.com/domino14/betsy/move"
)

// cycleCounter tracks how many times each column has been rotated along
// the current search path. Rotating a column can cycle through the same
// states forever, so a path that rotates any single column `limit` times
// is cut off and evaluated statically.
type cycleCounter struct {
	counts []int
	limit  int
	// over is the number of columns at or above the limit.
	over int
}

func newCycleCounter(n int) *cycleCounter {
	return &cycleCounter{counts: make([]int, n), limit: n}
}

func (c *cycleCounter) push(m move.Move) {
	if m.Action() != move.MoveTypeRotate {
		return
	}
	c.counts[m.Column()-1]++
	if c.counts[m.Column()-1] == c.limit {
		c.over++
	}
}

func (c *cycleCounter) pop(m move.Move) {
	if m.Action() != move.MoveTypeRotate {
		return
	}
	if c.counts[m.Column()-1] == c.limit {
		c.over--
	}
	c.counts[m.Column()-1]--
}

func (c *cycleCounter) exceeded() bool {
	return c.over > 0
}
