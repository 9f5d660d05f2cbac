package search

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/betsy/board"
	"github.com/domino14/betsy/equity"
	"github.com/domino14/betsy/move"
	"github.com/domino14/betsy/movegen"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

// A full 3-column board with no line for x. No drops are possible, so
// only rotations are searched.
const fullBoard = "xox" + "oxo" + "oxo" + "xox" + "oxo" + "xox"

func setUpSolver(t *testing.T, n int, flat string, opts Options) (*Solver, board.Board) {
	t.Helper()
	b, err := board.Parse(n, flat, board.DefaultSymbols)
	if err != nil {
		t.Fatal(err)
	}
	return NewSolver(equity.ThreatCalculator{}, opts), b
}

func geometricSum(base, upto int) uint64 {
	total, term := uint64(0), uint64(1)
	for i := 0; i <= upto; i++ {
		total += term
		term *= uint64(base)
	}
	return total
}

func TestTerminationOnRotationCycles(t *testing.T) {
	is := is.New(t)
	opts := DefaultOptions()
	opts.IterativeDeepening = false
	opts.Seed = 1
	s, b := setUpSolver(t, 3, fullBoard, opts)

	res, err := s.Solve(context.Background(), board.PlayerA, b)
	is.NoErr(err)
	is.True(res.Complete)
	is.True(!res.TimedOut)
	is.Equal(res.RootMove.Action(), move.MoveTypeRotate)
	// Three rotations per node, and no path can rotate a column a third
	// time without being cut off, so paths are at most 7 plies long.
	is.True(s.Nodes() > 1)
	is.True(s.Nodes() <= geometricSum(3, 7))
	is.Equal(res.Nodes, s.Nodes())
}

func TestTerminationIterative(t *testing.T) {
	is := is.New(t)
	opts := DefaultOptions()
	opts.Seed = 2
	s, b := setUpSolver(t, 3, fullBoard, opts)

	res, err := s.Solve(context.Background(), board.PlayerA, b)
	is.NoErr(err)
	is.True(res.Complete)
	is.True(res.Depth <= 7)
	is.True(s.Nodes() <= 7*geometricSum(3, 7))
}

func TestDeadlineReturnsMove(t *testing.T) {
	is := is.New(t)
	opts := DefaultOptions()
	opts.TimeBudget = 50 * time.Millisecond
	s, b := setUpSolver(t, 3, "..................", opts)

	tstart := time.Now()
	res, err := s.Solve(context.Background(), board.PlayerA, b)
	elapsed := time.Since(tstart)
	is.NoErr(err)
	is.True(res.TimedOut)
	is.True(!res.RootMove.IsZero())
	is.True(elapsed < 50*time.Millisecond+time.Second)
	_, ok := res.RootMove.Apply(board.PlayerA, b)
	is.True(ok)
}

func TestTinyDeadlineFallsBackToStaticEval(t *testing.T) {
	is := is.New(t)
	opts := DefaultOptions()
	opts.TimeBudget = time.Nanosecond
	s, b := setUpSolver(t, 4, "............................", opts)

	res, err := s.Solve(context.Background(), board.PlayerB, b)
	is.NoErr(err)
	is.True(res.TimedOut)
	is.True(!res.RootMove.IsZero())
	// a drop gains material; a rotation of an empty board does not.
	is.Equal(res.RootMove.Action(), move.MoveTypeDrop)
}

// deadEndGen has no moves, so a branch using it ends at once.
type deadEndGen struct{}

func (deadEndGen) GenAll(board.Cell, board.Board) []movegen.Successor {
	return nil
}

// slowGen generates moves normally but takes a while at every node.
type slowGen struct {
	gen movegen.MoveGenerator
}

func (sg slowGen) GenAll(player board.Cell, b board.Board) []movegen.Successor {
	time.Sleep(5 * time.Millisecond)
	return sg.gen.GenAll(player, b)
}

func TestDeadlineKeepsFinishedRootMoves(t *testing.T) {
	is := is.New(t)
	opts := DefaultOptions()
	opts.IterativeDeepening = false
	opts.TimeBudget = 100 * time.Millisecond
	s, b := setUpSolver(t, 3, "..................", opts)

	rootGen := movegen.NewSeededGenerator(9)
	s.SetGeneratorFactory(func(seq int64) movegen.MoveGenerator {
		switch seq {
		case 0:
			return movegen.NewSeededGenerator(9)
		case 1:
			return deadEndGen{}
		}
		return slowGen{gen: movegen.NewSeededGenerator(seq)}
	})
	first := rootGen.GenAll(board.PlayerA, b)[0].Move

	res, err := s.Solve(context.Background(), board.PlayerA, b)
	is.NoErr(err)
	is.True(res.TimedOut)
	// the first root child finished before the deadline and is kept
	// instead of falling back to a static evaluation.
	is.Equal(res.RootMove, first)
	is.Equal(res.Value, HugeNumber)
	is.Equal(res.PV, []move.Move{first})
}

func TestCancelledContext(t *testing.T) {
	is := is.New(t)
	s, b := setUpSolver(t, 3, "..................", DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := s.Solve(ctx, board.PlayerA, b)
	is.NoErr(err)
	is.True(res.TimedOut)
	is.True(!res.RootMove.IsZero())
}

func TestEmptyBoardRecommendsDrop(t *testing.T) {
	is := is.New(t)
	opts := DefaultOptions()
	opts.MaxDepth = 2
	opts.Seed = 42
	s, b := setUpSolver(t, 3, "..................", opts)

	res, err := s.Solve(context.Background(), board.PlayerA, b)
	is.NoErr(err)
	is.Equal(res.Depth, 2)
	is.Equal(res.RootMove.Action(), move.MoveTypeDrop)
	is.True(b.ValidColumn(res.RootMove.Column()))
	nb, ok := res.RootMove.Apply(board.PlayerA, b)
	is.True(ok)
	is.Equal(nb.Diff(b), 1)
	is.Equal(len(res.PV), 2)
}

func TestFindsImmediateWin(t *testing.T) {
	is := is.New(t)
	opts := DefaultOptions()
	opts.MaxDepth = 1
	opts.Seed = 5
	// dropping in column 3 lands in the top row and completes it.
	s, b := setUpSolver(t, 3, "xx."+"..o"+"..o"+"..o"+"..o"+"..o", opts)

	res, err := s.Solve(context.Background(), board.PlayerA, b)
	is.NoErr(err)
	is.Equal(res.RootMove, move.NewDrop(3))
	nb, _ := res.RootMove.Apply(board.PlayerA, b)
	is.True(nb.WinTest(board.PlayerA))
}

func TestRootAlreadyWon(t *testing.T) {
	is := is.New(t)
	s, b := setUpSolver(t, 3, "xxx"+"..."+"..."+"..."+"..."+"...", DefaultOptions())
	res, err := s.Solve(context.Background(), board.PlayerA, b)
	is.NoErr(err)
	is.True(res.RootMove.IsZero())
	is.True(res.Complete)
}

func TestBadPlayer(t *testing.T) {
	is := is.New(t)
	s, b := setUpSolver(t, 3, "..................", DefaultOptions())
	_, err := s.Solve(context.Background(), board.Empty, b)
	is.True(err != nil)
}

func TestSeededSolveIsReproducible(t *testing.T) {
	is := is.New(t)
	opts := DefaultOptions()
	opts.MaxDepth = 3
	opts.Seed = 1234
	flat := "..." + "..." + "x.." + "o.x" + "xo." + "oxo"
	s1, b := setUpSolver(t, 3, flat, opts)
	s2, _ := setUpSolver(t, 3, flat, opts)

	r1, err := s1.Solve(context.Background(), board.PlayerB, b)
	is.NoErr(err)
	r2, err := s2.Solve(context.Background(), board.PlayerB, b)
	is.NoErr(err)
	is.Equal(r1.RootMove, r2.RootMove)
	is.Equal(r1.Value, r2.Value)
	is.Equal(s1.Nodes(), s2.Nodes())
	is.True(r1.ID != "")
	is.True(r1.ID != r2.ID)
}

func TestParallelRootSearchAgreesOnValue(t *testing.T) {
	is := is.New(t)
	flat := "..." + "..." + "..x" + "o.x" + "xo." + "oxo"

	single := DefaultOptions()
	single.MaxDepth = 3
	s1, b := setUpSolver(t, 3, flat, single)
	r1, err := s1.Solve(context.Background(), board.PlayerA, b)
	is.NoErr(err)

	multi := single
	multi.Threads = 4
	s4, _ := setUpSolver(t, 3, flat, multi)
	r4, err := s4.Solve(context.Background(), board.PlayerA, b)
	is.NoErr(err)

	is.Equal(r1.Value, r4.Value)
}

func TestCycleCounter(t *testing.T) {
	is := is.New(t)
	c := newCycleCounter(3)
	r2 := move.NewRotate(2)
	c.push(move.NewDrop(2))
	c.push(r2)
	c.push(r2)
	is.True(!c.exceeded())
	c.push(r2)
	is.True(c.exceeded())
	c.push(move.NewRotate(1))
	is.True(c.exceeded())
	c.pop(move.NewRotate(1))
	c.pop(r2)
	is.True(!c.exceeded())
	is.Equal(c.counts, []int{0, 2, 0})
}

func TestPVLineString(t *testing.T) {
	is := is.New(t)
	pv := PVLine{}
	child := PVLine{Moves: []move.Move{move.NewRotate(1)}}
	pv.Update(move.NewDrop(2), child, 7)
	is.Equal(pv.GetPVMove(), move.NewDrop(2))
	is.Equal(pv.NLBString(), "PV; val 7; drop2 rotate1")
	is.Equal(pv.String(), "PV; val 7\n1: drop2\n2: rotate1\n")
}
