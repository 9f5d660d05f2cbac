// Package search finds a recommended betsy move with minimax and
// alpha-beta pruning.
//
// Every node is evaluated from the solving player's point of view; the
// opponent's replies are explored at min nodes but never re-scored from
// the opponent's side. A branch ends when the solving player has a line in
// the scored zone, when a column has been rotated n times along the path,
// when the iteration's depth limit is reached, or when the deadline passes.
//
// Min nodes generate the opponent's moves, so the opponent drops its own
// pebble. Do not change them to drop the solving player's pebble.
package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/betsy/board"
	"github.com/domino14/betsy/equity"
	"github.com/domino14/betsy/move"
	"github.com/domino14/betsy/movegen"
)

const HugeNumber = 1 << 30

// Options control a solve.
type Options struct {
	// MaxDepth limits the search depth in plies. 0 means unbounded; the
	// search then ends only at wins, rotation cycles, or the deadline.
	MaxDepth int
	// TimeBudget is the wall-clock budget. 0 means no deadline.
	TimeBudget time.Duration
	// Threads is the number of root moves searched concurrently.
	Threads int
	// Seed fixes the move order for reproducible searches. 0 uses system
	// entropy.
	Seed int64
	// IterativeDeepening searches depth 1, 2, ... so that a move is always
	// available when the deadline passes.
	IterativeDeepening bool
}

func DefaultOptions() Options {
	return Options{Threads: 1, IterativeDeepening: true}
}

// Result is the outcome of a solve.
type Result struct {
	// ID identifies the solve in log output.
	ID string
	// Value is the minimax value of the root from the solving player's
	// point of view.
	Value int
	// RootMove is the recommended move. It is the zero Move only if the
	// root position is already won.
	RootMove move.Move
	// PV is the line of play that produced Value.
	PV []move.Move
	// Depth is the depth limit of the iteration that produced the result,
	// 0 for an unbounded search or the static fallback.
	Depth int
	// Complete is true when the whole tree was searched without hitting
	// a depth limit.
	Complete bool
	// TimedOut is true when the deadline passed (or the context was
	// cancelled) and the result is the best found so far.
	TimedOut bool
	Nodes    uint64
}

type Solver struct {
	calc equity.Calculator
	opts Options

	// genFactory returns the move generator for a search thread. seq is
	// unique per root child within an iteration.
	genFactory func(seq int64) movegen.MoveGenerator

	nodes atomic.Uint64
}

func NewSolver(calc equity.Calculator, opts Options) *Solver {
	if opts.Threads < 1 {
		opts.Threads = 1
	}
	s := &Solver{calc: calc, opts: opts}
	s.genFactory = func(seq int64) movegen.MoveGenerator {
		if s.opts.Seed != 0 {
			return movegen.NewSeededGenerator(s.opts.Seed + seq)
		}
		return movegen.NewGenerator(nil)
	}
	return s
}

// SetGeneratorFactory overrides how move generators are created.
func (s *Solver) SetGeneratorFactory(f func(seq int64) movegen.MoveGenerator) {
	s.genFactory = f
}

func (s *Solver) Options() Options {
	return s.opts
}

// Nodes returns the number of nodes visited by the most recent solve.
func (s *Solver) Nodes() uint64 {
	return s.nodes.Load()
}

// searcher holds the state of one search thread. Nothing in it is shared
// with other threads.
type searcher struct {
	s          *Solver
	player     board.Cell
	gen        movegen.MoveGenerator
	cycles     *cycleCounter
	depthLimit int
	depthHit   bool
}

func (sr *searcher) value(b board.Board) int {
	return sr.s.calc.Value(sr.player, b)
}

func (sr *searcher) alphabeta(ctx context.Context, b board.Board, depth, α, β int,
	maximizing bool, pv *PVLine) (int, error) {

	if ctx.Err() != nil {
		return 0, ctx.Err()
	}
	sr.s.nodes.Add(1)

	if b.WinTest(sr.player) {
		return sr.value(b), nil
	}
	// depth+1 is the length of the path including its start.
	if depth+1 > b.Dim() && sr.cycles.exceeded() {
		return sr.value(b), nil
	}
	if sr.depthLimit > 0 && depth >= sr.depthLimit {
		sr.depthHit = true
		return sr.value(b), nil
	}

	onTurn := sr.player
	bestValue := -HugeNumber
	if !maximizing {
		onTurn = sr.player.Opponent()
		bestValue = HugeNumber
	}
	childPV := PVLine{}
	for _, child := range sr.gen.GenAll(onTurn, b) {
		sr.cycles.push(child.Move)
		v, err := sr.alphabeta(ctx, child.Board, depth+1, α, β, !maximizing, &childPV)
		sr.cycles.pop(child.Move)
		if err != nil {
			return v, err
		}
		if maximizing {
			if v > bestValue {
				bestValue = v
				pv.Update(child.Move, childPV, v)
			}
			if bestValue >= β {
				return bestValue, nil
			}
			α = max(α, bestValue)
		} else {
			if v < bestValue {
				bestValue = v
				pv.Update(child.Move, childPV, v)
			}
			if bestValue <= α {
				return bestValue, nil
			}
			β = min(β, bestValue)
		}
		childPV.Clear()
	}
	return bestValue, nil
}

// searchRoot runs one full search to the given depth limit (0 for none).
// The second return value reports whether any branch hit the limit.
func (s *Solver) searchRoot(ctx context.Context, player board.Cell, b board.Board,
	depthLimit int) (Result, bool, error) {

	s.nodes.Add(1)
	children := s.genFactory(0).GenAll(player, b)
	if len(children) == 0 {
		return Result{}, false, ErrNoMoves
	}

	var mu sync.Mutex
	best := -HugeNumber
	var bestPV PVLine
	var depthHit atomic.Bool

	g := errgroup.Group{}
	g.SetLimit(s.opts.Threads)
	for idx, child := range children {
		g.Go(func() error {
			sr := &searcher{
				s:          s,
				player:     player,
				gen:        s.genFactory(int64(idx) + 1),
				cycles:     newCycleCounter(b.Dim()),
				depthLimit: depthLimit,
			}
			mu.Lock()
			α := best
			mu.Unlock()

			sr.cycles.push(child.Move)
			childPV := PVLine{}
			v, err := sr.alphabeta(ctx, child.Board, 1, α, HugeNumber, false, &childPV)
			if sr.depthHit {
				depthHit.Store(true)
			}
			if err != nil {
				return err
			}
			log.Debug().Str("move", child.Move.ShortDescription()).Int("value", v).
				Int("alpha", α).Msg("root-child-searched")

			mu.Lock()
			defer mu.Unlock()
			if v > best {
				best = v
				bestPV.Update(child.Move, childPV, v)
			}
			return nil
		})
	}
	err := g.Wait()
	// On error the result holds only the root children that finished, and
	// has no RootMove if none did.
	return Result{
		Value:    best,
		RootMove: bestPV.GetPVMove(),
		PV:       bestPV.Moves,
		Depth:    depthLimit,
	}, depthHit.Load(), err
}

// staticFallback picks the root move with the best heuristic value. It is
// used when the deadline passes before any search completes.
func (s *Solver) staticFallback(player board.Cell, b board.Board) Result {
	best := -HugeNumber
	var bestMove move.Move
	for _, child := range s.genFactory(0).GenAll(player, b) {
		v := s.calc.Value(player, child.Board)
		if v > best {
			best = v
			bestMove = child.Move
		}
	}
	return Result{Value: best, RootMove: bestMove, PV: []move.Move{bestMove}}
}

func isCancellation(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

func (s *Solver) iterativelyDeepen(ctx context.Context, player board.Cell, b board.Board) (Result, error) {
	start := 1
	if !s.opts.IterativeDeepening {
		start = s.opts.MaxDepth
	}
	var last Result
	have := false
	for d := start; ; d++ {
		log.Debug().Int("plies", d).Msg("deepening-iteratively")
		res, hit, err := s.searchRoot(ctx, player, b, d)
		if err != nil {
			if !isCancellation(err) {
				return last, err
			}
			if !have {
				if !res.RootMove.IsZero() {
					log.Warn().Int("ply", d).Msg("deadline-before-first-iteration; using finished root moves")
					last = res
				} else {
					log.Warn().Msg("deadline-before-first-iteration; using static evaluation")
					last = s.staticFallback(player, b)
				}
			}
			last.TimedOut = true
			return last, nil
		}
		last = res
		have = true
		log.Info().Int("value", res.Value).Int("ply", d).
			Str("pv", PVLine{Moves: res.PV, score: res.Value}.NLBString()).Msg("best-val")
		if !hit {
			last.Complete = true
			return last, nil
		}
		if d == 0 || (s.opts.MaxDepth > 0 && d >= s.opts.MaxDepth) {
			return last, nil
		}
	}
}

// Solve searches for the best move for player on board b. A passed
// deadline or a cancelled context is not an error: Solve returns the best
// move found so far with TimedOut set.
func (s *Solver) Solve(ctx context.Context, player board.Cell, b board.Board) (Result, error) {
	if player != board.PlayerA && player != board.PlayerB {
		return Result{}, fmt.Errorf("%w: %v", board.ErrBadPlayer, player)
	}
	tstart := time.Now()
	id := uuid.NewString()
	s.nodes.Store(0)
	log.Debug().Str("solve-id", id).Int("n", b.Dim()).Int("max-depth", s.opts.MaxDepth).
		Dur("time-budget", s.opts.TimeBudget).Int("threads", s.opts.Threads).
		Int64("seed", s.opts.Seed).Msg("solve-config")

	if b.WinTest(player) {
		log.Info().Str("solve-id", id).Msg("root-already-won")
		s.nodes.Store(1)
		return Result{ID: id, Value: s.calc.Value(player, b), Complete: true, Nodes: 1}, nil
	}

	if s.opts.TimeBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.TimeBudget)
		defer cancel()
	}

	g := &errgroup.Group{}
	done := make(chan bool)

	g.Go(func() error {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		var lastNodes uint64
		for {
			select {
			case <-done:
				return nil
			case <-ticker.C:
				nodes := s.nodes.Load()
				log.Debug().Uint64("nps", nodes-lastNodes).Msg("nodes-per-second")
				lastNodes = nodes
			}
		}
	})

	var res Result
	g.Go(func() error {
		var err error
		res, err = s.iterativelyDeepen(ctx, player, b)
		close(done)
		return err
	})

	err := g.Wait()
	res.ID = id
	res.Nodes = s.nodes.Load()
	log.Info().
		Str("solve-id", id).
		Str("move", res.RootMove.ShortDescription()).
		Int("value", res.Value).
		Uint64("nodes", res.Nodes).
		Bool("complete", res.Complete).
		Bool("timed-out", res.TimedOut).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Msg("solve-returning")
	return res, err
}

var ErrNoMoves = errors.New("no moves to search")
