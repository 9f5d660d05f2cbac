package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/betsy/board"
	"github.com/domino14/betsy/config"
	"github.com/domino14/betsy/equity"
	"github.com/domino14/betsy/report"
	"github.com/domino14/betsy/search"
	"github.com/domino14/betsy/shell"
)

var (
	GitVersion string
)

var errUsage = errors.New("usage: betsy [flags] <n> <player> <board> [seconds]")

// request is a validated one-shot recommendation request.
type request struct {
	player    board.Cell
	board     board.Board
	budget    time.Duration
	hasBudget bool
}

func parseRequest(args []string, syms board.Symbols) (*request, error) {
	if len(args) != 3 && len(args) != 4 {
		return nil, errUsage
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, fmt.Errorf("bad board dimension %q: %w", args[0], board.ErrBadDimension)
	}
	player, err := syms.Player(args[1])
	if err != nil {
		return nil, err
	}
	b, err := board.Parse(n, args[2], syms)
	if err != nil {
		return nil, err
	}
	req := &request{player: player, board: b}
	if len(args) == 4 {
		secs, err := strconv.ParseFloat(args[3], 64)
		if err != nil || secs < 0 {
			return nil, fmt.Errorf("bad time budget %q", args[3])
		}
		req.budget = time.Duration(secs * float64(time.Second))
		req.hasBudget = true
	}
	return req, nil
}

func recommend(ctx context.Context, cfg *config.Config, syms board.Symbols, req *request) (string, error) {
	opts := cfg.SearchOptions()
	if req.hasBudget {
		opts.TimeBudget = req.budget
	}
	solver := search.NewSolver(equity.ThreatCalculator{}, opts)
	res, err := solver.Solve(ctx, req.player, req.board)
	if err != nil {
		return "", err
	}
	rec, err := report.New(res.RootMove, req.player, req.board, syms)
	if err != nil {
		return "", err
	}
	return rec.Render(cfg.GetString(config.ConfigOutput))
}

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}

	var logger zerolog.Logger
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	logger.Debug().Str("version", GitVersion).Msg("Debug logging is on")
	log.Debug().Msgf("Loaded config: %v", cfg.SanitizedSettings())

	if cfg.GetString(config.ConfigCPUProfile) != "" {
		f, err := os.Create(cfg.GetString(config.ConfigCPUProfile))
		if err != nil {
			panic("could not create CPU profile: " + err.Error())
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			panic("could not start CPU profile: " + err.Error())
		}
		defer pprof.StopCPUProfile()
	}

	if len(cfg.Args()) > 0 {
		os.Exit(runOnce(cfg))
	}

	idleConnsClosed := make(chan struct{})
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("got quit signal...")
		close(idleConnsClosed)
	}()

	sc, err := shell.NewShellController(cfg)
	if err != nil {
		log.Error().Err(err).Msg("could not start shell")
		os.Exit(1)
	}
	go sc.Loop(sig)

	<-idleConnsClosed
	sc.Cleanup()
}

// runOnce answers a single request given on the command line and returns
// the process exit code.
func runOnce(cfg *config.Config) int {
	syms, err := cfg.Symbols()
	if err != nil {
		log.Error().Err(err).Msg("bad-symbols")
		return 2
	}
	req, err := parseRequest(cfg.Args(), syms)
	if err != nil {
		log.Error().Err(err).Msg("bad-request")
		return 2
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	out, err := recommend(ctx, cfg, syms, req)
	if err != nil {
		log.Error().Err(err).Msg("solve-failed")
		return 1
	}
	fmt.Println(out)
	return 0
}
