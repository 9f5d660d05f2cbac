package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/betsy/board"
	"github.com/domino14/betsy/config"
	"github.com/domino14/betsy/equity"
	"github.com/domino14/betsy/move"
	"github.com/domino14/betsy/report"
	"github.com/domino14/betsy/search"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoBoard           = errors.New("no board loaded; use `new <n>` or `board <n> <cells>`")
	errQuit              = errors.New("quit")
)

type shellcmd struct {
	cmd     string
	args    []string
	options map[string]string
}

// ShellController runs the interactive betsy shell.
type ShellController struct {
	l   *readline.Instance
	cfg *config.Config

	syms   board.Symbols
	board  board.Board
	loaded bool
	onTurn board.Cell

	lastRecommendation *report.Recommendation
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func NewShellController(cfg *config.Config) (*ShellController, error) {
	sc, err := newController(cfg)
	if err != nil {
		return nil, err
	}
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mbetsy>\033[0m ",
		HistoryFile:     cfg.GetString(config.ConfigHistoryFile),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, err
	}
	sc.l = l
	return sc, nil
}

func newController(cfg *config.Config) (*ShellController, error) {
	syms, err := cfg.Symbols()
	if err != nil {
		return nil, err
	}
	return &ShellController{cfg: cfg, syms: syms, onTurn: board.PlayerA}, nil
}

func (sc *ShellController) showMessage(msg string) {
	w := io.Writer(os.Stdout)
	if sc.l != nil {
		w = sc.l.Stdout()
	}
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := strings.ToLower(fields[0])
	var args []string
	options := map[string]string{}
	for idx := 1; idx < len(fields); idx++ {
		if strings.HasPrefix(fields[idx], "-") {
			if idx == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			options[fields[idx][1:]] = fields[idx+1]
			idx++
			continue
		}
		args = append(args, fields[idx])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

// Execute runs a single shell command line and returns its output.
func (sc *ShellController) Execute(line string) (string, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return "", err
	}
	switch cmd.cmd {
	case "help":
		return usage(), nil
	case "exit", "quit":
		return "", errQuit
	case "new":
		return sc.newBoard(cmd)
	case "board":
		return sc.setBoard(cmd)
	case "turn":
		return sc.setTurn(cmd)
	case "show", "s":
		return sc.show()
	case "drop", "rotate", "d", "r":
		return sc.play(cmd)
	case "solve":
		return sc.solve(cmd)
	}
	return "", fmt.Errorf("command %v not found", cmd.cmd)
}

func (sc *ShellController) newBoard(cmd *shellcmd) (string, error) {
	if len(cmd.args) != 1 {
		return "", errors.New("usage: new <n>")
	}
	n, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return "", err
	}
	b, err := board.New(n)
	if err != nil {
		return "", err
	}
	sc.board, sc.loaded, sc.onTurn = b, true, board.PlayerA
	return sc.show()
}

func (sc *ShellController) setBoard(cmd *shellcmd) (string, error) {
	if len(cmd.args) != 2 {
		return "", errors.New("usage: board <n> <cells>")
	}
	n, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return "", err
	}
	b, err := board.Parse(n, cmd.args[1], sc.syms)
	if err != nil {
		return "", err
	}
	sc.board, sc.loaded = b, true
	return sc.show()
}

func (sc *ShellController) setTurn(cmd *shellcmd) (string, error) {
	if len(cmd.args) != 1 {
		return "", errors.New("usage: turn <symbol>")
	}
	p, err := sc.syms.Player(cmd.args[0])
	if err != nil {
		return "", err
	}
	sc.onTurn = p
	return fmt.Sprintf("%c to move", sc.syms.Rune(p)), nil
}

func (sc *ShellController) show() (string, error) {
	if !sc.loaded {
		return "", errNoBoard
	}
	return fmt.Sprintf("%s%c to move\n%s", sc.board.ToDisplayText(sc.syms),
		sc.syms.Rune(sc.onTurn), sc.board.Serialize(sc.syms)), nil
}

func (sc *ShellController) play(cmd *shellcmd) (string, error) {
	if !sc.loaded {
		return "", errNoBoard
	}
	m, err := move.FromString(cmd.cmd+strings.Join(cmd.args, ""), sc.board.Dim())
	if err != nil {
		return "", err
	}
	nb, ok := m.Apply(sc.onTurn, sc.board)
	if !ok {
		return "", fmt.Errorf("column %d is full", m.Column())
	}
	sc.board = nb
	mover := sc.onTurn
	sc.onTurn = sc.onTurn.Opponent()
	out, err := sc.show()
	if err != nil {
		return "", err
	}
	if nb.WinTest(mover) {
		out += fmt.Sprintf("\n%c wins!", sc.syms.Rune(mover))
	}
	return out, nil
}

func (sc *ShellController) solve(cmd *shellcmd) (string, error) {
	if !sc.loaded {
		return "", errNoBoard
	}
	opts := sc.cfg.SearchOptions()
	if len(cmd.args) > 0 {
		secs, err := strconv.ParseFloat(cmd.args[0], 64)
		if err != nil {
			return "", err
		}
		opts.TimeBudget = time.Duration(secs * float64(time.Second))
	}
	if v, ok := cmd.options["depth"]; ok {
		d, err := strconv.Atoi(v)
		if err != nil {
			return "", err
		}
		opts.MaxDepth = d
	}
	if v, ok := cmd.options["threads"]; ok {
		t, err := strconv.Atoi(v)
		if err != nil {
			return "", err
		}
		opts.Threads = t
	}
	if opts.TimeBudget == 0 && opts.MaxDepth == 0 {
		log.Warn().Msg("no time budget or depth limit; search may not finish")
	}

	solver := search.NewSolver(equity.ThreatCalculator{}, opts)
	res, err := solver.Solve(context.Background(), sc.onTurn, sc.board)
	if err != nil {
		return "", err
	}
	rec, err := report.New(res.RootMove, sc.onTurn, sc.board, sc.syms)
	if err != nil {
		return "", err
	}
	sc.lastRecommendation = rec
	out, err := rec.Render(sc.cfg.GetString(config.ConfigOutput))
	if err != nil {
		return "", err
	}
	pv := search.PVLine{Moves: res.PV}
	return fmt.Sprintf("%s\nvalue %d, %d nodes, depth %d, complete %v, timed out %v\n%s",
		out, res.Value, res.Nodes, res.Depth, res.Complete, res.TimedOut, pv.NLBString()), nil
}

func (sc *ShellController) Loop(sig chan os.Signal) {

	defer sc.l.Close()

	for {

		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out, err := sc.Execute(line)
		if err == errQuit {
			sig <- syscall.SIGINT
			break
		}
		if err != nil {
			sc.showError(err)
			continue
		}
		if out != "" {
			sc.showMessage(out)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

func (sc *ShellController) Cleanup() {
	log.Info().Msg("cleaning up shell")
}
