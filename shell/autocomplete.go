package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"
)

var commandNames = []string{
	"new", "board", "turn", "show", "drop", "rotate", "solve", "help", "exit",
}

// ShellCompleter completes command names and solve options.
type ShellCompleter struct{}

func NewShellCompleter() *ShellCompleter {
	return &ShellCompleter{}
}

// Do implements the readline.AutoCompleter interface.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])
	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string
	switch {
	case len(fields) == 0 || (len(fields) == 1 && !endsWithSpace):
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	case fields[0] == "solve":
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		completions = []string{"-depth", "-threads"}
	default:
		return nil, 0
	}

	var out [][]rune
	for _, cand := range completions {
		if strings.HasPrefix(cand, prefix) {
			out = append(out, []rune(cand[len(prefix):]))
		}
	}
	return out, len([]rune(prefix))
}
