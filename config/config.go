package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/domino14/betsy/board"
	"github.com/domino14/betsy/search"
)

const (
	ConfigDebug              = "debug"
	ConfigTimeBudget         = "time-budget"
	ConfigMaxDepth           = "max-depth"
	ConfigThreads            = "threads"
	ConfigSeed               = "seed"
	ConfigIterativeDeepening = "iterative-deepening"
	ConfigPlayerA            = "player-a"
	ConfigPlayerB            = "player-b"
	ConfigOutput             = "output"
	ConfigHistoryFile        = "history-file"
	ConfigFile               = "config"
	ConfigCPUProfile         = "cpu-profile"
)

var ErrBadSymbol = errors.New("player symbol must be a single character")

// Config holds settings from flags, BETSY_* environment variables, and an
// optional YAML config file, in that order of precedence.
type Config struct {
	*viper.Viper
	args []string
}

func DefaultConfig() Config {
	c := Config{Viper: viper.New()}
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigTimeBudget, 0.0)
	c.SetDefault(ConfigMaxDepth, 0)
	c.SetDefault(ConfigThreads, 1)
	c.SetDefault(ConfigSeed, 0)
	c.SetDefault(ConfigIterativeDeepening, true)
	c.SetDefault(ConfigPlayerA, "x")
	c.SetDefault(ConfigPlayerB, "o")
	c.SetDefault(ConfigOutput, "text")
	c.SetDefault(ConfigHistoryFile, "/tmp/betsy_readline.tmp")
	return c
}

func (c *Config) Load(args []string) error {
	if c.Viper == nil {
		*c = DefaultConfig()
	}
	fs := pflag.NewFlagSet("betsy", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.Float64(ConfigTimeBudget, 0, "time budget for a search in seconds; 0 for none")
	fs.Int(ConfigMaxDepth, 0, "maximum search depth in plies; 0 for unbounded")
	fs.Int(ConfigThreads, 1, "number of root moves to search concurrently")
	fs.Int64(ConfigSeed, 0, "seed for move ordering; 0 to use system entropy")
	fs.Bool(ConfigIterativeDeepening, true, "search depth 1, 2, ... instead of a single pass")
	fs.String(ConfigPlayerA, "x", "symbol for the first player's pebbles")
	fs.String(ConfigPlayerB, "o", "symbol for the second player's pebbles")
	fs.String(ConfigOutput, "text", "output format: text or yaml")
	fs.String(ConfigHistoryFile, "/tmp/betsy_readline.tmp", "shell history file")
	fs.String(ConfigFile, "", "optional YAML config file")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c.SetEnvPrefix("betsy")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	if f := c.GetString(ConfigFile); f != "" {
		c.SetConfigFile(f)
		if err := c.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %v: %w", f, err)
		}
	}
	c.args = fs.Args()
	return nil
}

// Args returns the positional arguments left after flag parsing.
func (c *Config) Args() []string {
	return c.args
}

// SanitizedSettings returns the settings in a form fit for logging.
func (c *Config) SanitizedSettings() map[string]any {
	settings := c.AllSettings()
	delete(settings, ConfigHistoryFile)
	return settings
}

// Symbols returns the pebble symbols for the two players.
func (c *Config) Symbols() (board.Symbols, error) {
	a, b := []rune(c.GetString(ConfigPlayerA)), []rune(c.GetString(ConfigPlayerB))
	if len(a) != 1 || len(b) != 1 {
		return board.Symbols{}, ErrBadSymbol
	}
	return board.NewSymbols(a[0], b[0])
}

// SearchOptions converts the search settings to solver options.
func (c *Config) SearchOptions() search.Options {
	return search.Options{
		MaxDepth:           c.GetInt(ConfigMaxDepth),
		TimeBudget:         time.Duration(c.GetFloat64(ConfigTimeBudget) * float64(time.Second)),
		Threads:            c.GetInt(ConfigThreads),
		Seed:               c.GetInt64(ConfigSeed),
		IterativeDeepening: c.GetBool(ConfigIterativeDeepening),
	}
}
