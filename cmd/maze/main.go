// maze is a terminal maze crawler with co-op play, save slots, and a
// headless simulator.
//
// Usage:
//
//	maze play               - Play in the terminal
//	maze menu               - Pick a game from an interactive menu
//	maze sim                - Run the world headless and print a summary
//	maze saves              - List or delete save slots
//	maze runs               - Show recorded runs
//	maze config             - Print the effective configuration
//
// Global flags:
//
//	--db <path>         - Set database path (default: ~/.maze/maze.db)
//	--config <path>     - Use a custom config YAML
//	--log-level <lvl>   - debug, info, warn, error
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-maze/internal/config"
)

var (
	// Global flags
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "maze",
	Short: "Maze - a co-op maze crawler for your terminal",
	Long: `Maze is a terminal dungeon crawler: find the key, unlock the exit,
and go deeper. Two players can share one keyboard.

Available commands:
  play     - Play in the terminal
  menu     - Pick a game from an interactive menu
  sim      - Run the world headless and print a summary
  saves    - List or delete save slots
  runs     - Show recorded runs
  config   - Print the effective configuration

Examples:
  maze play
  maze play --coop --difficulty hard
  maze play --resume --slot 2
  maze sim --ticks 3600 --seed 7
  maze runs --difficulty normal`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.maze/maze.db", "Path to save database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to a file instead of stderr")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(savesCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger builds the process logger. Logs go to --log-file, then to
// fallbackFile, then to stderr. They are JSON when the output is not a
// terminal.
func newLogger(prefix, fallbackFile string) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level: %w", err)
	}

	path := flagLogFile
	if path == "" {
		path = fallbackFile
	}
	out, closeOut := os.Stderr, func() {}
	if path != "" {
		path = expandHome(path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		out, closeOut = f, func() { f.Close() }
	}

	opts := log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	}
	if !term.IsTerminal(int(out.Fd())) {
		opts.Formatter = log.JSONFormatter
	}
	return log.NewWithOptions(out, opts), closeOut, nil
}

// expandHome expands a leading ~ to the home directory.
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// loadConfig loads the configuration and resolves a difficulty preset.
func loadConfig(difficulty string) (config.Config, *config.DifficultyConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, nil, err
	}
	if difficulty == "" {
		difficulty = string(config.DifficultyNormal)
	}
	diff, ok := cfg.Difficulty(difficulty)
	if !ok {
		return cfg, nil, fmt.Errorf("unknown difficulty %q (available: %v)", difficulty, cfg.DifficultyIDs())
	}
	return cfg, diff, nil
}
