package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-maze/internal/config"
	"github.com/vovakirdan/tui-maze/internal/core"
	"github.com/vovakirdan/tui-maze/internal/maze"
	"github.com/vovakirdan/tui-maze/internal/platform/tui"
	"github.com/vovakirdan/tui-maze/internal/storage"
	"github.com/vovakirdan/tui-maze/internal/world"
)

var (
	flagDifficulty string
	flagCoop       bool
	flagSeed       int64
	flagFPS        int
	flagSlot       string
	flagResume     bool
	flagLookahead  int
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Start a game in the terminal.

Controls (player one):
  W/A/S/D        - Move
  1/Space        - Slash
  2              - Dash
  3 / left click - Burst (press again to cast, a third time to heal)
  E              - Unlock the exit with a key
Controls (player two, with --coop):
  Arrows, J/K/L/;, Enter

  P/Esc          - Pause
  Ctrl+S/Ctrl+L  - Save / load the bound slot
  R              - Restart (after game over)
  Q/Ctrl+C       - Quit

Examples:
  maze play
  maze play --difficulty hard --coop
  maze play --slot 2 --resume
  maze play --slot auto --resume`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "normal", "Difficulty preset: easy, normal, hard")
	playCmd.Flags().BoolVar(&flagCoop, "coop", false, "Two players on one keyboard")
	playCmd.Flags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	playCmd.Flags().IntVar(&flagFPS, "fps", 0, "Tick rate (0 = config value)")
	playCmd.Flags().StringVar(&flagSlot, "slot", "1", "Save slot bound to this session: a number or \"auto\"")
	playCmd.Flags().BoolVar(&flagResume, "resume", false, "Load the bound slot before playing")
	playCmd.Flags().IntVar(&flagLookahead, "lookahead", maze.DefaultLookahead, "Levels generated ahead in the background")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	logger, closeLog, err := newLogger("maze", "~/.maze/maze.log")
	if err != nil {
		return err
	}
	defer closeLog()

	target, err := parseTarget(flagSlot)
	if err != nil {
		return err
	}

	store := openStoreOrWarn(logger, flagResume)
	if flagResume && store == nil {
		return fmt.Errorf("cannot resume: save database unavailable")
	}
	if store != nil {
		defer store.Close()
	}

	// A resumed save keeps its difficulty and player count unless the
	// flags say otherwise. The world refuses a save made under another
	// difficulty.
	difficulty, coop := flagDifficulty, flagCoop
	if flagResume {
		info, err := findSave(store, target)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("difficulty") {
			difficulty = info.DifficultyID
		}
		if !cmd.Flags().Changed("coop") {
			coop = info.TwoPlayer
		}
	}

	cfg, diff, err := loadConfig(difficulty)
	if err != nil {
		return err
	}

	return playSession(logger, store, session{
		Runtime:   terminalConfig(flagFPS, flagSeed),
		Engine:    cfg.Engine,
		Diff:      diff,
		TwoPlayer: coop,
		Slot:      target,
		Resume:    flagResume,
	})
}

// findSave returns the listing of one slot.
func findSave(store *storage.Store, target world.SaveTarget) (storage.SaveInfo, error) {
	saves, err := store.ListSaves(context.Background())
	if err != nil {
		return storage.SaveInfo{}, err
	}
	for _, s := range saves {
		if s.Target == target {
			return s, nil
		}
	}
	return storage.SaveInfo{}, fmt.Errorf("%s: %w", target, storage.ErrSlotEmpty)
}

// session is one play session chosen by flags or the start menu.
type session struct {
	Runtime   core.RuntimeConfig
	Engine    config.EngineConfig
	Diff      *config.DifficultyConfig
	TwoPlayer bool
	Slot      world.SaveTarget
	Resume    bool
}

// terminalConfig returns the runtime config for the current terminal.
func terminalConfig(fps int, seed int64) core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: fps,
		Seed:     seed,
	}
}

// openStoreOrWarn opens the save database. Play continues without saves
// when it is unavailable.
func openStoreOrWarn(logger *log.Logger, quiet bool) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open save database", "error", err)
		if !quiet {
			fmt.Fprintf(os.Stderr, "Warning: saves disabled: %v\n", err)
		}
		return nil
	}
	return store
}

// playSession runs one game in the terminal with its own level cache.
func playSession(logger *log.Logger, store *storage.Store, s session) error {
	if s.Runtime.Seed == 0 {
		s.Runtime.Seed = time.Now().UnixNano()
	}
	seed := s.Runtime.Seed

	levels := maze.NewCache(maze.NewGenerator(seed), flagLookahead, logger.WithPrefix("maze"))
	levels.Start()
	defer levels.Stop()

	logger.Info("starting session", "difficulty", s.Diff.ID, "coop", s.TwoPlayer, "seed", seed, "slot", s.Slot, "resume", s.Resume)

	return tui.Run(tui.Options{
		Runtime:    s.Runtime,
		Engine:     s.Engine,
		Difficulty: s.Diff,
		TwoPlayer:  s.TwoPlayer,
		Slot:       s.Slot,
		Resume:     s.Resume,
		Levels:     levels,
		Store:      store,
		Logger:     logger,
	})
}
