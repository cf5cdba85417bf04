package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-maze/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with an interactive menu",
	Long: `Start in interactive menu mode: pick a difficulty, continue a saved
game, or browse past runs. After a game ends you return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  C            - Toggle co-op
  Tab          - Run history
  Q            - Quit

Examples:
  maze menu
  maze menu --db ./maze.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	logger, closeLog, err := newLogger("maze", "~/.maze/maze.log")
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, _, err := loadConfig("")
	if err != nil {
		return err
	}

	store := openStoreOrWarn(logger, false)
	if store != nil {
		defer store.Close()
	}

	rc := terminalConfig(0, 0)
	twoPlayer := false

	// Menu loop
	for {
		res, err := tui.RunMenu(store, cfg.DifficultyIDs(), twoPlayer, rc)
		if err != nil {
			return err
		}
		rc = res.Config
		twoPlayer = res.TwoPlayer

		if res.Quit {
			return nil
		}

		if res.WantsRuns {
			if store == nil {
				continue
			}
			if err := tui.RunRuns(store, cfg.DifficultyIDs(), rc.ScreenW, rc.ScreenH); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			continue
		}

		diff, ok := cfg.Difficulty(res.Difficulty)
		if !ok {
			logger.Warn("unknown difficulty", "difficulty", res.Difficulty)
			continue
		}

		s := session{
			Runtime:   rc,
			Engine:    cfg.Engine,
			Diff:      diff,
			TwoPlayer: res.TwoPlayer,
			Slot:      res.Slot,
			Resume:    res.Resume,
		}
		if !res.Resume {
			s.Slot = nextFreeSlot(store)
		}
		s.Runtime.Seed = 0
		if err := playSession(logger, store, s); err != nil {
			logger.Error("session failed", "error", err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
}
