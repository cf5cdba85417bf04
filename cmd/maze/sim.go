package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-maze/internal/core"
	"github.com/vovakirdan/tui-maze/internal/events"
	"github.com/vovakirdan/tui-maze/internal/maze"
	"github.com/vovakirdan/tui-maze/internal/sim"
	"github.com/vovakirdan/tui-maze/internal/storage"
	"github.com/vovakirdan/tui-maze/internal/world"
)

var (
	flagSimDifficulty string
	flagSimCoop       bool
	flagSimSeed       int64
	flagSimFPS        int
	flagSimTicks      uint64
	flagSimScript     string
	flagSimRecord     bool
	flagSimSave       string
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run the world headless and print a summary",
	Long: `Run the tick engine without a terminal, driven by random or scripted
input, and print what happened.

A script is a YAML list of presses:

  - {at: 0, player: 1, action: right, hold: 30}
  - {at: 30, player: 1, action: skill3, pointer: [5, 3]}

Examples:
  maze sim --ticks 3600 --seed 7
  maze sim --script ./run.yaml --coop
  maze sim --record --save auto`,
	Args: cobra.NoArgs,
	RunE: runSim,
}

func init() {
	simCmd.Flags().StringVar(&flagSimDifficulty, "difficulty", "normal", "Difficulty preset: easy, normal, hard")
	simCmd.Flags().BoolVar(&flagSimCoop, "coop", false, "Simulate two players")
	simCmd.Flags().Int64Var(&flagSimSeed, "seed", 1, "RNG seed for the maze and the random input")
	simCmd.Flags().IntVar(&flagSimFPS, "fps", 0, "Tick rate (0 = config value)")
	simCmd.Flags().Uint64Var(&flagSimTicks, "ticks", 3600, "Number of ticks to simulate")
	simCmd.Flags().StringVar(&flagSimScript, "script", "", "YAML input script (default: random input)")
	simCmd.Flags().BoolVar(&flagSimRecord, "record", false, "Record the run in the database")
	simCmd.Flags().StringVar(&flagSimSave, "save", "", "Save the final state to a slot: a number or \"auto\"")
}

func runSim(cmd *cobra.Command, _ []string) error {
	logger, closeLog, err := newLogger("maze-sim", "")
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, diff, err := loadConfig(flagSimDifficulty)
	if err != nil {
		return err
	}

	var input sim.InputSource = sim.NewRandom(flagSimSeed)
	if flagSimScript != "" {
		script, err := sim.LoadScript(flagSimScript)
		if err != nil {
			return err
		}
		input = script
	}

	var store *storage.Store
	if flagSimRecord || flagSimSave != "" {
		store, err = storage.Open(flagDBPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	levels := maze.NewCache(maze.NewGenerator(flagSimSeed), maze.DefaultLookahead, logger.WithPrefix("maze"))
	levels.Start()
	defer levels.Stop()

	bus := events.NewBus()
	svc := world.Services{Logger: logger, Events: bus, Levels: levels}
	if store != nil {
		svc.Store = store
	}
	w, err := world.New(svc, world.Options{
		Engine:     cfg.Engine,
		Difficulty: diff,
		TwoPlayer:  flagSimCoop,
		Seed:       flagSimSeed,
		Target:     world.AutoSlot,
	})
	if err != nil {
		return err
	}

	rc := core.RuntimeConfig{TickRate: flagSimFPS, Seed: flagSimSeed}
	if rc.TickRate <= 0 {
		rc.TickRate = cfg.Engine.TickRate
	}
	runner, err := sim.NewRunner(w, input, bus, rc)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, runErr := runner.Run(ctx, flagSimTicks)
	printSimResult(res, rc, diff.ID)
	if runErr != nil {
		return runErr
	}

	if flagSimSave != "" {
		target, err := parseTarget(flagSimSave)
		if err != nil {
			return err
		}
		if err := w.SaveTo(ctx, target); err != nil {
			return err
		}
		fmt.Printf("Saved to %s\n", target)
	}

	if flagSimRecord {
		outcome := "quit"
		if res.GameOver {
			outcome = "game_over"
		}
		run := storage.NewRunRecord(w.SessionID(), diff.ID, flagSimCoop, res.Totals)
		run.Outcome = outcome
		run.Duration = time.Duration(float64(res.Ticks) * rc.TickDelta() * float64(time.Second))
		id, err := store.RecordRun(ctx, run)
		if err != nil {
			return err
		}
		fmt.Printf("Recorded run #%d\n", id)
	}
	return nil
}

func printSimResult(res sim.Result, rc core.RuntimeConfig, difficulty string) {
	game := time.Duration(float64(res.Ticks) * rc.TickDelta() * float64(time.Second))

	fmt.Printf("Simulated %d ticks (%s of play) in %s\n", res.Ticks, game.Truncate(time.Millisecond), res.Elapsed.Truncate(time.Millisecond))
	fmt.Println()
	fmt.Printf("  %-16s %s\n", "Difficulty", difficulty)
	fmt.Printf("  %-16s %d\n", "Level", res.Level)
	fmt.Printf("  %-16s %d\n", "Levels finished", res.Totals.LevelsFinished)
	fmt.Printf("  %-16s %d (%d by dash)\n", "Kills", res.Totals.Kills, res.Totals.DashKills)
	fmt.Printf("  %-16s %d\n", "Items", res.Totals.TotalItems())
	fmt.Printf("  %-16s %d\n", "Damage taken", res.Totals.DamageTaken)
	if res.GameOver {
		fmt.Println()
		fmt.Println("Game over.")
	}
}
