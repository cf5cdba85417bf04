package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-maze/internal/platform/tui"
	"github.com/vovakirdan/tui-maze/internal/storage"
)

var (
	flagRunsDifficulty string
	flagRunsLimit      int
	flagRunsTUI        bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recorded runs",
	Long: `Display the most recent runs and a summary per difficulty.

Examples:
  maze runs
  maze runs --difficulty hard --limit 5
  maze runs --tui`,
	Args: cobra.NoArgs,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().StringVar(&flagRunsDifficulty, "difficulty", "", "Only show runs of one difficulty")
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 10, "Number of runs to show")
	runsCmd.Flags().BoolVar(&flagRunsTUI, "tui", false, "Browse runs interactively")
}

func runRuns(cmd *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagRunsTUI {
		cfg, _, err := loadConfig("")
		if err != nil {
			return err
		}
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		return tui.RunRuns(store, cfg.DifficultyIDs(), width, height)
	}

	ctx := context.Background()
	runs, err := store.RecentRuns(ctx, flagRunsDifficulty, flagRunsLimit)
	if err != nil {
		return err
	}

	title := "Recent runs"
	if flagRunsDifficulty != "" {
		title += " - " + flagRunsDifficulty
	}
	fmt.Println(title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'maze play' to record the first run!")
		return nil
	}

	fmt.Printf("  %-5s  %-8s  %-5s  %-5s  %-10s  %s\n", "#", "Diff", "Level", "Kills", "Outcome", "Date")
	fmt.Printf("  %-5s  %-8s  %-5s  %-5s  %-10s  %s\n", "-", "----", "-----", "-----", "-------", "----")
	for _, r := range runs {
		fmt.Printf("  %-5d  %-8s  %-5d  %-5d  %-10s  %s\n",
			r.ID, r.DifficultyID, r.HighestLevel, r.Kills, r.Outcome, r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	stats, err := store.GetRunStats(ctx, flagRunsDifficulty)
	if err == nil {
		fmt.Println()
		fmt.Printf("Runs: %d  Best level: %d  Avg kills: %.1f\n", stats.Runs, stats.BestLevel, stats.AvgKills)
	}
	return nil
}
