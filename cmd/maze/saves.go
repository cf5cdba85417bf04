package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-maze/internal/storage"
	"github.com/vovakirdan/tui-maze/internal/world"
)

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "List or delete save slots",
	Long: `List the saved games, or delete one slot.

Examples:
  maze saves
  maze saves delete 2
  maze saves delete auto`,
	Args: cobra.NoArgs,
	RunE: runSavesList,
}

var savesDeleteCmd = &cobra.Command{
	Use:   "delete <slot>",
	Short: "Delete a save slot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSavesDelete,
}

func init() {
	savesCmd.AddCommand(savesDeleteCmd)
}

// parseTarget parses a slot number or "auto".
func parseTarget(s string) (world.SaveTarget, error) {
	if strings.EqualFold(s, "auto") {
		return world.AutoSlot, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return world.SaveTarget{}, fmt.Errorf("invalid slot %q: want a number or \"auto\"", s)
	}
	return world.ManualSlot(n), nil
}

func runSavesList(cmd *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	saves, err := store.ListSaves(context.Background())
	if err != nil {
		return err
	}

	fmt.Println("Saved games")
	fmt.Println()
	if len(saves) == 0 {
		fmt.Println("No saves yet.")
		fmt.Println()
		fmt.Println("Press ctrl+s while playing to save to the bound slot.")
		return nil
	}

	fmt.Printf("  %-7s  %-5s  %-8s  %-5s  %s\n", "Slot", "Level", "Diff", "Coop", "Saved")
	fmt.Printf("  %-7s  %-5s  %-8s  %-5s  %s\n", "----", "-----", "----", "----", "-----")
	for _, s := range saves {
		coop := "no"
		if s.TwoPlayer {
			coop = "yes"
		}
		fmt.Printf("  %-7s  %-5d  %-8s  %-5s  %s\n",
			s.Target, s.Level, s.DifficultyID, coop, s.SavedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func runSavesDelete(cmd *cobra.Command, args []string) error {
	target, err := parseTarget(args[0])
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteSave(context.Background(), target); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", target)
	return nil
}

// nextFreeSlot returns the lowest unused manual slot, starting at 1.
func nextFreeSlot(store *storage.Store) world.SaveTarget {
	if store == nil {
		return world.ManualSlot(1)
	}
	saves, err := store.ListSaves(context.Background())
	if err != nil {
		return world.ManualSlot(1)
	}
	used := make(map[int]bool, len(saves))
	for _, s := range saves {
		if !s.Target.Auto {
			used[s.Target.Slot] = true
		}
	}
	n := 1
	for used[n] {
		n++
	}
	return world.ManualSlot(n)
}
