package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/hullbreach/internal/platform/tui"
	"github.com/vovakirdan/hullbreach/internal/storage"
)

var (
	flagRunsLimit int
	flagRunsClear bool
	flagRunsTUI   bool
)

var runsCmd = &cobra.Command{
	Use:   "runs [scenario]",
	Short: "Show recorded runs",
	Long: `Display recent runs and per-scenario totals.

Examples:
  hullbreach runs
  hullbreach runs duel --limit 5
  hullbreach runs duel --clear
  hullbreach runs --tui`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 10, "Number of runs to show")
	runsCmd.Flags().BoolVar(&flagRunsClear, "clear", false, "Delete the recorded runs")
	runsCmd.Flags().BoolVar(&flagRunsTUI, "tui", false, "Browse runs in the terminal UI")
}

func runRuns(_ *cobra.Command, args []string) error {
	scenarioID := ""
	if len(args) == 1 {
		scenarioID = args[0]
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening run database: %w", err)
	}
	defer store.Close()

	if flagRunsTUI {
		width, height := terminalSize()
		return tui.RunRuns(store, width, height)
	}

	if flagRunsClear {
		if err := store.ClearRuns(scenarioID); err != nil {
			return err
		}
		fmt.Println("Runs cleared.")
		return nil
	}

	all, err := store.GetAllScenarioStats()
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(all))
	for id := range all {
		if scenarioID == "" || id == scenarioID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	if len(ids) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	fmt.Println("Scenario totals:")
	fmt.Printf("  %-16s %6s %9s %9s %10s\n", "Scenario", "Runs", "Crippled", "Best", "Avg ticks")
	for _, id := range ids {
		st := all[id]
		fmt.Printf("  %-16s %6d %9d %9d %10.0f\n", id, st.Runs, st.Crippled, st.MostDestroyed, st.AvgTicks)
	}

	runs, err := store.RecentRuns(scenarioID, flagRunsLimit)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println("Recent runs:")
	fmt.Printf("  %-36s  %-14s  %-11s %7s %9s %8s  %s\n",
		"ID", "Scenario", "Result", "Ticks", "Destroyed", "Detached", "When")
	for _, r := range runs {
		fmt.Printf("  %-36s  %-14s  %-11s %7d %9d %8d  %s\n",
			r.ID, r.ScenarioID, r.EndReason, r.Ticks, r.Destroyed, r.Detached,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
