package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/hullbreach/internal/platform/tui"
	"github.com/vovakirdan/hullbreach/internal/registry"
	"github.com/vovakirdan/hullbreach/internal/scenario"
	"github.com/vovakirdan/hullbreach/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play <scenario>",
	Short: "Pilot a scenario",
	Long: `Start the scenario with you as its first agent.

Controls:
  WASD/Arrows  - Move (the agent, or the piloted structure)
  Q/E          - Rotate the piloted structure
  Space        - Take or release the command center
  G/F          - Fire all cannons
  X            - Brake
  P            - Pause
  Esc          - Leave the scenario
  Ctrl+C       - Quit

Difficulty options:
  easy   - Gunnery starts slow and speeds up as modules are destroyed
  normal - Gunnery starts at 30% escalation
  hard   - Gunnery starts at 70% escalation
  fixed  - No escalation

Examples:
  hullbreach play breach-drill
  hullbreach play duel --difficulty hard
  hullbreach play outpost --config ./my-tuning.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a scenario interactively",
	RunE:  runMenu,
}

// terminalSize returns the stdout size, falling back to 80x24.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}

// openStore opens the run database, warning and continuing without it on failure.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open run database", "err", err)
		return nil
	}
	return store
}

func runPlay(cmd *cobra.Command, args []string) error {
	id := args[0]
	if err := requireScenario(id); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	doc, err := registry.Create(id)
	if err != nil {
		return err
	}
	s, err := scenario.New(doc, cfg, scenario.WithLogger(log.New(io.Discard)))
	if err != nil {
		return err
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	width, height := terminalSize()
	final, err := tui.Run(s, tui.Options{
		Store:    store,
		TickRate: cfg.Sim.TickRate,
		Width:    width,
		Height:   height,
	})
	if err != nil {
		return fmt.Errorf("running scenario: %w", err)
	}

	stats := s.Stats()
	fmt.Printf("%s: %d ticks, %d destroyed, %d detached, %d breaches\n",
		doc.Title(), stats.Ticks, stats.Destroyed, stats.Detached, stats.Depressurized)
	if runID := final.RunID(); runID != "" {
		fmt.Printf("Run saved: %s\n", runID)
	}
	return nil
}

func runMenu(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := openStore()
	if store != nil {
		defer store.Close()
	}
	width, height := terminalSize()
	return tui.RunMenu(store, cfg, width, height)
}
