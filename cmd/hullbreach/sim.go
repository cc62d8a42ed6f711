package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/hullbreach/internal/combat"
	"github.com/vovakirdan/hullbreach/internal/registry"
	"github.com/vovakirdan/hullbreach/internal/scenario"
	"github.com/vovakirdan/hullbreach/internal/storage"
	"github.com/vovakirdan/hullbreach/internal/trace"
	"github.com/vovakirdan/hullbreach/internal/transport/observer"
)

var (
	flagTicks    int
	flagRecord   string
	flagObserve  string
	flagRealtime bool
	flagQuiet    bool
	flagNoSave   bool
)

var simCmd = &cobra.Command{
	Use:   "sim <scenario>",
	Short: "Run a scenario headless",
	Long: `Run a scenario without a terminal UI until every gunnery target is
crippled or the tick limit is reached. Events are printed one per line.

With --record the events are written to a compressed trace that
'hullbreach trace' can print later. With --observe a loopback websocket
endpoint streams events to observers at ws://<addr>/events; observed runs
are paced in real time.

Examples:
  hullbreach sim breach-drill
  hullbreach sim duel --ticks 7200 --seed 42
  hullbreach sim outpost --record outpost.jsonl.zst
  hullbreach sim duel --observe 127.0.0.1:8089`,
	Args: cobra.ExactArgs(1),
	RunE: runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagTicks, "ticks", 36000, "Tick limit (0 = until over)")
	simCmd.Flags().StringVar(&flagRecord, "record", "", "Write an event trace to this file")
	simCmd.Flags().StringVar(&flagObserve, "observe", "", "Stream events over websocket on this loopback address")
	simCmd.Flags().BoolVar(&flagRealtime, "realtime", false, "Pace ticks at the tick rate")
	simCmd.Flags().BoolVar(&flagQuiet, "quiet", false, "Only print the summary")
	simCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record the run in the history database")
}

func runSim(cmd *cobra.Command, args []string) error {
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
	s, err := scenario.New(doc, cfg, scenario.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sinks []func(uint64, []combat.Event)

	if !flagQuiet {
		sinks = append(sinks, func(tick uint64, events []combat.Event) {
			for _, e := range events {
				fmt.Printf("%8d  %s\n", tick, combat.Describe(e))
			}
		})
	}

	if flagRecord != "" {
		w, err := trace.Create(flagRecord)
		if err != nil {
			return err
		}
		defer func() {
			if err := w.Close(); err != nil {
				logger.Error("closing trace", "path", flagRecord, "err", err)
			}
		}()
		sinks = append(sinks, func(tick uint64, events []combat.Event) {
			if err := w.Write(tick, events); err != nil {
				logger.Error("writing trace", "tick", tick, "err", err)
			}
		})
	}

	pace := flagRealtime
	if flagObserve != "" {
		hub := observer.NewHub(observer.Info{Scenario: id, TickRate: cfg.Sim.TickRate}, logger)
		go func() {
			if err := hub.Serve(ctx, flagObserve); err != nil {
				logger.Error("observer server", "addr", flagObserve, "err", err)
			}
		}()
		sinks = append(sinks, hub.Publish)
		pace = true
		fmt.Fprintf(os.Stderr, "Observers can connect to ws://%s/events\n", flagObserve)
	}

	started := time.Now()
	reason, err := simulate(ctx, s, flagTicks, pace, func(tick uint64, events []combat.Event) {
		for _, sink := range sinks {
			sink(tick, events)
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	elapsed := time.Since(started)

	stats := s.Stats()
	fmt.Println()
	fmt.Printf("Scenario:      %s (seed %d)\n", doc.Title(), s.Seed())
	fmt.Printf("Result:        %s after %d ticks (%.1fs simulated)\n", reason, stats.Ticks, float64(stats.Ticks)*s.Dt())
	fmt.Printf("Destroyed:     %d modules\n", stats.Destroyed)
	fmt.Printf("Detached:      %d modules\n", stats.Detached)
	fmt.Printf("Breaches:      %d\n", stats.Depressurized)
	fmt.Printf("Shots:         %d gunner, %d cannon\n", stats.GunnerShots, stats.CannonShots)

	if flagNoSave {
		return nil
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open run database", "err", err)
		return nil
	}
	defer store.Close()
	runID, err := store.SaveRun(s.Record(reason, elapsed))
	if err != nil {
		logger.Warn("could not save run", "err", err)
		return nil
	}
	fmt.Printf("Run saved:     %s\n", runID)
	return nil
}

// simulate steps s until it is over, maxTicks is reached or ctx is done.
// When pace is set every tick waits for the next tick interval.
func simulate(ctx context.Context, s *scenario.Session, maxTicks int, pace bool,
	observe func(uint64, []combat.Event)) (string, error) {
	var tick <-chan time.Time
	if pace {
		ticker := time.NewTicker(time.Duration(s.Dt() * float64(time.Second)))
		defer ticker.Stop()
		tick = ticker.C
	}

	for i := 0; maxTicks <= 0 || i < maxTicks; i++ {
		if pace {
			select {
			case <-ctx.Done():
				return scenario.EndQuit, ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return scenario.EndQuit, err
		}

		events := s.Step(nil)
		observe(s.World().Tick(), events)
		if s.Over() {
			return scenario.EndCrippled, nil
		}
	}
	return scenario.EndTickLimit, nil
}
