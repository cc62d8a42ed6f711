// hullbreach simulates modular grid-built ships and stations: hull breaches,
// pressure loss, detached wreckage and the crews piloting what remains.
//
// Usage:
//
//	hullbreach list                 - List available scenarios
//	hullbreach sim <scenario>       - Run a scenario headless and print events
//	hullbreach play <scenario>      - Pilot a scenario in the terminal
//	hullbreach menu                 - Pick a scenario interactively
//	hullbreach serve                - Start SSH server for remote play
//	hullbreach runs [scenario]      - Show recorded runs
//	hullbreach trace <file>         - Print a recorded event trace
//	hullbreach validate <file>...   - Check structures documents
//
// Global flags:
//
//	--config <path>      - Simulation config YAML
//	--fps <rate>         - Override tick rate
//	--seed <value>       - Set RNG seed for reproducible gunnery
//	--db <path>          - Set database path (default: ~/.hullbreach/runs.db)
//	--scenarios <dir>    - Load extra scenario documents from a directory
//	--difficulty <name>  - Gunnery preset: easy, normal, hard, fixed
//	--log-level <level>  - debug, info, warn, error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/hullbreach/internal/config"
	"github.com/vovakirdan/hullbreach/internal/layout"
	"github.com/vovakirdan/hullbreach/internal/registry"

	// Register builtin scenarios
	_ "github.com/vovakirdan/hullbreach/internal/scenario"
)

var (
	// Global flags
	flagConfig     string
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagScenarios  string
	flagDifficulty string
	flagLogLevel   string

	logger *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hullbreach",
	Short: "Hullbreach - modular structure combat in your terminal",
	Long: `Hullbreach simulates ships and stations built from a grid of modules.
Projectiles wear modules down, breached hulls lose pressure, and pieces cut
off from the command center drift away as wreckage.

Available commands:
  list      - Show all available scenarios
  sim       - Run a scenario headless
  play      - Pilot a scenario in the terminal
  menu      - Interactive scenario picker
  serve     - Start SSH server for remote play
  runs      - View run history
  trace     - Print a recorded event trace
  validate  - Check structures documents
  schema    - Print the structures document schema

Examples:
  hullbreach list
  hullbreach sim breach-drill --ticks 3600
  hullbreach play duel --difficulty hard
  hullbreach serve --ssh :2222`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger = newLogger()
		return registerScenarios(flagScenarios)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to simulation config YAML")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate override (0 = use config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = use config, else time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.hullbreach/runs.db", "Path to run history database")
	rootCmd.PersistentFlags().StringVar(&flagScenarios, "scenarios", "", "Directory of extra scenario documents")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Gunnery preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(schemaCmd)
}

// newLogger builds the process logger from --log-level.
func newLogger() *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "hullbreach",
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		l.Warn("unknown log level, using warn", "level", flagLogLevel)
		level = log.WarnLevel
	}
	l.SetLevel(level)
	return l
}

// registerScenarios adds every document under dir to the registry.
func registerScenarios(dir string) error {
	if dir == "" {
		return nil
	}
	docs, err := layout.NewLoader(dir, logger).LoadAll()
	if err != nil {
		return fmt.Errorf("loading scenarios: %w", err)
	}
	for _, doc := range docs {
		if err := registry.RegisterDocument(doc); err != nil {
			logger.Warn("skipping scenario", "id", doc.ID, "path", doc.FilePath, "err", err)
			continue
		}
		logger.Debug("registered scenario", "id", doc.ID, "path", doc.FilePath)
	}
	return nil
}

// loadConfig loads the simulation config and applies the global overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagFPS > 0 {
		cfg.Sim.TickRate = flagFPS
	}
	if flagSeed != 0 {
		cfg.Sim.Seed = flagSeed
	}
	switch p := config.Preset(flagDifficulty); p {
	case "":
	case config.PresetEasy, config.PresetNormal, config.PresetHard, config.PresetFixed:
		config.ApplyPreset(&cfg, p)
	default:
		return cfg, fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", flagDifficulty)
	}
	return cfg, cfg.Validate()
}

// requireScenario fails with a hint when id is not registered.
func requireScenario(id string) error {
	if !registry.Exists(id) {
		return fmt.Errorf("unknown scenario %q, run 'hullbreach list' to see available scenarios", id)
	}
	return nil
}
