package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/hullbreach/internal/combat"
	"github.com/vovakirdan/hullbreach/internal/trace"
)

var flagTraceKind string

var traceCmd = &cobra.Command{
	Use:   "trace <file>",
	Short: "Print a recorded event trace",
	Long: `Print the events of a trace written by 'hullbreach sim --record'.

Examples:
  hullbreach trace outpost.jsonl.zst
  hullbreach trace outpost.jsonl.zst --kind module_detached`,
	Args: cobra.ExactArgs(1),
	RunE: runTrace,
}

func init() {
	traceCmd.Flags().StringVar(&flagTraceKind, "kind", "", "Only print events of this kind")
}

func runTrace(_ *cobra.Command, args []string) error {
	entries, err := trace.ReadFile(args[0])
	if err != nil {
		return err
	}

	counts := make(map[string]int)
	for _, entry := range entries {
		kind := entry.Event.Kind()
		counts[kind]++
		if flagTraceKind != "" && kind != flagTraceKind {
			continue
		}
		fmt.Printf("%8d  %s\n", entry.Tick, combat.Describe(entry.Event))
	}

	kinds := make([]string, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	fmt.Println()
	fmt.Printf("%d events\n", len(entries))
	for _, kind := range kinds {
		fmt.Printf("  %-24s %d\n", kind, counts[kind])
	}
	return nil
}
