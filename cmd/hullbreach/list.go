package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/hullbreach/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available scenarios",
	Long:  `Shows a list of all builtin scenarios and those loaded with --scenarios.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	scenarios := registry.List()

	if len(scenarios) == 0 {
		fmt.Println("No scenarios available.")
		return
	}

	fmt.Println("Available scenarios:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, s := range scenarios {
		if len(s.ID) > maxIDLen {
			maxIDLen = len(s.ID)
		}
	}

	fmt.Printf("  %-*s  %-10s  %s\n", maxIDLen, "ID", "Structures", "Title")
	fmt.Printf("  %-*s  %-10s  %s\n", maxIDLen, "--", "----------", "-----")

	for _, s := range scenarios {
		fmt.Printf("  %-*s  %-10d  %s\n", maxIDLen, s.ID, s.Structures, s.Title)
	}

	fmt.Println()
	fmt.Println("Run 'hullbreach play <id>' to pilot a scenario.")
}
