package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tanks/internal/registry"
)

var scenariosCmd = &cobra.Command{
	Use:     "scenarios",
	Aliases: []string{"list"},
	Short:   "List all built-in scenarios",
	Long:    `Shows a list of all scenarios registered with the arena.`,
	Run:     runScenarios,
}

func runScenarios(_ *cobra.Command, _ []string) {
	infos := registry.List()

	if len(infos) == 0 {
		fmt.Println("No scenarios available.")
		return
	}

	fmt.Println("Available scenarios:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, s := range infos {
		maxIDLen = max(maxIDLen, len(s.ID))
	}

	fmt.Printf("  %-*s  %-6s  %s\n", maxIDLen, "ID", "Tanks", "Description")
	fmt.Printf("  %-*s  %-6s  %s\n", maxIDLen, "--", "-----", "-----------")

	for _, s := range infos {
		fmt.Printf("  %-*s  %-6d  %s\n", maxIDLen, s.ID, s.Actors, s.Description)
	}

	fmt.Println()
	fmt.Println("Run 'tanks play <id>' to play a scenario.")
}
