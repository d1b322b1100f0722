package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-airhockey/internal/match"
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List match modes",
	Long:  `Shows every match mode with the value it asks for.`,
	Args:  cobra.NoArgs,
	Run:   runModes,
}

func runModes(_ *cobra.Command, _ []string) {
	fmt.Println("Match modes:")
	fmt.Println()

	fmt.Printf("  %-10s  %-11s  %s\n", "ID", "Title", "Value")
	fmt.Printf("  %-10s  %-11s  %s\n", "--", "-----", "-----")

	for _, m := range match.Modes {
		value := "none, play until you quit"
		if m != match.Endless {
			name, nameErr := m.InfoName()
			unit, unitErr := m.InfoUnitName()
			if nameErr == nil && unitErr == nil {
				value = fmt.Sprintf("%s in %s", name, unit)
			}
		}
		fmt.Printf("  %-10s  %-11s  %s\n", m.Key(), m.String(), value)
	}

	fmt.Println()
	fmt.Println("Run 'airhockey play --mode <id> --value <n>' to start a match.")
}
