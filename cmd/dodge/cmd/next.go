package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gronsdodgeball/dodge/internal/classify"
	"github.com/gronsdodgeball/dodge/internal/util"
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the next upcoming session",
	Long:  `Show the next session on the club calendar with a countdown to its start.`,
	RunE:  runNext,
}

func init() {
	rootCmd.AddCommand(nextCmd)
}

func runNext(cmd *cobra.Command, args []string) error {
	now := time.Now()

	raw, err := source.FetchUpcoming(cmd.Context(), now)
	if err != nil {
		return fmt.Errorf("failed to fetch sessions: %w", err)
	}

	sessions := classify.All(raw, now)
	if len(sessions) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}

	// The feed is ordered by start time; the first entry is the next one.
	next := sessions[0]

	fmt.Println("─────────────────────────────────────────────────")
	fmt.Println("  NEXT SESSION")
	fmt.Println("─────────────────────────────────────────────────")
	fmt.Println()

	if next.InProgress {
		remaining := next.End.Sub(now)
		fmt.Printf("  🟢 IN PROGRESS - %s remaining\n", formatCountdown(remaining))
	} else {
		until := next.Start.Sub(now)
		fmt.Printf("  ⏳ STARTS IN: %s\n", formatCountdown(until))
	}
	fmt.Println()

	printSession(next)

	if next.Description != "" {
		fmt.Println()
		fmt.Println("  📝 Details:")
		for _, line := range strings.Split(util.HTMLToText(next.Description, 60), "\n") {
			fmt.Printf("     %s\n", line)
		}
	}

	fmt.Println()
	fmt.Println("─────────────────────────────────────────────────")

	return nil
}

func formatCountdown(d time.Duration) string {
	if d < 0 {
		return "NOW"
	}

	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	plural := func(n int, unit string) string {
		if n == 1 {
			return fmt.Sprintf("%d %s", n, unit)
		}
		return fmt.Sprintf("%d %ss", n, unit)
	}

	var parts []string
	if days > 0 {
		parts = append(parts, plural(days, "day"))
	}
	if hours > 0 {
		parts = append(parts, plural(hours, "hour"))
	}
	if minutes > 0 {
		parts = append(parts, plural(minutes, "minute"))
	}

	if len(parts) == 0 {
		return "less than a minute"
	}
	return strings.Join(parts, ", ")
}
