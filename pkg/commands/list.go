package commands

import (
	"fmt"
	"strings"
	"time"
)

// HandleListCommand prints every trip grouped by start month. Hidden trips
// are masked unless the gate is unlocked.
func HandleListCommand(env Env) error {
	trips := env.Trips.All()
	if len(trips) == 0 {
		env.printf("No trips yet.\n")
		return nil
	}

	now := time.Now()
	var lines []string
	var lastMonth string
	for _, trip := range trips {
		if env.Gate != nil {
			trip = env.Gate.Mask(trip)
		}

		month := trip.StartDate.Format("January 2006")
		if month != lastMonth {
			lines = append(lines, fmt.Sprintf("\n%s:", month))
			lastMonth = month
		}

		status := " "
		if !trip.IsUpcoming(now) {
			status = "x"
		}
		line := fmt.Sprintf("- [%s] %s  %s to %s  (%s)", status, trip.Title,
			trip.StartDate.Format("02.01."), trip.EndDate.Format("02.01.2006"), trip.Category)
		if trip.Location != "" {
			line += " @ " + trip.Location
		}
		if n := len(trip.Checklist); n > 0 {
			line += fmt.Sprintf("  %d/%d done", trip.DoneCount(), n)
		}
		lines = append(lines, line)

		for _, item := range trip.Checklist {
			mark := " "
			if item.IsDone {
				mark = "x"
			}
			text := fmt.Sprintf("    - [%s] %s", mark, item.Title)
			if item.DueDate != nil {
				text += " (due " + item.DueDate.Format(dateLayout) + ")"
			}
			if item.IsOverdue(now) {
				text += " OVERDUE"
			}
			lines = append(lines, text)
		}
	}

	env.printf("%s\n", strings.TrimSpace(strings.Join(lines, "\n")))
	return nil
}
