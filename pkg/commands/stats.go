package commands

import (
	"toproad/pkg/store"
)

// HandleStatsCommand prints the trip store counters.
func HandleStatsCommand(env Env) error {
	st := env.Trips.Stats()

	env.printf("Trips:      %d total, %d upcoming, %d completed\n", st.TotalTrips, st.UpcomingTrips, st.CompletedTrips)
	percent := 0
	if st.TotalChecklistItems > 0 {
		percent = st.DoneChecklistItems * 100 / st.TotalChecklistItems
	}
	env.printf("Checklist:  %d/%d done (%d%%)\n", st.DoneChecklistItems, st.TotalChecklistItems, percent)
	for _, c := range store.TripCategories {
		env.printf("  %-10s %d\n", c, st.ByCategory[c])
	}
	return nil
}
