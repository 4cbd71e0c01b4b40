package ui

import (
	"sort"
	"time"

	"toproad/pkg/store"
)

// GroupBy selects how the trips table is split into sections.
type GroupBy int

const (
	GroupByNone GroupBy = iota
	GroupByCategory
	GroupByMonth
	GroupByStatus
	groupByCount
)

func (g GroupBy) String() string {
	switch g {
	case GroupByNone:
		return "none"
	case GroupByCategory:
		return "category"
	case GroupByMonth:
		return "month"
	case GroupByStatus:
		return "status"
	default:
		return "unknown"
	}
}

// SortOrder is the direction trips are listed in by start date.
type SortOrder int

const (
	SortAsc SortOrder = iota
	SortDesc
)

// GroupedTrips represents trips sharing a group key
type GroupedTrips struct {
	GroupName string
	Trips     []store.Trip
}

// SortTrips orders trips by start date in the model's sort order. The store
// already keeps ascending order, so ties keep their store order.
func (m *Model) SortTrips(trips []store.Trip) []store.Trip {
	sorted := make([]store.Trip, len(trips))
	copy(sorted, trips)

	sort.SliceStable(sorted, func(i, j int) bool {
		if m.sortOrder == SortDesc {
			return sorted[i].StartDate.After(sorted[j].StartDate)
		}
		return sorted[i].StartDate.Before(sorted[j].StartDate)
	})
	return sorted
}

// GroupTrips groups trips based on the model's GroupBy
func (m *Model) GroupTrips(trips []store.Trip, now time.Time) []GroupedTrips {
	if m.groupBy == GroupByNone {
		return []GroupedTrips{{GroupName: "", Trips: m.SortTrips(trips)}}
	}

	groups := make(map[string][]store.Trip)
	for _, trip := range trips {
		var groupKey string

		switch m.groupBy {
		case GroupByCategory:
			groupKey = string(trip.Category)
		case GroupByMonth:
			groupKey = trip.StartDate.Format("2006-01")
		case GroupByStatus:
			if trip.IsUpcoming(now) {
				groupKey = "upcoming"
			} else {
				groupKey = "completed"
			}
		}

		groups[groupKey] = append(groups[groupKey], trip)
	}

	var names []string
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	if m.sortOrder == SortDesc {
		sort.Sort(sort.Reverse(sort.StringSlice(names)))
	}

	var result []GroupedTrips
	for _, name := range names {
		result = append(result, GroupedTrips{
			GroupName: groupTitle(m.groupBy, name),
			Trips:     m.SortTrips(groups[name]),
		})
	}
	return result
}

func groupTitle(g GroupBy, key string) string {
	if g == GroupByMonth {
		if t, err := time.Parse("2006-01", key); err == nil {
			return t.Format("January 2006")
		}
	}
	return key
}
