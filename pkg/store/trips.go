package store

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
)

// TripsFile is the file name of the trip collection inside the data directory.
const TripsFile = "trips.json"

// ChangeKind names what a store mutation did.
type ChangeKind int

const (
	ChangeNone ChangeKind = iota // mutation matched nothing
	ChangeAdded
	ChangeUpdated
	ChangeRemoved
	ChangeReset
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeNone:
		return "none"
	case ChangeAdded:
		return "added"
	case ChangeUpdated:
		return "updated"
	case ChangeRemoved:
		return "removed"
	case ChangeReset:
		return "reset"
	default:
		return fmt.Sprintf("ChangeKind(%d)", int(k))
	}
}

// TripChange describes the effect of a trip store mutation. Before is nil for
// additions, After is nil for removals, and both are nil for ChangeNone and
// ChangeReset. Callers use it to drive side effects such as reminders.
type TripChange struct {
	Kind   ChangeKind
	Before *Trip
	After  *Trip
}

// Stats is a snapshot of the trip store's derived counters.
type Stats struct {
	TotalTrips          int
	UpcomingTrips       int
	CompletedTrips      int
	TotalChecklistItems int
	DoneChecklistItems  int
	ByCategory          map[TripCategory]int
}

// TripStore owns the trip collection. Trips are kept sorted by start date
// and every mutation is written through to disk.
type TripStore struct {
	trips []Trip
	file  *Collection[Trip]
	now   func() time.Time
}

// TripStoreOption configures a TripStore
type TripStoreOption func(*TripStore)

// WithClock overrides the time source used by the upcoming/completed queries.
func WithClock(now func() time.Time) TripStoreOption {
	return func(s *TripStore) {
		s.now = now
	}
}

// NewTripStore loads the trip collection from dir/trips.json.
func NewTripStore(dir string, opts ...TripStoreOption) *TripStore {
	s := &TripStore{
		file: NewCollection[Trip](filepath.Join(dir, TripsFile)),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.trips = s.file.Load()
	for i := range s.trips {
		if s.trips[i].Category == "" {
			s.trips[i].Category = TripOther
		}
	}
	s.sortByStart()
	slog.Info("Trip store ready", "path", s.file.Path(), "trips", len(s.trips))
	return s
}

// All returns deep copies of the trips in start date order.
func (s *TripStore) All() []Trip {
	out := make([]Trip, len(s.trips))
	for i, t := range s.trips {
		out[i] = t.Clone()
	}
	return out
}

// Get returns the trip with the given id.
func (s *TripStore) Get(id uuid.UUID) (Trip, error) {
	if i := s.indexOf(id); i >= 0 {
		return s.trips[i].Clone(), nil
	}
	return Trip{}, fmt.Errorf("trip %s: %w", id, ErrNotFound)
}

// Add appends trip and persists the collection.
func (s *TripStore) Add(trip Trip) (TripChange, error) {
	s.trips = append(s.trips, trip.Clone())
	s.sortByStart()
	slog.Info("Trip added", "trip_id", trip.ID, "title", trip.Title)
	after := trip.Clone()
	return TripChange{Kind: ChangeAdded, After: &after}, s.save()
}

// Update replaces the stored trip with the same id. Unknown ids are ignored.
func (s *TripStore) Update(trip Trip) (TripChange, error) {
	i := s.indexOf(trip.ID)
	if i < 0 {
		slog.Debug("Update ignored, trip not found", "trip_id", trip.ID)
		return TripChange{Kind: ChangeNone}, nil
	}

	before := s.trips[i]
	s.trips[i] = trip.Clone()
	s.sortByStart()
	slog.Info("Trip updated", "trip_id", trip.ID)
	after := trip.Clone()
	return TripChange{Kind: ChangeUpdated, Before: &before, After: &after}, s.save()
}

// Remove deletes the trip with the same id as trip.
func (s *TripStore) Remove(trip Trip) (TripChange, error) {
	i := s.indexOf(trip.ID)
	if i < 0 {
		return TripChange{Kind: ChangeNone}, s.save()
	}

	before := s.trips[i]
	s.trips = append(s.trips[:i], s.trips[i+1:]...)
	slog.Info("Trip removed", "trip_id", trip.ID)
	return TripChange{Kind: ChangeRemoved, Before: &before}, s.save()
}

// ResetAll deletes every trip.
func (s *TripStore) ResetAll() (TripChange, error) {
	s.trips = []Trip{}
	slog.Info("All trips removed")
	return TripChange{Kind: ChangeReset}, s.save()
}

// TotalTrips returns the number of stored trips.
func (s *TripStore) TotalTrips() int {
	return len(s.trips)
}

// UpcomingTrips counts trips that have not ended yet.
func (s *TripStore) UpcomingTrips() int {
	now := s.now()
	n := 0
	for _, t := range s.trips {
		if t.IsUpcoming(now) {
			n++
		}
	}
	return n
}

// CompletedTrips counts trips whose end date has passed.
func (s *TripStore) CompletedTrips() int {
	return len(s.trips) - s.UpcomingTrips()
}

// TotalChecklistItems counts checklist items across all trips.
func (s *TripStore) TotalChecklistItems() int {
	n := 0
	for _, t := range s.trips {
		n += len(t.Checklist)
	}
	return n
}

// DoneChecklistItems counts completed checklist items across all trips.
func (s *TripStore) DoneChecklistItems() int {
	n := 0
	for _, t := range s.trips {
		n += t.DoneCount()
	}
	return n
}

// CountByCategory counts trips in the given category.
func (s *TripStore) CountByCategory(cat TripCategory) int {
	n := 0
	for _, t := range s.trips {
		if t.Category == cat {
			n++
		}
	}
	return n
}

// Stats collects every derived counter.
func (s *TripStore) Stats() Stats {
	st := Stats{
		TotalTrips:          s.TotalTrips(),
		UpcomingTrips:       s.UpcomingTrips(),
		CompletedTrips:      s.CompletedTrips(),
		TotalChecklistItems: s.TotalChecklistItems(),
		DoneChecklistItems:  s.DoneChecklistItems(),
		ByCategory:          make(map[TripCategory]int, len(TripCategories)),
	}
	for _, c := range TripCategories {
		st.ByCategory[c] = s.CountByCategory(c)
	}
	return st
}

func (s *TripStore) indexOf(id uuid.UUID) int {
	for i := range s.trips {
		if s.trips[i].ID == id {
			return i
		}
	}
	return -1
}

// sortByStart orders trips by start date; ties keep their insertion order.
func (s *TripStore) sortByStart() {
	sort.SliceStable(s.trips, func(i, j int) bool {
		return s.trips[i].StartDate.Before(s.trips[j].StartDate)
	})
}

func (s *TripStore) save() error {
	if err := s.file.Save(s.trips); err != nil {
		return fmt.Errorf("store.TripStore: %w", err)
	}
	return nil
}
