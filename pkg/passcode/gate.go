package passcode

import "toproad/pkg/store"

// HiddenTitle replaces the title of a masked trip.
const HiddenTitle = "Hidden trip"

// Gate decides whether hidden trips may be shown. A successful Unlock lasts
// until Lock is called.
type Gate struct {
	manager  *Manager
	unlocked bool
}

func NewGate(manager *Manager) *Gate {
	return &Gate{manager: manager}
}

// Locked reports whether hidden trips are currently masked.
func (g *Gate) Locked() bool {
	return g.manager.IsEnabled() && !g.unlocked
}

// Unlock opens the gate for the rest of the session.
func (g *Gate) Unlock(pin string) error {
	if err := g.manager.Verify(pin); err != nil {
		return err
	}
	g.unlocked = true
	return nil
}

func (g *Gate) Lock() {
	g.unlocked = false
}

// Reveal returns trip if it may be shown. A hidden trip behind an enabled
// lock needs the PIN unless the gate is already unlocked.
func (g *Gate) Reveal(trip store.Trip, pin string) (store.Trip, error) {
	if !trip.IsHidden || !g.Locked() {
		return trip, nil
	}
	if pin == "" {
		return store.Trip{}, ErrLocked
	}
	if err := g.manager.Verify(pin); err != nil {
		return store.Trip{}, err
	}
	return trip, nil
}

// Mask blanks the private fields of a hidden trip while the gate is locked.
// Dates and category stay visible so lists keep their order and stats.
func (g *Gate) Mask(trip store.Trip) store.Trip {
	if !trip.IsHidden || !g.Locked() {
		return trip
	}
	return store.Trip{
		ID:        trip.ID,
		Title:     HiddenTitle,
		StartDate: trip.StartDate,
		EndDate:   trip.EndDate,
		Category:  trip.Category,
		IsHidden:  true,
	}
}
