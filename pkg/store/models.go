// Package store holds the trip and template record stores and the JSON
// collection they persist through.
package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TripCategory classifies a trip
type TripCategory string

const (
	TripVacation TripCategory = "vacation"
	TripBusiness TripCategory = "business"
	TripWeekend  TripCategory = "weekend"
	TripEvent    TripCategory = "event"
	TripOther    TripCategory = "other"
)

// TripCategories lists every trip category in display order.
var TripCategories = []TripCategory{TripVacation, TripBusiness, TripWeekend, TripEvent, TripOther}

// ParseTripCategory maps a lowercase tag to a TripCategory.
func ParseTripCategory(s string) (TripCategory, error) {
	for _, c := range TripCategories {
		if string(c) == strings.ToLower(strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown trip category %q", s)
}

// UnmarshalJSON rejects tags outside the enum so a bad record fails the whole decode.
func (c *TripCategory) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTripCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// TemplateCategory classifies a checklist template
type TemplateCategory string

const (
	TemplateEssentials TemplateCategory = "essentials"
	TemplateVacation   TemplateCategory = "vacation"
	TemplateBusiness   TemplateCategory = "business"
	TemplateHiking     TemplateCategory = "hiking"
	TemplateCitybreak  TemplateCategory = "citybreak"
	TemplateCustom     TemplateCategory = "custom"
)

// TemplateCategories lists every template category in display order.
var TemplateCategories = []TemplateCategory{
	TemplateEssentials, TemplateVacation, TemplateBusiness,
	TemplateHiking, TemplateCitybreak, TemplateCustom,
}

// ParseTemplateCategory maps a lowercase tag to a TemplateCategory.
func ParseTemplateCategory(s string) (TemplateCategory, error) {
	for _, c := range TemplateCategories {
		if string(c) == strings.ToLower(strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown template category %q", s)
}

// UnmarshalJSON rejects tags outside the enum so a bad record fails the whole decode.
func (c *TemplateCategory) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTemplateCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// TripCategoryFor returns the trip category a template materializes into.
func TripCategoryFor(c TemplateCategory) TripCategory {
	switch c {
	case TemplateVacation:
		return TripVacation
	case TemplateBusiness:
		return TripBusiness
	case TemplateCitybreak:
		return TripEvent
	case TemplateHiking:
		return TripWeekend
	default:
		return TripOther
	}
}

// ChecklistItem is a single to-do entry owned by a trip or a template.
type ChecklistItem struct {
	ID      uuid.UUID  `json:"id"`
	Title   string     `json:"title"`
	IsDone  bool       `json:"isDone"`
	DueDate *time.Time `json:"dueDate,omitempty"`
}

// NewChecklistItem returns an open item with a fresh id.
func NewChecklistItem(title string) ChecklistItem {
	return ChecklistItem{ID: uuid.New(), Title: title}
}

// IsOverdue reports whether the item has a due date before now and is still open.
func (c ChecklistItem) IsOverdue(now time.Time) bool {
	return c.DueDate != nil && !c.IsDone && c.DueDate.Before(now)
}

// DailyNote is a free-text note attached to one calendar day of a trip.
type DailyNote struct {
	ID   uuid.UUID `json:"id"`
	Date time.Time `json:"date"`
	Text string    `json:"text"`
}

// Trip is a planned journey with a date range, checklist and notes.
type Trip struct {
	ID         uuid.UUID       `json:"id"`
	Title      string          `json:"title"`
	Location   string          `json:"location"`
	StartDate  time.Time       `json:"startDate"`
	EndDate    time.Time       `json:"endDate"`
	Notes      string          `json:"notes"`
	Category   TripCategory    `json:"category"`
	Checklist  []ChecklistItem `json:"checklist"`
	DailyNotes []DailyNote     `json:"dailyNotes"`
	IsHidden   bool            `json:"isHidden"`
}

// NewTrip returns a trip with a fresh id and empty checklist and notes.
func NewTrip(title, location string, start, end time.Time, category TripCategory) Trip {
	if category == "" {
		category = TripOther
	}
	return Trip{
		ID:         uuid.New(),
		Title:      title,
		Location:   location,
		StartDate:  start,
		EndDate:    end,
		Category:   category,
		Checklist:  []ChecklistItem{},
		DailyNotes: []DailyNote{},
	}
}

// IsUpcoming reports whether the trip has not ended yet.
func (t Trip) IsUpcoming(now time.Time) bool {
	return !t.EndDate.Before(now)
}

// DoneCount returns the number of completed checklist items.
func (t Trip) DoneCount() int {
	done := 0
	for _, item := range t.Checklist {
		if item.IsDone {
			done++
		}
	}
	return done
}

// CompletionPercent returns the done fraction of the checklist in [0, 1].
func (t Trip) CompletionPercent() float64 {
	if len(t.Checklist) == 0 {
		return 0
	}
	return float64(t.DoneCount()) / float64(len(t.Checklist))
}

// AddChecklistItem appends an item and returns it.
func (t *Trip) AddChecklistItem(title string, due *time.Time) ChecklistItem {
	item := NewChecklistItem(title)
	item.DueDate = due
	t.Checklist = append(t.Checklist, item)
	return item
}

// ToggleItem flips the done state of the item with the given id.
func (t *Trip) ToggleItem(id uuid.UUID) (ChecklistItem, bool) {
	for i := range t.Checklist {
		if t.Checklist[i].ID == id {
			t.Checklist[i].IsDone = !t.Checklist[i].IsDone
			return t.Checklist[i], true
		}
	}
	return ChecklistItem{}, false
}

// RemoveChecklistItem deletes the item with the given id.
func (t *Trip) RemoveChecklistItem(id uuid.UUID) bool {
	for i := range t.Checklist {
		if t.Checklist[i].ID == id {
			t.Checklist = append(t.Checklist[:i], t.Checklist[i+1:]...)
			return true
		}
	}
	return false
}

// DailyNoteFor returns the text noted for the calendar day of day.
func (t Trip) DailyNoteFor(day time.Time) string {
	for _, n := range t.DailyNotes {
		if sameDay(n.Date, day) {
			return n.Text
		}
	}
	return ""
}

// SetDailyNote upserts the note for the calendar day of day. Notes left
// with blank text are pruned.
func (t *Trip) SetDailyNote(day time.Time, text string) {
	found := false
	for i := range t.DailyNotes {
		if sameDay(t.DailyNotes[i].Date, day) {
			t.DailyNotes[i].Text = text
			found = true
			break
		}
	}
	if !found && text != "" {
		t.DailyNotes = append(t.DailyNotes, DailyNote{ID: uuid.New(), Date: startOfDay(day), Text: text})
	}

	kept := t.DailyNotes[:0]
	for _, n := range t.DailyNotes {
		if strings.TrimSpace(n.Text) != "" {
			kept = append(kept, n)
		}
	}
	t.DailyNotes = kept
}

// Template is a reusable checklist blueprint. IsBuiltin is never read from
// or written to the user file; the store sets it at load time.
type Template struct {
	ID        uuid.UUID        `json:"id"`
	Title     string           `json:"title"`
	Category  TemplateCategory `json:"category"`
	Items     []ChecklistItem  `json:"items"`
	Notes     string           `json:"notes"`
	Emoji     *string          `json:"emoji,omitempty"`
	IsBuiltin bool             `json:"-"`
}

// ValidateTrip checks the fields the edit screens require before a trip is
// handed to the store.
func ValidateTrip(t Trip) error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("title is required: %w", ErrValidation)
	}
	if t.EndDate.Before(t.StartDate) {
		return fmt.Errorf("end date %s is before start date %s: %w",
			t.EndDate.Format(time.DateOnly), t.StartDate.Format(time.DateOnly), ErrValidation)
	}
	return nil
}

// Clone returns a copy of t that shares no slice or pointer storage with it.
func (t Trip) Clone() Trip {
	if t.Checklist != nil {
		t.Checklist = cloneItems(t.Checklist)
	}
	if t.DailyNotes != nil {
		notes := make([]DailyNote, len(t.DailyNotes))
		copy(notes, t.DailyNotes)
		t.DailyNotes = notes
	}
	return t
}

// Clone returns a copy of t that shares no slice or pointer storage with it.
func (t Template) Clone() Template {
	if t.Items != nil {
		t.Items = cloneItems(t.Items)
	}
	if t.Emoji != nil {
		emoji := *t.Emoji
		t.Emoji = &emoji
	}
	return t
}

func cloneItems(items []ChecklistItem) []ChecklistItem {
	out := make([]ChecklistItem, len(items))
	for i, item := range items {
		if item.DueDate != nil {
			due := *item.DueDate
			item.DueDate = &due
		}
		out[i] = item
	}
	return out
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
