// Package reminders turns trip store changes into reminder requests for a
// notification scheduler.
package reminders

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"toproad/pkg/store"
)

// Action is what a Request asks the scheduler to do.
type Action int

const (
	ActionSchedule Action = iota
	ActionCancel
	ActionCancelAll
)

func (a Action) String() string {
	switch a {
	case ActionSchedule:
		return "schedule"
	case ActionCancel:
		return "cancel"
	case ActionCancelAll:
		return "cancel-all"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Request is one scheduler instruction. FireAt, Title and Body are only set
// for ActionSchedule.
type Request struct {
	Action Action
	ID     string
	FireAt time.Time
	Title  string
	Body   string
}

// DefaultHour is the local hour at which trip reminders fire on the day
// before departure.
const DefaultHour = 10

// Planner computes reminder requests from trip changes. It has no side effects.
type Planner struct {
	hour int
	now  func() time.Time
}

// NewPlanner returns a planner firing trip reminders at hour (0-23) local time.
func NewPlanner(hour int, now func() time.Time) *Planner {
	if hour < 0 || hour > 23 {
		hour = DefaultHour
	}
	if now == nil {
		now = time.Now
	}
	return &Planner{hour: hour, now: now}
}

// TripReminderID is the scheduler id of a trip's departure reminder.
func TripReminderID(tripID uuid.UUID) string {
	return "trip-" + tripID.String()
}

// ChecklistReminderID is the scheduler id of a checklist item's due reminder.
func ChecklistReminderID(tripID, itemID uuid.UUID) string {
	return "check-" + tripID.String() + "-" + itemID.String()
}

// Plan returns the requests needed to bring the scheduler in line with c.
func (p *Planner) Plan(c store.TripChange) []Request {
	switch c.Kind {
	case store.ChangeAdded:
		return p.planTrip(nil, c.After)
	case store.ChangeUpdated:
		return p.planTrip(c.Before, c.After)
	case store.ChangeRemoved:
		return p.cancelTrip(c.Before)
	case store.ChangeReset:
		return []Request{{Action: ActionCancelAll}}
	default:
		return nil
	}
}

// TripFireAt returns when the departure reminder for trip fires.
func (p *Planner) TripFireAt(trip store.Trip) time.Time {
	d := trip.StartDate.Local().AddDate(0, 0, -1)
	return time.Date(d.Year(), d.Month(), d.Day(), p.hour, 0, 0, 0, time.Local)
}

func (p *Planner) planTrip(before, after *store.Trip) []Request {
	now := p.now()
	var reqs []Request

	tripID := TripReminderID(after.ID)
	if before != nil {
		reqs = append(reqs, Request{Action: ActionCancel, ID: tripID})
	}
	if fireAt := p.TripFireAt(*after); fireAt.After(now) {
		reqs = append(reqs, Request{
			Action: ActionSchedule,
			ID:     tripID,
			FireAt: fireAt,
			Title:  "Trip tomorrow",
			Body:   fmt.Sprintf("%s starts tomorrow", after.Title),
		})
	}

	kept := make(map[uuid.UUID]bool, len(after.Checklist))
	for _, item := range after.Checklist {
		kept[item.ID] = true
		id := ChecklistReminderID(after.ID, item.ID)
		if item.DueDate != nil && !item.IsDone && item.DueDate.After(now) {
			reqs = append(reqs, Request{
				Action: ActionSchedule,
				ID:     id,
				FireAt: *item.DueDate,
				Title:  "Checklist item due",
				Body:   fmt.Sprintf("%s (%s)", item.Title, after.Title),
			})
			continue
		}
		if before != nil && hadReminder(before, item.ID) {
			reqs = append(reqs, Request{Action: ActionCancel, ID: id})
		}
	}

	if before != nil {
		for _, item := range before.Checklist {
			if !kept[item.ID] && item.DueDate != nil {
				reqs = append(reqs, Request{Action: ActionCancel, ID: ChecklistReminderID(before.ID, item.ID)})
			}
		}
	}
	return reqs
}

func (p *Planner) cancelTrip(before *store.Trip) []Request {
	reqs := []Request{{Action: ActionCancel, ID: TripReminderID(before.ID)}}
	for _, item := range before.Checklist {
		if item.DueDate != nil {
			reqs = append(reqs, Request{Action: ActionCancel, ID: ChecklistReminderID(before.ID, item.ID)})
		}
	}
	return reqs
}

// hadReminder reports whether the item carried a due date in trip.
func hadReminder(trip *store.Trip, itemID uuid.UUID) bool {
	for _, item := range trip.Checklist {
		if item.ID == itemID {
			return item.DueDate != nil
		}
	}
	return false
}
