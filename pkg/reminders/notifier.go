package reminders

import (
	"context"
	"log/slog"

	"toproad/pkg/store"
)

// Scheduler delivers reminders. Implementations live outside the core.
type Scheduler interface {
	Schedule(ctx context.Context, req Request) error
	Cancel(ctx context.Context, id string) error
	CancelAll(ctx context.Context) error
}

// Notifier applies planned requests to a Scheduler. Scheduler failures are
// logged and never returned: reminders are not part of the store mutation.
type Notifier struct {
	planner   *Planner
	scheduler Scheduler
}

// NewNotifier wires a planner to a scheduler.
func NewNotifier(planner *Planner, scheduler Scheduler) *Notifier {
	return &Notifier{planner: planner, scheduler: scheduler}
}

// Apply plans c and hands every request to the scheduler.
func (n *Notifier) Apply(ctx context.Context, c store.TripChange) {
	for _, req := range n.planner.Plan(c) {
		var err error
		switch req.Action {
		case ActionSchedule:
			err = n.scheduler.Schedule(ctx, req)
		case ActionCancel:
			err = n.scheduler.Cancel(ctx, req.ID)
		case ActionCancelAll:
			err = n.scheduler.CancelAll(ctx)
		}
		if err != nil {
			slog.Warn("Reminder request failed", "action", req.Action, "id", req.ID, "error", err)
		}
	}
}

// LogScheduler records requests in the log instead of delivering them.
type LogScheduler struct {
	Logger *slog.Logger
}

func (l LogScheduler) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}

func (l LogScheduler) Schedule(ctx context.Context, req Request) error {
	l.logger().InfoContext(ctx, "Reminder scheduled", "id", req.ID, "fire_at", req.FireAt, "title", req.Title, "body", req.Body)
	return nil
}

func (l LogScheduler) Cancel(ctx context.Context, id string) error {
	l.logger().InfoContext(ctx, "Reminder cancelled", "id", id)
	return nil
}

func (l LogScheduler) CancelAll(ctx context.Context) error {
	l.logger().InfoContext(ctx, "All reminders cancelled")
	return nil
}
