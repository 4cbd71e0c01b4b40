package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"toproad/pkg/store"
)

// AddOptions are the inputs of the -add command.
type AddOptions struct {
	Title    string
	Location string
	Start    string
	End      string
	Category string
	Template string
	Hidden   bool
}

// HandleAddTrip processes the -add command
func HandleAddTrip(ctx context.Context, env Env, opts AddOptions) error {
	start := startOfToday()
	if opts.Start != "" {
		var err error
		if start, err = ParseDate(opts.Start); err != nil {
			return err
		}
	}
	end := start
	if opts.End != "" {
		var err error
		if end, err = ParseDate(opts.End); err != nil {
			return err
		}
	}

	var override *store.TripCategory
	if opts.Category != "" {
		c, err := store.ParseTripCategory(opts.Category)
		if err != nil {
			return err
		}
		override = &c
	}

	var trip store.Trip
	if opts.Template != "" {
		tpl, err := findTemplate(env.Templates, opts.Template)
		if err != nil {
			return err
		}
		trip = env.Templates.MakeTrip(tpl, opts.Title, opts.Location, start, end, override)
	} else {
		category := store.TripOther
		if override != nil {
			category = *override
		}
		trip = store.NewTrip(opts.Title, opts.Location, start, end, category)
	}
	trip.IsHidden = opts.Hidden

	if err := store.ValidateTrip(trip); err != nil {
		return err
	}

	change, err := env.Trips.Add(trip)
	env.notify(ctx, change)
	if err != nil {
		return err
	}

	env.printf("Added trip %q (%s to %s, %d checklist items)\n",
		trip.Title, trip.StartDate.Format(dateLayout), trip.EndDate.Format(dateLayout), len(trip.Checklist))
	return nil
}

// findTemplate looks a template up by title, ignoring case.
func findTemplate(templates *store.TemplateStore, title string) (store.Template, error) {
	for _, t := range templates.All() {
		if strings.EqualFold(t.Title, strings.TrimSpace(title)) {
			return t, nil
		}
	}
	return store.Template{}, fmt.Errorf("template %q: %w", title, store.ErrNotFound)
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
}
