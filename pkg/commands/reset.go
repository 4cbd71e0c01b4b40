package commands

import (
	"context"
	"fmt"
)

// HandleResetCommand processes -reset trips|templates
func HandleResetCommand(ctx context.Context, env Env, target string, skipConfirm bool) error {
	var question string
	switch target {
	case "trips":
		question = "Delete all trips?"
	case "templates":
		question = "Delete all your templates and restore the defaults?"
	default:
		return fmt.Errorf("unknown reset target: %s (use trips or templates)", target)
	}

	if !skipConfirm && !env.confirm(question) {
		env.printf("Operation cancelled.\n")
		return nil
	}

	switch target {
	case "trips":
		n := env.Trips.TotalTrips()
		change, err := env.Trips.ResetAll()
		env.notify(ctx, change)
		if err != nil {
			return err
		}
		env.printf("Deleted %d trip(s)\n", n)
	case "templates":
		if err := env.Templates.ResetToDefaults(); err != nil {
			return err
		}
		env.printf("Templates restored to defaults\n")
	}
	return nil
}
