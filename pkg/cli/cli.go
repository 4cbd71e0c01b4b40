package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"toproad/pkg/commands"
)

// Args represents parsed command line arguments
type Args struct {
	ConfigPath string
	Verbose    bool

	// Trip operations
	AddTrip      string
	LocationFlag string
	StartFlag    string
	EndFlag      string
	CategoryFlag string
	TemplateFlag string
	HiddenFlag   bool
	List         bool
	Stats        bool

	// Template import/export
	ImportFile string
	ExportFile string

	// Maintenance
	ResetTarget string
	YesFlag     bool
	LockAction  string
	PinFlag     string
}

// ParseArgs parses command line arguments and returns Args struct
func ParseArgs(fs *flag.FlagSet, arguments []string) (*Args, error) {
	args := &Args{}

	fs.StringVar(&args.ConfigPath, "config", "", "Path to configuration file")
	fs.BoolVar(&args.Verbose, "verbose", false, "Enable verbose logging")

	fs.StringVar(&args.AddTrip, "add", "", "Add a trip with the given title")
	fs.StringVar(&args.LocationFlag, "location", "", "Trip location")
	fs.StringVar(&args.StartFlag, "start", "", "Trip start date (YYYY-MM-DD, default today)")
	fs.StringVar(&args.EndFlag, "end", "", "Trip end date (YYYY-MM-DD, default start)")
	fs.StringVar(&args.CategoryFlag, "category", "", "Trip category (vacation, business, weekend, event, other)")
	fs.StringVar(&args.TemplateFlag, "template", "", "Create the trip from the template with this title")
	fs.BoolVar(&args.HiddenFlag, "hidden", false, "Hide the trip behind the PIN lock")
	fs.BoolVar(&args.List, "list", false, "List trips")
	fs.BoolVar(&args.Stats, "stats", false, "Show trip statistics")

	fs.StringVar(&args.ImportFile, "import", "", "Import templates from a JSON file")
	fs.StringVar(&args.ExportFile, "export", "", "Export your templates to a JSON file")

	fs.StringVar(&args.ResetTarget, "reset", "", "Delete all trips or restore default templates (trips, templates)")
	fs.BoolVar(&args.YesFlag, "yes", false, "Skip confirmation")
	fs.StringVar(&args.LockAction, "lock", "", "PIN lock action (enable, disable, clear)")
	fs.StringVar(&args.PinFlag, "pin", "", "PIN for -lock, or to show hidden trips with -list")

	if err := fs.Parse(arguments); err != nil {
		return nil, err
	}
	return args, nil
}

// HandleCommands processes CLI commands and returns true if a command was handled
func HandleCommands(ctx context.Context, env commands.Env, args *Args) (bool, error) {
	switch {
	case args.AddTrip != "":
		return true, commands.HandleAddTrip(ctx, env, commands.AddOptions{
			Title:    args.AddTrip,
			Location: args.LocationFlag,
			Start:    args.StartFlag,
			End:      args.EndFlag,
			Category: args.CategoryFlag,
			Template: args.TemplateFlag,
			Hidden:   args.HiddenFlag,
		})

	case args.List:
		if args.PinFlag != "" && env.Gate != nil {
			if err := env.Gate.Unlock(args.PinFlag); err != nil {
				return true, err
			}
		}
		return true, commands.HandleListCommand(env)

	case args.Stats:
		return true, commands.HandleStatsCommand(env)

	case args.ImportFile != "":
		return true, commands.HandleImportCommand(env, args.ImportFile)

	case args.ExportFile != "":
		return true, commands.HandleExportCommand(env, args.ExportFile)

	case args.ResetTarget != "":
		return true, commands.HandleResetCommand(ctx, env, args.ResetTarget, args.YesFlag)

	case args.LockAction != "":
		return true, commands.HandleLockCommand(env, args.LockAction, args.PinFlag)
	}

	// No CLI command was handled
	return false, nil
}

// Usage prints a short synopsis and the flag defaults to w. Without a
// command flag the interactive UI starts.
func Usage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, "Usage: %s [flags]\n\nRun without a command flag to open the interactive UI.\n\nFlags:\n", fs.Name())
	fs.SetOutput(w)
	fs.PrintDefaults()
}
