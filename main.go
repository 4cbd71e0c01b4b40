package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"toproad/pkg/cli"
	"toproad/pkg/commands"
	"toproad/pkg/config"
	"toproad/pkg/passcode"
	"toproad/pkg/reminders"
	"toproad/pkg/store"
	"toproad/pkg/ui"
	"toproad/pkg/utils"
)

func main() {
	fs := flag.NewFlagSet("toproad", flag.ExitOnError)
	fs.Usage = func() { cli.Usage(fs, os.Stderr) }
	args, err := cli.ParseArgs(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	cfg, styles, err := config.Load(args.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if path := utils.InitLogger(args.Verbose, cfg.LogLevel); path != "" {
		fmt.Fprintf(os.Stderr, "Logging to %s\n", path)
	}
	defer utils.CloseLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dir := store.Dir(cfg.DataDir)
	lock := passcode.NewManager(passcode.NewKeyringStore(cfg.KeyringService))
	env := commands.Env{
		Trips:     store.NewTripStore(dir),
		Templates: store.NewTemplateStore(dir),
		Notifier:  reminders.NewNotifier(reminders.NewPlanner(cfg.ReminderHour, nil), reminders.LogScheduler{}),
		Lock:      lock,
		Gate:      passcode.NewGate(lock),
		In:        os.Stdin,
		Out:       os.Stdout,
	}

	handled, err := cli.HandleCommands(ctx, env, args)
	if err != nil {
		slog.Error("Command failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if handled {
		return
	}

	// Create and run the Bubble Tea program
	model := ui.NewModel(ui.Deps{
		Trips:     env.Trips,
		Templates: env.Templates,
		Notifier:  env.Notifier,
		Gate:      env.Gate,
	}, cfg, styles)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
