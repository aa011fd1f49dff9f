package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"runtime/debug"

	fyneapp "fyne.io/fyne/v2/app"
	cli "github.com/urfave/cli/v3"

	"github.com/shhac/coordinator/internal/app"
	"github.com/shhac/coordinator/internal/logging"
	"github.com/shhac/coordinator/internal/ui"
)

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:            "coordinator",
		Usage:           "collapsing header demo driven by nested scrolling",
		Version:         ui.Version + " (" + runtime.Version() + ")",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "enable debug logging"},
			&cli.StringFlag{Name: "storage", Usage: "snapshot storage `BACKEND` (json, diskv, preferences, memory)"},
			&cli.StringFlag{Name: "log-file", Usage: "write logs to `FILE` instead of the platform log directory"},
			&cli.StringFlag{Name: "codec", Usage: "diskv snapshot `ENCODING` (proto, json)"},
			&cli.StringFlag{Name: "storage-path", Usage: "store snapshots under `DIR`"},
			&cli.StringFlag{Name: "state-key", Usage: "restore and save the header state under `KEY`"},
			&cli.DurationFlag{Name: "duration", Usage: "programmatic collapse/expand `DURATION`"},
			&cli.StringFlag{Name: "curve", Usage: "animation `CURVE` (linear, ease-in, ease-out, ease-in-out)"},
		},
		Action: runApp,
	}
}

// loadConfig layers defaults, the optional config file, the environment and
// finally explicitly set flags.
func loadConfig(cmd *cli.Command) (*app.Config, error) {
	cfg := app.ConfigFromEnv()
	if path := cmd.String("config"); path != "" {
		var err error
		if cfg, err = app.LoadConfigFile(path); err != nil {
			return nil, err
		}
	}

	if cmd.IsSet("debug") {
		cfg.Debug = cmd.Bool("debug")
	}
	if cmd.IsSet("storage") {
		cfg.Storage = cmd.String("storage")
	}
	if cmd.IsSet("log-file") {
		cfg.LogFile = cmd.String("log-file")
	}
	if cmd.IsSet("codec") {
		cfg.Codec = cmd.String("codec")
	}
	if cmd.IsSet("storage-path") {
		cfg.StoragePath = cmd.String("storage-path")
	}
	if cmd.IsSet("state-key") {
		cfg.StateKey = cmd.String("state-key")
	}
	if cmd.IsSet("duration") {
		cfg.Animation.Duration = cmd.Duration("duration")
	}
	if cmd.IsSet("curve") {
		cfg.Animation.Curve = cmd.String("curve")
	}
	return cfg, nil
}

// runApp is the main application entry point with panic recovery.
func runApp(_ context.Context, cmd *cli.Command) (err error) {
	// Console logger for bootstrap errors, before the file logger exists
	tempLogger := logging.NewConsoleLogger(os.Stdout, cmd.Bool("debug"))

	defer func() {
		if r := recover(); r != nil {
			tempLogger.Error("panic recovered",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	tempLogger.Info("starting coordinator demo")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	fyneApp := fyneapp.NewWithID("com.shhac.coordinator")

	coordApp, err := app.New(fyneApp, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	mainWindow := ui.NewMainWindow(coordApp.FyneApp(), coordApp)

	// Run the application (blocking)
	coordApp.Run(mainWindow.Window())

	coordApp.Logger().Info("application shutdown complete")
	return nil
}
