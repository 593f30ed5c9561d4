// neviraller installs Neovim nightly and the NEVIRAIDE configuration from
// a terminal UI.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"

	"neviraller/internal/app"
	"neviraller/internal/bus"
	"neviraller/internal/component"
	"neviraller/internal/config"
	"neviraller/internal/installer"
	"neviraller/internal/logging"
	"neviraller/internal/task"
	"neviraller/internal/telemetry"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "neviraller: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flagSet := pflag.NewFlagSet("neviraller", pflag.ContinueOnError)
	config.AddFlags(flagSet)
	flagSet.BoolP("version", "V", false, "print version and exit")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if v, _ := flagSet.GetBool("version"); v {
		fmt.Println("neviraller", version)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	cfg, err := config.Load(flagSet)
	if err != nil {
		return err
	}
	if p, ok := cfg.ColorProfile(); ok {
		lipgloss.SetColorProfile(p)
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	loggers, err := logging.Open(logging.Options{File: cfg.Log.File, Level: level, UILevel: slog.LevelWarn})
	if err != nil {
		return err
	}
	defer loggers.Close()

	ctx := context.Background()
	tp, err := telemetry.New(ctx, version)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			loggers.File.Warn("telemetry shutdown", "error", err)
		}
	}()

	actions := bus.New()
	loggers.Actions.SetSink(actions)

	model, err := app.New(cfg, actions, component.Default(),
		app.WithPlanner(installer.NewPlanner(cfg, installer.WithLogger(loggers.Logger))),
		app.WithRunner(task.NewRunner(
			task.WithTracer(tp.Tracer()),
			task.WithLogger(loggers.File),
			task.WithStepTimeout(cfg.StepTimeout),
		)),
		app.WithLogger(loggers.File),
	)
	if err != nil {
		return err
	}

	loggers.File.Info("starting",
		"version", version,
		"config", cfg.File,
		"tick_rate", cfg.TickRate,
		"frame_rate", cfg.FrameRate,
		"tracing", tp.Enabled(),
	)
	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithFPS(int(math.Ceil(cfg.FrameRate))),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	return nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `neviraller installs Neovim nightly and the NEVIRAIDE configuration.

Settings come from the built-in defaults, then the configuration file
($XDG_CONFIG_HOME/neviraller/config.yaml, NEVIRALLER_CONFIG or --config),
then NEVIRALLER_* environment variables, then flags.

Usage:
  neviraller [flags]

Examples:
  # Tick twice a second and redraw ten times a second
  neviraller --tick-rate 2 --frame-rate 10

  # Use custom keybindings
  neviraller --config ~/neviraller.yaml

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
