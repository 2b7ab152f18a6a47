package main

import (
	"context"
	"fmt"
	"io"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/samdwyer/nhparity/internal/config"
	"github.com/samdwyer/nhparity/internal/entity"
	"github.com/samdwyer/nhparity/internal/game"
	"github.com/samdwyer/nhparity/internal/logger"
	"github.com/samdwyer/nhparity/internal/parity"
	"github.com/samdwyer/nhparity/internal/storage"
	"github.com/samdwyer/nhparity/internal/telemetry"
)

// app holds what every command needs once flags are parsed.
var app struct {
	cfg       config.Config
	log       *clog.Logger
	logCloser io.Closer
	shutdown  func(context.Context) error
}

// setup loads configuration and starts logging and telemetry.
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return usageError(err)
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
		if err := cfg.Validate(); err != nil {
			return usageError(err)
		}
	}
	app.cfg = cfg

	l, closer, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Prefix:     "nhparity",
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return usageError(err)
	}
	app.log, app.logCloser = l, closer
	app.log.Debug("configuration loaded", "source", cfg.Source, "command", cmd.Name())

	shutdown, err := telemetry.Setup(cmd.Context(), telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		ServiceName: cfg.Telemetry.ServiceName,
		SampleRatio: cfg.Telemetry.SampleRatio,
	})
	if err != nil {
		// Continue without telemetry
		app.log.Warn("telemetry setup failed, running without observability", "err", err)
		return nil
	}
	app.shutdown = shutdown
	return nil
}

// teardown flushes telemetry and closes the log file.
func teardown() {
	if app.shutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.shutdown(ctx); err != nil {
			app.log.Error("telemetry shutdown failed", "err", err)
		}
	}
	if app.logCloser != nil {
		app.logCloser.Close()
	}
}

// gameConfig fills a game configuration from the generation settings.
func gameConfig(seed uint64, trace bool) game.Config {
	g := app.cfg.Generation
	cfg := game.Config{
		Seed:        seed,
		Role:        g.Role,
		Race:        g.Race,
		Depth:       g.Depth,
		MaxAttempts: g.MaxAttempts,
	}
	if trace {
		cfg.TraceCapacity = app.cfg.Harness.TraceCapacity
	}
	return cfg
}

// newEngine builds an engine from its configuration.
func newEngine(ec config.EngineConfig, trace bool) parity.Engine {
	if ec.InProcess() {
		return parity.NewLocalEngine(ec.Name, gameConfig(0, trace), trace)
	}
	return parity.NewSubprocessEngine(ec.Name, ec.Command, ec.Args...)
}

// commandFlags selects the command sequence a command plays.
type commandFlags struct {
	commands string
	replay   string
	script   int
}

func (f *commandFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.commands, "commands", "", `Comma separated commands, e.g. "l,l,search:3,>"`)
	cmd.Flags().StringVar(&f.replay, "replay", "", "Replay file with seed and commands")
	cmd.Flags().IntVar(&f.script, "script", 0, "Play N scripted commands derived from the seed")
}

// resolve returns the seed and commands to play. A replay file supplies
// both; otherwise explicit commands win over a script.
func (f *commandFlags) resolve(seed uint64) (uint64, []entity.Command, error) {
	if f.replay != "" {
		r, err := parity.LoadReplay(f.replay)
		if err != nil {
			return 0, nil, usageError(err)
		}
		return r.Seed, r.Commands, nil
	}
	if f.commands != "" {
		cmds, err := entity.ParseCommands(f.commands)
		if err != nil {
			return 0, nil, usageError(err)
		}
		return seed, cmds, nil
	}
	return seed, parity.ScriptCommands(seed, f.script), nil
}

// openStore opens the run database, or returns nil when storage is off.
func openStore() (*storage.Store, error) {
	if !app.cfg.Storage.Enabled {
		return nil, nil
	}
	store, err := storage.Open(app.cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open run database: %w", err)
	}
	return store, nil
}
