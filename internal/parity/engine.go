// Package parity drives a reference and a candidate engine through the
// same seed and commands in lockstep and reports where they part ways.
package parity

import (
	"context"
	"errors"
	"fmt"

	"github.com/samdwyer/nhparity/internal/entity"
	"github.com/samdwyer/nhparity/internal/game"
	"github.com/samdwyer/nhparity/internal/rng"
	"github.com/samdwyer/nhparity/internal/snapshot"
)

// Observation is what an engine reports after a reset or a step: the
// resulting state and, when tracing, the draws made since the last
// observation.
type Observation struct {
	State snapshot.State   `json:"state"`
	Trace []rng.TraceEntry `json:"trace,omitempty"`
}

// Engine is one implementation under comparison.
type Engine interface {
	// Name identifies the engine in reports.
	Name() string
	// Reset starts a fresh game from seed.
	Reset(ctx context.Context, seed uint64) (Observation, error)
	// Step applies one command. Once the game has ended it keeps
	// reporting the final state.
	Step(ctx context.Context, cmd entity.Command) (Observation, error)
	// Close releases the engine.
	Close() error
}

// LocalEngine runs the in-process game kernel.
type LocalEngine struct {
	name  string
	cfg   game.Config
	trace bool
	game  *game.Context
}

// NewLocalEngine returns an engine playing games configured by cfg. The
// seed is replaced on every Reset. With trace set every observation
// carries the draws made since the previous one.
func NewLocalEngine(name string, cfg game.Config, trace bool) *LocalEngine {
	if trace && cfg.TraceCapacity <= 0 {
		cfg.TraceCapacity = rng.DefaultTraceCapacity
	}
	if !trace {
		cfg.TraceCapacity = 0
	}
	return &LocalEngine{name: name, cfg: cfg, trace: trace}
}

// Name returns the engine name.
func (e *LocalEngine) Name() string {
	return e.name
}

// Reset discards any running game and starts a new one.
func (e *LocalEngine) Reset(ctx context.Context, seed uint64) (Observation, error) {
	cfg := e.cfg
	cfg.Seed = seed
	g, err := game.New(ctx, cfg, nil)
	if err != nil {
		return Observation{}, err
	}
	e.game = g
	return e.observe(), nil
}

// Step advances the running game by one command.
func (e *LocalEngine) Step(ctx context.Context, cmd entity.Command) (Observation, error) {
	if e.game == nil {
		return Observation{}, fmt.Errorf("parity: %w: step before reset", ErrProtocol)
	}
	if _, err := e.game.Step(ctx, cmd); err != nil && !errors.Is(err, game.ErrGameOver) {
		return Observation{}, err
	}
	return e.observe(), nil
}

// Game returns the running game, or nil before the first Reset.
func (e *LocalEngine) Game() *game.Context {
	return e.game
}

// Close drops the running game.
func (e *LocalEngine) Close() error {
	e.game = nil
	return nil
}

func (e *LocalEngine) observe() Observation {
	obs := Observation{State: snapshot.Capture(e.game)}
	if e.trace {
		core := e.game.CoreStream()
		obs.Trace = core.Trace()
		core.ResetTrace()
	}
	return obs
}
