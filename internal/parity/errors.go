package parity

import (
	"errors"
	"fmt"
)

// Sentinel causes of an implementation fault.
var (
	ErrEngineCrashed     = errors.New("engine crashed")
	ErrEngineTimeout     = errors.New("engine timed out")
	ErrMalformedSnapshot = errors.New("malformed snapshot")
	ErrProtocol          = errors.New("protocol error")
)

// Phase names the harness step during which an engine failed.
type Phase string

const (
	PhaseStart Phase = "start"
	PhaseReset Phase = "reset"
	PhaseStep  Phase = "step"
	PhaseClose Phase = "close"
)

// FaultError reports an engine that failed to answer rather than one
// that answered differently.
type FaultError struct {
	Engine string
	Phase  Phase
	Turn   int
	Err    error
}

func (e *FaultError) Error() string {
	if e.Phase == PhaseStep {
		return fmt.Sprintf("parity: %s engine fault during %s of turn %d: %v", e.Engine, e.Phase, e.Turn, e.Err)
	}
	return fmt.Sprintf("parity: %s engine fault during %s: %v", e.Engine, e.Phase, e.Err)
}

func (e *FaultError) Unwrap() error {
	return e.Err
}

func fault(engine string, phase Phase, turn int, err error) error {
	var fe *FaultError
	if errors.As(err, &fe) {
		return err
	}
	return &FaultError{Engine: engine, Phase: phase, Turn: turn, Err: err}
}
