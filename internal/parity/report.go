package parity

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/samdwyer/nhparity/internal/entity"
	"github.com/samdwyer/nhparity/internal/snapshot"
)

// Process exit codes for a finished run.
const (
	ExitOK          = 0
	ExitDivergence  = 1
	ExitFault       = 2
	ExitUsage       = 3
	ExitInterrupted = 130
)

// Kind classifies how a run ended.
type Kind string

const (
	KindSuccess    Kind = "success"
	KindDivergence Kind = "divergence"
	KindFault      Kind = "fault"
)

// Divergence is the first turn on which the engines disagreed.
type Divergence struct {
	Turn      int                       `json:"turn"`
	Path      string                    `json:"path"`
	Severity  snapshot.Severity         `json:"severity"`
	Reference string                    `json:"reference"`
	Candidate string                    `json:"candidate"`
	Diffs     []snapshot.Difference     `json:"diffs,omitempty"`
	Trace     *snapshot.TraceDivergence `json:"trace,omitempty"`
}

func (d *Divergence) String() string {
	return fmt.Sprintf("turn %d: [%s] %s: reference=%s candidate=%s",
		d.Turn, d.Severity, d.Path, d.Reference, d.Candidate)
}

// Fault describes an engine that failed to answer.
type Fault struct {
	Engine string `json:"engine"`
	Phase  Phase  `json:"phase"`
	Turn   int    `json:"turn"`
	Error  string `json:"error"`
}

// TurnDiffs counts differences found on one turn.
type TurnDiffs struct {
	Turn     int `json:"turn"`
	Critical int `json:"critical"`
	Major    int `json:"major"`
	Minor    int `json:"minor"`
}

// Report is the outcome of one synchronized run.
type Report struct {
	RunID     string    `json:"run_id"`
	Seed      uint64    `json:"seed"`
	Reference string    `json:"reference"`
	Candidate string    `json:"candidate"`
	Kind      Kind      `json:"kind"`
	Turns     int       `json:"turns"`
	Started   time.Time `json:"started"`
	Finished  time.Time `json:"finished"`

	Divergence *Divergence `json:"divergence,omitempty"`
	Fault      *Fault      `json:"fault,omitempty"`

	Critical          int         `json:"critical"`
	Major             int         `json:"major"`
	Minor             int         `json:"minor"`
	TurnsWithDiffs    int         `json:"turns_with_diffs"`
	FirstCriticalTurn int         `json:"first_critical_turn,omitempty"`
	TurnDiffs         []TurnDiffs `json:"turn_diffs,omitempty"`
}

// ExitCode maps the report kind to a process exit code.
func (r Report) ExitCode() int {
	switch r.Kind {
	case KindSuccess:
		return ExitOK
	case KindDivergence:
		return ExitDivergence
	default:
		return ExitFault
	}
}

// Summary renders a one-line description of the run.
func (r Report) Summary() string {
	switch r.Kind {
	case KindDivergence:
		return fmt.Sprintf("divergence after %d turns: %s", r.Turns, r.Divergence)
	case KindFault:
		return fmt.Sprintf("fault after %d turns: %s engine %s: %s", r.Turns, r.Fault.Engine, r.Fault.Phase, r.Fault.Error)
	default:
		return fmt.Sprintf("%d turns in agreement", r.Turns)
	}
}

// record folds one turn's differences into the convergence counters.
func (r *Report) record(turn int, diffs []snapshot.Difference) {
	if len(diffs) == 0 {
		return
	}
	c, ma, mi := snapshot.Counts(diffs)
	r.Critical += c
	r.Major += ma
	r.Minor += mi
	r.TurnsWithDiffs++
	if c > 0 && r.FirstCriticalTurn == 0 {
		r.FirstCriticalTurn = turn
	}
	r.TurnDiffs = append(r.TurnDiffs, TurnDiffs{Turn: turn, Critical: c, Major: ma, Minor: mi})
}

// Replay is a recorded seed and command sequence that reproduces a run.
type Replay struct {
	Seed     uint64           `json:"seed"`
	Commands []entity.Command `json:"commands"`
}

// LoadReplay reads a replay file.
func LoadReplay(path string) (Replay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Replay{}, fmt.Errorf("parity: read replay: %w", err)
	}
	var r Replay
	if err := json.Unmarshal(data, &r); err != nil {
		return Replay{}, fmt.Errorf("parity: parse replay %s: %w", path, err)
	}
	return r, nil
}

// Save writes the replay as indented JSON.
func (r Replay) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
