package parity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/samdwyer/nhparity/internal/entity"
	"github.com/samdwyer/nhparity/internal/rng"
	"github.com/samdwyer/nhparity/internal/snapshot"
	"github.com/samdwyer/nhparity/internal/telemetry"
)

// Options controls a synchronized run.
type Options struct {
	// Trace compares the draw traces of every turn as well as the states.
	Trace bool
	// TurnTimeout bounds how long either engine may take to answer one
	// request; zero waits indefinitely.
	TurnTimeout time.Duration
	// ContinueOnDivergence keeps stepping after the first divergence so
	// the convergence counters cover the whole command sequence.
	ContinueOnDivergence bool
	Logger               *log.Logger
}

// Harness runs a reference and a candidate engine in lockstep.
type Harness struct {
	ref, cand Engine
	opts      Options
	log       *log.Logger
}

// NewHarness pairs two engines.
func NewHarness(ref, cand Engine, opts Options) *Harness {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Harness{ref: ref, cand: cand, opts: opts, log: logger}
}

// RunSynchronized resets both engines with seed and feeds them commands
// one turn at a time. Divergences and engine faults are reported in the
// returned Report. The error is non-nil only when ctx was cancelled, which
// is honoured between turns.
func (h *Harness) RunSynchronized(ctx context.Context, seed uint64, commands []entity.Command) (Report, error) {
	tracer := telemetry.Tracer("parity")
	ctx, span := tracer.Start(ctx, "parity.run")
	defer span.End()

	report := Report{
		RunID:     uuid.NewString(),
		Seed:      seed,
		Reference: h.ref.Name(),
		Candidate: h.cand.Name(),
		Started:   time.Now(),
	}
	span.SetAttributes(
		attribute.String("run.id", report.RunID),
		attribute.Int64("seed", int64(seed)),
		attribute.Int("commands", len(commands)),
	)
	logger := h.log.With("run", report.RunID, "seed", seed)
	logger.Info("run started", "reference", report.Reference, "candidate", report.Candidate, "commands", len(commands))

	finish := func(err error) (Report, error) {
		report.Finished = time.Now()
		var fe *FaultError
		switch {
		case errors.As(err, &fe):
			report.Kind = KindFault
			report.Fault = &Fault{Engine: fe.Engine, Phase: fe.Phase, Turn: fe.Turn, Error: fe.Err.Error()}
			logger.Error("engine fault", "engine", fe.Engine, "phase", fe.Phase, "turn", fe.Turn, "err", fe.Err)
			telemetry.Fail(span, err)
			err = nil
		case err != nil:
			logger.Warn("run cancelled", "turns", report.Turns, "err", err)
			telemetry.Fail(span, err)
		case report.Divergence != nil:
			report.Kind = KindDivergence
			logger.Warn("run diverged", "turn", report.Divergence.Turn, "path", report.Divergence.Path,
				"severity", report.Divergence.Severity)
		default:
			report.Kind = KindSuccess
			logger.Info("run agreed", "turns", report.Turns)
		}
		span.SetAttributes(
			attribute.String("kind", string(report.Kind)),
			attribute.Int("turns", report.Turns),
		)
		return report, err
	}

	ref, cand, err := h.both(ctx, PhaseReset, 0, func(ctx context.Context, e Engine) (Observation, error) {
		return e.Reset(ctx, seed)
	})
	if err != nil {
		return finish(err)
	}
	if h.compare(&report, 0, ref, cand) && !h.opts.ContinueOnDivergence {
		return finish(nil)
	}

	for i, cmd := range commands {
		if err := ctx.Err(); err != nil {
			return finish(err)
		}
		if ref.State.Terminal() {
			logger.Debug("reference game over", "turns", report.Turns, "outcome", ref.State.Outcome)
			break
		}

		turn := i + 1
		ref, cand, err = h.both(ctx, PhaseStep, turn, func(ctx context.Context, e Engine) (Observation, error) {
			return e.Step(ctx, cmd)
		})
		if err != nil {
			return finish(err)
		}
		report.Turns = turn
		if h.compare(&report, turn, ref, cand) && !h.opts.ContinueOnDivergence {
			break
		}
	}
	return finish(nil)
}

// both sends one request to the two engines in parallel and waits for
// both answers. The parent's cancellation does not reach an in-flight
// request; only the turn timeout does.
func (h *Harness) both(ctx context.Context, phase Phase, turn int, fn func(context.Context, Engine) (Observation, error)) (ref, cand Observation, err error) {
	ctx = context.WithoutCancel(ctx)
	if h.opts.TurnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opts.TurnTimeout)
		defer cancel()
	}

	g, gctx := errgroup.WithContext(ctx)
	run := func(e Engine, out *Observation) func() error {
		return func() error {
			obs, err := fn(gctx, e)
			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) {
					err = fmt.Errorf("%w: %v", ErrEngineTimeout, err)
				}
				return fault(e.Name(), phase, turn, err)
			}
			*out = obs
			return nil
		}
	}
	g.Go(run(h.ref, &ref))
	g.Go(run(h.cand, &cand))
	err = g.Wait()
	return ref, cand, err
}

// compare diffs one turn's observations into the report and reports
// whether they disagreed. Only the first disagreement becomes the
// report's Divergence.
func (h *Harness) compare(report *Report, turn int, ref, cand Observation) bool {
	diffs := snapshot.Diff(ref.State, cand.State)
	var td *snapshot.TraceDivergence
	if h.opts.Trace {
		td = snapshot.CompareTraces(ref.Trace, cand.Trace)
	}
	report.record(turn, diffs)
	if len(diffs) == 0 && td == nil {
		return false
	}

	for _, d := range diffs {
		h.log.Debug("difference", "turn", turn, "path", d.Path, "severity", d.Severity,
			"reference", d.Reference, "candidate", d.Candidate)
	}
	if report.Divergence != nil {
		return true
	}

	div := &Divergence{Turn: turn, Diffs: diffs, Trace: td}
	if len(diffs) > 0 {
		first := diffs[0]
		div.Path = first.Path
		div.Severity = first.Severity
		div.Reference = first.Reference
		div.Candidate = first.Candidate
	} else {
		div.Path = "rng.trace"
		div.Severity = snapshot.Critical
		div.Reference = drawAt(ref.Trace, td.Index)
		div.Candidate = drawAt(cand.Trace, td.Index)
	}
	report.Divergence = div
	return true
}

func drawAt(trace []rng.TraceEntry, i int) string {
	if i >= len(trace) {
		return "<none>"
	}
	e := trace[i]
	return fmt.Sprintf("%s(%d)=%d", e.Kind, e.Arg, e.Result)
}
