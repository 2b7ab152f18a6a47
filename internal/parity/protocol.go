package parity

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/samdwyer/nhparity/internal/entity"
	"github.com/samdwyer/nhparity/internal/rng"
)

// Engine protocol operations. Each request is one JSON object per line on
// the engine's stdin and is answered by one JSON object per line on its
// stdout.
const (
	OpReset = "reset"
	OpStep  = "step"
	OpQuit  = "quit"
)

// maxLine bounds a single protocol message. A full level snapshot is a
// few tens of kilobytes; traces can be much larger.
const maxLine = 64 << 20

// Request is one harness-to-engine message.
type Request struct {
	Op      string          `json:"op"`
	Seed    uint64          `json:"seed,omitempty"`
	Command *entity.Command `json:"command,omitempty"`
}

// Response is one engine-to-harness message. State stays raw so the
// harness can validate it separately from the envelope.
type Response struct {
	State json.RawMessage  `json:"state,omitempty"`
	Trace []rng.TraceEntry `json:"trace,omitempty"`
	Error string           `json:"error,omitempty"`
}

// Serve answers protocol requests from r on w using engine until a quit
// request, end of input or ctx is done. Engine errors are reported to the
// peer in the response and do not stop the loop.
func Serve(ctx context.Context, r io.Reader, w io.Writer, engine Engine) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	enc := json.NewEncoder(w)

	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			if err := enc.Encode(Response{Error: fmt.Sprintf("bad request: %v", err)}); err != nil {
				return err
			}
			continue
		}
		if req.Op == OpQuit {
			return nil
		}

		resp := handle(ctx, engine, req)
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("parity: write response: %w", err)
		}
	}
	if err := sc.Err(); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parity: read request: %w", err)
	}
	return nil
}

func handle(ctx context.Context, engine Engine, req Request) Response {
	var (
		obs Observation
		err error
	)
	switch req.Op {
	case OpReset:
		obs, err = engine.Reset(ctx, req.Seed)
	case OpStep:
		if req.Command == nil {
			return Response{Error: "step without command"}
		}
		obs, err = engine.Step(ctx, *req.Command)
	default:
		return Response{Error: fmt.Sprintf("unknown op %q", req.Op)}
	}
	if err != nil {
		return Response{Error: err.Error()}
	}

	state, err := json.Marshal(obs.State)
	if err != nil {
		return Response{Error: err.Error()}
	}
	return Response{State: state, Trace: obs.Trace}
}
