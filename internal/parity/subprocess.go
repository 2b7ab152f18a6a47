package parity

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/samdwyer/nhparity/internal/entity"
	"github.com/samdwyer/nhparity/internal/snapshot"
)

const (
	closeGrace = 2 * time.Second
	stderrTail = 4096
)

// SubprocessEngine drives an engine running in a child process over the
// JSON-lines protocol answered by Serve. The process is started on the
// first Reset. Once it times out or dies the engine stays broken.
type SubprocessEngine struct {
	name string
	path string
	args []string
	env  []string

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	lines  chan []byte
	stderr *tailBuffer
	broken error

	// Set by the reader before lines is closed.
	waitErr error
}

// NewSubprocessEngine returns an engine that runs path with args.
func NewSubprocessEngine(name, path string, args ...string) *SubprocessEngine {
	return &SubprocessEngine{name: name, path: path, args: args}
}

// WithEnv adds KEY=VALUE pairs to the child's environment.
func (e *SubprocessEngine) WithEnv(env ...string) *SubprocessEngine {
	e.env = append(e.env, env...)
	return e
}

// Name returns the engine name.
func (e *SubprocessEngine) Name() string {
	return e.name
}

// Reset starts the process if needed and begins a game from seed.
func (e *SubprocessEngine) Reset(ctx context.Context, seed uint64) (Observation, error) {
	if e.cmd == nil {
		if err := e.start(); err != nil {
			return Observation{}, err
		}
	}
	return e.call(ctx, Request{Op: OpReset, Seed: seed})
}

// Step sends one command.
func (e *SubprocessEngine) Step(ctx context.Context, cmd entity.Command) (Observation, error) {
	if e.cmd == nil {
		return Observation{}, fmt.Errorf("%w: step before reset", ErrProtocol)
	}
	return e.call(ctx, Request{Op: OpStep, Command: &cmd})
}

// Close asks the process to quit and kills it if it has not exited
// within a grace period.
func (e *SubprocessEngine) Close() error {
	if e.cmd == nil {
		return nil
	}
	if e.broken == nil {
		if data, err := json.Marshal(Request{Op: OpQuit}); err == nil {
			_, _ = e.stdin.Write(append(data, '\n'))
		}
	}
	_ = e.stdin.Close()

	timer := time.NewTimer(closeGrace)
	defer timer.Stop()
	expired := timer.C
	for {
		select {
		case _, ok := <-e.lines:
			if !ok {
				e.cmd = nil
				if e.broken != nil {
					return nil
				}
				return e.waitErr
			}
		case <-expired:
			_ = e.cmd.Process.Kill()
			expired = nil
		}
	}
}

func (e *SubprocessEngine) start() error {
	cmd := exec.Command(e.path, e.args...)
	cmd.Env = append(os.Environ(), e.env...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	e.stderr = &tailBuffer{max: stderrTail}
	cmd.Stderr = e.stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %v", ErrEngineCrashed, err)
	}

	e.cmd = cmd
	e.stdin = stdin
	e.lines = make(chan []byte, 1)
	go e.read(stdout)
	return nil
}

func (e *SubprocessEngine) read(stdout io.Reader) {
	r := bufio.NewReaderSize(stdout, 64*1024)
	for {
		line, err := r.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			e.lines <- line
		}
		if err != nil {
			break
		}
	}
	e.waitErr = e.cmd.Wait()
	close(e.lines)
}

func (e *SubprocessEngine) call(ctx context.Context, req Request) (Observation, error) {
	if e.broken != nil {
		return Observation{}, e.broken
	}
	data, err := json.Marshal(req)
	if err != nil {
		return Observation{}, err
	}
	if _, err := e.stdin.Write(append(data, '\n')); err != nil {
		return Observation{}, e.crashed(err)
	}

	select {
	case line, ok := <-e.lines:
		if !ok {
			return Observation{}, e.crashed(io.ErrUnexpectedEOF)
		}
		return decodeResponse(line)
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			_ = e.cmd.Process.Kill()
			e.broken = fmt.Errorf("%w: no answer to %s", ErrEngineTimeout, req.Op)
			return Observation{}, e.broken
		}
		return Observation{}, ctx.Err()
	}
}

// crashed drains the process and marks the engine broken with its exit
// status and the tail of its stderr.
func (e *SubprocessEngine) crashed(cause error) error {
	for range e.lines {
	}
	msg := cause.Error()
	if e.waitErr != nil {
		msg = e.waitErr.Error()
	}
	if tail := strings.TrimSpace(e.stderr.String()); tail != "" {
		msg += ": " + tail
	}
	e.broken = fmt.Errorf("%w: %s", ErrEngineCrashed, msg)
	return e.broken
}

func decodeResponse(line []byte) (Observation, error) {
	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return Observation{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if resp.Error != "" {
		return Observation{}, fmt.Errorf("%w: %s", ErrProtocol, resp.Error)
	}
	state, err := snapshot.Decode(resp.State)
	if err != nil {
		return Observation{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	return Observation{State: state, Trace: resp.Trace}, nil
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	mu  sync.Mutex
	max int
	buf []byte
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	if over := len(b.buf) - b.max; over > 0 {
		b.buf = b.buf[over:]
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}
