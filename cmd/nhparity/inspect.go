package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/samdwyer/nhparity/internal/entity"
	"github.com/samdwyer/nhparity/internal/game"
	"github.com/samdwyer/nhparity/internal/rng"
	"github.com/samdwyer/nhparity/internal/snapshot"
)

var inspectFlags struct {
	seed     uint64
	digest   bool
	limit    int
	commands commandFlags
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print the state after a command sequence",
	Long: `Start a game from --seed, play the given commands and print the resulting
state as canonical JSON, or only its digest with --digest.

Examples:
  nhparity snapshot --seed 42
  nhparity snapshot --seed 42 --commands "l,l,s" --digest`,
	Args: cobra.NoArgs,
	RunE: runSnapshot,
}

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Print the random draws of a command sequence",
	Long: `Start a game from --seed with tracing on, play the given commands and
print every draw on the core stream as one JSON object per line, starting
with character creation and level generation.

Examples:
  nhparity trace --seed 42 --commands "." --limit 50`,
	Args: cobra.NoArgs,
	RunE: runTrace,
}

func init() {
	for _, cmd := range []*cobra.Command{snapshotCmd, traceCmd} {
		cmd.Flags().Uint64Var(&inspectFlags.seed, "seed", 42, "Game seed")
		inspectFlags.commands.register(cmd)
	}
	snapshotCmd.Flags().BoolVar(&inspectFlags.digest, "digest", false, "Print only the state digest")
	traceCmd.Flags().IntVar(&inspectFlags.limit, "limit", 0, "Print at most N draws")
}

// play starts a game and applies commands until they run out or the game
// ends.
func play(ctx context.Context, seed uint64, commands []entity.Command, traceCapacity int) (*game.Context, error) {
	cfg := gameConfig(seed, false)
	cfg.TraceCapacity = traceCapacity
	c, err := game.New(ctx, cfg, nil)
	if err != nil {
		return nil, err
	}
	for _, cmd := range commands {
		if _, err := c.Step(ctx, cmd); err != nil {
			if errors.Is(err, game.ErrGameOver) {
				break
			}
			return nil, err
		}
	}
	return c, nil
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	seed, commands, err := inspectFlags.commands.resolve(inspectFlags.seed)
	if err != nil {
		return err
	}
	c, err := play(cmd.Context(), seed, commands, 0)
	if err != nil {
		return faultError(err)
	}

	state := snapshot.Capture(c)
	if inspectFlags.digest {
		sum, err := snapshot.Digest(state)
		if err != nil {
			return faultError(err)
		}
		fmt.Printf("%016x\n", sum)
		return nil
	}
	data, err := snapshot.Encode(state)
	if err != nil {
		return faultError(err)
	}
	fmt.Println(string(data))
	return nil
}

func runTrace(cmd *cobra.Command, _ []string) error {
	seed, commands, err := inspectFlags.commands.resolve(inspectFlags.seed)
	if err != nil {
		return err
	}
	capacity := app.cfg.Harness.TraceCapacity
	if capacity <= 0 {
		capacity = rng.DefaultTraceCapacity
	}
	c, err := play(cmd.Context(), seed, commands, capacity)
	if err != nil {
		return faultError(err)
	}

	core := c.CoreStream()
	trace := core.Trace()
	if n := core.Draws(); n > uint64(len(trace)) {
		app.log.Warn("trace ring overflowed, earliest draws dropped", "draws", n, "kept", len(trace))
	}
	if inspectFlags.limit > 0 && len(trace) > inspectFlags.limit {
		trace = trace[:inspectFlags.limit]
	}
	enc := json.NewEncoder(os.Stdout)
	for _, e := range trace {
		if err := enc.Encode(e); err != nil {
			return faultError(err)
		}
	}
	return nil
}

// entryAt formats the i-th trace entry for side-by-side output.
func entryAt(trace []rng.TraceEntry, i int) string {
	if i >= len(trace) {
		return "-"
	}
	e := trace[i]
	return fmt.Sprintf("#%d %s(%d)=%d", e.Seq, e.Kind, e.Arg, e.Result)
}
