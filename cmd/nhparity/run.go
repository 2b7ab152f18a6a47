package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/samdwyer/nhparity/internal/config"
	"github.com/samdwyer/nhparity/internal/parity"
)

var runFlags struct {
	seed         uint64
	turns        int
	trace        bool
	timeout      time.Duration
	continueOn   bool
	referenceCmd string
	candidateCmd string
	saveReplay   string
	jsonOut      bool
	noStore      bool
	commands     commandFlags
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run reference and candidate engines in lockstep",
	Long: `Reset both engines with the same seed, send each the same command every
turn and compare their states (and, with --trace, their random draws).

Without --commands or --replay the engines play --turns scripted
commands derived from the seed. An engine with no command configured runs
in process.

Examples:
  nhparity run --seed 42
  nhparity run --candidate-cmd ./port-engine --trace --timeout 5s
  nhparity run --replay failing.json`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.Uint64Var(&runFlags.seed, "seed", 42, "Game seed")
	f.IntVar(&runFlags.turns, "turns", 0, "Scripted turns to play (default: harness.turns)")
	f.BoolVar(&runFlags.trace, "trace", false, "Also compare random draw traces")
	f.DurationVar(&runFlags.timeout, "timeout", 0, "Per-turn engine timeout (default: harness.timeout)")
	f.BoolVar(&runFlags.continueOn, "continue", false, "Keep going after the first divergence")
	f.StringVar(&runFlags.referenceCmd, "reference-cmd", "", "Command that starts the reference engine")
	f.StringVar(&runFlags.candidateCmd, "candidate-cmd", "", "Command that starts the candidate engine")
	f.StringVar(&runFlags.saveReplay, "save-replay", "", "Write the seed and commands to this file")
	f.BoolVar(&runFlags.jsonOut, "json", false, "Print the full report as JSON")
	f.BoolVar(&runFlags.noStore, "no-store", false, "Do not record the run in the database")
	runFlags.commands.register(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	hc := app.cfg.Harness
	flags := cmd.Flags()
	if flags.Changed("trace") {
		hc.Trace = runFlags.trace
	}
	if flags.Changed("timeout") {
		hc.Timeout = runFlags.timeout
	}
	if flags.Changed("continue") {
		hc.ContinueOnDivergence = runFlags.continueOn
	}
	if runFlags.referenceCmd != "" {
		hc.Reference.Command = runFlags.referenceCmd
	}
	if runFlags.candidateCmd != "" {
		hc.Candidate.Command = runFlags.candidateCmd
	}
	if runFlags.commands.script == 0 {
		runFlags.commands.script = hc.Turns
		if runFlags.turns > 0 {
			runFlags.commands.script = runFlags.turns
		}
	}

	seed, commands, err := runFlags.commands.resolve(runFlags.seed)
	if err != nil {
		return err
	}
	if runFlags.saveReplay != "" {
		if err := (parity.Replay{Seed: seed, Commands: commands}).Save(runFlags.saveReplay); err != nil {
			return faultError(err)
		}
	}

	ref := newEngine(hc.Reference, hc.Trace)
	cand := newEngine(hc.Candidate, hc.Trace)
	defer closeEngine(ref)
	defer closeEngine(cand)

	h := parity.NewHarness(ref, cand, parity.Options{
		Trace:                hc.Trace,
		TurnTimeout:          hc.Timeout,
		ContinueOnDivergence: hc.ContinueOnDivergence,
		Logger:               app.log,
	})
	report, err := h.RunSynchronized(cmd.Context(), seed, commands)
	if err != nil {
		return runError(err)
	}

	if !runFlags.noStore {
		saveReport(cmd, report)
	}
	if err := printReport(report, hc); err != nil {
		return faultError(err)
	}
	if code := report.ExitCode(); code != parity.ExitOK {
		return &exitError{code: code}
	}
	return nil
}

func closeEngine(e parity.Engine) {
	if err := e.Close(); err != nil {
		app.log.Warn("engine did not close cleanly", "engine", e.Name(), "err", err)
	}
}

func saveReport(cmd *cobra.Command, report parity.Report) {
	store, err := openStore()
	if err != nil {
		app.log.Warn("run not recorded", "err", err)
		return
	}
	if store == nil {
		return
	}
	defer store.Close()
	if err := store.SaveReport(cmd.Context(), report); err != nil {
		app.log.Warn("run not recorded", "run", report.RunID, "err", err)
	}
}

func printReport(report parity.Report, hc config.HarnessConfig) error {
	if runFlags.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Printf("Run %s  seed %d  %s vs %s\n", report.RunID, report.Seed, report.Reference, report.Candidate)
	fmt.Println(report.Summary())
	if d := report.Divergence; d != nil {
		for _, diff := range d.Diffs {
			fmt.Printf("  %s\n", diff)
		}
		if t := d.Trace; t != nil {
			fmt.Printf("  rng: %s\n", t)
			for i := range max(len(t.Reference), len(t.Candidate)) {
				fmt.Printf("    %-28s %s\n", entryAt(t.Reference, i), entryAt(t.Candidate, i))
			}
		}
	}
	if hc.ContinueOnDivergence && report.TurnsWithDiffs > 0 {
		fmt.Printf("Convergence: %d critical, %d major, %d minor over %d turns", report.Critical, report.Major,
			report.Minor, report.TurnsWithDiffs)
		if report.FirstCriticalTurn > 0 {
			fmt.Printf(", first critical on turn %d", report.FirstCriticalTurn)
		}
		fmt.Println()
	}
	return nil
}
