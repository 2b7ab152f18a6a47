// nhparity runs the deterministic roguelike kernel and compares it, turn
// by turn, against another implementation of the same game.
//
// Usage:
//
//	nhparity run             - Run reference and candidate engines in lockstep
//	nhparity serve           - Answer the engine protocol on stdin/stdout
//	nhparity snapshot        - Print the state after a command sequence
//	nhparity trace           - Print the random draws of a command sequence
//	nhparity gen             - Generate and print one level
//	nhparity play            - Play in the terminal
//	nhparity runs            - List stored parity runs
//
// Global flags:
//
//	--config <path>  - Configuration file (default: search order)
//	--log-level <l>  - Override the configured log level
//
// Exit codes: 0 success, 1 divergence, 2 engine fault, 3 usage or
// configuration error, 130 interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/samdwyer/nhparity/internal/parity"
)

var (
	// Global flags
	flagConfig   string
	flagLogLevel string
)

func main() {
	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}
	setupOTelEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	teardown()
	os.Exit(exitCode(err))
}

var rootCmd = &cobra.Command{
	Use:   "nhparity",
	Short: "Deterministic roguelike kernel and parity harness",
	Long: `nhparity plays a seeded roguelike game deterministically and checks
another implementation against it turn by turn.

Available commands:
  run       - Compare two engines over a command sequence
  serve     - Act as an engine for another harness
  snapshot  - Print the game state after some commands
  trace     - Print the random draws made by some commands
  gen       - Generate a single level
  play      - Play interactively in the terminal
  runs      - Inspect stored parity runs

Examples:
  nhparity run --seed 42 --turns 500
  nhparity run --candidate-cmd ./port-engine --trace
  nhparity snapshot --seed 42 --commands "l,l,s"
  nhparity gen --seed 7 --kind maze`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Configuration file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(runsCmd)
}

// exitError carries a process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func usageError(err error) error {
	return &exitError{code: parity.ExitUsage, err: err}
}

func faultError(err error) error {
	return &exitError{code: parity.ExitFault, err: err}
}

// runError tags an error from a lockstep run. A cancelled context means the
// run was interrupted, not that an engine failed.
func runError(err error) error {
	if errors.Is(err, context.Canceled) {
		return &exitError{code: parity.ExitInterrupted, err: fmt.Errorf("run interrupted: %w", err)}
	}
	return faultError(err)
}

// exitCode reports err and maps it to a process exit code. Errors that
// are not tagged come from cobra itself and are usage errors.
func exitCode(err error) int {
	if err == nil {
		return parity.ExitOK
	}
	var ee *exitError
	if !errors.As(err, &ee) {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return parity.ExitUsage
	}
	if ee.err != nil {
		fmt.Fprintln(os.Stderr, "Error:", ee.err)
	}
	return ee.code
}

// setupOTelEnv configures OTEL environment variables from our custom env vars.
func setupOTelEnv() {
	apiKey := os.Getenv("HONEYCOMB_NHPARITY_API_KEY")
	if apiKey == "" {
		return
	}
	dataset := os.Getenv("HONEYCOMB_NHPARITY_DATASET")
	if dataset == "" {
		dataset = "nhparity"
	}
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	}
	os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
		fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
}
