package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/samdwyer/nhparity/internal/parity"
	"github.com/samdwyer/nhparity/internal/storage"
)

var runsFlags struct {
	kind  string
	limit int
	json  bool
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded parity runs",
	Long: `List the runs recorded in the run database, newest first.

Examples:
  nhparity runs --kind divergence --limit 5
  nhparity runs show 0b4a...
  nhparity runs faults`,
	Args: cobra.NoArgs,
	RunE: runRuns,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one recorded run and its differences",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsFaultsCmd = &cobra.Command{
	Use:   "faults",
	Short: "List recorded engine faults",
	Args:  cobra.NoArgs,
	RunE:  runRunsFaults,
}

func init() {
	runsCmd.PersistentFlags().IntVar(&runsFlags.limit, "limit", 20, "Maximum rows to list")
	runsCmd.Flags().StringVar(&runsFlags.kind, "kind", "", "Only list runs of this kind: success, divergence or fault")
	runsShowCmd.Flags().BoolVar(&runsFlags.json, "json", false, "Print the stored report as JSON")
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsFaultsCmd)
}

// mustStore opens the run database or explains why it is unavailable.
func mustStore() (*storage.Store, error) {
	store, err := openStore()
	if err != nil {
		return nil, faultError(err)
	}
	if store == nil {
		return nil, usageError(errors.New("storage is disabled in the configuration"))
	}
	return store, nil
}

func runRuns(cmd *cobra.Command, _ []string) error {
	kind := parity.Kind(runsFlags.kind)
	switch kind {
	case "", parity.KindSuccess, parity.KindDivergence, parity.KindFault:
	default:
		return usageError(fmt.Errorf("unknown run kind %q", runsFlags.kind))
	}

	store, err := mustStore()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(cmd.Context(), kind, runsFlags.limit)
	if err != nil {
		return faultError(err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSTARTED\tSEED\tKIND\tTURNS\tCRIT\tMAJ\tMIN")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\t%d\t%d\t%d\n", r.RunID, r.Started.Local().Format(time.DateTime),
			r.Seed, r.Kind, r.Turns, r.Critical, r.Major, r.Minor)
	}
	return w.Flush()
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	store, err := mustStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	report, err := store.Report(ctx, args[0])
	if errors.Is(err, storage.ErrNotFound) {
		return usageError(fmt.Errorf("no run %q", args[0]))
	}
	if err != nil {
		return faultError(err)
	}
	if runsFlags.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Printf("Run %s  seed %d  %s vs %s\n", report.RunID, report.Seed, report.Reference, report.Candidate)
	fmt.Printf("Started %s, took %s\n", report.Started.Local().Format(time.DateTime),
		report.Finished.Sub(report.Started).Round(time.Millisecond))
	fmt.Println(report.Summary())

	divs, err := store.Divergences(ctx, report.RunID)
	if err != nil {
		return faultError(err)
	}
	for _, d := range divs {
		fmt.Printf("  turn %d %s %s: %s != %s\n", d.Turn, d.Severity, d.Path, d.Reference, d.Candidate)
	}
	return nil
}

func runRunsFaults(cmd *cobra.Command, _ []string) error {
	store, err := mustStore()
	if err != nil {
		return err
	}
	defer store.Close()

	faults, err := store.Faults(cmd.Context(), runsFlags.limit)
	if err != nil {
		return faultError(err)
	}
	if len(faults) == 0 {
		fmt.Println("No faults recorded.")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tENGINE\tPHASE\tTURN\tERROR")
	for _, f := range faults {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", f.RunID, f.Engine, f.Phase, f.Turn, f.Error)
	}
	return w.Flush()
}
