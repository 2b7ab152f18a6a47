package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/samdwyer/nhparity/internal/parity"
)

var serveTrace bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Answer the engine protocol on stdin/stdout",
	Long: `Run the built-in engine behind the JSON-lines protocol so another harness
(or another nhparity) can drive it as a subprocess. Each request is one line:

  {"op":"reset","seed":42}
  {"op":"step","command":"move:e"}
  {"op":"quit"}

and each answer is one line holding the state, the draws made when
--trace is set, or an error. Logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		engine := parity.NewLocalEngine("nhparity", gameConfig(0, serveTrace), serveTrace)
		defer engine.Close()

		app.log.Debug("serving engine protocol", "trace", serveTrace)
		if err := parity.Serve(cmd.Context(), os.Stdin, os.Stdout, engine); err != nil {
			return faultError(err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveTrace, "trace", false, "Include random draw traces in answers")
}
