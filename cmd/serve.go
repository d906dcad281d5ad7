// =============================================================================
// EDI 834 Generator - Serve Command
// =============================================================================
//
// COMMAND USAGE:
//   edi834 serve [--port 3000]
//
// ROUTES:
//   GET  /                         Browser UI
//   POST /api/generate-from-path   {"excelPath": "...", "outputPath": "..."}
//   GET  /api/history              Recent generations (when the ledger is on)
//   GET  /healthz                  Liveness
//   GET  /metrics                  Prometheus exposition
//
// The server stops gracefully on SIGINT or SIGTERM.
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/edi834-generator/internal/logging"
	"github.com/ginjaninja78/edi834-generator/internal/metrics"
	"github.com/ginjaninja78/edi834-generator/internal/server"
)

// serveCmd runs the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and browser UI",
	Long: `Serve exposes the generator over HTTP. Paths in requests refer to the
server's own filesystem; relative paths resolve against its working directory.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "HTTP listen port (overrides port)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	m := metrics.New()

	rt, err := newRuntime(ctx, m)
	if err != nil {
		return err
	}
	defer rt.Close()

	var hist server.HistoryLister
	if rt.History != nil {
		hist = rt.History
	}

	logger := logging.Logger()
	svc := server.NewGenerateService(rt, hist, logger)
	return server.ListenAndServe(ctx, appConfig.Port, server.SetupRoutes(svc, m.Handler()), logger)
}
