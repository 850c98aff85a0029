// Package cmd provides CLI commands for the observability engine.
package cmd

import (
	"net/http"

	"github.com/spf13/cobra"

	"obs-engine/internal/server"
)

// Command flags
var (
	serveAddr       string // Listen address override
	serveGaugesPath string // Path to gauge query definitions file
)

// serveCmd exposes the engine over a JSON HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the engine over a JSON HTTP API",
	Long: `Start an HTTP server exposing the health summary, the normalized alert
stream, incident briefs, silence creation, and log tail queries for polling
UIs. The server holds no state; invocation cadence is the caller's choice.`,
	Run: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveGaugesPath, "gauges", "", "gauge query definitions file (YAML)")
}

func runServe(cmd *cobra.Command, args []string) {
	eng, err := newEngine(serveGaugesPath)
	if err != nil {
		fatal(err)
	}

	addr := eng.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := server.New(eng.alerts, eng.summary, eng.contexts, eng.silencer, eng.logs, eng.logger)

	eng.logger.Info().Str("addr", addr).Msg("starting HTTP API server")
	if err := http.ListenAndServe(addr, srv.Router()); err != nil {
		fatal(err)
	}
}
