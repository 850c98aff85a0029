// Package cmd provides CLI commands for the observability engine.
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"obs-engine/internal/service"
)

// Command flags
var (
	logsService string        // Service filter, or "all"
	logsLevel   string        // Level filter, or "all"
	logsSince   time.Duration // Lookback window
	logsLimit   int           // Line limit
	logsList    bool          // List known services instead of querying
)

// logsCmd runs ad-hoc filtered log tail queries.
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Query recent logs from the log backend",
	Long: `Run an ad-hoc filtered, time-windowed log query. Results are sorted
newest first regardless of the backend's stream ordering.`,
	Run: runLogs,
}

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().StringVar(&logsService, "service", service.FilterAll, "service to filter on, or 'all'")
	logsCmd.Flags().StringVar(&logsLevel, "level", service.FilterAll, "log level to filter on, or 'all'")
	logsCmd.Flags().DurationVar(&logsSince, "since", time.Hour, "lookback window ending now")
	logsCmd.Flags().IntVar(&logsLimit, "limit", 100, "maximum lines to return (capped at 500)")
	logsCmd.Flags().BoolVar(&logsList, "services", false, "list known service names and exit")
}

func runLogs(cmd *cobra.Command, args []string) {
	eng, err := newEngine("")
	if err != nil {
		fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if logsList {
		for _, name := range eng.logs.Services(ctx) {
			fmt.Println(name)
		}
		return
	}

	lines := eng.logs.Query(ctx, service.LogFilter{
		Service: logsService,
		Level:   logsLevel,
		Since:   logsSince,
		Limit:   logsLimit,
	})

	if len(lines) == 0 {
		fmt.Println("No log lines.")
		return
	}

	for _, line := range lines {
		fmt.Printf("%s  %-7s %-20s %s\n", line.Timestamp, line.Level, line.Service, line.Message)
	}
}
