// Package cmd provides CLI commands for the observability engine.
package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"obs-engine/internal/report/excel"
)

// Command flags
var (
	summaryGaugesPath string // Path to gauge query definitions file
	summaryExport     bool   // Export the snapshot as an Excel workbook
)

// summaryCmd prints the consolidated cross-backend health summary.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the consolidated health summary",
	Long: `Issue five concurrent requests (alert list, scrape targets, and three
scalar gauge queries) and print the consolidated summary. A backend failure
degrades only its own fields; missing gauges are shown as n/a.`,
	Run: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().StringVar(&summaryGaugesPath, "gauges", "", "gauge query definitions file (YAML)")
	summaryCmd.Flags().BoolVar(&summaryExport, "export", false, "export the snapshot as an Excel workbook")
}

func runSummary(cmd *cobra.Command, args []string) {
	eng, err := newEngine(summaryGaugesPath)
	if err != nil {
		fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	summary := eng.summary.Summarize(ctx)

	fmt.Printf("Active alerts:   %d (critical %d, warning %d)\n",
		summary.AlertCount, summary.CriticalCount, summary.WarningCount)
	fmt.Printf("Targets:         %d/%d healthy\n", summary.HealthyTargets, summary.TotalTargets)
	fmt.Printf("All healthy:     %t\n", summary.AllHealthy)
	fmt.Printf("Storage bytes:   %s\n", gaugeString(summary.StorageBytes))
	fmt.Printf("Ingestion rate:  %s\n", gaugeString(summary.IngestionRate))
	fmt.Printf("Active series:   %s\n", gaugeString(summary.ActiveSeries))

	if !summaryExport {
		return
	}

	takenAt := time.Now()
	snapshot := &excel.Snapshot{
		Summary: summary,
		Alerts:  eng.alerts.List(ctx),
		TakenAt: takenAt,
	}

	outputPath := filepath.Join(eng.cfg.Report.OutputDir,
		fmt.Sprintf("health_snapshot_%s.xlsx", takenAt.Format("20060102_150405")))

	if err := excel.NewWriter().Write(snapshot, outputPath); err != nil {
		fatal(fmt.Errorf("failed to export snapshot: %w", err))
	}
	fmt.Printf("Snapshot exported: %s\n", outputPath)
}
