// Package cmd provides CLI commands for the observability engine.
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"obs-engine/internal/service"
)

// Command flags
var (
	alertsContext string // Fingerprint to print an incident brief for
)

// alertsCmd lists normalized alerts or prints one alert's incident brief.
var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "List normalized alerts from the alert backend",
	Long: `List the normalized alert stream, or with --context print the incident
brief for a single alert: its base fields, labels, and recent related error
lines from the log backend when available.`,
	Run: runAlerts,
}

func init() {
	rootCmd.AddCommand(alertsCmd)

	alertsCmd.Flags().StringVar(&alertsContext, "context", "", "print the incident brief for the given fingerprint")
}

func runAlerts(cmd *cobra.Command, args []string) {
	eng, err := newEngine("")
	if err != nil {
		fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if alertsContext != "" {
		brief, err := eng.contexts.Build(ctx, alertsContext)
		if err != nil {
			if errors.Is(err, service.ErrAlertNotFound) {
				fatal(fmt.Errorf("no alert with fingerprint %s", alertsContext))
			}
			fatal(err)
		}
		fmt.Print(brief)
		return
	}

	alerts := eng.alerts.List(ctx)
	if len(alerts) == 0 {
		fmt.Println("No alerts.")
		return
	}

	fmt.Printf("%-16s  %-8s  %-10s  %-10s  %s\n", "FINGERPRINT", "SEVERITY", "STATE", "DURATION", "NAME")
	for _, a := range alerts {
		fmt.Printf("%-16s  %-8s  %-10s  %-10s  %s\n",
			a.Fingerprint, a.Severity, a.State, a.Duration, a.Name)
	}
}
