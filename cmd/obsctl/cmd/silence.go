// Package cmd provides CLI commands for the observability engine.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"obs-engine/internal/service"
)

// Command flags
var (
	silenceName     string // Alert name to silence
	silenceLabels   string // Optional JSON label object
	silenceDuration int    // Silence duration in minutes
	silenceComment  string // Comment recorded on the silence
)

// silenceCmd creates a silence on the alert backend.
var silenceCmd = &cobra.Command{
	Use:   "silence",
	Short: "Create a silence on the alert backend",
	Long: `Create a silence scoped by exact label matchers. When --labels parses as
a JSON object, one exact matcher is emitted per entry, targeting exactly the
firing instance; otherwise a single alertname matcher is used as the broader
fallback.

Note: there is no idempotency guard. Re-running the same silence creates a
second, overlapping silence.`,
	Run: runSilence,
}

func init() {
	rootCmd.AddCommand(silenceCmd)

	silenceCmd.Flags().StringVar(&silenceName, "name", "", "alert name to silence (required)")
	silenceCmd.Flags().StringVar(&silenceLabels, "labels", "", `JSON label object scoping the silence (e.g. '{"severity":"critical"}')`)
	silenceCmd.Flags().IntVar(&silenceDuration, "duration", 60, "silence duration in minutes (1 to 10080)")
	silenceCmd.Flags().StringVar(&silenceComment, "comment", "", "comment recorded on the silence")
	_ = silenceCmd.MarkFlagRequired("name")
}

func runSilence(cmd *cobra.Command, args []string) {
	eng, err := newEngine("")
	if err != nil {
		fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	result := eng.silencer.Silence(ctx, service.SilenceRequest{
		AlertName:       silenceName,
		LabelsJSON:      silenceLabels,
		DurationMinutes: silenceDuration,
		Comment:         silenceComment,
	})

	fmt.Println(result.Message)
	if !result.Success {
		os.Exit(1)
	}
}
