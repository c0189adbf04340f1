package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/eventkit/eventkit/internal/config"
	"github.com/eventkit/eventkit/internal/ranking"
	"github.com/eventkit/eventkit/internal/telemetry"
	"github.com/eventkit/eventkit/internal/validation"
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Explain why a session matches your interests",
	RunE:  runExplain,
}

var (
	explainSession   string
	explainInterests string
)

func init() {
	explainCmd.Flags().StringVar(&explainSession, "session", "", "Session title to explain")
	explainCmd.Flags().StringVar(&explainInterests, "interests", "", "Comma-separated interests")
	rootCmd.AddCommand(explainCmd)
}

func runExplain(_ *cobra.Command, _ []string) error {
	settings := config.LoadSettings()
	cat, err := loadCatalog(settings)
	if err != nil {
		return err
	}

	if err := validation.ValidateSessionTitle(explainSession); err != nil {
		return err
	}
	if err := validation.ValidateInterests(explainInterests); err != nil {
		return err
	}

	tel := newTelemetry(cat, settings)
	defer tel.Close()
	start := time.Now()

	interests := validation.NormalizeInterests(explainInterests)
	exp := ranking.Explain(cat.Sessions(), explainSession, interests, cat.Weights())

	tel.Log("explain", map[string]any{
		"session": explainSession,
		"found":   exp.Found,
	}, start, true, "", telemetry.NewCorrelationID())

	return printJSON(exp)
}
