package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/eventkit/eventkit/internal/bot"
	"github.com/eventkit/eventkit/internal/config"
	"github.com/eventkit/eventkit/internal/ranking"
	"github.com/eventkit/eventkit/internal/telemetry"
	"github.com/eventkit/eventkit/internal/validation"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a markdown itinerary for your interests",
	RunE:  runExport,
}

var (
	exportInterests   string
	exportOutput      string
	exportProfileSave string
	exportProfileLoad string
)

func init() {
	exportCmd.Flags().StringVar(&exportInterests, "interests", "", "Comma-separated interests")
	exportCmd.Flags().StringVar(&exportOutput, "output", "", "Write the itinerary to this file instead of stdout")
	exportCmd.Flags().StringVar(&exportProfileSave, "profile-save", "", "Save the interests under this profile name")
	exportCmd.Flags().StringVar(&exportProfileLoad, "profile-load", "", "Load interests from this profile name")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	settings := config.LoadSettings()
	cat, err := loadCatalog(settings)
	if err != nil {
		return err
	}

	tel := newTelemetry(cat, settings)
	defer tel.Close()
	store := newProfileStore(cat)
	ctx := context.Background()
	start := time.Now()

	raw := exportInterests
	if raw == "" && exportProfileLoad != "" {
		stored, err := store.Load(ctx, exportProfileLoad)
		if err != nil {
			return err
		}
		raw = strings.Join(stored, ", ")
	}
	if err := validation.ValidateInterests(raw); err != nil {
		return err
	}

	interests := validation.NormalizeInterests(raw)
	rec := ranking.Recommend(cat.Sessions(), interests, cat.Weights(), cat.DefaultTop())
	markdown := bot.ItineraryMarkdown(interests, rec)

	if exportProfileSave != "" {
		if err := store.Save(ctx, exportProfileSave, interests); err != nil {
			return err
		}
	}

	output := exportOutput
	if output == "" {
		if feat := cat.Manifest.Features.Export; feat.Enabled {
			dir := feat.OutputDir
			if dir == "" {
				dir = "exports"
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create export dir %s: %w", dir, err)
			}
			output = filepath.Join(dir, fmt.Sprintf("itinerary_%s.md", time.Now().Format("20060102_150405")))
		}
	}

	tel.Log("export", map[string]any{
		"interests":    interests,
		"sessionCount": len(rec.Sessions),
		"output":       output,
	}, start, true, "", telemetry.NewCorrelationID())

	if output != "" {
		if err := os.WriteFile(output, []byte(markdown), 0644); err != nil {
			return fmt.Errorf("failed to write itinerary %s: %w", output, err)
		}
		fmt.Printf("Itinerary written to %s (%d sessions)\n", output, len(rec.Sessions))
		return nil
	}

	fmt.Println(markdown)
	return nil
}
