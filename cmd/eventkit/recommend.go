package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/eventkit/eventkit/internal/bot"
	"github.com/eventkit/eventkit/internal/config"
	"github.com/eventkit/eventkit/internal/graph"
	"github.com/eventkit/eventkit/internal/ranking"
	"github.com/eventkit/eventkit/internal/telemetry"
	"github.com/eventkit/eventkit/internal/types"
	"github.com/eventkit/eventkit/internal/validation"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend sessions matching your interests",
	RunE:  runRecommend,
}

var (
	recommendInterests   string
	recommendTop         int
	recommendSource      string
	recommendUserID      string
	recommendProfileSave string
	recommendProfileLoad string
	recommendCard        bool
)

func init() {
	recommendCmd.Flags().StringVar(&recommendInterests, "interests", "", "Comma-separated interests")
	recommendCmd.Flags().IntVar(&recommendTop, "top", 0, "Number of sessions to return (default from manifest)")
	recommendCmd.Flags().StringVar(&recommendSource, "source", "manifest", "Event source: 'manifest' or 'graph' (Microsoft Graph calendar)")
	recommendCmd.Flags().StringVar(&recommendUserID, "user-id", "", "User ID to attach to the result")
	recommendCmd.Flags().StringVar(&recommendProfileSave, "profile-save", "", "Save the interests under this profile name")
	recommendCmd.Flags().StringVar(&recommendProfileLoad, "profile-load", "", "Load interests from this profile name")
	recommendCmd.Flags().BoolVar(&recommendCard, "card", false, "Include an adaptive card in the output")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(_ *cobra.Command, _ []string) error {
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

	raw := recommendInterests
	if raw == "" && recommendProfileLoad != "" {
		stored, err := store.Load(ctx, recommendProfileLoad)
		if err != nil {
			return err
		}
		raw = strings.Join(stored, ", ")
	}
	if err := validation.ValidateInterests(raw); err != nil {
		return err
	}

	top := recommendTop
	if top == 0 {
		top = cat.DefaultTop()
	}
	if err := validation.ValidateTop(top); err != nil {
		return err
	}

	if recommendUserID != "" {
		if err := validation.ValidateUserID(recommendUserID); err != nil {
			return err
		}
	}

	interests := validation.NormalizeInterests(raw)

	var rec types.Recommendation
	switch recommendSource {
	case "manifest":
		rec = ranking.Recommend(cat.Sessions(), interests, cat.Weights(), top)
		rec.Source = "manifest"
	case "graph":
		svc, err := newGraphService(settings)
		if err != nil {
			return err
		}
		rec, err = graph.RecommendFromCalendar(ctx, svc, interests, top, nil)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown source %q (want 'manifest' or 'graph')", recommendSource)
	}
	rec.UserID = recommendUserID

	if recommendProfileSave != "" {
		if err := store.Save(ctx, recommendProfileSave, interests); err != nil {
			return err
		}
	}

	tel.Log("recommend", map[string]any{
		"interests": interests,
		"top":       top,
		"source":    recommendSource,
		"conflicts": rec.Conflicts,
	}, start, true, "", telemetry.NewCorrelationID())

	if recommendCard {
		return printJSON(map[string]any{
			"recommendation": rec,
			"card":           bot.RecommendationsCard(rec.Sessions),
		})
	}
	return printJSON(rec)
}

// newGraphService builds an authenticated calendar event service.
func newGraphService(settings *config.Settings) (*graph.EventService, error) {
	if !settings.GraphReady() {
		return nil, fmt.Errorf("graph credentials not configured: %s",
			strings.Join(settings.GraphValidationErrors(), ", "))
	}
	authClient, err := graph.NewAuthClient(settings)
	if err != nil {
		return nil, err
	}
	return graph.NewEventService(authClient, graph.ServiceConfig{}), nil
}
