package graph

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/eventkit/eventkit/internal/ranking"
	"github.com/eventkit/eventkit/internal/types"
	"github.com/eventkit/eventkit/internal/validation"
)

// EventsSource fetches calendar sessions for a time range.
type EventsSource interface {
	Events(ctx context.Context, start, end time.Time, top int) ([]types.Session, error)
}

// RecommendFromCalendar fetches upcoming calendar events and ranks them
// against the given interests. Extra events are fetched to account for
// cancelled and malformed ones being filtered out.
func RecommendFromCalendar(ctx context.Context, svc EventsSource, interests []string, topN int, w *types.Weights) (types.Recommendation, error) {
	if len(interests) == 0 {
		return types.Recommendation{}, &validation.InvalidInputError{
			Field:   "interests",
			Message: "at least one interest is required",
		}
	}
	if topN < 1 {
		return types.Recommendation{}, &validation.InvalidInputError{
			Field:   "top",
			Message: "top must be a positive integer",
		}
	}

	weights := types.DefaultCalendarWeights()
	if w != nil {
		weights = *w
	}

	normalized := validation.NormalizeInterests(strings.Join(interests, ","))

	sessions, err := svc.Events(ctx, time.Time{}, time.Time{}, topN*2)
	if err != nil {
		return types.Recommendation{}, err
	}

	if len(sessions) == 0 {
		log.Printf("[graph] no sessions returned from calendar")
		return types.Recommendation{
			Sessions: []types.Session{},
			Scoring:  []types.SessionScore{},
			Source:   "graph",
			Message:  "No events found in calendar",
		}, nil
	}

	rec := ranking.Recommend(sessions, normalized, weights, topN)
	rec.Source = "graph"
	return rec, nil
}
