package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/eventkit/eventkit/internal/bot"
	"github.com/eventkit/eventkit/internal/graph"
	"github.com/eventkit/eventkit/internal/ranking"
	"github.com/eventkit/eventkit/internal/types"
	"github.com/eventkit/eventkit/internal/validation"
)

// recommendResponse wraps a recommendation with the optional adaptive card.
type recommendResponse struct {
	types.Recommendation
	Card *bot.AdaptiveCard `json:"card,omitempty"`
}

// resolveInterests returns the raw interests string, loading a stored
// profile when the query carries profile_load instead of interests.
func (s *Server) resolveInterests(r *http.Request) (string, error) {
	interests := r.URL.Query().Get("interests")
	if interests != "" {
		return interests, nil
	}

	if name := r.URL.Query().Get("profile_load"); name != "" {
		stored, err := s.profiles.Load(r.Context(), name)
		if err != nil {
			return "", err
		}
		if len(stored) > 0 {
			return strings.Join(stored, ", "), nil
		}
	}
	return "", nil
}

// resolveTop parses the top query parameter, falling back to the manifest
// default.
func (s *Server) resolveTop(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("top")
	if raw == "" {
		return s.catalog.DefaultTop(), nil
	}
	top, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &validation.InvalidInputError{Field: "top", Message: "top must be a positive integer"}
	}
	if err := validation.ValidateTop(top); err != nil {
		return 0, err
	}
	return top, nil
}

// handleRecommend ranks manifest sessions against the caller's interests.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	corrID := s.correlationID(w, r)

	raw, err := s.resolveInterests(r)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if err := validation.ValidateInterests(raw); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	top, err := s.resolveTop(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID != "" {
		if err := validation.ValidateUserID(userID); err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
	}

	interests := validation.NormalizeInterests(raw)
	rec := ranking.Recommend(s.catalog.Sessions(), interests, s.catalog.Weights(), top)
	rec.Source = "manifest"
	rec.UserID = userID

	if name := r.URL.Query().Get("profile_save"); name != "" {
		if err := s.profiles.Save(r.Context(), name, interests); err != nil {
			log.Printf("[server] failed to save profile %s: %v", name, err)
		}
	}

	resp := recommendResponse{Recommendation: rec}
	if s.wantsCard(r) {
		resp.Card = bot.RecommendationsCard(rec.Sessions)
	}

	s.telemetry.Log("recommend", map[string]any{
		"interests": interests,
		"top":       top,
		"conflicts": rec.Conflicts,
	}, start, true, "", corrID)

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleExplain scores one session by title. Unknown titles return a 200
// with an error field rather than a 404, matching the CLI behavior.
func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	corrID := s.correlationID(w, r)

	title := r.URL.Query().Get("session")
	if err := validation.ValidateSessionTitle(title); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	raw := r.URL.Query().Get("interests")
	if err := validation.ValidateInterests(raw); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	interests := validation.NormalizeInterests(raw)
	exp := ranking.Explain(s.catalog.Sessions(), title, interests, s.catalog.Weights())

	s.telemetry.Log("explain", map[string]any{
		"session": title,
		"found":   exp.Found,
	}, start, true, "", corrID)

	s.jsonResponse(w, http.StatusOK, exp)
}

// handleExport renders a markdown itinerary. When the manifest export
// feature is enabled, the itinerary is also written to the output directory.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	corrID := s.correlationID(w, r)

	raw, err := s.resolveInterests(r)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if err := validation.ValidateInterests(raw); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	interests := validation.NormalizeInterests(raw)
	rec := ranking.Recommend(s.catalog.Sessions(), interests, s.catalog.Weights(), s.catalog.DefaultTop())
	markdown := bot.ItineraryMarkdown(interests, rec)

	response := map[string]any{
		"markdown":     markdown,
		"sessionCount": len(rec.Sessions),
	}

	if feat := s.catalog.Manifest.Features.Export; feat.Enabled {
		if path, err := writeItinerary(feat.OutputDir, markdown); err != nil {
			log.Printf("[server] failed to write itinerary: %v", err)
		} else {
			response["file"] = path
		}
	}

	if name := r.URL.Query().Get("profile_save"); name != "" {
		if err := s.profiles.Save(r.Context(), name, interests); err != nil {
			log.Printf("[server] failed to save profile %s: %v", name, err)
		}
	}

	s.telemetry.Log("export", map[string]any{
		"interests":    interests,
		"sessionCount": len(rec.Sessions),
	}, start, true, "", corrID)

	s.jsonResponse(w, http.StatusOK, response)
}

// handleRecommendGraph ranks the caller's upcoming calendar events.
func (s *Server) handleRecommendGraph(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	corrID := s.correlationID(w, r)

	if s.graphSvc == nil {
		err := &ErrGraphNotConfigured{Missing: s.settings.GraphValidationErrors()}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	raw := r.URL.Query().Get("interests")
	if err := validation.ValidateInterests(raw); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	top, err := s.resolveTop(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID != "" {
		if err := validation.ValidateUserID(userID); err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
	}

	interests := validation.NormalizeInterests(raw)
	rec, err := graph.RecommendFromCalendar(r.Context(), s.graphSvc, interests, top, nil)
	if err != nil {
		s.telemetry.Log("recommend_graph", map[string]any{"interests": interests},
			start, false, err.Error(), corrID)
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	rec.UserID = userID

	resp := recommendResponse{Recommendation: rec}
	if s.wantsCard(r) {
		resp.Card = bot.RecommendationsCard(rec.Sessions)
	}

	s.telemetry.Log("recommend_graph", map[string]any{
		"interests": interests,
		"top":       top,
		"conflicts": rec.Conflicts,
	}, start, true, "", corrID)

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleToken issues a JWT for the given user ID.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	corrID := s.correlationID(w, r)

	if s.jwtService == nil {
		err := &ErrTokenUnavailable{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var req types.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "user_id must be a valid email address")
		return
	}

	token, err := s.jwtService.GenerateToken(req.UserID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	s.telemetry.Log("token", map[string]any{"user_id": req.UserID}, time.Now(), true, "", corrID)

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"token":      token,
		"token_type": "Bearer",
	})
}

// handleBotMessage routes a chat message through the bot handler.
func (s *Server) handleBotMessage(w http.ResponseWriter, r *http.Request) {
	corrID := s.correlationID(w, r)

	var msg types.BotMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := msg.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "text is required")
		return
	}

	resp := s.botHandler.HandleMessage(r.Context(), msg.Text, corrID)
	s.jsonResponse(w, http.StatusOK, resp)
}

// wantsCard reports whether the response should include an adaptive card.
func (s *Server) wantsCard(r *http.Request) bool {
	switch r.URL.Query().Get("card") {
	case "true", "1":
		return true
	case "false", "0":
		return false
	default:
		return s.defaultCard
	}
}

// writeItinerary saves a markdown itinerary under dir with a timestamped
// name and returns the written path.
func writeItinerary(dir, markdown string) (string, error) {
	if dir == "" {
		dir = "exports"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export dir %s: %w", dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("itinerary_%s.md", time.Now().Format("20060102_150405")))
	if err := os.WriteFile(path, []byte(markdown), 0644); err != nil {
		return "", fmt.Errorf("failed to write itinerary %s: %w", path, err)
	}
	return path, nil
}
