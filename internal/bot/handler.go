package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/eventkit/eventkit/internal/catalog"
	"github.com/eventkit/eventkit/internal/profile"
	"github.com/eventkit/eventkit/internal/ranking"
	"github.com/eventkit/eventkit/internal/telemetry"
	"github.com/eventkit/eventkit/internal/validation"
)

const helpText = "**Event Kit - Commands**\n\n" +
	"1. **recommend** - Get session recommendations\n" +
	"   `recommend agents, ai safety --top 3`\n\n" +
	"2. **explain** - Understand why a session matches\n" +
	"   `explain \"Session Title\" --interests agents, ai safety`\n\n" +
	"3. **export** - Export your personalized itinerary\n" +
	"   `export agents, machine learning --profile my_profile`\n\n" +
	"4. **help** - Show this help message"

// Response is what the handler sends back to the chat surface. Card is set
// only for recommendation replies.
type Response struct {
	Text string        `json:"text"`
	Card *AdaptiveCard `json:"card,omitempty"`
}

// Handler routes chat messages to the recommendation engine. Messages are
// tried as explicit commands first, then as natural language via the
// configured intent parser.
type Handler struct {
	catalog   *catalog.Catalog
	profiles  profile.Store
	telemetry *telemetry.Logger
	parser    IntentParser
}

// NewHandler creates a bot handler. A nil parser falls back to regex
// intent recognition.
func NewHandler(cat *catalog.Catalog, profiles profile.Store, tel *telemetry.Logger, parser IntentParser) *Handler {
	if parser == nil {
		parser = RegexParser{}
	}
	return &Handler{catalog: cat, profiles: profiles, telemetry: tel, parser: parser}
}

// HandleMessage processes one incoming message and returns the reply.
func (h *Handler) HandleMessage(ctx context.Context, text, correlationID string) Response {
	start := time.Now()
	command, positional, flags := parseMessage(text)

	switch command {
	case "recommend":
		return h.recommend(firstNonEmpty(positional, flags["interests"]), flags["top"], correlationID, start)
	case "explain":
		title := firstNonEmpty(flags["session"], strings.Trim(positional, `"`))
		return h.explain(title, flags["interests"], correlationID, start)
	case "export":
		return h.export(ctx, firstNonEmpty(positional, flags["interests"]), flags["profile"], correlationID, start)
	case "help":
		return Response{Text: helpText}
	default:
		return h.naturalLanguage(ctx, text, correlationID, start)
	}
}

func (h *Handler) recommend(interests, topFlag, correlationID string, start time.Time) Response {
	if interests == "" {
		return Response{Text: "Please provide interests. Usage: `recommend agents, ai safety --top 3`"}
	}

	top := h.catalog.DefaultTop()
	if v, err := strconv.Atoi(topFlag); err == nil && v > 0 {
		top = v
	}

	normalized := validation.NormalizeInterests(interests)
	rec := ranking.Recommend(h.catalog.Sessions(), normalized, h.catalog.Weights(), top)

	h.telemetry.Log("bot_recommend", map[string]any{"interests": normalized, "top": top},
		start, true, "", correlationID)

	return Response{
		Text: fmt.Sprintf("Found %d recommended sessions based on: %s", len(rec.Sessions), interests),
		Card: RecommendationsCard(rec.Sessions),
	}
}

func (h *Handler) explain(title, interests, correlationID string, start time.Time) Response {
	if title == "" || interests == "" {
		return Response{Text: "Usage: `explain \"Session Title\" --interests agents, ai safety`"}
	}

	normalized := validation.NormalizeInterests(interests)
	exp := ranking.Explain(h.catalog.Sessions(), title, normalized, h.catalog.Weights())

	h.telemetry.Log("bot_explain", map[string]any{"session": title, "found": exp.Found},
		start, true, "", correlationID)

	return Response{Text: ExplanationMarkdown(exp)}
}

func (h *Handler) export(ctx context.Context, interests, profileName, correlationID string, start time.Time) Response {
	if interests == "" {
		return Response{Text: "Usage: `export agents, ai safety --profile my_profile`"}
	}

	normalized := validation.NormalizeInterests(interests)
	rec := ranking.Recommend(h.catalog.Sessions(), normalized, h.catalog.Weights(), h.catalog.DefaultTop())
	text := ItineraryMarkdown(normalized, rec)

	if profileName != "" && h.profiles != nil {
		if err := h.profiles.Save(ctx, profileName, normalized); err != nil {
			log.Printf("[bot] failed to save profile %s: %v", profileName, err)
		} else {
			text += fmt.Sprintf("\n\nProfile '%s' saved.", profileName)
		}
	}

	h.telemetry.Log("bot_export", map[string]any{"interests": normalized, "sessions": len(rec.Sessions)},
		start, true, "", correlationID)

	return Response{Text: text}
}

func (h *Handler) naturalLanguage(ctx context.Context, text, correlationID string, start time.Time) Response {
	intent, err := h.parser.Parse(ctx, text)
	if err != nil {
		// Language model failures degrade to regex parsing.
		log.Printf("[bot] intent parser failed, falling back to regex: %v", err)
		intent, _ = RegexParser{}.Parse(ctx, text)
	}

	switch intent.Kind {
	case IntentRecommend:
		if intent.Interests == "" {
			return Response{Text: "I can help find sessions! Try: `recommend agents, ai safety`"}
		}
		return h.recommend(intent.Interests, "", correlationID, start)
	case IntentExplain:
		if intent.SessionTitle == "" {
			return Response{Text: "Which session should I explain? Try: `explain \"Session Title\" --interests agents`"}
		}
		return h.explain(intent.SessionTitle, intent.Interests, correlationID, start)
	case IntentExport:
		return h.export(ctx, intent.Interests, "", correlationID, start)
	default:
		return Response{Text: "I can help with session recommendations. Type `help` for available commands."}
	}
}

// parseMessage splits a message into a command word, the positional text
// before the first flag, and --flag parameters. Flag values run until the
// next flag.
func parseMessage(message string) (command, positional string, flags map[string]string) {
	flags = map[string]string{}
	parts := strings.Fields(message)
	if len(parts) == 0 {
		return "help", "", flags
	}

	command = strings.ToLower(parts[0])

	i := 1
	for i < len(parts) {
		if strings.HasPrefix(parts[i], "--") {
			key := strings.TrimPrefix(parts[i], "--")
			j := i + 1
			var value []string
			for j < len(parts) && !strings.HasPrefix(parts[j], "--") {
				value = append(value, parts[j])
				j++
			}
			if len(value) > 0 {
				flags[key] = strings.Join(value, " ")
			} else {
				flags[key] = "true"
			}
			i = j
		} else {
			j := i
			var value []string
			for j < len(parts) && !strings.HasPrefix(parts[j], "--") {
				value = append(value, parts[j])
				j++
			}
			if positional == "" {
				positional = strings.Join(value, " ")
			}
			i = j
		}
	}

	return command, positional, flags
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
