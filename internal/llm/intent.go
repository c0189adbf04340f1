package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/eventkit/eventkit/internal/bot"
)

const intentPrompt = `Classify the intent of a message sent to a conference
session recommendation assistant and extract its parameters.

Intents:
- "recommend": the user wants session recommendations
- "explain": the user asks why a specific session matches
- "export": the user wants an itinerary or schedule
- "general": anything else

Respond with JSON only, using this shape:
{"intent": "...", "interests": "comma, separated, topics", "session_title": "..."}

Leave "interests" or "session_title" empty when not present.

Message: %q`

// IntentExtractor parses intents with a language model. It satisfies
// bot.IntentParser; callers fall back to regex parsing when it errors.
type IntentExtractor struct {
	client Client
}

// NewIntentExtractor creates an extractor backed by the given client.
func NewIntentExtractor(client Client) *IntentExtractor {
	return &IntentExtractor{client: client}
}

// Parse asks the model to classify the message.
func (e *IntentExtractor) Parse(ctx context.Context, message string) (bot.Intent, error) {
	raw, err := e.client.GenerateJSON(ctx, fmt.Sprintf(intentPrompt, message))
	if err != nil {
		return bot.Intent{}, fmt.Errorf("intent extraction failed: %w", err)
	}

	var intent bot.Intent
	if err := json.Unmarshal([]byte(raw), &intent); err != nil {
		return bot.Intent{}, fmt.Errorf("failed to decode intent JSON: %w", err)
	}

	switch intent.Kind {
	case bot.IntentRecommend, bot.IntentExplain, bot.IntentExport, bot.IntentGeneral:
	default:
		intent.Kind = bot.IntentGeneral
	}
	return intent, nil
}
