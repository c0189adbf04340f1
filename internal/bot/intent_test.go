package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, message string) Intent {
	t.Helper()
	intent, err := RegexParser{}.Parse(context.Background(), message)
	require.NoError(t, err)
	return intent
}

func TestParse_RecommendWithPattern(t *testing.T) {
	intent := parse(t, "I'm interested in ai safety, agents. What do you recommend?")
	assert.Equal(t, IntentRecommend, intent.Kind)
	assert.Equal(t, "ai safety, agents", intent.Interests)
}

func TestParse_RecommendKeywordFallback(t *testing.T) {
	intent := parse(t, "recommend something with ml and telemetry please")
	assert.Equal(t, IntentRecommend, intent.Kind)
	assert.Contains(t, intent.Interests, "ml")
	assert.Contains(t, intent.Interests, "telemetry")
}

func TestParse_ExplainQuotedTitle(t *testing.T) {
	intent := parse(t, `Why was "Generative Agents in Production" a good match? My interests: agents`)
	assert.Equal(t, IntentExplain, intent.Kind)
	assert.Equal(t, "Generative Agents in Production", intent.SessionTitle)
	assert.Equal(t, "agents", intent.Interests)
}

func TestParse_ExplainAboutPhrase(t *testing.T) {
	intent := parse(t, "tell me about the keynote")
	assert.Equal(t, IntentExplain, intent.Kind)
	assert.Equal(t, "the keynote", intent.SessionTitle)
}

func TestParse_Export(t *testing.T) {
	intent := parse(t, "build an itinerary for agents, edge computing")
	assert.Equal(t, IntentExport, intent.Kind)
	assert.Equal(t, "agents, edge computing", intent.Interests)
}

func TestParse_General(t *testing.T) {
	intent := parse(t, "hello there")
	assert.Equal(t, IntentGeneral, intent.Kind)
	assert.Empty(t, intent.Interests)
	assert.Empty(t, intent.SessionTitle)
}
