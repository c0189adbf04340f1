package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventkit/eventkit/internal/bot"
)

type stubClient struct {
	response string
	err      error
}

func (s stubClient) GenerateJSON(context.Context, string) (string, error) {
	return s.response, s.err
}

func (s stubClient) Close() error { return nil }

func TestParse_DecodesIntent(t *testing.T) {
	extractor := NewIntentExtractor(stubClient{
		response: `{"intent": "recommend", "interests": "ai safety, agents", "session_title": ""}`,
	})

	intent, err := extractor.Parse(context.Background(), "find me something on ai safety")
	require.NoError(t, err)
	assert.Equal(t, bot.IntentRecommend, intent.Kind)
	assert.Equal(t, "ai safety, agents", intent.Interests)
}

func TestParse_UnknownIntentBecomesGeneral(t *testing.T) {
	extractor := NewIntentExtractor(stubClient{response: `{"intent": "weather"}`})

	intent, err := extractor.Parse(context.Background(), "what's the weather")
	require.NoError(t, err)
	assert.Equal(t, bot.IntentGeneral, intent.Kind)
}

func TestParse_ModelErrorPropagates(t *testing.T) {
	extractor := NewIntentExtractor(stubClient{err: errors.New("quota exceeded")})

	_, err := extractor.Parse(context.Background(), "anything")
	require.Error(t, err)
}

func TestParse_MalformedJSONErrors(t *testing.T) {
	extractor := NewIntentExtractor(stubClient{response: "not json"})

	_, err := extractor.Parse(context.Background(), "anything")
	require.Error(t, err)
}

func TestCleanJSONBlock(t *testing.T) {
	assert.Equal(t, `{"a":1}`, cleanJSONBlock("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanJSONBlock(`{"a":1}`))
}
