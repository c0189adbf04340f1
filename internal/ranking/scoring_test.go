package ranking

import (
	"testing"

	"github.com/eventkit/eventkit/internal/types"
	"github.com/stretchr/testify/assert"
)

func defaultWeights() types.Weights {
	return types.Weights{Interest: 2.0, Popularity: 0.5, Diversity: 0.3}
}

func TestScoreSession_ReferenceScenario(t *testing.T) {
	session := types.Session{
		Title:      "A",
		Tags:       []string{"ai"},
		Popularity: 0.8,
		Start:      "9:00",
		End:        "10:00",
	}

	scored := ScoreSession(session, []string{"ai"}, defaultWeights())

	// 2.0*1 + 0.5*0.8 + 0.3*0.01*1
	assert.InDelta(t, 2.403, scored.Score, 1e-9)
	assert.InDelta(t, 2.0, scored.Contributions.InterestMatch, 1e-9)
	assert.InDelta(t, 0.4, scored.Contributions.Popularity, 1e-9)
	assert.InDelta(t, 0.003, scored.Contributions.Diversity, 1e-9)
}

func TestScoreSession_ScoreIsSumOfContributions(t *testing.T) {
	session := types.Session{
		Title:      "Observability Deep Dive",
		Tags:       []string{"telemetry", "monitoring", "ai"},
		Popularity: 0.65,
	}

	scored := ScoreSession(session, []string{"telemetry", "ai", "safety"}, defaultWeights())

	sum := scored.Contributions.InterestMatch +
		scored.Contributions.Popularity +
		scored.Contributions.Diversity
	assert.Equal(t, sum, scored.Score)
}

func TestScoreSession_TagMatchingIsCaseInsensitive(t *testing.T) {
	session := types.Session{
		Title: "Safety Keynote",
		Tags:  []string{"AI Safety"},
	}

	scored := ScoreSession(session, []string{"ai safety"}, defaultWeights())

	assert.InDelta(t, 2.0, scored.Contributions.InterestMatch, 1e-9)
}

func TestScoreSession_ExactEqualityNotSubstring(t *testing.T) {
	session := types.Session{
		Title: "Agents Panel",
		Tags:  []string{"agents"},
	}

	// "agent" is a substring of "agents" but must not match.
	scored := ScoreSession(session, []string{"agent"}, defaultWeights())

	assert.Equal(t, 0.0, scored.Contributions.InterestMatch)
}

func TestScoreSession_NoTags(t *testing.T) {
	session := types.Session{Title: "Untagged", Popularity: 0}

	scored := ScoreSession(session, []string{"ai"}, defaultWeights())

	assert.Equal(t, 0.0, scored.Contributions.InterestMatch)
	assert.Equal(t, 0.0, scored.Contributions.Popularity)
}

func TestScoreSession_EmptyInterests(t *testing.T) {
	session := types.Session{
		Title:      "A",
		Tags:       []string{"ai"},
		Popularity: 0.8,
	}

	scored := ScoreSession(session, nil, defaultWeights())

	assert.Equal(t, 0.0, scored.Contributions.InterestMatch)
	assert.Equal(t, 0.0, scored.Contributions.Diversity)
	assert.InDelta(t, 0.4, scored.Score, 1e-9)
}

func TestScoreSession_DuplicateInterestsCountOnceForDiversity(t *testing.T) {
	session := types.Session{Title: "A"}

	scored := ScoreSession(session, []string{"ai", "ai", "agents"}, defaultWeights())

	// Two distinct interests: 2 * 0.01 * 0.3.
	assert.InDelta(t, 0.006, scored.Contributions.Diversity, 1e-9)
}

func TestScoreSession_DiversityIsUniformAcrossSessions(t *testing.T) {
	interests := []string{"ai", "agents", "safety"}
	a := ScoreSession(types.Session{Title: "A", Tags: []string{"ai"}}, interests, defaultWeights())
	b := ScoreSession(types.Session{Title: "B", Tags: []string{"security", "privacy"}}, interests, defaultWeights())

	assert.Equal(t, a.Contributions.Diversity, b.Contributions.Diversity)
}
