package ranking

import (
	"sort"
	"strings"

	"github.com/eventkit/eventkit/internal/types"
)

// Recommend scores every candidate session, ranks them by descending score
// and returns the top N together with the per-session scoring breakdown and
// the conflict count among the returned sessions only.
//
// Ties keep the candidate-pool order (stable sort). A topN of zero or less
// yields an empty result; callers that want fail-fast behavior validate
// before calling.
func Recommend(sessions []types.Session, interests []string, w types.Weights, topN int) types.Recommendation {
	scored := make([]types.ScoredSession, 0, len(sessions))
	for _, s := range sessions {
		scored = append(scored, ScoreSession(s, interests, w))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if topN < 0 {
		topN = 0
	}
	if topN > len(scored) {
		topN = len(scored)
	}
	ranked := scored[:topN]

	result := types.Recommendation{
		Sessions: make([]types.Session, 0, len(ranked)),
		Scoring:  make([]types.SessionScore, 0, len(ranked)),
	}
	for _, r := range ranked {
		result.Sessions = append(result.Sessions, r.Session)
		result.Scoring = append(result.Scoring, types.SessionScore{
			Title:         r.Session.Title,
			Score:         r.Score,
			Contributions: r.Contributions,
		})
	}
	result.Conflicts = CountConflicts(result.Sessions)

	return result
}

// Explain looks up one session by case-insensitive exact title match and
// returns its score breakdown plus the tags that matched an interest.
// An unknown title yields a not-found result, never an error.
func Explain(sessions []types.Session, title string, interests []string, w types.Weights) types.Explanation {
	for _, s := range sessions {
		if !strings.EqualFold(s.Title, title) {
			continue
		}
		detail := ScoreSession(s, interests, w)
		return types.Explanation{
			Found:         true,
			Title:         s.Title,
			Score:         detail.Score,
			Contributions: &detail.Contributions,
			MatchedTags:   matchedTags(s, interests),
		}
	}
	return types.Explanation{
		Title: title,
		Error: "session not found",
	}
}
