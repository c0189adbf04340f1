// Package ranking scores and ranks candidate sessions against user interests.
package ranking

import (
	"strings"

	"github.com/eventkit/eventkit/internal/types"
)

// diversityScale dampens the diversity component so it acts as a small
// offset relative to interest and popularity.
const diversityScale = 0.01

// ScoreSession computes the weighted score for one session. Interests must
// already be normalized (lowercased, trimmed); tags are lowercased here.
//
// The diversity component depends only on the number of distinct interests,
// so it is identical for every session scored in the same call.
func ScoreSession(session types.Session, interests []string, w types.Weights) types.ScoredSession {
	hits := 0
	for _, tag := range session.Tags {
		lowered := strings.ToLower(tag)
		for _, interest := range interests {
			if lowered == interest {
				hits++
				break
			}
		}
	}

	distinct := make(map[string]struct{}, len(interests))
	for _, interest := range interests {
		distinct[interest] = struct{}{}
	}

	contributions := types.Contributions{
		InterestMatch: float64(hits) * w.Interest,
		Popularity:    session.Popularity * w.Popularity,
		Diversity:     float64(len(distinct)) * diversityScale * w.Diversity,
	}

	return types.ScoredSession{
		Session:       session,
		Score:         contributions.InterestMatch + contributions.Popularity + contributions.Diversity,
		Contributions: contributions,
	}
}

// matchedTags returns the session tags that case-insensitively equal one of
// the normalized interests, preserving the tags' original casing.
func matchedTags(session types.Session, interests []string) []string {
	var matched []string
	for _, tag := range session.Tags {
		lowered := strings.ToLower(tag)
		for _, interest := range interests {
			if lowered == interest {
				matched = append(matched, tag)
				break
			}
		}
	}
	return matched
}
