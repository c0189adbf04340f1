// Package bot adapts the recommendation engine to a chat surface: intent
// parsing, adaptive cards and markdown replies.
package bot

import (
	"context"
	"regexp"
	"strings"
)

// Intent kinds recognized from free-form messages.
const (
	IntentRecommend = "recommend"
	IntentExplain   = "explain"
	IntentExport    = "export"
	IntentGeneral   = "general"
)

// Intent is the result of parsing a user message.
type Intent struct {
	Kind         string `json:"intent"`
	Interests    string `json:"interests"`
	SessionTitle string `json:"session_title"`
}

// IntentParser extracts an Intent from a free-form message.
type IntentParser interface {
	Parse(ctx context.Context, message string) (Intent, error)
}

var (
	recommendWords = []string{"recommend", "suggest", "find", "show", "interested in", "looking for"}
	explainWords   = []string{"explain", "why", "tell me about", "what about"}
	exportWords    = []string{"export", "itinerary", "schedule", "agenda"}

	interestPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:interested in|about|regarding)\s+([^.!?]+)`),
		regexp.MustCompile(`(?:sessions? (?:on|about))\s+([^.!?]+)`),
		regexp.MustCompile(`(?:looking for)\s+([^.!?]+)`),
	}
	topicKeywords  = regexp.MustCompile(`\b(?:ai|agents?|ml|machine learning|llm|nlp|gen ai|safety|privacy|security|telemetry|monitoring)\b`)
	quotedTitle    = regexp.MustCompile(`"([^"]+)"`)
	aboutTitle     = regexp.MustCompile(`about\s+([^.!?]+)`)
	explicitInts   = regexp.MustCompile(`(?:interested in|interests?:?)\s+([^.!?]+)`)
	exportInterest = regexp.MustCompile(`(?:for|about|with)\s+([^.!?]+)`)
)

// RegexParser recognizes intents with keyword and pattern matching. It is
// the fallback when no language model is configured.
type RegexParser struct{}

// Parse never fails; unrecognized messages yield a general intent.
func (RegexParser) Parse(_ context.Context, message string) (Intent, error) {
	lower := strings.ToLower(message)

	switch {
	case containsAny(lower, recommendWords):
		intent := Intent{Kind: IntentRecommend}
		for _, pattern := range interestPatterns {
			if m := pattern.FindStringSubmatch(lower); m != nil {
				intent.Interests = strings.TrimSpace(m[1])
				break
			}
		}
		if intent.Interests == "" {
			if keywords := topicKeywords.FindAllString(lower, -1); keywords != nil {
				intent.Interests = strings.Join(dedupe(keywords), ", ")
			}
		}
		return intent, nil

	case containsAny(lower, explainWords):
		intent := Intent{Kind: IntentExplain}
		// Quoted titles keep their original casing.
		if m := quotedTitle.FindStringSubmatch(message); m != nil {
			intent.SessionTitle = m[1]
		} else if m := aboutTitle.FindStringSubmatch(lower); m != nil {
			intent.SessionTitle = strings.TrimSpace(m[1])
		}
		if m := explicitInts.FindStringSubmatch(lower); m != nil {
			intent.Interests = strings.TrimSpace(m[1])
		}
		return intent, nil

	case containsAny(lower, exportWords):
		intent := Intent{Kind: IntentExport}
		if m := exportInterest.FindStringSubmatch(lower); m != nil {
			intent.Interests = strings.TrimSpace(m[1])
		}
		return intent, nil
	}

	return Intent{Kind: IntentGeneral}, nil
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}
