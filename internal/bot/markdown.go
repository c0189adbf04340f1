package bot

import (
	"fmt"
	"strings"

	"github.com/eventkit/eventkit/internal/types"
)

// ItineraryMarkdown renders a recommendation as a markdown itinerary.
func ItineraryMarkdown(interests []string, rec types.Recommendation) string {
	lines := []string{"# Event Itinerary"}
	lines = append(lines, fmt.Sprintf("\n**Recommended for:** %s\n", strings.Join(interests, ", ")))

	for _, session := range rec.Sessions {
		title := session.Title
		if title == "" {
			title = "Unknown Session"
		}
		lines = append(lines, fmt.Sprintf("## %s", title))
		lines = append(lines, fmt.Sprintf("\nTime: %s - %s | Location: %s",
			orUnknown(session.Start), orUnknown(session.End), orUnknown(session.Location)))
		if len(session.Tags) > 0 {
			lines = append(lines, fmt.Sprintf("Tags: %s\n", strings.Join(session.Tags, ", ")))
		} else {
			lines = append(lines, "")
		}
	}

	return strings.Join(lines, "\n")
}

// ExplanationMarkdown renders an explanation as chat-friendly markdown.
func ExplanationMarkdown(exp types.Explanation) string {
	if !exp.Found {
		return fmt.Sprintf("Session %q was not found in the catalog.", exp.Title)
	}

	lines := []string{
		fmt.Sprintf("**%s** scores **%.3f**", exp.Title, exp.Score),
	}
	if exp.Contributions != nil {
		lines = append(lines,
			fmt.Sprintf("- Interest match: %.3f", exp.Contributions.InterestMatch),
			fmt.Sprintf("- Popularity: %.3f", exp.Contributions.Popularity),
			fmt.Sprintf("- Diversity: %.3f", exp.Contributions.Diversity),
		)
	}
	if len(exp.MatchedTags) > 0 {
		lines = append(lines, fmt.Sprintf("Matched tags: %s", strings.Join(exp.MatchedTags, ", ")))
	}
	return strings.Join(lines, "\n")
}
