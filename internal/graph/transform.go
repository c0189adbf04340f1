package graph

import (
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/eventkit/eventkit/internal/types"
)

// maxTags caps the number of tags derived from one event.
const maxTags = 5

// maxDescriptionLength caps the session description extracted from the
// event body.
const maxDescriptionLength = 500

// graphEvent mirrors the Graph API calendarview event shape, limited to the
// fields the transform uses.
type graphEvent struct {
	ID          string `json:"id"`
	Subject     string `json:"subject"`
	IsCancelled bool   `json:"isCancelled"`
	Start       struct {
		DateTime string `json:"dateTime"`
		TimeZone string `json:"timeZone"`
	} `json:"start"`
	End struct {
		DateTime string `json:"dateTime"`
		TimeZone string `json:"timeZone"`
	} `json:"end"`
	Location struct {
		DisplayName string `json:"displayName"`
	} `json:"location"`
	Categories      []string `json:"categories"`
	IsOnlineMeeting bool     `json:"isOnlineMeeting"`
	IsReminderOn    bool     `json:"isReminderOn"`
	BodyPreview     string   `json:"bodyPreview"`
	Body            struct {
		ContentType string `json:"contentType"`
		Content     string `json:"content"`
	} `json:"body"`
	Attendees []struct {
		Type string `json:"type"`
	} `json:"attendees"`
}

// transformEvents converts Graph events into sessions. Cancelled events and
// events with unparseable times are skipped.
func transformEvents(events []graphEvent) []types.Session {
	sessions := make([]types.Session, 0, len(events))

	for _, event := range events {
		if event.IsCancelled {
			log.Printf("[graph] skipping cancelled event: %s", event.Subject)
			continue
		}

		start, okStart := parseEventTime(event.Start.DateTime)
		end, okEnd := parseEventTime(event.End.DateTime)
		if !okStart || !okEnd {
			log.Printf("[graph] skipping event with invalid times: %s", event.Subject)
			continue
		}

		title := event.Subject
		if title == "" {
			title = "Untitled Event"
		}

		sessions = append(sessions, types.Session{
			ID:          event.ID,
			Title:       title,
			Start:       start.Format("15:04"),
			End:         end.Format("15:04"),
			Location:    event.Location.DisplayName,
			Tags:        extractTags(event),
			Popularity:  calculatePopularity(event),
			Description: extractDescription(event),
		})
	}

	return sessions
}

func parseEventTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	// Graph omits the zone suffix and returns fractional seconds, e.g.
	// "2026-08-24T14:30:00.0000000".
	for _, layout := range []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.9999999",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func extractTags(event graphEvent) []string {
	tags := make([]string, 0, len(event.Categories)+2)
	tags = append(tags, event.Categories...)
	if event.IsOnlineMeeting {
		tags = append(tags, "online")
	}
	if event.IsReminderOn {
		tags = append(tags, "reminder")
	}
	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	return tags
}

// calculatePopularity synthesizes a 0..1 popularity score from event
// attributes, since Graph has no real popularity signal.
func calculatePopularity(event graphEvent) float64 {
	score := 0.25

	if event.BodyPreview != "" || event.Body.Content != "" {
		score += 0.1
	}
	if n := len(event.Attendees); n > 0 {
		attendeeScore := float64(n) * 0.05
		if attendeeScore > 0.3 {
			attendeeScore = 0.3
		}
		score += attendeeScore
	}
	if event.Location.DisplayName != "" {
		score += 0.2
	}
	if event.IsOnlineMeeting {
		score += 0.1
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// extractDescription returns plain text from the event body. HTML bodies are
// stripped of markup; the preview is used as a fallback.
func extractDescription(event graphEvent) string {
	text := event.BodyPreview

	if strings.EqualFold(event.Body.ContentType, "html") && event.Body.Content != "" {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(event.Body.Content))
		if err == nil {
			if stripped := strings.TrimSpace(doc.Text()); stripped != "" {
				text = stripped
			}
		}
	} else if event.Body.Content != "" {
		text = strings.TrimSpace(event.Body.Content)
	}

	text = strings.Join(strings.Fields(text), " ")
	if len(text) > maxDescriptionLength {
		text = text[:maxDescriptionLength]
	}
	return text
}
