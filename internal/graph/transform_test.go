package graph

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEvent(t *testing.T, raw string) graphEvent {
	t.Helper()
	var event graphEvent
	require.NoError(t, json.Unmarshal([]byte(raw), &event))
	return event
}

func TestTransformEvents_SkipsCancelledAndInvalid(t *testing.T) {
	events := []graphEvent{
		decodeEvent(t, `{
			"id": "a", "subject": "Keynote", "isCancelled": true,
			"start": {"dateTime": "2026-08-24T09:00:00"},
			"end": {"dateTime": "2026-08-24T10:00:00"}
		}`),
		decodeEvent(t, `{
			"id": "b", "subject": "Broken times",
			"start": {"dateTime": "not-a-time"},
			"end": {"dateTime": "2026-08-24T10:00:00"}
		}`),
		decodeEvent(t, `{
			"id": "c", "subject": "Workshop",
			"start": {"dateTime": "2026-08-24T11:00:00"},
			"end": {"dateTime": "2026-08-24T12:00:00"}
		}`),
	}

	sessions := transformEvents(events)
	require.Len(t, sessions, 1)
	assert.Equal(t, "Workshop", sessions[0].Title)
	assert.Equal(t, "11:00", sessions[0].Start)
	assert.Equal(t, "12:00", sessions[0].End)
}

func TestTransformEvents_UntitledFallback(t *testing.T) {
	events := []graphEvent{decodeEvent(t, `{
		"id": "a",
		"start": {"dateTime": "2026-08-24T09:00:00"},
		"end": {"dateTime": "2026-08-24T10:00:00"}
	}`)}

	sessions := transformEvents(events)
	require.Len(t, sessions, 1)
	assert.Equal(t, "Untitled Event", sessions[0].Title)
}

func TestExtractTags_CategoriesPlusFlagsCapped(t *testing.T) {
	event := decodeEvent(t, `{
		"categories": ["a", "b", "c", "d"],
		"isOnlineMeeting": true,
		"isReminderOn": true
	}`)

	tags := extractTags(event)
	assert.Equal(t, []string{"a", "b", "c", "d", "online"}, tags)
}

func TestCalculatePopularity(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"bare event gets base score", `{}`, 0.25},
		{"body adds a tenth", `{"bodyPreview": "agenda"}`, 0.35},
		{
			"attendees capped at point three",
			`{"attendees": [{}, {}, {}, {}, {}, {}, {}, {}]}`,
			0.55,
		},
		{
			"everything caps at one",
			`{"bodyPreview": "x", "attendees": [{}, {}, {}, {}, {}, {}],
			  "location": {"displayName": "Hall A"}, "isOnlineMeeting": true}`,
			0.95,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := decodeEvent(t, tt.raw)
			assert.InDelta(t, tt.want, calculatePopularity(event), 1e-9)
		})
	}
}

func TestExtractDescription_StripsHTML(t *testing.T) {
	event := decodeEvent(t, `{
		"body": {
			"contentType": "html",
			"content": "<html><body><p>Deep dive into <b>agent</b> design.</p></body></html>"
		}
	}`)

	assert.Equal(t, "Deep dive into agent design.", extractDescription(event))
}

func TestExtractDescription_PreviewFallback(t *testing.T) {
	event := decodeEvent(t, `{"bodyPreview": "Quarterly   sync"}`)
	assert.Equal(t, "Quarterly sync", extractDescription(event))
}
