package bot

import (
	"fmt"

	"github.com/eventkit/eventkit/internal/types"
)

// CardSchema is the Adaptive Cards JSON schema URL.
const CardSchema = "http://adaptivecards.io/schemas/adaptive-card.json"

// CardVersion is the Adaptive Cards version emitted.
const CardVersion = "1.5"

// AdaptiveCard is an Adaptive Card payload for chat clients.
type AdaptiveCard struct {
	Type    string        `json:"type"`
	Version string        `json:"version"`
	Body    []CardElement `json:"body"`
	Actions []CardAction  `json:"actions"`
	Schema  string        `json:"$schema"`
}

// CardElement is a body element, either a TextBlock or a Container.
type CardElement struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	Weight   string        `json:"weight,omitempty"`
	Size     string        `json:"size,omitempty"`
	IsSubtle bool          `json:"isSubtle,omitempty"`
	Spacing  string        `json:"spacing,omitempty"`
	Items    []CardElement `json:"items,omitempty"`
}

// CardAction is a submit action carrying session data.
type CardAction struct {
	Type  string         `json:"type"`
	Title string         `json:"title"`
	Data  map[string]any `json:"data"`
}

// RecommendationsCard builds an adaptive card listing the recommended
// sessions, with one explain action per session.
func RecommendationsCard(sessions []types.Session) *AdaptiveCard {
	card := &AdaptiveCard{
		Type:    "AdaptiveCard",
		Version: CardVersion,
		Schema:  CardSchema,
		Body: []CardElement{
			{Type: "TextBlock", Text: "Event Recommendations", Weight: "Bolder", Size: "Medium"},
		},
		Actions: []CardAction{},
	}

	for i, session := range sessions {
		card.Body = append(card.Body, CardElement{
			Type: "Container",
			Items: []CardElement{
				{
					Type:   "TextBlock",
					Text:   fmt.Sprintf("%d. %s", i+1, session.Title),
					Weight: "Bolder",
				},
				{
					Type:     "TextBlock",
					Text:     fmt.Sprintf("%s - %s @ %s", orUnknown(session.Start), orUnknown(session.End), orUnknown(session.Location)),
					IsSubtle: true,
					Spacing:  "None",
				},
			},
		})
		card.Actions = append(card.Actions, CardAction{
			Type:  "Action.Submit",
			Title: fmt.Sprintf("Explain #%d", i+1),
			Data: map[string]any{
				"action":       "explainSession",
				"sessionTitle": session.Title,
				"start":        session.Start,
				"end":          session.End,
				"room":         session.Location,
			},
		})
	}

	return card
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}
