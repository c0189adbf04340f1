// Package types provides type definitions for structured data used throughout the eventkit system.
package types

// Session represents a recommendable conference session or calendar event.
// Start and End are opaque slot labels (e.g. "10:00"); conflict detection
// compares them for equality and never does time arithmetic.
type Session struct {
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title"`
	Tags        []string `json:"tags,omitempty"`
	Popularity  float64  `json:"popularity"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Location    string   `json:"location,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Weights holds the scalar multipliers for the three scoring components.
type Weights struct {
	Interest   float64 `json:"interest"`
	Popularity float64 `json:"popularity"`
	Diversity  float64 `json:"diversity"`
}

// DefaultCalendarWeights returns the weights used for calendar-sourced
// recommendations when the caller does not supply its own.
func DefaultCalendarWeights() Weights {
	return Weights{Interest: 2.0, Popularity: 0.5, Diversity: 0.3}
}

// Contributions is the per-component score breakdown for one session.
type Contributions struct {
	InterestMatch float64 `json:"interest_match"`
	Popularity    float64 `json:"popularity"`
	Diversity     float64 `json:"diversity"`
}

// ScoredSession pairs a session with its computed score and breakdown.
type ScoredSession struct {
	Session       Session       `json:"session"`
	Score         float64       `json:"score"`
	Contributions Contributions `json:"contributions"`
}

// SessionScore is the scoring entry reported alongside each ranked session.
type SessionScore struct {
	Title         string        `json:"title"`
	Score         float64       `json:"score"`
	Contributions Contributions `json:"contributions"`
}

// Recommendation is the ranked result of a recommend call. Sessions and
// Scoring are parallel slices in the same order.
type Recommendation struct {
	Sessions  []Session      `json:"sessions"`
	Scoring   []SessionScore `json:"scoring"`
	Conflicts int            `json:"conflicts"`
	Source    string         `json:"source,omitempty"`
	Message   string         `json:"message,omitempty"`
	UserID    string         `json:"userId,omitempty"`
}

// Explanation is the result of explaining a single session's score.
// When the title does not match any session, Found is false and Error
// carries the user-facing message; no exception-style error is returned.
type Explanation struct {
	Found         bool           `json:"-"`
	Title         string         `json:"title"`
	Score         float64        `json:"score,omitempty"`
	Contributions *Contributions `json:"contributions,omitempty"`
	MatchedTags   []string       `json:"matched_tags,omitempty"`
	Error         string         `json:"error,omitempty"`
}
