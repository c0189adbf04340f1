// Package validation provides boundary validation and normalization for user input.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Input length caps, matching the API contract.
const (
	MaxInterestsLength = 500
	MaxUserIDLength    = 255
	MaxTitleLength     = 200
)

var (
	interestsPattern = regexp.MustCompile(`^[a-zA-Z0-9\s,\-]+$`)
	titlePattern     = regexp.MustCompile(`^[a-zA-Z0-9\s,\-:?!()'.]+$`)

	validate = validator.New()
)

// InvalidInputError indicates user input that failed boundary validation.
type InvalidInputError struct {
	Field   string
	Message string
}

func (e *InvalidInputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

// NormalizeInterests lowercases a raw interests string and splits it on
// commas and semicolons, trimming whitespace and dropping empty tokens.
// Normalization is a caller responsibility; the ranking engine expects
// already-normalized interests.
func NormalizeInterests(raw string) []string {
	norm := strings.ToLower(strings.ReplaceAll(raw, ";", ","))
	parts := strings.Split(norm, ",")

	interests := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			interests = append(interests, p)
		}
	}
	return interests
}

// ValidateInterests checks a raw interests string before normalization.
func ValidateInterests(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return &InvalidInputError{Field: "interests", Message: "interests cannot be empty"}
	}
	if len(raw) > MaxInterestsLength {
		return &InvalidInputError{
			Field:   "interests",
			Message: fmt.Sprintf("interests too long (max %d chars)", MaxInterestsLength),
		}
	}
	if !interestsPattern.MatchString(raw) {
		return &InvalidInputError{Field: "interests", Message: "interests contain invalid characters"}
	}
	return nil
}

// ValidateUserID checks that a user ID is a plausible email address.
func ValidateUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return &InvalidInputError{Field: "user_id", Message: "user ID cannot be empty"}
	}
	if len(userID) > MaxUserIDLength {
		return &InvalidInputError{
			Field:   "user_id",
			Message: fmt.Sprintf("user ID too long (max %d chars)", MaxUserIDLength),
		}
	}
	if err := validate.Var(userID, "email"); err != nil {
		return &InvalidInputError{Field: "user_id", Message: "user ID must be a valid email address"}
	}
	return nil
}

// ValidateSessionTitle checks a session title lookup string.
func ValidateSessionTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return &InvalidInputError{Field: "session", Message: "session title cannot be empty"}
	}
	if len(title) > MaxTitleLength {
		return &InvalidInputError{
			Field:   "session",
			Message: fmt.Sprintf("session title too long (max %d chars)", MaxTitleLength),
		}
	}
	if !titlePattern.MatchString(title) {
		return &InvalidInputError{Field: "session", Message: "session title contains invalid characters"}
	}
	return nil
}

// ValidateTop checks the requested result-size cap. The engine itself
// tolerates non-positive values; boundaries fail fast instead.
func ValidateTop(top int) error {
	if top < 1 {
		return &InvalidInputError{Field: "top", Message: "top must be a positive integer"}
	}
	return nil
}
