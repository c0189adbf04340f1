package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeInterests(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"comma separated", "ai, agents", []string{"ai", "agents"}},
		{"semicolons treated as commas", "AI;Agents; gen ai", []string{"ai", "agents", "gen ai"}},
		{"lowercased and trimmed", "  AI Safety ,  ML ", []string{"ai safety", "ml"}},
		{"empty tokens dropped", "ai,,;,agents", []string{"ai", "agents"}},
		{"empty input", "", []string{}},
		{"only separators", " , ; ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeInterests(tt.raw))
		})
	}
}

func TestValidateInterests(t *testing.T) {
	assert.NoError(t, ValidateInterests("ai safety, agents"))

	err := ValidateInterests("")
	assert.Error(t, err)

	err = ValidateInterests(strings.Repeat("a", MaxInterestsLength+1))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "too long")

	err = ValidateInterests("ai; DROP TABLE sessions")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid characters")
}

func TestValidateUserID(t *testing.T) {
	assert.NoError(t, ValidateUserID("user@example.com"))

	assert.Error(t, ValidateUserID(""))
	assert.Error(t, ValidateUserID("not-an-email"))
	assert.Error(t, ValidateUserID(strings.Repeat("a", MaxUserIDLength)+"@example.com"))
}

func TestValidateSessionTitle(t *testing.T) {
	assert.NoError(t, ValidateSessionTitle("Generative Agents in Production"))
	assert.NoError(t, ValidateSessionTitle("What's Next? (Panel)"))

	assert.Error(t, ValidateSessionTitle(""))
	assert.Error(t, ValidateSessionTitle(strings.Repeat("x", MaxTitleLength+1)))
	assert.Error(t, ValidateSessionTitle("<script>alert(1)</script>"))
}

func TestValidateTop(t *testing.T) {
	assert.NoError(t, ValidateTop(1))
	assert.NoError(t, ValidateTop(50))

	for _, top := range []int{0, -3} {
		err := ValidateTop(top)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "positive integer")
	}
}

func TestInvalidInputError_Message(t *testing.T) {
	err := &InvalidInputError{Field: "interests", Message: "interests cannot be empty"}
	assert.Equal(t, "invalid interests: interests cannot be empty", err.Error())

	bare := &InvalidInputError{Message: "bad input"}
	assert.Equal(t, "bad input", bare.Error())
}
