package types

import (
	"github.com/go-playground/validator/v10"
)

// TokenRequest is the request body for issuing an API token.
// User IDs are email addresses, matching the Graph user identity format.
type TokenRequest struct {
	UserID string `json:"user_id" validate:"required,email,max=255"`
}

// BotMessage is an incoming chat message routed to the bot handler.
type BotMessage struct {
	Text   string `json:"text" validate:"required,min=1"`
	UserID string `json:"user_id,omitempty" validate:"omitempty,email"`
}

// Validate validates the TokenRequest using the validator.
func (r *TokenRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the BotMessage using the validator.
func (m *BotMessage) Validate() error {
	validate := validator.New()
	return validate.Struct(m)
}
