// Package server provides the HTTP REST API for eventkit.
package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/eventkit/eventkit/internal/graph"
	"github.com/eventkit/eventkit/internal/validation"
)

// ErrGraphNotConfigured indicates calendar integration is disabled or
// missing credentials.
type ErrGraphNotConfigured struct {
	Missing []string
}

func (e *ErrGraphNotConfigured) Error() string {
	if len(e.Missing) > 0 {
		return "calendar integration not configured: " + strings.Join(e.Missing, ", ")
	}
	return "calendar integration not configured"
}

// ErrTokenUnavailable indicates token issuing is not configured.
type ErrTokenUnavailable struct{}

func (e *ErrTokenUnavailable) Error() string {
	return "token issuing not configured (JWT_SECRET not set)"
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	var invalid *validation.InvalidInputError
	if errors.As(err, &invalid) {
		return http.StatusBadRequest
	}

	var authErr *graph.AuthError
	var svcErr *graph.ServiceError
	if errors.As(err, &authErr) || errors.As(err, &svcErr) {
		return http.StatusBadGateway
	}

	var notConfigured *ErrGraphNotConfigured
	var noToken *ErrTokenUnavailable
	if errors.As(err, &notConfigured) || errors.As(err, &noToken) {
		return http.StatusServiceUnavailable
	}

	return http.StatusInternalServerError
}
