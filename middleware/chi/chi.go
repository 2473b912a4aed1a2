// Package chi provides Chi middleware for devconnector authentication.
// Chi uses standard net/http middleware, so this package provides
// aliases and helpers for convenience.
package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aloks98/devconnector/middleware"
	"github.com/aloks98/devconnector/token"
)

// Config is an alias for middleware.Config.
type Config = middleware.Config

// Verifier is an alias for middleware.Verifier.
type Verifier = middleware.Verifier

// Decision is an alias for middleware.Decision.
type Decision = middleware.Decision

// DefaultConfig returns a default middleware configuration.
func DefaultConfig() *Config {
	return middleware.DefaultConfig()
}

// Authenticate creates a Chi middleware that requires a valid token.
func Authenticate(verifier Verifier, cfg *Config) func(http.Handler) http.Handler {
	return middleware.Authenticate(verifier, cfg)
}

// Identity retrieves the authenticated identity from the request.
func Identity(r *http.Request) (token.Identity, bool) {
	return middleware.IdentityFrom(r.Context())
}

// UserID retrieves the authenticated user id, or "" when unauthenticated.
func UserID(r *http.Request) string {
	id, _ := middleware.IdentityFrom(r.Context())
	return id.UserID
}

// URLParam returns a URL parameter from Chi's route context.
func URLParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}
