// Package middleware provides the HTTP authentication guard.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aloks98/devconnector/token"
)

// contextKey is a type for context keys to avoid collisions.
type contextKey string

// IdentityKey is the context key for the authenticated identity.
const IdentityKey contextKey = "devconnector_identity"

// DefaultTokenHeader is the header the default extractor reads first.
const DefaultTokenHeader = "x-auth-token"

// TokenExtractor extracts a token from an HTTP request.
type TokenExtractor func(r *http.Request) string

// ErrorHandler handles authentication errors.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Config holds middleware configuration.
type Config struct {
	// TokenExtractor extracts the token from the request.
	// Defaults to the x-auth-token header, then Authorization: Bearer.
	TokenExtractor TokenExtractor

	// ErrorHandler writes the rejection response.
	// Defaults to a 401 JSON body.
	ErrorHandler ErrorHandler

	// Observer is notified of every guard decision. Optional.
	Observer Observer
}

// DefaultConfig returns a default middleware configuration.
func DefaultConfig() *Config {
	return &Config{
		TokenExtractor: DefaultExtractor(),
		ErrorHandler:   DefaultErrorHandler,
	}
}

// DefaultExtractor reads the x-auth-token header, then Authorization: Bearer,
// then each of extra in order.
func DefaultExtractor(extra ...TokenExtractor) TokenExtractor {
	extractors := append([]TokenExtractor{
		ExtractFromHeader(DefaultTokenHeader, ""),
		ExtractFromHeader("Authorization", "Bearer"),
	}, extra...)
	return ChainExtractors(extractors...)
}

// withDefaults fills unset fields from DefaultConfig.
func (c *Config) withDefaults() *Config {
	d := DefaultConfig()
	if c == nil {
		return d
	}
	out := *c
	if out.TokenExtractor == nil {
		out.TokenExtractor = d.TokenExtractor
	}
	if out.ErrorHandler == nil {
		out.ErrorHandler = d.ErrorHandler
	}
	return &out
}

// ExtractFromHeader creates a TokenExtractor that extracts from a header.
// With an empty scheme the whole header value is the token.
func ExtractFromHeader(header, scheme string) TokenExtractor {
	return func(r *http.Request) string {
		auth := strings.TrimSpace(r.Header.Get(header))
		if auth == "" {
			return ""
		}

		if scheme != "" {
			prefix := scheme + " "
			if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
				return strings.TrimSpace(auth[len(prefix):])
			}
			return ""
		}

		return auth
	}
}

// ExtractFromQuery creates a TokenExtractor that extracts from a query parameter.
func ExtractFromQuery(param string) TokenExtractor {
	return func(r *http.Request) string {
		return r.URL.Query().Get(param)
	}
}

// ExtractFromCookie creates a TokenExtractor that extracts from a cookie.
func ExtractFromCookie(name string) TokenExtractor {
	return func(r *http.Request) string {
		cookie, err := r.Cookie(name)
		if err != nil {
			return ""
		}
		return cookie.Value
	}
}

// ChainExtractors chains multiple extractors, returning the first non-empty result.
func ChainExtractors(extractors ...TokenExtractor) TokenExtractor {
	return func(r *http.Request) string {
		for _, extractor := range extractors {
			if token := extractor(r); token != "" {
				return token
			}
		}
		return ""
	}
}

// DefaultErrorHandler writes {"msg": ...} with the status for err.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(ErrorToHTTPStatus(err))
	_ = json.NewEncoder(w).Encode(map[string]string{"msg": RejectionMessage(err)})
}

// RejectionMessage returns the client-facing message for a guard error.
// Invalid and expired tokens share one message.
func RejectionMessage(err error) string {
	if errors.Is(err, ErrMissingToken) {
		return "No token, authorization denied"
	}
	return "Token is not valid"
}

// ErrorToHTTPStatus converts a guard error to an HTTP status code.
// Every rejection is 401 regardless of cause.
func ErrorToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return http.StatusUnauthorized
}

// WithIdentity stores the identity in the context.
func WithIdentity(ctx context.Context, id token.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

// IdentityFrom retrieves the identity stored by the guard.
func IdentityFrom(ctx context.Context) (token.Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(token.Identity)
	return id, ok
}
