package middleware

import (
	"errors"
	"net/http"

	"github.com/aloks98/devconnector/token"
)

// Verifier verifies a token and returns the identity it proves.
// *token.Service satisfies it.
type Verifier interface {
	Verify(tokenString string) (token.Identity, error)
}

// ErrMissingToken indicates the request carried no token.
var ErrMissingToken = errors.New("missing authentication token")

// Outcome is the terminal state of a guarded request.
type Outcome int

// Guard outcomes.
const (
	Authorized Outcome = iota + 1
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Authorized:
		return "authorized"
	case Rejected:
		return "rejected"
	default:
		return "pending"
	}
}

// Decision describes how the guard resolved one request.
type Decision struct {
	Outcome  Outcome
	Identity token.Identity

	// Reason is nil when authorized.
	Reason error
}

// ReasonLabel classifies the decision for logs and metrics:
// "none", "missing", "expired" or "invalid".
func (d Decision) ReasonLabel() string {
	switch {
	case d.Reason == nil:
		return "none"
	case errors.Is(d.Reason, ErrMissingToken):
		return "missing"
	case errors.Is(d.Reason, token.ErrExpiredToken):
		return "expired"
	default:
		return "invalid"
	}
}

// Observer receives every guard decision.
type Observer func(r *http.Request, d Decision)

// Authenticate creates a middleware that requires a valid token.
// On success the identity is attached to the request context; on failure
// the error handler responds and next is never called.
func Authenticate(verifier Verifier, cfg *Config) func(http.Handler) http.Handler {
	cfg = cfg.withDefaults()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := cfg.TokenExtractor(r)
			if raw == "" {
				reject(cfg, w, r, ErrMissingToken)
				return
			}

			id, err := verifier.Verify(raw)
			if err != nil {
				reject(cfg, w, r, err)
				return
			}

			if cfg.Observer != nil {
				cfg.Observer(r, Decision{Outcome: Authorized, Identity: id})
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func reject(cfg *Config, w http.ResponseWriter, r *http.Request, err error) {
	if cfg.Observer != nil {
		cfg.Observer(r, Decision{Outcome: Rejected, Reason: err})
	}
	cfg.ErrorHandler(w, r, err)
}
