// Package api serves the devconnector REST API over chi.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aloks98/devconnector"
	"github.com/aloks98/devconnector/metrics"
	"github.com/aloks98/devconnector/middleware"
	mwchi "github.com/aloks98/devconnector/middleware/chi"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithMetrics records measurements to recorder and serves gatherer on /metrics.
func WithMetrics(recorder metrics.Recorder, gatherer prometheus.Gatherer) Option {
	return func(h *Handler) {
		if recorder != nil {
			h.recorder = recorder
		}
		if gatherer != nil {
			h.gatherer = gatherer
		}
	}
}

// WithTokenExtractor replaces where the guard looks for a token. Defaults to
// the x-auth-token header followed by Authorization: Bearer.
func WithTokenExtractor(extract middleware.TokenExtractor) Option {
	return func(h *Handler) {
		if extract != nil {
			h.extract = extract
		}
	}
}

// Handler holds all HTTP handlers for the API.
type Handler struct {
	conn     *devconnector.Connector
	logger   *slog.Logger
	recorder metrics.Recorder
	gatherer prometheus.Gatherer
	extract  middleware.TokenExtractor
}

// New creates a Handler backed by conn.
func New(conn *devconnector.Connector, opts ...Option) *Handler {
	h := &Handler{
		conn:     conn,
		logger:   slog.Default(),
		recorder: metrics.Nop{},
		gatherer: prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the router serving the whole API.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(h.instrument)

	guardCfg := mwchi.DefaultConfig()
	guardCfg.Observer = h.observeGuard
	if h.extract != nil {
		guardCfg.TokenExtractor = h.extract
	}
	guard := mwchi.Authenticate(h.conn.Tokens(), guardCfg)

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", metrics.Handler(h.gatherer))

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", h.Register)
		r.Post("/auth", h.Login)
		r.With(guard).Get("/auth", h.CurrentUser)

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", h.ListProfiles)
			r.Get("/user/{user_id}", h.ProfileByUser)
			r.Get("/github/{username}", h.GitHubRepos)

			r.Group(func(r chi.Router) {
				r.Use(guard)
				r.Get("/me", h.MyProfile)
				r.Post("/", h.UpsertProfile)
				r.Delete("/", h.DeleteAccount)
				r.Put("/experience", h.AddExperience)
				r.Delete("/experience/{exp_id}", h.RemoveExperience)
				r.Put("/education", h.AddEducation)
				r.Delete("/education/{edu_id}", h.RemoveEducation)
			})
		})
	})

	return r
}

// Health reports whether the store answers.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.conn.Ping(r.Context()); err != nil {
		h.logger.WarnContext(r.Context(), "health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		h.recorder.RecordHTTPRequest(r.Method, status, elapsed)
		h.logger.DebugContext(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", elapsed,
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

func (h *Handler) observeGuard(r *http.Request, d middleware.Decision) {
	h.recorder.RecordGuardDecision(d.Outcome.String(), d.ReasonLabel())
	if d.Outcome == middleware.Rejected {
		h.logger.DebugContext(r.Context(), "request rejected",
			"path", r.URL.Path,
			"reason", d.ReasonLabel(),
		)
	}
}

// Response bodies.

type message struct {
	Msg string `json:"msg"`
}

type fieldError struct {
	Param string `json:"param,omitempty"`
	Msg   string `json:"msg"`
}

type errorList struct {
	Errors []fieldError `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, message{Msg: msg})
}

func writeErrors(w http.ResponseWriter, errs ...fieldError) {
	writeJSON(w, http.StatusBadRequest, errorList{Errors: errs})
}

// decode reads a JSON body into dst. It answers the request itself and
// returns false when the body is unusable.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeMsg(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		writeErrors(w, fieldError{Msg: "Invalid request body"})
		return false
	}
	return true
}

// fail maps a service error to its response. notFound is the message for a
// missing profile, which differs per route.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch devconnector.ErrorCode(err) {
	case devconnector.CodeInvalidCredentials:
		writeErrors(w, fieldError{Msg: "Invalid credentials"})
	case devconnector.CodeDuplicateEmail:
		writeErrors(w, fieldError{Msg: "User already exists"})
	case devconnector.CodePasswordTooLong:
		writeErrors(w, fieldError{Param: "password", Msg: "Password is too long"})
	case devconnector.CodeProfileNotFound:
		writeMsg(w, http.StatusBadRequest, notFound)
	case devconnector.CodeEntryNotFound:
		writeMsg(w, http.StatusNotFound, "Entry not found")
	case devconnector.CodeUserNotFound:
		writeMsg(w, http.StatusNotFound, "User not found")
	case devconnector.CodeEnrichmentNotFound:
		writeMsg(w, http.StatusNotFound, "No Github profile found")
	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"code", devconnector.ErrorCode(err),
			"error", err,
		)
		writeMsg(w, http.StatusInternalServerError, "Server error")
	}
}
