package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/aloks98/devconnector"
	mwchi "github.com/aloks98/devconnector/middleware/chi"
)

const (
	msgNoOwnProfile    = "No profile exists for this user"
	msgProfileNotFound = "Profile not found"
)

// ListProfiles answers with every profile, oldest first.
func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	views, err := h.conn.Profiles().List(r.Context())
	if err != nil {
		h.fail(w, r, err, msgProfileNotFound)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// ProfileByUser answers with the profile owned by the user_id parameter.
func (h *Handler) ProfileByUser(w http.ResponseWriter, r *http.Request) {
	view, err := h.conn.Profiles().ByOwner(r.Context(), mwchi.URLParam(r, "user_id"))
	if err != nil {
		h.fail(w, r, err, msgProfileNotFound)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// MyProfile answers with the authenticated user's profile.
func (h *Handler) MyProfile(w http.ResponseWriter, r *http.Request) {
	view, err := h.conn.Profiles().ByOwner(r.Context(), mwchi.UserID(r))
	if err != nil {
		h.fail(w, r, err, msgNoOwnProfile)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// UpsertProfile creates or updates the authenticated user's profile.
func (h *Handler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if !decode(w, r, &req) || !h.valid(w, r, req) {
		return
	}

	p, err := h.conn.Profiles().Upsert(r.Context(), mwchi.UserID(r), req.input())
	if err != nil {
		h.fail(w, r, err, msgNoOwnProfile)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// AddExperience prepends an experience entry to the authenticated user's profile.
func (h *Handler) AddExperience(w http.ResponseWriter, r *http.Request) {
	var req experienceRequest
	if !decode(w, r, &req) || !h.valid(w, r, req) {
		return
	}

	p, err := h.conn.Profiles().AddExperience(r.Context(), mwchi.UserID(r), req.entry())
	if err != nil {
		h.fail(w, r, err, msgNoOwnProfile)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// RemoveExperience removes the exp_id entry from the authenticated user's profile.
func (h *Handler) RemoveExperience(w http.ResponseWriter, r *http.Request) {
	p, err := h.conn.Profiles().RemoveExperience(r.Context(), mwchi.UserID(r), mwchi.URLParam(r, "exp_id"))
	if err != nil {
		h.fail(w, r, err, msgNoOwnProfile)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// AddEducation prepends an education entry to the authenticated user's profile.
func (h *Handler) AddEducation(w http.ResponseWriter, r *http.Request) {
	var req educationRequest
	if !decode(w, r, &req) || !h.valid(w, r, req) {
		return
	}

	p, err := h.conn.Profiles().AddEducation(r.Context(), mwchi.UserID(r), req.entry())
	if err != nil {
		h.fail(w, r, err, msgNoOwnProfile)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// RemoveEducation removes the edu_id entry from the authenticated user's profile.
func (h *Handler) RemoveEducation(w http.ResponseWriter, r *http.Request) {
	p, err := h.conn.Profiles().RemoveEducation(r.Context(), mwchi.UserID(r), mwchi.URLParam(r, "edu_id"))
	if err != nil {
		h.fail(w, r, err, msgNoOwnProfile)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GitHubRepos answers with the five oldest public repositories of username.
func (h *Handler) GitHubRepos(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	repos, err := h.conn.GitHub().Repos(r.Context(), mwchi.URLParam(r, "username"))

	result := "found"
	switch {
	case err == nil:
	case errors.Is(err, devconnector.ErrEnrichmentNotFound):
		result = "not_found"
	default:
		result = "error"
	}
	h.recorder.RecordEnrichmentLookup(result, time.Since(start))

	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(repos)
}
