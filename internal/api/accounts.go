package api

import (
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/aloks98/devconnector"
	mwchi "github.com/aloks98/devconnector/middleware/chi"
)

type tokenResponse struct {
	Token string `json:"token"`
}

type userResponse struct {
	ID     string    `json:"_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Avatar string    `json:"avatar"`
	Date   time.Time `json:"date"`
}

// Register creates an account and answers with its token.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) || !h.valid(w, r, req) {
		return
	}

	tok, err := h.conn.Accounts().Register(r.Context(), req.Name, req.Email, req.Password)
	h.recordFlow("register", err)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: tok})
}

// Login checks a credential and answers with a token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) || !h.valid(w, r, req) {
		return
	}

	tok, err := h.conn.Accounts().Login(r.Context(), req.Email, req.Password)
	h.recordFlow("login", err)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: tok})
}

// CurrentUser answers with the authenticated account.
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.conn.Accounts().Me(r.Context(), mwchi.UserID(r))
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, userResponse{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Avatar: user.Avatar,
		Date:   user.Date,
	})
}

// DeleteAccount removes the authenticated account and its profile.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.conn.Accounts().Delete(r.Context(), mwchi.UserID(r)); err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeMsg(w, http.StatusOK, "User deleted")
}

// valid runs v's validation rules and answers 400 when they fail.
func (h *Handler) valid(w http.ResponseWriter, r *http.Request, v validation.Validatable) bool {
	err := v.Validate()
	if err == nil {
		return true
	}
	if errs, ok := fieldErrors(err); ok {
		writeErrors(w, errs...)
		return false
	}
	h.fail(w, r, err, "")
	return false
}

func (h *Handler) recordFlow(flow string, err error) {
	result := "success"
	switch {
	case err == nil:
	case devconnector.IsCredentialError(err):
		result = "rejected"
	default:
		result = "error"
	}
	h.recorder.RecordCredentialFlow(flow, result)
}
