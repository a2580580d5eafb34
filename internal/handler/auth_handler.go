package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"skillbridge-web/internal/domain"
	"skillbridge-web/internal/middleware"
	"skillbridge-web/internal/session"
	"skillbridge-web/internal/upstream"
)

// AuthHandler handles the authentication endpoints
type AuthHandler struct {
	sessions *session.Store
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(sessions *session.Store) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
	}
}

// Login handles user login. On success the session store has already written
// the cookie; the body carries the resolved profile.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.sessions.Login(r.Context(), w, creds)
	if err != nil {
		var upErr *upstream.Error
		if errors.As(err, &upErr) {
			writeError(w, upErr.Status, upErr.Message)
			return
		}
		status, message := upstreamFailure(err)
		writeError(w, status, message)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Register handles account creation. The backend speaks plain text on this
// endpoint in both directions, and the gateway preserves that: success and
// error messages pass through verbatim with the backend's status.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var reg domain.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	message, err := h.sessions.Register(r.Context(), reg)
	if err != nil {
		var upErr *upstream.Error
		if errors.As(err, &upErr) {
			http.Error(w, upErr.Message, upErr.Status)
			return
		}
		http.Error(w, "The learning platform is unreachable. Please try again.",
			http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusCreated)
	w.Write([]byte(message))
}

// Logout tears down the session. Deliberately not behind SessionAuth: logging
// out with a stale or absent session is a successful no-op.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, _ := session.TokenFromRequest(r)
	h.sessions.Logout(r.Context(), w, token)

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Me returns the authenticated profile resolved by the auth middleware
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
