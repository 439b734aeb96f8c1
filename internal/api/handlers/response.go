package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Adarsh-griffin/NotifyBack/internal/auth"
	"github.com/rs/zerolog/log"
)

// messageResponse is the error body used by the auth and note CRUD routes.
type messageResponse struct {
	Message string `json:"message"`
}

// statusResponse is the body shape of the archive and search routes.
type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

func writeStatus(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, statusResponse{Success: false, Message: message})
}

// requireUser returns the authenticated user ID or writes a 401.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		log.Error().Str("path", r.URL.Path).Msg("Could not retrieve user claims from context")
		writeMessage(w, http.StatusUnauthorized, "Access Denied. No token provided.")
		return "", false
	}
	return userID, true
}
