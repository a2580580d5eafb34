package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"skillbridge-web/internal/upstream"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError emits {"error": message}. Backend messages pass through here
// verbatim, so the body is always properly encoded JSON.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// upstreamFailure maps a backend call failure onto a gateway response: the
// backend's own status and message when it answered, 502 with a generic
// message when it could not be reached.
func upstreamFailure(err error) (int, string) {
	var upErr *upstream.Error
	if errors.As(err, &upErr) {
		return upErr.Status, upErr.Message
	}
	return http.StatusBadGateway, "The learning platform is unreachable. Please try again."
}
