package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/passvault/passvault/internal/server/validation"
)

// errorEnvelope is the uniform error body: {"error": true, "message": ..., "code": ...}.
// Validation faults additionally carry a details list of per-field errors.
type errorEnvelope struct {
	Error   bool                     `json:"error"`
	Message string                   `json:"message"`
	Code    int                      `json:"code"`
	Details []*validation.FieldError `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorEnvelope{Error: true, Message: message, Code: status})
}

func writeValidationError(w http.ResponseWriter, status int, details ...*validation.FieldError) {
	writeJSON(w, status, errorEnvelope{
		Error:   true,
		Message: "Validation error occurred",
		Code:    status,
		Details: details,
	})
}

// decodeJSON fills dst from the request body; a malformed body is a
// client error, reported in the standard envelope.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
