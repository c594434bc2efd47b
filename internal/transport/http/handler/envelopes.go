package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/andreanaya/go-account/internal/domain"
)

// Envelope is the API channel's uniform response wrapper.
type Envelope struct {
	Success bool                `json:"success"`
	Data    interface{}         `json:"data,omitempty"`
	Token   string              `json:"token,omitempty"`
	Message string              `json:"message,omitempty"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
	Error   *ErrorBody          `json:"error,omitempty"`
}

// ErrorBody carries a single tagged error message.
type ErrorBody struct {
	Type    string `json:"type,omitempty"`
	Message string `json:"message"`
}

// AccountData is the profile subset exposed to clients.
type AccountData struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError is the API channel's single error-formatting stage.
// Validation and conflict errors render what the engine collected;
// anything unrecognized is downgraded to a generic server error and logged
// with full detail.
func writeServiceError(w http.ResponseWriter, err error) {
	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		writeJSON(w, http.StatusBadRequest, Envelope{Errors: verrs})
		return
	}
	var ce *domain.ConflictError
	if errors.As(err, &ce) {
		writeJSON(w, http.StatusBadRequest, Envelope{Error: &ErrorBody{Type: "conflict", Message: ce.Error()}})
		return
	}
	var ae *domain.AuthError
	if errors.As(err, &ae) {
		writeJSON(w, http.StatusUnauthorized, Envelope{Error: &ErrorBody{Type: "authentication", Message: ae.Reason}})
		return
	}
	slog.Error("request failed", "err", err)
	writeJSON(w, http.StatusBadRequest, Envelope{Error: &ErrorBody{Type: "server", Message: "Server error, please try again."}})
}

// RejectUnauthorized renders authorization failures for API routes.
func RejectUnauthorized(w http.ResponseWriter, _ *http.Request, err error) {
	writeServiceError(w, err)
}

func writeBadBody(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, Envelope{Error: &ErrorBody{Type: "server", Message: "Invalid request body"}})
}
