package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// HealthHandler handles the liveness endpoint.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "action") == "ping" {
		writeJSON(w, http.StatusOK, Envelope{Success: true, Message: "pong"})
		return
	}
	writeJSON(w, http.StatusBadRequest, Envelope{Error: &ErrorBody{Message: "unknown action"}})
}
