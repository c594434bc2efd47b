package handler

import (
	"encoding/json"
	"net/http"

	"github.com/andreanaya/go-account/internal/application/auth"
)

// SessionHandler serves the JSON login endpoint.
type SessionHandler struct {
	svc auth.Service
}

func NewSessionHandler(svc auth.Service) *SessionHandler { return &SessionHandler{svc: svc} }

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w)
		return
	}
	token, _, err := h.svc.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Success: true, Token: token})
}
