package handler

import (
	"encoding/json"
	"net/http"

	"github.com/andreanaya/go-account/internal/application/user"
	"github.com/andreanaya/go-account/internal/domain"
	"github.com/andreanaya/go-account/internal/transport/http/middleware"
)

// AccountHandler serves the JSON account endpoints.
type AccountHandler struct {
	svc user.Service
}

func NewAccountHandler(svc user.Service) *AccountHandler { return &AccountHandler{svc: svc} }

type registerData struct {
	Status string `json:"status"`
	Email  string `json:"email"`
}

type deleteData struct {
	Status   string `json:"status"`
	Username string `json:"username"`
}

func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w)
		return
	}
	u, err := h.svc.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Data:    registerData{Status: "Pending confirmation", Email: u.Email},
	})
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeServiceError(w, &domain.AuthError{Reason: domain.ReasonMissingToken})
		return
	}
	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Data:    AccountData{Username: u.Username, Email: u.Email},
	})
}

func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeServiceError(w, &domain.AuthError{Reason: domain.ReasonMissingToken})
		return
	}
	var req domain.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w)
		return
	}
	fresh, token, err := h.svc.Update(r.Context(), u, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Data:    AccountData{Username: fresh.Username, Email: fresh.Email},
		Token:   token,
	})
}

func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeServiceError(w, &domain.AuthError{Reason: domain.ReasonMissingToken})
		return
	}
	if err := h.svc.Delete(r.Context(), u); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Data:    deleteData{Status: "User deleted", Username: u.Username},
	})
}
