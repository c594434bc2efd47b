package web

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/andreanaya/go-account/internal/application/auth"
	"github.com/andreanaya/go-account/internal/application/user"
	"github.com/andreanaya/go-account/internal/domain"
	"github.com/andreanaya/go-account/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// Handler serves the server-rendered account flows. It never re-derives
// business outcomes: the services decide, the handler only renders or
// redirects.
type Handler struct {
	users         user.Service
	auth          auth.Service
	renderer      *Renderer
	secureCookies bool
}

func NewHandler(users user.Service, authSvc auth.Service, renderer *Renderer, secureCookies bool) *Handler {
	return &Handler{users: users, auth: authSvc, renderer: renderer, secureCookies: secureCookies}
}

// --- Registration ---

func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "register", PageData{
		Title:        "User registration",
		Notification: notificationFromContext(r.Context()),
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, "register", PageData{Title: "User registration"}, err)
		return
	}
	req := domain.CreateUserRequest{
		Username:             r.PostFormValue("username"),
		Email:                r.PostFormValue("email"),
		Password:             r.PostFormValue("password"),
		PasswordConfirmation: r.PostFormValue("passwordConfirmation"),
	}
	if _, err := h.users.Register(r.Context(), req); err != nil {
		h.renderError(w, "register", PageData{
			Title:    "User registration",
			Username: req.Username,
			Email:    req.Email,
		}, err)
		return
	}
	redirect(w, r, "/login", domain.Notification{
		Type:    domain.NotificationSuccess,
		Message: "Registration complete. Please check your email to confirm your account.",
	})
}

// --- Login / logout ---

func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "login", PageData{
		Title:        "Login",
		Notification: notificationFromContext(r.Context()),
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, "login", PageData{Title: "Login"}, err)
		return
	}
	username := r.PostFormValue("username")
	token, _, err := h.auth.Authenticate(r.Context(), username, r.PostFormValue("password"))
	if err != nil {
		h.renderError(w, "login", PageData{Title: "Login Error", Username: username}, err)
		return
	}
	h.setToken(w, token)
	http.Redirect(w, r, "/account", http.StatusFound)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearToken(w)
	redirect(w, r, "/login", domain.Notification{
		Type:    domain.NotificationSuccess,
		Message: "You have been logged out.",
	})
}

// --- Email confirmation ---

func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	_, err := h.auth.Confirm(r.Context(), chi.URLParam(r, "token"))
	switch {
	case err == nil:
		h.renderer.Render(w, http.StatusOK, "login", PageData{
			Title:   "Email confirmed",
			Message: "Your account is now active. Please login to view your details.",
		})
	case errors.Is(err, domain.ErrAlreadyConfirmed):
		h.renderer.Render(w, http.StatusOK, "login", PageData{
			Title:   "Login",
			Message: "Your account is already active. Please login to view your details.",
		})
	default:
		h.renderer.Render(w, http.StatusBadRequest, "register", PageData{
			Title:   "User registration",
			Message: "Your email could not be confirmed, please register again with a different email.",
		})
	}
}

// --- Password reset ---

func (h *Handler) ResetForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "resetpassword", PageData{
		Title:        "Reset your password",
		Message:      "Please add your registered email to reset your password",
		Notification: notificationFromContext(r.Context()),
	})
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, "resetpassword", PageData{Title: "Reset your password"}, err)
		return
	}
	if err := h.auth.RequestPasswordReset(r.Context(), r.PostFormValue("email")); err != nil {
		h.renderError(w, "resetpassword", PageData{Title: "Reset your password"}, err)
		return
	}
	redirect(w, r, "/resetpassword", domain.Notification{
		Type:    domain.NotificationSuccess,
		Message: "An email was sent with your new password.",
	})
}

// --- Account ---

func (h *Handler) Account(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.RejectUnauthorized(w, r, &domain.AuthError{Reason: domain.ReasonMissingToken})
		return
	}
	h.renderer.Render(w, http.StatusOK, "account", PageData{
		Title:        "Account",
		Username:     u.Username,
		Email:        u.Email,
		Notification: notificationFromContext(r.Context()),
	})
}

func (h *Handler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.RejectUnauthorized(w, r, &domain.AuthError{Reason: domain.ReasonMissingToken})
		return
	}
	h.renderer.Render(w, http.StatusOK, "update", PageData{
		Title:    "Account",
		Username: u.Username,
		Email:    u.Email,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.RejectUnauthorized(w, r, &domain.AuthError{Reason: domain.ReasonMissingToken})
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderError(w, "update", PageData{Title: "Account", Username: u.Username, Email: u.Email}, err)
		return
	}
	req := domain.UpdateUserRequest{
		Username:             formPtr(r, "username"),
		Email:                formPtr(r, "email"),
		Password:             formPtr(r, "password"),
		PasswordConfirmation: formPtr(r, "passwordConfirmation"),
	}
	_, token, err := h.users.Update(r.Context(), u, req)
	if err != nil {
		h.renderError(w, "update", PageData{Title: "Account", Username: u.Username, Email: u.Email}, err)
		return
	}
	h.setToken(w, token)
	redirect(w, r, "/account", domain.Notification{
		Type:    domain.NotificationSuccess,
		Message: "Your details were updated.",
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.RejectUnauthorized(w, r, &domain.AuthError{Reason: domain.ReasonMissingToken})
		return
	}
	if err := h.users.Delete(r.Context(), u); err != nil {
		h.renderError(w, "account", PageData{Title: "Account", Username: u.Username, Email: u.Email}, err)
		return
	}
	h.clearToken(w)
	redirect(w, r, "/register", domain.Notification{
		Type:    domain.NotificationSuccess,
		Message: "Your account was removed.",
	})
}

// RejectUnauthorized renders authorization failures for web routes: back
// to the login page with a one-shot notification.
func (h *Handler) RejectUnauthorized(w http.ResponseWriter, r *http.Request, err error) {
	message := "Please login to view your details."
	var ae *domain.AuthError
	if errors.As(err, &ae) {
		message = ae.Reason
	} else {
		slog.Error("authorization failed", "err", err)
	}
	redirect(w, r, "/login", domain.Notification{
		Type:    domain.NotificationError,
		Message: message,
	})
}

// renderError is the web channel's single error-formatting stage: the same
// form again, pre-filled, with error annotations.
func (h *Handler) renderError(w http.ResponseWriter, page string, data PageData, err error) {
	status := http.StatusBadRequest
	var verrs domain.ValidationErrors
	var ce *domain.ConflictError
	var ae *domain.AuthError
	switch {
	case errors.As(err, &verrs):
		data.Errors = fieldErrorMap(verrs)
	case errors.As(err, &ce):
		data.Errors = map[string]string{ce.Field: ce.Error()}
	case errors.As(err, &ae):
		status = http.StatusUnauthorized
		data.Message = ae.Reason
	default:
		slog.Error("request failed", "page", page, "err", err)
		data.Message = "Server error, please try again."
	}
	h.renderer.Render(w, status, page, data)
}

func fieldErrorMap(verrs domain.ValidationErrors) map[string]string {
	m := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := m[fe.Field]; !seen {
			m[fe.Field] = fe.Message
		}
	}
	return m
}

func formPtr(r *http.Request, field string) *string {
	v := r.PostFormValue(field)
	return &v
}

func (h *Handler) setToken(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearToken(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
