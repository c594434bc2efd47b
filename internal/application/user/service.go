package user

import (
	"context"
	"log/slog"

	"github.com/andreanaya/go-account/internal/domain"
	"github.com/andreanaya/go-account/internal/infrastructure/ses"
	"github.com/andreanaya/go-account/internal/pkg/validate"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldUsername = "username"
	fieldEmail    = "email"
)

// Service drives the account lifecycle: registration, profile reads,
// updates and deletion. Every outcome is channel-agnostic; the HTTP layer
// only serializes it.
type Service interface {
	Register(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User, req domain.UpdateUserRequest) (*domain.User, string, error)
	Delete(ctx context.Context, u *domain.User) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, username, email, password string) (*domain.User, error)
	UpdateFields(ctx context.Context, userID string, updates map[string]interface{}) error
	SetPassword(ctx context.Context, userID, password string) error
	Delete(ctx context.Context, userID string) error
}

type tokenIssuer interface {
	SignSession(u *domain.User) (string, error)
	SignConfirmation(userID, email string) (string, error)
}

type service struct {
	repo       userStore
	mailer     ses.Mailer
	tokens     tokenIssuer
	baseURL    string
	foldEmails bool
}

type ServiceDeps struct {
	UserRepo        userStore
	Mailer          ses.Mailer
	Tokens          tokenIssuer
	BaseURL         string
	LowercaseEmails bool
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:       deps.UserRepo,
		mailer:     deps.Mailer,
		tokens:     deps.Tokens,
		baseURL:    deps.BaseURL,
		foldEmails: deps.LowercaseEmails,
	}
}

// Register validates the request, creates an inactive account and mails a
// confirmation link. The email leaves on a detached goroutine: delivery is
// best-effort and never fails the registration.
func (s *service) Register(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	validate.NormalizeCreate(&req, s.foldEmails)
	if verrs := validate.Create(&req); len(verrs) > 0 {
		return nil, verrs
	}
	u, err := s.repo.Create(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	s.sendConfirmation(u)
	return u, nil
}

func (s *service) sendConfirmation(u *domain.User) {
	token, err := s.tokens.SignConfirmation(u.UserID, u.Email)
	if err != nil {
		slog.Error("could not sign confirmation token", "user_id", u.UserID, "err", err)
		return
	}
	url := s.baseURL + "/confirm/" + token
	go func() {
		text := "Please click on the link below to confirm your email.\n\n" + url + "."
		html := `<p>Please click on the link below to confirm your email</p><a href="` + url + `" target="_blank">` + url + `</a>`
		if err := s.mailer.Send(context.Background(), u.Email, "Please confirm your email", text, html); err != nil {
			slog.Warn("confirmation email failed", "user_id", u.UserID, "err", err)
		}
	}()
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}

// Update applies the present fields only. A password change goes through
// SetPassword so the revocation anchor moves with it, and a fresh session
// token is issued reflecting the new claims.
func (s *service) Update(ctx context.Context, u *domain.User, req domain.UpdateUserRequest) (*domain.User, string, error) {
	validate.NormalizeUpdate(&req, s.foldEmails)
	if verrs := validate.Update(&req); len(verrs) > 0 {
		return nil, "", verrs
	}

	updates := map[string]interface{}{}
	if req.Username != nil && *req.Username != u.Username {
		if other, err := s.repo.GetByUsername(ctx, *req.Username); err == nil && other.UserID != u.UserID {
			return nil, "", &domain.ConflictError{Field: "username", Value: *req.Username}
		}
		updates[fieldUsername] = *req.Username
	}
	if req.Email != nil && *req.Email != u.Email {
		if other, err := s.repo.GetByEmail(ctx, *req.Email); err == nil && other.UserID != u.UserID {
			return nil, "", &domain.ConflictError{Field: "email", Value: *req.Email}
		}
		updates[fieldEmail] = *req.Email
	}
	if len(updates) > 0 {
		if err := s.repo.UpdateFields(ctx, u.UserID, updates); err != nil {
			return nil, "", err
		}
	}
	if req.Password != nil {
		if err := s.repo.SetPassword(ctx, u.UserID, *req.Password); err != nil {
			return nil, "", err
		}
	}

	fresh, err := s.repo.Get(ctx, u.UserID)
	if err != nil {
		return nil, "", err
	}
	token, err := s.tokens.SignSession(fresh)
	if err != nil {
		return nil, "", err
	}
	return fresh, token, nil
}

// Delete removes the account permanently. No replacement token is issued;
// outstanding tokens die on the missing-account check.
func (s *service) Delete(ctx context.Context, u *domain.User) error {
	return s.repo.Delete(ctx, u.UserID)
}
