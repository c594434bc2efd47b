package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/andreanaya/go-account/internal/domain"
	jwtinfra "github.com/andreanaya/go-account/internal/infrastructure/jwt"
	"github.com/andreanaya/go-account/internal/infrastructure/ses"
	"github.com/andreanaya/go-account/internal/pkg/password"
	"github.com/andreanaya/go-account/internal/pkg/validate"
)

// Service owns the credential and token decisions: login, email
// confirmation, password reset and per-request authorization. It produces
// channel-agnostic results; JSON and web presentation live elsewhere.
type Service interface {
	Authenticate(ctx context.Context, username, plaintext string) (string, *domain.User, error)
	Confirm(ctx context.Context, token string) (*domain.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	Authorize(ctx context.Context, token string) (*domain.User, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Activate(ctx context.Context, userID string) error
	SetPassword(ctx context.Context, userID, password string) error
	VerifyPassword(u *domain.User, password string) bool
}

type tokenCodec interface {
	SignSession(u *domain.User) (string, error)
	Verify(token string) (*jwtinfra.Claims, error)
}

type service struct {
	repo       userStore
	mailer     ses.Mailer
	tokens     tokenCodec
	foldEmails bool
}

type ServiceDeps struct {
	UserRepo        userStore
	Mailer          ses.Mailer
	Tokens          tokenCodec
	LowercaseEmails bool
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:       deps.UserRepo,
		mailer:     deps.Mailer,
		tokens:     deps.Tokens,
		foldEmails: deps.LowercaseEmails,
	}
}

// Authenticate verifies the credential pair and issues a session token.
// An unknown username and a wrong password fail with the same message so
// login cannot be used to probe for accounts.
func (s *service) Authenticate(ctx context.Context, username, plaintext string) (string, *domain.User, error) {
	username = strings.TrimSpace(username)
	plaintext = strings.TrimSpace(plaintext)

	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return "", nil, &domain.AuthError{Reason: domain.ReasonInvalidCredentials}
	}
	if !s.repo.VerifyPassword(u, plaintext) {
		return "", nil, &domain.AuthError{Reason: domain.ReasonInvalidCredentials}
	}
	if !u.Active {
		return "", nil, &domain.AuthError{Reason: domain.ReasonEmailNotConfirmed}
	}
	token, err := s.tokens.SignSession(u)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// Confirm activates the account referenced by a confirmation token. A
// second attempt after success fails with ErrAlreadyConfirmed instead of
// re-activating; every other failure collapses into a generic rejection.
func (s *service) Confirm(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Verify(strings.TrimSpace(token))
	if err != nil {
		return nil, fmt.Errorf("confirmation token rejected: %w", domain.ErrUnauthorized)
	}
	if claims.Purpose != jwtinfra.PurposeConfirmation {
		return nil, fmt.Errorf("not a confirmation token: %w", domain.ErrUnauthorized)
	}
	u, err := s.repo.Get(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("confirmation target missing: %w", domain.ErrUnauthorized)
	}
	if u.Active {
		return nil, domain.ErrAlreadyConfirmed
	}
	if err := s.repo.Activate(ctx, u.UserID); err != nil {
		return nil, err
	}
	u.Active = true
	return u, nil
}

// RequestPasswordReset replaces the credential with a mailed one-time
// password. The outcome is indistinguishable whether or not the email maps
// to an active account, so the flow cannot confirm account existence; the
// miss is only logged server-side.
func (s *service) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if s.foldEmails {
		email = strings.ToLower(email)
	}
	if verrs := validate.Email(email); len(verrs) > 0 {
		return verrs
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		slog.Info("password reset requested for unknown email")
		return nil
	}
	if !u.Active {
		slog.Info("password reset requested for unconfirmed account", "user_id", u.UserID)
		return nil
	}
	otp, err := password.OneTime()
	if err != nil {
		return err
	}
	// Bumps credential_changed_at, so every session issued before this
	// moment is revoked.
	if err := s.repo.SetPassword(ctx, u.UserID, otp); err != nil {
		return err
	}
	go func() {
		html := "<p>Your new password is: " + otp + "</p>"
		if err := s.mailer.Send(context.Background(), u.Email, "Password reset", "Your new password is: "+otp, html); err != nil {
			slog.Warn("password reset email failed", "user_id", u.UserID, "err", err)
		}
	}()
	return nil
}

// Authorize resolves a session token into the current account. Absence of
// a token, an unverifiable token, and a token older than the last
// credential change are distinct failures; a verified token whose account
// no longer exists is a server-side inconsistency, not an auth failure.
func (s *service) Authorize(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, &domain.AuthError{Reason: domain.ReasonMissingToken}
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, &domain.AuthError{Reason: domain.ReasonInvalidToken}
	}
	if claims.Purpose != jwtinfra.PurposeSession {
		return nil, &domain.AuthError{Reason: domain.ReasonInvalidToken}
	}
	u, err := s.repo.Get(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("account for verified token missing: %w", err)
		}
		return nil, err
	}
	if claims.IssuedAt == nil || claims.IssuedAt.Unix() < u.CredentialChangedAt {
		return nil, &domain.AuthError{Reason: domain.ReasonTokenRevoked}
	}
	return u, nil
}
