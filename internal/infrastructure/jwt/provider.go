package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/andreanaya/go-account/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Token purposes. A confirmation token only proves control of a
// registration email and must never pass session authorization.
const (
	PurposeSession      = "session"
	PurposeConfirmation = "confirm"
)

// Claims holds the JWT payload fields.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email"`
	Purpose  string `json:"purpose"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 JWTs with a process-wide secret.
// Rotating the secret invalidates all outstanding tokens.
type Provider struct {
	secret []byte
	expiry time.Duration
}

func NewProvider(secret string, expiry time.Duration) (*Provider, error) {
	if secret == "" {
		return nil, errors.New("token secret is empty")
	}
	if expiry <= 0 {
		expiry = 7 * 24 * time.Hour
	}
	return &Provider{secret: []byte(secret), expiry: expiry}, nil
}

// SignSession issues a full session token carrying the account identity.
func (p *Provider) SignSession(u *domain.User) (string, error) {
	return p.sign(Claims{
		UserID:   u.UserID,
		Username: u.Username,
		Email:    u.Email,
		Purpose:  PurposeSession,
	})
}

// SignConfirmation issues a narrow-purpose token used only to prove control
// of a registration email.
func (p *Provider) SignConfirmation(userID, email string) (string, error) {
	return p.sign(Claims{
		UserID:  userID,
		Email:   email,
		Purpose: PurposeConfirmation,
	})
}

func (p *Provider) sign(claims Claims) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(p.expiry)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// Verify checks the signature and expiry and returns the claims. It is a
// pure function: no I/O, no account lookup.
func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return p.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, domain.ErrTokenSignature
	case err != nil:
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrTokenMalformed
	}
	return claims, nil
}
