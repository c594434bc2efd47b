package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/andreanaya/go-account/internal/domain"
)

type contextKey string

const userKey contextKey = "account"

// TokenCookie is the name of the web channel's session cookie. The API
// channel sends the same token as a Bearer header instead.
const TokenCookie = "token"

// Authorizer resolves a raw token into the current account.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (*domain.User, error)
}

// TokenFromRequest extracts the session token from the Authorization
// header, falling back to the web cookie. Returns "" when neither is
// present.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie(TokenCookie); err == nil {
		return c.Value
	}
	return ""
}

// Auth returns middleware that authorizes the request and injects the
// resolved account into the context. reject renders the failure for the
// channel the route belongs to (JSON vs redirect), keeping the
// authorization decision itself channel-agnostic.
func Auth(svc Authorizer, reject func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, err := svc.Authorize(r.Context(), TokenFromRequest(r))
			if err != nil {
				reject(w, r, err)
				return
			}
			ctx := context.WithValue(r.Context(), userKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext extracts the authorized account from the request context.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userKey).(*domain.User)
	return u, ok
}
