package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/andreanaya/go-account/internal/domain"
)

const notificationParam = "notification"

type contextKey string

const notificationKey contextKey = "notification"

// EncodeNotification packs a one-shot notification into a query fragment:
// a single URL-encoded JSON parameter, readable by ParseNotification on
// the next request.
func EncodeNotification(n domain.Notification) string {
	b, _ := json.Marshal(n)
	return notificationParam + "=" + url.QueryEscape(string(b))
}

// redirect sends the browser to path carrying the notification for one hop.
func redirect(w http.ResponseWriter, r *http.Request, path string, n domain.Notification) {
	http.Redirect(w, r, path+"?"+EncodeNotification(n), http.StatusFound)
}

// ParseNotification decodes the notification query parameter, if any, into
// the request context. Malformed payloads are silently dropped.
func ParseNotification(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if raw := r.URL.Query().Get(notificationParam); raw != "" {
			var n domain.Notification
			if err := json.Unmarshal([]byte(raw), &n); err == nil {
				ctx := context.WithValue(r.Context(), notificationKey, &n)
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

func notificationFromContext(ctx context.Context) *domain.Notification {
	n, _ := ctx.Value(notificationKey).(*domain.Notification)
	return n
}
