package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Policy sizes a limiter for one class of sensitive routes.
type Policy struct {
	Requests int
	Window   time.Duration
}

// The two route classes. Strict guards registration; Low guards login,
// reset, update and delete.
var (
	StrictPolicy = Policy{Requests: 1, Window: 60 * time.Second}
	LowPolicy    = Policy{Requests: 5, Window: 30 * time.Second}
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter enforces a Policy per client address, with automatic
// stale-entry cleanup. Outside production it never triggers.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiter
	r        rate.Limit
	burst    int
	enabled  bool
}

// NewRateLimiter creates a per-address limiter sized to the policy: the
// full window budget is available up front and refills over the window.
func NewRateLimiter(p Policy, enabled bool) *RateLimiter {
	rl := &RateLimiter{
		limiters: make(map[string]*ipLimiter),
		r:        rate.Every(p.Window / time.Duration(p.Requests)),
		burst:    p.Requests,
		enabled:  enabled,
	}
	if enabled {
		go rl.cleanup()
	}
	return rl
}

func (rl *RateLimiter) get(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if v, ok := rl.limiters[ip]; ok {
		v.lastSeen = time.Now()
		return v.limiter
	}
	l := rate.NewLimiter(rl.r, rl.burst)
	rl.limiters[ip] = &ipLimiter{limiter: l, lastSeen: time.Now()}
	return l
}

// cleanup removes stale entries every 5 minutes.
func (rl *RateLimiter) cleanup() {
	for {
		time.Sleep(5 * time.Minute)
		rl.mu.Lock()
		for ip, v := range rl.limiters {
			if time.Since(v.lastSeen) > 10*time.Minute {
				delete(rl.limiters, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// Limit short-circuits over-budget requests with a 429 before any
// validation or store access happens.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.enabled && !rl.get(realIP(r)).Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"success":false,"error":{"message":"Too many requests, please try again later"}}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// realIP resolves the client address: first X-Forwarded-For hop, then
// X-Real-Ip, then the transport peer.
func realIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
	}
	if xrip := r.Header.Get("X-Real-Ip"); xrip != "" {
		return xrip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
