package middleware

import (
	"log"
	"net/http"
	"time"

	"stellforge/internal/ratelimit"
)

// RateLimit rejects clients exceeding limit requests per window, counted
// per IP. Counter failures fail open: a broken counter must not take the
// API down. onLimited, when set, is called once per rejected request.
func RateLimit(counter ratelimit.Counter, limit int, window time.Duration, onLimited func(r *http.Request, count int64)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			count, err := counter.Incr(r.Context(), "ratelimit:"+ip, window)
			if err != nil {
				log.Printf("rate limit counter error: %v", err)
				next.ServeHTTP(w, r)
				return
			}
			if count > int64(limit) {
				if onLimited != nil {
					onLimited(r, count)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"too many requests, please try again later"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
