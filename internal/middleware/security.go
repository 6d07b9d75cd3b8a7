package middleware

import (
	"context"
	"encoding/base64"
	"net"
	"net/http"
	"strings"
)

const securityKey contextKey = "security"

// SecurityContext carries the request identity the referral and audit flows
// record: the client IP and a coarse device fingerprint.
type SecurityContext struct {
	IP          string
	Fingerprint string
}

func SecurityFromContext(ctx context.Context) (SecurityContext, bool) {
	sec, ok := ctx.Value(securityKey).(SecurityContext)
	return sec, ok
}

func ClientIP(r *http.Request) string {
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func DeviceFingerprint(r *http.Request) string {
	raw := r.UserAgent() + ":" + r.Header.Get("Accept-Language") + ":" + r.Header.Get("Accept-Encoding")
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// Security attaches the client IP and device fingerprint to the request
// context so handlers do not re-derive them.
func Security(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sec := SecurityContext{
			IP:          ClientIP(r),
			Fingerprint: DeviceFingerprint(r),
		}
		ctx := context.WithValue(r.Context(), securityKey, sec)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
