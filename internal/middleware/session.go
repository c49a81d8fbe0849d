package middleware

import (
	"net/http"
	"time"

	"storefront-be/internal/transport"

	"github.com/google/uuid"
)

const (
	SessionCookie   = "sid"
	HeaderSessionID = "X-Session-ID"

	maxSessionIDLen = 128
)

// Session resolves the cart session from the X-Session-ID header or the sid
// cookie, issuing a new cookie on first contact.
func Session(ttl time.Duration, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := r.Header.Get(HeaderSessionID)
			if sid == "" {
				if c, err := r.Cookie(SessionCookie); err == nil {
					sid = c.Value
				}
			}

			if sid == "" || len(sid) > maxSessionIDLen {
				sid = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    sid,
					Path:     "/",
					MaxAge:   int(ttl.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			next.ServeHTTP(w, r.WithContext(transport.WithSessionID(r.Context(), sid)))
		})
	}
}
