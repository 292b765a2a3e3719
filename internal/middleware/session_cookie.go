package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	SessionCookieName = "lume_sid"
	CtxSessionIDKey   = "session_id" // string
)

// SessionCookie makes sure every request carries a session id, issuing a
// fresh one when the cookie is missing or malformed. The cookie lifetime
// slides with each request.
func SessionCookie(ttl time.Duration, secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := ""
			if ck, err := c.Cookie(SessionCookieName); err == nil {
				v := strings.TrimSpace(ck.Value)
				if _, perr := uuid.Parse(v); perr == nil {
					sid = v
				}
			}
			if sid == "" {
				sid = uuid.NewString()
			}

			c.SetCookie(&http.Cookie{
				Name:     SessionCookieName,
				Value:    sid,
				Path:     "/",
				MaxAge:   int(ttl.Seconds()),
				Expires:  time.Now().Add(ttl),
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})
			c.Set(CtxSessionIDKey, sid)
			return next(c)
		}
	}
}
