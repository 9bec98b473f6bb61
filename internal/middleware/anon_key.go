package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// AnonKeyContextKey holds the anonymous actor key of the request.
	AnonKeyContextKey = "anon_key"

	ClientTokenHeader = "X-Client-Token"
	ClientTokenCookie = "gammy_client"

	AnonKeyIP    = "ip"
	AnonKeyToken = "token"
)

// AnonKeyFunc derives a stable key for a caller without an account.
type AnonKeyFunc func(c echo.Context) string

// IPKey keys anonymous callers by client address. Everyone behind one
// address shares the key.
func IPKey(c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		return ""
	}
	return "ip:" + ip
}

// TokenKey keys anonymous callers by an opaque client token taken from the
// X-Client-Token header or the gammy_client cookie, issuing a cookie when
// neither is present.
func TokenKey(c echo.Context) string {
	token := c.Request().Header.Get(ClientTokenHeader)
	if token == "" {
		if cookie, err := c.Cookie(ClientTokenCookie); err == nil {
			token = cookie.Value
		}
	}
	if _, err := uuid.Parse(token); err != nil {
		token = uuid.New().String()
		c.SetCookie(&http.Cookie{
			Name:     ClientTokenCookie,
			Value:    token,
			Path:     "/",
			Expires:  time.Now().AddDate(1, 0, 0),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return "token:" + token
}

// AnonKeyFuncFor returns the key function configured by mode.
func AnonKeyFuncFor(mode string) AnonKeyFunc {
	if mode == AnonKeyToken {
		return TokenKey
	}
	return IPKey
}

// AnonymousKey stores the anonymous key for requests without claims.
func AnonymousKey(fn AnonKeyFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Get(UserContextKey) == nil {
				c.Set(AnonKeyContextKey, fn(c))
			}
			return next(c)
		}
	}
}
