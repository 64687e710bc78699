package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "access_token"

// ExtractMode selects which credential sources a route accepts.
type ExtractMode int

const (
	// ModeCookie reads the session cookie only; no header fallback.
	ModeCookie ExtractMode = iota
	// ModeCookieOrBearer prefers the session cookie and falls back to a
	// bearer Authorization header. When both are present the cookie wins.
	ModeCookieOrBearer
)

// ExtractToken pulls the raw session token from the request, or returns
// the empty string if no accepted source carries one.
func ExtractToken(c echo.Context, mode ExtractMode) string {
	cookie, err := c.Cookie(SessionCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	if mode != ModeCookieOrBearer {
		return ""
	}

	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}
