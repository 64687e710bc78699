package api

import (
	"errors"
	"net/http"
	"net/mail"
	"time"

	"github.com/labstack/echo/v4"

	"leafscan-backend/internal/auth"
	"leafscan-backend/internal/models"
)

// CookieConfig holds the session cookie attributes fixed at startup
type CookieConfig struct {
	SameSite http.SameSite
}

// registerHandler handles POST /api/auth/register
func (h *Handlers) registerHandler(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "a valid email is required",
		})
	}

	session, err := h.auth.Register(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidName):
			// Registration validation is allowed to be specific; it is not
			// an oracle for existing credentials.
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": err.Error(),
			})
		case errors.Is(err, auth.ErrEmailTaken):
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "email already registered",
			})
		default:
			c.Logger().Error("register error: ", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "registration failed",
			})
		}
	}

	h.setSessionCookie(c, session.Token, h.auth.TokenTTL())

	return c.JSON(http.StatusOK, models.TokenResponse{
		AccessToken: session.Token,
		TokenType:   "bearer",
		User:        session.User,
	})
}

// loginHandler handles POST /api/auth/login
func (h *Handlers) loginHandler(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "email and password are required",
		})
	}

	session, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			// Same response whether the email is unknown or the password
			// is wrong.
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "invalid email or password",
			})
		}
		c.Logger().Error("login error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "authentication failed",
		})
	}

	h.setSessionCookie(c, session.Token, h.auth.TokenTTL())

	return c.JSON(http.StatusOK, models.TokenResponse{
		AccessToken: session.Token,
		TokenType:   "bearer",
		User:        session.User,
	})
}

// logoutHandler handles POST /api/auth/logout. Logout is client-side only:
// the cookie is cleared but an already-captured token stays valid until
// its natural expiry, since there is no server-side revocation list.
func (h *Handlers) logoutHandler(c echo.Context) error {
	cookie := &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: h.cookies.SameSite,
		MaxAge:   -1,
	}
	c.SetCookie(cookie)

	return c.JSON(http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}

// getCurrentUser handles GET /api/auth/me
func (h *Handlers) getCurrentUser(c echo.Context) error {
	user := auth.GetUserFromContext(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "not authenticated",
		})
	}

	return c.JSON(http.StatusOK, user)
}

// setSessionCookie sets the HttpOnly session cookie. Secure follows the
// transport: set only when the request arrived over TLS.
func (h *Handlers) setSessionCookie(c echo.Context, token string, ttl time.Duration) {
	cookie := &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Request().TLS != nil,
		SameSite: h.cookies.SameSite,
		MaxAge:   int(ttl.Seconds()),
	}
	c.SetCookie(cookie)
}
