package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"leafscan-backend/internal/models"
)

// ContextKeyUser is the echo context key holding the authenticated user
const ContextKeyUser = "user"

// RequireAuth middleware resolves the session token from the request's
// accepted credential sources and loads the authenticated user into the
// context. All failure kinds collapse into one generic unauthorized
// response; the specific kind is kept for logging only.
func RequireAuth(authSvc *Service, mode ExtractMode) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ExtractToken(c, mode)
			if token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "not authenticated",
				})
			}

			user, err := authSvc.ResolveToken(c.Request().Context(), token)
			if err != nil {
				c.Logger().Debugf("token rejected: %v", err)
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "invalid or expired token",
				})
			}

			c.Set(ContextKeyUser, user)
			return next(c)
		}
	}
}

// GetUserFromContext retrieves the authenticated user from the context
func GetUserFromContext(c echo.Context) *models.User {
	user, ok := c.Get(ContextKeyUser).(*models.User)
	if !ok {
		return nil
	}
	return user
}
