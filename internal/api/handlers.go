package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// healthCheck handles GET /api/health
func (h *Handlers) healthCheck(c echo.Context) error {
	if err := h.db.PingContext(c.Request().Context()); err != nil {
		c.Logger().Error("health check db error: ", err)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "degraded",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
