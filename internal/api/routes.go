package api

import (
	"database/sql"

	"github.com/labstack/echo/v4"

	"leafscan-backend/internal/auth"
	"leafscan-backend/internal/database"
	"leafscan-backend/internal/inference"
)

// Route keys used by the admission controller
const (
	RouteRegister = "register"
	RouteLogin    = "login"
	RoutePredict  = "predict"
)

// Handlers bundles the services the HTTP layer depends on. Everything is
// injected at startup and shared by reference across concurrent requests.
type Handlers struct {
	db         *sql.DB
	auth       *auth.Service
	analyses   *database.AnalysisRepo
	classifier inference.Classifier
	limiter    *auth.RateLimiter
	cookies    CookieConfig
}

// NewHandlers creates the HTTP handler set
func NewHandlers(
	db *sql.DB,
	authSvc *auth.Service,
	analyses *database.AnalysisRepo,
	classifier inference.Classifier,
	limiter *auth.RateLimiter,
	cookies CookieConfig,
) *Handlers {
	return &Handlers{
		db:         db,
		auth:       authSvc,
		analyses:   analyses,
		classifier: classifier,
		limiter:    limiter,
		cookies:    cookies,
	}
}

// RegisterRoutes sets up all API routes. Rate limiting runs before
// authentication so quota breaches are rejected without any token or
// database work.
func RegisterRoutes(api *echo.Group, h *Handlers) {
	// Health check (public)
	api.GET("/health", h.healthCheck)

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.registerHandler, h.limiter.Middleware(RouteRegister))
	authGroup.POST("/login", h.loginHandler, h.limiter.Middleware(RouteLogin))
	authGroup.POST("/logout", h.logoutHandler)
	authGroup.GET("/me", h.getCurrentUser, auth.RequireAuth(h.auth, auth.ModeCookieOrBearer))

	// Classification routes (authenticated)
	api.POST("/predict", h.predictHandler,
		h.limiter.Middleware(RoutePredict),
		auth.RequireAuth(h.auth, auth.ModeCookieOrBearer))
	api.GET("/analyses", h.listAnalysesHandler,
		auth.RequireAuth(h.auth, auth.ModeCookie))
}
