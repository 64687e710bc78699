package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"leafscan-backend/internal/api"
	"leafscan-backend/internal/auth"
	"leafscan-backend/internal/config"
	"leafscan-backend/internal/database"
	"leafscan-backend/internal/inference"
)

func main() {
	// Missing secrets are fatal: the process must not serve traffic
	// without a signing key.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	log.Printf("Initializing database at %s", cfg.DatabasePath)
	db, err := database.Open(database.Config{Path: cfg.DatabasePath})
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	tokens, err := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.JWTAlgorithm, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("Failed to initialize token service: %v", err)
	}

	userRepo := database.NewUserRepo(db)
	analysisRepo := database.NewAnalysisRepo(db)
	authSvc := auth.NewService(userRepo, tokens)
	classifier := inference.NewHTTPClassifier(cfg.InferenceURL)

	limiter := auth.NewRateLimiter(map[string]auth.Rule{
		api.RouteRegister: {Max: 3, Window: time.Hour},
		api.RouteLogin:    {Max: 5, Window: time.Minute},
		api.RoutePredict:  {Max: 10, Window: time.Minute},
	})

	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	// API routes
	handlers := api.NewHandlers(db, authSvc, analysisRepo, classifier, limiter,
		api.CookieConfig{SameSite: cfg.CookieSameSite})
	api.RegisterRoutes(e.Group("/api"), handlers)

	// Serve until interrupted, then drain connections and close the pool
	go func() {
		log.Printf("Starting leafscan backend on port %s", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}
}
