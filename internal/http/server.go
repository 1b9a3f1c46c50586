// Package http provides HTTP server implementation and request handlers.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clearcove/phicrypt/internal/database"
	phiHTTP "github.com/clearcove/phicrypt/internal/phi/http"
	phiUseCase "github.com/clearcove/phicrypt/internal/phi/usecase"
)

// Server represents the main HTTP API server.
type Server struct {
	db            *sql.DB
	router        *gin.Engine
	server        *http.Server
	logger        *slog.Logger
	healthUseCase phiUseCase.HealthUseCase
}

// RouterConfig holds the handlers and middleware options used to build the router.
type RouterConfig struct {
	PHIHandler      *phiHTTP.PHIHandler
	RotationHandler *phiHTTP.RotationHandler
	HealthUseCase   phiUseCase.HealthUseCase

	CORSEnabled      bool
	CORSAllowOrigins string

	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int

	// MetricsMiddleware records per-request metrics when metrics are enabled.
	MetricsMiddleware gin.HandlerFunc
}

// NewServer creates a new HTTP server. The router is built later via SetupRouter.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the Gin router with middleware and all API routes.
func (s *Server) SetupRouter(cfg RouterConfig) {
	s.healthUseCase = cfg.HealthUseCase

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if cfg.MetricsMiddleware != nil {
		router.Use(cfg.MetricsMiddleware)
	}

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	// Health and readiness endpoints
	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	// API routes
	v1 := router.Group("/v1")
	if cfg.RateLimitEnabled {
		v1.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, s.logger))
	}

	if cfg.PHIHandler != nil {
		phi := v1.Group("/phi")
		phi.POST("/encrypt", cfg.PHIHandler.EncryptHandler)
		phi.POST("/decrypt", cfg.PHIHandler.DecryptHandler)
		phi.POST("/search-hash", cfg.PHIHandler.SearchHashHandler)
	}

	if cfg.RotationHandler != nil {
		phi := v1.Group("/phi")
		phi.POST("/rotations", cfg.RotationHandler.RotateHandler)
		phi.GET("/rotations", cfg.RotationHandler.ListRotationsHandler)
		phi.GET("/rotations/:id", cfg.RotationHandler.GetRotationHandler)
	}

	s.router = router
}

// GetHandler returns the underlying router, primarily used for testing.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// healthHandler reports liveness. When a health use case is wired it also
// verifies the encryption key with a round-trip check.
func (s *Server) healthHandler(c *gin.Context) {
	if s.healthUseCase == nil {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		return
	}

	status, err := s.healthUseCase.Check(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}

	if !status.Healthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"checks": status.Checks,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          "healthy",
		"key_fingerprint": status.KeyFingerprint,
		"checks":          status.Checks,
	})
}

// readinessHandler reports readiness to serve traffic, checking the database.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	if err := database.Ping(c.Request.Context(), s.db); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		s.SetupRouter(RouterConfig{})
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
