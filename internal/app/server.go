// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"bazaar_onboarding_backend/internal/buyer"
	"bazaar_onboarding_backend/internal/config"
	"bazaar_onboarding_backend/internal/jobs"
	"bazaar_onboarding_backend/internal/middleware"
	"bazaar_onboarding_backend/internal/oauth"
	"bazaar_onboarding_backend/internal/onboarding"
	"bazaar_onboarding_backend/internal/seller"
	"bazaar_onboarding_backend/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	// Handlers
	onboardingHandler *onboarding.Handler
	oauthHandler      *oauth.Handler

	// Jobs
	staleOnboardingJob *jobs.StaleOnboardingJob
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	onboardingHandler *onboarding.Handler,
	oauthHandler *oauth.Handler,
	staleOnboardingJob *jobs.StaleOnboardingJob,
	db *gorm.DB,
) (*Server, error) {
	if err := db.AutoMigrate(&user.User{}, &buyer.Profile{}, &seller.Profile{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database schema: %w", err)
	}

	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	// CORS Middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Bazaar Onboarding API is healthy!"})
	})
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"welcome": "Welcome to the marketplace onboarding API.",
			"oauth":   cfg.PublicBaseURL + "/oauth/redirect",
		})
	})

	root := router.Group("")
	onboardingHandler.RegisterRoutes(root)
	oauthHandler.RegisterRoutes(root)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:         httpServer,
		router:             router,
		cfg:                cfg,
		logger:             logger,
		onboardingHandler:  onboardingHandler,
		oauthHandler:       oauthHandler,
		staleOnboardingJob: staleOnboardingJob,
	}, nil
}

func (s *Server) Start() error {
	if s.staleOnboardingJob != nil {
		if err := s.staleOnboardingJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start stale onboarding job", zap.Error(err))
		}
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped gracefully or an error occurred")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.staleOnboardingJob != nil {
		s.staleOnboardingJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
