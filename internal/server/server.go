// Package server exposes the screening gateway over HTTP: condition
// discovery, form schemas, screening submission and the audit trail, plus
// health and metrics endpoints.
package server

import (
	"context"
	"fmt"
	"net/http"

	"medscreen-gateway/internal/common/config"
	"medscreen-gateway/internal/common/database"
	"medscreen-gateway/internal/common/logger"
	"medscreen-gateway/internal/screening"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	cfg        *config.Config
	logger     logger.Logger
	svc        *screening.Service
	postgres   *database.PostgresClient
	redis      *database.RedisClient
	httpServer *http.Server
}

func New(cfg *config.Config, svc *screening.Service, pg *database.PostgresClient, rds *database.RedisClient, log logger.Logger) *Server {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:      cfg,
		logger:   log,
		svc:      svc,
		postgres: pg,
		redis:    rds,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(s.requestLogger())
	engine.Use(cors.New(s.corsConfig()))

	s.registerRoutes(engine)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	return s
}

func (s *Server) corsConfig() cors.Config {
	corsCfg := cors.DefaultConfig()
	origins := s.cfg.Server.AllowedOrigins
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	return corsCfg
}

func (s *Server) registerRoutes(engine *gin.Engine) {
	engine.GET("/health", s.handleHealth)
	engine.GET("/ready", s.handleReady)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api/v1")
	{
		api.GET("/conditions", s.handleListConditions)
		api.GET("/conditions/:slug/schema", s.handleConditionSchema)
		api.POST("/conditions/:slug/screenings", s.handleCreateScreening)
		api.GET("/screenings/recent", s.handleRecentScreenings)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.URL.Path == "/health" || c.Request.URL.Path == "/metrics" {
			return
		}
		s.logger.Info("request handled", map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		})
	}
}

// Start blocks serving HTTP until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server starting", map[string]interface{}{
		"addr": s.httpServer.Addr,
	})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
