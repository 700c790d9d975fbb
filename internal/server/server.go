// Package server
//
// @title Rentalhub Web Front
// @version 1.0
// @description Serves the rental store app and gates its page routes
// @host localhost:8080
// @BasePath /
package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/rentalhub/rentalhub/internal/assert"
	"github.com/rentalhub/rentalhub/internal/config"
	"github.com/rentalhub/rentalhub/internal/endpoints"
	"github.com/rentalhub/rentalhub/internal/gateway"
	"github.com/rentalhub/rentalhub/internal/routes"
	"github.com/rentalhub/rentalhub/internal/session"
	"github.com/rentalhub/rentalhub/internal/storage"
	"github.com/rentalhub/rentalhub/internal/workers"
)

// sessionSecretKey holds the generated cookie secret in the system namespace
const sessionSecretKey = "sessionSecret"

// Deps are the collaborators a Server needs. New builds them from config;
// tests pass their own to NewWithDeps.
type Deps struct {
	Store    storage.Store
	Sessions *session.Manager
	Guard    *routes.Guard
	Gateway  *gateway.Client
}

// Server represents the HTTP server
type Server struct {
	router   *gin.Engine
	config   *config.Config
	logger   zerolog.Logger
	store    storage.Store
	sessions *session.Manager
	guard    *routes.Guard
	gateway  *gateway.Client
	pruner   *cron.Cron
	version  string
}

// New creates a new server instance
func New(cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	table := routes.Default()
	if cfg.Server.RoutesFile != "" {
		t, err := routes.LoadFile(cfg.Server.RoutesFile)
		if err != nil {
			return nil, err
		}
		table = t
		zlog.Info().Str("file", cfg.Server.RoutesFile).Int("routes", len(t.Routes())).Msg("Loaded route table")
	}

	store, sqlStore, err := openStore(cfg, zlog)
	if err != nil {
		return nil, err
	}

	secret, err := loadOrCreateSecret(context.Background(), cfg, store, zlog)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	sessions, err := session.NewManager(secret)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	reg := endpoints.NewWithIdentity(cfg.Gateway.BaseURL, cfg.Gateway.IdentityBaseURL)
	gw := gateway.New(reg, zlog)
	gw.SetHTTPClient(&http.Client{Timeout: cfg.Gateway.Timeout})

	srv := NewWithDeps(cfg, zlog, version, Deps{
		Store:    store,
		Sessions: sessions,
		Guard:    routes.NewGuard(table),
		Gateway:  gw,
	})

	if sqlStore != nil {
		pruner, err := workers.StartSessionPruner(
			cfg.Session.PruneSchedule,
			cfg.Session.RetentionAfter,
			sqlStore,
			zlog,
		)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		srv.pruner = pruner
	}

	return srv, nil
}

// NewWithDeps creates a server around prebuilt collaborators
func NewWithDeps(cfg *config.Config, zlog zerolog.Logger, version string, deps Deps) *Server {
	server := &Server{
		config:   cfg,
		logger:   zlog,
		store:    deps.Store,
		sessions: deps.Sessions,
		guard:    deps.Guard,
		gateway:  deps.Gateway,
		version:  version,
	}

	server.setupRouter()
	return server
}

// openStore picks the session storage backend. The SQL store is also
// returned on its own so the pruner can use it.
func openStore(cfg *config.Config, zlog zerolog.Logger) (storage.Store, *storage.SQLStore, error) {
	switch cfg.Session.Backend {
	case "redis":
		rdb, err := storage.NewRedisClient(cfg.Redis.Address)
		if err != nil {
			return nil, nil, err
		}
		zlog.Info().Str("address", cfg.Redis.Address).Msg("Using Redis session storage")
		return storage.NewRedisStore(rdb), nil, nil
	case "sqlite", "":
		db, err := storage.OpenSQLite(cfg.Database.URL, zlog)
		if err != nil {
			return nil, nil, err
		}
		zlog.Info().Str("database", cfg.Database.URL).Msg("Using SQLite session storage")
		s := storage.NewSQLStore(db)
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}

// loadOrCreateSecret returns the configured cookie secret, or the one
// generated on first start and persisted in storage
func loadOrCreateSecret(ctx context.Context, cfg *config.Config, store storage.Store, zlog zerolog.Logger) (string, error) {
	if cfg.Session.Secret != "" {
		return cfg.Session.Secret, nil
	}

	secret, err := store.Get(ctx, session.SystemNamespace, sessionSecretKey)
	if err == nil {
		zlog.Debug().Msg("Loaded session secret from storage")
		return secret, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return "", err
	}

	// 64 hex characters = 32 bytes of randomness
	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return "", fmt.Errorf("failed to generate session secret: %w", err)
	}
	secret = hex.EncodeToString(secretBytes)
	assert.Length(secret, 64)

	if err := store.Set(ctx, session.SystemNamespace, sessionSecretKey, secret); err != nil {
		return "", err
	}
	zlog.Info().Msg("Generated session secret")
	return secret, nil
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)
	registerValidators()

	s.router = gin.New()

	s.router.Use(gin.Recovery())
	s.router.Use(requestIDMiddleware())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(securityHeadersMiddleware())

	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", headerRequestID},
		ExposeHeaders:    []string{"Content-Length", headerRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	s.router.GET("/health", s.healthCheck)

	if s.config.Server.StaticDir != "" {
		s.router.Static("/assets", s.config.Server.StaticDir+"/assets")
	}

	// Page routes: every table entry passes through the guard
	pages := s.router.Group("/")
	pages.Use(SessionMiddleware(s.sessions, s.store, s.config.Session, s.logger))
	for _, route := range s.guard.Table().Routes() {
		pages.GET(route.Path, s.servePage)
	}

	api := s.router.Group("/api")
	api.Use(SessionMiddleware(s.sessions, s.store, s.config.Session, s.logger))
	{
		api.POST("/auth/login", s.login)
		api.POST("/auth/signup", s.signup)
		api.POST("/auth/logout", s.logout)
		api.GET("/auth/session", s.getSession)

		api.GET("/navigate", s.navigate)
		api.GET("/endpoints", s.listEndpoints)
	}

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString(contextKeyRequestID)).
			Msg("HTTP request")
	}
}

// @Router /health [get]
// @Success 200 {object} map[string]interface{}
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "rentalhub-web",
		"version":   s.version,
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	port := ":" + s.config.Server.Port

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{
		Addr:              port,
		Handler:           s.router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second, // gateway calls run inside handlers
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info().Str("port", port).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("HTTP server error")
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")
	case err := <-errChan:
		s.close()
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	s.logger.Info().Msg("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	s.close()
	s.logger.Info().Msg("Server shutdown complete")
	return nil
}

func (s *Server) close() {
	if s.pruner != nil {
		<-s.pruner.Stop().Done()
		s.logger.Info().Msg("Session pruner stopped")
	}

	if err := s.store.Close(); err != nil {
		s.logger.Error().Err(err).Msg("Error closing session storage")
	} else {
		s.logger.Info().Msg("Session storage closed successfully")
	}
}
