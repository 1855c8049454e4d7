// Package api exposes the signed-upload HTTP surface: the sign endpoint that
// issues upload policies and the save endpoint that finalizes completed
// uploads.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cmstack/s3vfs"
	"github.com/cmstack/s3vfs/backend"
	"github.com/cmstack/s3vfs/internal/config"
	"github.com/cmstack/s3vfs/internal/record"
)

// RecordStore is the host record capability the save endpoint delegates to.
type RecordStore interface {
	CreateFileRecord(ctx context.Context, rec record.FileRecord) (uint, error)
}

// Server wires the upload endpoints, middleware, and their collaborators.
type Server struct {
	cfg     *config.Config
	records RecordStore
	logger  *slog.Logger
	lookup  func(scheme string) vfs.FileSystem
	router  *gin.Engine
}

// New builds a Server from host configuration. A nil lookup defaults to the
// backend registry.
func New(cfg *config.Config, records RecordStore, logger *slog.Logger, lookup func(scheme string) vfs.FileSystem) *Server {
	if cfg.Server.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if lookup == nil {
		lookup = backend.Backend
	}

	s := &Server{
		cfg:     cfg,
		records: records,
		logger:  logger,
		lookup:  lookup,
		router:  gin.New(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(requestLogger(s.logger))

	// browsers hit the sign endpoint cross-origin before uploading straight
	// to the store, so CORS must admit the frontend origin
	corsConfig := cors.DefaultConfig()
	if len(s.cfg.Server.CORSOrigins) > 0 {
		corsConfig.AllowOrigins = s.cfg.Server.CORSOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	s.router.Use(cors.New(corsConfig))
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "s3vfs"})
	})

	uploads := s.router.Group("/s3")
	uploads.Use(actorFromJWT(s.cfg.Server.JWTSecret, s.cfg.Server.AllowAnonymous))
	{
		uploads.POST("/cors-upload-sign", s.signUpload)
		uploads.POST("/cors-upload-save", s.saveUpload)
	}
}

// Handler returns the http.Handler for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the server on the configured address.
func (s *Server) Start() error {
	return s.router.Run(s.cfg.Server.Addr)
}
