// Package web serves the task page and a JSON API over a single App.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arthur-debert/nanotasks/nanotasks"
)

//go:embed templates/*.html
var templatesFS embed.FS

const shutdownTimeout = 5 * time.Second

// Server is the nanotasks web server.
type Server struct {
	app    *nanotasks.App
	router *gin.Engine
	logger *slog.Logger
	access *slog.Logger

	// mu serializes every mutation and guards the shared page form and message
	mu      sync.Mutex
	message string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the application logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithAccessLogger sets the logger receiving one record per request.
func WithAccessLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.access = logger }
}

// NewServer creates a new web server.
func NewServer(app *nanotasks.App, opts ...Option) *Server {
	s := &Server{app: app}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.access == nil {
		s.access = s.logger
	}

	router := gin.New()
	router.Use(requestID(), accessLog(s.access), gin.Recovery())
	router.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))
	s.router = router

	// Web routes
	router.GET("/", s.handleIndex)
	router.POST("/tasks", s.handleSubmit)
	router.POST("/tasks/cancel", s.handleCancel)
	router.POST("/tasks/:id/edit", s.handleEdit)
	router.POST("/tasks/:id/toggle", s.handleToggle)
	router.POST("/tasks/:id/delete", s.handleDelete)
	router.GET("/healthz", s.handleHealth)

	// API routes
	api := router.Group("/api")
	{
		api.GET("/tasks", s.handleAPIList)
		api.POST("/tasks", s.handleAPICreate)
		api.PUT("/tasks/:id", s.handleAPIUpdate)
		api.POST("/tasks/:id/toggle", s.handleAPIToggle)
		api.DELETE("/tasks/:id", s.handleAPIDelete)
	}

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("web server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("web server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
