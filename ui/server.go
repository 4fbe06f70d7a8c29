package ui

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net"
	"net/http"
	"time"

	"datadash/app"
	"datadash/internal"
	"datadash/ui/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// Options tune the web server
type Options struct {
	MaxUploadBytes int64
	CookieName     string
}

// Server represents the web server for the dashboard
type Server struct {
	router    *gin.Engine
	dashboard *app.DashboardService
	templates *template.Template
	files     fs.FS
	options   Options
}

// NewServer creates a new web server instance. files must contain
// ui/templates/*.html and may contain ui/static.
func NewServer(dashboard *app.DashboardService, files fs.FS, options Options) (*Server, error) {
	if dashboard == nil {
		return nil, fmt.Errorf("dashboard service cannot be nil")
	}
	if options.CookieName == "" {
		options.CookieName = "datadash_session"
	}

	templates, err := parseTemplates(files)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:    gin.Default(),
		dashboard: dashboard,
		templates: templates,
		files:     files,
		options:   options,
	}
	if options.MaxUploadBytes > 0 {
		s.router.MaxMultipartMemory = options.MaxUploadBytes
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	staticFS, err := fs.Sub(s.files, "ui/static")
	if err != nil {
		internal.DefaultLogger.Warn("[setupMiddleware] No static filesystem: %v", err)
	} else {
		s.router.StaticFS("/static", http.FS(staticFS))
	}
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	session := s.router.Group("/", middleware.EnsureSession(s.options.CookieName))
	session.GET("/", s.handleIndex)

	api := session.Group("/api")
	api.POST("/dataset", s.handleUpload)
	api.DELETE("/dataset", s.handleReset)
	api.GET("/dataset/overview", s.handleOverview)
	api.POST("/plot", s.handlePlot)
	api.GET("/value-counts", s.handleValueCounts)
	api.GET("/correlation", s.handleCorrelation)
	api.POST("/ask", s.handleAsk)
	api.GET("/questions", s.handleQuestions)
}

// Handler exposes the router, e.g. for httptest
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until ctx is cancelled, then drains in-flight
// requests
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	eg, egctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		internal.DefaultLogger.Info("Starting dashboard on http://%s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		internal.DefaultLogger.Info("Shutting down dashboard")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
