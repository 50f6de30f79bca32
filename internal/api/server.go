// Package api serves the launcher's HTTP API with huma.
package api

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/smazurov/launcher/internal/api/models"
	"github.com/smazurov/launcher/internal/events"
	"github.com/smazurov/launcher/internal/launcher"
	"github.com/smazurov/launcher/internal/logging"
	"github.com/smazurov/launcher/internal/version"
)

// LauncherService is the part of launcher.Service the API drives.
type LauncherService interface {
	Click(ctx context.Context, source string) (launcher.Snapshot, error)
	Shift(ctx context.Context, delta int) (launcher.Snapshot, error)
	SetLED(ctx context.Context, on bool) (launcher.Snapshot, error)
	Snapshot(ctx context.Context) (launcher.Snapshot, error)
	Frame() *image.RGBA
}

// Options configures the API server.
type Options struct {
	AuthUsername      string
	AuthPassword      string
	Launcher          LauncherService
	EventBus          *events.Bus
	PrometheusHandler http.Handler // optional, served at /metrics without auth
	RequestTimeout    time.Duration
}

// Server is the huma API server.
type Server struct {
	api        huma.API
	mux        *http.ServeMux
	httpServer *http.Server
	launcher   LauncherService
	eventBus   *events.Bus
	options    *Options
	logger     *slog.Logger
}

// NewServer creates the server and registers every route.
func NewServer(opts *Options) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 5 * time.Second
	}

	mux := http.NewServeMux()
	cors := DefaultCORSConfig()
	AddCORSHandler(mux, cors)

	config := huma.DefaultConfig("Launcher API", version.Get().Version)
	config.Info.Description = "Control the image carousel launcher and its status LED"
	config.Servers = []*huma.Server{}
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"basicAuth": {Type: "http", Scheme: "basic"},
	}

	s := &Server{
		api:      humago.New(mux, config),
		mux:      mux,
		launcher: opts.Launcher,
		eventBus: opts.EventBus,
		options:  opts,
		logger:   logging.GetLogger("api"),
	}

	s.api.UseMiddleware(NewCORSMiddleware(cors))
	s.api.UseMiddleware(HTTPLoggingMiddleware)
	if opts.AuthUsername != "" && opts.AuthPassword != "" {
		s.api.UseMiddleware(s.basicAuthMiddleware(opts.AuthUsername, opts.AuthPassword))
	}

	if opts.PrometheusHandler != nil {
		mux.Handle("GET /metrics", opts.PrometheusHandler)
	}

	s.registerRoutes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves on addr until Stop is called.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("Starting API server", "addr", addr, "docs", "http://"+addr+"/docs")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop closes the listener and all connections, including SSE streams.
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("Stopping API server")
	return s.httpServer.Close()
}

func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health",
		Description: "Check API health status",
		Tags:        []string{"system"},
		Security:    []map[string][]string{},
	}, func(_ context.Context, _ *struct{}) (*models.HealthResponse, error) {
		return &models.HealthResponse{
			Body: models.HealthData{Status: "ok", Message: "API is healthy"},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-version",
		Method:      http.MethodGet,
		Path:        "/api/version",
		Summary:     "Version",
		Description: "Get build information",
		Tags:        []string{"system"},
		Security:    []map[string][]string{},
	}, func(_ context.Context, _ *struct{}) (*models.VersionResponse, error) {
		info := version.Get()
		return &models.VersionResponse{
			Body: models.VersionData{
				Version:   info.Version,
				GitCommit: info.GitCommit,
				BuildDate: info.BuildDate,
				GoVersion: info.GoVersion,
				Platform:  info.Platform,
			},
		}, nil
	})

	s.registerLauncherRoutes()
	s.registerLogRoutes()
	s.registerSSERoutes()
}

// withAuth marks an operation as protected by basic auth.
func withAuth() []map[string][]string {
	return []map[string][]string{{"basicAuth": {}}}
}
