package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/ipma-weather/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WeatherService is the query surface served over HTTP.
type WeatherService interface {
	sharedobs.ReadinessChecker

	Initialize(ctx context.Context) (domain.InitSummary, error)
	GetLocations(ctx context.Context) ([]domain.LocationResult, error)
	GetForecast(ctx context.Context, q domain.ForecastQuery) ([]domain.ForecastResult, error)
	GetCurrentWeather(ctx context.Context) ([]domain.WeatherResult, error)
	GetWeatherTypes(ctx context.Context) ([]domain.LookupResult, error)
	GetWindSpeedClasses(ctx context.Context) ([]domain.LookupResult, error)
}

// Server exposes the weather API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	svc        WeatherService
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and the /v1 API routes.
func NewServer(addr string, svc WeatherService, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		svc:    svc,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(svc))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/locations", s.handleLocations)
	mux.HandleFunc("GET /v1/forecast", s.handleForecast)
	mux.HandleFunc("GET /v1/observations", s.handleObservations)
	mux.HandleFunc("GET /v1/weather-types", s.handleWeatherTypes)
	mux.HandleFunc("GET /v1/wind-speed-classes", s.handleWindSpeedClasses)
	mux.HandleFunc("POST /v1/reference/reload", s.handleReload)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
