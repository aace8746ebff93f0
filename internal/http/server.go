// Package http serves date extraction over HTTP.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/eventdates/internal/dates"
	"github.com/fyrsmithlabs/eventdates/internal/extraction"
	"github.com/fyrsmithlabs/eventdates/internal/logging"
	"github.com/fyrsmithlabs/eventdates/internal/notes"
	"github.com/fyrsmithlabs/eventdates/internal/telemetry"
)

// Processor turns patients into ranked dates.
type Processor interface {
	ProcessAll(ctx context.Context, patients []notes.Patient) ([]notes.PatientDates, error)
}

// Server provides HTTP endpoints for eventdates.
type Server struct {
	echo      *echo.Echo
	processor Processor
	logger    *logging.Logger
	config    *Config
	gatherer  prometheus.Gatherer
	tel       *telemetry.Telemetry
	metrics   *HTTPMetrics
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
	// BodyLimit bounds request bodies, e.g. "10M".
	BodyLimit string
	// MaxPatients bounds the patients accepted in one request.
	MaxPatients int
	// RateLimit is the sustained requests per second allowed per client
	// IP. Zero disables rate limiting.
	RateLimit float64
	// Version is reported by /health.
	Version string
}

// Option configures a Server.
type Option func(*Server)

// WithGatherer sets the registry served on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithTelemetry reports telemetry health on /health.
func WithTelemetry(t *telemetry.Telemetry) Option {
	return func(s *Server) {
		s.tel = t
	}
}

// WithHTTPMetrics records otel request metrics.
func WithHTTPMetrics(m *HTTPMetrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// NewServer creates a new HTTP server.
func NewServer(processor Processor, logger *logging.Logger, cfg *Config, opts ...Option) (*Server, error) {
	if processor == nil {
		return nil, errors.New("processor cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "localhost",
			Port: 9191,
		}
	}
	if cfg.BodyLimit == "" {
		cfg.BodyLimit = "10M"
	}
	if cfg.MaxPatients <= 0 {
		cfg.MaxPatients = 1000
	}

	s := &Server{
		echo:      echo.New(),
		processor: processor,
		logger:    logger,
		config:    cfg,
		gatherer:  prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	if cfg.RateLimit > 0 {
		e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.RateLimit))))
	}
	if s.metrics != nil {
		e.Use(s.metrics.MetricsMiddleware())
	}
	e.Use(s.requestLogger)

	s.registerRoutes()
	return s, nil
}

// requestLogger tags the request context with its request ID as the run ID
// and logs the request once its response, including any error, is written.
func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		reqID := c.Response().Header().Get(echo.HeaderXRequestID)
		req := c.Request()
		ctx := logging.WithRunID(req.Context(), reqID)
		c.SetRequest(req.WithContext(ctx))

		if err := next(c); err != nil {
			c.Error(err)
		}

		s.logger.Info(ctx, "http request",
			zap.String("method", req.Method),
			zap.String("uri", req.RequestURI),
			zap.Int("status", c.Response().Status),
			zap.Duration("duration", time.Since(start)),
		)
		return nil
	}
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	v1 := s.echo.Group("/api/v1")
	v1.POST("/extract", s.handleExtract)
}

func (s *Server) handleHealth(c echo.Context) error {
	resp := HealthResponse{Status: "ok", Version: s.config.Version}
	if s.tel != nil {
		h := s.tel.Health()
		resp.Telemetry = &h
		if h.Degraded {
			resp.Status = "degraded"
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleExtract(c echo.Context) error {
	ctx := c.Request().Context()

	var req ExtractRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn(ctx, "invalid extract request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.Patients) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "patients field is required")
	}
	if len(req.Patients) > s.config.MaxPatients {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("at most %d patients per request", s.config.MaxPatients))
	}

	patients := make([]notes.Patient, len(req.Patients))
	for i, p := range req.Patients {
		if p.MRN == "" {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("patients[%d]: mrn is required", i))
		}
		patients[i] = toPatient(p)
	}

	results, err := s.processor.ProcessAll(ctx, patients)
	if err != nil {
		s.logger.Error(ctx, "extraction failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "extraction failed")
	}

	resp := ExtractResponse{
		RunID:    logging.RunIDFromContext(ctx),
		Patients: make([]PatientResponse, len(results)),
	}
	for i, r := range results {
		resp.Patients[i] = toResponse(r)
	}
	return c.JSON(http.StatusOK, resp)
}

func toPatient(p PatientRequest) notes.Patient {
	out := notes.Patient{MRN: p.MRN, Notes: make([]extraction.ClinicNote, len(p.Notes))}
	for i, n := range p.Notes {
		note := extraction.ClinicNote{Desc: n.Desc, Text: n.Text}
		if d, err := dates.ParseISO(n.Date); err == nil {
			note.Date = d
		}
		out.Notes[i] = note
	}
	return out
}

func toResponse(r notes.PatientDates) PatientResponse {
	out := PatientResponse{MRN: r.MRN, Dates: make([]DateScore, 0, len(r.Candidates))}
	for _, c := range r.Candidates {
		out.Dates = append(out.Dates, DateScore{
			Date:     c.Date.String(),
			Score:    c.Score,
			Snippets: c.Snippets,
		})
	}
	return out
}

// Echo returns the underlying echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Start starts the HTTP server. It returns nil after a graceful shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info(context.Background(), "starting http server", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "shutting down http server")
	return s.echo.Shutdown(ctx)
}
