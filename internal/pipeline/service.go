// Package pipeline runs extraction and reranking over patients.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fyrsmithlabs/eventdates/internal/extraction"
	"github.com/fyrsmithlabs/eventdates/internal/logging"
	"github.com/fyrsmithlabs/eventdates/internal/notes"
	"github.com/fyrsmithlabs/eventdates/internal/reranker"
)

const instrumentationName = "github.com/fyrsmithlabs/eventdates/internal/pipeline"

// Service extracts and reranks the date candidates of each patient.
// Patients are independent, so a Service may process several at once.
type Service struct {
	extractor extraction.DateExtractor
	reranker  reranker.Reranker
	workers   int
	logger    *logging.Logger
	tracer    trace.Tracer
	metrics   *Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithWorkers bounds the number of patients processed concurrently by
// ProcessAll. Values below one are treated as one.
func WithWorkers(n int) Option {
	return func(s *Service) {
		s.workers = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithTracer sets the tracer used for per-patient spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithMetrics sets the Prometheus metrics to update.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService creates a Service from an extractor and a reranker.
func NewService(x extraction.DateExtractor, r reranker.Reranker, opts ...Option) *Service {
	s := &Service{
		extractor: x,
		reranker:  r,
		workers:   1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.workers < 1 {
		s.workers = 1
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(instrumentationName)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}
	return s
}

// Process extracts candidates from one patient's notes and reranks them.
func (s *Service) Process(ctx context.Context, p notes.Patient) (notes.PatientDates, error) {
	ctx = logging.WithPatientID(ctx, p.MRN)
	ctx, span := s.tracer.Start(ctx, "pipeline.patient",
		trace.WithAttributes(attribute.Int("notes", len(p.Notes))))
	defer span.End()

	start := time.Now()
	extracted := s.extractor.Extract(ctx, p.Notes)
	ranked, err := s.reranker.Rerank(ctx, extracted)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rerank failed")
		s.metrics.PatientsFailed.Inc()
		return notes.PatientDates{}, fmt.Errorf("rerank patient %s: %w", p.MRN, err)
	}
	elapsed := time.Since(start)

	span.SetAttributes(
		attribute.Int("candidates.extracted", len(extracted)),
		attribute.Int("candidates.returned", len(ranked)),
	)
	s.metrics.PatientsProcessed.Inc()
	s.metrics.NotesProcessed.Add(float64(len(p.Notes)))
	s.metrics.CandidatesExtracted.Add(float64(len(extracted)))
	s.metrics.CandidatesReturned.Add(float64(len(ranked)))
	s.metrics.PatientDuration.Observe(elapsed.Seconds())
	if len(ranked) == 0 {
		s.metrics.PatientsWithoutDate.Inc()
	}

	s.logger.Debug(ctx, "patient processed",
		zap.Int("notes", len(p.Notes)),
		zap.Int("extracted", len(extracted)),
		zap.Int("returned", len(ranked)),
		zap.Duration("elapsed", elapsed),
	)

	return notes.PatientDates{MRN: p.MRN, Candidates: ranked}, nil
}

// ProcessAll processes patients with at most the configured number of
// workers. Results are in input order. The first failure cancels the
// remaining patients and is returned.
func (s *Service) ProcessAll(ctx context.Context, patients []notes.Patient) ([]notes.PatientDates, error) {
	out := make([]notes.PatientDates, len(patients))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, p := range patients {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.Process(gctx, p)
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "run complete",
		zap.Int("patients", len(patients)),
		zap.Int("workers", s.workers),
	)
	return out, nil
}
