package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/eventdates/internal/config"
	"github.com/fyrsmithlabs/eventdates/internal/extraction"
	"github.com/fyrsmithlabs/eventdates/internal/logging"
	"github.com/fyrsmithlabs/eventdates/internal/notes"
	"github.com/fyrsmithlabs/eventdates/internal/pipeline"
	"github.com/fyrsmithlabs/eventdates/internal/reranker"
	"github.com/fyrsmithlabs/eventdates/internal/telemetry"
)

const tracerName = "github.com/fyrsmithlabs/eventdates/cmd/eventdates"

// app holds the dependencies initialized for one command invocation.
type app struct {
	cfg    *config.Config
	logger *logging.Logger
	tel    *telemetry.Telemetry
	runID  string
}

// newApp loads configuration and starts telemetry and logging.
func newApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := config.LoadWithFile(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		level, err := logging.LevelFromString(opts.logLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid --log-level: %w", err)
		}
		cfg.Logging.Level = level
	}

	tel, err := telemetry.New(ctx, &cfg.Telemetry)
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(&cfg.Logging, tel.LoggerProvider())
	if err != nil {
		_ = tel.Shutdown(ctx)
		return nil, fmt.Errorf("logger initialization failed: %w", err)
	}
	tel.SetLogger(logger)

	return &app{
		cfg:    cfg,
		logger: logger,
		tel:    tel,
		runID:  uuid.NewString(),
	}, nil
}

// context tags ctx with the run ID and logger.
func (a *app) context(ctx context.Context) context.Context {
	ctx = logging.WithLogger(ctx, a.logger)
	return logging.WithRunID(ctx, a.runID)
}

func (a *app) close(ctx context.Context) {
	if err := a.tel.Shutdown(ctx); err != nil {
		a.logger.Warn(ctx, "telemetry shutdown failed", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func (a *app) loader() *notes.Loader {
	return notes.NewLoader(a.logger, notes.WithDefaultWindow(a.cfg.Extraction.DefaultWindow))
}

// service builds the pipeline for x with the configured reranker.
func (a *app) service(x extraction.DateExtractor, reg prometheus.Registerer) *pipeline.Service {
	rr := reranker.NewFuzzyReranker(reranker.Config{
		Threshold: a.cfg.Rerank.Threshold,
		MinCount:  a.cfg.Rerank.MinCount,
		MaxCount:  a.cfg.Rerank.MaxCount,
	}, reranker.WithLogger(a.logger))

	return pipeline.NewService(x, rr,
		pipeline.WithWorkers(a.cfg.Pipeline.Workers),
		pipeline.WithLogger(a.logger),
		pipeline.WithTracer(a.tel.Tracer(tracerName)),
		pipeline.WithMetrics(pipeline.NewMetrics(reg)),
	)
}

// rerankFlags are the flags shared by commands that run the pipeline.
type rerankFlags struct {
	threshold float64
	minCount  int
	maxCount  int
	workers   int
}

func (f *rerankFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.threshold, "threshold", 0, "drop candidates scoring below this (overrides rerank.threshold)")
	cmd.Flags().IntVar(&f.minCount, "min-count", 0, "always keep at least this many candidates (overrides rerank.min_count)")
	cmd.Flags().IntVar(&f.maxCount, "max-count", 0, "return at most this many candidates per patient, 0 for all (overrides rerank.max_count)")
	cmd.Flags().IntVar(&f.workers, "workers", 1, "patients processed concurrently (overrides pipeline.workers)")
}

// apply overrides cfg with the flags the user set and revalidates it.
func (f *rerankFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("threshold") {
		cfg.Rerank.Threshold = f.threshold
	}
	if cmd.Flags().Changed("min-count") {
		cfg.Rerank.MinCount = f.minCount
	}
	if cmd.Flags().Changed("max-count") {
		cfg.Rerank.MaxCount = f.maxCount
	}
	if cmd.Flags().Changed("workers") {
		cfg.Pipeline.Workers = f.workers
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}
