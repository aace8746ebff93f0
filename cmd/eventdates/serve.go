package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/eventdates/internal/extraction"
	httpserver "github.com/fyrsmithlabs/eventdates/internal/http"
)

type serveOptions struct {
	rerank   rerankFlags
	keywords string
	host     string
	port     int
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve date extraction over HTTP",
		Long: `Start an HTTP server that runs the extract pipeline on posted patients.

Endpoints:
  GET  /health           liveness and telemetry status
  GET  /metrics          Prometheus metrics
  POST /api/v1/extract   rank dates for the patients in the JSON body

The server stops gracefully on SIGINT or SIGTERM.

Examples:
  eventdates serve --keywords keywords.tsv
  eventdates serve --keywords keywords.toml --port 8080 --threshold 0.05`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, root, opts)
		},
	}
	opts.rerank.register(cmd)
	cmd.Flags().StringVarP(&opts.keywords, "keywords", "k", "", "keywords file (required)")
	cmd.Flags().StringVar(&opts.host, "host", "", "listen host (overrides server.host)")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "listen port (overrides server.http_port)")
	_ = cmd.MarkFlagRequired("keywords")
	return cmd
}

func runServe(cmd *cobra.Command, root *rootOptions, opts *serveOptions) error {
	a, err := newApp(cmd.Context(), root)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	if cmd.Flags().Changed("host") {
		a.cfg.Server.Host = opts.host
	}
	if cmd.Flags().Changed("port") {
		a.cfg.Server.Port = opts.port
	}
	if err := opts.rerank.apply(cmd, a.cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(a.context(cmd.Context()), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	keywords, err := a.loader().LoadKeywords(ctx, opts.keywords)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	svc := a.service(extraction.NewExtractor(keywords, extraction.WithLogger(a.logger)), reg)

	srv, err := httpserver.NewServer(svc, a.logger, &httpserver.Config{
		Host:      a.cfg.Server.Host,
		Port:      a.cfg.Server.Port,
		RateLimit: a.cfg.Server.RateLimit,
		Version:   version,
	},
		httpserver.WithGatherer(reg),
		httpserver.WithTelemetry(a.tel),
		httpserver.WithHTTPMetrics(httpserver.NewHTTPMetrics(a.tel.Meter(httpserver.InstrumentationName), a.logger)),
	)
	if err != nil {
		return fmt.Errorf("create http server: %w", err)
	}

	a.logger.Info(ctx, "server configured",
		zap.String("addr", a.cfg.Server.Addr()),
		zap.Int("keywords", len(keywords)),
		zap.Float64("threshold", a.cfg.Rerank.Threshold),
		zap.Int("min_count", a.cfg.Rerank.MinCount),
		zap.Int("max_count", a.cfg.Rerank.MaxCount),
		zap.Duration("shutdown_timeout", a.cfg.Server.ShutdownTimeout.Duration()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.Server.ShutdownTimeout.Duration())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
