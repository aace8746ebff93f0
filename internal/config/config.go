// Package config provides configuration loading for eventdates.
//
// Values come from hardcoded defaults, then an optional YAML file, then
// EVENTDATES_* environment variables. Command line flags are applied on
// top by the caller.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/fyrsmithlabs/eventdates/internal/logging"
	"github.com/fyrsmithlabs/eventdates/internal/telemetry"
)

// Config holds the complete eventdates configuration.
type Config struct {
	Extraction ExtractionConfig `koanf:"extraction"`
	Rerank     RerankConfig     `koanf:"rerank"`
	Pipeline   PipelineConfig   `koanf:"pipeline"`
	Server     ServerConfig     `koanf:"server"`
	Logging    logging.Config   `koanf:"logging"`
	Telemetry  telemetry.Config `koanf:"telemetry"`
}

// ExtractionConfig configures keyword loading.
type ExtractionConfig struct {
	// DefaultWindow is given to keywords whose line names no window.
	DefaultWindow int `koanf:"default_window"`
}

// RerankConfig configures the fuzzy reranker.
type RerankConfig struct {
	Threshold float64 `koanf:"threshold"`
	// MinCount below zero is accepted; the reranker warns and skips
	// filtering.
	MinCount int `koanf:"min_count"`
	// MaxCount caps the candidates returned per patient. Zero means no cap.
	MaxCount int `koanf:"max_count"`
}

// PipelineConfig configures batch processing.
type PipelineConfig struct {
	Workers int `koanf:"workers"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"http_port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
	// RateLimit is requests per second per client IP; zero disables it.
	RateLimit float64 `koanf:"rate_limit"`
}

// Addr returns host:port for the listener.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	tel := telemetry.NewDefaultConfig()
	return &Config{
		Extraction: ExtractionConfig{
			DefaultWindow: 100,
		},
		Rerank: RerankConfig{
			Threshold: 0,
			MinCount:  0,
			MaxCount:  0,
		},
		Pipeline: PipelineConfig{
			Workers: 1,
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            9191,
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Logging:   *logging.NewDefaultConfig(),
		Telemetry: *tel,
	}
}

// Validate checks the configuration for errors. Every problem found is
// reported.
func (c *Config) Validate() error {
	var errs []error

	if c.Extraction.DefaultWindow < 0 {
		errs = append(errs, fmt.Errorf("extraction.default_window must be >= 0, got %d", c.Extraction.DefaultWindow))
	}
	if c.Rerank.Threshold < 0 || c.Rerank.Threshold > 1 {
		errs = append(errs, fmt.Errorf("rerank.threshold must be between 0 and 1, got %g", c.Rerank.Threshold))
	}
	if c.Rerank.MaxCount < 0 {
		errs = append(errs, fmt.Errorf("rerank.max_count must be >= 0, got %d", c.Rerank.MaxCount))
	}
	if c.Pipeline.Workers < 1 {
		errs = append(errs, fmt.Errorf("pipeline.workers must be >= 1, got %d", c.Pipeline.Workers))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("server.rate_limit must be >= 0, got %g", c.Server.RateLimit))
	}
	if c.Server.ShutdownTimeout.Duration() <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}
	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}
	if err := c.Telemetry.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("telemetry: %w", err))
	}

	return errors.Join(errs...)
}
