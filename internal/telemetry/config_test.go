package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.Equal(t, ProtocolGRPC, cfg.Protocol)
	assert.Equal(t, "eventdates", cfg.ServiceName)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, 1.0, cfg.Sampling.Rate)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 15*time.Second, cfg.Metrics.ExportInterval)
	assert.Equal(t, 5*time.Second, cfg.Shutdown.Timeout)
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	enabled := func(mutate func(*Config)) *Config {
		cfg := NewDefaultConfig()
		cfg.Enabled = true
		mutate(cfg)
		return cfg
	}

	tests := []struct {
		name   string
		config *Config
		errMsg string
	}{
		{
			name:   "disabled config skips validation",
			config: &Config{Enabled: false},
		},
		{
			name:   "enabled defaults",
			config: enabled(func(*Config) {}),
		},
		{
			name:   "missing endpoint",
			config: enabled(func(c *Config) { c.Endpoint = "" }),
			errMsg: "endpoint is required",
		},
		{
			name:   "missing service name",
			config: enabled(func(c *Config) { c.ServiceName = "" }),
			errMsg: "service_name is required",
		},
		{
			name:   "unknown protocol",
			config: enabled(func(c *Config) { c.Protocol = "udp" }),
			errMsg: "protocol must be",
		},
		{
			name:   "insecure remote endpoint",
			config: enabled(func(c *Config) { c.Endpoint = "collector.example.com:4317" }),
			errMsg: "insecure connections to remote endpoints",
		},
		{
			name: "secure remote endpoint",
			config: enabled(func(c *Config) {
				c.Endpoint = "https://collector.example.com:4318"
				c.Protocol = ProtocolHTTP
				c.Insecure = false
			}),
		},
		{
			name:   "sampling rate above one",
			config: enabled(func(c *Config) { c.Sampling.Rate = 1.5 }),
			errMsg: "sampling.rate must be between 0 and 1",
		},
		{
			name:   "zero export interval",
			config: enabled(func(c *Config) { c.Metrics.ExportInterval = 0 }),
			errMsg: "metrics.export_interval must be positive",
		},
		{
			name: "zero export interval with metrics off",
			config: enabled(func(c *Config) {
				c.Metrics.Enabled = false
				c.Metrics.ExportInterval = 0
			}),
		},
		{
			name:   "zero shutdown timeout",
			config: enabled(func(c *Config) { c.Shutdown.Timeout = 0 }),
			errMsg: "shutdown.timeout must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfig_IsLocalEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		want     bool
	}{
		{"localhost:4317", true},
		{"127.0.0.1:4317", true},
		{"127.0.0.2", true},
		{"[::1]:4317", true},
		{"http://localhost:4318", true},
		{"collector:4317", false},
		{"10.0.0.5:4317", false},
		{"localhost.example.com:4317", false},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			cfg := &Config{Endpoint: tt.endpoint}
			assert.Equal(t, tt.want, cfg.isLocalEndpoint())
		})
	}
}

func TestStripScheme(t *testing.T) {
	assert.Equal(t, "host:4318", stripScheme("https://host:4318"))
	assert.Equal(t, "host:4318", stripScheme("http://host:4318"))
	assert.Equal(t, "host:4317", stripScheme("host:4317"))
}
