package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/fyrsmithlabs/eventdates/internal/logging"
	"github.com/fyrsmithlabs/eventdates/internal/telemetry"
)

func TestHTTPMetrics_MetricsMiddleware(t *testing.T) {
	tt := telemetry.NewTestTelemetry()
	m := NewHTTPMetrics(tt.Meter(InstrumentationName), logging.NewNop())

	server, err := NewServer(newProcessor(nil), logging.NewNop(), nil, WithHTTPMetrics(m))
	require.NoError(t, err)

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/health", nil),
		httptest.NewRequest(http.MethodGet, "/health", nil),
		httptest.NewRequest(http.MethodPost, "/api/v1/extract", nil),
	} {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		server.echo.ServeHTTP(httptest.NewRecorder(), req)
	}

	requests, ok := tt.Metric(t, "eventdates.http.requests_total")
	require.True(t, ok)
	sum, ok := requests.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	counts := map[string]int64{}
	for _, dp := range sum.DataPoints {
		endpoint, _ := dp.Attributes.Value(attribute.Key("endpoint"))
		status, _ := dp.Attributes.Value(attribute.Key("status"))
		counts[endpoint.AsString()+" "+status.Emit()] += dp.Value
	}
	assert.Equal(t, map[string]int64{
		"/health 200":         2,
		"/api/v1/extract 400": 1,
	}, counts)

	_, ok = tt.Metric(t, "eventdates.http.request_duration_seconds")
	assert.True(t, ok)
	_, ok = tt.Metric(t, "eventdates.http.response_size_bytes")
	assert.True(t, ok)
}

func TestRoutePath(t *testing.T) {
	assert.Equal(t, "/", routePath(""))
	assert.Equal(t, "/api/v1/extract", routePath("/api/v1/extract"))
}
