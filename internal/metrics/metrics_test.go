package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRecorder struct {
	calls []string
}

func (r *countingRecorder) RecordEngineCall(_ context.Context, operation, outcome string, _ time.Duration) {
	r.calls = append(r.calls, operation+":"+outcome)
}

func TestMultiRecorder(t *testing.T) {
	a, b := &countingRecorder{}, &countingRecorder{}
	m := Multi{a, nil, b}

	m.RecordEngineCall(context.Background(), "generate_voicings", OutcomeOK, time.Millisecond)

	assert.Equal(t, []string{"generate_voicings:ok"}, a.calls)
	assert.Equal(t, []string{"generate_voicings:ok"}, b.calls)
}

func TestPrometheusEngineCalls(t *testing.T) {
	p := NewPrometheus()

	p.RecordEngineCall(context.Background(), "analyze_progression", OutcomeOK, time.Millisecond)
	p.RecordEngineCall(context.Background(), "analyze_progression", OutcomeOK, time.Millisecond)
	p.RecordEngineCall(context.Background(), "analyze_progression", OutcomeNotFound, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.EngineCallsTotal.WithLabelValues("analyze_progression", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.EngineCallsTotal.WithLabelValues("analyze_progression", OutcomeNotFound)))
}

func TestPrometheusHandler(t *testing.T) {
	p := NewPrometheus()
	p.ObserveHTTP("GET", "/health", 200, 2*time.Millisecond)

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `http_requests_total{method="GET",path="/health",status="200"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestCloudWatchDisabledOutsideProduction(t *testing.T) {
	client, err := NewClient(context.Background(), "development")
	require.NoError(t, err)
	assert.False(t, client.Enabled())

	// no-ops when disabled
	client.RecordEngineCall(context.Background(), "parse_tab", OutcomeOK, time.Millisecond)
	client.RecordAPIRequest("/health", 200, time.Millisecond)
	assert.NotPanics(t, func() { client.publish(datum("EngineCalls", 1, "Count", nil)) })
}

func TestCloudWatchDimensions(t *testing.T) {
	client := &Client{environment: "production"}

	dims := client.dimensions("Operation", "scale", "Outcome", OutcomeOK)
	require.Len(t, dims, 3)

	got := map[string]string{}
	for _, d := range dims {
		got[*d.Name] = *d.Value
	}
	assert.Equal(t, map[string]string{
		"Operation":   "scale",
		"Outcome":     OutcomeOK,
		"Environment": "production",
	}, got)

	// a dangling name is ignored
	assert.Len(t, client.dimensions("Route"), 1)
}

func TestSentryMetricsWithoutClient(t *testing.T) {
	m := NewSentryMetrics()
	assert.NotPanics(t, func() {
		m.RecordEngineCall(context.Background(), "parse_tab", OutcomeError, time.Millisecond)
		m.RecordAPIRequest(context.Background(), "/health", 200, time.Millisecond)
	})
}

func TestSentryEnabledFollowsClient(t *testing.T) {
	assert.False(t, sentryEnabled(context.Background()))

	client, err := sentry.NewClient(sentry.ClientOptions{})
	require.NoError(t, err)
	ctx := sentry.SetHubOnContext(context.Background(), sentry.NewHub(client, sentry.NewScope()))
	assert.True(t, sentryEnabled(ctx))
}

func TestStartSpanAtCoversDuration(t *testing.T) {
	span := startSpanAt(context.Background(), "engine.scale", 250*time.Millisecond)

	assert.Equal(t, "engine.scale", span.Op)
	assert.Equal(t, 250*time.Millisecond, span.EndTime.Sub(span.StartTime))
	assert.WithinDuration(t, time.Now(), span.EndTime, time.Second)
}
