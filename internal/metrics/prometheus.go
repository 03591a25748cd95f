package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus holds the service's Prometheus collectors on a private registry
type Prometheus struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	EngineCallsTotal   *prometheus.CounterVec
	EngineCallDuration *prometheus.HistogramVec
}

// NewPrometheus creates and registers all collectors
func NewPrometheus() *Prometheus {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Prometheus{
		registry: registry,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path", "status"},
		),

		EngineCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harmony_engine_calls_total",
				Help: "Total number of engine operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		EngineCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "harmony_engine_call_duration_seconds",
				Help:    "Engine operation latency in seconds",
				Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05},
			},
			[]string{"operation"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// ObserveHTTP records one finished HTTP request
func (p *Prometheus) ObserveHTTP(method, path string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	p.HTTPRequestsTotal.WithLabelValues(method, path, code).Inc()
	p.HTTPRequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
}

// RecordEngineCall implements Recorder
func (p *Prometheus) RecordEngineCall(_ context.Context, operation, outcome string, duration time.Duration) {
	p.EngineCallsTotal.WithLabelValues(operation, outcome).Inc()
	p.EngineCallDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
