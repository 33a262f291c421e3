// Package metrics provides Prometheus metrics for ffversion
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for ffversion
type Metrics struct {
	// HTTP request metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// gRPC request metrics
	GrpcRequestsTotal   *prometheus.CounterVec
	GrpcRequestDuration *prometheus.HistogramVec

	// Upstream metrics
	UpstreamFetchesTotal  *prometheus.CounterVec
	UpstreamFetchDuration prometheus.Histogram

	// Channel metrics
	ChannelLookupsTotal *prometheus.CounterVec

	// Server metrics
	ServerUptimeSeconds prometheus.Gauge
	ServerStartTime     time.Time
}

// NewMetrics creates all metrics and registers them with reg. A nil reg
// registers with the default Prometheus registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	m := &Metrics{
		ServerStartTime: time.Now(),
	}

	// HTTP request metrics
	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ffversion_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "code"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ffversion_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	m.HTTPRequestsInFlight = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "ffversion_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// gRPC request metrics
	m.GrpcRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ffversion_grpc_requests_total",
			Help: "Total number of gRPC requests",
		},
		[]string{"method", "status"},
	)

	m.GrpcRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ffversion_grpc_request_duration_seconds",
			Help:    "Duration of gRPC requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// Upstream metrics
	m.UpstreamFetchesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ffversion_upstream_fetches_total",
			Help: "Total number of version document fetches",
		},
		[]string{"status"},
	)

	m.UpstreamFetchDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ffversion_upstream_fetch_duration_seconds",
			Help:    "Duration of version document fetches in seconds",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	// Channel metrics
	m.ChannelLookupsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ffversion_channel_lookups_total",
			Help: "Total number of successful channel resolutions",
		},
		[]string{"channel"},
	)

	// Server metrics
	m.ServerUptimeSeconds = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "ffversion_server_uptime_seconds",
			Help: "Server uptime in seconds",
		},
	)

	return m
}

// RunUptime updates the uptime gauge every interval until ctx is done.
func (m *Metrics) RunUptime(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		m.ServerUptimeSeconds.Set(time.Since(m.ServerStartTime).Seconds())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RecordHTTPRequest records a served HTTP request
func (m *Metrics) RecordHTTPRequest(route string, code int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordGrpcRequest records a gRPC request with its status
func (m *Metrics) RecordGrpcRequest(method string, status string, duration time.Duration) {
	m.GrpcRequestsTotal.WithLabelValues(method, status).Inc()
	m.GrpcRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordUpstreamFetch records one fetch of the version document
func (m *Metrics) RecordUpstreamFetch(status string, duration time.Duration) {
	m.UpstreamFetchesTotal.WithLabelValues(status).Inc()
	m.UpstreamFetchDuration.Observe(duration.Seconds())
}

// RecordChannelLookup records a successful resolution of channel
func (m *Metrics) RecordChannelLookup(channel string) {
	m.ChannelLookupsTotal.WithLabelValues(channel).Inc()
}
