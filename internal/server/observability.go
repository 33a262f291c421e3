// Observability middleware and HTTP server for metrics and profiling
package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"

	"github.com/nainya/ffversion/internal/logger"
	"github.com/nainya/ffversion/internal/metrics"
)

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

// InstrumentHTTP wraps an httprouter handle with metrics and request logging
func InstrumentHTTP(route string, m *metrics.Metrics, log *logger.Logger, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		start := time.Now()
		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		rec := &statusRecorder{ResponseWriter: w}
		next(rec, r, ps)

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		duration := time.Since(start)

		m.RecordHTTPRequest(route, rec.status, duration)
		log.LogHTTPRequest(r.Method, r.URL.Path, rec.status, duration)
	}
}

// GrpcMetricsInterceptor creates a gRPC interceptor for metrics and logging
func GrpcMetricsInterceptor(m *metrics.Metrics, log *logger.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()

		resp, err := handler(ctx, req)

		duration := time.Since(start)
		status := "success"
		if err != nil {
			status = "error"
		}

		m.RecordGrpcRequest(info.FullMethod, status, duration)
		log.LogGrpcRequest(info.FullMethod, duration, err)

		return resp, err
	}
}

// UpstreamObserver reports version document fetches to metrics and logs
type UpstreamObserver struct {
	metrics *metrics.Metrics
	log     *logger.Logger
}

// NewUpstreamObserver creates an observer for firefox.Client
func NewUpstreamObserver(m *metrics.Metrics, log *logger.Logger) *UpstreamObserver {
	return &UpstreamObserver{metrics: m, log: log.UpstreamLogger()}
}

// ObserveFetch implements firefox.FetchObserver
func (o *UpstreamObserver) ObserveFetch(url string, statusCode int, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	o.metrics.RecordUpstreamFetch(status, duration)
	o.log.LogUpstreamFetch(url, statusCode, duration, err)
}

// ObservabilityServer provides HTTP endpoints for metrics and profiling
type ObservabilityServer struct {
	server *http.Server
	log    *logger.Logger
}

// NewObservabilityHandler returns the metrics, health and pprof mux
func NewObservabilityHandler(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","service":"ffversion"}`))
	})

	// Readiness check endpoint
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	})

	// pprof endpoints for profiling
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return mux
}

// NewObservabilityServer creates a new HTTP server for observability
func NewObservabilityServer(port int, gatherer prometheus.Gatherer, log *logger.Logger) *ObservabilityServer {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      NewObservabilityHandler(gatherer),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &ObservabilityServer{
		server: server,
		log:    log,
	}
}

// Start starts the observability HTTP server
func (o *ObservabilityServer) Start() error {
	o.log.Info("Starting observability server").
		Str("addr", o.server.Addr).
		Str("metrics", fmt.Sprintf("http://%s/metrics", o.server.Addr)).
		Str("pprof", fmt.Sprintf("http://%s/debug/pprof/", o.server.Addr)).
		Msg("Observability endpoints available")

	if err := o.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("observability server failed: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the observability server
func (o *ObservabilityServer) Shutdown(ctx context.Context) error {
	o.log.Info("Shutting down observability server").Send()
	return o.server.Shutdown(ctx)
}
