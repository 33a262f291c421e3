// Package server implements the ffversion HTTP and gRPC services
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/nainya/ffversion/internal/config"
	"github.com/nainya/ffversion/internal/logger"
	"github.com/nainya/ffversion/internal/metrics"
	"github.com/nainya/ffversion/pkg/firefox"
)

// Server owns the public HTTP listener, the gRPC Releases service and the
// observability endpoints
type Server struct {
	cfg      *config.Config
	log      *logger.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	resolver *firefox.Resolver

	httpServer    *http.Server
	grpcServer    *grpc.Server
	health        *health.Server
	observability *ObservabilityServer

	httpListener net.Listener
	grpcListener net.Listener
}

// NewServer creates a server from cfg. Nothing is bound until Listen.
func NewServer(cfg *config.Config, log *logger.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(registry)

	client := firefox.NewClient(cfg.UpstreamURL, &http.Client{Timeout: cfg.UpstreamTimeout})
	client.Observer = NewUpstreamObserver(m, log)
	resolver := firefox.NewResolver(client)

	s := &Server{
		cfg:      cfg,
		log:      log,
		registry: registry,
		metrics:  m,
		resolver: resolver,
	}

	s.httpServer = &http.Server{
		Handler:           NewHTTPHandler(resolver, m, log),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	if cfg.GRPCAddr != "" {
		s.grpcServer = grpc.NewServer(
			grpc.UnaryInterceptor(GrpcMetricsInterceptor(m, log)),
		)
		RegisterReleasesServer(s.grpcServer, NewReleaseService(resolver, m))

		s.health = health.NewServer()
		healthpb.RegisterHealthServer(s.grpcServer, s.health)

		// Register reflection service for grpcurl/grpcui
		reflection.Register(s.grpcServer)
	}

	if cfg.MetricsPort > 0 {
		s.observability = NewObservabilityServer(cfg.MetricsPort, registry, log)
	}

	return s, nil
}

// Registry returns the Prometheus registry holding the server's metrics
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

// Listen binds the HTTP and gRPC listeners
func (s *Server) Listen() error {
	lis, err := net.Listen("tcp", s.cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.HTTPAddr, err)
	}
	s.httpListener = lis

	if s.grpcServer != nil {
		lis, err := net.Listen("tcp", s.cfg.GRPCAddr)
		if err != nil {
			s.httpListener.Close()
			return fmt.Errorf("failed to listen on %s: %w", s.cfg.GRPCAddr, err)
		}
		s.grpcListener = lis
	}
	return nil
}

// HTTPAddr returns the bound HTTP address, or nil before Listen
func (s *Server) HTTPAddr() net.Addr {
	if s.httpListener == nil {
		return nil
	}
	return s.httpListener.Addr()
}

// GRPCAddr returns the bound gRPC address, or nil when gRPC is disabled or
// before Listen
func (s *Server) GRPCAddr() net.Addr {
	if s.grpcListener == nil {
		return nil
	}
	return s.grpcListener.Addr()
}

// Serve runs every listener until ctx is cancelled, then shuts down
// gracefully. Listen must have been called.
func (s *Server) Serve(ctx context.Context) error {
	if s.httpListener == nil {
		return errors.New("server: Serve called before Listen")
	}

	s.log.LogServerStart(s.HTTPAddr().String(), s.cfg.GRPCAddr, s.cfg.UpstreamURL)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.LogServerReady("http", s.HTTPAddr().String())
		if err := s.httpServer.Serve(s.httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	if s.grpcServer != nil {
		g.Go(func() error {
			s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
			s.health.SetServingStatus(ReleasesServiceName, healthpb.HealthCheckResponse_SERVING)
			s.log.LogServerReady("grpc", s.GRPCAddr().String())
			if err := s.grpcServer.Serve(s.grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("grpc server failed: %w", err)
			}
			return nil
		})
	}

	if s.observability != nil {
		g.Go(s.observability.Start)
	}

	g.Go(func() error {
		s.metrics.RunUptime(gctx, 10*time.Second)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown()
	})

	return g.Wait()
}

func (s *Server) shutdown() error {
	s.log.LogServerShutdown()

	ctx := context.Background()
	if s.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()
	}

	var errs []error
	if s.grpcServer != nil {
		s.health.Shutdown()
		stopped := make(chan struct{})
		go func() {
			s.grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-ctx.Done():
			s.grpcServer.Stop()
		}
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}

	if s.observability != nil {
		if err := s.observability.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("observability shutdown: %w", err))
		}
	}

	return errors.Join(errs...)
}
