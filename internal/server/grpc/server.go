// Package grpc runs the server's gRPC endpoint. It serves the standard
// grpc.health.v1 service, reporting SERVING only while the object store
// answers readiness probes.
package grpc

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dmitrijs2005/s3drop/internal/logging"
)

const probeTimeout = 2 * time.Second

// ReadinessCheck is anything that can tell whether a dependency is usable.
// storage.Gateway satisfies it.
type ReadinessCheck interface {
	Ping(ctx context.Context) error
}

type GRPCServer struct {
	address  string
	logger   logging.Logger
	checks   []ReadinessCheck
	interval time.Duration
	health   *health.Server
}

func NewGRPCServer(a string, l logging.Logger, interval time.Duration, checks ...ReadinessCheck) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		checks:   checks,
		interval: interval,
		health:   health.NewServer(),
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {
	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))

	// start pessimistic
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(srv, s.health)

	go s.watchReadiness(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	return srv.Serve(lis)
}

func (s *GRPCServer) watchReadiness(ctx context.Context) {
	interval := s.interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := healthpb.HealthCheckResponse_NOT_SERVING
	for {
		status := s.probe(ctx)
		if ctx.Err() != nil {
			return
		}
		if status != last {
			s.logger.Info(ctx, "readiness changed", "status", status.String())
			last = status
		}
		s.health.SetServingStatus("", status)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *GRPCServer) probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	for _, c := range s.checks {
		cctx, cancel := context.WithTimeout(ctx, probeTimeout)
		err := c.Ping(cctx)
		cancel()

		if err != nil {
			s.logger.Debug(ctx, "readiness probe failed", "error", err)
			return healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	return healthpb.HealthCheckResponse_SERVING
}
