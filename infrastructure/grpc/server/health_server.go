package server

import (
	"context"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const ServiceName = "chat-relay"

// Probe reports whether a dependency of the service is usable.
type Probe func() error

// HealthServer exposes the standard gRPC health service.
// The status follows the probes, checked on every tick.
type HealthServer struct {
	log      *slog.Logger
	server   *grpc.Server
	health   *health.Server
	probes   map[string]Probe
	interval time.Duration
}

func NewHealthServer(log *slog.Logger, probes map[string]Probe, interval time.Duration) *HealthServer {
	h := &HealthServer{
		log:      log,
		server:   grpc.NewServer(),
		health:   health.NewServer(),
		probes:   probes,
		interval: interval,
	}
	healthpb.RegisterHealthServer(h.server, h.health)
	h.Check()
	return h
}

// Serve blocks until the server is stopped.
func (h *HealthServer) Serve(lis net.Listener) error {
	h.log.Info("gRPC health server listening", "addr", lis.Addr().String())
	return h.server.Serve(lis)
}

// Check runs every probe and publishes the resulting status.
func (h *HealthServer) Check() healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	for name, probe := range h.probes {
		if err := probe(); err != nil {
			h.log.Warn("Health probe failed", "probe", name, "error", err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
	return status
}

// Run refreshes the status until ctx is done, then stops serving.
func (h *HealthServer) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.Stop()
			return ctx.Err()
		case <-ticker.C:
			h.Check()
		}
	}
}

func (h *HealthServer) Stop() {
	h.health.Shutdown()
	h.server.GracefulStop()
}
