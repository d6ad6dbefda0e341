package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func dialHealth(t *testing.T, h *HealthServer) healthpb.HealthClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	go func() { _ = h.Serve(lis) }()
	t.Cleanup(h.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return healthpb.NewHealthClient(conn)
}

func TestHealthServer_Follows_Probes(t *testing.T) {
	req := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Given a store that is open
	var closed atomic.Bool
	probes := map[string]Probe{
		"badger": func() error {
			if closed.Load() {
				return fmt.Errorf("database closed")
			}
			return nil
		},
	}
	h := NewHealthServer(logs.GetLoggerFromLevel(slog.LevelDebug), probes, time.Hour)
	client := dialHealth(t, h)

	// Then the service is serving
	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	req.NoError(err)
	req.Equal(healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	// When the store closes
	closed.Store(true)
	req.Equal(healthpb.HealthCheckResponse_NOT_SERVING, h.Check())

	// Then the service reports it
	resp, err = client.Check(ctx, &healthpb.HealthCheckRequest{Service: ""})
	req.NoError(err)
	req.Equal(healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())
}

func TestHealthServer_Run_Stops_On_Cancel(t *testing.T) {
	req := require.New(t)
	h := NewHealthServer(logs.GetLoggerFromLevel(slog.LevelDebug), nil, 10*time.Millisecond)
	lis := bufconn.Listen(1 << 20)
	served := make(chan error, 1)
	go func() { served <- h.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	req.NoError(err)
	defer func() { _ = conn.Close() }()

	// Given the server answers
	_, err = healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{})
	req.NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx) }()

	cancel()

	req.ErrorIs(<-done, context.Canceled)
	select {
	case err := <-served:
		req.NoError(err)
	case <-time.After(2 * time.Second):
		req.Fail("server still serving after Run returned")
	}
}
