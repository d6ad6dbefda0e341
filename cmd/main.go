package main

import (
	"chat-relay/infrastructure/api"
	grpcserver "chat-relay/infrastructure/grpc/server"
	"chat-relay/infrastructure/websocket"
	"chat-relay/internal"
	"chat-relay/observability"
	"chat-relay/repositories"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"chat-relay/services"
	"chat-relay/storage"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires every component, serves until a signal arrives and
// returns only once deferred cleanups (database, servers) can run.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := observability.NewMetrics(registry)

	// 4. Stores & services
	userRepository := repositories.NewUserRepository(db)
	chatRepository := repositories.NewChatRepository(db)
	messageRepository := repositories.NewMessageRepository(db, log, config.LimitMessages)

	objectStore, err := newObjectStore(ctx, log, config)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(config.UploadTmpDir, 0o755); err != nil {
		return fmt.Errorf("upload directory: %w", err)
	}

	rooms := runtime.NewRoomManager()
	fanout := runtime.NewEventFanout(log, rooms, metrics, config.SinkTimeout)
	authService := services.NewAuthService(log, userRepository, []byte(config.AccessTokenSecret), config.AccessTokenDuration)
	attachmentService := services.NewAttachmentService(log, objectStore, metrics, config.AttachmentFolder, services.BreakerConfig{
		FailureThreshold: config.BreakerFailureThreshold,
		OpenTimeout:      config.BreakerOpenTimeout,
	})
	messageService := services.NewMessageService(log, chatRepository, messageRepository, attachmentService, fanout)

	// 5. Transports
	gateway := websocket.NewGateway(log, authService, rooms, fanout, metrics, websocket.Config{
		CookieName:      config.AccessTokenCookie,
		BufferSize:      config.ConnectionBufferSize,
		PingTimeout:     config.PingTimeout,
		FramesPerSecond: config.WsFramesPerSecond,
		FrameBurst:      config.WsFrameBurst,
		AllowedOrigins:  config.AllowedOrigins(),
	})
	routerConfig := api.RouterConfig{
		CookieName: config.AccessTokenCookie,
		Middleware: api.MiddlewareConfig{
			AllowedOrigins:    config.AllowedOrigins(),
			RateLimitRequests: config.RateLimitPerMinute,
			RateLimitWindow:   time.Minute,
		},
	}
	if config.ObjectStore == internal.ObjectStoreDisk {
		routerConfig.ObjectsDir = config.DiskStoreRoot
	}
	messageHandler := api.NewMessageHandler(log, messageService, api.UploadConfig{
		TmpDir:         config.UploadTmpDir,
		MaxFileSize:    config.MaxUploadSize(),
		MaxAttachments: config.MaxAttachments,
	})
	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:           api.NewRouter(log, routerConfig, authService, messageHandler, gateway, registry),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcAddress := fmt.Sprintf("%s:%d", config.Host, config.GrpcPort)
	grpcListener, err := net.Listen("tcp", grpcAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", grpcAddress, err)
	}
	healthServer := grpcserver.NewHealthServer(log, map[string]grpcserver.Probe{
		"badger": func() error {
			if db.IsClosed() {
				return errors.New("database closed")
			}
			return nil
		},
	}, config.HeartbeatInterval)

	// 6. Background workers
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(
		workers.NewUploadSweeper(log, config.UploadTmpDir, config.SweepInterval, config.TmpFileTTL),
		workers.NewHeartbeatWorker(log, metrics, rooms, config.HeartbeatInterval),
		healthServer,
	)
	supervised := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(supervised)
	}()

	errChan := make(chan error, 2)
	go func() {
		if err := healthServer.Serve(grpcListener); err != nil {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()
	go func() {
		log.Info("Starting HTTP server", "address", httpServer.Addr, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err = <-errChan:
		stop()
		<-supervised
		return err
	}

	// 8. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP server shutdown", "error", err)
	}
	sup.Stop()
	<-supervised
	log.Info("Program stopped cleanly")
	return nil
}

func newObjectStore(ctx context.Context, log *slog.Logger, config internal.Config) (storage.IObjectStore, error) {
	switch config.ObjectStore {
	case internal.ObjectStoreS3:
		store, err := storage.NewS3Store(log, storage.S3Config{
			Endpoint:  config.S3Endpoint,
			AccessKey: config.S3AccessKey,
			SecretKey: config.S3SecretKey,
			Bucket:    config.S3Bucket,
			UseSSL:    config.S3UseSSL,
			PublicURL: config.S3PublicURL,
		})
		if err != nil {
			return nil, fmt.Errorf("object storage: %w", err)
		}
		if err = store.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("object storage bucket: %w", err)
		}
		return store, nil
	default:
		store, err := storage.NewDiskStore(log, config.DiskStoreRoot, config.DiskStoreBaseURL)
		if err != nil {
			return nil, fmt.Errorf("object storage: %w", err)
		}
		return store, nil
	}
}
