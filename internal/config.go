package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

const (
	ObjectStoreDisk = "disk"
	ObjectStoreS3   = "s3"
)

type Config struct {
	Host     string `env:"HOST,default=0.0.0.0"`
	Port     int    `env:"PORT,default=8080"`
	GrpcPort int    `env:"GRPC_PORT,default=9090"`
	LogLevel string `env:"LOG_LEVEL,default=INFO"`

	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	LimitMessages  *int   `env:"LIMIT_MESSAGES"`

	AccessTokenSecret   string        `env:"ACCESS_TOKEN_SECRET,required=true"`
	AccessTokenCookie   string        `env:"ACCESS_TOKEN_COOKIE,default=accessToken"`
	AccessTokenDuration time.Duration `env:"ACCESS_TOKEN_DURATION,default=24h"`
	CorsOrigin          string        `env:"CORS_ORIGIN,default=*"`

	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=64"`
	SinkTimeout          time.Duration `env:"SINK_TIMEOUT,default=2s"`
	PingTimeout          time.Duration `env:"PING_TIMEOUT,default=60s"`
	WsFramesPerSecond    float64       `env:"WS_FRAMES_PER_SECOND,default=20"`
	WsFrameBurst         int           `env:"WS_FRAME_BURST,default=40"`
	RateLimitPerMinute   int           `env:"RATE_LIMIT_PER_MINUTE,default=300"`

	UploadTmpDir     string `env:"UPLOAD_TMP_DIR,default=./public/temp"`
	MaxUploadSizeMB  int    `env:"MAX_UPLOAD_SIZE_MB,default=10"`
	MaxAttachments   int    `env:"MAX_ATTACHMENTS,default=5"`
	AttachmentFolder string `env:"ATTACHMENT_FOLDER,default=chat-app/messages"`

	ObjectStore      string `env:"OBJECT_STORE,default=disk"`
	DiskStoreRoot    string `env:"DISK_STORE_ROOT,default=./public/objects"`
	DiskStoreBaseURL string `env:"DISK_STORE_BASE_URL,default=http://localhost:8080/objects"`
	S3Endpoint       string `env:"S3_ENDPOINT"`
	S3AccessKey      string `env:"S3_ACCESS_KEY"`
	S3SecretKey      string `env:"S3_SECRET_KEY"`
	S3Bucket         string `env:"S3_BUCKET,default=chat-relay"`
	S3UseSSL         bool   `env:"S3_USE_SSL,default=false"`
	S3PublicURL      string `env:"S3_PUBLIC_URL"`

	BreakerFailureThreshold uint32        `env:"BREAKER_FAILURE_THRESHOLD,default=5"`
	BreakerOpenTimeout      time.Duration `env:"BREAKER_OPEN_TIMEOUT,default=30s"`

	SweepInterval     time.Duration `env:"SWEEP_INTERVAL,default=5m"`
	TmpFileTTL        time.Duration `env:"TMP_FILE_TTL,default=1h"`
	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL,default=15s"`
	RestartInterval   time.Duration `env:"RESTART_INTERVAL,default=1s"`
}

// Validate rejects combinations go-env cannot express with tags.
func (c Config) Validate() error {
	if len(c.AccessTokenSecret) < 32 {
		return fmt.Errorf("ACCESS_TOKEN_SECRET must be at least 32 bytes")
	}
	if !lo.Contains([]string{ObjectStoreDisk, ObjectStoreS3}, c.ObjectStore) {
		return fmt.Errorf("OBJECT_STORE must be %q or %q, got %q", ObjectStoreDisk, ObjectStoreS3, c.ObjectStore)
	}
	if c.ObjectStore == ObjectStoreS3 && (c.S3Endpoint == "" || c.S3AccessKey == "" || c.S3SecretKey == "") {
		return fmt.Errorf("S3_ENDPOINT, S3_ACCESS_KEY and S3_SECRET_KEY are required when OBJECT_STORE=s3")
	}
	if c.LimitMessages != nil && *c.LimitMessages <= 0 {
		return fmt.Errorf("LIMIT_MESSAGES must be positive when set, got %d", *c.LimitMessages)
	}
	if c.MaxUploadSizeMB <= 0 || c.MaxAttachments <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE_MB and MAX_ATTACHMENTS must be positive")
	}
	return nil
}

func (c Config) MaxUploadSize() int64 {
	return int64(c.MaxUploadSizeMB) << 20
}

// AllowedOrigins splits CORS_ORIGIN on commas.
func (c Config) AllowedOrigins() []string {
	origins := lo.Map(strings.Split(c.CorsOrigin, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	return lo.Compact(origins)
}
