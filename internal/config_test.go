package internal

import (
	"strings"
	"testing"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	req := require.New(t)
	t.Setenv("BADGER_FILEPATH", "/tmp/badger")
	t.Setenv("ACCESS_TOKEN_SECRET", strings.Repeat("s", 32))
	t.Setenv("CORS_ORIGIN", "http://a.test, http://b.test,")

	var config Config
	_, err := env.UnmarshalFromEnviron(&config)
	req.NoError(err)

	req.NoError(config.Validate())
	req.Equal("accessToken", config.AccessTokenCookie)
	req.Equal(60*time.Second, config.PingTimeout)
	req.Equal(int64(10<<20), config.MaxUploadSize())
	req.Equal(5, config.MaxAttachments)
	req.Equal("chat-app/messages", config.AttachmentFolder)
	req.Equal(ObjectStoreDisk, config.ObjectStore)
	req.Nil(config.LimitMessages)
	req.Equal([]string{"http://a.test", "http://b.test"}, config.AllowedOrigins())
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		AccessTokenSecret: strings.Repeat("s", 32),
		ObjectStore:       ObjectStoreDisk,
		MaxUploadSizeMB:   10,
		MaxAttachments:    5,
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "short secret", mutate: func(c *Config) { c.AccessTokenSecret = "short" }, wantErr: true},
		{name: "unknown store", mutate: func(c *Config) { c.ObjectStore = "ftp" }, wantErr: true},
		{name: "s3 without credentials", mutate: func(c *Config) { c.ObjectStore = ObjectStoreS3 }, wantErr: true},
		{name: "s3 with credentials", mutate: func(c *Config) {
			c.ObjectStore = ObjectStoreS3
			c.S3Endpoint, c.S3AccessKey, c.S3SecretKey = "localhost:9000", "key", "secret"
		}},
		{name: "no attachments", mutate: func(c *Config) { c.MaxAttachments = 0 }, wantErr: true},
		{name: "message cap", mutate: func(c *Config) { c.LimitMessages = lo.ToPtr(100) }},
		{name: "zero message cap", mutate: func(c *Config) { c.LimitMessages = lo.ToPtr(0) }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid
			tt.mutate(&config)
			err := config.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
