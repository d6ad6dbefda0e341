package storage

import (
	"chat-relay/domain/chat"
	"chat-relay/domain/mimetypes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// S3Store uploads objects to any S3 compatible endpoint.
type S3Store struct {
	client    *minio.Client
	bucket    string
	publicURL string
	log       *slog.Logger
}

func NewS3Store(log *slog.Logger, config S3Config) (*S3Store, error) {
	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create s3 client: %w", err)
	}
	publicURL := config.PublicURL
	if publicURL == "" {
		scheme := "http"
		if config.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s", scheme, config.Endpoint)
	}
	return &S3Store{
		client:    client,
		bucket:    config.Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		log:       log,
	}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *S3Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	s.log.Info("Creating bucket", "bucket", s.bucket)
	return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
}

func (s *S3Store) Upload(ctx context.Context, localPath, folder string, resourceType mimetypes.ResourceType) (chat.Attachment, error) {
	detected, _, err := mimetypes.DetectFile(localPath)
	if err != nil {
		return chat.Attachment{}, err
	}
	name, err := objectName(localPath)
	if err != nil {
		return chat.Attachment{}, err
	}
	objectID := path.Join(folder, string(resourceType), name)
	info, err := s.client.FPutObject(ctx, s.bucket, objectID, localPath, minio.PutObjectOptions{
		ContentType: string(detected),
	})
	if err != nil {
		return chat.Attachment{}, err
	}
	s.log.Debug("Object uploaded", "object_id", objectID, "size", info.Size)
	return chat.Attachment{
		URL:      fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, objectID),
		ObjectID: objectID,
	}, nil
}

func (s *S3Store) Delete(ctx context.Context, objectID string) error {
	return s.client.RemoveObject(ctx, s.bucket, objectID, minio.RemoveObjectOptions{})
}
