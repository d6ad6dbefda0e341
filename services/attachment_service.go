//go:generate go run go.uber.org/mock/mockgen -source=attachment_service.go -destination=../mocks/mock_attachment_service.go -package=mocks
package services

import (
	"chat-relay/domain/chat"
	"chat-relay/domain/mimetypes"
	"chat-relay/errors"
	"chat-relay/observability"
	"chat-relay/storage"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/sony/gobreaker/v2"
)

// IAttachmentService is the Attachment Offload Pipeline.
type IAttachmentService interface {
	Offload(ctx context.Context, file chat.UploadedFile) (chat.Attachment, error)
	Reclaim(ctx context.Context, attachment chat.Attachment)
}

type BreakerConfig struct {
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

type AttachmentService struct {
	log     *slog.Logger
	store   storage.IObjectStore
	metrics *observability.Metrics
	folder  string
	breaker *gobreaker.CircuitBreaker[chat.Attachment]
}

func NewAttachmentService(log *slog.Logger, store storage.IObjectStore, metrics *observability.Metrics,
	folder string, config BreakerConfig) *AttachmentService {
	settings := gobreaker.Settings{
		Name:        "object-storage",
		MaxRequests: 1,
		Timeout:     config.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}
	return &AttachmentService{
		log:     log,
		store:   store,
		metrics: metrics,
		folder:  folder,
		breaker: gobreaker.NewCircuitBreaker[chat.Attachment](settings),
	}
}

// Offload uploads a spooled file and removes it once stored.
// On failure the temporary file is left in place and an UpstreamFailure is returned,
// the caller decides to skip the attachment.
func (s *AttachmentService) Offload(ctx context.Context, file chat.UploadedFile) (chat.Attachment, error) {
	_, resourceType, err := mimetypes.DetectFile(file.TmpPath)
	if err != nil {
		return chat.Attachment{}, s.failed(file, err)
	}
	attachment, err := s.breaker.Execute(func() (chat.Attachment, error) {
		return s.store.Upload(ctx, file.TmpPath, s.folder, resourceType)
	})
	if stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests) {
		err = fmt.Errorf("%w: %v", errors.ErrCircuitOpen, err)
	}
	if err != nil {
		return chat.Attachment{}, s.failed(file, err)
	}
	if err = os.Remove(file.TmpPath); err != nil {
		s.log.Warn("Unable to remove temporary upload", "path", file.TmpPath, "error", err)
	}
	s.count(observability.AttachmentUploaded)
	s.log.Debug("Attachment offloaded", "file", file.Name, "object_id", attachment.ObjectID)
	return attachment, nil
}

func (s *AttachmentService) failed(file chat.UploadedFile, err error) error {
	s.log.Error("Attachment upload failed", "file", file.Name, "path", file.TmpPath, "error", err)
	s.count(observability.AttachmentFailed)
	return errors.Upstream("Attachment upload failed", err)
}

// Reclaim deletes the stored object of an attachment, failures are only logged.
func (s *AttachmentService) Reclaim(ctx context.Context, attachment chat.Attachment) {
	if err := s.store.Delete(ctx, attachment.ObjectID); err != nil {
		s.log.Warn("Unable to reclaim attachment", "object_id", attachment.ObjectID, "error", err)
		s.count(observability.AttachmentReclaimFailed)
		return
	}
	s.count(observability.AttachmentReclaimed)
}

func (s *AttachmentService) count(result string) {
	if s.metrics != nil {
		s.metrics.Attachments.WithLabelValues(result).Inc()
	}
}
