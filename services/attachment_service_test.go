package services

import (
	"chat-relay/domain/chat"
	"chat-relay/domain/mimetypes"
	"chat-relay/errors"
	"chat-relay/mocks"
	"chat-relay/observability"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const folder = "chat-app/messages"

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func spool(t *testing.T, content []byte) chat.UploadedFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), "upload")
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return chat.UploadedFile{Name: "photo.png", TmpPath: path, Size: int64(len(content))}
}

func newAttachmentService(t *testing.T, threshold uint32) (*AttachmentService, *mocks.MockIObjectStore, *observability.Metrics) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIObjectStore(ctrl)
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	svc := NewAttachmentService(log, store, metrics, folder, BreakerConfig{FailureThreshold: threshold, OpenTimeout: time.Minute})
	return svc, store, metrics
}

func TestAttachmentService_Offload_Success_Removes_Temporary_File(t *testing.T) {
	req := require.New(t)
	svc, store, metrics := newAttachmentService(t, 5)
	file := spool(t, pngHeader)
	expected := chat.Attachment{URL: "http://cdn/x.png", ObjectID: folder + "/x.png"}

	// Given the storage accepts an image
	store.EXPECT().Upload(gomock.Any(), file.TmpPath, folder, mimetypes.Image).Return(expected, nil).Times(1)

	// When the file is offloaded
	attachment, err := svc.Offload(context.Background(), file)

	// Then the reference comes back and the temporary file is gone
	req.NoError(err)
	req.Equal(expected, attachment)
	_, err = os.Stat(file.TmpPath)
	req.True(os.IsNotExist(err))
	req.Equal(1.0, testutil.ToFloat64(metrics.Attachments.WithLabelValues(observability.AttachmentUploaded)))
}

func TestAttachmentService_Offload_Failure_Keeps_Temporary_File(t *testing.T) {
	req := require.New(t)
	svc, store, metrics := newAttachmentService(t, 5)
	file := spool(t, []byte("plain notes"))

	store.EXPECT().Upload(gomock.Any(), file.TmpPath, folder, mimetypes.Raw).Return(chat.Attachment{}, fmt.Errorf("503 slow down")).Times(1)

	_, err := svc.Offload(context.Background(), file)

	req.True(errors.Is(err, errors.KindUpstreamFailure))
	_, statErr := os.Stat(file.TmpPath)
	req.NoError(statErr)
	req.Equal(1.0, testutil.ToFloat64(metrics.Attachments.WithLabelValues(observability.AttachmentFailed)))
}

func TestAttachmentService_Offload_Missing_File(t *testing.T) {
	req := require.New(t)
	svc, _, _ := newAttachmentService(t, 5)

	// Storage should NEVER be called
	_, err := svc.Offload(context.Background(), chat.UploadedFile{Name: "x", TmpPath: filepath.Join(t.TempDir(), "missing")})

	req.True(errors.Is(err, errors.KindUpstreamFailure))
}

func TestAttachmentService_Breaker_Fails_Fast(t *testing.T) {
	req := require.New(t)
	svc, store, _ := newAttachmentService(t, 2)
	ctx := context.Background()

	// Given the storage fails twice in a row
	store.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(chat.Attachment{}, fmt.Errorf("connection refused")).Times(2)
	for i := 0; i < 2; i++ {
		_, err := svc.Offload(ctx, spool(t, pngHeader))
		req.Error(err)
	}

	// When another file arrives while the breaker is open
	_, err := svc.Offload(ctx, spool(t, pngHeader))

	// Then it fails without reaching the storage
	req.True(errors.Is(err, errors.KindUpstreamFailure))
	req.True(stderrors.Is(err, errors.ErrCircuitOpen))
}

func TestAttachmentService_Reclaim_Swallows_Errors(t *testing.T) {
	req := require.New(t)
	svc, store, metrics := newAttachmentService(t, 5)
	ctx := context.Background()

	store.EXPECT().Delete(gomock.Any(), "a").Return(nil)
	store.EXPECT().Delete(gomock.Any(), "b").Return(fmt.Errorf("timeout"))

	svc.Reclaim(ctx, chat.Attachment{ObjectID: "a"})
	svc.Reclaim(ctx, chat.Attachment{ObjectID: "b"})

	req.Equal(1.0, testutil.ToFloat64(metrics.Attachments.WithLabelValues(observability.AttachmentReclaimed)))
	req.Equal(1.0, testutil.ToFloat64(metrics.Attachments.WithLabelValues(observability.AttachmentReclaimFailed)))
}
