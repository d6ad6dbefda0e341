//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=../mocks/mock_object_store.go -package=mocks
package storage

import (
	"chat-relay/domain/chat"
	"chat-relay/domain/mimetypes"
	"context"
	"path"

	"github.com/google/uuid"
)

// IObjectStore is the external binary storage holding attachment payloads.
type IObjectStore interface {
	Upload(ctx context.Context, localPath, folder string, resourceType mimetypes.ResourceType) (chat.Attachment, error)
	Delete(ctx context.Context, objectID string) error
}

// objectName builds a collision free name keeping the detected extension.
func objectName(localPath string) (string, error) {
	detected, _, err := mimetypes.DetectFile(localPath)
	if err != nil {
		return "", err
	}
	ext := mimetypes.Extension(detected)
	if ext == "" {
		ext = path.Ext(localPath)
	}
	return uuid.NewString() + ext, nil
}
