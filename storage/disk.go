package storage

import (
	"chat-relay/domain/chat"
	"chat-relay/domain/mimetypes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DiskStore keeps objects under a local root served at baseURL.
type DiskStore struct {
	root    string
	baseURL string
	log     *slog.Logger
}

func NewDiskStore(log *slog.Logger, root, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create disk store root %s: %w", root, err)
	}
	return &DiskStore{root: root, baseURL: strings.TrimRight(baseURL, "/"), log: log}, nil
}

func (d *DiskStore) Upload(ctx context.Context, localPath, folder string, _ mimetypes.ResourceType) (chat.Attachment, error) {
	if err := ctx.Err(); err != nil {
		return chat.Attachment{}, err
	}
	name, err := objectName(localPath)
	if err != nil {
		return chat.Attachment{}, err
	}
	objectID := path.Join(folder, name)
	target, err := d.resolve(objectID)
	if err != nil {
		return chat.Attachment{}, err
	}
	if err = os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return chat.Attachment{}, err
	}
	if err = copyFile(localPath, target); err != nil {
		_ = os.Remove(target)
		return chat.Attachment{}, err
	}
	d.log.Debug("Object stored on disk", "object_id", objectID)
	return chat.Attachment{URL: d.baseURL + "/" + objectID, ObjectID: objectID}, nil
}

// Delete removes the object, a missing object is already deleted.
func (d *DiskStore) Delete(ctx context.Context, objectID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := d.resolve(objectID)
	if err != nil {
		return err
	}
	if err = os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// resolve refuses object ids escaping the root.
func (d *DiskStore) resolve(objectID string) (string, error) {
	cleaned := path.Clean("/" + objectID)
	if cleaned == "/" {
		return "", fmt.Errorf("invalid object id %q", objectID)
	}
	return filepath.Join(d.root, filepath.FromSlash(cleaned)), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
