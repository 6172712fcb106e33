package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// LocalUploader writes files under a directory that the web server exposes
// at urlPrefix.
type LocalUploader struct {
	dir       string
	urlPrefix string
	maxBytes  int64
	logger    *logrus.Logger
	mu        sync.Mutex
}

// NewLocalUploader creates dir when missing.
func NewLocalUploader(dir, urlPrefix string, maxBytes int64, logger *logrus.Logger) (*LocalUploader, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalUploader{
		dir:       dir,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
		maxBytes:  maxBytes,
		logger:    logger,
	}, nil
}

// Dir is the directory files are written to.
func (u *LocalUploader) Dir() string {
	return u.dir
}

// Upload writes f to disk and returns its URL path.
func (u *LocalUploader) Upload(ctx context.Context, folder string, f File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &StorageError{Op: "upload", Key: folder, Err: err}
	}

	key, _, err := prepare(folder, f, u.maxBytes)
	if err != nil {
		return "", err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	path := filepath.Join(u.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", &StorageError{Op: "upload", Key: key, Err: fmt.Errorf("failed to create folder: %w", err)}
	}
	if err := os.WriteFile(path, f.Data, 0644); err != nil {
		return "", &StorageError{Op: "upload", Key: key, Err: fmt.Errorf("failed to write file: %w", err)}
	}

	u.logger.WithField("key", key).Debug("Photo written to upload directory")

	return u.urlPrefix + "/" + key, nil
}
