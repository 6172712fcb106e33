// Package storage puts uploaded photos into an object-storage bucket, or a
// local directory during development, and returns their public URL.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/Kerhoff/tripplanner/internal/config"
	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrEmpty           = errors.New("file is empty")
	ErrTooLarge        = errors.New("file is too large")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrBadFolder       = errors.New("invalid folder")
)

// allowed maps accepted extensions to the content type the bytes must sniff as.
var allowed = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
}

// File is one uploaded file held in memory.
type File struct {
	Name string
	Data []byte
}

// Uploader stores a file under a logical folder such as "places/12" and
// returns a publicly resolvable URL.
type Uploader interface {
	Upload(ctx context.Context, folder string, f File) (string, error)
}

// StorageError reports a failed upload. The parent record is never affected.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// New returns the uploader selected by cfg, or nil when uploads are not
// configured.
func New(cfg config.StorageConfig, timeout time.Duration, logger *logrus.Logger) (Uploader, error) {
	switch cfg.Backend() {
	case "supabase":
		return NewSupabaseUploader(cfg, timeout, logger), nil
	case "local":
		u, err := NewLocalUploader(cfg.UploadDir, "/uploads", cfg.MaxUploadBytes, logger)
		if err != nil {
			return nil, err
		}
		return u, nil
	default:
		return nil, nil
	}
}

// prepare checks f against the size and type limits and builds the object
// key <folder>/<uuid>.<ext>.
func prepare(folder string, f File, maxBytes int64) (key, contentType string, err error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(f.Name), "."))

	clean := path.Clean(strings.Trim(folder, "/"))
	if clean == "." || clean == "" || strings.HasPrefix(clean, "..") {
		return "", "", &StorageError{Op: "check", Key: folder, Err: ErrBadFolder}
	}

	if len(f.Data) == 0 {
		return "", "", &StorageError{Op: "check", Key: f.Name, Err: ErrEmpty}
	}
	if maxBytes > 0 && int64(len(f.Data)) > maxBytes {
		return "", "", &StorageError{Op: "check", Key: f.Name, Err: fmt.Errorf("%w: %s exceeds %s",
			ErrTooLarge, humanize.Bytes(uint64(len(f.Data))), humanize.Bytes(uint64(maxBytes)))}
	}

	want, ok := allowed[ext]
	if !ok {
		return "", "", &StorageError{Op: "check", Key: f.Name, Err: fmt.Errorf("%w: .%s", ErrUnsupportedType, ext)}
	}
	detected := mimetype.Detect(f.Data)
	if !detected.Is(want) {
		return "", "", &StorageError{Op: "check", Key: f.Name, Err: fmt.Errorf("%w: content is %s", ErrUnsupportedType, detected.String())}
	}

	id := uuid.New()
	return fmt.Sprintf("%s/%x.%s", clean, id[:], ext), want, nil
}
