package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Kerhoff/tripplanner/internal/config"
	"github.com/sirupsen/logrus"
)

const defaultTimeout = 15 * time.Second

// SupabaseUploader writes objects through the Supabase Storage REST API.
type SupabaseUploader struct {
	http     *http.Client
	baseURL  string
	apiKey   string
	bucket   string
	maxBytes int64
	logger   *logrus.Logger
}

// NewSupabaseUploader creates an uploader for cfg.Bucket.
func NewSupabaseUploader(cfg config.StorageConfig, timeout time.Duration, logger *logrus.Logger) *SupabaseUploader {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &SupabaseUploader{
		http:     &http.Client{Timeout: timeout},
		baseURL:  strings.TrimRight(cfg.SupabaseURL, "/"),
		apiKey:   cfg.SupabaseKey,
		bucket:   cfg.Bucket,
		maxBytes: cfg.MaxUploadBytes,
		logger:   logger,
	}
}

// Upload stores f and returns its public URL.
func (u *SupabaseUploader) Upload(ctx context.Context, folder string, f File) (string, error) {
	key, contentType, err := prepare(folder, f, u.maxBytes)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", u.baseURL, u.bucket, key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(f.Data))
	if err != nil {
		return "", &StorageError{Op: "upload", Key: key, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+u.apiKey)
	req.Header.Set("apikey", u.apiKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "false")

	resp, err := u.http.Do(req)
	if err != nil {
		return "", &StorageError{Op: "upload", Key: key, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &StorageError{Op: "upload", Key: key, Err: fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))}
	}

	u.logger.WithFields(logrus.Fields{
		"bucket": u.bucket,
		"key":    key,
		"bytes":  len(f.Data),
	}).Debug("Photo uploaded")

	return u.PublicURL(key), nil
}

// PublicURL returns the public URL of an object in the bucket.
func (u *SupabaseUploader) PublicURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", u.baseURL, u.bucket, key)
}
