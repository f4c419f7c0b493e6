package filestorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/thankiuday/dreamlink/internal/pkg/logger"
)

// LocalStorage stores uploads on the local filesystem and serves them via
// the application's static /uploads route.
type LocalStorage struct {
	basePath string // root directory where files are stored
	baseURL  string // URL prefix under which stored files are reachable
}

// NewLocalStorage creates a new LocalStorage instance, ensuring the base
// directory exists.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// Upload stores the content under a collision-free name and returns the
// durable URL.
func (ls *LocalStorage) Upload(ctx context.Context, r io.Reader, filename, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// Unique stored name, original extension preserved
	ext := filepath.Ext(filename)
	storedName := uuid.New().String() + ext
	dstPath := filepath.Join(ls.basePath, storedName)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, r); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	return ls.baseURL + "/" + storedName, nil
}

// Delete removes a previously stored file given its durable URL.
func (ls *LocalStorage) Delete(fileURL string) error {
	storedName := strings.TrimPrefix(fileURL, ls.baseURL+"/")
	if storedName == fileURL || strings.Contains(storedName, "..") {
		return fmt.Errorf("url %q is not managed by this storage", fileURL)
	}
	return os.Remove(filepath.Join(ls.basePath, storedName))
}
