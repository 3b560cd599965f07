package uploads

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// stagePrefix marks files written by the intake; cleanup only touches these
const stagePrefix = "upload_"

// FilesystemStorage keeps staged uploads in a local directory
type FilesystemStorage struct {
	basePath string
}

// NewFilesystemStorage creates the staging directory if needed
func NewFilesystemStorage(basePath string) (*FilesystemStorage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("upload directory is not configured")
	}

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &FilesystemStorage{
		basePath: basePath,
	}, nil
}

// BasePath returns the staging directory
func (fs *FilesystemStorage) BasePath() string {
	return fs.basePath
}

// Save writes at most limit bytes from data to filename.
// It returns the full path and the number of bytes written, or errTooLarge
// when data holds more than limit bytes.
func (fs *FilesystemStorage) Save(ctx context.Context, data io.Reader, filename string, limit int64) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	fullPath := filepath.Join(fs.basePath, filepath.Base(filename))

	file, err := os.OpenFile(fullPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file: %w", err)
	}

	src := data
	if limit > 0 {
		src = io.LimitReader(data, limit+1)
	}

	written, err := io.Copy(file, src)
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(fullPath) // Clean up on error
		return "", 0, fmt.Errorf("failed to write file: %w", err)
	}

	if limit > 0 && written > limit {
		os.Remove(fullPath)
		return "", written, errTooLarge
	}

	return fullPath, written, nil
}

// Load opens a staged file for reading
func (fs *FilesystemStorage) Load(ctx context.Context, path string) (io.ReadCloser, error) {
	if !fs.contains(path) {
		return nil, fmt.Errorf("path %s is outside the upload directory", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Delete removes a staged file. Missing files are not an error.
func (fs *FilesystemStorage) Delete(ctx context.Context, path string) error {
	if !fs.contains(path) {
		return fmt.Errorf("refusing to delete %s outside the upload directory", path)
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// contains reports whether path is a staged file directly inside the base path
func (fs *FilesystemStorage) contains(path string) bool {
	base, err := filepath.Abs(fs.basePath)
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return filepath.Dir(abs) == base && strings.HasPrefix(filepath.Base(abs), stagePrefix)
}
