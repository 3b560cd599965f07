package uploads

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/killallgit/transcribe-relay/pkg/errors"
	"github.com/killallgit/transcribe-relay/pkg/logging"
)

const defaultContentType = "application/octet-stream"

var errTooLarge = stderrors.New("upload exceeds size limit")

// Config holds upload intake settings
type Config struct {
	Dir          string
	MaxSize      int64
	AllowedTypes []string
	FormField    string
}

// Staged is an accepted upload held on local disk until it is submitted
type Staged struct {
	Path        string
	Filename    string
	ContentType string
	Size        int64
}

// Intake validates incoming audio and stages it for the coordinator
type Intake struct {
	storage *FilesystemStorage
	cfg     Config
}

// NewIntake creates an upload intake backed by the configured directory
func NewIntake(cfg Config) (*Intake, error) {
	storage, err := NewFilesystemStorage(cfg.Dir)
	if err != nil {
		return nil, err
	}

	if cfg.FormField == "" {
		cfg.FormField = "audio"
	}

	return &Intake{
		storage: storage,
		cfg:     cfg,
	}, nil
}

// FormField returns the multipart field that carries the audio
func (i *Intake) FormField() string {
	return i.cfg.FormField
}

// MaxSize returns the configured upload limit in bytes
func (i *Intake) MaxSize() int64 {
	return i.cfg.MaxSize
}

// Dir returns the staging directory
func (i *Intake) Dir() string {
	return i.storage.BasePath()
}

// SelectFile picks the single audio file from a parsed multipart form
func (i *Intake) SelectFile(form *multipart.Form) (*multipart.FileHeader, error) {
	field := i.cfg.FormField
	if form == nil || len(form.File[field]) == 0 {
		return nil, errors.MissingInput(field)
	}

	files := form.File[field]
	if len(files) > 1 {
		return nil, errors.InvalidInput(field, "exactly one file is accepted")
	}

	return files[0], nil
}

// StageFile validates a multipart file and copies it into the staging directory
func (i *Intake) StageFile(ctx context.Context, fh *multipart.FileHeader) (*Staged, error) {
	if fh == nil || fh.Size == 0 {
		return nil, errors.MissingInput(i.cfg.FormField)
	}

	file, err := fh.Open()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, "failed to read uploaded file")
	}
	defer file.Close()

	return i.Stage(ctx, file, fh.Filename, fh.Header.Get("Content-Type"))
}

// Stage validates and stores audio read from r
func (i *Intake) Stage(ctx context.Context, r io.Reader, filename, contentType string) (*Staged, error) {
	if r == nil {
		return nil, errors.MissingInput(i.cfg.FormField)
	}

	contentType = resolveContentType(filename, contentType)
	if !i.allowed(contentType) {
		return nil, errors.InvalidInput(i.cfg.FormField, fmt.Sprintf("content type %s is not accepted", contentType)).
			WithDetail("content_type", contentType)
	}

	name := stagePrefix + uuid.New().String() + safeExt(filename)
	path, size, err := i.storage.Save(ctx, r, name, i.cfg.MaxSize)
	if err != nil {
		if stderrors.Is(err, errTooLarge) {
			return nil, TooLarge(i.cfg.MaxSize)
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to stage upload")
	}

	if size == 0 {
		_ = i.storage.Delete(ctx, path)
		return nil, errors.MissingInput(i.cfg.FormField)
	}

	logging.Debugf("Staged upload %s (%d bytes, %s) at %s", filename, size, contentType, path)
	return &Staged{
		Path:        path,
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
	}, nil
}

// Open returns a reader over a staged upload
func (i *Intake) Open(ctx context.Context, staged *Staged) (io.ReadCloser, error) {
	return i.storage.Load(ctx, staged.Path)
}

// Remove deletes a staged upload; failures are logged and left for cleanup
func (i *Intake) Remove(ctx context.Context, staged *Staged) {
	if staged == nil {
		return
	}
	if err := i.storage.Delete(ctx, staged.Path); err != nil {
		log.Printf("[WARN] Failed to remove staged upload %s: %v", staged.Path, err)
	}
}

// allowed matches a content type against the configured patterns.
// An empty pattern list accepts everything.
func (i *Intake) allowed(contentType string) bool {
	if len(i.cfg.AllowedTypes) == 0 {
		return true
	}

	for _, pattern := range i.cfg.AllowedTypes {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		switch {
		case pattern == "*/*" || pattern == "*":
			return true
		case strings.HasSuffix(pattern, "/*"):
			if strings.HasPrefix(contentType, strings.TrimSuffix(pattern, "*")) {
				return true
			}
		case pattern == contentType:
			return true
		}
	}
	return false
}

// resolveContentType normalizes the declared type, falling back to the file extension
func resolveContentType(filename, declared string) string {
	if declared != "" {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil {
			return strings.ToLower(mediaType)
		}
	}

	if byExt := mime.TypeByExtension(filepath.Ext(filename)); byExt != "" {
		if mediaType, _, err := mime.ParseMediaType(byExt); err == nil {
			return strings.ToLower(mediaType)
		}
	}

	return defaultContentType
}

// safeExt keeps short alphanumeric extensions only
func safeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) < 2 || len(ext) > 8 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}

// TooLarge reports audio larger than the upload limit
func TooLarge(limit int64) *errors.AppError {
	return errors.Newf(errors.ErrCodePayloadTooLarge, "audio exceeds the %d byte upload limit", limit).
		WithDetail("max_size", limit)
}
