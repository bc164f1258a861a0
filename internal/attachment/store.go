// Package attachment stores bill images and PDFs referenced from ledger
// records by URL.
package attachment

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

const sniffLen = 512

var keyPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}(\.[a-z0-9]{1,5})?$`)

type Attachment struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type Store struct {
	fs       afero.Fs
	baseURL  string
	maxBytes int64
	logger   *slog.Logger
}

func NewStore(fs afero.Fs, baseURL string, maxBytes int64, logger *slog.Logger) *Store {
	return &Store{
		fs:       fs,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// NewDiskStore roots a store at dir on the local filesystem, creating it if needed.
func NewDiskStore(dir, baseURL string, maxBytes int64, logger *slog.Logger) (*Store, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create attachment dir: %w", err)
	}
	return NewStore(afero.NewBasePathFs(osFs, dir), baseURL, maxBytes, logger), nil
}

func (s *Store) MaxBytes() int64 {
	return s.maxBytes
}

// Save stores the upload under a fresh key. Only images and PDFs up to the
// configured size are accepted.
func (s *Store) Save(ctx context.Context, filename, contentType string, r io.Reader) (*Attachment, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, internal.NewValidationFieldError("file", "could not read upload", internal.ErrCodeInvalidUpload)
	}
	if len(data) == 0 {
		return nil, internal.NewValidationFieldError("file", "file is empty", internal.ErrCodeInvalidUpload)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, internal.NewValidationFieldError("file",
			fmt.Sprintf("file exceeds %d bytes", s.maxBytes), internal.ErrCodeInvalidUpload)
	}

	contentType = resolveContentType(contentType, data)
	if !allowed(contentType) {
		return nil, internal.NewValidationFieldError("file",
			"only images and PDF bills are accepted", internal.ErrCodeInvalidUpload)
	}

	key := uuid.New().String() + extension(filename, contentType)
	if err := afero.WriteFile(s.fs, key, data, 0o644); err != nil {
		s.logger.ErrorContext(ctx, "failed to write attachment", "key", key, "error", err)
		return nil, internal.NewBackendUnavailableError(err)
	}

	s.logger.InfoContext(ctx, "attachment stored", "key", key, "content_type", contentType, "size", len(data))
	return &Attachment{
		Key:         key,
		URL:         s.baseURL + "/" + key,
		ContentType: contentType,
		Size:        int64(len(data)),
	}, nil
}

// Open returns the stored file and its content type. The caller closes it.
func (s *Store) Open(ctx context.Context, key string) (afero.File, string, error) {
	if !keyPattern.MatchString(key) {
		return nil, "", internal.ErrAttachmentNotFound
	}
	f, err := s.fs.Open(key)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", internal.ErrAttachmentNotFound
		}
		s.logger.ErrorContext(ctx, "failed to open attachment", "key", key, "error", err)
		return nil, "", internal.NewBackendUnavailableError(err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		head := make([]byte, sniffLen)
		n, _ := io.ReadFull(f, head)
		contentType = http.DetectContentType(head[:n])
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			_ = f.Close()
			return nil, "", internal.NewBackendUnavailableError(err)
		}
	}
	return f, contentType, nil
}

func resolveContentType(declared string, data []byte) string {
	if mediaType, _, err := mime.ParseMediaType(declared); err == nil && mediaType != "application/octet-stream" {
		return mediaType
	}
	return http.DetectContentType(data[:min(len(data), sniffLen)])
}

func allowed(contentType string) bool {
	if contentType == "image/svg+xml" {
		return false
	}
	return strings.HasPrefix(contentType, "image/") || contentType == "application/pdf"
}

func extension(filename, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != "" && len(ext) <= 6 {
		if t, _, err := mime.ParseMediaType(mime.TypeByExtension(ext)); err == nil && t == contentType {
			return ext
		}
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
