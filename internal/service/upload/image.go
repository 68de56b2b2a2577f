// Package upload stores images referenced from document content.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"folio/internal/config"
	"folio/internal/domain"
	"folio/internal/domain/services"

	"github.com/google/uuid"
)

// allowedExtensions lists the accepted image types (lowercase, no dot)
var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
}

// LocalImageUploader writes images below a directory, grouped by month.
// Directory and URL prefix are fixed at construction.
type LocalImageUploader struct {
	dir       string
	urlPrefix string
	maxSize   int64
	now       func() time.Time
	logger    *slog.Logger
}

// NewLocalImageUploader creates an uploader storing files under dir and
// serving them below urlPrefix
func NewLocalImageUploader(dir, urlPrefix string, logger *slog.Logger) *LocalImageUploader {
	return &LocalImageUploader{
		dir:       dir,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
		maxSize:   config.MaxUploadSize,
		now:       time.Now,
		logger:    logger,
	}
}

// Extension returns the lowercase extension of name when it is an accepted
// image type
func Extension(name string) (string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	return ext, allowedExtensions[ext]
}

// SaveImage stores content as <dir>/<YYYYMM>/<unique>.<ext>
func (u *LocalImageUploader) SaveImage(ctx context.Context, originalName string, content io.Reader) (*services.UploadedImage, error) {
	base := filepath.Base(strings.TrimSpace(originalName))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return nil, &domain.ValidationError{Message: "no file selected"}
	}
	ext, ok := Extension(base)
	if !ok {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("unsupported file type %q (allowed: png, jpg, jpeg, gif)", base)}
	}

	month := u.now().Format("200601")
	dir := filepath.Join(u.dir, month)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	filename := strings.ReplaceAll(uuid.NewString(), "-", "") + "." + ext
	target := filepath.Join(dir, filename)

	if err := u.write(ctx, target, content); err != nil {
		return nil, err
	}

	u.logger.Info("image uploaded",
		"original_name", base,
		"filename", filename,
		"path", target,
	)

	return &services.UploadedImage{
		URL:      u.urlPrefix + "/" + path.Join(month, filename),
		Filename: filename,
	}, nil
}

var errTooLarge = errors.New("file too large")

func (u *LocalImageUploader) write(ctx context.Context, target string, content io.Reader) error {
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create upload file: %w", err)
	}

	n, err := io.Copy(f, io.LimitReader(content, u.maxSize+1))
	if err == nil && n > u.maxSize {
		err = errTooLarge
	}
	if err == nil {
		err = ctx.Err()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		_ = os.Remove(target)
		if errors.Is(err, errTooLarge) {
			return &domain.ValidationError{Message: fmt.Sprintf("file exceeds %d bytes", u.maxSize)}
		}
		return fmt.Errorf("write upload file: %w", err)
	}
	return nil
}
