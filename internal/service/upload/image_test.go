package upload

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"folio/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUploader(t *testing.T) (*LocalImageUploader, string) {
	t.Helper()
	dir := t.TempDir()
	u := NewLocalImageUploader(dir, "/uploads/", slog.New(slog.NewTextHandler(io.Discard, nil)))
	u.now = func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }
	return u, dir
}

func TestSaveImage(t *testing.T) {
	u, dir := newTestUploader(t)

	img, err := u.SaveImage(context.Background(), "Holiday Photo.JPG", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(img.Filename, ".jpg"))
	assert.NotContains(t, img.Filename, "Holiday")
	assert.Equal(t, "/uploads/202403/"+img.Filename, img.URL)

	data, err := os.ReadFile(filepath.Join(dir, "202403", img.Filename))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	again, err := u.SaveImage(context.Background(), "Holiday Photo.JPG", strings.NewReader("x"))
	require.NoError(t, err)
	assert.NotEqual(t, img.Filename, again.Filename)
}

func TestSaveImage_Rejects(t *testing.T) {
	u, dir := newTestUploader(t)

	for _, name := range []string{"", "notes.txt", "archive.tar.gz", "noext"} {
		_, err := u.SaveImage(context.Background(), name, strings.NewReader("x"))
		assert.ErrorIs(t, err, domain.ErrValidation, "name %q", name)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveImage_TooLarge(t *testing.T) {
	u, dir := newTestUploader(t)
	u.maxSize = 4

	_, err := u.SaveImage(context.Background(), "big.png", bytes.NewReader([]byte("12345")))
	assert.ErrorIs(t, err, domain.ErrValidation)

	entries, err := os.ReadDir(filepath.Join(dir, "202403"))
	require.NoError(t, err)
	assert.Empty(t, entries, "partial file must be removed")
}

func TestExtension(t *testing.T) {
	tests := []struct {
		name   string
		wantOK bool
		want   string
	}{
		{"a.png", true, "png"},
		{"a.JPEG", true, "jpeg"},
		{"a.gif", true, "gif"},
		{"a.bmp", false, "bmp"},
		{"png", false, ""},
	}
	for _, tt := range tests {
		ext, ok := Extension(tt.name)
		assert.Equal(t, tt.wantOK, ok, tt.name)
		assert.Equal(t, tt.want, ext, tt.name)
	}
}
