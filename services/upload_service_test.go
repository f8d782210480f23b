package services_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"synaptik/errors"
	"synaptik/services"
	"testing"

	"github.com/stretchr/testify/require"
)

// 1x1 transparent PNG
var pngPixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

func TestUploadService_Save(t *testing.T) {
	dir := t.TempDir()
	svc, err := services.NewUploadService(testLogger(), dir, 1024)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("should store an image under a generated name", func(t *testing.T) {
		req := require.New(t)

		media, err := svc.Save(ctx, "../../holiday pic.png", bytes.NewReader(pngPixel))

		req.NoError(err)
		req.Equal("image/png", media.FileType)
		req.Equal("holiday pic.png", media.OriginalName)
		req.Equal(int64(len(pngPixel)), media.Size)
		req.True(strings.HasPrefix(media.URL, services.UploadPrefix))
		stored, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(media.URL, services.UploadPrefix)))
		req.NoError(err)
		req.Equal(pngPixel, stored)
	})

	t.Run("should accept plain text whatever the extension", func(t *testing.T) {
		req := require.New(t)

		media, err := svc.Save(ctx, "notes.exe", strings.NewReader("just some notes\n"))

		req.NoError(err)
		req.Equal("text/plain", media.FileType)
	})

	t.Run("should reject html sniffed from the content", func(t *testing.T) {
		req := require.New(t)

		_, err := svc.Save(ctx, "innocent.png", strings.NewReader("<html><body><script>alert(1)</script></body></html>"))

		req.ErrorIs(err, errors.ErrFileTypeRejected)
	})

	t.Run("should reject an oversized file and leave nothing behind", func(t *testing.T) {
		req := require.New(t)
		before, err := os.ReadDir(dir)
		req.NoError(err)

		_, err = svc.Save(ctx, "big.txt", strings.NewReader(strings.Repeat("a", 1025)))

		req.ErrorIs(err, errors.ErrFileTooLarge)
		after, err := os.ReadDir(dir)
		req.NoError(err)
		req.Len(after, len(before))
	})

	t.Run("should accept a file of exactly the limit", func(t *testing.T) {
		req := require.New(t)

		media, err := svc.Save(ctx, "exact.txt", strings.NewReader(strings.Repeat("a", 1024)))

		req.NoError(err)
		req.Equal(int64(1024), media.Size)
	})

	t.Run("should reject an empty body", func(t *testing.T) {
		req := require.New(t)

		_, err := svc.Save(ctx, "empty.txt", strings.NewReader(""))

		req.ErrorIs(err, errors.ErrNoFile)
	})
}
