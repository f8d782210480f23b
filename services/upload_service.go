//go:generate go run go.uber.org/mock/mockgen -source=upload_service.go -destination=../mocks/mock_upload_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"synaptik/domain"
	"synaptik/domain/mimetypes"
	"synaptik/errors"

	"github.com/gabriel-vasile/mimetype"
)

// sniffLength is how many leading bytes are used to detect the content type.
const sniffLength = 3072

// UploadPrefix is the public URL path uploaded files are served under.
const UploadPrefix = "/uploads/"

type IUploadService interface {
	Save(ctx context.Context, originalName string, content io.Reader) (domain.Media, error)
}

// UploadService stores attachments on disk after checking their real content type.
type UploadService struct {
	log     *slog.Logger
	dir     string
	maxSize int64
}

func NewUploadService(log *slog.Logger, dir string, maxSize int64) (*UploadService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &UploadService{log: log, dir: dir, maxSize: maxSize}, nil
}

// Save sniffs the content, rejects types outside the allowlist and files over the size limit.
// The stored name is generated, the client name is only kept as metadata.
func (s *UploadService) Save(ctx context.Context, originalName string, content io.Reader) (domain.Media, error) {
	head := make([]byte, sniffLength)
	n, err := io.ReadFull(content, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return domain.Media{}, err
	}
	if n == 0 {
		return domain.Media{}, errors.ErrNoFile
	}
	head = head[:n]

	detected := mimetype.Detect(head)
	mime, _, ok := mimetypes.Allowed(detected.String())
	if !ok {
		return domain.Media{}, fmt.Errorf("%w: %s", errors.ErrFileTypeRejected, mime)
	}

	name := domain.NewID() + detected.Extension()
	path := filepath.Join(s.dir, name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return domain.Media{}, err
	}

	size, err := s.write(ctx, file, head, content)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return domain.Media{}, err
	}

	s.log.Info("File uploaded", "name", name, "mime", mime, "size", size)
	return domain.Media{
		URL:          UploadPrefix + name,
		FileType:     string(mime),
		OriginalName: filepath.Base(originalName),
		Size:         size,
	}, nil
}

func (s *UploadService) write(ctx context.Context, file *os.File, head []byte, rest io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if int64(len(head)) > s.maxSize {
		return 0, errors.ErrFileTooLarge
	}
	if _, err := file.Write(head); err != nil {
		return 0, err
	}
	// One extra byte tells an exact fit from an oversized file
	copied, err := io.Copy(file, io.LimitReader(rest, s.maxSize-int64(len(head))+1))
	if err != nil {
		return 0, err
	}
	size := int64(len(head)) + copied
	if size > s.maxSize {
		return 0, errors.ErrFileTooLarge
	}
	return size, nil
}
