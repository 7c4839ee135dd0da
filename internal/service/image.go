package service

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/msomdec/dev-connect/internal/domain"
)

const (
	maxImageSize     = 5 * 1024 * 1024 // 5MB
	maxFilenameRunes = 100

	ImageKindUsers = "users"
	ImageKindPosts = "posts"
)

// ImageService validates uploaded images and keeps them in a FileStore.
type ImageService struct {
	files domain.FileStore
}

// NewImageService creates a new ImageService.
func NewImageService(files domain.FileStore) *ImageService {
	return &ImageService{files: files}
}

// Store validates upload and saves it under a key unique to this call,
// "<kind>/<uuid><original name>". It returns the key.
func (s *ImageService) Store(ctx context.Context, kind string, upload *domain.Upload) (string, error) {
	if kind != ImageKindUsers && kind != ImageKindPosts {
		return "", fmt.Errorf("%w: unknown image kind %q", domain.ErrInvalidInput, kind)
	}

	contentType, err := validateImage(upload)
	if err != nil {
		return "", err
	}

	key := kind + "/" + uuid.NewString() + cleanFilename(upload.Filename)
	if err := s.files.Save(ctx, key, upload.Data); err != nil {
		return "", fmt.Errorf("save %s: %w", contentType, err)
	}
	return key, nil
}

// Get returns the bytes stored under key along with their detected content type.
func (s *ImageService) Get(ctx context.Context, key string) ([]byte, string, error) {
	data, err := s.files.Get(ctx, key)
	if err != nil {
		return nil, "", fmt.Errorf("get file: %w", err)
	}
	return data, http.DetectContentType(data), nil
}

// Delete removes the bytes stored under key. Empty keys are ignored.
func (s *ImageService) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := s.files.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

func validateImage(upload *domain.Upload) (string, error) {
	verr := &domain.ValidationError{}
	switch {
	case upload == nil || len(upload.Data) == 0:
		verr.Add("file", "Image is empty")
		return "", verr
	case len(upload.Data) > maxImageSize:
		verr.Add("file", "Image exceeds 5MB limit")
		return "", verr
	}

	// Detect content type from file bytes (more reliable than multipart header).
	contentType := http.DetectContentType(upload.Data)
	if contentType != "image/jpeg" && contentType != "image/png" {
		verr.Add("file", "Only JPEG and PNG images are accepted")
		return "", verr
	}
	return contentType, nil
}

// cleanFilename keeps the final path element of a client-supplied name.
func cleanFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" {
		return ""
	}
	if r := []rune(name); len(r) > maxFilenameRunes {
		name = string(r[len(r)-maxFilenameRunes:])
	}
	return name
}
