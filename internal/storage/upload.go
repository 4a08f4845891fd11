package storage

import (
	"context"
	"errors"
	"regexp"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"vfxprompt/internal/domain"
)

// MaxUploadBytes caps a reference image.
const MaxUploadBytes = 10 << 20

// ErrTooLarge is returned for images over MaxUploadBytes.
var ErrTooLarge = errors.New("storage: image exceeds 10MB")

var (
	imageExtensions = map[string]string{
		"image/png":  "png",
		"image/jpeg": "jpg",
		"image/webp": "webp",
	}
	ownerPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// Upload describes a stored reference image.
type Upload struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	Size        int    `json:"size"`
}

// SaveImage stores data as uploads/<owner>/<uuid>.<ext>. The type is taken
// from the bytes, not from the caller.
func (s *FileStore) SaveImage(ctx context.Context, owner string, data []byte) (*Upload, error) {
	if !ownerPattern.MatchString(owner) {
		return nil, domain.Invalid("user_id", "invalid owner")
	}
	if len(data) == 0 {
		return nil, domain.Invalid("image", "image data is required")
	}
	if len(data) > MaxUploadBytes {
		return nil, ErrTooLarge
	}
	contentType := mimetype.Detect(data).String()
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, domain.Invalid("image", "only png, jpeg and webp images are accepted")
	}
	key, err := s.Write(ctx, "uploads/"+owner+"/"+uuid.NewString()+"."+ext, data)
	if err != nil {
		return nil, err
	}
	return &Upload{Key: key, URL: s.URL(key), ContentType: contentType, Size: len(data)}, nil
}
