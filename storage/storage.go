package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("image exceeds size limit")
	ErrEmpty           = errors.New("image is empty")
)

// DefaultMaxImageSize is 10MB.
const DefaultMaxImageSize int64 = 10 * 1024 * 1024

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/heic": ".heic",
}

// ImageStore is an object store for uploaded images.
type ImageStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// Presigner is implemented by stores that can hand out direct upload URLs.
type Presigner interface {
	PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error)
}

type Stored struct {
	Key         string
	URL         string
	ContentType string
	Size        int64
}

// Uploader checks images and writes them under generated keys.
type Uploader struct {
	Store   ImageStore
	MaxSize int64
}

func NewUploader(store ImageStore, maxSize int64) *Uploader {
	if maxSize <= 0 {
		maxSize = DefaultMaxImageSize
	}
	return &Uploader{Store: store, MaxSize: maxSize}
}

// Save sniffs data, rejects non-images and oversized files, and stores the
// image under uploads/<entity>/<owner>/.
func (u *Uploader) Save(ctx context.Context, entity, owner, name string, data []byte) (Stored, error) {
	if len(data) == 0 {
		return Stored{}, ErrEmpty
	}
	if int64(len(data)) > u.MaxSize {
		return Stored{}, fmt.Errorf("%s: %w", name, ErrTooLarge)
	}

	contentType, err := DetectImage(data)
	if err != nil {
		return Stored{}, fmt.Errorf("%s: %w", name, err)
	}

	key := NewKey(entity, owner, name, contentType)
	url, err := u.Store.Put(ctx, key, data, contentType)
	if err != nil {
		return Stored{}, fmt.Errorf("put %s: %w", key, err)
	}

	return Stored{Key: key, URL: url, ContentType: contentType, Size: int64(len(data))}, nil
}

// DetectImage returns the sniffed content type when it is an accepted image type.
func DetectImage(data []byte) (string, error) {
	mt := mimetype.Detect(data)
	for typ := range allowedImageTypes {
		if mt.Is(typ) {
			return typ, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mt.String())
}

func IsAllowedType(contentType string) bool {
	if contentType == "image/jpg" {
		return true
	}
	_, ok := allowedImageTypes[contentType]
	return ok
}

// NewKey builds uploads/<entity>/<owner>/<unix>_<uuid><ext>.
func NewKey(entity, owner, name, contentType string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		ext = allowedImageTypes[contentType]
	}
	return fmt.Sprintf("uploads/%s/%s/%d_%s%s", entity, owner, time.Now().Unix(), uuid.New().String(), ext)
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}

func reader(data []byte) *bytes.Reader {
	return bytes.NewReader(data)
}
