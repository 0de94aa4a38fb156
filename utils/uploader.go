package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	config "github.com/penielchurch/site-backend/config"
)

// MaxImageBytes is the client-facing upload limit. Checks run before any
// network call so oversized or non-image files never reach the host.
const MaxImageBytes = 5 * 1024 * 1024

var (
	ErrFileTooLarge = errors.New("file is too large (max 5MB)")
	ErrNotAnImage   = errors.New("file is not an image")
	ErrNoImageHost  = errors.New("no image host configured")
)

// ImageHost uploads an image and returns its hosted URL. Delete is
// best-effort; hosts without a delete API return ErrDeleteUnsupported.
type ImageHost interface {
	Upload(ctx context.Context, r io.Reader, filename string) (string, error)
	Delete(ctx context.Context, url string) error
}

var ErrDeleteUnsupported = errors.New("image host does not support deletion")

// NewImageHost picks the configured host: imgbb when an API key is present,
// Cloudinary otherwise.
func NewImageHost(cfg *config.Config) (ImageHost, error) {
	if cfg.ImgBBKey != "" {
		return NewImgBB(cfg.ImgBBKey, cfg.ImgBBEndpoint), nil
	}
	if cfg.CloudinaryCloudName != "" {
		return NewCloudinaryHost(cfg)
	}
	return nil, ErrNoImageHost
}

// CheckImageFile validates size and MIME type from the multipart header,
// rejecting before the upload is ever issued.
func CheckImageFile(fh *multipart.FileHeader) error {
	if fh.Size > MaxImageBytes {
		return ErrFileTooLarge
	}
	ct := fh.Header.Get("Content-Type")
	if len(ct) < 6 || ct[:6] != "image/" {
		return fmt.Errorf("%w: %s", ErrNotAnImage, ct)
	}
	return nil
}
