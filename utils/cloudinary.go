package utils

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	config "github.com/penielchurch/site-backend/config"
)

// CloudinaryHost stores site media in a single "site" folder.
type CloudinaryHost struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryHost(cfg *config.Config) (*CloudinaryHost, error) {
	cld, err := cloudinary.NewFromParams(
		cfg.CloudinaryCloudName,
		cfg.CloudinaryAPIKey,
		cfg.CloudinaryAPISecret,
	)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config error: %v", err)
	}
	return &CloudinaryHost{cld: cld}, nil
}

func (h *CloudinaryHost) Upload(ctx context.Context, r io.Reader, filename string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	resp, err := h.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder: "site",
	})
	if err != nil {
		return "", fmt.Errorf("upload error: %v", err)
	}
	return resp.SecureURL, nil
}

// Delete removes an image from Cloudinary given its full URL.
func (h *CloudinaryHost) Delete(ctx context.Context, imageURL string) error {
	publicID, err := extractPublicID(imageURL)
	if err != nil {
		return fmt.Errorf("could not extract public ID: %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err = h.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID: publicID,
	})
	if err != nil {
		return fmt.Errorf("delete error: %v", err)
	}
	return nil
}

// extractPublicID pulls the Cloudinary public ID out of a delivery URL.
// Example: https://res.cloudinary.com/demo/image/upload/v1234567890/site/abc123.jpg
// yields "site/abc123".
func extractPublicID(imageURL string) (string, error) {
	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return "", err
	}

	parts := strings.Split(strings.Trim(parsedURL.Path, "/"), "/")

	// The public ID is everything after the "upload" segment, minus the
	// optional version segment (v1234567890) and the file extension.
	upload := -1
	for i, p := range parts {
		if p == "upload" {
			upload = i
			break
		}
	}
	if upload < 0 || upload == len(parts)-1 {
		return "", fmt.Errorf("invalid cloudinary URL format")
	}

	rest := parts[upload+1:]
	if len(rest) > 1 && len(rest[0]) > 1 && rest[0][0] == 'v' {
		if _, err := strconv.Atoi(rest[0][1:]); err == nil {
			rest = rest[1:]
		}
	}

	publicID := strings.TrimSuffix(path.Join(rest...), path.Ext(rest[len(rest)-1]))
	return publicID, nil
}
