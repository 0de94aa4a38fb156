package utils

import (
	"context"
	"fmt"
	"log"
	"regexp"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	config "github.com/penielchurch/site-backend/config"
)

// DriveImage is the normalized shape the public gallery consumes.
type DriveImage struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ThumbnailLink  string `json:"thumbnailLink"`
	WebContentLink string `json:"webContentLink"`
	Width          int64  `json:"width,omitempty"`
	Height         int64  `json:"height,omitempty"`
	MimeType       string `json:"mimeType"`
}

var thumbSizeRe = regexp.MustCompile(`=s\d+`)

// GetDriveImages lists image files in a Drive folder. A service account file
// wins over an API key; with neither configured, or on any upstream error,
// it returns an empty list so the public gallery keeps rendering.
func GetDriveImages(ctx context.Context, cfg *config.Config, folderID string) []DriveImage {
	var opts []option.ClientOption
	switch {
	case cfg.DriveServiceAccountFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.DriveServiceAccountFile), option.WithScopes(drive.DriveReadonlyScope))
	case cfg.DriveAPIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.DriveAPIKey))
	default:
		log.Println("No Google Drive credentials found (GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_DRIVE_API_KEY). Returning empty list.")
		return []DriveImage{}
	}

	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		log.Printf("drive client init failed: %v", err)
		return []DriveImage{}
	}

	query := fmt.Sprintf("'%s' in parents and mimeType contains 'image/' and trashed = false", folderID)
	res, err := svc.Files.List().
		Q(query).
		Fields("files(id, name, mimeType, thumbnailLink, webContentLink, imageMediaMetadata)").
		PageSize(100).
		OrderBy("createdTime desc").
		Context(ctx).
		Do()
	if err != nil {
		log.Printf("drive listing failed: %v", err)
		return []DriveImage{}
	}

	images := make([]DriveImage, 0, len(res.Files))
	for _, f := range res.Files {
		img := DriveImage{
			ID:             f.Id,
			Name:           f.Name,
			ThumbnailLink:  NormalizeThumbnail(f.ThumbnailLink),
			WebContentLink: f.WebContentLink,
			MimeType:       f.MimeType,
		}
		if f.ImageMediaMetadata != nil {
			img.Width = f.ImageMediaMetadata.Width
			img.Height = f.ImageMediaMetadata.Height
		}
		images = append(images, img)
	}
	return images
}

// NormalizeThumbnail bumps Drive's default small thumbnail to a larger
// rendition of the same link.
func NormalizeThumbnail(link string) string {
	if link == "" {
		return ""
	}
	return thumbSizeRe.ReplaceAllString(link, "=s800")
}
