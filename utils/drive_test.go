package utils

import (
	"context"
	"testing"

	config "github.com/penielchurch/site-backend/config"
)

// Without credentials the bridge must hand back an empty list, never an
// error the caller could turn into a 5xx.
func TestGetDriveImagesWithoutCredentials(t *testing.T) {
	images := GetDriveImages(context.Background(), &config.Config{}, "some-folder")
	if images == nil {
		t.Fatal("images = nil, want empty slice")
	}
	if len(images) != 0 {
		t.Errorf("images = %v, want empty", images)
	}
}

// A bad credentials file fails client init; that path degrades the same way.
func TestGetDriveImagesBadCredentials(t *testing.T) {
	cfg := &config.Config{DriveServiceAccountFile: "/nonexistent/creds.json"}
	images := GetDriveImages(context.Background(), cfg, "some-folder")
	if images == nil || len(images) != 0 {
		t.Errorf("images = %v, want empty slice", images)
	}
}

func TestNormalizeThumbnail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://lh3.googleusercontent.com/d/abc=s220", "https://lh3.googleusercontent.com/d/abc=s800"},
		{"https://lh3.googleusercontent.com/d/abc=s1000-k", "https://lh3.googleusercontent.com/d/abc=s800-k"},
		{"https://lh3.googleusercontent.com/d/abc", "https://lh3.googleusercontent.com/d/abc"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeThumbnail(tc.in); got != tc.want {
			t.Errorf("NormalizeThumbnail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExtractPublicID(t *testing.T) {
	id, err := extractPublicID("https://res.cloudinary.com/demo/image/upload/v1234567890/site/abc123.jpg")
	if err != nil {
		t.Fatalf("extractPublicID: %v", err)
	}
	if id != "site/abc123" {
		t.Errorf("id = %q, want site/abc123", id)
	}

	if _, err := extractPublicID("://bad url"); err == nil {
		t.Error("expected error for malformed URL")
	}
}
