package utils

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
)

func header(name, contentType string, size int64) *multipart.FileHeader {
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", contentType)
	return &multipart.FileHeader{
		Filename: name,
		Header:   h,
		Size:     size,
	}
}

func TestCheckImageFile(t *testing.T) {
	if err := CheckImageFile(header("a.jpg", "image/jpeg", 1024)); err != nil {
		t.Errorf("small jpeg rejected: %v", err)
	}
	if err := CheckImageFile(header("a.png", "image/png", MaxImageBytes)); err != nil {
		t.Errorf("exactly 5MB rejected: %v", err)
	}
	if err := CheckImageFile(header("big.jpg", "image/jpeg", MaxImageBytes+1)); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("oversized file: err = %v, want ErrFileTooLarge", err)
	}
	if err := CheckImageFile(header("doc.pdf", "application/pdf", 1024)); !errors.Is(err, ErrNotAnImage) {
		t.Errorf("pdf: err = %v, want ErrNotAnImage", err)
	}
	if err := CheckImageFile(header("x", "", 1024)); !errors.Is(err, ErrNotAnImage) {
		t.Errorf("missing type: err = %v, want ErrNotAnImage", err)
	}
}

func TestImgBBUpload(t *testing.T) {
	var gotKey string
	var gotImage string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		r.ParseForm()
		gotImage = r.PostFormValue("image")
		w.Write([]byte(`{"success":true,"data":{"url":"https://i.ibb.co/abc/pic.jpg"},"status":200}`))
	}))
	defer server.Close()

	host := NewImgBB("test-key", server.URL)
	url, err := host.Upload(context.Background(), strings.NewReader("fake image bytes"), "pic.jpg")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "https://i.ibb.co/abc/pic.jpg" {
		t.Errorf("url = %q", url)
	}
	if gotKey != "test-key" {
		t.Errorf("key = %q, want test-key", gotKey)
	}
	// Payload must be base64, not raw bytes.
	if gotImage == "" || gotImage == "fake image bytes" {
		t.Errorf("image field = %q, want base64 payload", gotImage)
	}
}

func TestImgBBUploadError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"error":{"message":"Invalid API key","code":100},"status":400}`))
	}))
	defer server.Close()

	host := NewImgBB("bad-key", server.URL)
	_, err := host.Upload(context.Background(), strings.NewReader("x"), "pic.jpg")
	if err == nil {
		t.Fatal("expected error from failed upload")
	}
	if !strings.Contains(err.Error(), "Invalid API key") {
		t.Errorf("err = %v, want the service error message surfaced", err)
	}
}

func TestImgBBDeleteUnsupported(t *testing.T) {
	host := NewImgBB("k", "https://api.imgbb.com/1/upload")
	if err := host.Delete(context.Background(), "https://i.ibb.co/abc/pic.jpg"); err != ErrDeleteUnsupported {
		t.Errorf("err = %v, want ErrDeleteUnsupported", err)
	}
}
