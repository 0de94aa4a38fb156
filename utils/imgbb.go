package utils

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ImgBB talks to the imgbb upload API: POST <endpoint>?key=<key> with a
// multipart-style form field "image" holding the base64 payload. The success
// response carries the hosted URL under data.url.
type ImgBB struct {
	key      string
	endpoint string
	client   *http.Client
}

func NewImgBB(key, endpoint string) *ImgBB {
	return &ImgBB{
		key:      key,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

type imgbbResponse struct {
	Success bool `json:"success"`
	Data    struct {
		URL string `json:"url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
	Status int `json:"status"`
}

func (h *ImgBB) Upload(ctx context.Context, r io.Reader, filename string) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	form := url.Values{}
	form.Set("image", base64.StdEncoding.EncodeToString(raw))

	endpoint := h.endpoint + "?key=" + url.QueryEscape(h.key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("imgbb request: %w", err)
	}
	defer resp.Body.Close()

	var body imgbbResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("imgbb response: %w", err)
	}
	if !body.Success {
		if body.Error.Message != "" {
			return "", fmt.Errorf("imgbb error %d: %s", body.Error.Code, body.Error.Message)
		}
		return "", fmt.Errorf("imgbb upload failed with status %d", resp.StatusCode)
	}
	return body.Data.URL, nil
}

// Delete is not available through the key-based imgbb API.
func (h *ImgBB) Delete(ctx context.Context, imageURL string) error {
	return ErrDeleteUnsupported
}
