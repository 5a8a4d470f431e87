// Package tablestore reads and writes the season table artifact: from a file
// or an HTTP endpoint, and to a file.
package tablestore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// maxTableBytes bounds how much of a response body is read.
const maxTableBytes = 8 << 20

// File reads the artifact from the local filesystem.
type File struct {
	Path string
}

// NewFile returns a source reading path.
func NewFile(path string) *File {
	return &File{Path: path}
}

// Fetch reads the whole file.
func (f *File) Fetch(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read season table: %w", err)
	}
	return data, nil
}

// Describe names the source for logs.
func (f *File) Describe() string { return "file:" + f.Path }

// HTTP fetches the artifact with a GET request.
type HTTP struct {
	url    string
	client *http.Client
}

// NewHTTP returns a source fetching url with the given request timeout.
func NewHTTP(url string, timeout time.Duration) *HTTP {
	return &HTTP{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch performs the GET request. Non-2xx responses fail with the status code.
func (h *HTTP) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch season table: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort cleanup

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP error! status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxTableBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return data, nil
}

// Describe names the source for logs.
func (h *HTTP) Describe() string { return h.url }
