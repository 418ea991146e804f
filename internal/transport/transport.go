// Package transport streams raw asset bytes from a URL with progress
// reporting. It is the only networking the engine core touches.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// ProgressFunc receives byte progress while a fetch runs. total is -1 when
// the size is not known up front.
type ProgressFunc func(loaded, total int64)

// Transport fetches the raw bytes of an asset.
type Transport interface {
	// Fetch reads the full asset, invoking onProgress as bytes arrive.
	// onProgress may be nil.
	Fetch(ctx context.Context, url string, onProgress ProgressFunc) ([]byte, error)
}

// StatusError is returned for non-2xx HTTP responses so callers can map the
// status into their own error taxonomy.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching %s: unexpected status %d", e.URL, e.Status)
}

// HTTP fetches assets over HTTP(S).
type HTTP struct {
	Client *http.Client
}

// NewHTTP creates an HTTP transport with the given timeout (0 for none).
func NewHTTP(timeout time.Duration) *HTTP {
	return &HTTP{Client: &http.Client{Timeout: timeout}}
}

// Fetch downloads the asset, reporting progress against Content-Length when
// the server provides one.
func (h *HTTP) Fetch(ctx context.Context, url string, onProgress ProgressFunc) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: url, Status: resp.StatusCode}
	}

	total := resp.ContentLength // -1 when unknown
	var buf bytes.Buffer
	if total > 0 {
		buf.Grow(int(total))
	}

	chunk := make([]byte, 64*1024)
	var loaded int64
	for {
		n, err := resp.Body.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			loaded += int64(n)
			if onProgress != nil {
				onProgress(loaded, total)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", url, err)
		}
	}

	return buf.Bytes(), nil
}

// File serves assets from the local filesystem. URLs may carry an optional
// "file://" prefix.
type File struct{}

// Fetch reads the file and reports a single completed progress event.
func (File) Fetch(ctx context.Context, url string, onProgress ProgressFunc) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := strings.TrimPrefix(url, "file://")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if onProgress != nil {
		onProgress(int64(len(data)), int64(len(data)))
	}
	return data, nil
}

// ForURL picks a transport implementation for the URL scheme.
func ForURL(url string, timeout time.Duration) Transport {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return NewHTTP(timeout)
	}
	return File{}
}
