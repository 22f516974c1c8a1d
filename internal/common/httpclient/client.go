// internal/common/httpclient/client.go

// Package httpclient fetches remote OpenAPI documents. It is the only place
// network I/O happens; rule processing itself never leaves the process.
package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	stderrors "postgen/internal/common/errors"
)

type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch downloads the document at url and returns its raw bytes. Timeouts
// map to a retryable timeout error, other transport failures and non-2xx
// statuses to a retryable download error.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, stderrors.NewSpecDownloadFailedError(url, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, stderrors.NewSpecDownloadTimeoutError(url)
		}
		return nil, stderrors.NewSpecDownloadFailedError(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, stderrors.NewSpecDownloadFailedError(url, errors.New(resp.Status))
	}
	return io.ReadAll(resp.Body)
}

// IsURL reports whether a document location is remote.
func IsURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
