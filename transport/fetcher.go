package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrUnexpectedStatus indicates the server answered with a non-200 status.
var ErrUnexpectedStatus = errors.New("unexpected response status")

// contentType is the media type of the binary protocol bodies.
const contentType = "application/x-protobuf"

// Fetcher exchanges opaque byte bodies with the backend. Implementations
// must be safe for concurrent use; retry policy belongs to the caller, not
// the fetcher.
type Fetcher interface {
	// Get fetches the full response body of a GET request.
	Get(ctx context.Context, url string) ([]byte, error)

	// Post sends an opaque binary body and returns the full opaque
	// binary response.
	Post(ctx context.Context, url string, body []byte) ([]byte, error)
}

// HTTPFetcher is the default Fetcher on top of net/http.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher with a default 30 second timeout.
func NewHTTPFetcher() *HTTPFetcher {
	return NewHTTPFetcherWithClient(&http.Client{Timeout: 30 * time.Second})
}

// NewHTTPFetcherWithClient creates a fetcher around an existing client,
// e.g. one with custom TLS or proxy settings.
func NewHTTPFetcherWithClient(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPFetcher{client: client}
}

// Get fetches the full response body of a GET request.
func (f *HTTPFetcher) Get(ctx context.Context, url string) ([]byte, error) {
	return f.do(ctx, http.MethodGet, url, nil)
}

// Post sends an opaque binary body and returns the full binary response.
func (f *HTTPFetcher) Post(ctx context.Context, url string, body []byte) ([]byte, error) {
	return f.do(ctx, http.MethodPost, url, body)
}

func (f *HTTPFetcher) do(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	requestID := uuid.NewString()

	logrus.WithFields(logrus.Fields{
		"function":   "do",
		"package":    "transport",
		"method":     method,
		"url":        url,
		"request_id": requestID,
	}).Debug("Issuing backend request")

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function":   "do",
			"package":    "transport",
			"method":     method,
			"url":        url,
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Backend request failed")
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		logrus.WithFields(logrus.Fields{
			"function":   "do",
			"package":    "transport",
			"method":     method,
			"url":        url,
			"request_id": requestID,
			"status":     resp.StatusCode,
		}).Error("Backend answered with non-200 status")
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return data, nil
}
