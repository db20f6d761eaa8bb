package sheet

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// maxDocumentBytes bounds a downloaded sheet.
const maxDocumentBytes = 32 << 20

// HTTPSource downloads the published CSV over HTTP(S).
type HTTPSource struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPSource creates a source for url with a whole-request timeout.
func NewHTTPSource(url string, timeout time.Duration, logger *slog.Logger) *HTTPSource {
	return &HTTPSource{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Kind names the transport for metrics.
func (s *HTTPSource) Kind() string { return "http" }

// Fetch downloads the document body.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch sheet: status %d: %s", resp.StatusCode, body)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read sheet body: %w", err)
	}
	if len(data) > maxDocumentBytes {
		return nil, fmt.Errorf("fetch sheet: document exceeds %d bytes", maxDocumentBytes)
	}

	s.logger.Debug("sheet downloaded", "url", s.url, "bytes", len(data), "content_type", resp.Header.Get("Content-Type"))
	return data, nil
}
