package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DocumentFetcher retrieves raw submission bytes for the by-reference
// endpoint.
type DocumentFetcher interface {
	FetchDocument(ctx context.Context, documentURL string) ([]byte, error)
}

// HTTPDocumentFetcher implements DocumentFetcher over HTTPS with bounded
// retries for transient upstream failures.
type HTTPDocumentFetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewHTTPDocumentFetcher creates an HTTP document fetcher. maxBytes caps the
// downloaded payload; the pipeline enforces the same limit again before
// parsing.
func NewHTTPDocumentFetcher(maxBytes int64) *HTTPDocumentFetcher {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,
	}

	return &HTTPDocumentFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
		maxBytes: maxBytes,
	}
}

// FetchDocument downloads the document, retrying up to 3 attempts. 5xx
// responses and transport errors are retried; 4xx responses are not.
func (h *HTTPDocumentFetcher) FetchDocument(ctx context.Context, documentURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, documentURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("Accept", "application/pdf, application/octet-stream, */*")
	req.Header.Set("User-Agent", "Go-KYC-Validator/1.0")

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		resp, err := h.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusOK {
			data, readErr := io.ReadAll(io.LimitReader(resp.Body, h.maxBytes+1))
			resp.Body.Close()
			if readErr != nil {
				lastErr = readErr
				continue
			}
			if int64(len(data)) > h.maxBytes {
				return nil, fmt.Errorf("document exceeds %d bytes", h.maxBytes)
			}
			return data, nil
		}

		resp.Body.Close()
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, fmt.Errorf("client error: status code %d", resp.StatusCode)
		}
		lastErr = fmt.Errorf("server error: status code %d", resp.StatusCode)
	}

	return nil, fmt.Errorf("failed to fetch document after 3 attempts: %w", lastErr)
}
