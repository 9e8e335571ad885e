package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/asset-dashboard/internal/types"
)

// maxBodyBytes caps the asset document size
const maxBodyBytes = 16 << 20

// HTTPSource GETs the asset list from an endpoint
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource creates an HTTP source. A nil client gets a default one
// with the given timeout.
func NewHTTPSource(url string, client *http.Client, timeout time.Duration) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPSource{url: url, client: client}
}

// Name implements Source
func (s *HTTPSource) Name() string { return "http:" + s.url }

// Fetch implements Source
func (s *HTTPSource) Fetch(ctx context.Context) ([]types.Asset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch assets: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain a little so the connection can be reused
		_, _ = io.CopyN(io.Discard, resp.Body, 4<<10)
		return nil, fmt.Errorf("fetch assets: unexpected status %d", resp.StatusCode)
	}

	return DecodeAssets(io.LimitReader(resp.Body, maxBodyBytes))
}
