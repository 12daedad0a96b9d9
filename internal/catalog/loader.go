// Package catalog fetches the source product catalog over HTTP.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/velosearch/velosearch/internal/domain"
)

// Loader downloads the raw catalog JSON from a configured URL.
type Loader struct {
	url    string
	client *http.Client
}

// NewLoader creates a catalog loader.
func NewLoader(url string, timeout time.Duration) *Loader {
	return &Loader{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch downloads and decodes the catalog. The source is a JSON array of
// records; order is preserved since ingestion keys are positional.
func (l *Loader) Fetch(ctx context.Context) ([]domain.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch catalog: status %d: %s", resp.StatusCode, body)
	}

	var records []domain.Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	return records, nil
}
