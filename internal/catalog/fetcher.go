package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"storefront/internal/logging"

	"github.com/google/uuid"
)

// ErrFetch wraps every catalog retrieval failure: transport, status, decode.
var ErrFetch = errors.New("catalog fetch failed")

// DefaultURL is the public product listing the storefront reads by default.
const DefaultURL = "https://fakestoreapi.com/products"

// Fetcher retrieves the full product list.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Product, error)
}

// HTTPFetcher performs one GET against a JSON product listing.
// It never retries.
type HTTPFetcher struct {
	url    string
	client *http.Client
}

// NewHTTPFetcher creates a fetcher for url bounded by timeout.
func NewHTTPFetcher(url string, timeout time.Duration) *HTTPFetcher {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPFetcher{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// URL returns the listing endpoint.
func (f *HTTPFetcher) URL() string { return f.url }

// Fetch downloads and decodes the product listing.
func (f *HTTPFetcher) Fetch(ctx context.Context) ([]Product, error) {
	log := logging.Get(logging.CategoryCatalog).With("request_id", uuid.NewString())
	start := time.Now()
	log.Debug("GET %s", f.url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		log.Warn("request failed: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Warn("unexpected status %d", resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d: %s", ErrFetch, resp.StatusCode, string(body))
	}

	var products []Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		log.Warn("decode failed: %v", err)
		return nil, fmt.Errorf("%w: failed to decode response: %w", ErrFetch, err)
	}

	log.Info("fetched %d products in %v", len(products), time.Since(start))
	return products, nil
}

// StaticFetcher serves a fixed product list. A non-nil Err is returned instead.
type StaticFetcher struct {
	Products []Product
	Err      error
}

// Fetch returns a copy of the fixed list.
func (s StaticFetcher) Fetch(ctx context.Context) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	if s.Err != nil {
		if errors.Is(s.Err, ErrFetch) {
			return nil, s.Err
		}
		return nil, fmt.Errorf("%w: %w", ErrFetch, s.Err)
	}
	out := make([]Product, len(s.Products))
	copy(out, s.Products)
	return out, nil
}
