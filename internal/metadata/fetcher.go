// Package metadata fetches and validates off-chain token metadata
// documents referenced by a caller-supplied URL.
package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"solana-token-forge/internal/domain"
)

// Fetch errors. The HTTP layer maps all of these to 400 since they are
// caller-correctable.
var (
	// ErrInvalidURL is returned when the URL is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid metadata url")

	// ErrUnreachable is returned when the metadata host responds non-2xx
	// or cannot be reached at all.
	ErrUnreachable = errors.New("metadata unreachable")

	// ErrMalformed is returned when the response body is not valid JSON.
	ErrMalformed = errors.New("malformed metadata")

	// ErrInvalidSchema is returned when a required field is missing or empty.
	ErrInvalidSchema = errors.New("invalid metadata schema")
)

// DefaultTimeout bounds a single metadata fetch.
const DefaultTimeout = 15 * time.Second

// maxBodySize caps the metadata document size (1 MiB).
const maxBodySize = 1 << 20

// Fetcher retrieves a token metadata document from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*domain.TokenMetadata, error)
}

// HTTPFetcher implements Fetcher over plain HTTP GET.
// One attempt per call, no retries.
type HTTPFetcher struct {
	client *http.Client
}

// FetcherOption configures HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *HTTPFetcher) {
		f.client = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *HTTPFetcher) {
		f.client.Timeout = d
	}
}

// NewHTTPFetcher creates a metadata fetcher.
func NewHTTPFetcher(opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Compile-time interface check.
var _ Fetcher = (*HTTPFetcher)(nil)

// Fetch retrieves, parses and validates the metadata document.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*domain.TokenMetadata, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d %s", ErrUnreachable, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnreachable, err)
	}

	var meta domain.TokenMetadata
	if err := json.Unmarshal(body, &meta); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if err := validateSchema(&meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// ValidateURL checks that rawURL parses as an absolute http(s) URL.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return nil
}

// validateSchema checks the required non-empty string fields.
func validateSchema(meta *domain.TokenMetadata) error {
	required := []struct {
		field string
		value string
	}{
		{"name", meta.Name},
		{"symbol", meta.Symbol},
		{"description", meta.Description},
		{"image", meta.Image},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: missing field %q", ErrInvalidSchema, r.field)
		}
	}
	return nil
}
