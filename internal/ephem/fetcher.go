package ephem

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/litescript/ls-ephemeris/internal/version"
)

const (
	// DefaultBaseURL is the JPL directory holding the Linux DE binaries.
	DefaultBaseURL = "https://ssd.jpl.nasa.gov/ftp/eph/planets/Linux"

	// DefaultFetchTimeout bounds a whole dataset download. DE files are
	// over 100 MB.
	DefaultFetchTimeout = 10 * time.Minute
)

// Fetcher downloads dataset files over HTTP.
type Fetcher struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithBaseURL sets the URL that remote dataset paths are resolved against.
func WithBaseURL(url string) FetcherOption {
	return func(f *Fetcher) {
		f.baseURL = strings.TrimRight(url, "/")
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = client
	}
}

// NewFetcher creates a new dataset fetcher.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		baseURL: DefaultBaseURL,
		timeout: DefaultFetchTimeout,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{
			Timeout: f.timeout,
		}
	}

	return f
}

// BaseURL returns the configured base URL.
func (f *Fetcher) BaseURL() string {
	return f.baseURL
}

// FetchResult describes a completed download.
type FetchResult struct {
	URL       string
	Path      string
	Bytes     int64
	FetchedAt time.Time
	Duration  time.Duration
}

// Fetch downloads remotePath (relative to the base URL) into dest. The
// body is streamed to a temporary file in dest's directory and renamed
// into place only after it is complete, so an interrupted download never
// leaves a truncated dataset behind.
func (f *Fetcher) Fetch(ctx context.Context, remotePath, dest string) (FetchResult, error) {
	start := time.Now()
	result := FetchResult{
		URL:       f.baseURL + "/" + strings.TrimLeft(remotePath, "/"),
		Path:      dest,
		FetchedAt: start,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, result.URL, nil)
	if err != nil {
		return result, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", version.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return result, fmt.Errorf("fetch dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return result, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return result, fmt.Errorf("create dataset dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".*.part")
	if err != nil {
		return result, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, resp.Body)
	if err != nil {
		tmp.Close()
		return result, fmt.Errorf("read response: %w", err)
	}
	if resp.ContentLength > 0 && n != resp.ContentLength {
		tmp.Close()
		return result, fmt.Errorf("short body: got %d of %d bytes", n, resp.ContentLength)
	}
	if err := tmp.Close(); err != nil {
		return result, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return result, fmt.Errorf("install dataset: %w", err)
	}

	result.Bytes = n
	result.Duration = time.Since(start)
	return result, nil
}
