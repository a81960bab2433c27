// Package source fetches definition documents over HTTP or from local files,
// keeping a cached copy for offline runs.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/bnema/senzup/internal/domain"
)

// DefaultTimeout is the default timeout for a fetch.
const DefaultTimeout = 30 * time.Second

// maxDocumentSize bounds a fetched document.
const maxDocumentSize = 4 << 20

// Fetcher implements the SourceFetcher interface.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	cacheDir  string
	userAgent string
	log       *log.Logger
}

// Option configures the Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the fetch timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = timeout
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithCacheDir enables the cache under dir.
func WithCacheDir(dir string) Option {
	return func(f *Fetcher) {
		f.cacheDir = dir
	}
}

// WithUserAgent sets the User-Agent header of HTTP requests.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// New creates a fetcher.
func New(logger *log.Logger, opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultTimeout,
		userAgent: "senzup",
		log:       logger.WithPrefix("source"),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = &http.Client{Timeout: f.timeout}
	}
	return f
}

// Fetch returns the document at source, an http(s) URL or a local path.
// A successful fetch refreshes the cache; a failed one falls back to it.
func (f *Fetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	data, err := f.fetch(ctx, source)
	if err == nil {
		f.store(source, data)
		return data, nil
	}

	cached, cacheErr := f.load(source)
	if cacheErr != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrManifestUnavailable, source, err)
	}
	f.log.Warn("fetch failed; using cached copy", "source", source, "err", err, "cache", f.cachePath(source))
	return cached, nil
}

func (f *Fetcher) fetch(ctx context.Context, source string) ([]byte, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		return os.ReadFile(strings.TrimPrefix(source, "file://"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return data, nil
}

// cachePath derives a stable file name from source.
func (f *Fetcher) cachePath(source string) string {
	if f.cacheDir == "" {
		return ""
	}
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(source))
	return filepath.Join(f.cacheDir, id.String())
}

func (f *Fetcher) store(source string, data []byte) {
	p := f.cachePath(source)
	if p == "" {
		return
	}
	if err := os.MkdirAll(f.cacheDir, 0o755); err != nil {
		f.log.Debug("cache unavailable", "err", err)
		return
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		f.log.Debug("could not cache document", "source", source, "err", err)
	}
}

func (f *Fetcher) load(source string) ([]byte, error) {
	p := f.cachePath(source)
	if p == "" {
		return nil, os.ErrNotExist
	}
	return os.ReadFile(p)
}
