package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/wikivault/internal/model"
)

const (
	// defaultConcurrency bounds simultaneous downloads.
	defaultConcurrency = 4
	// defaultTimeout is the per-request HTTP timeout.
	defaultTimeout = 30 * time.Second
	// maxImageBytes caps a single download. Wiki images larger than
	// this are almost certainly a misconfigured base URL.
	maxImageBytes = 64 << 20
)

// ErrNoBaseURL is returned when a Fetcher is created without an image
// base URL.
var ErrNoBaseURL = errors.New("image base URL is required")

// Stats summarizes a fetch run.
type Stats struct {
	Fetched int // files downloaded
	Skipped int // files already present on disk
	Failed  int // downloads that errored
}

// Fetcher downloads images from a wiki's file endpoint, typically
// Special:FilePath on the source wiki.
type Fetcher struct {
	baseURL     string
	client      *http.Client
	concurrency int
	logger      *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithLogger sets the logger used for per-file progress and failures.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// WithConcurrency bounds the number of simultaneous downloads.
func WithConcurrency(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

// WithHTTPClient replaces the HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// NewFetcher creates a Fetcher for the given base URL.
func NewFetcher(baseURL string, opts ...Option) (*Fetcher, error) {
	if baseURL == "" {
		return nil, ErrNoBaseURL
	}

	f := &Fetcher{
		baseURL:     baseURL,
		client:      &http.Client{Timeout: defaultTimeout},
		concurrency: defaultConcurrency,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// FetchAll downloads every referenced image under root. References with
// the same vault path are fetched once. Individual failures are counted
// in Stats; only context cancellation stops the run early.
func (f *Fetcher) FetchAll(ctx context.Context, root string, refs []model.ImageReference) Stats {
	var (
		mu    sync.Mutex
		stats Stats
	)

	seen := make(map[string]bool, len(refs))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(f.concurrency)

	for _, ref := range refs {
		if seen[ref.Path] {
			continue
		}
		seen[ref.Path] = true

		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			dest := filepath.Join(root, filepath.FromSlash(ref.Path))
			status, err := f.fetchOne(ctx, ref.Name, dest)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				stats.Failed++
				f.logger.Warn("failed to fetch image",
					slog.String("category", model.WarnImageFetch),
					slog.String("name", ref.Name),
					slog.String("error", err.Error()))
			case status == statusSkipped:
				stats.Skipped++
			default:
				stats.Fetched++
				f.logger.Debug("fetched image", slog.String("name", ref.Name))
			}
			return nil
		})
	}

	// Workers only return context errors, so the group error carries no
	// extra information beyond ctx.Err().
	_ = eg.Wait()
	return stats
}

type fetchStatus int

const (
	statusFetched fetchStatus = iota
	statusSkipped
)

// fetchOne downloads a single file to dest unless it already exists.
func (f *Fetcher) fetchOne(ctx context.Context, name, dest string) (fetchStatus, error) {
	if _, err := os.Stat(dest); err == nil {
		return statusSkipped, nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0750); err != nil {
		return statusFetched, fmt.Errorf("failed to create image directory: %w", err)
	}

	reqURL := f.baseURL + "/" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return statusFetched, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return statusFetched, fmt.Errorf("failed to fetch %s: %w", reqURL, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return statusFetched, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, reqURL)
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return statusFetched, fmt.Errorf("failed to create %s: %w", dest, err)
	}

	if _, err := io.Copy(out, io.LimitReader(resp.Body, maxImageBytes)); err != nil {
		_ = out.Close()
		_ = os.Remove(dest)
		return statusFetched, fmt.Errorf("failed to write %s: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dest)
		return statusFetched, fmt.Errorf("failed to close %s: %w", dest, err)
	}
	return statusFetched, nil
}
