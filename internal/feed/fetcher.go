package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Fetcher retrieves the published feed over HTTP. Every request carries a
// cache-busting query token so intermediate caches between us and the
// spreadsheet export cannot serve yesterday's menu.
type Fetcher struct {
	feedURL string
	client  *http.Client
	now     func() time.Time
}

// NewFetcher creates a Fetcher for the given feed URL. The timeout bounds
// the whole fetch including body read.
func NewFetcher(feedURL string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		feedURL: feedURL,
		client:  &http.Client{Timeout: timeout},
		now:     time.Now,
	}
}

// Fetch downloads the feed text and returns it together with a 64-bit
// fingerprint of the body. Identical fingerprints on consecutive fetches
// mean the catalog did not change and the parse/replace can be skipped.
func (f *Fetcher) Fetch(ctx context.Context) (string, uint64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.bustedURL(), nil)
	if err != nil {
		return "", 0, fmt.Errorf("failed to build feed request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read feed body: %w", err)
	}

	return string(body), xxhash.Sum64(body), nil
}

func (f *Fetcher) bustedURL() string {
	token := strconv.FormatInt(f.now().UnixNano(), 10)

	u, err := url.Parse(f.feedURL)
	if err != nil {
		// Fall back to naive appending; the feed URL comes from config and
		// a broken one will fail loudly at fetch time anyway.
		return f.feedURL + "?cb=" + token
	}
	q := u.Query()
	q.Set("cb", token)
	u.RawQuery = q.Encode()
	return u.String()
}
