package schemas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// TrustedSchemaHosts is the fixed allow-list of URL prefixes remote schemas
// may be fetched from. Any other URL is rejected before network access.
var TrustedSchemaHosts = []string{
	"https://schemas.openresume.org/",
	"https://raw.githubusercontent.com/openresume/schemas/",
	"https://cdn.openresume.org/schemas/",
}

// DefaultFetchTimeout bounds a single remote schema resolution, including
// the one retry.
const DefaultFetchTimeout = 5 * time.Second

// DefaultFetchCacheTTL is how long a fetched schema stays fresh.
const DefaultFetchCacheTTL = time.Hour

// URLAllowed reports whether a schema URL matches the trusted allow-list.
func URLAllowed(url string) bool {
	for _, prefix := range TrustedSchemaHosts {
		if strings.HasPrefix(url, prefix) {
			return true
		}
	}
	return false
}

type fetchEntry struct {
	doc       map[string]any
	fetchedAt time.Time
}

// Fetcher retrieves remote schema documents with a URL-keyed TTL cache.
// Concurrent fetches of the same URL are collapsed into one request.
type Fetcher struct {
	client *http.Client
	ttl    time.Duration

	mu    sync.RWMutex
	cache map[string]fetchEntry
	group singleflight.Group

	// now is swappable for tests.
	now func() time.Time
}

// NewFetcher creates a fetcher with the given cache TTL. A zero ttl uses
// DefaultFetchCacheTTL.
func NewFetcher(ttl time.Duration) *Fetcher {
	if ttl == 0 {
		ttl = DefaultFetchCacheTTL
	}
	return &Fetcher{
		client: &http.Client{},
		ttl:    ttl,
		cache:  map[string]fetchEntry{},
		now:    time.Now,
	}
}

// Fetch retrieves and parses the schema document at url. The allow-list is
// checked before any network access. The context bounds the whole call;
// one retry is attempted if the first request fails with budget remaining.
func (f *Fetcher) Fetch(ctx context.Context, url string) (map[string]any, error) {
	if !URLAllowed(url) {
		return nil, &FetchError{URL: url, Message: "URL not in schema allow-list"}
	}

	f.mu.RLock()
	entry, ok := f.cache[url]
	f.mu.RUnlock()
	if ok && f.now().Sub(entry.fetchedAt) < f.ttl {
		return entry.doc, nil
	}

	v, err, _ := f.group.Do(url, func() (any, error) {
		doc, err := f.fetchOnce(ctx, url)
		if err != nil {
			// One retry within the caller's remaining budget.
			if ctx.Err() != nil {
				return nil, err
			}
			doc, err = f.fetchOnce(ctx, url)
			if err != nil {
				return nil, err
			}
		}
		f.mu.Lock()
		f.cache[url] = fetchEntry{doc: doc, fetchedAt: f.now()}
		f.mu.Unlock()
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]any), nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Message: "building request", Cause: err}
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: url, Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &FetchError{URL: url, Message: "reading body", Cause: err}
	}

	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &FetchError{URL: url, Message: "schema is not valid JSON", Cause: err}
	}
	return doc, nil
}

// Invalidate drops a cached schema, forcing a re-fetch on next request.
func (f *Fetcher) Invalidate(url string) {
	f.mu.Lock()
	delete(f.cache, url)
	f.mu.Unlock()
}
