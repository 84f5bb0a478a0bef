// Package content resolves navigation routes to markdown sources and
// fetches them with a freshness window.
package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mohitxskull/daa-notes/internal/metrics"
)

// DefaultTTL is how long a fetched document stays fresh.
const DefaultTTL = 24 * time.Hour

var (
	// ErrContentMissing means there is nothing to show for a route: it has
	// no navigation entry, or its source is empty.
	ErrContentMissing = errors.New("content missing")

	// ErrFetchFailure means the source could not be retrieved.
	ErrFetchFailure = errors.New("content fetch failed")
)

// FetchError describes a failed request to a content source.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetching %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFetchFailure}
	}
	return []error{ErrFetchFailure, e.Err}
}

// Document is a fetched markdown source.
type Document struct {
	Entry     Entry
	URL       string
	Body      []byte
	FetchedAt time.Time
}

// FetcherOptions configures a Fetcher.
type FetcherOptions struct {
	// BaseURL is the URL sources are resolved against. file:// URLs read
	// from the local file system.
	BaseURL string
	TTL     time.Duration
	Client  *http.Client
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// Fetcher fetches and caches content sources. There is at most one
// request in flight per source.
type Fetcher struct {
	nav     *Nav
	base    *url.URL
	client  *http.Client
	ttl     time.Duration
	log     *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	mu sync.Mutex
	// cache is keyed by source URL and never swept. A stale entry stays
	// until the next Fetch of that source replaces it.
	cache map[string]*Document
	group singleflight.Group
}

// NewFetcher returns a Fetcher for the entries of nav.
func NewFetcher(nav *Nav, opts FetcherOptions) (*Fetcher, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing content base url: %w", err)
	}
	if base.Scheme == "" {
		return nil, fmt.Errorf("content base url %q has no scheme", opts.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	client := opts.Client
	if client == nil {
		client = newClient()
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Fetcher{
		nav:     nav,
		base:    base,
		client:  client,
		ttl:     ttl,
		log:     log,
		metrics: opts.Metrics,
		now:     time.Now,
		cache:   make(map[string]*Document),
	}, nil
}

// newClient returns an HTTP client that also understands file:// URLs.
func newClient() *http.Client {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.RegisterProtocol("file", http.NewFileTransport(http.Dir("/")))
	return &http.Client{Transport: t}
}

// Nav returns the navigation table the Fetcher serves.
func (f *Fetcher) Nav() *Nav { return f.nav }

// SourceURL resolves the source of e against the base URL.
func (f *Fetcher) SourceURL(e Entry) string {
	ref := &url.URL{Path: strings.TrimPrefix(e.Source, "/")}
	return f.base.ResolveReference(ref).String()
}

// Fetch returns the document for route. A route without a navigation entry
// fails with ErrContentMissing before any request is made. If ctx is done
// first Fetch returns ctx.Err(); the request itself keeps running and its
// result is cached for the next caller.
func (f *Fetcher) Fetch(ctx context.Context, route string) (*Document, error) {
	entry, ok := f.nav.Lookup(route)
	if !ok {
		f.count("missing")
		return nil, fmt.Errorf("%w: no page at %s", ErrContentMissing, route)
	}
	src := f.SourceURL(entry)

	if doc := f.fresh(src); doc != nil {
		f.count("hit")
		return doc, nil
	}

	ch := f.group.DoChan(src, func() (any, error) {
		return f.fetch(context.WithoutCancel(ctx), entry, src)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			f.count("shared")
		}
		return res.Val.(*Document), nil
	}
}

func (f *Fetcher) fresh(src string) *Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.cache[src]
	if !ok || f.now().Sub(doc.FetchedAt) >= f.ttl {
		return nil
	}
	return doc
}

func (f *Fetcher) fetch(ctx context.Context, entry Entry, src string) (*Document, error) {
	start := time.Now()
	defer func() {
		if f.metrics != nil {
			f.metrics.FetchDurationSeconds.Observe(time.Since(start).Seconds())
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		f.count("error")
		return nil, &FetchError{URL: src, Err: err}
	}
	resp, err := f.client.Do(req)
	if err != nil {
		f.count("error")
		f.log.Warn("content: fetch failed", "url", src, "error", err)
		return nil, &FetchError{URL: src, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.count("error")
		f.log.Warn("content: unexpected status", "url", src, "status", resp.StatusCode)
		return nil, &FetchError{URL: src, Status: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		f.count("error")
		return nil, &FetchError{URL: src, Err: err}
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		f.count("missing")
		return nil, fmt.Errorf("%w: %s is empty", ErrContentMissing, src)
	}

	doc := &Document{Entry: entry, URL: src, Body: body, FetchedAt: f.now()}
	f.mu.Lock()
	f.cache[src] = doc
	n := len(f.cache)
	f.mu.Unlock()

	f.count("miss")
	if f.metrics != nil {
		f.metrics.CacheEntries.Set(float64(n))
	}
	f.log.Debug("content: fetched", "url", src, "bytes", len(body))
	return doc, nil
}

// Invalidate drops the cached copy of the entry whose source is source.
// It reports whether anything was dropped.
func (f *Fetcher) Invalidate(source string) bool {
	for _, e := range f.nav.Entries() {
		if e.Source != source {
			continue
		}
		src := f.SourceURL(e)
		f.mu.Lock()
		_, ok := f.cache[src]
		delete(f.cache, src)
		n := len(f.cache)
		f.mu.Unlock()
		if f.metrics != nil {
			f.metrics.CacheEntries.Set(float64(n))
		}
		return ok
	}
	return false
}

// InvalidateAll empties the cache.
func (f *Fetcher) InvalidateAll() {
	f.mu.Lock()
	f.cache = make(map[string]*Document)
	f.mu.Unlock()
	if f.metrics != nil {
		f.metrics.CacheEntries.Set(0)
	}
}

// Cached reports when route was last fetched, if it is cached.
func (f *Fetcher) Cached(route string) (time.Time, bool) {
	entry, ok := f.nav.Lookup(route)
	if !ok {
		return time.Time{}, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.cache[f.SourceURL(entry)]
	if !ok {
		return time.Time{}, false
	}
	return doc.FetchedAt, true
}

func (f *Fetcher) count(result string) {
	if f.metrics != nil {
		f.metrics.FetchTotal.WithLabelValues(result).Inc()
	}
}
