package content

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestFetcher(t *testing.T, base string) *Fetcher {
	t.Helper()
	f, err := NewFetcher(DefaultNav(), FetcherOptions{BaseURL: base})
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}
	return f
}

func TestFetchMissingMakesNoRequest(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer ts.Close()

	f := newTestFetcher(t, ts.URL)
	_, err := f.Fetch(context.Background(), "/notes/chapter7/section1")
	if !errors.Is(err, ErrContentMissing) {
		t.Fatalf("err = %v, want ErrContentMissing", err)
	}
	if hits.Load() != 0 {
		t.Errorf("made %d requests, want 0", hits.Load())
	}
}

func TestFetchCachesWithinTTL(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/content/chapter1/section1.md" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("# Characteristics of Algorithms\n"))
	}))
	defer ts.Close()

	f := newTestFetcher(t, ts.URL+"/content")
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		doc, err := f.Fetch(context.Background(), "/notes/chapter1/section1")
		if err != nil {
			t.Fatalf("Fetch: %v", err)
		}
		if string(doc.Body) != "# Characteristics of Algorithms\n" {
			t.Fatalf("Body = %q", doc.Body)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("made %d requests within ttl, want 1", hits.Load())
	}

	now = now.Add(DefaultTTL)
	if _, err := f.Fetch(context.Background(), "/notes/chapter1/section1"); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 2 {
		t.Errorf("stale entry was not refetched: %d requests", hits.Load())
	}

	if !f.Invalidate("chapter1/section1.md") {
		t.Error("Invalidate reported nothing cached")
	}
	if _, ok := f.Cached("/notes/chapter1/section1"); ok {
		t.Error("entry still cached after Invalidate")
	}
}

func TestFetchStaleEntryKeptUntilSuperseded(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("# Characteristics of Algorithms\n"))
	}))
	defer ts.Close()

	f := newTestFetcher(t, ts.URL+"/content")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	f.now = func() time.Time { return now }

	if _, err := f.Fetch(context.Background(), "/notes/chapter1/section1"); err != nil {
		t.Fatal(err)
	}

	now = start.Add(3 * DefaultTTL)
	at, ok := f.Cached("/notes/chapter1/section1")
	if !ok || !at.Equal(start) {
		t.Fatalf("stale entry = %v, %v; want it kept from %v", at, ok, start)
	}
	if hits.Load() != 1 {
		t.Errorf("made %d requests before the next fetch, want 1", hits.Load())
	}

	if _, err := f.Fetch(context.Background(), "/notes/chapter1/section1"); err != nil {
		t.Fatal(err)
	}
	if at, _ := f.Cached("/notes/chapter1/section1"); !at.Equal(now) {
		t.Errorf("FetchedAt = %v, want superseded at %v", at, now)
	}
	if hits.Load() != 2 {
		t.Errorf("requests = %d, want 2", hits.Load())
	}
}

func TestFetchFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	f := newTestFetcher(t, ts.URL)
	_, err := f.Fetch(context.Background(), "/notes/chapter1/section2")
	if !errors.Is(err, ErrFetchFailure) {
		t.Fatalf("err = %v, want ErrFetchFailure", err)
	}
	var fe *FetchError
	if !errors.As(err, &fe) || fe.Status != http.StatusInternalServerError {
		t.Errorf("FetchError = %+v", fe)
	}
	if _, ok := f.Cached("/notes/chapter1/section2"); ok {
		t.Error("failures must not be cached")
	}
}

func TestFetchEmptyBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("  \n"))
	}))
	defer ts.Close()

	f := newTestFetcher(t, ts.URL)
	if _, err := f.Fetch(context.Background(), "/notes/chapter1/section1"); !errors.Is(err, ErrContentMissing) {
		t.Errorf("err = %v, want ErrContentMissing", err)
	}
}

func TestFetchSingleFlight(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		w.Write([]byte("# Page\n"))
	}))
	defer ts.Close()

	f := newTestFetcher(t, ts.URL)

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.Fetch(context.Background(), "/notes/chapter2/section2")
			errs <- err
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("Fetch: %v", err)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("made %d requests, want 1", hits.Load())
	}
}

func TestFetchAbandonedKeepsResult(t *testing.T) {
	release := make(chan struct{})
	done := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte("# Page\n"))
		close(done)
	}))
	defer ts.Close()

	f := newTestFetcher(t, ts.URL)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	if _, err := f.Fetch(ctx, "/notes/chapter1/section1"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}

	close(release)
	<-done
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ok := f.Cached("/notes/chapter1/section1"); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("abandoned fetch was not cached")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestFetchFileURL(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "chapter1"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "chapter1", "section2.md"), []byte("# Local\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	f := newTestFetcher(t, "file://"+filepath.ToSlash(dir))
	doc, err := f.Fetch(context.Background(), "/notes/chapter1/section2")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(doc.Body) != "# Local\n" {
		t.Errorf("Body = %q", doc.Body)
	}

	if _, err := f.Fetch(context.Background(), "/notes/chapter2/section1"); !errors.Is(err, ErrFetchFailure) {
		t.Errorf("missing file err = %v, want ErrFetchFailure", err)
	}
}

func TestNewFetcherRejectsRelativeBase(t *testing.T) {
	if _, err := NewFetcher(DefaultNav(), FetcherOptions{BaseURL: "content/"}); err == nil {
		t.Error("expected error for base url without scheme")
	}
}
