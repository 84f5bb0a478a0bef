package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mohitxskull/daa-notes/internal/content"
	"github.com/mohitxskull/daa-notes/internal/metrics"
	"github.com/mohitxskull/daa-notes/internal/render"
	"github.com/mohitxskull/daa-notes/internal/site"
	"github.com/mohitxskull/daa-notes/internal/theme"
)

func newTestServer(t *testing.T, cfg Config) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	write := func(name, data string) {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("chapter1/section1.md", "# Characteristics of Algorithms\n\n## Finiteness\n\n## Definiteness\n\n```go\nfunc main() {}\n```\n")
	write("chapter1/section2.md", "# Asymptotic Notation\n\n{{< tags >}}\n{{< /tags >}}\n")
	write("chapter2/section1.md", "")

	m := metrics.New("test", "go")
	nav := content.DefaultNav()
	f, err := content.NewFetcher(nav, content.FetcherOptions{BaseURL: "file://" + filepath.ToSlash(dir), Metrics: m})
	if err != nil {
		t.Fatal(err)
	}
	shell, err := site.NewShell(nav, site.ShellOptions{RepoURL: "https://github.com/mohitxskull/Design-and-Analysis-of-Algorithm"})
	if err != nil {
		t.Fatal(err)
	}
	cfg.ContentDir = dir
	srv := New(cfg, Deps{
		Fetcher:  f,
		Renderer: render.New(render.Options{Metrics: m}),
		Shell:    shell,
		Metrics:  m,
	})
	t.Cleanup(srv.Hub().Close)
	return srv, dir
}

func serve(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	srv, _ := newTestServer(t, Config{Port: 0})

	w := serve(srv, httptest.NewRequest("GET", "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv, _ := newTestServer(t, Config{Port: 0, AllowAll: true})

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := serve(srv, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestPage(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	w := serve(srv, httptest.NewRequest("GET", "/notes/chapter1/section1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		`<h2 id="finiteness"`,
		`href="#definiteness"`,
		`data-mode="serve"`,
		`href="/style.css"`,
		`Edit this page on GitHub`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}

	// Trailing slashes reach the same page.
	if w := serve(srv, httptest.NewRequest("GET", "/notes/chapter1/section1/", nil)); w.Code != http.StatusOK {
		t.Errorf("trailing slash: got %d", w.Code)
	}
}

func TestPageShortcodeFailure(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	w := serve(srv, httptest.NewRequest("GET", "/notes/chapter1/section2", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `class="mdx-error"`) {
		t.Error("failed shortcode should render an error artifact")
	}
}

func TestPageErrors(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	tests := []struct {
		path   string
		status int
		want   string
	}{
		{"/notes/chapter9/section9", http.StatusNotFound, "No content found"},
		{"/notes/chapter2/section1", http.StatusNotFound, "No content found"},
		{"/notes/chapter2/section2", http.StatusBadGateway, "Failed to load content"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := serve(srv, httptest.NewRequest("GET", tt.path, nil))
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if !strings.Contains(w.Body.String(), tt.want) {
				t.Errorf("body missing %q", tt.want)
			}
		})
	}
}

func TestIndexAndAssets(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	w := serve(srv, httptest.NewRequest("GET", "/", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Chapter 1") {
		t.Errorf("index: %d", w.Code)
	}

	w = serve(srv, httptest.NewRequest("GET", "/notes", nil))
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/notes/chapter1/section1" {
		t.Errorf("notes root: %d %q", w.Code, w.Header().Get("Location"))
	}

	w = serve(srv, httptest.NewRequest("GET", "/script.js", nil))
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Header().Get("Content-Type"), "text/javascript") {
		t.Errorf("script: %d %q", w.Code, w.Header().Get("Content-Type"))
	}
}

func TestSearch(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	w := serve(srv, httptest.NewRequest("GET", "/api/search?q=characteristics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var results []site.SearchEntry
	if err := json.Unmarshal(w.Body.Bytes(), &results); err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 || results[0].Route != "/notes/chapter1/section1" {
		t.Errorf("results = %+v", results)
	}

	w = serve(srv, httptest.NewRequest("GET", "/api/search", nil))
	results = nil
	json.Unmarshal(w.Body.Bytes(), &results)
	if len(results) != len(content.DefaultNav().Entries()) {
		t.Errorf("empty query returned %d results", len(results))
	}
}

func TestTOC(t *testing.T) {
	srv, _ := newTestServer(t, Config{TOCThreshold: 120})

	w := serve(srv, httptest.NewRequest("GET", "/api/toc?route=/notes/chapter1/section1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp tocResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Threshold != 120 || len(resp.Headings) != 2 || resp.Headings[0].ID != "finiteness" || resp.Headings[0].Depth != 1 {
		t.Errorf("toc = %+v", resp)
	}

	if w := serve(srv, httptest.NewRequest("GET", "/api/toc", nil)); w.Code != http.StatusBadRequest {
		t.Errorf("missing route: %d", w.Code)
	}
	if w := serve(srv, httptest.NewRequest("GET", "/api/toc?route=/notes/none", nil)); w.Code != http.StatusNotFound {
		t.Errorf("unknown route: %d", w.Code)
	}
}

func TestThemeToggle(t *testing.T) {
	srv, _ := newTestServer(t, Config{DefaultScheme: theme.Dark})

	w := serve(srv, httptest.NewRequest("POST", "/api/theme", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != theme.CookieName || cookies[0].Value != string(theme.Light) {
		t.Fatalf("cookies = %+v", cookies)
	}

	req := httptest.NewRequest("GET", "/notes/chapter1/section1", nil)
	req.AddCookie(cookies[0])
	if body := serve(srv, req).Body.String(); !strings.Contains(body, `data-theme="light"`) {
		t.Error("cookie scheme not applied")
	}
}

func TestContentChangedInvalidates(t *testing.T) {
	srv, dir := newTestServer(t, Config{})

	serve(srv, httptest.NewRequest("GET", "/notes/chapter1/section1", nil))
	if _, ok := srv.fetcher.Cached("/notes/chapter1/section1"); !ok {
		t.Fatal("page should be cached after the first request")
	}

	if err := os.WriteFile(filepath.Join(dir, "chapter1", "section1.md"), []byte("# Rewritten\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	srv.ContentChanged("chapter1/section1.md")

	body := serve(srv, httptest.NewRequest("GET", "/notes/chapter1/section1", nil)).Body.String()
	if !strings.Contains(body, "Rewritten") {
		t.Error("changed source was not refetched")
	}
}

func TestContentFiles(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	w := serve(srv, httptest.NewRequest("GET", "/content/chapter1/section2.md", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Asymptotic Notation") {
		t.Errorf("content file: %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	serve(srv, httptest.NewRequest("GET", "/notes/chapter1/section1", nil))
	if got := testutil.ToFloat64(srv.metrics.RequestsTotal.WithLabelValues("GET", "/notes/*", "200")); got != 1 {
		t.Errorf("requests counter = %v, want 1", got)
	}

	w := serve(srv, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "daanotes_pages_rendered_total") {
		t.Errorf("metrics: %d", w.Code)
	}
}

func TestInvalidateEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	serve(srv, httptest.NewRequest("GET", "/notes/chapter1/section1", nil))

	w := serve(srv, httptest.NewRequest("POST", "/api/cache/invalidate?source=chapter1/section1.md", nil))
	var body map[string]bool
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if !body["invalidated"] {
		t.Error("cached source should have been invalidated")
	}
	if _, ok := srv.fetcher.Cached("/notes/chapter1/section1"); ok {
		t.Error("page still cached")
	}

	w = serve(srv, httptest.NewRequest("POST", "/api/cache/invalidate?source=chapter1/section1.md", nil))
	body = nil
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["invalidated"] {
		t.Error("second invalidation should report nothing dropped")
	}
}
