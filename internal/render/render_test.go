package render

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mohitxskull/daa-notes/internal/metrics"
	"github.com/mohitxskull/daa-notes/internal/shortcode"
	"github.com/mohitxskull/daa-notes/internal/slug"
	"github.com/mohitxskull/daa-notes/internal/theme"
)

func newTestRenderer(t *testing.T) (*Renderer, *metrics.Metrics) {
	t.Helper()
	m := metrics.New("test", "go")
	log := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return New(Options{Logger: log, Metrics: m}), m
}

func render(t *testing.T, r *Renderer, src string) *Page {
	t.Helper()
	page, err := r.RenderString(theme.New(theme.Light), src)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return page
}

func TestHeadingIDsAreSlugs(t *testing.T) {
	r, _ := newTestRenderer(t)
	page := render(t, r, "# Sorting Algorithms\n\n## Merge Sort: O(n log n)\n\ntext\n\n### Why it works?\n")

	if page.Title != "Sorting Algorithms" {
		t.Errorf("Title = %q", page.Title)
	}
	if len(page.Headings) != 3 {
		t.Fatalf("got %d headings, want 3", len(page.Headings))
	}
	for _, h := range page.Headings {
		if want := slug.Make(h.Content); h.ID != want {
			t.Errorf("heading %q has id %q, want %q", h.Content, h.ID, want)
		}
	}
	if page.Headings[1].ID != "merge-sort-o-n-log-n" || page.Headings[1].Depth != 1 {
		t.Errorf("second heading = %+v", page.Headings[1])
	}
}

func TestHeadingIDsDecodeEntities(t *testing.T) {
	r, _ := newTestRenderer(t)
	page := render(t, r, "## Q &amp; A\n\n## Big-O &lt; n\n\n## Dijkstra&#39;s Algorithm\n")

	want := []string{"q-a", "big-o-n", "dijkstra-s-algorithm"}
	if len(page.Headings) != len(want) {
		t.Fatalf("got %d headings, want %d", len(page.Headings), len(want))
	}
	for i, h := range page.Headings {
		if h.ID != want[i] {
			t.Errorf("heading %q id = %q, want %q", h.Content, h.ID, want[i])
		}
		if h.ID != slug.Make(h.Content) {
			t.Errorf("heading %q id %q does not match slug of its text", h.Content, h.ID)
		}
		if !strings.Contains(string(page.HTML), `id="`+want[i]+`"`) {
			t.Errorf("page html has no element with id %q", want[i])
		}
	}
}

func TestRawHTMLOmitted(t *testing.T) {
	r, _ := newTestRenderer(t)
	page := render(t, r, "Hello\n\n<script>alert(1)</script>\n")
	if strings.Contains(string(page.HTML), "<script>") {
		t.Errorf("raw html leaked into page:\n%s", page.HTML)
	}
}

func TestCodeTabs(t *testing.T) {
	r, m := newTestRenderer(t)
	src := "# Demo\n\n{{< code-tabs files=[main, util] expandable >}}\n" +
		"```go\npackage main\n```\n\n```py\nprint(1)\n```\n" +
		"{{< /code-tabs >}}\n\nafter\n"
	page := render(t, r, src)

	if len(page.Failures) != 0 {
		t.Fatalf("unexpected failures: %v", page.Failures[0])
	}
	out := string(page.HTML)
	for _, want := range []string{"main.go", "util.py", "mdx-code-tabs expandable", "Show full code", "<p>after</p>",
		`data-tab="main-go"`, `data-panel="util-py"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "MDXSLOT") {
		t.Errorf("placeholder left in output:\n%s", out)
	}
	if got := testutil.ToFloat64(m.ShortcodesTotal.WithLabelValues("code-tabs", "ok")); got != 1 {
		t.Errorf("ok counter = %v, want 1", got)
	}
}

func TestTabsCountMismatch(t *testing.T) {
	r, m := newTestRenderer(t)
	src := "{{< tabs titles=[Only] >}}\n<div>\n\nOne\n\n</div>\n<div>\n\nTwo\n\n</div>\n{{< /tabs >}}\n"
	page := render(t, r, src)

	if len(page.Failures) != 1 {
		t.Fatalf("got %d failures, want 1", len(page.Failures))
	}
	f := page.Failures[0]
	if f.Code != shortcode.CodeCountMismatch || f.Reason != "Number of tabs and titles do not match" {
		t.Errorf("failure = %v", f)
	}
	if !strings.Contains(string(page.HTML), "mdx-error") {
		t.Errorf("expected an error block:\n%s", page.HTML)
	}
	if got := testutil.ToFloat64(m.ShortcodesTotal.WithLabelValues("tabs", "count_mismatch")); got != 1 {
		t.Errorf("failure counter = %v, want 1", got)
	}
}

func TestTabsSanitized(t *testing.T) {
	r, _ := newTestRenderer(t)
	src := "{{< tabs titles=[First, Second] >}}\n" +
		"<div>\n<script>alert(1)</script>\n<a href=\"javascript:alert(1)\" onclick=\"x()\">bad</a>\n</div>\n" +
		"<div>\n\n**Two**\n\n</div>\n{{< /tabs >}}\n"
	page := render(t, r, src)

	if len(page.Failures) != 0 {
		t.Fatalf("unexpected failure: %v", page.Failures[0])
	}
	out := string(page.HTML)
	for _, banned := range []string{"<script", "javascript:", "onclick"} {
		if strings.Contains(out, banned) {
			t.Errorf("output contains %q:\n%s", banned, out)
		}
	}
	for _, want := range []string{`data-panel="first"`, `data-panel="second"`, "<strong>Two</strong>"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestNestedShortcodes(t *testing.T) {
	r, _ := newTestRenderer(t)
	src := "{{< accordion title=\"Proof\" >}}\nSee the code:\n\n{{< code >}}\n```go\nx := 1\n```\n{{< /code >}}\n{{< /accordion >}}\n"
	page := render(t, r, src)

	if len(page.Failures) != 0 {
		t.Fatalf("unexpected failure: %v", page.Failures[0])
	}
	out := string(page.HTML)
	if !strings.Contains(out, "<summary>Proof</summary>") || !strings.Contains(out, "mdx-code") {
		t.Errorf("nested widgets not rendered:\n%s", out)
	}
}

func TestMermaidAndTags(t *testing.T) {
	r, _ := newTestRenderer(t)
	src := "{{< mermaid >}}\n```mermaid\ngraph TD; A-->B\n```\n{{< /mermaid >}}\n\n{{< tags data=[greedy, \"dynamic programming\"] />}}\n"
	page, err := r.RenderString(theme.New(theme.Dark), src)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Failures) != 0 {
		t.Fatalf("unexpected failure: %v", page.Failures[0])
	}
	out := string(page.HTML)
	for _, want := range []string{`<div class="mermaid" data-theme="dark">`, `<span class="mdx-tag">dynamic programming</span>`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSyntaxFailure(t *testing.T) {
	r, _ := newTestRenderer(t)
	page := render(t, r, "{{< accordion title=\"x\" >}}\nnever closed\n")
	if len(page.Failures) != 1 || page.Failures[0].Code != shortcode.CodeSyntax {
		t.Fatalf("failures = %v", page.Failures)
	}
}

func TestSafeURL(t *testing.T) {
	policy := newPolicy()
	tests := map[string]bool{
		"https://example.com":  true,
		"/notes/chapter1":      true,
		"#merge-sort":          true,
		"mailto:a@b.c":         true,
		"javascript:alert(1)":  false,
		" JavaScript:alert(1)": false,
		"data:text/html,x":     false,
	}
	for u, want := range tests {
		out := policy.Sanitize(`<a href="` + u + `">link</a>`)
		if got := strings.Contains(out, "href="); got != want {
			t.Errorf("href %q kept = %v, want %v (%s)", u, got, want, out)
		}
	}
}

func TestBodyStyleAndIDStripped(t *testing.T) {
	r, _ := newTestRenderer(t)
	src := "{{< tabs titles=[First, Second] >}}\n" +
		"<div>\n<p style=\"position:fixed;inset:0\" id=\"page-content\">Overlay</p>\n</div>\n" +
		"<div>\n\n## Step One\n\n</div>\n{{< /tabs >}}\n"
	page := render(t, r, src)

	if len(page.Failures) != 0 {
		t.Fatalf("unexpected failure: %v", page.Failures[0])
	}
	out := string(page.HTML)
	for _, banned := range []string{"position:fixed", `id="page-content"`} {
		if strings.Contains(out, banned) {
			t.Errorf("output contains %q:\n%s", banned, out)
		}
	}
	for _, want := range []string{"<p>Overlay</p>", `<h2 id="step-one">`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestNestedWidgetKeepsHighlighting(t *testing.T) {
	r, _ := newTestRenderer(t)
	src := "{{< accordion title=\"Proof\" >}}\n{{< code >}}\n```go\nx := 1\n```\n{{< /code >}}\n{{< /accordion >}}\n"
	page := render(t, r, src)

	if len(page.Failures) != 0 {
		t.Fatalf("unexpected failure: %v", page.Failures[0])
	}
	out := string(page.HTML)
	if !strings.Contains(out, `class="mdx-code"`) || !strings.Contains(out, "style=") {
		t.Errorf("nested code block lost its highlighting:\n%s", out)
	}
}
