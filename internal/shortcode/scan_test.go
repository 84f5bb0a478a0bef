package shortcode

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func ph(i int) string { return fmt.Sprintf("@@SC%d@@", i) }

func TestScanBlocks(t *testing.T) {
	src := "# Sorting\n\nIntro text.\n\n" +
		"{{< code-tabs files=[main, util] expandable >}}\n" +
		"```go\npackage main\n```\n" +
		"{{< /code-tabs >}}\n" +
		"After.\n" +
		"{{< tags data=[\"divide and conquer\", sorting] />}}\n"

	out, blocks := Scan(src, ph)
	if len(blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(blocks))
	}

	b := blocks[0]
	if b.Name != "code-tabs" || b.Err != nil {
		t.Fatalf("block 0 = %+v", b)
	}
	if b.Line != 5 {
		t.Errorf("line = %d, want 5", b.Line)
	}
	if b.Attrs["expandable"] != true {
		t.Errorf("expandable = %v", b.Attrs["expandable"])
	}
	files, _ := b.Attrs["files"].([]any)
	if len(files) != 2 || files[0] != "main" {
		t.Errorf("files = %v", b.Attrs["files"])
	}
	if b.Body != "```go\npackage main\n```\n" {
		t.Errorf("body = %q", b.Body)
	}

	tags, _ := blocks[1].Attrs["data"].([]any)
	if len(tags) != 2 || tags[0] != "divide and conquer" {
		t.Errorf("tags = %v", blocks[1].Attrs["data"])
	}

	if !strings.Contains(out, "\n@@SC0@@\n\n") || !strings.Contains(out, "\n@@SC1@@\n\n") {
		t.Errorf("placeholders missing from %q", out)
	}
	if strings.Contains(out, "{{<") {
		t.Errorf("shortcode syntax left in output: %q", out)
	}
}

func TestScanNested(t *testing.T) {
	src := "{{< accordion title=\"Outer\" >}}\n" +
		"{{< accordion title=\"Inner\" >}}\nbody\n{{< /accordion >}}\n" +
		"{{< /accordion >}}\n"
	_, blocks := Scan(src, ph)
	if len(blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(blocks))
	}
	if !strings.Contains(blocks[0].Body, `title="Inner"`) {
		t.Errorf("nested shortcode should stay in the body: %q", blocks[0].Body)
	}
}

func TestScanIgnoresFences(t *testing.T) {
	src := "```md\n{{< tags data=[a] />}}\n```\n"
	out, blocks := Scan(src, ph)
	if len(blocks) != 0 {
		t.Fatalf("blocks = %d, want 0", len(blocks))
	}
	if out != src {
		t.Errorf("fenced content changed: %q", out)
	}
}

func TestScanErrors(t *testing.T) {
	_, blocks := Scan("{{< tabs titles=[a, b] >}}\n<div>1</div>\n", ph)
	if len(blocks) != 1 || !errors.Is(blocks[0].Err, ErrUnterminated) {
		t.Fatalf("blocks = %+v", blocks)
	}

	_, blocks = Scan("text\n{{< /tabs >}}\n", ph)
	if len(blocks) != 1 || !errors.Is(blocks[0].Err, ErrStrayClose) {
		t.Fatalf("blocks = %+v", blocks)
	}

	_, blocks = Scan("{{< tags data=[a, b />}}\n", ph)
	if len(blocks) != 1 || blocks[0].Err == nil {
		t.Fatalf("expected attribute error, got %+v", blocks)
	}
}

func TestParseAttrs(t *testing.T) {
	attrs, err := ParseAttrs(` title="Merge Sort" width=320 open=false files=['a b', c] matrix=[[1, 2], [3, 4]]`)
	if err != nil {
		t.Fatalf("ParseAttrs: %v", err)
	}
	if attrs["title"] != "Merge Sort" {
		t.Errorf("title = %v", attrs["title"])
	}
	if attrs["open"] != false {
		t.Errorf("open = %v", attrs["open"])
	}
	if _, err := coerce(attrs["width"], AttrInt); err != nil {
		t.Errorf("width should coerce to int: %v", err)
	}
	files := attrs["files"].([]any)
	if files[0] != "a b" || files[1] != "c" {
		t.Errorf("files = %v", files)
	}
	m, err := coerce(attrs["matrix"], AttrMatrix)
	if err != nil {
		t.Fatalf("matrix: %v", err)
	}
	if got := m.([][]string); got[1][0] != "3" {
		t.Errorf("matrix = %v", got)
	}
}

func TestParseAttrsErrors(t *testing.T) {
	for _, in := range []string{`title="open`, `=x`, `list=[a, b`, `x=]`} {
		if _, err := ParseAttrs(in); err == nil {
			t.Errorf("ParseAttrs(%q) succeeded, want error", in)
		}
	}
}
