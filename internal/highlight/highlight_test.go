package highlight

import (
	"strings"
	"testing"
)

func TestHTML(t *testing.T) {
	out, err := HTML(`{"a": 1}`, "json", "github")
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, "<pre") || !strings.Contains(s, "style=") {
		t.Errorf("expected inline-styled pre block, got %s", s)
	}
}

func TestHTMLUnknownLanguage(t *testing.T) {
	out, err := HTML("plain <text>", "no-such-language", "no-such-style")
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if !strings.Contains(string(out), "&lt;text&gt;") {
		t.Errorf("expected escaped text, got %s", out)
	}
}

func TestEscaped(t *testing.T) {
	got := string(Escaped("a < b"))
	if got != "<pre><code>a &lt; b</code></pre>" {
		t.Errorf("Escaped = %q", got)
	}
}
