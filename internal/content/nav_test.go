package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultNav(t *testing.T) {
	n := DefaultNav()

	entries := n.Entries()
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(entries))
	}
	if entries[0].Title != "Characteristics of Algorithms" || entries[0].Route != "/notes/chapter1/section1" {
		t.Errorf("first entry = %+v", entries[0])
	}

	groups := n.Groups()
	if len(groups) != 2 || groups[0].Name != "Chapter 1" || groups[1].Name != "Chapter 2" {
		t.Fatalf("groups = %+v", groups)
	}
	if len(groups[0].Entries) != 2 {
		t.Errorf("chapter 1 has %d entries, want 2", len(groups[0].Entries))
	}
}

func TestLookup(t *testing.T) {
	n := DefaultNav()
	e, ok := n.Lookup("/notes/chapter2/section1/")
	if !ok || e.Source != "chapter2/section1.md" {
		t.Errorf("Lookup = %+v, %v", e, ok)
	}
	if _, ok := n.Lookup("/notes/chapter9/section1"); ok {
		t.Error("unexpected entry for unknown route")
	}
}

func TestParseNavDefaultsSource(t *testing.T) {
	n, err := ParseNav([]byte(`
entries:
  - route: /notes/greedy/huffman
    title: Huffman Coding
    group: Greedy
`))
	if err != nil {
		t.Fatalf("ParseNav: %v", err)
	}
	e, _ := n.Lookup("/notes/greedy/huffman")
	if e.Source != "greedy/huffman.md" {
		t.Errorf("Source = %q", e.Source)
	}
}

func TestParseNavInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no entries", "entries: []\n", "invalid nav"},
		{"missing title", "entries:\n  - route: /notes/a\n    group: G\n", "invalid nav"},
		{"bad route", "entries:\n  - route: notes/a\n    title: A\n    group: G\n", "invalid nav"},
		{"unknown field", "entries:\n  - route: /notes/a\n    title: A\n    group: G\n    color: red\n", "invalid nav"},
		{"duplicate", "entries:\n  - {route: /notes/a, title: A, group: G}\n  - {route: /notes/a/, title: B, group: G}\n", "duplicate nav route"},
		{"not yaml", "entries: [\n", "parsing nav yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNav([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("ParseNav error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestLoadNav(t *testing.T) {
	n, err := LoadNav("")
	if err != nil || len(n.Entries()) != 4 {
		t.Fatalf("LoadNav(\"\") = %v, %v", n, err)
	}

	path := filepath.Join(t.TempDir(), "nav.yml")
	if err := os.WriteFile(path, []byte("entries:\n  - {route: /notes/x, title: X, group: G}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	n, err = LoadNav(path)
	if err != nil {
		t.Fatalf("LoadNav: %v", err)
	}
	if _, ok := n.Lookup("/notes/x"); !ok {
		t.Error("entry from file not found")
	}

	if _, err := LoadNav(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSearch(t *testing.T) {
	n, err := NewNav([]Entry{
		{Route: "/notes/c1/s1", Title: "Characteristics of Algorithms", Group: "Chapter 1", Description: "Finiteness and definiteness"},
		{Route: "/notes/c1/s2", Title: "Asymptotic Notation", Group: "Chapter 1", Description: "Big O of algorithms"},
		{Route: "/notes/c2/s1", Title: "Divide and Conquer", Group: "Chapter 2", Description: "Merge sort"},
	})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"algorithms", []string{"/notes/c1/s1", "/notes/c1/s2"}},
		{"merge", []string{"/notes/c2/s1"}},
		{"divide and conquer", []string{"/notes/c2/s1"}},
		{"/notes/c1/s2", []string{"/notes/c1/s2"}},
		{"chapter 2", []string{"/notes/c2/s1"}},
		{"graphs", nil},
		{"  ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := n.Search(tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("Search(%q) = %d results, want %d", tt.query, len(got), len(tt.want))
			}
			for i := range got {
				if got[i].Route != tt.want[i] {
					t.Errorf("result %d = %s, want %s", i, got[i].Route, tt.want[i])
				}
			}
		})
	}
}
