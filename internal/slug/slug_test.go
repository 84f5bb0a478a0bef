package slug

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestMake(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"Characteristics of Algorithms", "characteristics-of-algorithms"},
		{"  Big-O   Notation  ", "big-o-notation"},
		{"Merge Sort (divide & conquer)", "merge-sort-divide-conquer"},
		{"---", ""},
		{"", ""},
		{"O(n log n)", "o-n-log-n"},
		{"Dijkstra's Algorithm", "dijkstra-s-algorithm"},
		{"café au lait", "caf-au-lait"},
		{"Section 2", "section-2"},
		{"already-a-slug", "already-a-slug"},
	}
	for _, tt := range tests {
		if got := Make(tt.input); got != tt.want {
			t.Errorf("Make(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestValid(t *testing.T) {
	if !Valid("merge-sort") {
		t.Error("merge-sort should be a valid slug")
	}
	for _, s := range []string{"", "Merge Sort", "-merge", "merge-", "merge--sort"} {
		if Valid(s) {
			t.Errorf("Valid(%q) = true, want false", s)
		}
	}
}

func TestMakeIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "s")
		once := Make(s)
		if twice := Make(once); twice != once {
			t.Fatalf("Make(Make(%q)) = %q, want %q", s, twice, once)
		}
	})
}

func TestMakeAlphabet(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.StringN(1, 64, -1).Draw(t, "s")
		got := Make(s)
		if strings.HasPrefix(got, "-") || strings.HasSuffix(got, "-") {
			t.Fatalf("Make(%q) = %q has a leading or trailing separator", s, got)
		}
		if strings.Contains(got, "--") {
			t.Fatalf("Make(%q) = %q has a separator run", s, got)
		}
		for _, r := range got {
			if !isAlnum(r) && r != Separator {
				t.Fatalf("Make(%q) = %q contains %q", s, got, r)
			}
		}
	})
}
