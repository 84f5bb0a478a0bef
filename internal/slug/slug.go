// Package slug turns free text into URL-safe identifiers.
package slug

import "strings"

// Separator joins the alphanumeric runs of a slug.
const Separator = '-'

// Make lowercases s, collapses every run of characters outside [a-z0-9]
// into a single Separator and trims separators from both ends.
//
// Make is used both for heading anchor ids and for tab panel keys, so the
// producer and the consumer of an id must both derive it through Make.
func Make(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pending := false
	for _, r := range strings.ToLower(s) {
		if isAlnum(r) {
			if pending && b.Len() > 0 {
				b.WriteByte(Separator)
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}

// Valid reports whether s is already in slug form.
func Valid(s string) bool {
	return s != "" && Make(s) == s
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
