package shortcode

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"
)

var (
	openTag  = regexp.MustCompile(`^\s*\{\{<\s*([A-Za-z][\w-]*)(.*?)\s*(/?)>\}\}\s*$`)
	closeTag = regexp.MustCompile(`^\s*\{\{<\s*/\s*([A-Za-z][\w-]*)\s*>\}\}\s*$`)

	ErrUnterminated = errors.New("shortcode is never closed")
	ErrStrayClose   = errors.New("closing tag without a matching opening tag")
)

// Block is a shortcode occurrence found in markdown source. Blocks with a
// non-nil Err are still reported so the author sees the problem in place.
type Block struct {
	Name  string
	Attrs map[string]any
	Body  string
	Raw   string
	Line  int
	Err   error
}

// Scan finds the top-level shortcodes of src. Each one is cut out and
// replaced by placeholder(i) standing alone in its own paragraph, where i
// indexes the returned blocks. Shortcodes must start on their own line and
// are ignored inside fenced code blocks. Nested shortcodes stay in the body
// of their parent.
func Scan(src string, placeholder func(int) string) (string, []Block) {
	lines := strings.SplitAfter(src, "\n")

	var (
		out    strings.Builder
		blocks []Block
		fence  fenceState
	)
	emit := func(b Block) {
		out.WriteString("\n" + placeholder(len(blocks)) + "\n\n")
		blocks = append(blocks, b)
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if fence.feed(line) {
			out.WriteString(line)
			continue
		}

		if m := closeTag.FindStringSubmatch(line); m != nil {
			emit(Block{Name: m[1], Raw: line, Line: i + 1, Err: ErrStrayClose})
			continue
		}

		m := openTag.FindStringSubmatch(line)
		if m == nil {
			out.WriteString(line)
			continue
		}

		b := Block{Name: m[1], Raw: line, Line: i + 1}
		b.Attrs, b.Err = ParseAttrs(m[2])
		if m[3] == "/" {
			emit(b)
			continue
		}

		end := findClose(lines, i+1, b.Name)
		if end < 0 {
			if b.Err == nil {
				b.Err = ErrUnterminated
			}
			emit(b)
			continue
		}
		b.Body = strings.Join(lines[i+1:end], "")
		b.Raw = strings.Join(lines[i:end+1], "")
		emit(b)
		i = end
	}
	return out.String(), blocks
}

// findClose returns the index of the line closing a shortcode named name
// whose body starts at line from, or -1.
func findClose(lines []string, from int, name string) int {
	depth := 1
	var fence fenceState
	for j := from; j < len(lines); j++ {
		if fence.feed(lines[j]) {
			continue
		}
		if m := openTag.FindStringSubmatch(lines[j]); m != nil && m[1] == name && m[3] != "/" {
			depth++
			continue
		}
		if m := closeTag.FindStringSubmatch(lines[j]); m != nil && m[1] == name {
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

// fenceState tracks whether a line sequence is inside a fenced code block.
type fenceState struct {
	marker string
}

// feed consumes line and reports whether it belongs to a fence, either as
// a fence delimiter or as fenced content.
func (f *fenceState) feed(line string) bool {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return f.marker != ""
	}
	trimmed = strings.TrimRight(trimmed, "\r\n")
	if f.marker != "" {
		if strings.HasPrefix(trimmed, f.marker) && strings.Trim(trimmed, f.marker[:1]) == "" {
			f.marker = ""
		}
		return true
	}
	for _, c := range []string{"`", "~"} {
		n := 0
		for n < len(trimmed) && trimmed[n:n+1] == c {
			n++
		}
		if n >= 3 {
			f.marker = strings.Repeat(c, n)
			return true
		}
	}
	return false
}

// ParseAttrs parses the attribute list of an opening tag. Attributes are
// written key=value where value is a quoted string, a [flow, list] or a
// bare word. A bare key with no value is true. Values are decoded as YAML
// flow scalars, so numbers and booleans keep their type.
func ParseAttrs(s string) (map[string]any, error) {
	attrs := make(map[string]any)
	rest := strings.TrimSpace(s)
	for rest != "" {
		key, after, err := attrKey(rest)
		if err != nil {
			return attrs, err
		}
		if !strings.HasPrefix(after, "=") {
			attrs[key] = true
			rest = strings.TrimSpace(after)
			continue
		}

		raw, remaining, err := attrValue(after[1:])
		if err != nil {
			return attrs, fmt.Errorf("attribute %s: %w", key, err)
		}
		var v any
		if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
			return attrs, fmt.Errorf("attribute %s: %w", key, err)
		}
		attrs[key] = v
		rest = strings.TrimSpace(remaining)
	}
	return attrs, nil
}

func attrKey(s string) (string, string, error) {
	i := 0
	for i < len(s) && isKeyByte(s[i]) {
		i++
	}
	if i == 0 {
		return "", s, fmt.Errorf("expected attribute name at %q", s)
	}
	return s[:i], strings.TrimLeft(s[i:], " \t"), nil
}

func isKeyByte(c byte) bool {
	return c == '-' || c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// attrValue cuts one raw value off the front of s.
func attrValue(s string) (string, string, error) {
	s = strings.TrimLeft(s, " \t")
	if s == "" {
		return "", "", errors.New("missing value")
	}

	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' && quote == '"' {
				i++
			} else if c == quote {
				quote = 0
				if depth == 0 {
					return s[:i+1], s[i+1:], nil
				}
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '[':
			depth++
		case c == ']':
			depth--
			if depth < 0 {
				return "", "", errors.New("unbalanced ]")
			}
			if depth == 0 {
				return s[:i+1], s[i+1:], nil
			}
		case (c == ' ' || c == '\t') && depth == 0:
			return s[:i], s[i:], nil
		}
	}
	if quote != 0 {
		return "", "", errors.New("unterminated quote")
	}
	if depth != 0 {
		return "", "", errors.New("unterminated list")
	}
	return s, "", nil
}
