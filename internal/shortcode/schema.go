package shortcode

import (
	"fmt"
	"strings"
)

// Arity bounds the number of children a node may have.
type Arity struct {
	Min int
	Max int // negative means unbounded
}

// Exactly returns an arity that admits exactly n children.
func Exactly(n int) Arity { return Arity{Min: n, Max: n} }

// AtLeast returns an arity that admits n or more children.
func AtLeast(n int) Arity { return Arity{Min: n, Max: -1} }

// AnyCount admits any number of children, including none.
var AnyCount = Arity{Min: 0, Max: -1}

// Allows reports whether a count of n satisfies the arity.
func (a Arity) Allows(n int) bool {
	if n < a.Min {
		return false
	}
	return a.Max < 0 || n <= a.Max
}

func (a Arity) String() string {
	switch {
	case a.Max < 0 && a.Min == 0:
		return "any number of"
	case a.Max < 0:
		return fmt.Sprintf("at least %d", a.Min)
	case a.Min == a.Max:
		return fmt.Sprintf("exactly %d", a.Min)
	default:
		return fmt.Sprintf("between %d and %d", a.Min, a.Max)
	}
}

// Shape is a declarative description of a node and its subtree.
type Shape struct {
	// Tag is the required element name. An empty Tag accepts any node,
	// text included.
	Tag string

	// ClassPrefix requires a class attribute starting with the prefix and
	// carrying a non-empty remainder (for example "language-").
	ClassPrefix string

	// Class requires an exact class attribute value.
	Class string

	// Children bounds the number of children. Nil leaves them unchecked.
	Children *Arity

	// Each, when set, is the shape every child must satisfy.
	Each *Shape

	// Text requires a text-only subtree with non-empty content.
	Text bool
}

// ShapeError describes the first place where a body departs from its Shape.
type ShapeError struct {
	Path     string
	Expected string
	Got      string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Path, e.Expected, e.Got)
}

// Detail returns the error in the form carried by a Failure.
func (e *ShapeError) Detail() map[string]any {
	return map[string]any{
		"path":     e.Path,
		"expected": e.Expected,
		"got":      e.Got,
	}
}

// MatchBody checks a shortcode body, treating the body as the children of
// a virtual root described by s.
func MatchBody(body []*Node, s Shape) *ShapeError {
	return matchChildren("body", body, &s)
}

func matchChildren(path string, children []*Node, s *Shape) *ShapeError {
	if s.Children != nil && !s.Children.Allows(len(children)) {
		return &ShapeError{
			Path:     path,
			Expected: fmt.Sprintf("%s %s", s.Children, childNoun(s.Each)),
			Got:      fmt.Sprintf("%d", len(children)),
		}
	}
	if s.Each == nil {
		return nil
	}
	for i, c := range children {
		if err := matchNode(fmt.Sprintf("%s[%d]", path, i), c, s.Each); err != nil {
			return err
		}
	}
	return nil
}

func matchNode(path string, n *Node, s *Shape) *ShapeError {
	if s.Tag != "" {
		if n.Kind != KindElement || n.Tag != s.Tag {
			return &ShapeError{Path: path, Expected: "<" + s.Tag + ">", Got: n.Describe()}
		}
	}
	if s.Class != "" {
		if class, _ := n.Attr("class"); class != s.Class {
			return &ShapeError{Path: path + ".class", Expected: fmt.Sprintf("%q", s.Class), Got: fmt.Sprintf("%q", class)}
		}
	}
	if s.ClassPrefix != "" {
		class, ok := n.Attr("class")
		switch {
		case !ok || !strings.HasPrefix(class, s.ClassPrefix):
			return &ShapeError{Path: path + ".class", Expected: fmt.Sprintf("a class starting with %q", s.ClassPrefix), Got: fmt.Sprintf("%q", class)}
		case len(class) == len(s.ClassPrefix):
			return &ShapeError{Path: path + ".class", Expected: fmt.Sprintf("a non-empty value after %q", s.ClassPrefix), Got: fmt.Sprintf("%q", class)}
		}
	}
	if s.Text {
		for _, c := range n.Children {
			if c.Kind != KindText {
				return &ShapeError{Path: path + ".children", Expected: "text only", Got: c.Describe()}
			}
		}
		if n.TextContent() == "" {
			return &ShapeError{Path: path + ".children", Expected: "non-empty text", Got: "nothing"}
		}
	}
	return matchChildren(path+".children", n.Children, s)
}

func childNoun(each *Shape) string {
	if each == nil || each.Tag == "" {
		return "nodes"
	}
	return "<" + each.Tag + "> nodes"
}

// AttrKind is the expected type of a shortcode attribute.
type AttrKind uint8

const (
	AttrString AttrKind = iota + 1
	AttrList
	AttrBool
	AttrInt
	AttrMatrix
)

func (k AttrKind) String() string {
	switch k {
	case AttrString:
		return "string"
	case AttrList:
		return "list"
	case AttrBool:
		return "bool"
	case AttrInt:
		return "integer"
	case AttrMatrix:
		return "list of lists"
	default:
		return "unknown"
	}
}

// AttrRule constrains one shortcode attribute.
type AttrRule struct {
	Name     string
	Kind     AttrKind
	Required bool

	// Missing is the failure reason reported when a required attribute is
	// absent or empty.
	Missing string

	// Count bounds the length of a list attribute.
	Count *Arity

	// CountReason is the failure reason reported when Count is violated.
	CountReason string
}

// Schema is the validation contract of one shortcode.
type Schema struct {
	Name string

	// Invalid is the failure reason reported on a body shape mismatch.
	Invalid string

	Body  Shape
	Attrs []AttrRule

	// Paired names a list attribute whose length must equal the number of
	// body sections. Labels pair with sections by position.
	Paired string

	// Mismatch is the failure reason reported when Paired disagrees with
	// the section count.
	Mismatch string

	// Project builds the widget from a call that passed validation.
	Project func(c Call, attrs Values) (Widget, *Failure)
}

func (s *Schema) rule(name string) (AttrRule, bool) {
	for _, r := range s.Attrs {
		if r.Name == name {
			return r, true
		}
	}
	return AttrRule{}, false
}

// ptr is a helper for declaring optional arities inline.
func ptr(a Arity) *Arity { return &a }
