package shortcode

import (
	"sort"
	"strings"

	"github.com/mohitxskull/daa-notes/internal/slug"
)

const languagePrefix = "language-"

// codeShape matches a fenced code block as rendered by goldmark:
// <pre><code class="language-go">...</code></pre>.
var codeShape = Shape{
	Tag:      "pre",
	Children: ptr(Exactly(1)),
	Each:     &Shape{Tag: "code", ClassPrefix: languagePrefix, Text: true},
}

var mermaidShape = Shape{
	Tag:      "pre",
	Children: ptr(Exactly(1)),
	Each:     &Shape{Tag: "code", Class: languagePrefix + "mermaid", Text: true},
}

var registry = map[string]*Schema{}

func register(s *Schema) {
	if _, dup := registry[s.Name]; dup {
		panic("shortcode: duplicate schema " + s.Name)
	}
	registry[s.Name] = s
}

// Lookup returns the schema registered under name.
func Lookup(name string) (*Schema, bool) {
	s, ok := registry[name]
	return s, ok
}

// Names returns the registered shortcode names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func init() {
	register(&Schema{
		Name:    "code",
		Invalid: "Invalid code block",
		Body:    Shape{Children: ptr(Exactly(1)), Each: &codeShape},
		Project: func(c Call, _ Values) (Widget, *Failure) {
			lang, code := codeOf(c.Body[0])
			return CodeBlock{Language: lang, Code: code}, nil
		},
	})

	register(&Schema{
		Name:    "code-tabs",
		Invalid: "Invalid code block",
		Body:    Shape{Children: ptr(AtLeast(1)), Each: &codeShape},
		Attrs: []AttrRule{
			{Name: "files", Kind: AttrList, Required: true, Missing: "File names are missing"},
			{Name: "expandable", Kind: AttrBool},
		},
		Paired:   "files",
		Mismatch: "Code blocks and file names count mismatch",
		Project: func(c Call, v Values) (Widget, *Failure) {
			files := v.List("files")
			w := CodeTabs{Expandable: v.Bool("expandable")}
			for i, n := range c.Body {
				lang, code := codeOf(n)
				name := files[i] + "." + lang
				w.Tabs = append(w.Tabs, CodeTab{
					FileName: name,
					Key:      slug.Make(name),
					Language: lang,
					Code:     code,
				})
			}
			return w, nil
		},
	})

	register(&Schema{
		Name:    "mermaid",
		Invalid: "Invalid code block",
		Body:    Shape{Children: ptr(Exactly(1)), Each: &codeShape},
		Project: func(c Call, _ Values) (Widget, *Failure) {
			lang, chart := codeOf(c.Body[0])
			if lang != "mermaid" {
				return nil, fail(c, CodeShapeMismatch, "Invalid language, it should be mermaid", map[string]any{
					"language": lang,
				})
			}
			return Diagram{Chart: chart}, nil
		},
	})

	register(&Schema{
		Name:    "mermaid-tabs",
		Invalid: "Invalid mermaid block",
		Body:    Shape{Children: ptr(AtLeast(1)), Each: &mermaidShape},
		Attrs: []AttrRule{
			{Name: "titles", Kind: AttrList, Required: true, Missing: "Titles are missing"},
		},
		Paired:   "titles",
		Mismatch: "Number of diagrams and titles do not match",
		Project: func(c Call, v Values) (Widget, *Failure) {
			titles := v.List("titles")
			var w DiagramTabs
			for i, n := range c.Body {
				_, chart := codeOf(n)
				w.Tabs = append(w.Tabs, DiagramTab{Label: titles[i], Key: slug.Make(titles[i]), Chart: chart})
			}
			return w, nil
		},
	})

	register(&Schema{
		Name:    "comparison",
		Invalid: "Invalid comparison block",
		Body: Shape{
			Children: ptr(AtLeast(1)),
			Each: &Shape{
				Tag:      "div",
				Children: ptr(Exactly(2)),
				Each:     &Shape{Tag: "div"},
			},
		},
		Attrs: []AttrRule{
			{
				Name:        "titles",
				Kind:        AttrList,
				Required:    true,
				Missing:     "Titles are missing",
				Count:       ptr(Exactly(2)),
				CountReason: "Comparison needs exactly 2 titles",
			},
		},
		Project: func(c Call, v Values) (Widget, *Failure) {
			titles := v.List("titles")
			w := Comparison{Titles: [2]string{titles[0], titles[1]}}
			for _, row := range c.Body {
				w.Rows = append(w.Rows, ComparisonRow{
					Left:  row.Children[0].Children,
					Right: row.Children[1].Children,
				})
			}
			return w, nil
		},
	})

	register(&Schema{
		Name:    "tabs",
		Invalid: "Invalid tabs block",
		Body:    Shape{Children: ptr(AtLeast(2)), Each: &Shape{Tag: "div"}},
		Attrs: []AttrRule{
			{Name: "titles", Kind: AttrList, Required: true, Missing: "Titles are missing"},
		},
		Paired:   "titles",
		Mismatch: "Number of tabs and titles do not match",
		Project: func(c Call, v Values) (Widget, *Failure) {
			titles := v.List("titles")
			var w Tabs
			for i, n := range c.Body {
				w.Panels = append(w.Panels, Panel{Label: titles[i], Key: slug.Make(titles[i]), Body: n.Children})
			}
			return w, nil
		},
	})

	register(&Schema{
		Name:    "accordion",
		Invalid: "Invalid accordion block",
		Body:    Shape{Children: ptr(AnyCount)},
		Attrs: []AttrRule{
			{Name: "title", Kind: AttrString, Required: true, Missing: "Title is missing"},
		},
		Project: func(c Call, v Values) (Widget, *Failure) {
			return Accordion{Title: v.String("title"), Body: c.Body}, nil
		},
	})

	register(&Schema{
		Name:    "tags",
		Invalid: "Invalid tag list",
		Body:    Shape{Children: ptr(Exactly(0))},
		Attrs: []AttrRule{
			{Name: "data", Kind: AttrList, Required: true, Missing: "Data is missing"},
		},
		Project: func(c Call, v Values) (Widget, *Failure) {
			return TagList{Tags: v.List("data")}, nil
		},
	})

	register(&Schema{
		Name:    "hover-card",
		Invalid: "Invalid hover card block",
		Body:    Shape{Children: ptr(AtLeast(1))},
		Attrs: []AttrRule{
			{Name: "data", Kind: AttrString, Required: true, Missing: "Hover card data is missing"},
			{Name: "width", Kind: AttrInt},
		},
		Project: func(c Call, v Values) (Widget, *Failure) {
			return HoverCard{Target: c.Body, Dropdown: v.String("data"), Width: v.Int("width", 280)}, nil
		},
	})

	register(&Schema{
		Name:    "chessboard",
		Invalid: "Invalid chessboard block",
		Body:    Shape{Children: ptr(Exactly(0))},
		Attrs: []AttrRule{
			{Name: "data", Kind: AttrMatrix, Required: true, Missing: "Data is missing"},
		},
		Project: projectChessBoard,
	})
}

const fileLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

func projectChessBoard(c Call, v Values) (Widget, *Failure) {
	rows := v.Matrix("data")
	width := len(rows[0])
	for i, r := range rows {
		if len(r) != width {
			return nil, fail(c, CodeCountMismatch, "Chessboard rows differ in width", map[string]any{
				"row":           i + 1,
				"expectedWidth": width,
				"width":         len(r),
			})
		}
	}
	if width == 0 || width > len(fileLetters) {
		return nil, fail(c, CodeCountMismatch, "Chessboard width out of range", map[string]any{
			"width": width,
			"max":   len(fileLetters),
		})
	}
	files := make([]string, width)
	for i := range files {
		files[i] = fileLetters[i : i+1]
	}
	return ChessBoard{Rows: rows, Files: files}, nil
}

// codeOf extracts the language and source of a node that matched codeShape.
func codeOf(pre *Node) (lang, code string) {
	c := pre.Children[0]
	class, _ := c.Attr("class")
	return strings.TrimPrefix(class, languagePrefix), strings.TrimSuffix(c.TextContent(), "\n")
}
