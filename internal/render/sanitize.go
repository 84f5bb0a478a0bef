package render

import (
	"html"
	"html/template"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/mohitxskull/daa-notes/internal/shortcode"
)

// headingID matches the ids goldmark assigns through slugIDs.
var headingID = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// newPolicy returns the allow list for author markup inside shortcode
// bodies. Unknown elements are unwrapped; script-like elements vanish with
// their content. Inline styles and free-form ids are never kept.
func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"a", "abbr", "b", "blockquote", "br", "button", "caption", "code", "dd", "del",
		"details", "div", "dl", "dt", "em", "figcaption", "figure", "h1", "h2", "h3",
		"h4", "h5", "h6", "hr", "i", "img", "input", "kbd", "li", "mark", "ol", "p",
		"pre", "s", "section", "small", "span", "strong", "sub", "summary", "sup",
		"table", "tbody", "td", "tfoot", "th", "thead", "tr", "u", "ul",
	)
	p.SkipElementsContent("embed", "form", "select", "template", "textarea")

	p.AllowAttrs("class", "title", "role", "align").Globally()
	p.AllowAttrs("aria-label", "aria-hidden", "aria-expanded", "aria-controls", "aria-selected").Globally()
	p.AllowDataAttributes()
	p.AllowAttrs("id").Matching(headingID).OnElements("h1", "h2", "h3", "h4", "h5", "h6")

	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("src", "alt", "width", "height").OnElements("img")
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	p.AllowAttrs("start").OnElements("ol")
	p.AllowAttrs("open").OnElements("details")
	p.AllowAttrs("type", "checked", "disabled").OnElements("input")
	p.AllowAttrs("type", "disabled").OnElements("button")

	p.AllowURLSchemes("http", "https", "mailto")
	p.AllowRelativeURLs(true)
	return p
}

var voidTags = map[string]bool{"br": true, "hr": true, "img": true, "input": true}

// nodesHTML writes nodes back out as markup. Bodies reach it already
// sanitized, with nested widgets substituted in.
func nodesHTML(nodes []*shortcode.Node) template.HTML {
	var b strings.Builder
	for _, n := range nodes {
		writeNode(&b, n)
	}
	return template.HTML(b.String())
}

func writeNode(b *strings.Builder, n *shortcode.Node) {
	if n.Kind == shortcode.KindText {
		b.WriteString(html.EscapeString(n.Text))
		return
	}

	b.WriteByte('<')
	b.WriteString(n.Tag)
	for _, a := range n.Attrs {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Val))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	if voidTags[n.Tag] {
		return
	}
	for _, c := range n.Children {
		writeNode(b, c)
	}
	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteByte('>')
}
