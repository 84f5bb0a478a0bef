// Package toc collects the headings of a rendered page and tracks which one
// the reader is looking at.
package toc

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const headingSelector = "h1[id], h2[id], h3[id], h4[id], h5[id], h6[id]"

// Heading is one entry of the table of contents. Depth 0 marks headings that
// are rendered but not indexed (the page title, or data-toc="false").
type Heading struct {
	ID      string     `json:"id"`
	Depth   int        `json:"depth"`
	Content string     `json:"content"`
	Node    *html.Node `json:"-"`
}

// Collect returns the headings of doc in document order.
func Collect(doc *goquery.Document) []Heading {
	var out []Heading
	doc.Find(headingSelector).Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		if id == "" {
			return
		}
		h := Heading{
			ID:      id,
			Depth:   depthOf(goquery.NodeName(s)),
			Content: strings.TrimSpace(s.Text()),
			Node:    s.Get(0),
		}
		if v, ok := s.Attr("data-toc"); ok && v == "false" {
			h.Depth = 0
		}
		out = append(out, h)
	})
	return out
}

// CollectHTML parses src and collects its headings.
func CollectHTML(src string) ([]Heading, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parsing page html: %w", err)
	}
	return Collect(doc), nil
}

// Indexed drops headings with a non-positive depth.
func Indexed(headings []Heading) []Heading {
	out := make([]Heading, 0, len(headings))
	for _, h := range headings {
		if h.Depth > 0 {
			out = append(out, h)
		}
	}
	return out
}

// h1 is depth 0, h2 is depth 1 and so on.
func depthOf(tag string) int {
	if len(tag) != 2 || tag[0] != 'h' || tag[1] < '1' || tag[1] > '6' {
		return 0
	}
	return int(tag[1]-'1')
}
