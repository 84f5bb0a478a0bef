package site

import (
	"encoding/json"
	"os"

	"github.com/mohitxskull/daa-notes/internal/content"
	"github.com/mohitxskull/daa-notes/internal/render"
	"github.com/mohitxskull/daa-notes/internal/toc"
)

// SearchEntry is one result of the spotlight search.
type SearchEntry struct {
	Href        string   `json:"href"`
	Route       string   `json:"route"`
	Title       string   `json:"title"`
	Group       string   `json:"group"`
	Description string   `json:"description,omitempty"`
	Headings    []string `json:"headings,omitempty"`
}

// NewSearchEntry describes e, linking from basePath. page may be nil when
// the page has not been rendered.
func NewSearchEntry(e content.Entry, page *render.Page, basePath string) SearchEntry {
	s := SearchEntry{
		Href:        RouteHref(e.Route, basePath),
		Route:       e.Route,
		Title:       e.Title,
		Group:       e.Group,
		Description: e.Description,
	}
	if page != nil {
		for _, h := range toc.Indexed(page.Headings) {
			s.Headings = append(s.Headings, h.Content)
		}
	}
	return s
}

// BuildSearchIndex describes every entry of nav. pages holds the rendered
// pages by route.
func BuildSearchIndex(nav *content.Nav, pages map[string]*render.Page, basePath string) []SearchEntry {
	entries := make([]SearchEntry, 0, len(nav.Entries()))
	for _, e := range nav.Entries() {
		entries = append(entries, NewSearchEntry(e, pages[e.Route], basePath))
	}
	return entries
}

// WriteSearchIndex writes the search index as JSON to the given path.
func WriteSearchIndex(entries []SearchEntry, outputPath string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}
