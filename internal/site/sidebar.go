package site

import (
	"fmt"
	"html"
	"strings"

	"github.com/mohitxskull/daa-notes/internal/content"
)

// Sidebar is the navigation shown on every page: one section per group.
type Sidebar struct {
	Groups []content.Group
}

// BuildSidebar groups the entries of nav for display.
func BuildSidebar(nav *content.Nav) *Sidebar {
	return &Sidebar{Groups: nav.Groups()}
}

// ToHTML renders the sidebar with activeRoute highlighted. basePath is the
// relative prefix back to the site root in a static build, or "" when the
// pages are served.
func (s *Sidebar) ToHTML(activeRoute, basePath string) string {
	var b strings.Builder
	homeActive := ""
	if activeRoute == "/" {
		homeActive = ` class="active"`
	}
	fmt.Fprintf(&b, `<ul><li class="nav-home"><a href="%s"%s>Home</a></li></ul>`+"\n", html.EscapeString(homeHref(basePath)), homeActive)

	for _, g := range s.Groups {
		fmt.Fprintf(&b, `<h4 class="nav-group">%s</h4>`+"\n", html.EscapeString(g.Name))
		b.WriteString("<ul>\n")
		for _, e := range g.Entries {
			active := ""
			if e.Route == activeRoute {
				active = ` class="active" aria-current="page"`
			}
			fmt.Fprintf(&b, `<li><a href="%s"%s title="%s">%s</a></li>`+"\n",
				html.EscapeString(RouteHref(e.Route, basePath)), active,
				html.EscapeString(e.Description), html.EscapeString(e.Title))
		}
		b.WriteString("</ul>\n")
	}
	return b.String()
}

// RouteHref is the link to route from a page at basePath.
func RouteHref(route, basePath string) string {
	if basePath == "" {
		return route
	}
	return basePath + strings.Trim(route, "/") + "/index.html"
}

func homeHref(basePath string) string {
	if basePath == "" {
		return "/"
	}
	return basePath + "index.html"
}

// basePathFor returns the relative prefix from the page written for route
// back to the output root.
func basePathFor(route string) string {
	route = strings.Trim(route, "/")
	if route == "" {
		return "./"
	}
	return strings.Repeat("../", strings.Count(route, "/")+1)
}
