// Package site renders the content shell: navigation, theme, table of
// contents and page chrome around rendered notes. It serves both the live
// server and the static site build.
package site

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/mohitxskull/daa-notes/internal/content"
	"github.com/mohitxskull/daa-notes/internal/render"
	"github.com/mohitxskull/daa-notes/internal/slug"
	"github.com/mohitxskull/daa-notes/internal/theme"
	"github.com/mohitxskull/daa-notes/internal/toc"
)

// Mode tells the page script how the site is delivered.
type Mode string

const (
	ModeServe  Mode = "serve"
	ModeStatic Mode = "static"
)

// Message is a full-page notice shown in place of content.
type Message struct {
	Title       string
	Description string
}

var (
	MessageFailed   = Message{Title: "Failed to load content", Description: "Please try again later"}
	MessageNotFound = Message{Title: "No content found", Description: "Please try again later"}
)

// MessageFor maps a content error to its notice and HTTP status.
func MessageFor(err error) (Message, int) {
	switch {
	case errors.Is(err, content.ErrContentMissing):
		return MessageNotFound, http.StatusNotFound
	default:
		return MessageFailed, http.StatusBadGateway
	}
}

// ShellOptions configures a Shell.
type ShellOptions struct {
	SiteTitle    string
	RepoURL      string
	RepoBranch   string
	RepoDir      string // directory of the markdown sources inside the repository
	TOCThreshold float64
}

// Shell renders complete HTML documents.
type Shell struct {
	opts    ShellOptions
	nav     *content.Nav
	sidebar *Sidebar
	page    *template.Template
	index   *template.Template
}

// NewShell parses the page templates.
func NewShell(nav *content.Nav, opts ShellOptions) (*Shell, error) {
	if opts.SiteTitle == "" {
		opts.SiteTitle = "Design and Analysis of Algorithms"
	}
	if opts.RepoBranch == "" {
		opts.RepoBranch = "main"
	}
	if opts.TOCThreshold <= 0 {
		opts.TOCThreshold = toc.DefaultThreshold
	}

	page, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	index, err := template.New("index").Funcs(template.FuncMap{
		"slug": slug.Make,
		"href": func(route string) string { return route },
	}).Parse(indexContent)
	if err != nil {
		return nil, fmt.Errorf("parsing index template: %w", err)
	}

	return &Shell{
		opts:    opts,
		nav:     nav,
		sidebar: BuildSidebar(nav),
		page:    page,
		index:   index,
	}, nil
}

// View is what a caller knows about one page.
type View struct {
	Route   string
	Entry   *content.Entry
	Page    *render.Page
	Message *Message
	Mode    Mode
}

type pageData struct {
	Title        string
	Description  string
	SiteTitle    string
	Scheme       theme.Scheme
	MermaidTheme string
	Mode         Mode
	Route        string
	BasePath     string
	AssetBase    string
	HomeHref     string
	RepoURL      string
	EditURL      string
	Sidebar      template.HTML
	Content      template.HTML
	TOC          template.HTML
	Message      *Message
	TOCThreshold float64
}

// Render writes the document for v.
func (s *Shell) Render(w io.Writer, th *theme.Context, v View) error {
	if th == nil {
		th = theme.New(theme.Light)
	}
	basePath, assetBase := "", "/"
	if v.Mode == ModeStatic {
		basePath = basePathFor(v.Route)
		assetBase = basePath
	}

	data := pageData{
		SiteTitle:    s.opts.SiteTitle,
		Scheme:       th.Scheme,
		MermaidTheme: th.MermaidTheme(),
		Mode:         v.Mode,
		Route:        v.Route,
		BasePath:     basePath,
		AssetBase:    assetBase,
		HomeHref:     homeHref(basePath),
		RepoURL:      s.opts.RepoURL,
		Sidebar:      template.HTML(s.sidebar.ToHTML(v.Route, basePath)),
		Message:      v.Message,
		TOCThreshold: s.opts.TOCThreshold,
	}
	if v.Entry != nil {
		data.Title = v.Entry.Title
		data.Description = v.Entry.Description
	}
	if v.Page != nil && v.Message == nil {
		if v.Page.Title != "" {
			data.Title = v.Page.Title
		}
		data.Content = v.Page.HTML
		data.TOC = toc.RenderNav(v.Page.Headings, 0)
		if v.Entry != nil {
			data.EditURL = s.EditURL(*v.Entry)
		}
	}
	if v.Mode == ModeStatic {
		data.Content = template.HTML(rewriteRoutes(string(data.Content), s.nav, basePath))
	}

	if err := s.page.Execute(w, data); err != nil {
		return fmt.Errorf("rendering page %s: %w", v.Route, err)
	}
	return nil
}

// Asset returns the named stylesheet or script with its content type.
func Asset(name string) (body, contentType string, ok bool) {
	switch name {
	case "style.css":
		return cssContent, "text/css; charset=utf-8", true
	case "script.js":
		return jsContent, "text/javascript; charset=utf-8", true
	}
	return "", "", false
}

// IndexPage renders the landing page body, which lists every navigation
// group.
func (s *Shell) IndexPage() (*render.Page, error) {
	var buf bytes.Buffer
	if err := s.index.Execute(&buf, struct {
		SiteTitle string
		Groups    []content.Group
	}{s.opts.SiteTitle, s.nav.Groups()}); err != nil {
		return nil, fmt.Errorf("rendering index: %w", err)
	}
	headings, err := toc.CollectHTML(buf.String())
	if err != nil {
		return nil, err
	}
	return &render.Page{Title: s.opts.SiteTitle, HTML: template.HTML(buf.String()), Headings: headings}, nil
}

// EditURL links to the source of e in the repository, or "" without a
// repository URL.
func (s *Shell) EditURL(e content.Entry) string {
	if s.opts.RepoURL == "" {
		return ""
	}
	return strings.TrimRight(s.opts.RepoURL, "/") + "/edit/" + s.opts.RepoBranch + "/" +
		strings.TrimPrefix(path.Join(s.opts.RepoDir, e.Source), "/")
}

// rewriteRoutes turns absolute note links into relative file links for a
// static build.
func rewriteRoutes(body string, nav *content.Nav, basePath string) string {
	for _, e := range nav.Entries() {
		body = strings.ReplaceAll(body, `href="`+e.Route+`"`, `href="`+RouteHref(e.Route, basePath)+`"`)
		body = strings.ReplaceAll(body, `href="`+e.Route+`#`, `href="`+RouteHref(e.Route, basePath)+`#`)
	}
	return body
}
