package site

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mohitxskull/daa-notes/internal/content"
	"github.com/mohitxskull/daa-notes/internal/progress"
	"github.com/mohitxskull/daa-notes/internal/render"
	"github.com/mohitxskull/daa-notes/internal/shortcode"
	"github.com/mohitxskull/daa-notes/internal/theme"
)

// Generator writes every navigable page to a static site.
type Generator struct {
	Fetcher   *content.Fetcher
	Renderer  *render.Renderer
	Shell     *Shell
	OutputDir string
	Theme     *theme.Context
	Reporter  progress.Reporter
	Logger    *slog.Logger
}

// PageResult is the outcome of building one page.
type PageResult struct {
	Route    string
	Path     string
	Bytes    int
	Err      error
	Failures []*shortcode.Failure
}

// BuildResult summarizes a build.
type BuildResult struct {
	Pages []PageResult
}

// Errors counts pages whose content could not be loaded.
func (r *BuildResult) Errors() int {
	n := 0
	for _, p := range r.Pages {
		if p.Err != nil {
			n++
		}
	}
	return n
}

// Failures counts shortcode failures over all pages.
func (r *BuildResult) Failures() int {
	n := 0
	for _, p := range r.Pages {
		n += len(p.Failures)
	}
	return n
}

// Generate builds the site. Pages whose content fails to load are written
// with a notice and reported in the result; only file system errors abort
// the build.
func (g *Generator) Generate(ctx context.Context) (*BuildResult, error) {
	log := g.Logger
	if log == nil {
		log = slog.Default()
	}
	th := g.Theme
	if th == nil {
		th = theme.New(theme.Light)
	}
	rep := g.Reporter
	if rep == nil {
		rep = progress.Discard()
	}
	nav := g.Fetcher.Nav()
	entries := nav.Entries()

	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}
	for _, name := range []string{"style.css", "script.js"} {
		body, _, _ := Asset(name)
		if err := os.WriteFile(filepath.Join(g.OutputDir, name), []byte(body), 0o644); err != nil {
			return nil, err
		}
	}

	res := &BuildResult{}
	pages := make(map[string]*render.Page, len(entries))

	rep.Start(len(entries) + 1)
	for i, e := range entries {
		rep.Update(i, e.Route)
		pr, page, err := g.buildPage(ctx, th, e)
		if err != nil {
			return nil, err
		}
		if pr.Err != nil {
			log.Warn("build: content unavailable", "route", e.Route, "error", pr.Err)
		}
		for _, f := range pr.Failures {
			log.Warn("build: shortcode failure", "route", e.Route, "shortcode", f.Shortcode, "reason", f.Reason, "line", f.Line)
		}
		if page != nil {
			pages[e.Route] = page
		}
		res.Pages = append(res.Pages, pr)
	}

	rep.Update(len(entries), "index")
	index, err := g.Shell.IndexPage()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := g.Shell.Render(&buf, th, View{Route: "/", Page: index, Mode: ModeStatic}); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(g.OutputDir, "index.html"), buf.Bytes(), 0o644); err != nil {
		return nil, err
	}

	if err := WriteSearchIndex(BuildSearchIndex(nav, pages, "./"), filepath.Join(g.OutputDir, "search-index.json")); err != nil {
		return nil, fmt.Errorf("writing search index: %w", err)
	}
	rep.Finish()
	return res, nil
}

func (g *Generator) buildPage(ctx context.Context, th *theme.Context, e content.Entry) (PageResult, *render.Page, error) {
	pr := PageResult{
		Route: e.Route,
		Path:  filepath.Join(g.OutputDir, filepath.FromSlash(strings.Trim(e.Route, "/")), "index.html"),
	}
	view := View{Route: e.Route, Entry: &e, Mode: ModeStatic}

	doc, err := g.Fetcher.Fetch(ctx, e.Route)
	if err == nil {
		view.Page, err = g.Renderer.Render(th, doc.Body)
	}
	if err != nil {
		pr.Err = err
		msg, _ := MessageFor(err)
		view.Message = &msg
	} else {
		pr.Failures = view.Page.Failures
	}

	var buf bytes.Buffer
	if err := g.Shell.Render(&buf, th, view); err != nil {
		return pr, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(pr.Path), 0o755); err != nil {
		return pr, nil, err
	}
	if err := os.WriteFile(pr.Path, buf.Bytes(), 0o644); err != nil {
		return pr, nil, err
	}
	pr.Bytes = buf.Len()
	return pr, view.Page, nil
}
