package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mohitxskull/daa-notes/internal/content"
	"github.com/mohitxskull/daa-notes/internal/render"
	"github.com/mohitxskull/daa-notes/internal/site"
	"github.com/mohitxskull/daa-notes/internal/theme"
	"github.com/mohitxskull/daa-notes/internal/toc"
)

// renderRoute fetches and renders the page at route.
func (s *Server) renderRoute(ctx context.Context, th *theme.Context, route string) (*content.Document, *render.Page, error) {
	doc, err := s.fetcher.Fetch(ctx, route)
	if err != nil {
		return nil, nil, err
	}
	page, err := s.renderer.Render(th, doc.Body)
	if err != nil {
		return doc, nil, err
	}
	return doc, page, nil
}

// headings feeds the live table of contents.
func (s *Server) headings(ctx context.Context, route string) ([]toc.Heading, error) {
	_, page, err := s.renderRoute(ctx, theme.New(s.cfg.DefaultScheme), route)
	if err != nil {
		return nil, err
	}
	return page.Headings, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := s.shell.IndexPage()
	if err != nil {
		s.log.Error("rendering index", "error", err)
		s.writeMessage(w, r, "/", site.MessageFailed, http.StatusInternalServerError)
		return
	}
	s.writePage(w, r, http.StatusOK, site.View{Route: "/", Page: page, Mode: site.ModeServe})
}

// handleNotesRoot sends /notes to the first page of the navigation.
func (s *Server) handleNotesRoot(w http.ResponseWriter, r *http.Request) {
	first, ok := s.fetcher.Nav().First()
	if !ok {
		s.writeMessage(w, r, r.URL.Path, site.MessageNotFound, http.StatusNotFound)
		return
	}
	http.Redirect(w, r, first.Route, http.StatusFound)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	route := strings.TrimRight(r.URL.Path, "/")
	th := theme.FromContext(r.Context())

	doc, page, err := s.renderRoute(r.Context(), th, route)
	if err != nil {
		msg, status := site.MessageFor(err)
		if doc != nil {
			msg, status = site.MessageFailed, http.StatusInternalServerError
		}
		s.log.Warn("page unavailable", "route", route, "status", status, "error", err)
		s.writeMessage(w, r, route, msg, status)
		return
	}

	entry := doc.Entry
	s.writePage(w, r, http.StatusOK, site.View{Route: route, Entry: &entry, Page: page, Mode: site.ModeServe})
}

func (s *Server) writeMessage(w http.ResponseWriter, r *http.Request, route string, msg site.Message, status int) {
	v := site.View{Route: route, Message: &msg, Mode: site.ModeServe}
	if e, ok := s.fetcher.Nav().Lookup(route); ok {
		v.Entry = &e
	}
	s.writePage(w, r, status, v)
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, status int, v site.View) {
	var buf bytes.Buffer
	if err := s.shell.Render(&buf, theme.FromContext(r.Context()), v); err != nil {
		s.log.Error("rendering shell", "route", v.Route, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (s *Server) handleAsset(name string) http.HandlerFunc {
	body, contentType, _ := site.Asset(name)
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Write([]byte(body))
	}
}

// handleSearch answers the spotlight search. An empty query lists every
// page.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	nav := s.fetcher.Nav()
	q := strings.TrimSpace(r.URL.Query().Get("q"))

	entries := nav.Entries()
	if q != "" {
		entries = nav.Search(q)
	}
	results := make([]site.SearchEntry, 0, len(entries))
	for _, e := range entries {
		results = append(results, site.NewSearchEntry(e, nil, ""))
	}
	writeJSON(w, http.StatusOK, results)
}

type tocResponse struct {
	Route     string        `json:"route"`
	Threshold float64       `json:"threshold"`
	Headings  []toc.Heading `json:"headings"`
}

// handleTOC lists the indexed headings of a page.
func (s *Server) handleTOC(w http.ResponseWriter, r *http.Request) {
	route := strings.TrimRight(r.URL.Query().Get("route"), "/")
	if route == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "route is required"})
		return
	}
	headings, err := s.headings(r.Context(), route)
	if err != nil {
		msg, status := site.MessageFor(err)
		writeJSON(w, status, map[string]string{"error": msg.Title})
		return
	}
	threshold := s.cfg.TOCThreshold
	if threshold <= 0 {
		threshold = toc.DefaultThreshold
	}
	indexed := toc.Indexed(headings)
	if indexed == nil {
		indexed = []toc.Heading{}
	}
	writeJSON(w, http.StatusOK, tocResponse{Route: route, Threshold: threshold, Headings: indexed})
}

// handleTheme flips the reader's scheme.
func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	th := theme.FromContext(r.Context())
	th.Toggle()
	th.Write(w)
	writeJSON(w, http.StatusOK, map[string]string{"scheme": string(th.Scheme)})
}

// handleInvalidate drops cached sources: one when ?source= is given,
// otherwise all of them.
func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	if src := r.URL.Query().Get("source"); src != "" {
		writeJSON(w, http.StatusOK, map[string]bool{"invalidated": s.fetcher.Invalidate(src)})
		return
	}
	s.fetcher.InvalidateAll()
	writeJSON(w, http.StatusOK, map[string]bool{"invalidated": true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
