// Package render converts markdown lecture notes into page HTML.
//
// Shortcode blocks are cut out of the markdown first, rendered and
// validated on their own, and substituted back into the goldmark output.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/microcosm-cc/bluemonday"

	"github.com/mohitxskull/daa-notes/internal/diag"
	"github.com/mohitxskull/daa-notes/internal/metrics"
	"github.com/mohitxskull/daa-notes/internal/shortcode"
	"github.com/mohitxskull/daa-notes/internal/slug"
	"github.com/mohitxskull/daa-notes/internal/theme"
	"github.com/mohitxskull/daa-notes/internal/toc"
)

// Page is the result of rendering one markdown document.
type Page struct {
	Title    string
	HTML     template.HTML
	Headings []toc.Heading
	Failures []*shortcode.Failure
}

// Options configures a Renderer.
type Options struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// Renderer renders markdown documents. It is safe for concurrent use.
type Renderer struct {
	docs     map[theme.Scheme]goldmark.Markdown
	body     goldmark.Markdown
	policy   *bluemonday.Policy
	resolver *shortcode.Resolver
	diag     *diag.Renderer
	log      *slog.Logger
	metrics  *metrics.Metrics
}

// New returns a Renderer.
func New(opts Options) *Renderer {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	r := &Renderer{
		docs:     make(map[theme.Scheme]goldmark.Markdown, 2),
		policy:   newPolicy(),
		resolver: shortcode.NewResolver(),
		diag:     diag.NewRenderer(log),
		log:      log,
		metrics:  opts.Metrics,
	}
	for _, s := range []theme.Scheme{theme.Light, theme.Dark} {
		r.docs[s] = newDocumentMarkdown(theme.New(s).CodeStyle())
	}
	// Shortcode bodies keep raw HTML and unhighlighted fences so their
	// structure can be validated. fragment sanitizes the output.
	r.body = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID(), parser.WithAttribute()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return r
}

func newDocumentMarkdown(style string) goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
				highlighting.WithFormatOptions(chromahtml.WithClasses(false)),
				highlighting.WithWrapperRenderer(mermaidWrapper),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithAttribute(),
		),
	)
}

// slugIDs gives every heading the slug of its text. Repeated headings share
// an id. value is raw source, so entity and numeric references are decoded
// first to match the slug of the rendered text.
type slugIDs struct{}

func (slugIDs) Generate(value []byte, _ ast.NodeKind) []byte {
	text := util.ResolveEntityNames(util.ResolveNumericReferences(value))
	return []byte(slug.Make(string(text)))
}

func (slugIDs) Put([]byte) {}

func parseContext() parser.ParseOption {
	return parser.WithContext(parser.NewContext(parser.WithIDs(slugIDs{})))
}

// pass holds the state of one Render call.
type pass struct {
	r        *Renderer
	th       *theme.Context
	ids      int
	failures []*shortcode.Failure
}

// Render converts src to HTML for the given theme. Shortcode failures do
// not fail the page; they are rendered in place and listed in
// Page.Failures.
func (r *Renderer) Render(th *theme.Context, src []byte) (*Page, error) {
	start := time.Now()
	if th == nil {
		th = theme.New(theme.Light)
	}
	p := &pass{r: r, th: th}

	text, blocks := shortcode.Scan(string(src), slot)
	var buf bytes.Buffer
	if err := r.docs[th.Scheme].Convert([]byte(text), &buf, parseContext()); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	out := p.substitute(buf.String(), blocks)

	headings, err := toc.CollectHTML(out)
	if err != nil {
		return nil, err
	}

	page := &Page{
		Title:    title(headings),
		HTML:     template.HTML(out),
		Headings: headings,
		Failures: p.failures,
	}
	if r.metrics != nil {
		r.metrics.PagesRenderedTotal.WithLabelValues(string(th.Scheme)).Inc()
		r.metrics.RenderDurationSeconds.Observe(time.Since(start).Seconds())
	}
	return page, nil
}

// RenderString is Render for callers holding a string.
func (r *Renderer) RenderString(th *theme.Context, src string) (*Page, error) {
	return r.Render(th, []byte(src))
}

func title(headings []toc.Heading) string {
	for _, h := range headings {
		if h.Node != nil && h.Node.Data == "h1" {
			return h.Content
		}
	}
	return ""
}

func slot(i int) string { return fmt.Sprintf("MDXSLOT%04dEND", i) }

// substitute replaces the placeholder paragraphs of out with the rendered
// blocks.
func (p *pass) substitute(out string, blocks []shortcode.Block) string {
	for i, b := range blocks {
		tok := slot(i)
		rendered := string(p.block(b))
		if para := "<p>" + tok + "</p>"; strings.Contains(out, para) {
			out = strings.Replace(out, para, rendered, 1)
		} else {
			out = strings.Replace(out, tok, rendered, 1)
		}
	}
	return out
}

// fragment renders a shortcode body, including nested shortcodes.
func (p *pass) fragment(src string) (string, error) {
	text, blocks := shortcode.Scan(src, slot)
	var buf bytes.Buffer
	if err := p.r.body.Convert([]byte(text), &buf, parseContext()); err != nil {
		return "", err
	}
	// Author markup is cleaned before nested widgets are substituted, so
	// widget output keeps its own ids and highlighting styles.
	return p.substitute(p.r.policy.Sanitize(buf.String()), blocks), nil
}

func (p *pass) block(b shortcode.Block) template.HTML {
	if b.Err != nil {
		return p.fail(&shortcode.Failure{
			Shortcode: b.Name,
			Code:      shortcode.CodeSyntax,
			Reason:    "Invalid shortcode syntax",
			Detail:    map[string]any{"error": b.Err.Error()},
			Raw:       b.Raw,
			Line:      b.Line,
		})
	}

	inner, err := p.fragment(b.Body)
	if err != nil {
		return p.fail(p.internal(b, "Body could not be rendered", err))
	}
	nodes, err := shortcode.ParseHTML(inner)
	if err != nil {
		return p.fail(p.internal(b, "Body could not be parsed", err))
	}

	res := p.r.resolver.Resolve(shortcode.Call{
		Name:  b.Name,
		Attrs: b.Attrs,
		Body:  nodes,
		Raw:   b.Raw,
		Line:  b.Line,
	})
	switch res := res.(type) {
	case shortcode.Success:
		out, err := p.widget(res.Widget)
		if err != nil {
			return p.fail(p.internal(b, "Widget could not be rendered", err))
		}
		p.count(b.Name, "ok")
		return out
	case *shortcode.Failure:
		return p.fail(res)
	default:
		return p.fail(p.internal(b, "Unexpected validation result", fmt.Errorf("%T", res)))
	}
}

func (p *pass) internal(b shortcode.Block, reason string, err error) *shortcode.Failure {
	return &shortcode.Failure{
		Shortcode: b.Name,
		Code:      shortcode.CodeShapeMismatch,
		Reason:    reason,
		Detail:    map[string]any{"error": err.Error()},
		Raw:       b.Raw,
		Line:      b.Line,
	}
}

func (p *pass) fail(f *shortcode.Failure) template.HTML {
	p.failures = append(p.failures, f)
	p.count(f.Shortcode, string(f.Code))
	return p.r.diag.Render(p.th, f)
}

func (p *pass) count(name, result string) {
	if p.r.metrics != nil {
		p.r.metrics.ShortcodesTotal.WithLabelValues(name, result).Inc()
	}
}
