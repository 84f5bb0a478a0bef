package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/mohitxskull/daa-notes/internal/highlight"
	"github.com/mohitxskull/daa-notes/internal/shortcode"
)

var widgetTmpl = template.Must(template.New("widgets").Parse(`
{{define "code"}}<div class="mdx-code" data-language="{{.Language}}">{{.Code}}</div>{{end}}

{{define "code-tabs"}}<div class="mdx-tabs mdx-code-tabs{{if .Expandable}} expandable{{end}}" id="{{.ID}}" data-tabs>
<div class="mdx-tab-list" role="tablist">
{{- range $i, $t := .Tabs}}<button type="button" role="tab" class="mdx-tab{{if eq $i 0}} active{{end}}" data-tab="{{$t.Key}}">{{$t.FileName}}</button>{{end -}}
</div>
{{- range $i, $t := .Tabs}}
<div class="mdx-tab-panel{{if ne $i 0}} hidden{{end}}" role="tabpanel" data-panel="{{$t.Key}}" data-language="{{$t.Language}}">{{$t.Code}}</div>
{{- end}}
{{- if .Expandable}}
<button type="button" class="mdx-expand" data-expand data-more="Show full code" data-less="Show less">Show full code</button>
{{- end}}
</div>{{end}}

{{define "mermaid"}}<div class="mermaid" data-theme="{{.Theme}}">{{.Chart}}</div>{{end}}

{{define "mermaid-tabs"}}<div class="mdx-tabs mdx-mermaid-tabs" id="{{.ID}}" data-tabs>
<div class="mdx-tab-list" role="tablist">
{{- range $i, $t := .Tabs}}<button type="button" role="tab" class="mdx-tab{{if eq $i 0}} active{{end}}" data-tab="{{$t.Key}}">{{$t.Label}}</button>{{end -}}
</div>
{{- range $i, $t := .Tabs}}
<div class="mdx-tab-panel{{if ne $i 0}} hidden{{end}}" role="tabpanel" data-panel="{{$t.Key}}"><div class="mermaid" data-theme="{{$.Theme}}">{{$t.Chart}}</div></div>
{{- end}}
</div>{{end}}

{{define "comparison"}}<div class="mdx-comparison">
<div class="mdx-comparison-row mdx-comparison-head"><div>{{index .Titles 0}}</div><div>{{index .Titles 1}}</div></div>
{{- range .Rows}}
<div class="mdx-comparison-row" data-row="{{.N}}">
<div class="mdx-comparison-cell"><span class="mdx-comparison-label">{{.N}}</span>{{.Left}}</div>
<div class="mdx-comparison-cell right"><span class="mdx-comparison-label">{{.N}}</span>{{.Right}}</div>
</div>
{{- end}}
</div>{{end}}

{{define "tabs"}}<div class="mdx-tabs" id="{{.ID}}" data-tabs>
<div class="mdx-tab-list" role="tablist">
{{- range $i, $p := .Panels}}<button type="button" role="tab" class="mdx-tab{{if eq $i 0}} active{{end}}" data-tab="{{$p.Key}}">{{$p.Label}}</button>{{end -}}
</div>
{{- range $i, $p := .Panels}}
<div class="mdx-tab-panel{{if ne $i 0}} hidden{{end}}" role="tabpanel" data-panel="{{$p.Key}}">{{$p.Body}}</div>
{{- end}}
</div>{{end}}

{{define "accordion"}}<details class="mdx-accordion"><summary>{{.Title}}</summary><div class="mdx-accordion-body">{{.Body}}</div></details>{{end}}

{{define "tags"}}<div class="mdx-tags">{{range .Tags}}<span class="mdx-tag">{{.}}</span>{{end}}</div>{{end}}

{{define "hover-card"}}<span class="mdx-hover-card"><span class="mdx-hover-target">{{.Target}}</span><span class="mdx-hover-dropdown" style="width: {{.Width}}px">{{.Dropdown}}</span></span>{{end}}

{{define "chessboard"}}<table class="mdx-chessboard">
<tbody>
{{- range .Rows}}
<tr><th scope="row">{{.Rank}}</th>{{range .Squares}}<td class="{{if .Dark}}dark{{else}}light{{end}}">{{.Piece}}</td>{{end}}</tr>
{{- end}}
</tbody>
<tfoot><tr><th></th>{{range .Files}}<th scope="col">{{.}}</th>{{end}}</tr></tfoot>
</table>{{end}}
`))

type codeTabView struct {
	Key      string
	FileName string
	Language string
	Code     template.HTML
}

type diagramTabView struct {
	Key   string
	Label string
	Chart string
}

type panelView struct {
	Key   string
	Label string
	Body  template.HTML
}

type rowView struct {
	N           int
	Left, Right template.HTML
}

type squareView struct {
	Piece string
	Dark  bool
}

type rankView struct {
	Rank    int
	Squares []squareView
}

// widget renders a resolved payload.
func (p *pass) widget(w shortcode.Widget) (template.HTML, error) {
	data, err := p.view(w)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := widgetTmpl.ExecuteTemplate(&buf, w.Shortcode(), data); err != nil {
		return "", fmt.Errorf("rendering %s widget: %w", w.Shortcode(), err)
	}
	return template.HTML(buf.String()), nil
}

func (p *pass) view(w shortcode.Widget) (any, error) {
	switch w := w.(type) {
	case shortcode.CodeBlock:
		return struct {
			Language string
			Code     template.HTML
		}{w.Language, p.code(w.Code, w.Language)}, nil

	case shortcode.CodeTabs:
		tabs := make([]codeTabView, len(w.Tabs))
		for i, t := range w.Tabs {
			tabs[i] = codeTabView{
				Key:      t.Key,
				FileName: t.FileName,
				Language: t.Language,
				Code:     p.code(t.Code, t.Language),
			}
		}
		return struct {
			ID         string
			Expandable bool
			Tabs       []codeTabView
		}{p.nextID("code-tabs"), w.Expandable, tabs}, nil

	case shortcode.Diagram:
		return struct{ Chart, Theme string }{w.Chart, p.th.MermaidTheme()}, nil

	case shortcode.DiagramTabs:
		tabs := make([]diagramTabView, len(w.Tabs))
		for i, t := range w.Tabs {
			tabs[i] = diagramTabView{Key: t.Key, Label: t.Label, Chart: t.Chart}
		}
		return struct {
			ID    string
			Theme string
			Tabs  []diagramTabView
		}{p.nextID("mermaid-tabs"), p.th.MermaidTheme(), tabs}, nil

	case shortcode.Comparison:
		rows := make([]rowView, len(w.Rows))
		for i, r := range w.Rows {
			rows[i] = rowView{N: i + 1, Left: nodesHTML(r.Left), Right: nodesHTML(r.Right)}
		}
		return struct {
			Titles [2]string
			Rows   []rowView
		}{w.Titles, rows}, nil

	case shortcode.Tabs:
		panels := make([]panelView, len(w.Panels))
		for i, pn := range w.Panels {
			panels[i] = panelView{Key: pn.Key, Label: pn.Label, Body: nodesHTML(pn.Body)}
		}
		return struct {
			ID     string
			Panels []panelView
		}{p.nextID("tabs"), panels}, nil

	case shortcode.Accordion:
		return struct {
			Title string
			Body  template.HTML
		}{w.Title, nodesHTML(w.Body)}, nil

	case shortcode.TagList:
		return w, nil

	case shortcode.HoverCard:
		return struct {
			Target   template.HTML
			Dropdown string
			Width    int
		}{nodesHTML(w.Target), w.Dropdown, w.Width}, nil

	case shortcode.ChessBoard:
		ranks := make([]rankView, len(w.Rows))
		for i, row := range w.Rows {
			r := rankView{Rank: i + 1, Squares: make([]squareView, len(row))}
			for j, piece := range row {
				r.Squares[j] = squareView{Piece: piece, Dark: (i+j)%2 == 1}
			}
			ranks[i] = r
		}
		return struct {
			Rows  []rankView
			Files []string
		}{ranks, w.Files}, nil

	default:
		return nil, fmt.Errorf("no renderer for %s widget", w.Shortcode())
	}
}

func (p *pass) code(src, lang string) template.HTML {
	out, err := highlight.HTML(src, lang, p.th.CodeStyle())
	if err != nil {
		p.r.log.Warn("render: highlighting failed", "language", lang, "error", err)
		return highlight.Escaped(src)
	}
	return out
}

func (p *pass) nextID(prefix string) string {
	p.ids++
	return fmt.Sprintf("%s-%d", prefix, p.ids)
}
