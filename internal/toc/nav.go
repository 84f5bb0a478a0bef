package toc

import (
	"bytes"
	"html/template"
)

var navTmpl = template.Must(template.New("toc").Funcs(template.FuncMap{
	"indent": func(depth int) int { return (depth - 1) * 15 },
}).Parse(`<nav class="toc" aria-label="Table of contents">
<h4 class="toc-title">Table of contents</h4>
<ul>
{{- range $i, $h := .Headings}}
<li class="toc-entry{{if eq $i $.Active}} active{{end}}" style="padding-left: {{indent $h.Depth}}px"><a href="#{{$h.ID}}" data-index="{{$i}}">{{$h.Content}}</a></li>
{{- end}}
</ul>
</nav>`))

// RenderNav renders the table of contents for the indexed headings with the
// entry at active highlighted. It renders nothing when there are no
// indexed headings.
func RenderNav(headings []Heading, active int) template.HTML {
	indexed := Indexed(headings)
	if len(indexed) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := navTmpl.Execute(&buf, struct {
		Headings []Heading
		Active   int
	}{indexed, active}); err != nil {
		return ""
	}
	return template.HTML(buf.String())
}
