package render

import (
	"bytes"
	"strings"

	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/util"
)

const mermaidLanguage = "mermaid"

// mermaidWrapper turns ```mermaid fences into divs that mermaid.js hydrates
// and writes plain pre/code wrappers for other unhighlighted fences.
func mermaidWrapper(w util.BufWriter, ctx highlighting.CodeBlockContext, entering bool) {
	if ctx.Highlighted() {
		return
	}

	lang, _ := ctx.Language()
	if strings.EqualFold(strings.TrimSpace(string(lang)), mermaidLanguage) {
		if entering {
			_, _ = w.WriteString(`<div class="mermaid">`)
		} else {
			_, _ = w.WriteString("</div>\n")
		}
		return
	}

	if entering {
		_, _ = w.WriteString("<pre><code")
		if len(bytes.TrimSpace(lang)) > 0 {
			_, _ = w.WriteString(` class="language-`)
			_, _ = w.Write(util.EscapeHTML(lang))
			_, _ = w.WriteString(`"`)
		}
		_, _ = w.WriteString(">")
		return
	}
	_, _ = w.WriteString("</code></pre>\n")
}
