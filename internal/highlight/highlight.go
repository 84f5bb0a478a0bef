// Package highlight turns source text into inline-styled HTML with chroma.
package highlight

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// HTML highlights code written in lang using the named chroma style.
// Unknown languages fall back to plain text; unknown styles to chroma's default.
func HTML(code, lang, style string) (template.HTML, error) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenising %s: %w", lang, err)
	}

	var buf bytes.Buffer
	f := chromahtml.New(chromahtml.WithClasses(false), chromahtml.TabWidth(4))
	if err := f.Format(&buf, styles.Get(style), it); err != nil {
		return "", fmt.Errorf("formatting %s: %w", lang, err)
	}
	return template.HTML(buf.String()), nil
}

// Escaped is the fallback used when highlighting fails: the code in a plain
// pre block.
func Escaped(code string) template.HTML {
	return template.HTML("<pre><code>" + template.HTMLEscapeString(code) + "</code></pre>")
}
